package location

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/ent0n29/samvad/internal/taxonomy"
)

// phoneticIndex matches misheard area names ("alkapoori", "sayajiganj")
// against the known-areas table. A candidate must share a Double Metaphone
// code with the input window and reach the Jaro-Winkler threshold; the best
// score wins and ties keep table order.
//
// Areas with k words are compared against every k-word window of the input,
// so a shared trailing word such as "road" alone never produces a match.
type phoneticIndex struct {
	threshold float64
	entries   []phoneticEntry
}

type phoneticEntry struct {
	area   taxonomy.Area
	words  int
	concat string
	codes  map[string]struct{}
}

func newPhoneticIndex(areas []taxonomy.Area, threshold float64) *phoneticIndex {
	idx := &phoneticIndex{threshold: threshold}
	for _, a := range areas {
		tokens := strings.Fields(a.Name)
		if len(tokens) == 0 {
			continue
		}
		idx.entries = append(idx.entries, phoneticEntry{
			area:   a,
			words:  len(tokens),
			concat: strings.Join(tokens, ""),
			codes:  codesForTokens(tokens),
		})
	}
	return idx
}

func (p *phoneticIndex) match(normalized string) (taxonomy.Area, bool) {
	tokens := strings.Fields(normalized)
	var (
		best      taxonomy.Area
		bestScore float64
	)
	for _, e := range p.entries {
		if len(tokens) < e.words {
			continue
		}
		for i := 0; i+e.words <= len(tokens); i++ {
			window := tokens[i : i+e.words]
			if !codesOverlap(codesForTokens(window), e.codes) {
				continue
			}
			score := matchr.JaroWinkler(strings.Join(window, ""), e.concat, false)
			if score >= p.threshold && score > bestScore {
				best, bestScore = e.area, score
			}
		}
	}
	return best, bestScore > 0
}

func codesForTokens(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		primary, secondary := matchr.DoubleMetaphone(t)
		if primary != "" {
			codes[primary] = struct{}{}
		}
		if secondary != "" {
			codes[secondary] = struct{}{}
		}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
