// Package extract implements the stateless text detectors used by the IVR:
// language, category, sub-category, phone number, ward and zone.
//
// Every detector is a pure function of its input and the taxonomy tables.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ent0n29/samvad/internal/taxonomy"
)

// Confidence ranks how much of the taxonomy a detection resolved.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

var romanizedHindi = []*regexp.Regexp{
	regexp.MustCompile(`\b(hai|nahi|kya|mein|ko|ka|ki|ke|aur|yeh|woh|kaise|kab|kahan|kripya)\b`),
	regexp.MustCompile(`\b(haan|ji|theek|sahi|galat|band|chalu|kharab|kaam|bol|bolo|suniye)\b`),
}

// DetectLanguage returns Hindi when the text contains Devanagari or a common
// Romanized Hindi function word, English otherwise. The script check runs
// first.
func DetectLanguage(text string) taxonomy.Language {
	for _, r := range text {
		if unicode.In(r, unicode.Devanagari) {
			return taxonomy.Hindi
		}
	}
	lower := strings.ToLower(text)
	for _, re := range romanizedHindi {
		if re.MatchString(lower) {
			return taxonomy.Hindi
		}
	}
	return taxonomy.English
}

// DetectCategory scores every category by the number of its keywords (all
// languages) found in text and returns the strictly highest scorer. Ties go
// to the category listed first in the taxonomy. ok is false when nothing
// matched.
func DetectCategory(tax *taxonomy.Taxonomy, text string) (category taxonomy.Category, score int, ok bool) {
	in := taxonomy.Normalize(text)
	if in == "" {
		return "", 0, false
	}
	for _, c := range tax.Categories() {
		n := 0
		for _, lang := range taxonomy.Languages {
			for _, kw := range c.Keywords[lang] {
				if strings.Contains(in, kw) {
					n++
				}
			}
		}
		if n > score {
			category, score = c.Name, n
		}
	}
	return category, score, score > 0
}

// DetectSubCategory returns the first sub-category of category, in table
// order, with any keyword present in text. Unlike DetectCategory it does not
// rank: the first hit wins.
func DetectSubCategory(tax *taxonomy.Taxonomy, category taxonomy.Category, text string) (string, bool) {
	in := taxonomy.Normalize(text)
	if in == "" {
		return "", false
	}
	for _, sub := range tax.SubCategories(category) {
		for _, kw := range sub.Keywords {
			if strings.Contains(in, kw) {
				return sub.ID, true
			}
		}
	}
	return "", false
}

// Detection is the combined category and sub-category result for a text.
type Detection struct {
	Category    taxonomy.Category `json:"complaint_type,omitempty"`
	Score       int               `json:"score"`
	SubCategory string            `json:"sub_category,omitempty"`
	Confidence  Confidence        `json:"confidence"`
}

// Detect runs category then sub-category detection and rates the result.
func Detect(tax *taxonomy.Taxonomy, text string) Detection {
	cat, score, ok := DetectCategory(tax, text)
	if !ok {
		return Detection{Confidence: ConfidenceLow}
	}
	d := Detection{Category: cat, Score: score, Confidence: ConfidenceMedium}
	if sub, ok := DetectSubCategory(tax, cat, text); ok {
		d.SubCategory = sub
		d.Confidence = ConfidenceHigh
	}
	return d
}

var (
	phoneSeparators = regexp.MustCompile(`[\s\-.]`)
	phoneWithCode   = regexp.MustCompile(`(?:\+91)?(\d{10})`)
)

// ExtractPhone strips whitespace, hyphens and periods, then returns the first
// ten-digit run, skipping an optional +91 prefix.
func ExtractPhone(text string) (string, bool) {
	cleaned := phoneSeparators.ReplaceAllString(text, "")
	if m := phoneWithCode.FindStringSubmatch(cleaned); m != nil {
		return m[1], true
	}
	return "", false
}

var wardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ward\s*(?:no\.?\s*)?(\d+)`),
	regexp.MustCompile(`वार्ड\s*(?:नं\.?\s*)?(\d+)`),
}

// ExtractWard finds an explicit ward mention ("ward 5", "ward no. 12",
// "वार्ड 3") whose number lies in the deployment's ward range and returns it
// formatted as "Ward N".
func ExtractWard(tax *taxonomy.Taxonomy, text string) (string, bool) {
	lo, hi := tax.WardRange()
	in := taxonomy.Normalize(text)
	for _, re := range wardPatterns {
		for _, m := range re.FindAllStringSubmatch(in, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < lo || n > hi {
				continue
			}
			return taxonomy.WardName(n), true
		}
	}
	return "", false
}

// ExtractZone returns the first zone, in enumeration order, with a name or
// localized synonym contained in text.
func ExtractZone(tax *taxonomy.Taxonomy, text string) (string, bool) {
	in := taxonomy.Normalize(text)
	if in == "" {
		return "", false
	}
	for _, z := range tax.Zones() {
		for _, syn := range z.Synonyms {
			if strings.Contains(in, syn) {
				return z.Name, true
			}
		}
	}
	return "", false
}
