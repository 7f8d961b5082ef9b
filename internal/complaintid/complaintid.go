// Package complaintid builds human-readable complaint identifiers of the form
// PREFIX-CODE-YYYYMMDDHHMMSSNNN, e.g. VMC-SL-20250114093012001.
package complaintid

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	DefaultPrefix = "VMC"
	timeLayout    = "20060102150405"
	maxSequence   = 999
)

var pattern = regexp.MustCompile(`^[A-Z]+-[A-Z]{2}-\d{17}$`)

// Valid reports whether id has the complaint id shape.
func Valid(id string) bool {
	return pattern.MatchString(id)
}

// Generator hands out ids that are unique within the process: the trailing
// three digits count up within each second, and once they run out the
// generator borrows the next second.
type Generator struct {
	prefix string

	mu   sync.Mutex
	last time.Time
	seq  int
}

// New returns a Generator with the given prefix, DefaultPrefix when empty.
func New(prefix string) *Generator {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{prefix: prefix}
}

// Next returns a new id for the two-letter category code at time now.
func (g *Generator) Next(code string, now time.Time) string {
	sec := now.UTC().Truncate(time.Second)

	g.mu.Lock()
	switch {
	case sec.After(g.last):
		g.last, g.seq = sec, 1
	case g.seq >= maxSequence:
		g.last, g.seq = g.last.Add(time.Second), 1
	default:
		g.seq++
	}
	stamp, seq := g.last, g.seq
	g.mu.Unlock()

	return fmt.Sprintf("%s-%s-%s%03d", g.prefix, code, stamp.Format(timeLayout), seq)
}
