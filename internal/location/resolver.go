// Package location turns a caller's spoken address into a best-effort
// {area, ward, zone} descriptor using the known-areas table, an optional
// phonetic match, and explicit "ward N" or zone mentions.
package location

import (
	"strings"

	"github.com/ent0n29/samvad/internal/extract"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

// Method reports which resolution step produced a descriptor.
type Method string

const (
	MethodExact    Method = "exact"
	MethodPartial  Method = "partial"
	MethodPhonetic Method = "phonetic"
	MethodPattern  Method = "pattern"
	MethodNone     Method = "none"
)

// Descriptor is the resolved location for one utterance. Area is always the
// trimmed raw input; Ward and Zone are empty when unresolved.
type Descriptor struct {
	Area         string `json:"area"`
	Ward         string `json:"ward"`
	Zone         string `json:"zone"`
	MatchedArea  string `json:"matched_area,omitempty"`
	AutoDetected bool   `json:"auto_detected"`
	Method       Method `json:"method"`
}

// Resolved reports whether a ward or zone was found.
func (d Descriptor) Resolved() bool {
	return d.Ward != "" || d.Zone != ""
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPhonetic enables the phonetic area match between the partial and
// pattern steps. threshold is the minimum Jaro-Winkler similarity.
func WithPhonetic(threshold float64) Option {
	return func(r *Resolver) {
		r.phonetic = newPhoneticIndex(r.tax.Areas(), threshold)
	}
}

// Resolver is safe for concurrent use; it only reads the taxonomy.
type Resolver struct {
	tax      *taxonomy.Taxonomy
	phonetic *phoneticIndex
}

// NewResolver builds a Resolver over tax.
func NewResolver(tax *taxonomy.Taxonomy, opts ...Option) *Resolver {
	r := &Resolver{tax: tax}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: with no signal it returns the trimmed input as Area
// and MethodNone.
func (r *Resolver) Resolve(text string) Descriptor {
	d := Descriptor{Area: strings.TrimSpace(text), Method: MethodNone}
	in := taxonomy.Normalize(text)
	if in == "" {
		return d
	}

	if a, ok := r.tax.Area(in); ok {
		return d.fromArea(a, MethodExact)
	}
	for _, a := range r.tax.Areas() {
		if strings.Contains(in, a.Name) || strings.Contains(a.Name, in) {
			return d.fromArea(a, MethodPartial)
		}
	}
	if r.phonetic != nil {
		if a, ok := r.phonetic.match(in); ok {
			return d.fromArea(a, MethodPhonetic)
		}
	}

	ward, wardOK := extract.ExtractWard(r.tax, in)
	zone, zoneOK := extract.ExtractZone(r.tax, in)
	if wardOK || zoneOK {
		d.Ward, d.Zone, d.Method = ward, zone, MethodPattern
	}
	return d
}

func (d Descriptor) fromArea(a taxonomy.Area, m Method) Descriptor {
	d.Ward = a.Ward
	d.Zone = a.Zone
	d.MatchedArea = a.Name
	d.AutoDetected = true
	d.Method = m
	return d
}
