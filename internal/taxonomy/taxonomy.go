// Package taxonomy holds the reference tables the IVR consults: complaint
// categories and their sub-categories, trigger keywords per language, zones
// with localized synonyms, wards, and the known-areas table.
//
// A Taxonomy is built once at startup (Default, optionally merged with a YAML
// overlay) and is read-only afterwards, so it is safe to share between
// goroutines without locking.
package taxonomy

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Language is a caller language understood by the IVR.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
)

// Languages lists supported languages in lookup order.
var Languages = []Language{English, Hindi}

// Category is a top-level complaint category.
type Category string

const (
	StreetLight Category = "Street Light"
	WaterSupply Category = "Water Supply"
	Garbage     Category = "Garbage"
	RoadDamage  Category = "Road Damage"
	Drainage    Category = "Drainage"
	Sanitation  Category = "Sanitation"
	Other       Category = "Other"
)

// Priority is the handling priority derived from category and sub-category.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityNormal Priority = "normal"
)

// SubCategory is one entry of a category's private sub-category taxonomy.
type SubCategory struct {
	ID       string              `json:"id" yaml:"id"`
	Names    map[Language]string `json:"names" yaml:"names"`
	Keywords []string            `json:"-" yaml:"keywords"`
}

// CategoryInfo describes a category together with its detection keywords.
type CategoryInfo struct {
	Name          Category              `json:"name"`
	Code          string                `json:"id"`
	Names         map[Language]string   `json:"names"`
	Keywords      map[Language][]string `json:"-"`
	Question      map[Language]string   `json:"-"`
	SubCategories []SubCategory         `json:"sub_categories"`
}

// Zone is a municipal zone and the words callers use for it.
type Zone struct {
	Name     string              `json:"name"`
	ID       string              `json:"id"`
	Names    map[Language]string `json:"names"`
	Synonyms []string            `json:"-"`
}

// Ward maps a ward number to its zone.
type Ward struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
	Zone   string `json:"zone"`
}

// Area is a known locality with its ward and zone.
type Area struct {
	Name string `json:"name" yaml:"name"`
	Ward string `json:"ward" yaml:"ward"`
	Zone string `json:"zone" yaml:"zone"`
}

type priorityKey struct {
	category Category
	sub      string
}

// Taxonomy is the immutable set of reference tables.
type Taxonomy struct {
	categories []CategoryInfo
	byName     map[Category]int
	zones      []Zone
	wards      []Ward
	areas      []Area
	areaIndex  map[string]int
	priorities map[priorityKey]Priority
	wardMin    int
	wardMax    int
}

// Categories returns the categories in detection order. Earlier categories win
// score ties.
func (t *Taxonomy) Categories() []CategoryInfo {
	return t.categories
}

// Category looks up a category by name.
func (t *Taxonomy) Category(name Category) (CategoryInfo, bool) {
	i, ok := t.byName[name]
	if !ok {
		return CategoryInfo{}, false
	}
	return t.categories[i], true
}

// Code returns the two-letter code for a category, "OT" when unknown.
func (t *Taxonomy) Code(name Category) string {
	if info, ok := t.Category(name); ok && info.Code != "" {
		return info.Code
	}
	return "OT"
}

// Question returns the sub-category follow-up question for a category,
// falling back to the generic Other question.
func (t *Taxonomy) Question(name Category, lang Language) string {
	info, ok := t.Category(name)
	if !ok || len(info.Question) == 0 {
		info, _ = t.Category(Other)
	}
	if q := info.Question[lang]; q != "" {
		return q
	}
	return info.Question[English]
}

// SubCategories returns the sub-categories of a category, nil when unknown.
func (t *Taxonomy) SubCategories(name Category) []SubCategory {
	info, ok := t.Category(name)
	if !ok {
		return nil
	}
	return info.SubCategories
}

// Zones returns the zones in enumeration order.
func (t *Taxonomy) Zones() []Zone { return t.zones }

// Wards returns the wards ordered by number.
func (t *Taxonomy) Wards() []Ward { return t.wards }

// Areas returns the known areas in table order.
func (t *Taxonomy) Areas() []Area { return t.areas }

// Area looks up a known area by its lowercased name.
func (t *Taxonomy) Area(name string) (Area, bool) {
	i, ok := t.areaIndex[Normalize(name)]
	if !ok {
		return Area{}, false
	}
	return t.areas[i], true
}

// WardRange returns the inclusive range of valid ward numbers.
func (t *Taxonomy) WardRange() (int, int) {
	return t.wardMin, t.wardMax
}

// WardName formats a ward number the way it is stored on complaints.
func WardName(n int) string {
	return fmt.Sprintf("Ward %d", n)
}

// Priority returns the handling priority for a category and detected
// sub-category id.
func (t *Taxonomy) Priority(category Category, subID string) Priority {
	if p, ok := t.priorities[priorityKey{category: category, sub: subID}]; ok {
		return p
	}
	return PriorityNormal
}

// Normalize folds text for keyword matching: NFC composition, lower case,
// trimmed.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := Normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func (t *Taxonomy) reindex() {
	t.byName = make(map[Category]int, len(t.categories))
	for i := range t.categories {
		c := &t.categories[i]
		t.byName[c.Name] = i
		for lang, kws := range c.Keywords {
			c.Keywords[lang] = normalizeAll(kws)
		}
		for j := range c.SubCategories {
			c.SubCategories[j].Keywords = normalizeAll(c.SubCategories[j].Keywords)
		}
	}
	for i := range t.zones {
		t.zones[i].Synonyms = normalizeAll(t.zones[i].Synonyms)
	}
	t.areaIndex = make(map[string]int, len(t.areas))
	for i := range t.areas {
		t.areas[i].Name = Normalize(t.areas[i].Name)
		if _, dup := t.areaIndex[t.areas[i].Name]; !dup {
			t.areaIndex[t.areas[i].Name] = i
		}
	}
}
