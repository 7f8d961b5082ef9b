package taxonomy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Overlay is a deployment-specific extension of the built-in tables, read
// from YAML. It can only add: keywords, sub-categories and known areas.
//
//	areas:
//	  - {name: "gorwa gam", ward: "Ward 6", zone: "East"}
//	categories:
//	  Street Light:
//	    keywords: {hi: ["batti gul"]}
//	    sub_categories:
//	      - {id: light_off, keywords: ["gul"]}
type Overlay struct {
	Areas      []Area                      `yaml:"areas"`
	Categories map[Category]CategoryOverlay `yaml:"categories"`
}

// CategoryOverlay adds keywords and sub-categories to one category.
type CategoryOverlay struct {
	Keywords      map[Language][]string `yaml:"keywords"`
	SubCategories []SubCategory          `yaml:"sub_categories"`
}

var wardNamePattern = regexp.MustCompile(`^Ward (\d+)$`)

// LoadOverlayFile reads and decodes an overlay file.
func LoadOverlayFile(path string) (*Overlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: open %q: %w", path, err)
	}
	defer f.Close()

	ov, err := LoadOverlay(f)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: parse %q: %w", path, err)
	}
	return ov, nil
}

// LoadOverlay decodes an overlay from r. Unknown fields are rejected.
func LoadOverlay(r io.Reader) (*Overlay, error) {
	ov := &Overlay{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(ov); err != nil {
		if errors.Is(err, io.EOF) {
			return ov, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return ov, nil
}

// Merge returns a new Taxonomy with the overlay applied on top of t. t is not
// modified. Every validation failure is reported in the joined error.
func (t *Taxonomy) Merge(ov *Overlay) (*Taxonomy, error) {
	out := t.clone()
	if ov == nil {
		return out, nil
	}

	var errs []error
	for name, cov := range ov.Categories {
		i, ok := out.byName[name]
		if !ok {
			errs = append(errs, fmt.Errorf("categories: unknown category %q", name))
			continue
		}
		c := &out.categories[i]
		for lang, kws := range cov.Keywords {
			if lang != English && lang != Hindi {
				errs = append(errs, fmt.Errorf("categories.%s: unsupported language %q", name, lang))
				continue
			}
			c.Keywords[lang] = append(c.Keywords[lang], kws...)
		}
		for _, sub := range cov.SubCategories {
			if sub.ID == "" {
				errs = append(errs, fmt.Errorf("categories.%s: sub-category without id", name))
				continue
			}
			merged := false
			for j := range c.SubCategories {
				if c.SubCategories[j].ID == sub.ID {
					c.SubCategories[j].Keywords = append(c.SubCategories[j].Keywords, sub.Keywords...)
					merged = true
					break
				}
			}
			if !merged {
				c.SubCategories = append(c.SubCategories, sub)
			}
		}
	}

	for i, a := range ov.Areas {
		if err := out.validateArea(a); err != nil {
			errs = append(errs, fmt.Errorf("areas[%d]: %w", i, err))
			continue
		}
		if j, ok := out.areaIndex[Normalize(a.Name)]; ok {
			out.areas[j] = a
			continue
		}
		out.areas = append(out.areas, a)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	out.reindex()
	return out, nil
}

func (t *Taxonomy) validateArea(a Area) error {
	if Normalize(a.Name) == "" {
		return errors.New("name is required")
	}
	m := wardNamePattern.FindStringSubmatch(a.Ward)
	if m == nil {
		return fmt.Errorf("ward %q must look like \"Ward N\"", a.Ward)
	}
	n, _ := strconv.Atoi(m[1])
	if n < t.wardMin || n > t.wardMax {
		return fmt.Errorf("ward %q outside %d-%d", a.Ward, t.wardMin, t.wardMax)
	}
	for _, z := range t.zones {
		if z.Name == a.Zone {
			return nil
		}
	}
	return fmt.Errorf("unknown zone %q", a.Zone)
}

func (t *Taxonomy) clone() *Taxonomy {
	out := &Taxonomy{
		zones:      append([]Zone(nil), t.zones...),
		wards:      append([]Ward(nil), t.wards...),
		areas:      append([]Area(nil), t.areas...),
		priorities: t.priorities,
		wardMin:    t.wardMin,
		wardMax:    t.wardMax,
	}
	out.categories = make([]CategoryInfo, len(t.categories))
	for i, c := range t.categories {
		cc := c
		cc.Keywords = make(map[Language][]string, len(c.Keywords))
		for lang, kws := range c.Keywords {
			cc.Keywords[lang] = append([]string(nil), kws...)
		}
		cc.SubCategories = make([]SubCategory, len(c.SubCategories))
		for j, s := range c.SubCategories {
			s.Keywords = append([]string(nil), s.Keywords...)
			cc.SubCategories[j] = s
		}
		out.categories[i] = cc
	}
	out.reindex()
	return out
}
