// Package catalog provides the splitter-type lookup: the fixed set of
// passive splitter types and their per-unit attenuation that the
// presentation layer offers when building a calculation.
//
// Types are declared in CUE so the catalogue file itself enforces the
// shape (non-empty name, split ratio, loss >= 0). A default catalogue is
// embedded; deployments can point at a directory of .cue files to
// replace it.
package catalog

import (
	"fmt"
	"sort"
)

// SplitterType is one selectable splitter with its attenuation in dB.
type SplitterType struct {
	Name  string  // catalogue key, e.g. "standard-1x8"
	Ratio string  // split ratio, e.g. "1:8"
	Loss  float64 // dB per splitter
}

// Catalog is a set of splitter types keyed by name.
type Catalog struct {
	types map[string]SplitterType
}

// Get returns the splitter type with the given name.
func (c *Catalog) Get(name string) (SplitterType, bool) {
	t, ok := c.types[name]
	return t, ok
}

// List returns all types ordered by loss, then name. The ordering is the
// natural menu order: smallest splitter first.
func (c *Catalog) List() []SplitterType {
	out := make([]SplitterType, 0, len(c.types))
	for _, t := range c.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Loss == out[j].Loss {
			return out[i].Name < out[j].Name
		}
		return out[i].Loss < out[j].Loss
	})
	return out
}

// Len returns the number of types in the catalogue.
func (c *Catalog) Len() int {
	return len(c.types)
}

func newCatalog(types []SplitterType) (*Catalog, error) {
	c := &Catalog{types: make(map[string]SplitterType, len(types))}
	for _, t := range types {
		if _, dup := c.types[t.Name]; dup {
			return nil, fmt.Errorf("duplicate splitter type %q", t.Name)
		}
		c.types[t.Name] = t
	}
	return c, nil
}
