package utils

import (
	"fmt"
	"sort"
)

// SampleInfo is the metadata of one sequenced library.
type SampleInfo struct {
	Name      string `yaml:"name"`
	Kit       string `yaml:"kit"`
	Group     string `yaml:"group"`     // biological sample
	Replicate int    `yaml:"replicate"` // technical replicate
	Display   string `yaml:"display"`
	Color     string `yaml:"color"`
	Order     int    `yaml:"order"`
}

// SampleTable indexes sample metadata by name.
type SampleTable struct {
	byName map[string]SampleInfo
}

func NewSampleTable(samples []SampleInfo) (*SampleTable, error) {
	t := &SampleTable{byName: make(map[string]SampleInfo, len(samples))}
	for _, s := range samples {
		if s.Name == "" {
			return nil, fmt.Errorf("sample entry without a name")
		}
		if _, dup := t.byName[s.Name]; dup {
			return nil, fmt.Errorf("sample %s listed twice", s.Name)
		}
		t.byName[s.Name] = s
	}
	return t, nil
}

// Lookup returns the metadata of name. Unknown samples get a record that
// uses the name for display and "unknown" for the kit.
func (t *SampleTable) Lookup(name string) (SampleInfo, bool) {
	if s, ok := t.byName[name]; ok {
		if s.Display == "" {
			s.Display = s.Name
		}
		return s, true
	}
	return SampleInfo{Name: name, Kit: "unknown", Display: name}, false
}

// Sort orders names by configured plot order; unknown samples go last,
// by name.
func (t *SampleTable) Sort(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := t.byName[out[i]]
		b, bok := t.byName[out[j]]
		switch {
		case aok && bok:
			if a.Order != b.Order {
				return a.Order < b.Order
			}
			return a.Name < b.Name
		case aok != bok:
			return aok
		}
		return out[i] < out[j]
	})
	return out
}

// Kits returns the distinct kits of names in first-seen order after Sort.
func (t *SampleTable) Kits(names []string) []string {
	seen := make(map[string]bool)
	var kits []string
	for _, n := range t.Sort(names) {
		s, _ := t.Lookup(n)
		if !seen[s.Kit] {
			seen[s.Kit] = true
			kits = append(kits, s.Kit)
		}
	}
	return kits
}
