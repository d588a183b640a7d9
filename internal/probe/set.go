package probe

import "fmt"

// Set holds probes in registration order, grouped into named categories.
// Grouping exists for selection and report readability only; execution
// semantics are identical for every probe.
type Set struct {
	order      []string
	categories map[string][]Probe
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{categories: make(map[string][]Probe)}
}

// Add registers probes under a category, creating the category on first use.
// Order is preserved across and within categories.
func (s *Set) Add(category string, probes ...Probe) {
	if len(probes) == 0 {
		return
	}
	if _, ok := s.categories[category]; !ok {
		s.order = append(s.order, category)
	}
	s.categories[category] = append(s.categories[category], probes...)
}

// Categories returns category names in registration order.
func (s *Set) Categories() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Select flattens the named categories into one ordered batch. No names
// selects everything. Unknown names are an error so callers can reject
// typos before running anything.
func (s *Set) Select(names ...string) ([]Probe, error) {
	if len(names) == 0 {
		names = s.order
	}

	var selected []Probe
	for _, name := range names {
		probes, ok := s.categories[name]
		if !ok {
			return nil, fmt.Errorf("unknown probe category %q", name)
		}
		selected = append(selected, probes...)
	}
	return selected, nil
}

// All returns every registered probe in registration order.
func (s *Set) All() []Probe {
	probes, _ := s.Select()
	return probes
}

// Len reports the total probe count.
func (s *Set) Len() int {
	total := 0
	for _, probes := range s.categories {
		total += len(probes)
	}
	return total
}
