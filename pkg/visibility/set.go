package visibility

import "slices"

// Set is an ordered set of visible question identifiers.
type Set struct {
	ids   []string
	index map[string]struct{}
}

// NewSet builds a Set, dropping duplicate identifiers.
func NewSet(ids ...string) Set {
	s := Set{
		ids:   make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// Has reports whether id is visible.
func (s Set) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the visible identifiers in schema order.
func (s Set) IDs() []string {
	return slices.Clone(s.ids)
}

// Len returns the number of visible questions.
func (s Set) Len() int {
	return len(s.ids)
}

// Equal reports whether both sets hold the same identifiers in the same order.
func (s Set) Equal(other Set) bool {
	return slices.Equal(s.ids, other.ids)
}
