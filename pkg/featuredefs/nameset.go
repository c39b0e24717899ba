package featuredefs

import "sort"

// NameSet is an unordered set of feature names.
type NameSet map[string]struct{}

// NewNameSet creates a set holding the given names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name into the set.
func (s NameSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names.
func (s NameSet) Len() int {
	return len(s)
}

// Sorted returns the names in ascending order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set containing the names of s and all others.
func (s NameSet) Union(others ...NameSet) NameSet {
	out := make(NameSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	for _, o := range others {
		for n := range o {
			out[n] = struct{}{}
		}
	}
	return out
}

// Difference returns a new set with the names of s that are in none of others.
func (s NameSet) Difference(others ...NameSet) NameSet {
	out := make(NameSet, len(s))
outer:
	for n := range s {
		for _, o := range others {
			if o.Has(n) {
				continue outer
			}
		}
		out[n] = struct{}{}
	}
	return out
}
