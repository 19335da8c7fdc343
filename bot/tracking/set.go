package tracking

import "sort"

// Set is an immutable collection of tracking parameter names.
// Lookups are exact and case-sensitive.
type Set struct {
	names map[string]struct{}
}

// NewSet builds a Set from the given names. Empty names are ignored.
func NewSet(names ...string) Set {
	m := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		m[name] = struct{}{}
	}
	return Set{names: m}
}

// Contains reports whether name is a tracking parameter.
func (s Set) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the set.
func (s Set) Len() int {
	return len(s.names)
}

// Names returns a sorted copy of the names in the set.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s Set) with(names ...string) Set {
	m := make(map[string]struct{}, len(s.names)+len(names))
	for name := range s.names {
		m[name] = struct{}{}
	}
	for _, name := range names {
		if name != "" {
			m[name] = struct{}{}
		}
	}
	return Set{names: m}
}

func (s Set) without(names ...string) Set {
	m := make(map[string]struct{}, len(s.names))
	for name := range s.names {
		m[name] = struct{}{}
	}
	for _, name := range names {
		delete(m, name)
	}
	return Set{names: m}
}
