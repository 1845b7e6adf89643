// Package exclude builds the set of user ids that must never be
// offered as discovery candidates for a given source user.
package exclude

// Set is a membership set over user ids. It is built once per
// invocation and read-only afterwards, so no locking is needed.
type Set struct {
	ids map[string]struct{}
}

// New builds a set containing sourceID plus every id in the given
// lists (typically like and swipe histories).
func New(sourceID string, idLists ...[]string) *Set {
	size := 1
	for _, l := range idLists {
		size += len(l)
	}
	s := &Set{ids: make(map[string]struct{}, size)}
	s.Add(sourceID)
	for _, l := range idLists {
		for _, id := range l {
			s.Add(id)
		}
	}
	return s
}

// Add records an id. Empty ids are ignored.
func (s *Set) Add(id string) {
	if id == "" {
		return
	}
	s.ids[id] = struct{}{}
}

// Contains reports whether id is excluded.
func (s *Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Size returns the number of excluded ids.
func (s *Set) Size() int {
	return len(s.ids)
}
