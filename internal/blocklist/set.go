package blocklist

// mapSet implements Set using a map for O(1) lookups.
type mapSet struct {
	entries map[string]struct{}
}

// NewMapSet creates a new map-based blocklist set.
func NewMapSet(capacity int) Set {
	return &mapSet{
		entries: make(map[string]struct{}, capacity),
	}
}

// Contains checks if an entry exists in the set.
func (s *mapSet) Contains(entry string) bool {
	_, exists := s.entries[entry]
	return exists
}

// Size returns the number of entries in the set.
func (s *mapSet) Size() int {
	return len(s.entries)
}

// Add adds a canonical entry to the set.
func (s *mapSet) Add(entry string) {
	s.entries[entry] = struct{}{}
}
