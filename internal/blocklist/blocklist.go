// Package blocklist loads merchant-uploaded bulk blocklists into memory.
// Files hold one entry per line, either a phone number or an email address;
// the sets serve as a fast pre-check in front of the blocked_customers table.
package blocklist

import (
	"context"
	"strings"
)

// Set represents a loaded blocklist for fast lookup.
type Set interface {
	// Contains checks if an entry exists in the set. The entry must already
	// be in canonical form (see Canonicalize).
	Contains(entry string) bool

	// Size returns the number of entries in the set.
	Size() int
}

// Loader defines the interface for loading blocklist files.
type Loader interface {
	// Load reads a gzipped blocklist file and returns a Set.
	Load(ctx context.Context, path string) (Set, error)
}

// NormalizePhone reduces a phone number to its last 11 digits, the canonical
// form used for both set entries and database lookups.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if len(s) > 11 {
		s = s[len(s)-11:]
	}
	return s
}

// Canonicalize maps a raw blocklist entry to its canonical lookup form:
// emails are lowercased, anything else is treated as a phone number.
func Canonicalize(entry string) string {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return ""
	}
	if strings.Contains(entry, "@") {
		return strings.ToLower(entry)
	}
	return NormalizePhone(entry)
}

// Checker answers membership queries across all loaded sets.
type Checker struct {
	sets []Set
}

// NewChecker creates a checker over the given sets.
func NewChecker(sets []Set) *Checker {
	return &Checker{sets: sets}
}

// Blocked reports whether any of the given raw entries appears in any set.
func (c *Checker) Blocked(entries ...string) bool {
	for _, entry := range entries {
		key := Canonicalize(entry)
		if key == "" {
			continue
		}
		for _, set := range c.sets {
			if set.Contains(key) {
				return true
			}
		}
	}
	return false
}

// Size returns the total number of entries across all sets.
func (c *Checker) Size() int {
	total := 0
	for _, set := range c.sets {
		total += set.Size()
	}
	return total
}
