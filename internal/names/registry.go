// Package names maintains the deduplicated, sorted pool of known member
// names shared by the roster editor and the payer selector.
package names

import (
	"sort"
	"strings"
)

// Registry is a set of names kept in ascending lexicographic order.
// Storage is case-sensitive: "Anna" and "anna" are distinct entries here;
// case-insensitive uniqueness is the roster's concern, checked when a
// member name is saved.
//
// The registry's lifecycle is independent of the roster. Removing a member
// row does not remove its name here, and removing a name here does not
// touch members already using it.
type Registry struct {
	entries []string
}

// New builds a registry from the given seed names, dropping duplicates and
// sorting.
func New(seed ...string) *Registry {
	r := &Registry{}
	for _, name := range seed {
		r.Add(name)
	}
	return r
}

// Names returns the entries in sorted order. The returned slice is a copy.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// Contains reports whether the exact name is present.
func (r *Registry) Contains(name string) bool {
	for _, e := range r.entries {
		if e == name {
			return true
		}
	}
	return false
}

// Add inserts a name, trimming whitespace first. No-op when the trimmed
// name is empty or an exact match already exists. Reports whether the
// registry changed.
func (r *Registry) Add(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || r.Contains(trimmed) {
		return false
	}
	r.entries = append(r.entries, trimmed)
	sort.Strings(r.entries)
	return true
}

// Remove deletes all exact matches of the name. Reports whether the
// registry changed.
func (r *Registry) Remove(name string) bool {
	kept := r.entries[:0]
	removed := false
	for _, e := range r.entries {
		if e == name {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed
}

// Rename replaces oldName with the trimmed newName. No-op when the trimmed
// new name is empty, equals the old name, or already exists. Reports
// whether the registry changed.
func (r *Registry) Rename(oldName, newName string) bool {
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" || trimmed == oldName || r.Contains(trimmed) {
		return false
	}
	for i, e := range r.entries {
		if e == oldName {
			r.entries[i] = trimmed
			sort.Strings(r.entries)
			return true
		}
	}
	return false
}
