package types

import "sort"

// PackageSet is a membership-only set of package names.
// The zero value is an empty, read-only set; use NewPackageSet to add.
type PackageSet map[PackageName]struct{}

// NewPackageSet builds a set from names, collapsing duplicates.
func NewPackageSet(names ...PackageName) PackageSet {
	s := make(PackageSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name.
func (s PackageSet) Add(name PackageName) {
	s[name] = struct{}{}
}

// Remove deletes name if present.
func (s PackageSet) Remove(name PackageName) {
	delete(s, name)
}

// Has reports membership.
func (s PackageSet) Has(name PackageName) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of members.
func (s PackageSet) Len() int {
	return len(s)
}

// Clone returns an independent copy; cloning a nil set yields an empty set.
func (s PackageSet) Clone() PackageSet {
	out := make(PackageSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Difference returns s − other.
func (s PackageSet) Difference(other PackageSet) PackageSet {
	out := make(PackageSet)
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Intersect returns s ∩ other.
func (s PackageSet) Intersect(other PackageSet) PackageSet {
	out := make(PackageSet)
	for n := range s {
		if other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets have the same members.
func (s PackageSet) Equal(other PackageSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order.
func (s PackageSet) Sorted() []PackageName {
	out := make([]PackageName, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the members as sorted plain strings.
func (s PackageSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, n := range sorted {
		out[i] = string(n)
	}
	return out
}
