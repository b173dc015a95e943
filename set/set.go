// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package set provides the ordered string set stored under every registry id.
//
// Elements are kept in a sorted slice rather than a map. Membership tests are a
// binary search, and the set can be compared element-wise against another set
// without sorting on every call, which is what the registry's Compare needs.
package set

import (
	"slices"
	"strings"
)

// Set is an ordered collection of unique strings. The zero value is an empty
// set ready to use.
type Set struct {
	elems []string
}

// New returns a set holding the given values, sorted and deduplicated.
func New(values ...string) *Set {
	s := &Set{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts value and reports whether the set changed.
func (s *Set) Add(value string) bool {
	i, found := slices.BinarySearch(s.elems, value)
	if found {
		return false
	}
	s.elems = slices.Insert(s.elems, i, value)
	return true
}

// Remove deletes value and reports whether it was present.
func (s *Set) Remove(value string) bool {
	i, found := slices.BinarySearch(s.elems, value)
	if !found {
		return false
	}
	s.elems = slices.Delete(s.elems, i, i+1)
	return true
}

// Contains reports whether value is a member of the set.
func (s *Set) Contains(value string) bool {
	_, found := slices.BinarySearch(s.elems, value)
	return found
}

// Len returns the number of elements.
func (s *Set) Len() int {
	return len(s.elems)
}

// Clear removes every element. The backing array is zeroed so that the
// removed strings can be collected.
func (s *Set) Clear() {
	clear(s.elems)
	s.elems = s.elems[:0]
}

// Elems returns a copy of the elements in ascending order.
func (s *Set) Elems() []string {
	return slices.Clone(s.elems)
}

// Compare orders two sets lexicographically over their sorted elements. The
// first differing element decides; if one set is a prefix of the other the
// shorter one sorts first. The result is -1, 0 or 1.
func (s *Set) Compare(other *Set) int {
	return slices.Compare(s.elems, other.elems)
}

// Equal reports whether both sets hold the same elements.
func (s *Set) Equal(other *Set) bool {
	return slices.Equal(s.elems, other.elems)
}

// String renders the set as {a, b, c}.
func (s *Set) String() string {
	return "{" + strings.Join(s.elems, ", ") + "}"
}
