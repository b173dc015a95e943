// Package strset exposes the set registry as a flat set of functions operating
// on a process default registry. Sets are referred to only by their id.
//
//	id := strset.Create()
//	strset.Insert(id, "a")
//	strset.Test(id, "a") // 1
//
// Programs that need isolated registries, or a logger, should construct a
// registry.Registry directly or install one with SetDefault.
package strset

import (
	"sync/atomic"

	"github.com/vk/strset/registry"
)

// ID is the numeric handle of a set.
type ID = registry.ID

var defaultRegistry atomic.Pointer[registry.Registry]

func init() {
	defaultRegistry.Store(registry.New())
}

// Default returns the registry used by the package-level functions.
func Default() *registry.Registry {
	return defaultRegistry.Load()
}

// SetDefault replaces the registry used by the package-level functions.
// A nil registry is ignored.
func SetDefault(r *registry.Registry) {
	if r == nil {
		return
	}
	defaultRegistry.Store(r)
}

// Create makes a new empty set and returns its id.
func Create() ID { return Default().Create() }

// Size returns the number of elements in the set, 0 if it does not exist.
func Size(id ID) int { return Default().Size(id) }

// Delete removes the set.
func Delete(id ID) { Default().Delete(id) }

// Insert adds value to the set.
func Insert(id ID, value string) { Default().Insert(id, value) }

// Remove deletes value from the set.
func Remove(id ID, value string) { Default().Remove(id, value) }

// Test returns 1 if value is in the set, else 0.
func Test(id ID, value string) int { return Default().Test(id, value) }

// Clear empties the set.
func Clear(id ID) { Default().Clear(id) }

// Compare returns -1, 0 or 1 comparing the sets named by id1 and id2.
func Compare(id1, id2 ID) int { return Default().Compare(id1, id2) }

// ImmutableSingleton creates the immutable set on first use and returns its id.
func ImmutableSingleton(value string) ID { return Default().ImmutableSingleton(value) }
