// Package registry implements a table of ordered string sets addressed by
// numeric ids.
//
// # Contract
//
// Callers hold nothing but ids. Every operation returns a plain value and
// never an error:
//
//   - Size and Test return 0 for an id that does not exist.
//   - Delete, Insert, Remove and Clear on an unknown id do nothing.
//   - Compare treats an unknown id as a value smaller than any set.
//
// A caller therefore cannot tell an empty set from a missing one by return
// value alone. The reason an operation was ignored is only visible in the
// registry's diagnostic log.
//
// # Immutable set
//
// ImmutableSingleton creates at most one protected set per registry. Delete,
// Insert, Remove and Clear against it are ignored; Size, Test and Compare work
// as usual. The first value passed to ImmutableSingleton is the one stored.
// Later calls return the same id and drop their value.
//
// # Ids
//
// Ids are assigned from a counter that starts at 1 and is never rewound, so a
// deleted id is never handed out again by the same registry.
package registry
