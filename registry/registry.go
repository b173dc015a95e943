// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/vk/strset/set"
)

// ID is the numeric handle naming one set in a Registry. Valid ids start at 1.
type ID uint64

var (
	// ErrNotFound means the id does not name an existing set.
	ErrNotFound = errors.New("set doesn't exist")
	// ErrImmutable means the id names the protected immutable set.
	ErrImmutable = errors.New("cannot perform modifications to the immutable set")
	// ErrAlreadyInitialized means an immutable set was already created.
	ErrAlreadyInitialized = errors.New("only one immutable set is supported")
)

// Registry maps ids to ordered string sets. All methods are safe for
// concurrent use; each call is applied atomically.
//
// No method returns an error. Unknown and protected ids degrade to the zero
// result or a no-op, and the reason is written to the registry's logger.
type Registry struct {
	mu     sync.Mutex
	sets   map[ID]*set.Set
	lastID ID

	immutableID  ID
	hasImmutable bool

	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger that receives diagnostic lines. A nil logger
// disables diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		r.logger = logger
	}
}

// New creates an empty registry. Without WithLogger it logs nothing.
func New(opts ...Option) *Registry {
	r := &Registry{
		sets:   make(map[ID]*set.Set),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create allocates the next id, stores an empty set under it and returns the id.
func (r *Registry) Create() ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create()
}

// Size returns the number of elements in the set, or 0 if id is unknown.
func (r *Registry) Size(id ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id)
	if err != nil {
		r.ignored("size", id, err)
		return 0
	}
	r.logger.Debug("Set size read.", "set_id", id, "size", s.Len())
	return s.Len()
}

// Delete removes the set. Unknown ids and the immutable id are ignored.
func (r *Registry) Delete(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.mutable(id); err != nil {
		r.ignored("delete", id, err)
		return
	}
	delete(r.sets, id)
	r.logger.Debug("Set removed.", "set_id", id)
}

// Insert adds value to the set. Inserting an existing value changes nothing.
func (r *Registry) Insert(id ID, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(id, value)
}

// Remove deletes value from the set if present.
func (r *Registry) Remove(id ID, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.mutable(id)
	if err != nil {
		r.ignored("remove", id, err)
		return
	}
	if s.Remove(value) {
		r.logger.Debug("Element removed.", "set_id", id, "element", value)
	} else {
		r.logger.Debug("Element not present, nothing removed.", "set_id", id, "element", value)
	}
}

// Test returns 1 if value is a member of the set and 0 otherwise, including
// when id is unknown. The immutable set can be tested like any other.
func (r *Registry) Test(id ID, value string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id)
	if err != nil {
		r.ignored("test", id, err)
		return 0
	}
	if s.Contains(value) {
		r.logger.Debug("Element is in set.", "set_id", id, "element", value)
		return 1
	}
	r.logger.Debug("Element is not in set.", "set_id", id, "element", value)
	return 0
}

// Clear removes every element from the set.
func (r *Registry) Clear(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.mutable(id)
	if err != nil {
		r.ignored("clear", id, err)
		return
	}
	s.Clear()
	r.logger.Debug("Set cleared.", "set_id", id)
}

// Compare orders two ids by their sets and returns -1, 0 or 1. An unknown id
// sorts before every existing set, the empty set included, and two unknown ids
// are equal. Existing sets compare lexicographically element by element.
func (r *Registry) Compare(id1, id2 ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	s1, err1 := r.lookup(id1)
	s2, err2 := r.lookup(id2)

	var res int
	switch {
	case err1 != nil && err2 != nil:
		res = 0
	case err1 != nil:
		res = -1
	case err2 != nil:
		res = 1
	default:
		res = s1.Compare(s2)
	}
	r.logger.Debug("Sets compared.", "set_id_1", id1, "set_id_2", id2, "exists_1", err1 == nil, "exists_2", err2 == nil, "result", res)
	return res
}

// ImmutableSingleton creates the immutable set holding value and returns its
// id. Only the first call has any effect: once the immutable set exists every
// later call returns its id unchanged and value is discarded.
func (r *Registry) ImmutableSingleton(value string) ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasImmutable {
		r.ignored("immutable_singleton", r.immutableID, ErrAlreadyInitialized)
		return r.immutableID
	}

	id := r.create()
	r.insert(id, value)
	r.immutableID = id
	r.hasImmutable = true
	r.logger.Debug("Set marked immutable.", "set_id", id)
	return id
}

// create and insert expect r.mu to be held.
func (r *Registry) create() ID {
	r.lastID++
	id := r.lastID
	r.sets[id] = set.New()
	r.logger.Debug("Set created.", "set_id", id)
	return id
}

func (r *Registry) insert(id ID, value string) {
	s, err := r.mutable(id)
	if err != nil {
		r.ignored("insert", id, err)
		return
	}
	if s.Add(value) {
		r.logger.Debug("Element inserted.", "set_id", id, "element", value)
	} else {
		r.logger.Debug("Element already present.", "set_id", id, "element", value)
	}
}

func (r *Registry) lookup(id ID) (*set.Set, error) {
	s, ok := r.sets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// mutable checks protection before existence, so the immutable id always
// reports ErrImmutable.
func (r *Registry) mutable(id ID) (*set.Set, error) {
	if r.hasImmutable && r.immutableID == id {
		return nil, ErrImmutable
	}
	return r.lookup(id)
}

func (r *Registry) ignored(op string, id ID, err error) {
	r.logger.Debug("Set operation ignored.", "op", op, "set_id", id, "error", err)
}
