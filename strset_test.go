package strset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/strset/registry"
)

// useFreshDefault installs an empty default registry for the duration of a test.
// Tests using it must not run in parallel.
func useFreshDefault(t *testing.T) *registry.Registry {
	t.Helper()
	prev := Default()
	r := registry.New()
	SetDefault(r)
	t.Cleanup(func() { SetDefault(prev) })
	return r
}

func TestFlatSurface(t *testing.T) {
	useFreshDefault(t)

	id := Create()
	require.Equal(t, ID(1), id)

	Insert(id, "a")
	Insert(id, "b")
	assert.Equal(t, 2, Size(id))
	assert.Equal(t, 1, Test(id, "a"))

	Remove(id, "a")
	assert.Equal(t, 1, Size(id))
	assert.Equal(t, 0, Test(id, "a"))

	frozen := ImmutableSingleton("x")
	assert.Equal(t, ID(2), frozen)
	Insert(frozen, "y")
	assert.Equal(t, 1, Test(frozen, "x"))
	assert.Equal(t, 0, Test(frozen, "y"))
	assert.Equal(t, frozen, ImmutableSingleton("other"))

	assert.Equal(t, -1, Compare(999, id))
	assert.Equal(t, 1, Compare(id, 999))

	Clear(id)
	assert.Equal(t, 0, Size(id))

	Delete(id)
	Delete(999)
	assert.Equal(t, 0, Size(999))
	assert.Equal(t, 0, Test(999, "a"))
}

func TestSetDefault(t *testing.T) {
	r := useFreshDefault(t)
	assert.Same(t, r, Default())

	SetDefault(nil)
	assert.Same(t, r, Default(), "a nil registry must be ignored")

	id := Create()
	assert.Equal(t, 0, r.Size(id))
	r.Insert(id, "seen")
	assert.Equal(t, 1, Test(id, "seen"))
}
