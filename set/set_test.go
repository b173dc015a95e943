package set

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SortsAndDeduplicates(t *testing.T) {
	s := New("pear", "apple", "pear", "fig")

	if diff := cmp.Diff([]string{"apple", "fig", "pear"}, s.Elems()); diff != "" {
		t.Errorf("Elems() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, s.Len())
}

func TestZeroValue(t *testing.T) {
	var s Set
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(""))
	assert.True(t, s.Add(""))
	assert.True(t, s.Contains(""))
}

func TestAddRemove(t *testing.T) {
	s := New()

	require.True(t, s.Add("b"))
	require.True(t, s.Add("a"))
	assert.False(t, s.Add("a"), "adding an existing value must not change the set")
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.False(t, s.Contains("a"))
	assert.True(t, s.Contains("b"))
	assert.Equal(t, 1, s.Len())
}

func TestClear(t *testing.T) {
	s := New("x", "y")
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Elems())

	// The set stays usable after a clear.
	s.Add("z")
	assert.Equal(t, []string{"z"}, s.Elems())
}

func TestElems_ReturnsCopy(t *testing.T) {
	s := New("a", "b")
	elems := s.Elems()
	elems[0] = "mutated"
	assert.True(t, s.Contains("a"))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b *Set
		want int
	}{
		{"both empty", New(), New(), 0},
		{"empty before non-empty", New(), New("a"), -1},
		{"equal", New("a", "b"), New("b", "a"), 0},
		{"prefix sorts first", New("a"), New("a", "b"), -1},
		{"first difference decides", New("b"), New("a", "b"), 1},
		{"byte order", New("B"), New("a"), -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Compare(tc.b))
			assert.Equal(t, -tc.want, tc.b.Compare(tc.a), "Compare must be antisymmetric")
			assert.Equal(t, tc.want == 0, tc.a.Equal(tc.b))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "{}", New().String())
	assert.Equal(t, "{a, b}", New("b", "a").String())
}

func TestClear_ReleasesElements(t *testing.T) {
	s := New("a", "b")
	s.Clear()

	// The retained capacity must not keep the removed strings reachable.
	require.GreaterOrEqual(t, cap(s.elems), 2)
	assert.Equal(t, []string{"", ""}, s.elems[:2])
}
