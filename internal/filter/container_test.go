package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer_PreservesRegistrationOrder(t *testing.T) {
	c := NewContainer()
	require.NoError(t, c.Set("pager", NewPager("page")))
	require.NoError(t, c.Set("color", NewChoice("color", "color")))
	require.NoError(t, c.Set("q", NewMatch("q", "title")))

	assert.Equal(t, []string{"pager", "color", "q"}, c.Names())
	assert.Equal(t, 3, c.Len())

	var kinds []Kind
	for _, f := range c.All() {
		kinds = append(kinds, f.Kind())
	}
	assert.Equal(t, []Kind{KindPager, KindChoice, KindMatch}, kinds)
}

func TestContainer_ReplaceKeepsPosition(t *testing.T) {
	c := NewContainer()
	require.NoError(t, c.Set("pager", NewPager("page")))
	require.NoError(t, c.Set("color", NewChoice("color", "color")))

	replacement := NewPager("page", WithCountPerPage(50))
	require.NoError(t, c.Set("pager", replacement))

	assert.Equal(t, []string{"pager", "color"}, c.Names())
	got, err := c.Get("pager")
	require.NoError(t, err)
	assert.Same(t, replacement, got)
}

func TestContainer_GetUnknown(t *testing.T) {
	c := NewContainer()

	_, err := c.Get("missing")
	require.ErrorIs(t, err, ErrUnknownFilter)

	var unknown *UnknownFilterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
}

func TestContainer_FieldCollision(t *testing.T) {
	c := NewContainer()
	require.NoError(t, c.Set("pager", NewPager("page")))

	err := c.Set("other", NewChoice("page", "color"))
	require.ErrorIs(t, err, ErrFieldCollision)
	assert.Equal(t, 1, c.Len())
}

func TestContainer_RejectsInvalidEntries(t *testing.T) {
	c := NewContainer()
	assert.Error(t, c.Set("", NewPager("page")))
	assert.Error(t, c.Set("pager", nil))
}

func TestContainer_AllStopsEarly(t *testing.T) {
	c := NewContainer()
	require.NoError(t, c.Set("a", NewPager("a")))
	require.NoError(t, c.Set("b", NewPager("b")))

	var seen []string
	for name := range c.All() {
		seen = append(seen, name)
		break
	}
	assert.Equal(t, []string{"a"}, seen)
}
