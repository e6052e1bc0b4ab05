package tags

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type badge struct{ label string }

func (b badge) RenderTag() string { return "<span>" + b.label + "</span>" }

func TestStoreSet(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Set("user", "Ann"))
	require.NoError(t, s.Set("count", 3))
	require.NoError(t, s.Set("ratio", 0.5))
	require.NoError(t, s.Set("ok", true))
	require.NoError(t, s.Set("badge", badge{label: "new"}))
	require.NoError(t, s.Set("wait", 2*time.Second))

	want := map[string]string{
		"user":  "Ann",
		"count": "3",
		"ratio": "0.5",
		"ok":    "true",
		"badge": "<span>new</span>",
		"wait":  "2s",
	}
	for name, text := range want {
		got, ok := s.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, text, got, name)
	}
	assert.Equal(t, []string{"user", "count", "ratio", "ok", "badge", "wait"}, s.Names())
}

func TestStoreSetOverwrites(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Set("a", "3"))

	got, _ := s.Get("a")
	assert.Equal(t, "3", got)
	assert.Equal(t, []string{"a", "b"}, s.Names())
	assert.Equal(t, 2, s.Len())
}

func TestStoreSetProtected(t *testing.T) {
	for _, name := range Protected() {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			err := s.Set(name, "x")

			var perr *ProtectedTagError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, name, perr.Name)
			assert.ErrorIs(t, err, ErrProtectedTag)
			assert.False(t, s.Has(name))
		})
	}
}

func TestStoreSetInvalid(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		value any
	}{
		{"nil value", "x", nil},
		{"map value", "x", map[string]string{"a": "b"}},
		{"slice value", "x", []string{"a"}},
		{"struct value", "x", struct{ A int }{1}},
		{"bad name", "not valid", "x"},
		{"empty name", "", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			err := s.Set(tt.tag, tt.value)
			assert.ErrorIs(t, err, ErrInvalidValue)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestStoreSetManyIsAtomic(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("keep", "yes"))

	err := s.SetMany(map[string]any{
		"a":     "1",
		"b":     "2",
		"title": "nope",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtectedTag))
	assert.False(t, s.Has("a"))
	assert.False(t, s.Has("b"))
	assert.Equal(t, []string{"keep"}, s.Names())

	err = s.SetMany(map[string]any{"a": "1", "z": []int{1}})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.False(t, s.Has("a"))

	require.NoError(t, s.SetMany(map[string]any{"b": 2, "a": "1"}))
	assert.Equal(t, []string{"keep", "a", "b"}, s.Names())
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.SetReserved(Title, "Home"))

	s.Remove("a")
	s.Remove("missing")
	s.Remove(Title)

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Names())
}

func TestStoreSetReserved(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SetReserved(Content, "<p>body</p>"))
	got, ok := s.Get(Content)
	assert.True(t, ok)
	assert.Equal(t, "<p>body</p>", got)

	err := s.SetReserved("user", "x")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestStoreClone(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("a", "1"))

	c := s.Clone()
	require.NoError(t, c.Set("a", "2"))
	require.NoError(t, c.Set("b", "3"))

	got, _ := s.Get("a")
	assert.Equal(t, "1", got)
	assert.False(t, s.Has("b"))
	assert.Equal(t, []string{"a", "b"}, c.Names())
}
