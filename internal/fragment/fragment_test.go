package fragment

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/tags"
)

type countingSource struct {
	source.Source
	reads map[string]int
}

func (c *countingSource) Read(name string) (string, error) {
	c.reads[name]++
	return c.Source.Read(name)
}

func newSource(files map[string]string) *countingSource {
	m := fstest.MapFS{}
	for name, body := range files {
		m[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return &countingSource{Source: source.NewFS("mem", m), reads: map[string]int{}}
}

func TestParse(t *testing.T) {
	tests := []struct {
		tag      string
		wantKind Kind
		wantName string
		wantOK   bool
	}{
		{"vf_sidebar", View, "sidebar", true},
		{"lf_header", Layout, "header", true},
		{"lf_", 0, "", false},
		{"vf", 0, "", false},
		{"title", 0, "", false},
		{"var_user", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			kind, name, ok := Parse(tt.tag)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestResolveViewAndLayoutFragments(t *testing.T) {
	src := newSource(map[string]string{
		"fragments/sidebar.html":                "<aside>{{var_user}}</aside>",
		"layouts/blog/fragments/header.html":    "<header>{{title}}</header>",
		"layouts/default/fragments/header.html": "wrong layout",
	})
	store := tags.NewStore()
	require.NoError(t, store.SetReserved(tags.Title, "Blog"))

	r := New(src, source.DefaultPaths(), "blog", map[string]any{"user": "Ann"})

	text, ok, err := r.Resolve("vf_sidebar", store)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<aside>Ann</aside>", text)

	text, ok, err = r.Resolve("lf_header", store)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<header>Blog</header>", text)

	stored, _ := store.Get("lf_header")
	assert.Equal(t, "<header>Blog</header>", stored)
}

func TestResolveDoesNotRescanValues(t *testing.T) {
	src := newSource(map[string]string{
		"layouts/default/fragments/header.html": "<header>{{title}} for {{var_user}}</header>",
		"fragments/byline.html":                 "<small>by {{var_user}} on {{date}}</small>",
	})
	data := map[string]any{"user": "{{title}}", "bio": "{{vf_byline}}"}

	t.Run("caller data in the store", func(t *testing.T) {
		store := tags.NewStore()
		require.NoError(t, store.SetReserved(tags.Title, "secret"))
		require.NoError(t, store.SetMany(map[string]any{"var_user": "{{title}}", "date": "{{var_user}}"}))
		r := New(src, source.DefaultPaths(), "default", data)

		text, _, err := r.Resolve("lf_header", store)
		require.NoError(t, err)
		assert.Equal(t, "<header>secret for {{title}}</header>", text)

		text, _, err = r.Resolve("vf_byline", store)
		require.NoError(t, err)
		assert.Equal(t, "<small>by {{title}} on {{var_user}}</small>", text)
	})

	t.Run("caller data from the resolver", func(t *testing.T) {
		store := tags.NewStore()
		require.NoError(t, store.SetReserved(tags.Title, "secret"))
		r := New(src, source.DefaultPaths(), "default", data)

		text, _, err := r.Resolve("lf_header", store)
		require.NoError(t, err)
		assert.Equal(t, "<header>secret for {{title}}</header>", text)
		assert.False(t, store.Has("var_user"), "resolver data is not written to the render store")
	})
}

func TestResolveIgnoresOtherTags(t *testing.T) {
	r := New(newSource(nil), source.DefaultPaths(), "default", nil)
	text, ok, err := r.Resolve("user", tags.NewStore())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestResolveIsMemoised(t *testing.T) {
	src := newSource(map[string]string{"fragments/box.html": "box"})
	store := tags.NewStore()
	r := New(src, source.DefaultPaths(), "default", nil)

	for range 3 {
		text, _, err := r.Resolve("vf_box", store)
		require.NoError(t, err)
		assert.Equal(t, "box", text)
	}
	assert.Equal(t, 1, src.reads["fragments/box.html"])
}

func TestResolveUsesStoreValueIfPresent(t *testing.T) {
	src := newSource(map[string]string{"fragments/box.html": "from file"})
	store := tags.NewStore()
	require.NoError(t, store.Set("vf_box", "preset"))

	text, ok, err := New(src, source.DefaultPaths(), "default", nil).Resolve("vf_box", store)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "preset", text)
	assert.Zero(t, src.reads["fragments/box.html"])
}

func TestResolveNotFound(t *testing.T) {
	r := New(newSource(nil), source.DefaultPaths(), "blog", nil)
	_, ok, err := r.Resolve("lf_missing", tags.NewStore())
	assert.True(t, ok)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "lf_missing", nf.Tag)
	assert.Equal(t, Layout, nf.Kind)
	assert.Equal(t, "layouts/blog/fragments/missing.html", nf.Path)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestResolveLeavesNestedFragmentsLiteralByDefault(t *testing.T) {
	src := newSource(map[string]string{
		"fragments/outer.html": "[{{vf_inner}}]",
		"fragments/inner.html": "inner",
	})
	store := tags.NewStore()
	text, _, err := New(src, source.DefaultPaths(), "default", nil).Resolve("vf_outer", store)
	require.NoError(t, err)
	assert.Equal(t, "[{{vf_inner}}]", text)
	assert.False(t, store.Has("vf_inner"))
}

func TestResolveNestedWithDepth(t *testing.T) {
	src := newSource(map[string]string{
		"fragments/a.html": "a({{vf_b}})",
		"fragments/b.html": "b({{vf_c}})",
		"fragments/c.html": "c",
	})

	store := tags.NewStore()
	text, _, err := New(src, source.DefaultPaths(), "default", nil, WithMaxDepth(2)).Resolve("vf_a", store)
	require.NoError(t, err)
	assert.Equal(t, "a(b(c))", text)

	store = tags.NewStore()
	text, _, err = New(src, source.DefaultPaths(), "default", nil, WithMaxDepth(1)).Resolve("vf_a", store)
	require.NoError(t, err)
	assert.Equal(t, "a(b({{vf_c}}))", text)
}

func TestResolveCycleFailsSoft(t *testing.T) {
	src := newSource(map[string]string{
		"fragments/a.html": "a({{vf_b}})",
		"fragments/b.html": "b({{vf_a}})",
		"fragments/self.html": "self({{vf_self}})",
	})

	store := tags.NewStore()
	r := New(src, source.DefaultPaths(), "default", nil, WithMaxDepth(10))

	text, _, err := r.Resolve("vf_a", store)
	require.NoError(t, err)
	assert.Equal(t, "a(b({{vf_a}}))", text)

	text, _, err = r.Resolve("vf_self", store)
	require.NoError(t, err)
	assert.Equal(t, "self({{vf_self}})", text)
}

func TestResolveNestedMissingIsFatal(t *testing.T) {
	src := newSource(map[string]string{"fragments/a.html": "a({{vf_gone}})"})
	_, _, err := New(src, source.DefaultPaths(), "default", nil, WithMaxDepth(1)).Resolve("vf_a", tags.NewStore())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetch(t *testing.T) {
	src := newSource(map[string]string{
		"layouts/default/fragments/card.html": "<div>{{var_name}} {{var_role}} {{title}}</div>",
	})
	r := New(src, source.DefaultPaths(), "default", map[string]any{"name": "Ann", "role": "dev"})

	text, err := r.Fetch(Layout, "card", map[string]any{"role": "lead"})
	require.NoError(t, err)
	assert.Equal(t, "<div>Ann lead {{title}}</div>", text)

	_, err = r.Fetch(View, "card", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Fetch(Layout, "card", map[string]any{"bad": []int{1}})
	assert.ErrorIs(t, err, tags.ErrInvalidValue)
}

func TestVarsSkipsKeysThatAreNotNames(t *testing.T) {
	vars := Vars(map[string]any{"name": "Ann", "first-name": "Ann", "": "x"}, map[string]any{"name": "Bob"})
	assert.Equal(t, map[string]any{"var_name": "Bob"}, vars)
}

func TestScope(t *testing.T) {
	scope, err := Scope(map[string]any{"a": 1, "b": "x"}, map[string]any{"b": "y"})
	require.NoError(t, err)
	a, _ := scope.Get("var_a")
	b, _ := scope.Get("var_b")
	assert.Equal(t, "1", a)
	assert.Equal(t, "y", b)
}

func TestClassify(t *testing.T) {
	tests := map[string]string{
		"title":      ClassSystem,
		"content":    ClassSystem,
		"meta":       ClassSystem,
		"var_user":   ClassVariable,
		"var_":       ClassTag,
		"vf_sidebar": ClassViewFragment,
		"lf_header":  ClassLayoutFragment,
		"lf_":        ClassTag,
		"greeting":   ClassTag,
	}
	for tag, want := range tests {
		assert.Equal(t, want, Classify(tag), tag)
	}
}
