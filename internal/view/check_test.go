package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swader/ciplusplus/internal/fragment"
	"github.com/Swader/ciplusplus/internal/meta"
	"github.com/Swader/ciplusplus/internal/tags"
)

func TestRequestBuild(t *testing.T) {
	req := Request{
		Route:        "blog/show",
		Layout:       "plain",
		Title:        "Post",
		PrependTitle: "[",
		AppendTitle:  "]",
		Tags:         map[string]any{"body": "Hi", "date": "today"},
		Meta:         []meta.Entry{{Name: "robots", Attr: meta.AttrName, Content: "noindex"}},
	}
	v, err := req.Build(newTestSource(testFiles()), testSite())
	require.NoError(t, err)

	assert.Equal(t, "[Post]", v.Title())
	assert.Equal(t, "plain", v.Layout())
	assert.Equal(t, "views/blog/show.html", v.ViewPath())
	_, ok := v.Meta().Get("robots")
	assert.True(t, ok)

	got, err := v.RenderString(context.Background(), map[string]any{"user": "ann"})
	require.NoError(t, err)
	assert.Equal(t, "[[Post]]<h1>[Post]</h1><small>by ann on today</small><p>Hi</p>{{unknown}}", got)
}

func TestRequestBuildOverrides(t *testing.T) {
	v, err := Request{Route: "x/y", File: "edit", Folder: "admin/users"}.Build(newTestSource(testFiles()), testSite())
	require.NoError(t, err)
	assert.Equal(t, "views/admin/users/edit.html", v.ViewPath())
	assert.Equal(t, "My Site", v.Title())
}

func TestRequestBuildErrors(t *testing.T) {
	_, err := Request{Route: ""}.Build(newTestSource(testFiles()), testSite())
	assert.Error(t, err)

	_, err = Request{Route: "blog/show", Tags: map[string]any{"content": "x"}}.Build(newTestSource(testFiles()), testSite())
	assert.ErrorIs(t, err, tags.ErrProtectedTag)
}

func TestCheckClean(t *testing.T) {
	v := newTestView(t, "blog/list")
	v.SetLayout("plain")

	rep, err := v.Check(map[string]any{"items": "x"})
	require.NoError(t, err)
	assert.True(t, rep.OK(), "%+v", rep.Problems)
	assert.Equal(t, "blog/list", rep.Route)
	assert.Equal(t, "layouts/plain/layout.html", rep.LayoutPath)
}

func TestCheckReportsLiteralTags(t *testing.T) {
	v := newTestView(t, "blog/show")
	require.NoError(t, v.SetTag("body", "b"))

	rep, err := v.Check(map[string]any{"user": "ann"})
	require.NoError(t, err)

	var names []string
	for _, p := range rep.Problems {
		assert.Equal(t, ProblemTag, p.Kind)
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"copyright", "unknown", "date"}, names)
}

func TestCheckMissingTemplates(t *testing.T) {
	v := newTestView(t, "blog/broken")
	require.NoError(t, v.SetTag("copyright", "c"))
	rep, err := v.Check(map[string]any{"user": "ann"})
	require.NoError(t, err)
	require.Len(t, rep.Problems, 1)
	assert.Equal(t, Problem{Kind: ProblemFragment, Name: "vf_missing", Path: "fragments/missing.html", Message: "view fragment not found"}, rep.Problems[0])

	v = newTestView(t, "nothing/here")
	v.SetLayout("nope")
	rep, err = v.Check(nil)
	require.NoError(t, err)
	require.Len(t, rep.Problems, 2)
	assert.Equal(t, ProblemLayout, rep.Problems[0].Kind)
	assert.Equal(t, ProblemView, rep.Problems[1].Kind)
	assert.False(t, rep.OK())
}

func TestCheckNestedFragments(t *testing.T) {
	files := map[string]string{
		"layouts/default/layout.html": "{{content}}",
		"views/home/index.html":       "{{vf_outer}}",
		"fragments/outer.html":        "outer({{vf_inner}})",
		"fragments/inner.html":        "inner({{vf_outer}}{{vf_gone}})",
	}
	v := New(newTestSource(files), Site{}, Route{Controller: "home", Action: "index"})
	rep, err := v.Check(nil)
	require.NoError(t, err)
	require.Len(t, rep.Problems, 1)
	assert.Equal(t, "vf_inner", rep.Problems[0].Name)
	assert.Contains(t, rep.Problems[0].Message, "renders literally")

	v = New(newTestSource(files), Site{FragmentDepth: 2}, Route{Controller: "home", Action: "index"})
	rep, err = v.Check(nil)
	require.NoError(t, err)
	require.Len(t, rep.Problems, 1)
	assert.Equal(t, Problem{Kind: ProblemFragment, Name: "vf_gone", Path: "fragments/gone.html", Message: "view fragment not found"}, rep.Problems[0])
}

func TestCheckTooDeepReferenceDoesNotHideTopLevelFragment(t *testing.T) {
	files := map[string]string{
		"layouts/default/layout.html":      "{{lf_a}}{{lf_b}}{{content}}",
		"layouts/default/fragments/a.html": "A {{lf_b}}",
		"views/home/index.html":            "home",
	}
	v := New(newTestSource(files), Site{}, Route{Controller: "home", Action: "index"})

	rep, err := v.Check(nil)
	require.NoError(t, err)
	assert.Contains(t, rep.Problems, Problem{
		Kind:    ProblemFragment,
		Name:    "lf_b",
		Path:    "layouts/default/fragments/b.html",
		Message: "layout fragment not found",
	})

	_, err = v.RenderString(context.Background(), nil)
	assert.ErrorIs(t, err, fragment.ErrNotFound)
}
