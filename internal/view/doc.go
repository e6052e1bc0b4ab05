// Package view renders a page by combining a layout, a page view and their
// fragments.
//
// A View is prepared by a controller: it picks a layout, sets the title,
// author tags and page meta, and then renders once per request with the
// caller data for that request:
//
//	v := view.New(src, site, view.Route{Controller: "blog", Action: "show"})
//	v.SetTitle("Hello")
//	v.AddMeta("author", meta.AttrName, "Ann")
//	if err := v.SetTag("sidebar_note", "Archived"); err != nil {
//		return err
//	}
//	err := v.Render(ctx, w, map[string]any{"user": "Ann"})
//
// Rendering reads the layout and the view, resolves every vf_ and lf_ tag
// they reference, substitutes the view body, publishes it as {{content}}
// together with the merged {{meta}} markup, and finally substitutes the
// layout. Nothing is written to w unless every step succeeds.
package view
