// Package export renders pages to files.
//
// Each route is rendered the same way the render command renders it and
// written to <dir>/<route>.html:
//
//	routes, _ := export.Routes(src, site.Paths)   // every view in the source
//	pages, err := export.Export(ctx, src, site, routes, export.Options{Dir: "public"})
//
// Routes are discovered from the views tree, so views/blog/show.html becomes
// the route blog/show and is written to public/blog/show.html.
//
// Pages are rendered concurrently, one view per page. A page that fails is
// reported in its Page entry and in the joined error; the other pages are
// still written. Files are replaced atomically, so a reader never sees a
// partial page.
package export
