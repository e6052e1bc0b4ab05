// Package tags discovers and stores the {{name}} tags used by page templates.
//
// A tag is a case-sensitive identifier made of ASCII letters, digits and
// underscores, written between double braces with no inner whitespace:
//
//	<title>{{title}}</title>
//	{{lf_header}}
//
// Extract lists the distinct tag names found in one or more template bodies in
// first-occurrence order. Store holds tag values for a single render. The names
// title, meta and content are reserved for the render pipeline and cannot be
// written with Set.
package tags
