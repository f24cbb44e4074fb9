// Package render serializes markup trees to HTML.
//
// Output is deterministic: attributes are written in sorted order, text is
// escaped, and void elements have no closing tag. The server uses it for the
// initial page, the CLI uses it to print filled patterns.
//
//	r := render.NewRenderer(render.RendererConfig{Pretty: true})
//	html, err := r.RenderToString(node)
package render
