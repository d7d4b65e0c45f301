// Package assets embeds static files shipped with the binary.
package assets

import "embed"

// PlaygroundFS embeds the browser playground page served by `rayfall serve`.
//
// NOTE: go:embed patterns must not use ".." and must be relative to this
// file, so the page lives under repo-root assets/ rather than next to the
// server package.
//
//go:embed playground/index.html
var PlaygroundFS embed.FS
