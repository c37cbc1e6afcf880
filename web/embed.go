// Package web provides embedded static assets for the Ventra site.
// The stylesheet is compiled into the binary and served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
