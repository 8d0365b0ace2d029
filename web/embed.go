// Package web provides the embedded static assets for the catalog page,
// served at /static/.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// StaticFS returns the static/ directory as the root of an fs.FS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static is embedded at build time; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
