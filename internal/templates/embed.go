// Package templates embeds the starter files attrsel can write into a
// project.
package templates

import (
	"embed"
	"io/fs"
)

// catalogTemplates holds the starter catalog:
//   - catalog/*.yaml
//
//go:embed catalog
var catalogTemplates embed.FS

// CatalogFS returns the starter catalog rooted at its YAML files.
func CatalogFS() fs.FS {
	sub, err := fs.Sub(catalogTemplates, "catalog")
	if err != nil {
		panic(err) // the directory is embedded above
	}
	return sub
}
