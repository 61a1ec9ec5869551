package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	stdpath "path"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/attrsel/internal/log"
)

// Load reads every *.yaml and *.yml file under fsys and builds one catalog.
// Files are visited in lexical order.
func Load(fsys fs.FS) (*Catalog, error) {
	var types []TypeDef

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isCatalogFile(path) {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		file, err := Decode(bytes.NewReader(content))
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		for _, td := range file.Types {
			td.Source = path
			types = append(types, td)
		}
		log.Debug(log.CatCatalog, "loaded catalog file", "path", path, "types", len(file.Types))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return New(types...)
}

func isCatalogFile(path string) bool {
	switch stdpath.Ext(path) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Decode parses one catalog document. Unknown fields are rejected.
func Decode(r io.Reader) (File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, err
	}
	return file, nil
}

// Encode writes c as a single catalog document.
func Encode(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Types: c.Types()}); err != nil {
		return err
	}
	return enc.Close()
}
