// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ProjectDirName is the per-project directory holding config and catalog.
const ProjectDirName = ".attrsel"

// ResolveProjectDir resolves the .attrsel directory path from user input.
// It accepts either the project directory or the .attrsel directory itself
// and follows redirect files so several checkouts can share one catalog.
//
// Input normalization:
//   - "/path/to/project" -> "/path/to/project/.attrsel"
//   - "/path/to/project/.attrsel" -> "/path/to/project/.attrsel"
//   - "" -> ".attrsel"
//
// A file named "redirect" inside the directory holds a path, relative to
// that directory, of the directory to use instead.
func ResolveProjectDir(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	if filepath.Base(path) != ProjectDirName {
		path = filepath.Join(path, ProjectDirName)
	}
	return followRedirect(path)
}

// ResolveCatalogDir resolves a --catalog argument. A directory that holds
// YAML files directly is used as is; otherwise it is treated as a project
// directory and its .attrsel/catalog is used.
func ResolveCatalogDir(path string) string {
	if path != "" && containsYAML(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(ResolveProjectDir(path), "catalog")
}

// ConfigFile returns the config file of the project at path.
func ConfigFile(path string) string {
	return filepath.Join(ResolveProjectDir(path), "config.yaml")
}

// UserConfigDir returns ~/.config/attrsel, or an empty string if the home
// directory is unavailable.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "attrsel")
}

func containsYAML(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			return true
		}
	}
	return false
}

// followRedirect checks for a redirect file and follows it if present.
func followRedirect(dir string) string {
	content, err := os.ReadFile(filepath.Join(dir, "redirect")) //nolint:gosec // redirect path is within the project dir
	if err != nil {
		return dir
	}

	target := strings.TrimSpace(string(content))
	if target == "" {
		return dir
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(dir, target))
}
