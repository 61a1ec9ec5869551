// Package flags holds the feature flags read from the flags section of the
// configuration. A Registry is read-only once built.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/attrsel/internal/log"
)

const (
	// FlagServeMetrics exposes Prometheus metrics on /metrics while serving.
	FlagServeMetrics = "serve-metrics"

	// FlagCatalogWatch reloads the YAML catalog when its files change while serving.
	FlagCatalogWatch = "catalog-watch"
)

// Flag describes a known feature flag.
type Flag struct {
	Name        string
	Description string
	Default     bool
}

var known = []Flag{
	{Name: FlagServeMetrics, Description: "expose Prometheus metrics on /metrics", Default: true},
	{Name: FlagCatalogWatch, Description: "reload the YAML catalog on change while serving"},
}

// Known lists the flags attrsel understands, sorted by name.
func Known() []Flag {
	out := slices.Clone(known)
	slices.SortFunc(out, func(a, b Flag) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// Registry is the resolved flag state: known defaults overlaid with the
// configured values.
type Registry struct {
	flags   map[string]bool
	unknown []string
}

// New builds a Registry from the configured values. Names that are not
// known are kept, so Enabled still reports them, and listed by Unknown.
func New(configured map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(known)+len(configured))}
	for _, f := range known {
		r.flags[f.Name] = f.Default
	}
	for name, on := range configured {
		if !isKnown(name) {
			r.unknown = append(r.unknown, name)
		}
		r.flags[name] = on
	}
	slices.Sort(r.unknown)

	for _, name := range r.unknown {
		log.Warn(log.CatConfig, "unknown feature flag", "flag", name)
	}
	log.Debug(log.CatConfig, "feature flags", "flags", r.flags)
	return r
}

func isKnown(name string) bool {
	return slices.ContainsFunc(known, func(f Flag) bool { return f.Name == name })
}

// Enabled reports whether the named flag is on. Unset names and a nil
// Registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of the resolved flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Unknown returns the configured names no known flag matches.
func (r *Registry) Unknown() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.unknown)
}
