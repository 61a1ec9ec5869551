package registry

import (
	"context"
	"strings"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/selector"
)

// MergingRegistry overlays local registrations on a parent registry.
// Writes go to the local registry; reads fall through to the parent.
type MergingRegistry struct {
	parent Lookup
	local  *Registry
}

var _ Lookup = (*MergingRegistry)(nil)

// NewMergingRegistry overlays an empty local registry on parent.
func NewMergingRegistry(parent Lookup, source RegistrySource) *MergingRegistry {
	var t descriptor.Type
	if typed, ok := parent.(interface{ Type() descriptor.Type }); ok {
		t = typed.Type()
	}
	local := NewRegistry(t, source)
	if r, ok := parent.(*Registry); ok {
		local.metrics = r.metrics
	}
	return &MergingRegistry{
		parent: parent,
		local:  local,
	}
}

// ID identifies the overlay instance.
func (m *MergingRegistry) ID() string { return m.local.ID() }

// Type returns the parent's value type, when known.
func (m *MergingRegistry) Type() descriptor.Type { return m.local.Type() }

// Parent returns the registry being overlaid.
func (m *MergingRegistry) Parent() Lookup { return m.parent }

// Register adds or replaces d locally; the parent is never modified.
func (m *MergingRegistry) Register(d *descriptor.Descriptor) error {
	return m.local.Register(d)
}

// Remove deletes a local registration. Parent descriptors show through again.
func (m *MergingRegistry) Remove(name string) bool {
	return m.local.Remove(name)
}

// Contains reports whether name is registered locally or in the parent's
// registered set.
func (m *MergingRegistry) Contains(name string) bool {
	if m.local.Contains(name) {
		return true
	}
	for _, d := range m.parent.RegisteredDescriptors() {
		if d.Name() == name {
			return true
		}
	}
	return false
}

func (m *MergingRegistry) SetDefaultOrder(names ...string) {
	m.local.SetDefaultOrder(names...)
}

func (m *MergingRegistry) SetDefaultFilter(p descriptor.Predicate) {
	m.local.SetDefaultFilter(p)
}

// Property resolves name locally first, then through the parent. Member
// descriptors of collection attributes are derived and kept locally even
// when the collection comes from the parent.
func (m *MergingRegistry) Property(name string) (*descriptor.Descriptor, error) {
	if d, ok := m.local.cached(name); ok {
		return d, nil
	}

	if base, ok := strings.CutSuffix(name, descriptor.Indexer); ok && base != "" && !strings.Contains(base, ".") {
		d, err := member(m, base, name)
		if err != nil {
			return nil, err
		}
		return m.local.remember(name, d), nil
	}

	if root, _, ok := strings.Cut(name, "."); ok && m.ownsRoot(root) {
		d, err := derive(m, m.local.source, name)
		if err != nil {
			return nil, err
		}
		return m.local.remember(name, d), nil
	}

	return m.parent.Property(name)
}

// ownsRoot reports whether a dotted path starting at root must be composed
// here rather than by the parent.
func (m *MergingRegistry) ownsRoot(root string) bool {
	if strings.HasSuffix(root, descriptor.Indexer) {
		return true
	}
	_, ok := m.local.cached(root)
	return ok
}

// RegisteredDescriptors is the parent's registered view with local
// overrides in place and local additions appended.
func (m *MergingRegistry) RegisteredDescriptors() []*descriptor.Descriptor {
	return m.Filter(nil)
}

// Properties applies the merging registry's own default filter to the
// merged view.
func (m *MergingRegistry) Properties() []*descriptor.Descriptor {
	m.local.mu.RLock()
	p := m.local.filter
	m.local.mu.RUnlock()
	return m.Filter(p)
}

// Filter returns the merged descriptors matching p.
func (m *MergingRegistry) Filter(p descriptor.Predicate) []*descriptor.Descriptor {
	locals := m.local.Filter(nil)
	overrides := make(map[string]*descriptor.Descriptor, len(locals))
	for _, d := range locals {
		overrides[d.Name()] = d
	}

	merged := make([]*descriptor.Descriptor, 0, len(locals))
	seen := make(map[string]bool, len(locals))
	for _, d := range m.parent.RegisteredDescriptors() {
		if local, ok := overrides[d.Name()]; ok {
			d = local
		}
		merged = append(merged, d)
		seen[d.Name()] = true
	}
	for _, d := range locals {
		if !seen[d.Name()] {
			merged = append(merged, d)
		}
	}

	m.local.mu.RLock()
	defaultOrder := m.local.defaultOrder
	m.local.mu.RUnlock()
	return descriptor.Filter(explicitFirst(merged, defaultOrder), p)
}

// Select resolves sel against the merged view.
func (m *MergingRegistry) Select(sel selector.Selector) ([]*descriptor.Descriptor, error) {
	return m.SelectContext(context.Background(), sel)
}

func (m *MergingRegistry) SelectContext(ctx context.Context, sel selector.Selector) ([]*descriptor.Descriptor, error) {
	return NewExecutor(m, m.local.source, WithExecutorMetrics(m.local.metrics)).SelectContext(ctx, sel)
}
