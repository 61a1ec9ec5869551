package registry

import (
	"github.com/zjrosen/attrsel/internal/descriptor"
)

// Lookup is the read side shared by Registry and MergingRegistry.
type Lookup interface {
	// Property resolves a name, including dotted and indexer forms.
	Property(name string) (*descriptor.Descriptor, error)

	// Properties returns the default set in natural order.
	Properties() []*descriptor.Descriptor

	// RegisteredDescriptors returns every registered descriptor in natural order.
	RegisteredDescriptors() []*descriptor.Descriptor
}

// RegistrySource hands out the registry describing a value type.
// Provider is the production implementation.
type RegistrySource interface {
	RegistryFor(t descriptor.Type) (Lookup, error)
}

// Registrar populates a freshly created registry for a value type.
// Registrars that know nothing about t leave r untouched.
type Registrar interface {
	RegisterProperties(t descriptor.Type, r *Registry) error
}

// RegistrarFunc adapts a function to Registrar.
type RegistrarFunc func(t descriptor.Type, r *Registry) error

func (f RegistrarFunc) RegisterProperties(t descriptor.Type, r *Registry) error {
	return f(t, r)
}

var nestedRegistryKey = descriptor.NewKey[Lookup]("registry.nested")

// WithNestedRegistry attaches the registry used to resolve dotted paths
// below the descriptor being built, bypassing the RegistrySource.
func WithNestedRegistry(b *descriptor.Builder, l Lookup) *descriptor.Builder {
	return descriptor.Put(b, nestedRegistryKey, l)
}

// NestedRegistryOf returns the registry attached with WithNestedRegistry.
func NestedRegistryOf(d *descriptor.Descriptor) (Lookup, bool) {
	return descriptor.Attr(d, nestedRegistryKey)
}
