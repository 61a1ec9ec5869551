package registry

import (
	"errors"
	"strings"

	"github.com/zjrosen/attrsel/internal/descriptor"
)

// derive builds the member or composed descriptor for name. self resolves
// the leading segment so that chained registries see their own overrides.
func derive(self Lookup, source RegistrySource, name string) (*descriptor.Descriptor, error) {
	if base, ok := strings.CutSuffix(name, descriptor.Indexer); ok && base != "" && !strings.Contains(base, ".") {
		return member(self, base, name)
	}
	if root, rest, ok := strings.Cut(name, "."); ok && root != "" && rest != "" {
		return composed(self, source, root, rest, name)
	}
	return nil, notFound(name, name)
}

func member(self Lookup, base, name string) (*descriptor.Descriptor, error) {
	collection, err := self.Property(base)
	if err != nil {
		return nil, notFound(name, segmentOf(err, base))
	}
	if !collection.ValueType().IsCollection() {
		return nil, notFound(name, name)
	}
	return descriptor.Member(collection), nil
}

func composed(self Lookup, source RegistrySource, root, rest, name string) (*descriptor.Descriptor, error) {
	parent, err := self.Property(root)
	if err != nil {
		return nil, notFound(name, segmentOf(err, root))
	}

	nested, err := nestedRegistry(parent, source)
	if err != nil {
		return nil, notFound(name, rest)
	}

	child, err := nested.Property(rest)
	if err != nil {
		return nil, notFound(name, segmentOf(err, rest))
	}
	return descriptor.Nested(parent, child), nil
}

// nestedRegistry returns the registry describing d's value: the registry
// attached to d, otherwise the one the source holds for its value type.
func nestedRegistry(d *descriptor.Descriptor, source RegistrySource) (Lookup, error) {
	if l, ok := NestedRegistryOf(d); ok && l != nil {
		return l, nil
	}
	if source == nil || d.ValueType().IsZero() {
		return nil, notFound(d.Name(), d.Name())
	}
	return source.RegistryFor(d.ValueType())
}

func segmentOf(err error, fallback string) string {
	var nf *NotFoundError
	if errors.As(err, &nf) && nf.Segment != "" {
		return nf.Segment
	}
	return fallback
}
