package descriptor

import (
	"errors"
	"strings"
)

// Indexer is appended to a collection attribute name to address its members.
const Indexer = "[]"

// ErrEmptyName is returned when building a descriptor without a name.
var ErrEmptyName = errors.New("descriptor name cannot be empty")

// SortOrder is the attribute describing how a descriptor sorts in queries.
type SortOrder struct {
	Property   string
	IgnoreCase bool
}

// Descriptor describes one named attribute of a record type. It is immutable
// once built.
type Descriptor struct {
	name         string
	displayName  string
	valueType    Type
	displayOrder int
	hidden       bool
	readable     bool
	writable     bool
	parent       *Descriptor
	target       *Descriptor
	attrs        attributes
}

// Name returns the property name, dotted for composed descriptors.
func (d *Descriptor) Name() string { return d.name }

// DisplayName returns the human readable name, falling back to Name.
func (d *Descriptor) DisplayName() string {
	if d.displayName == "" {
		return d.name
	}
	return d.displayName
}

// ValueType returns the type tag of the property value.
func (d *Descriptor) ValueType() Type { return d.valueType }

// DisplayOrder is the fallback sort key inside a registry.
func (d *Descriptor) DisplayOrder() int { return d.displayOrder }

// Hidden descriptors are left out of a registry's default set.
func (d *Descriptor) Hidden() bool { return d.hidden }

func (d *Descriptor) Readable() bool { return d.readable }

func (d *Descriptor) Writable() bool { return d.writable }

// Parent returns the owning descriptor of a composed or member descriptor.
func (d *Descriptor) Parent() *Descriptor { return d.parent }

// Target returns, for a composed descriptor, the descriptor it resolves to
// inside the nested registry.
func (d *Descriptor) Target() *Descriptor { return d.target }

// IsNested reports whether d was composed from a dotted path.
func (d *Descriptor) IsNested() bool { return d.target != nil }

// IsMember reports whether d is the indexer descriptor of a collection.
func (d *Descriptor) IsMember() bool {
	return d.parent != nil && strings.HasSuffix(d.name, Indexer)
}

// ToBuilder returns a builder initialised with a copy of d.
func (d *Descriptor) ToBuilder() *Builder {
	return &Builder{
		name:         d.name,
		displayName:  d.displayName,
		valueType:    d.valueType,
		displayOrder: d.displayOrder,
		hidden:       d.hidden,
		readable:     d.readable,
		writable:     d.writable,
		parent:       d.parent,
		target:       d.target,
		attrs:        d.attrs,
	}
}

func (d *Descriptor) String() string {
	if d.valueType.IsZero() {
		return d.name
	}
	return d.name + " " + d.valueType.String()
}

// Nested composes the descriptor for "parent.child". Everything except the
// name and the parent link is taken from child.
func Nested(parent, child *Descriptor) *Descriptor {
	name := parent.name + "." + child.name
	nested := &Descriptor{
		name:         name,
		displayName:  child.displayName,
		valueType:    child.valueType,
		displayOrder: child.displayOrder,
		hidden:       child.hidden,
		readable:     child.readable,
		writable:     child.writable,
		parent:       parent,
		target:       child,
		attrs:        child.attrs,
	}

	if order, ok := AttrOf[SortOrder](child); ok {
		order.Property = parent.name + "." + order.Property
		nested.attrs = nested.attrs.with(typeKey[SortOrder]{}, typeName[SortOrder](), order)
	}
	return nested
}

// Member builds the indexer descriptor ("name[]") of a collection descriptor.
// Members address no concrete element, so they are hidden and neither
// readable nor writable.
func Member(collection *Descriptor) *Descriptor {
	elem := collection.valueType.Elem()
	if elem.IsZero() {
		elem = Any
	}
	return &Descriptor{
		name:         collection.name + Indexer,
		displayName:  collection.DisplayName(),
		valueType:    elem,
		displayOrder: collection.displayOrder,
		hidden:       true,
		parent:       collection,
	}
}
