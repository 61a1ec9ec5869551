package descriptor

import "strings"

// Builder provides a fluent API for creating descriptors.
type Builder struct {
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

// NewBuilder starts a readable, writable, visible descriptor.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:     name,
		readable: true,
		writable: true,
	}
}

// DisplayName sets the human readable name.
func (b *Builder) DisplayName(n string) *Builder {
	b.displayName = n
	return b
}

// ValueType sets the value type tag.
func (b *Builder) ValueType(t Type) *Builder {
	b.valueType = t
	return b
}

// DisplayOrder sets the fallback sort key.
func (b *Builder) DisplayOrder(o int) *Builder {
	b.displayOrder = o
	return b
}

func (b *Builder) Hidden(h bool) *Builder {
	b.hidden = h
	return b
}

func (b *Builder) Readable(r bool) *Builder {
	b.readable = r
	return b
}

func (b *Builder) Writable(w bool) *Builder {
	b.writable = w
	return b
}

// Parent links the descriptor to its owner.
func (b *Builder) Parent(p *Descriptor) *Builder {
	b.parent = p
	return b
}

// Build creates the descriptor.
func (b *Builder) Build() (*Descriptor, error) {
	if strings.TrimSpace(b.name) == "" {
		return nil, ErrEmptyName
	}
	return &Descriptor{
		name:         b.name,
		displayName:  b.displayName,
		valueType:    b.valueType,
		displayOrder: b.displayOrder,
		hidden:       b.hidden,
		readable:     b.readable,
		writable:     b.writable,
		parent:       b.parent,
		target:       b.target,
		attrs:        b.attrs,
	}, nil
}

// MustBuild is Build for statically known names; it panics on error.
func (b *Builder) MustBuild() *Descriptor {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
