package descriptor

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Key is a typed attribute key. Two keys are the same attribute only when
// both name and value type match, so Key[int]("order") and
// Key[string]("order") never collide.
type Key[T any] struct {
	name string
}

// NewKey creates a typed attribute key.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key name.
func (k Key[T]) Name() string {
	return k.name
}

func (k Key[T]) String() string {
	return fmt.Sprintf("%s(%s)", k.name, reflect.TypeFor[T]())
}

// typeKey indexes an attribute by its own Go type.
type typeKey[T any] struct{}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

type attribute struct {
	name  string
	value any
}

// attributes is the heterogeneous, copy-on-write attribute bag of a descriptor.
type attributes map[any]attribute

func (a attributes) with(key any, name string, value any) attributes {
	next := make(attributes, len(a)+1)
	maps.Copy(next, a)
	next[key] = attribute{name: name, value: value}
	return next
}

// Put stores value under the typed key k.
func Put[T any](b *Builder, k Key[T], value T) *Builder {
	b.attrs = b.attrs.with(k, k.name, value)
	return b
}

// PutType stores value indexed by its type T.
func PutType[T any](b *Builder, value T) *Builder {
	b.attrs = b.attrs.with(typeKey[T]{}, typeName[T](), value)
	return b
}

// Attr returns the value stored under k.
func Attr[T any](d *Descriptor, k Key[T]) (T, bool) {
	return lookup[T](d, k)
}

// AttrOf returns the value stored under type T.
func AttrOf[T any](d *Descriptor) (T, bool) {
	return lookup[T](d, typeKey[T]{})
}

func lookup[T any](d *Descriptor, key any) (T, bool) {
	var zero T
	if d == nil {
		return zero, false
	}
	attr, ok := d.attrs[key]
	if !ok {
		return zero, false
	}
	v, ok := attr.value.(T)
	return v, ok
}

// AttributeNames lists the names of all attributes, sorted.
func (d *Descriptor) AttributeNames() []string {
	names := make([]string, 0, len(d.attrs))
	for _, attr := range d.attrs {
		names = append(names, attr.name)
	}
	slices.Sort(names)
	return names
}

// Attribute returns an attribute value by name, regardless of its key type.
// Intended for presentation; code should use Attr or AttrOf.
func (d *Descriptor) Attribute(name string) (any, bool) {
	for _, attr := range d.attrs {
		if attr.name == name {
			return attr.value, true
		}
	}
	return nil, false
}
