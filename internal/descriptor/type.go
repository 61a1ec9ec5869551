package descriptor

import "strings"

const collectionPrefix = "[]"

// Any is the element type of a collection whose members are untyped.
const Any Type = "any"

// Type tags the value type of a descriptor. It is the key under which a
// provider keeps the registry describing values of that type.
//
// Named types are plain names ("Customer"); collections are rendered with a
// leading "[]" ("[]OrderLine").
type Type string

// Named returns the type with the given name.
func Named(name string) Type {
	return Type(strings.TrimSpace(name))
}

// CollectionOf returns the collection type whose members have type elem.
func CollectionOf(elem Type) Type {
	if elem.IsZero() {
		elem = Any
	}
	return Type(collectionPrefix + string(elem))
}

// IsZero reports whether no type is set.
func (t Type) IsZero() bool {
	return t == ""
}

// IsCollection reports whether t is a collection type.
func (t Type) IsCollection() bool {
	return strings.HasPrefix(string(t), collectionPrefix)
}

// Elem returns the member type of a collection. A collection without element
// type yields Any; a non collection yields the zero Type.
func (t Type) Elem() Type {
	if !t.IsCollection() {
		return ""
	}
	elem := Type(strings.TrimPrefix(string(t), collectionPrefix))
	if elem.IsZero() {
		return Any
	}
	return elem
}

func (t Type) String() string {
	return string(t)
}
