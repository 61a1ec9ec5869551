// Package descriptor defines attribute descriptors, the immutable metadata
// records a registry catalogs for one record type.
//
// # Core Types
//
// Descriptor describes a named attribute: value Type, display name and
// order, visibility, readability and an attribute bag. Use Builder for
// construction; Nested and Member synthesize the descriptors behind dotted
// paths ("customer.name") and indexers ("lines[]").
//
// Type is the value type tag. Collections are written "[]Elem".
//
// # Attribute Bag
//
// Arbitrary metadata is attached through typed keys or by Go type:
//
//	widget := descriptor.NewKey[string]("widget")
//	b := descriptor.NewBuilder("lines")
//	descriptor.Put(b, widget, "table")
//	descriptor.PutType(b, descriptor.SortOrder{Property: "lines"})
//
//	v, ok := descriptor.Attr(d, widget)
//	order, ok := descriptor.AttrOf[descriptor.SortOrder](d)
package descriptor
