// Package registry resolves attribute selectors against hierarchical
// descriptor registries.
//
// A Registry holds the descriptors of one value type. Dotted paths such as
// "customer.name" are composed lazily from the registry of the value type of
// "customer", obtained from a RegistrySource (normally a Provider). A
// MergingRegistry overlays local registrations on a shared parent. The
// Executor evaluates a selector.Selector against a registry tree and returns
// an ordered, de-duplicated descriptor list.
package registry
