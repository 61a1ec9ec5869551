// Package catalog loads descriptor catalogs from YAML and registers them
// into registries.
//
// A catalog file lists types and their properties:
//
//	types:
//	  - name: Order
//	    default_order: [number, customer]
//	    properties:
//	      - name: number
//	      - name: customer
//	        type: Customer
//	      - name: lines
//	        type: "[]OrderLine"
//	        writable: false
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/multierr"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/registry"
	"github.com/zjrosen/attrsel/internal/selector"
)

// ErrInvalidCatalog is matched by every validation problem.
var ErrInvalidCatalog = errors.New("invalid catalog")

// DescriptionKey holds a property's description.
var DescriptionKey = descriptor.NewKey[string]("description")

// File is the root structure of a catalog YAML file.
type File struct {
	Types []TypeDef `yaml:"types"`
}

// TypeDef defines one record type.
type TypeDef struct {
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description,omitempty"`
	DefaultOrder []string      `yaml:"default_order,omitempty"`
	Properties   []PropertyDef `yaml:"properties"`

	// Source is the file the type was read from.
	Source string `yaml:"-"`
}

// PropertyDef defines one property of a type.
type PropertyDef struct {
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type,omitempty"`
	DisplayName string         `yaml:"display_name,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Order       int            `yaml:"order,omitempty"`
	Hidden      bool           `yaml:"hidden,omitempty"`
	Readable    *bool          `yaml:"readable,omitempty"`
	Writable    *bool          `yaml:"writable,omitempty"`
	Attributes  map[string]any `yaml:"attributes,omitempty"`
}

// AttributeKey returns the key a catalog attribute is stored under.
func AttributeKey(name string) descriptor.Key[any] {
	return descriptor.NewKey[any](name)
}

// Descriptor builds the descriptor for p.
func (p PropertyDef) Descriptor() (*descriptor.Descriptor, error) {
	b := descriptor.NewBuilder(p.Name).
		ValueType(descriptor.Type(p.Type)).
		DisplayName(p.DisplayName).
		DisplayOrder(p.Order).
		Hidden(p.Hidden)
	if p.Readable != nil {
		b.Readable(*p.Readable)
	}
	if p.Writable != nil {
		b.Writable(*p.Writable)
	}
	if p.Description != "" {
		descriptor.Put(b, DescriptionKey, p.Description)
	}

	keys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		descriptor.Put(b, AttributeKey(k), p.Attributes[k])
	}
	return b.Build()
}

// Catalog is a validated set of type definitions.
type Catalog struct {
	types  []TypeDef
	byName map[string]int
}

var _ registry.Registrar = (*Catalog)(nil)

// New validates types and builds a catalog. All problems are reported
// together; each matches ErrInvalidCatalog.
func New(types ...TypeDef) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int, len(types))}

	var errs error
	for _, td := range types {
		if prev, ok := c.byName[td.Name]; ok && td.Name != "" {
			errs = multierr.Append(errs, invalid(td, "duplicate type (first defined in %s)", sourceOf(c.types[prev])))
			continue
		}
		errs = multierr.Append(errs, validateType(td))
		c.byName[td.Name] = len(c.types)
		c.types = append(c.types, td)
	}
	if errs != nil {
		return nil, errs
	}
	return c, nil
}

func validateType(td TypeDef) error {
	if td.Name == "" {
		return invalid(td, "type name cannot be empty")
	}

	var errs error
	seen := make(map[string]bool, len(td.Properties))
	for _, p := range td.Properties {
		switch {
		case p.Name == "":
			errs = multierr.Append(errs, invalid(td, "property name cannot be empty"))
			continue
		case !selector.ValidName(p.Name):
			errs = multierr.Append(errs, invalid(td, "property %q is not a valid selector name", p.Name))
		case seen[p.Name]:
			errs = multierr.Append(errs, invalid(td, "duplicate property %q", p.Name))
		}
		seen[p.Name] = true
	}
	for _, name := range td.DefaultOrder {
		if !seen[name] {
			errs = multierr.Append(errs, invalid(td, "default_order names unknown property %q", name))
		}
	}
	return errs
}

func invalid(td TypeDef, format string, args ...any) error {
	return fmt.Errorf("%w: %s: type %q: %s", ErrInvalidCatalog, sourceOf(td), td.Name, fmt.Sprintf(format, args...))
}

func sourceOf(td TypeDef) string {
	if td.Source == "" {
		return "<inline>"
	}
	return td.Source
}

// Types returns the type definitions in load order.
func (c *Catalog) Types() []TypeDef {
	if c == nil {
		return nil
	}
	return slices.Clone(c.types)
}

// Names returns the type names in load order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.types))
	for i, td := range c.types {
		names[i] = td.Name
	}
	return names
}

// Type returns the definition of name.
func (c *Catalog) Type(name string) (TypeDef, bool) {
	if c == nil {
		return TypeDef{}, false
	}
	i, ok := c.byName[name]
	if !ok {
		return TypeDef{}, false
	}
	return c.types[i], true
}

// RegisterProperties registers the properties of t. Unknown types are
// left empty.
func (c *Catalog) RegisterProperties(t descriptor.Type, r *registry.Registry) error {
	td, ok := c.Type(string(t))
	if !ok {
		return nil
	}
	for _, p := range td.Properties {
		d, err := p.Descriptor()
		if err != nil {
			return fmt.Errorf("type %q: %w", td.Name, err)
		}
		if err := r.Register(d); err != nil {
			return fmt.Errorf("type %q: %w", td.Name, err)
		}
	}
	if len(td.DefaultOrder) > 0 {
		r.SetDefaultOrder(td.DefaultOrder...)
	}
	return nil
}
