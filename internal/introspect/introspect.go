// Package introspect derives descriptors from Go struct types.
//
// Exported fields become descriptors. The attrsel struct tag adjusts them:
//
//	type Customer struct {
//		ID      int       `attrsel:"id,hidden,readonly"`
//		Name    string    `attrsel:"name,order=1"`
//		Orders  []Order   `attrsel:"orders"`
//		Secret  string    `attrsel:"-"`
//	}
//
// Options are hidden, readonly, writeonly and order=N. Anonymous embedded
// structs without a tag name are flattened into the outer type. WithNameTag
// names fields after another tag, such as mapstructure or json, when the
// attrsel tag gives no name.
package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/registry"
)

const tagName = "attrsel"

// maxUnwrap bounds pointer and container unwrapping.
const maxUnwrap = 8

var (
	ErrNotStruct        = errors.New("introspect: type is not a struct")
	ErrDuplicateBinding = errors.New("introspect: type name already bound")
	ErrInvalidTag       = errors.New("introspect: invalid attrsel tag")
)

// Field records the Go field a descriptor was derived from.
type Field struct {
	Name  string
	Index []int
	Type  reflect.Type
}

// Registrar registers the fields of bound Go struct types.
type Registrar struct {
	mu    sync.RWMutex
	types map[descriptor.Type]reflect.Type
	names map[reflect.Type]descriptor.Type
	order []descriptor.Type

	nameTag string
}

var _ registry.Registrar = (*Registrar)(nil)

// Option configures a Registrar.
type Option func(*Registrar)

// WithNameTag names untagged fields after the first element of the given
// struct tag. A value of "-" in that tag skips the field.
func WithNameTag(tag string) Option {
	return func(r *Registrar) {
		r.nameTag = tag
	}
}

// NewRegistrar creates a registrar with no bound types.
func NewRegistrar(opts ...Option) *Registrar {
	r := &Registrar{
		types: make(map[descriptor.Type]reflect.Type),
		names: make(map[reflect.Type]descriptor.Type),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds T under name; an empty name uses T's Go name.
func Register[T any](r *Registrar, name string) (descriptor.Type, error) {
	return r.Bind(reflect.TypeFor[T](), name)
}

// Bind binds the struct type rt (pointers are unwrapped) under name.
func (r *Registrar) Bind(rt reflect.Type, name string) (descriptor.Type, error) {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return "", fmt.Errorf("%w: %v", ErrNotStruct, rt)
	}
	if name == "" {
		name = rt.Name()
	}
	t := descriptor.Named(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.types[t]
	if ok && existing != rt {
		return "", fmt.Errorf("%w: %s is %v", ErrDuplicateBinding, t, existing)
	}
	if !ok {
		r.order = append(r.order, t)
	}
	r.types[t] = rt
	r.names[rt] = t
	return t, nil
}

// GoType returns the Go type bound to t.
func (r *Registrar) GoType(t descriptor.Type) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.types[t]
	return rt, ok
}

// Types returns the bound type names in bind order.
func (r *Registrar) Types() []descriptor.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]descriptor.Type(nil), r.order...)
}

// RegisterProperties registers the fields of the struct bound to t.
func (r *Registrar) RegisterProperties(t descriptor.Type, reg *registry.Registry) error {
	rt, ok := r.GoType(t)
	if !ok {
		return nil
	}

	ds, err := r.Descriptors(rt)
	if err != nil {
		return fmt.Errorf("%s: %w", t, err)
	}
	for _, d := range ds {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	log.Debug(log.CatRegistry, "registered struct fields", "type", t, "go_type", rt.String(), "count", len(ds))
	return nil
}

// Descriptors derives one descriptor per exported field of rt.
func (r *Registrar) Descriptors(rt reflect.Type) ([]*descriptor.Descriptor, error) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, rt)
	}

	var ds []*descriptor.Descriptor
	if err := r.collect(rt, nil, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *Registrar) collect(rt reflect.Type, index []int, out *[]*descriptor.Descriptor) error {
	if len(index) > maxUnwrap {
		return nil
	}
	for i := range rt.NumField() {
		f := rt.Field(i)
		fieldIndex := append(append([]int(nil), index...), i)

		tag, err := parseTag(f.Tag.Get(tagName))
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		if tag.skip {
			continue
		}

		if f.Anonymous && tag.name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := r.collect(ft, fieldIndex, out); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		name := tag.name
		if name == "" && r.nameTag != "" {
			alt, _, _ := strings.Cut(f.Tag.Get(r.nameTag), ",")
			if alt == "-" {
				continue
			}
			name = strings.TrimSpace(alt)
		}
		if name == "" {
			name = lowerFirst(f.Name)
		}

		b := descriptor.NewBuilder(name).
			ValueType(r.ValueType(f.Type)).
			DisplayName(f.Name).
			DisplayOrder(tag.order).
			Hidden(tag.hidden).
			Readable(!tag.writeOnly).
			Writable(!tag.readOnly)
		descriptor.PutType(b, Field{Name: f.Name, Index: fieldIndex, Type: f.Type})

		d, err := b.Build()
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		*out = append(*out, d)
	}
	return nil
}

// ValueType maps a Go type to a descriptor type. Pointers are unwrapped,
// slices and arrays become collections, bound structs use their bound
// name, other named types their Go name and the rest their kind.
func (r *Registrar) ValueType(rt reflect.Type) descriptor.Type {
	for i := 0; i < maxUnwrap && rt.Kind() == reflect.Pointer; i++ {
		rt = rt.Elem()
	}

	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			return descriptor.Named("bytes")
		}
		return descriptor.CollectionOf(r.ValueType(rt.Elem()))
	}

	r.mu.RLock()
	bound, ok := r.names[rt]
	r.mu.RUnlock()
	if ok {
		return bound
	}
	if rt.Name() != "" {
		return descriptor.Named(rt.Name())
	}
	return descriptor.Named(rt.Kind().String())
}

// FieldOf returns the Go field d was derived from.
func FieldOf(d *descriptor.Descriptor) (Field, bool) {
	return descriptor.AttrOf[Field](d)
}

type fieldTag struct {
	name      string
	skip      bool
	hidden    bool
	readOnly  bool
	writeOnly bool
	order     int
}

func parseTag(raw string) (fieldTag, error) {
	if raw == "-" {
		return fieldTag{skip: true}, nil
	}
	if raw == "" {
		return fieldTag{}, nil
	}

	parts := strings.Split(raw, ",")
	tag := fieldTag{name: strings.TrimSpace(parts[0])}
	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "hidden":
			tag.hidden = true
		case opt == "readonly":
			tag.readOnly = true
		case opt == "writeonly":
			tag.writeOnly = true
		case strings.HasPrefix(opt, "order="):
			n, err := strconv.Atoi(strings.TrimPrefix(opt, "order="))
			if err != nil {
				return fieldTag{}, fmt.Errorf("%w: %q", ErrInvalidTag, opt)
			}
			tag.order = n
		case opt == "":
		default:
			return fieldTag{}, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, opt)
		}
	}
	return tag, nil
}

// lowerFirst turns a Go field name into a property name, keeping acronyms
// intact: Name -> name, URL -> URL, ID -> ID.
func lowerFirst(s string) string {
	if len(s) > 1 && strings.ToUpper(s[:2]) == s[:2] {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
