package registry

import (
	"context"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/metrics"
	"github.com/zjrosen/attrsel/internal/selector"
)

// Registry holds the descriptors of one value type, in registration order.
//
// Composed ("a.b") and member ("a[]") descriptors are derived on demand and
// cached per instance; they never show up in Properties or
// RegisteredDescriptors.
type Registry struct {
	mu sync.RWMutex

	id        string
	valueType descriptor.Type
	source    RegistrySource

	descriptors  map[string]*descriptor.Descriptor
	order        []string
	defaultOrder []string
	filter       descriptor.Predicate

	derived map[string]*descriptor.Descriptor

	// metrics is handed to the executors of Select; set by the Provider.
	metrics *metrics.Metrics
	// generation is the provider flush count when population started.
	generation uint64
}

var _ Lookup = (*Registry)(nil)

// NewRegistry creates an empty registry for t. source resolves the nested
// registries of dotted paths and may be nil.
func NewRegistry(t descriptor.Type, source RegistrySource) *Registry {
	return &Registry{
		id:          uuid.NewString(),
		valueType:   t,
		source:      source,
		descriptors: make(map[string]*descriptor.Descriptor),
		filter:      descriptor.NotHidden,
		derived:     make(map[string]*descriptor.Descriptor),
	}
}

// ID uniquely identifies this registry instance.
func (r *Registry) ID() string { return r.id }

// Type returns the value type the registry describes.
func (r *Registry) Type() descriptor.Type { return r.valueType }

// Register adds d, or replaces the descriptor with the same name in place.
func (r *Registry) Register(d *descriptor.Descriptor) error {
	if d == nil {
		return ErrNilDescriptor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := d.Name()
	if _, exists := r.descriptors[name]; !exists {
		r.order = append(r.order, name)
	}
	r.descriptors[name] = d
	r.evict(name)

	log.Debug(log.CatRegistry, "registered descriptor", "type", r.valueType, "name", name)
	return nil
}

// MustRegister registers every descriptor and panics on error.
func (r *Registry) MustRegister(ds ...*descriptor.Descriptor) *Registry {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Remove deletes the descriptor registered under name.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.descriptors[name]; !ok {
		return false
	}
	delete(r.descriptors, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	r.evict(name)
	return true
}

// Contains reports whether name is registered. Derived names are not.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[name]
	return ok
}

// evict drops cached descriptors derived from name. Callers hold the write lock.
func (r *Registry) evict(name string) {
	for key := range r.derived {
		if key == name+descriptor.Indexer ||
			strings.HasPrefix(key, name+".") ||
			strings.HasPrefix(key, name+descriptor.Indexer+".") {
			delete(r.derived, key)
		}
	}
}

// SetDefaultOrder puts the given names first, in this order, in both views.
func (r *Registry) SetDefaultOrder(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultOrder = slices.Clone(names)
}

// SetDefaultFilter sets the predicate defining the default set.
// A nil predicate restores descriptor.NotHidden.
func (r *Registry) SetDefaultFilter(p descriptor.Predicate) {
	if p == nil {
		p = descriptor.NotHidden
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filter = p
}

// Property resolves name to a registered or derived descriptor.
func (r *Registry) Property(name string) (*descriptor.Descriptor, error) {
	if d, ok := r.cached(name); ok {
		return d, nil
	}

	d, err := derive(r, r.source, name)
	if err != nil {
		log.Debug(log.CatRegistry, "property not found", "type", r.valueType, "name", name)
		return nil, err
	}
	return r.remember(name, d), nil
}

// cached looks name up among registered descriptors (exact, then with the
// first letter's case flipped) and derived descriptors.
func (r *Registry) cached(name string) (*descriptor.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.descriptors[name]; ok {
		return d, true
	}
	if alt, ok := flipFirstCase(name); ok {
		if d, ok := r.descriptors[alt]; ok {
			return d, true
		}
	}
	d, ok := r.derived[name]
	return d, ok
}

// remember caches d unless another goroutine derived name first, in which
// case that instance wins.
func (r *Registry) remember(name string, d *descriptor.Descriptor) *descriptor.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.derived[name]; ok {
		return existing
	}
	r.derived[name] = d
	return d
}

// flipFirstCase handles bean style names such as "uRL" for "URL": when the
// second letter is upper case the first letter may be written either way.
func flipFirstCase(name string) (string, bool) {
	first, size := utf8.DecodeRuneInString(name)
	if size == len(name) {
		return "", false
	}
	second, _ := utf8.DecodeRuneInString(name[size:])
	if !unicode.IsUpper(second) {
		return "", false
	}
	var flipped rune
	if unicode.IsUpper(first) {
		flipped = unicode.ToLower(first)
	} else {
		flipped = unicode.ToUpper(first)
	}
	if flipped == first {
		return "", false
	}
	return string(flipped) + name[size:], true
}

// Properties returns the default set.
func (r *Registry) Properties() []*descriptor.Descriptor {
	r.mu.RLock()
	p := r.filter
	r.mu.RUnlock()
	return r.Filter(p)
}

// RegisteredDescriptors returns every registered descriptor.
func (r *Registry) RegisteredDescriptors() []*descriptor.Descriptor {
	return r.Filter(nil)
}

// Filter returns the registered descriptors matching p in natural order.
// A nil predicate matches everything.
func (r *Registry) Filter(p descriptor.Predicate) []*descriptor.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds := make([]*descriptor.Descriptor, 0, len(r.order))
	for _, name := range r.order {
		ds = append(ds, r.descriptors[name])
	}
	return descriptor.Filter(naturalOrder(ds, r.defaultOrder), p)
}

// naturalOrder lists the names of defaultOrder first, then the remaining
// descriptors sorted stably by DisplayOrder.
func naturalOrder(ds []*descriptor.Descriptor, defaultOrder []string) []*descriptor.Descriptor {
	sorted := slices.Clone(ds)
	slices.SortStableFunc(sorted, func(a, b *descriptor.Descriptor) int {
		return a.DisplayOrder() - b.DisplayOrder()
	})
	return explicitFirst(sorted, defaultOrder)
}

// explicitFirst moves the descriptors named in names to the front, in that
// order, keeping the relative order of everything else.
func explicitFirst(ds []*descriptor.Descriptor, names []string) []*descriptor.Descriptor {
	if len(names) == 0 {
		return ds
	}

	byName := make(map[string]*descriptor.Descriptor, len(ds))
	for _, d := range ds {
		byName[d.Name()] = d
	}

	ordered := make([]*descriptor.Descriptor, 0, len(ds))
	placed := make(map[string]bool, len(names))
	for _, name := range names {
		if d, ok := byName[name]; ok && !placed[name] {
			ordered = append(ordered, d)
			placed[name] = true
		}
	}
	for _, d := range ds {
		if !placed[d.Name()] {
			ordered = append(ordered, d)
		}
	}
	return ordered
}

// Select resolves sel against this registry.
func (r *Registry) Select(sel selector.Selector) ([]*descriptor.Descriptor, error) {
	return r.SelectContext(context.Background(), sel)
}

// SelectContext resolves sel against this registry. ctx carries tracing only.
func (r *Registry) SelectContext(ctx context.Context, sel selector.Selector) ([]*descriptor.Descriptor, error) {
	return NewExecutor(r, r.source, WithExecutorMetrics(r.metrics)).SelectContext(ctx, sel)
}
