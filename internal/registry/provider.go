package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/zjrosen/attrsel/internal/cachemanager"
	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/metrics"
)

// Provider creates registries for value types and memoizes them.
//
// Registrars must not call Get for the type they are populating.
type Provider struct {
	mu         sync.RWMutex
	registrars []Registrar

	cache   cachemanager.CacheManager[descriptor.Type, *Registry]
	memo    *cachemanager.ReadThroughCache[descriptor.Type, *Registry, descriptor.Type]
	group   singleflight.Group
	metrics *metrics.Metrics

	// generation counts flushes; a memoized registry built under an older
	// generation may have read a replaced catalog and is rebuilt on Get.
	generation atomic.Uint64
}

// maxRebuilds bounds how often Get rebuilds a registry outdated by
// concurrent flushes before returning it anyway.
const maxRebuilds = 3

var _ RegistrySource = (*Provider)(nil)

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithRegistrars appends registrars, run in the given order.
func WithRegistrars(registrars ...Registrar) ProviderOption {
	return func(p *Provider) {
		p.registrars = append(p.registrars, registrars...)
	}
}

// WithMetrics records cache lookups, registry creation and the selections
// run on the registries the provider hands out.
func WithMetrics(m *metrics.Metrics) ProviderOption {
	return func(p *Provider) {
		p.metrics = m
	}
}

// WithCache replaces the in-memory memo cache.
func WithCache(cache cachemanager.CacheManager[descriptor.Type, *Registry]) ProviderOption {
	return func(p *Provider) {
		p.cache = cache
	}
}

// NewProvider creates a provider with an in-memory, non-expiring memo cache.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = cachemanager.NewInMemoryCacheManager[descriptor.Type, *Registry](
			"registries", cachemanager.NoExpiration, 0,
		)
	}
	p.memo = cachemanager.NewReadThroughCache(p.cache, p.create, false).
		OnLookup(p.metrics.IncrementRegistryLookup)
	return p
}

// AddRegistrar appends a registrar. Registries already memoized are not
// repopulated; call Flush to rebuild them.
func (p *Provider) AddRegistrar(r Registrar) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registrars = append(p.registrars, r)
}

// Get returns the memoized registry for t, creating it on first use.
// Concurrent first calls share one creation.
func (p *Provider) Get(t descriptor.Type) (*Registry, error) {
	v, err, shared := p.group.Do(string(t), func() (any, error) {
		return p.current(context.Background(), t)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug(log.CatProvider, "shared registry creation", "type", t)
	}
	return v.(*Registry), nil
}

// current returns the memoized registry for t, replacing one that was built
// before the latest Flush.
func (p *Provider) current(ctx context.Context, t descriptor.Type) (*Registry, error) {
	for attempt := 0; ; attempt++ {
		r, err := p.memo.Get(ctx, t, t, cachemanager.NoExpiration)
		if err != nil {
			return nil, err
		}
		if r.generation == p.generation.Load() || attempt == maxRebuilds {
			return r, nil
		}
		log.Debug(log.CatProvider, "rebuilding registry outdated by flush", "type", t, "id", r.ID())
		if err := p.cache.Delete(ctx, t); err != nil {
			return nil, fmt.Errorf("evict outdated registry %s: %w", t, err)
		}
	}
}

// Create builds and populates a new registry for t. The result is not memoized.
func (p *Provider) Create(t descriptor.Type) (*Registry, error) {
	return p.create(context.Background(), t)
}

func (p *Provider) create(_ context.Context, t descriptor.Type) (*Registry, error) {
	p.mu.RLock()
	registrars := slices.Clone(p.registrars)
	p.mu.RUnlock()

	generation := p.generation.Load()
	r := NewRegistry(t, p)
	r.metrics = p.metrics
	r.generation = generation
	for _, registrar := range registrars {
		if err := registrar.RegisterProperties(t, r); err != nil {
			log.ErrorErr(log.CatProvider, "registrar failed", err, "type", t)
			return nil, fmt.Errorf("register properties for %s: %w", t, err)
		}
	}

	p.metrics.IncrementRegistriesCreated()
	log.Debug(log.CatProvider, "created registry", "type", t, "id", r.ID(), "descriptors", len(r.order))
	return r, nil
}

// CreateForParent returns a new merging registry over parent on every call.
func (p *Provider) CreateForParent(parent Lookup) *MergingRegistry {
	m := NewMergingRegistry(parent, p)
	m.local.metrics = p.metrics
	return m
}

// RegistryFor implements RegistrySource with the memoized registry.
func (p *Provider) RegistryFor(t descriptor.Type) (Lookup, error) {
	return p.Get(t)
}

// Memoized lists the types with a memoized registry.
func (p *Provider) Memoized() []descriptor.Type {
	return p.cache.Keys(context.Background())
}

// Flush drops every memoized registry.
func (p *Provider) Flush() error {
	p.generation.Add(1)
	if err := p.cache.Flush(context.Background()); err != nil {
		return fmt.Errorf("flush registries: %w", err)
	}
	log.Info(log.CatProvider, "registries flushed")
	return nil
}
