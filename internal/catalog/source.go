package catalog

import (
	"context"
	"io/fs"
	"sync/atomic"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/metrics"
	"github.com/zjrosen/attrsel/internal/pubsub"
	"github.com/zjrosen/attrsel/internal/registry"
)

// Flusher drops registries built from a previous catalog.
type Flusher interface {
	Flush() error
}

// ReloadEvent is published after every reload attempt.
type ReloadEvent struct {
	Types []string
	Err   error
}

// Source serves the current catalog and swaps it on Reload. It is safe for
// concurrent use.
type Source struct {
	current atomic.Pointer[Catalog]
	flusher Flusher
	broker  *pubsub.Broker[ReloadEvent]
	metrics *metrics.Metrics
}

var _ registry.Registrar = (*Source)(nil)

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithFlusher flushes f after each successful reload.
func WithFlusher(f Flusher) SourceOption {
	return func(s *Source) { s.flusher = f }
}

// WithSourceMetrics counts reloads.
func WithSourceMetrics(m *metrics.Metrics) SourceOption {
	return func(s *Source) { s.metrics = m }
}

// NewSource serves initial, which may be nil for an empty catalog.
func NewSource(initial *Catalog, opts ...SourceOption) *Source {
	s := &Source{broker: pubsub.NewBroker[ReloadEvent]()}
	for _, opt := range opts {
		opt(s)
	}
	if initial == nil {
		initial, _ = New()
	}
	s.current.Store(initial)
	return s
}

// SetFlusher sets the flusher after construction, for providers that are
// built with the source as a registrar.
func (s *Source) SetFlusher(f Flusher) {
	s.flusher = f
}

// Catalog returns the current catalog.
func (s *Source) Catalog() *Catalog {
	return s.current.Load()
}

// RegisterProperties delegates to the current catalog.
func (s *Source) RegisterProperties(t descriptor.Type, r *registry.Registry) error {
	return s.Catalog().RegisterProperties(t, r)
}

// Reload loads fsys and, when valid, replaces the current catalog and
// flushes dependent registries. An invalid catalog keeps the previous one.
func (s *Source) Reload(fsys fs.FS) error {
	next, err := Load(fsys)
	s.metrics.IncrementCatalogReload(err)
	if err != nil {
		log.ErrorErr(log.CatCatalog, "catalog reload failed", err)
		s.broker.Publish(pubsub.FailedEvent, ReloadEvent{Err: err})
		return err
	}

	s.current.Store(next)
	if s.flusher != nil {
		if err := s.flusher.Flush(); err != nil {
			log.ErrorErr(log.CatCatalog, "flush after reload failed", err)
		}
	}

	log.Info(log.CatCatalog, "catalog reloaded", "types", len(next.types))
	s.broker.Publish(pubsub.UpdatedEvent, ReloadEvent{Types: next.Names()})
	return nil
}

// Subscribe returns reload events until ctx is cancelled.
func (s *Source) Subscribe(ctx context.Context) <-chan pubsub.Event[ReloadEvent] {
	return s.broker.Subscribe(ctx)
}

// Close stops event delivery.
func (s *Source) Close() {
	s.broker.Close()
}
