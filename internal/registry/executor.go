package registry

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/metrics"
	"github.com/zjrosen/attrsel/internal/selector"
	"github.com/zjrosen/attrsel/internal/tracing"
)

const tracerName = "github.com/zjrosen/attrsel/internal/registry"

// Executor evaluates selectors against a root registry.
//
// An Executor runs one selection at a time; starting another selection
// while one is running (from a predicate, for instance) fails with
// ErrIllegalNesting.
type Executor struct {
	root    Lookup
	source  RegistrySource
	tracer  trace.Tracer
	metrics *metrics.Metrics
	running atomic.Bool
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithTracer sets the tracer used for selection spans.
func WithTracer(t trace.Tracer) ExecutorOption {
	return func(e *Executor) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithExecutorMetrics records selection counts and latency.
func WithExecutorMetrics(m *metrics.Metrics) ExecutorOption {
	return func(e *Executor) {
		e.metrics = m
	}
}

// NewExecutor creates an executor over root. source resolves the nested
// registries of scoped wildcards and may be nil.
func NewExecutor(root Lookup, source RegistrySource, opts ...ExecutorOption) *Executor {
	e := &Executor{
		root:   root,
		source: source,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select resolves sel into an ordered, de-duplicated descriptor list.
func (e *Executor) Select(sel selector.Selector) ([]*descriptor.Descriptor, error) {
	return e.SelectContext(context.Background(), sel)
}

// SelectContext is Select with a context for tracing.
// On error no partial result is returned.
func (e *Executor) SelectContext(ctx context.Context, sel selector.Selector) ([]*descriptor.Descriptor, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrIllegalNesting
	}
	defer e.running.Store(false)

	id := uuid.NewString()
	ctx = tracing.ContextWithSelectionID(ctx, id)
	ctx, span := e.tracer.Start(ctx, tracing.SpanSelect, trace.WithAttributes(
		attribute.String(tracing.AttrSelectionID, id),
		attribute.String(tracing.AttrSelector, sel.String()),
		attribute.Int(tracing.AttrTermCount, sel.Len()),
	))
	defer span.End()

	start := time.Now()
	result, err := e.run(ctx, sel)
	e.metrics.ObserveSelection(time.Since(start), len(result), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatSelector, "selection failed", err, "id", id, "selector", sel.String())
		return nil, err
	}

	span.SetAttributes(attribute.Int(tracing.AttrSelectionCount, len(result)))
	span.SetStatus(codes.Ok, "")
	log.Debug(log.CatSelector, "selection resolved", "id", id, "selector", sel.String(), "count", len(result))
	return result, nil
}

func (e *Executor) run(ctx context.Context, sel selector.Selector) ([]*descriptor.Descriptor, error) {
	var set selection

	for _, term := range sel.Terms() {
		if !term.IsWildcard() {
			if !term.Include {
				set.remove(term.Expr)
				continue
			}
			d, err := e.root.Property(term.Expr)
			if err != nil {
				return nil, err
			}
			set.add(d)
			continue
		}

		expanded, err := e.expand(ctx, term)
		if err != nil {
			if !term.Include && errors.Is(err, ErrDescriptorNotFound) {
				// nothing under an unknown scope can have been selected
				continue
			}
			return nil, err
		}
		for _, d := range expanded {
			if term.Include {
				set.add(d)
			} else {
				set.remove(d.Name())
			}
		}
	}

	result := set.list()
	if p := sel.Predicate(); p != nil {
		result = descriptor.Filter(result, p)
	}
	return result, nil
}

// expand returns the descriptors a wildcard term stands for, in natural order.
func (e *Executor) expand(ctx context.Context, term selector.Term) ([]*descriptor.Descriptor, error) {
	if term.Scope != "" {
		return e.expandScoped(ctx, term)
	}

	switch term.Kind {
	case selector.KindAll:
		return e.root.Properties(), nil
	case selector.KindRegistered:
		return e.root.RegisteredDescriptors(), nil
	case selector.KindPrefix:
		return e.withPrefix(e.root.Properties(), term.Prefix, Lookup.Properties)
	case selector.KindRegisteredPrefix:
		return e.withPrefix(e.root.RegisteredDescriptors(), term.Prefix, Lookup.RegisteredDescriptors)
	case selector.KindReadable:
		return descriptor.Filter(e.root.RegisteredDescriptors(), descriptor.IsReadable), nil
	case selector.KindWritable:
		return descriptor.Filter(e.root.RegisteredDescriptors(), descriptor.IsWritable), nil
	default:
		return nil, nil
	}
}

// expandScoped evaluates the tail of "scope.<wildcard>" in the nested
// registry of scope and maps each result back to "scope.name".
func (e *Executor) expandScoped(ctx context.Context, term selector.Term) ([]*descriptor.Descriptor, error) {
	scope, err := e.root.Property(term.Scope)
	if err != nil {
		return nil, err
	}
	nested, err := nestedRegistry(scope, e.source)
	if err != nil {
		return nil, notFound(term.Expr, term.Tail())
	}

	trace.SpanFromContext(ctx).AddEvent(tracing.EventScopeResolved, trace.WithAttributes(
		attribute.String("scope", term.Scope),
	))

	sub := NewExecutor(nested, e.source, WithTracer(e.tracer))
	children, err := sub.run(ctx, selector.Of(term.Tail()))
	if err != nil {
		return nil, err
	}

	result := make([]*descriptor.Descriptor, 0, len(children))
	for _, child := range children {
		d, err := e.root.Property(term.Scope + "." + child.Name())
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

// withPrefix keeps the descriptors of ds whose name starts with prefix. An
// association also contributes its members, one level deep, when
// "association.member" starts with prefix; they follow the association and
// come from the view members picks on the nested registry.
func (e *Executor) withPrefix(ds []*descriptor.Descriptor, prefix string, members func(Lookup) []*descriptor.Descriptor) ([]*descriptor.Descriptor, error) {
	var out []*descriptor.Descriptor
	for _, d := range ds {
		if strings.HasPrefix(d.Name(), prefix) {
			out = append(out, d)
		}

		scope := d.Name() + "."
		if !strings.HasPrefix(scope, prefix) && !strings.HasPrefix(prefix, scope) {
			continue
		}
		if d.ValueType().IsCollection() {
			continue
		}
		nested, err := nestedRegistry(d, e.source)
		if err != nil {
			// plain values have no members
			continue
		}
		for _, child := range members(nested) {
			name := scope + child.Name()
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			composed, err := e.root.Property(name)
			if err != nil {
				return nil, err
			}
			out = append(out, composed)
		}
	}
	return out, nil
}

// selection is the ordered result under construction. Removed entries are
// tombstoned so positions stay valid; re-adding appends at the end.
type selection struct {
	items []*descriptor.Descriptor
	index map[string]int
}

func (s *selection) add(d *descriptor.Descriptor) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[d.Name()]; ok {
		return
	}
	s.index[d.Name()] = len(s.items)
	s.items = append(s.items, d)
}

func (s *selection) remove(name string) {
	if i, ok := s.index[name]; ok {
		s.items[i] = nil
		delete(s.index, name)
	}
}

func (s *selection) list() []*descriptor.Descriptor {
	out := make([]*descriptor.Descriptor, 0, len(s.index))
	for _, d := range s.items {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
