package registry

import (
	"context"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"pgregory.net/rapid"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/metrics"
	"github.com/zjrosen/attrsel/internal/selector"
	"github.com/zjrosen/attrsel/internal/tracing"
)

func selectNames(t *testing.T, l Lookup, source RegistrySource, tokens ...string) []string {
	t.Helper()
	result, err := NewExecutor(l, source).Select(selector.Of(tokens...))
	require.NoError(t, err)
	return names(result)
}

func TestExecutor_IncludeExclude(t *testing.T) {
	r := NewRegistry("Item", nil).MustRegister(prop("id"), prop("displayName"))
	require.Equal(t, []string{"id"}, selectNames(t, r, nil, "id", "~displayName"))
}

func TestExecutor_WildcardVersusDeepWildcard(t *testing.T) {
	r := NewRegistry("Item", nil).MustRegister(prop("id"), prop("name"))
	r.SetDefaultFilter(func(d *descriptor.Descriptor) bool { return d.Name() != "id" })

	require.NotContains(t, selectNames(t, r, nil, "*"), "id")
	require.Contains(t, selectNames(t, r, nil, "**"), "id")
}

func TestExecutor_NestedDottedResolution(t *testing.T) {
	order, _ := productFixture(t)

	require.Equal(t,
		[]string{"id", "product.title"},
		selectNames(t, order, order.source, "id", "product.*", "~product.date"),
	)
}

func TestExecutor_NestedPrefixWildcard(t *testing.T) {
	order, _ := productFixture(t)

	require.Equal(t, []string{"product.title"}, selectNames(t, order, order.source, "product.ti*"))
	require.Empty(t, selectNames(t, order, order.source, "product.zz*"))
}

func TestExecutor_PrefixWildcardReachesAssociationMembers(t *testing.T) {
	order, _ := productFixture(t)
	require.NoError(t, order.Register(prop("productCatalog")))

	require.Equal(t,
		[]string{"product", "product.title", "product.date", "productCatalog"},
		selectNames(t, order, order.source, "product*"),
	)
	require.Equal(t,
		[]string{"product.title", "product.date"},
		selectNames(t, order, order.source, "product.*", "product**", "~product", "~productCatalog"),
	)
}

func TestExecutor_PrefixWildcardMemberViews(t *testing.T) {
	product := NewRegistry("Product", nil).MustRegister(prop("title"), hidden("cost"))
	source := mapSource{"Product": product}
	order := NewRegistry("Order", source).MustRegister(
		prop("id"),
		typed("product", "Product"),
		typed("lines", "[]Product"),
	)

	require.Equal(t, []string{"product", "product.title"}, selectNames(t, order, source, "pro*"))
	require.Equal(t, []string{"product", "product.title", "product.cost"}, selectNames(t, order, source, "pro**"))
	require.Equal(t, []string{"lines"}, selectNames(t, order, source, "lin*"), "collections are not unwrapped")
	require.Equal(t, []string{"id"}, selectNames(t, order, source, "id*"))
}

func TestExecutor_DeepScopedWildcard(t *testing.T) {
	address := NewRegistry("Address", nil).MustRegister(prop("street"), prop("city"))
	source := mapSource{"Address": address}
	customer := NewRegistry("Customer", source).MustRegister(typed("address", "Address"))
	source["Customer"] = customer
	order := NewRegistry("Order", source).MustRegister(typed("customer", "Customer"))

	require.Equal(t,
		[]string{"customer.address.street", "customer.address.city"},
		selectNames(t, order, source, "customer.address.*"),
	)
}

func TestExecutor_ScopeWithoutNestedRegistry(t *testing.T) {
	r := NewRegistry("Order", nil).MustRegister(prop("number"))

	_, err := NewExecutor(r, nil).Select(selector.Of("number.*"))
	require.ErrorIs(t, err, ErrDescriptorNotFound)
}

func TestExecutor_ExcludeUnknownScopeIsNotAnError(t *testing.T) {
	order, _ := productFixture(t)

	require.Equal(t, []string{"id"}, selectNames(t, order, order.source, "id", "~nope.*"))
	require.Equal(t, []string{"id"}, selectNames(t, order, order.source, "id", "~id.**"))

	_, err := NewExecutor(order, order.source).Select(selector.Of("id", "nope.*"))
	require.ErrorIs(t, err, ErrDescriptorNotFound, "an included unknown scope stays fatal")
}

func TestExecutor_NotFoundIsFatal(t *testing.T) {
	r := NewRegistry("Item", nil).MustRegister(prop("id"))

	result, err := r.Select(selector.Of("id", "not-existing"))
	require.ErrorIs(t, err, ErrDescriptorNotFound)
	require.Nil(t, result)
}

func TestExecutor_ReincludeAppendsAtEnd(t *testing.T) {
	r := NewRegistry("Item", nil).MustRegister(prop("a"), prop("b"), prop("c"))

	require.Equal(t, []string{"c", "a", "b"}, selectNames(t, r, nil, "c", "a", "**"))
	require.Equal(t, []string{"a", "b", "c"}, selectNames(t, r, nil, "c", "~*", "a", "**"))
	require.Equal(t, []string{"b"}, selectNames(t, r, nil, "a", "b", "~a", "d*"))
}

func TestExecutor_ReadableWritable(t *testing.T) {
	r := NewRegistry("Account", nil).MustRegister(
		prop("id"),
		descriptor.NewBuilder("balance").Writable(false).MustBuild(),
		descriptor.NewBuilder("password").Readable(false).Hidden(true).MustBuild(),
	)

	require.Equal(t, []string{"id", "balance"}, selectNames(t, r, nil, ":readable"))
	require.Equal(t, []string{"id", "password"}, selectNames(t, r, nil, ":writable"))
	require.Equal(t, []string{"balance"}, selectNames(t, r, nil, ":readable", "~:writable"))
}

func TestExecutor_ExcludeWildcard(t *testing.T) {
	r := NewRegistry("Item", nil).MustRegister(prop("a"), hidden("h"))

	require.Equal(t, []string{"h"}, selectNames(t, r, nil, "**", "~*"))
	require.Empty(t, selectNames(t, r, nil, "**", "~**"))
}

func TestExecutor_MemberPaths(t *testing.T) {
	parent, source := userGroupFixture(t)
	merging := NewMergingRegistry(parent, source)

	require.Equal(t,
		[]string{"users[].email", "users[].login"},
		selectNames(t, merging, source, "users[].*"),
	)
}

func TestExecutor_IllegalNesting(t *testing.T) {
	r := NewRegistry("Item", nil).MustRegister(prop("id"), prop("name"))
	exec := NewExecutor(r, nil)

	var nestedErr error
	sel := selector.Of("*").WithPredicate(func(d *descriptor.Descriptor) bool {
		_, nestedErr = exec.Select(selector.Of("id"))
		return true
	})

	result, err := exec.Select(sel)
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.ErrorIs(t, nestedErr, ErrIllegalNesting)

	again, err := exec.Select(selector.Of("id"))
	require.NoError(t, err, "the executor is reusable after a selection ends")
	require.Len(t, again, 1)
}

func TestExecutor_TracingAndMetrics(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)).Tracer("test")
	m := metrics.New()

	r := NewRegistry("Item", nil).MustRegister(prop("id"), prop("name"))
	exec := NewExecutor(r, nil, WithTracer(tracer), WithExecutorMetrics(m))

	_, err := exec.SelectContext(context.Background(), selector.Of("*"))
	require.NoError(t, err)
	_, err = exec.SelectContext(context.Background(), selector.Of("missing"))
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	require.Equal(t, tracing.SpanSelect, spans[0].Name)

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	require.NotEmpty(t, attrs[tracing.AttrSelectionID])
	require.EqualValues(t, 2, attrs[tracing.AttrSelectionCount])

	require.InDelta(t, 1, testutil.ToFloat64(m.Selections.WithLabelValues("ok")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.Selections.WithLabelValues("error")), 0)
}

// TestExecutor_Properties checks, for random selectors over a fixed
// registry, that results are de-duplicated, respect the final flag of every
// literal token and keep included literals in the result.
func TestExecutor_Properties(t *testing.T) {
	pool := []string{"id", "name", "email", "created", "secret"}
	r := NewRegistry("Customer", nil).MustRegister(
		prop("id"), prop("name"), prop("email"), prop("created"), hidden("secret"),
	)
	wildcards := []string{"*", "**", "~*", "~**", "e*", "~c*", ":readable"}

	rapid.Check(t, func(t *rapid.T) {
		tokens := rapid.SliceOfN(rapid.OneOf(
			rapid.SampledFrom(pool),
			rapid.Map(rapid.SampledFrom(pool), func(s string) string { return "~" + s }),
			rapid.SampledFrom(wildcards),
		), 0, 8).Draw(t, "tokens")

		sel := selector.Of(tokens...)
		result, err := r.Select(sel)
		if err != nil {
			t.Fatalf("select %v: %v", tokens, err)
		}

		got := names(result)
		seen := map[string]bool{}
		for _, n := range got {
			if seen[n] {
				t.Fatalf("duplicate %q in %v", n, got)
			}
			seen[n] = true
		}

		// The last literal mention decides only when no wildcard follows it.
		last := -1
		for i, p := range sel.PropertiesToSelect() {
			if selector.Classify(p.Name).IsWildcard() {
				last = i
			}
		}
		for i, p := range sel.PropertiesToSelect() {
			if i <= last || selector.Classify(p.Name).IsWildcard() {
				continue
			}
			if p.Include != slices.Contains(got, p.Name) {
				t.Fatalf("%q include=%v but result %v", p.Name, p.Include, got)
			}
		}
	})
}
