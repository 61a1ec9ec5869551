package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/attrsel/internal/descriptor"
)

// mapSource is a fixed RegistrySource.
type mapSource map[descriptor.Type]Lookup

func (s mapSource) RegistryFor(t descriptor.Type) (Lookup, error) {
	if l, ok := s[t]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("no registry for %s", t)
}

func prop(name string) *descriptor.Descriptor {
	return descriptor.NewBuilder(name).MustBuild()
}

func typed(name string, t descriptor.Type) *descriptor.Descriptor {
	return descriptor.NewBuilder(name).ValueType(t).MustBuild()
}

func hidden(name string) *descriptor.Descriptor {
	return descriptor.NewBuilder(name).Hidden(true).MustBuild()
}

func names(ds []*descriptor.Descriptor) []string {
	return descriptor.Names(ds)
}

// productFixture builds Order{id, name, product: Product{title, date}} with
// the product registry reachable through a source.
func productFixture(t *testing.T) (*Registry, *Registry) {
	t.Helper()

	product := NewRegistry("Product", nil).MustRegister(prop("title"), prop("date"))
	source := mapSource{"Product": product}
	order := NewRegistry("Order", source).MustRegister(
		prop("id"),
		prop("name"),
		typed("product", "Product"),
	)
	return order, product
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry("Customer", nil)

	require.ErrorIs(t, r.Register(nil), ErrNilDescriptor)
	require.NoError(t, r.Register(prop("id")))
	require.NoError(t, r.Register(prop("name")))

	require.Equal(t, []string{"id", "name"}, names(r.RegisteredDescriptors()))
	require.NotEmpty(t, r.ID())
	require.Equal(t, descriptor.Type("Customer"), r.Type())
}

func TestRegistry_ReplaceKeepsPosition(t *testing.T) {
	r := NewRegistry("Customer", nil).MustRegister(prop("id"), prop("name"), prop("created"))

	replacement := descriptor.NewBuilder("name").DisplayName("Full name").MustBuild()
	require.NoError(t, r.Register(replacement))

	require.Equal(t, []string{"id", "name", "created"}, names(r.RegisteredDescriptors()))
	got, err := r.Property("name")
	require.NoError(t, err)
	require.Same(t, replacement, got)
}

func TestRegistry_CaseNormalization(t *testing.T) {
	url := prop("URL")
	r := NewRegistry("Link", nil).MustRegister(url)

	exact, err := r.Property("URL")
	require.NoError(t, err)
	require.Same(t, url, exact)

	flipped, err := r.Property("uRL")
	require.NoError(t, err)
	require.Same(t, url, flipped)

	_, err = r.Property("url")
	require.ErrorIs(t, err, ErrDescriptorNotFound)
}

func TestRegistry_DefaultOrderFallback(t *testing.T) {
	r := NewRegistry("Customer", nil).MustRegister(prop("id"), prop("name"), prop("created"))

	r.SetDefaultOrder("created", "name")

	require.Equal(t, []string{"created", "name", "id"}, names(r.Properties()))
	require.Equal(t, []string{"created", "name", "id"}, names(r.RegisteredDescriptors()))
}

func TestRegistry_DisplayOrderStable(t *testing.T) {
	r := NewRegistry("Customer", nil).MustRegister(
		descriptor.NewBuilder("c").DisplayOrder(2).MustBuild(),
		descriptor.NewBuilder("a").DisplayOrder(1).MustBuild(),
		descriptor.NewBuilder("b").DisplayOrder(2).MustBuild(),
		descriptor.NewBuilder("d").DisplayOrder(1).MustBuild(),
	)

	require.Equal(t, []string{"a", "d", "c", "b"}, names(r.Properties()))

	r.SetDefaultOrder("b", "missing")
	require.Equal(t, []string{"b", "a", "d", "c"}, names(r.Properties()))
}

func TestRegistry_DefaultFilter(t *testing.T) {
	r := NewRegistry("Customer", nil).MustRegister(hidden("id"), prop("name"), prop("email"))

	require.Equal(t, []string{"name", "email"}, names(r.Properties()))
	require.Equal(t, []string{"id", "name", "email"}, names(r.RegisteredDescriptors()))

	r.SetDefaultFilter(func(d *descriptor.Descriptor) bool { return d.Name() != "email" })
	require.Equal(t, []string{"id", "name"}, names(r.Properties()))

	r.SetDefaultFilter(nil)
	require.Equal(t, []string{"name", "email"}, names(r.Properties()))
}

func TestRegistry_Filter(t *testing.T) {
	r := NewRegistry("Customer", nil).MustRegister(
		prop("id"),
		descriptor.NewBuilder("total").Writable(false).MustBuild(),
	)

	require.Equal(t, []string{"id"}, names(r.Filter(descriptor.IsWritable)))
	require.Equal(t, []string{"id", "total"}, names(r.Filter(nil)))
}

func TestRegistry_RemoveAndContains(t *testing.T) {
	r := NewRegistry("Customer", nil).MustRegister(prop("id"), prop("name"))

	require.True(t, r.Contains("id"))
	require.True(t, r.Remove("id"))
	require.False(t, r.Remove("id"))
	require.False(t, r.Contains("id"))
	require.Equal(t, []string{"name"}, names(r.RegisteredDescriptors()))

	_, err := r.Property("id")
	require.ErrorIs(t, err, ErrDescriptorNotFound)
}

func TestRegistry_DottedResolution(t *testing.T) {
	order, product := productFixture(t)

	title, err := order.Property("product.title")
	require.NoError(t, err)
	require.Equal(t, "product.title", title.Name())
	require.True(t, title.IsNested())

	parent, _ := order.Property("product")
	target, _ := product.Property("title")
	require.Same(t, parent, title.Parent())
	require.Same(t, target, title.Target())

	again, err := order.Property("product.title")
	require.NoError(t, err)
	require.Same(t, title, again, "composed descriptors are cached")

	require.False(t, order.Contains("product.title"))
	require.NotContains(t, names(order.RegisteredDescriptors()), "product.title")
}

func TestRegistry_DottedResolutionDeep(t *testing.T) {
	address := NewRegistry("Address", nil).MustRegister(prop("city"))
	source := mapSource{"Address": address}
	customer := NewRegistry("Customer", source).MustRegister(typed("address", "Address"))
	source["Customer"] = customer
	order := NewRegistry("Order", source).MustRegister(typed("customer", "Customer"))

	city, err := order.Property("customer.address.city")
	require.NoError(t, err)
	require.Equal(t, "customer.address.city", city.Name())
	require.Equal(t, "customer", city.Parent().Name())
	require.Equal(t, "address.city", city.Target().Name())
}

func TestRegistry_DottedNotFound(t *testing.T) {
	order, _ := productFixture(t)

	tests := []struct {
		path    string
		segment string
	}{
		{"missing.title", "missing"},
		{"product.missing", "missing"},
		{"name.first", "first"},
		{"nothing", "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := order.Property(tt.path)
			require.ErrorIs(t, err, ErrDescriptorNotFound)

			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			require.Equal(t, tt.path, nf.Path)
			require.Equal(t, tt.segment, nf.Segment)
		})
	}
}

func TestRegistry_DottedWithoutSource(t *testing.T) {
	r := NewRegistry("Order", nil).MustRegister(typed("product", "Product"))

	_, err := r.Property("product.title")
	require.ErrorIs(t, err, ErrDescriptorNotFound)
}

func TestRegistry_FlatDottedNameWins(t *testing.T) {
	order, _ := productFixture(t)
	flat := prop("product.title")
	require.NoError(t, order.Register(flat))

	got, err := order.Property("product.title")
	require.NoError(t, err)
	require.Same(t, flat, got)
}

func TestRegistry_NestedRegistryAttribute(t *testing.T) {
	inline := NewRegistry("Money", nil).MustRegister(prop("amount"), prop("currency"))
	total := WithNestedRegistry(descriptor.NewBuilder("total").ValueType("Money"), inline).MustBuild()
	r := NewRegistry("Order", nil).MustRegister(total)

	got, ok := NestedRegistryOf(total)
	require.True(t, ok)
	require.Same(t, inline, got)

	currency, err := r.Property("total.currency")
	require.NoError(t, err)
	require.Equal(t, "total.currency", currency.Name())
}

func TestRegistry_Member(t *testing.T) {
	user := NewRegistry("User", nil).MustRegister(prop("email"))
	r := NewRegistry("Group", mapSource{"User": user}).MustRegister(
		typed("users", descriptor.CollectionOf("User")),
		prop("name"),
	)

	m, err := r.Property("users[]")
	require.NoError(t, err)
	require.Equal(t, descriptor.Type("User"), m.ValueType())
	require.True(t, m.IsMember())
	require.True(t, m.Hidden())

	email, err := r.Property("users[].email")
	require.NoError(t, err)
	require.Equal(t, "users[].email", email.Name())

	_, err = r.Property("name[]")
	require.ErrorIs(t, err, ErrDescriptorNotFound)
}

func TestRegistry_ReRegisterEvictsDerived(t *testing.T) {
	order, _ := productFixture(t)
	before, err := order.Property("product.title")
	require.NoError(t, err)

	require.NoError(t, order.Register(typed("product", "Product")))

	after, err := order.Property("product.title")
	require.NoError(t, err)
	require.NotSame(t, before, after)

	require.True(t, order.Remove("product"))
	_, err = order.Property("product.title")
	require.ErrorIs(t, err, ErrDescriptorNotFound)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	order, _ := productFixture(t)

	var wg sync.WaitGroup
	results := make([]*descriptor.Descriptor, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := order.Property("product.date")
			if err == nil {
				results[i] = d
			}
			_ = order.Properties()
		}()
	}
	wg.Wait()

	for _, d := range results {
		require.Same(t, results[0], d)
	}
}

func TestNotFoundError_Message(t *testing.T) {
	require.Equal(t, `descriptor not found: "id"`, (&NotFoundError{Path: "id", Segment: "id"}).Error())
	require.Equal(t,
		`descriptor not found: "product.size" (unresolved segment "size")`,
		(&NotFoundError{Path: "product.size", Segment: "size"}).Error(),
	)
}

func TestFlipFirstCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"uRL", "URL", true},
		{"URL", "uRL", true},
		{"url", "", false},
		{"u", "", false},
		{"", "", false},
		{"1D", "", false},
	}
	for _, tt := range tests {
		got, ok := flipFirstCase(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}
