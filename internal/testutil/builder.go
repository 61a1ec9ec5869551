package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type regionData struct {
	id   int
	code string
	name string
}

type productData struct {
	sku   string
	title string
	price float64
}

// Builder accumulates shop rows and inserts them in dependency order.
type Builder struct {
	t         *testing.T
	db        *sql.DB
	regions   []regionData
	customers []customerData
	products  []productData
	orders    []orderData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithRegion adds a region.
func (b *Builder) WithRegion(id int, code, name string) *Builder {
	b.regions = append(b.regions, regionData{id, code, name})
	return b
}

// WithCustomer adds a customer with optional configuration.
func (b *Builder) WithCustomer(id int, name string, opts ...CustomerOption) *Builder {
	c := customerData{id: id, name: name}
	for _, opt := range opts {
		opt(&c)
	}
	b.customers = append(b.customers, c)
	return b
}

// WithProduct adds a product.
func (b *Builder) WithProduct(sku, title string, price float64) *Builder {
	b.products = append(b.products, productData{sku, title, price})
	return b
}

// WithOrder adds an order placed by customerID. The order number defaults
// to SO-<id>.
func (b *Builder) WithOrder(id, customerID int, opts ...OrderOption) *Builder {
	o := orderData{id: id, number: fmt.Sprintf("SO-%d", id), status: "open", customerID: customerID}
	for _, opt := range opts {
		opt(&o)
	}
	b.orders = append(b.orders, o)
	return b
}

// Build inserts all accumulated rows into the database.
func (b *Builder) Build() {
	b.t.Helper()
	// regions → customers → products → orders → lines
	for _, r := range b.regions {
		b.exec(`INSERT INTO regions (id, code, name) VALUES (?, ?, ?)`, r.id, r.code, r.name)
	}
	for _, c := range b.customers {
		b.exec(`INSERT INTO customers (id, name, email, region_id) VALUES (?, ?, ?, ?)`,
			c.id, c.name, c.email, c.regionID)
	}
	for _, p := range b.products {
		b.exec(`INSERT INTO products (sku, title, price) VALUES (?, ?, ?)`, p.sku, p.title, p.price)
	}
	for _, o := range b.orders {
		b.exec(`INSERT INTO orders (id, number, status, customer_id, ship_to_id) VALUES (?, ?, ?, ?, ?)`,
			o.id, o.number, o.status, o.customerID, o.shipToID)
		for i, l := range o.lines {
			b.exec(`INSERT INTO order_lines (order_id, line_no, sku, quantity) VALUES (?, ?, ?, ?)`,
				o.id, i+1, l.SKU, l.Quantity)
		}
	}
}

func (b *Builder) exec(query string, args ...any) {
	b.t.Helper()
	_, err := b.db.Exec(query, args...)
	require.NoError(b.t, err)
}
