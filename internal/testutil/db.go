// Package testutil provides test databases and registry fixtures.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"
)

// Schema is a small shop: customers live in regions, orders belong to a
// customer and may ship to another one, order lines reference products.
const Schema = `
CREATE TABLE regions (
	id INTEGER PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL
);

CREATE TABLE customers (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT,
	region_id INTEGER REFERENCES regions(id)
);

CREATE TABLE products (
	sku TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	price NUMERIC(10,2) NOT NULL DEFAULT 0
);

CREATE TABLE orders (
	id INTEGER PRIMARY KEY,
	number TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'open',
	customer_id INTEGER NOT NULL REFERENCES customers(id),
	ship_to_id INTEGER REFERENCES customers
);

CREATE TABLE order_lines (
	order_id INTEGER NOT NULL REFERENCES orders(id),
	line_no INTEGER NOT NULL,
	sku TEXT NOT NULL REFERENCES products(sku),
	quantity INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (order_id, line_no)
);
`

// NewTestDB creates an in-memory SQLite database with the shop schema.
// The pool is limited to one connection so every query sees the same
// in-memory database. The database is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(Schema)
	require.NoError(t, err)
	return db
}

// NewTestDBFile creates the shop schema in a database file under t.TempDir
// and returns its path. build, when set, fills the database before it is
// closed.
func NewTestDBFile(t *testing.T, build func(*Builder)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(Schema)
	require.NoError(t, err)
	if build != nil {
		b := NewBuilder(t, db)
		build(b)
		b.Build()
	}
	require.NoError(t, db.Close())
	return path
}
