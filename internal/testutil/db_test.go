package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTestDB_TablesExist(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"regions", "customers", "products", "orders", "order_lines"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		require.NoError(t, err, "table %s should be queryable", table)
		require.Zero(t, count)
	}
}

func TestBuilder_ShopTestData(t *testing.T) {
	db := NewTestDB(t)
	NewBuilder(t, db).WithShopTestData().Build()

	var customers, lines int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM customers").Scan(&customers))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM order_lines").Scan(&lines))
	require.Equal(t, 3, customers)
	require.Equal(t, 3, lines)

	var shipTo string
	err := db.QueryRow(`SELECT c.name FROM orders o JOIN customers c ON c.id = o.ship_to_id WHERE o.id = 10`).Scan(&shipTo)
	require.NoError(t, err)
	require.Equal(t, "carol", shipTo)

	var email *string
	require.NoError(t, db.QueryRow("SELECT email FROM customers WHERE id = 2").Scan(&email))
	require.Nil(t, email)
}

func TestBuilder_LineNumbersFollowOrder(t *testing.T) {
	db := NewTestDB(t)
	NewBuilder(t, db).
		WithCustomer(1, "alice").
		WithProduct("A", "a", 1).
		WithProduct("B", "b", 2).
		WithOrder(1, 1, Lines(Line("B", 1), Line("A", 3))).
		Build()

	var sku string
	require.NoError(t, db.QueryRow("SELECT sku FROM order_lines WHERE order_id = 1 AND line_no = 1").Scan(&sku))
	require.Equal(t, "B", sku)
}

func TestShopCatalog(t *testing.T) {
	c := ShopCatalog(t)
	require.Equal(t, []string{"Order", "Customer", "OrderLine"}, c.Names())
}

func TestNewTestDBFile(t *testing.T) {
	path := NewTestDBFile(t, func(b *Builder) { b.WithShopTestData() })

	db, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&n))
	require.Equal(t, 3, n)
}
