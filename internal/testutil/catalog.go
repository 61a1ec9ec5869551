package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/attrsel/internal/catalog"
)

// ShopYAML is a catalog describing orders, their customers and lines.
const ShopYAML = `types:
  - name: Order
    description: A sales order
    default_order: [number, customer]
    properties:
      - name: customer
        type: Customer
      - name: number
        display_name: Order number
      - name: lines
        type: "[]OrderLine"
        writable: false
      - name: internalNote
        hidden: true
  - name: Customer
    properties:
      - name: name
        description: Full name
      - name: email
  - name: OrderLine
    properties:
      - name: sku
      - name: quantity
        type: int
`

// ShopCatalog decodes ShopYAML.
func ShopCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	f, err := catalog.Decode(strings.NewReader(ShopYAML))
	require.NoError(t, err)
	c, err := catalog.New(f.Types...)
	require.NoError(t, err)
	return c
}
