package templates

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/attrsel/internal/catalog"
)

func TestCatalogFS_Files(t *testing.T) {
	matches, err := fs.Glob(CatalogFS(), "*.yaml")
	require.NoError(t, err)
	require.Equal(t, []string{"shop.yaml"}, matches)
}

func TestCatalogFS_IsValidCatalog(t *testing.T) {
	c, err := catalog.Load(CatalogFS())
	require.NoError(t, err)
	require.Equal(t, []string{"Order", "Customer", "Address", "OrderLine"}, c.Names())

	order, ok := c.Type("Order")
	require.True(t, ok)
	require.Equal(t, []string{"number", "customer", "placedAt"}, order.DefaultOrder)
	require.Equal(t, "shop.yaml", order.Source)
}
