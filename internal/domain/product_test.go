package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductStockStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		quantity int
		minStock int
		want     string
	}{
		{"empty", 0, 10, StockStatusOut},
		{"below threshold", 5, 10, StockStatusLow},
		{"at threshold", 10, 10, StockStatusLow},
		{"above threshold", 11, 10, StockStatusIn},
		{"zero threshold with stock", 3, 0, StockStatusIn},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Quantity: tc.quantity, MinStockLevel: tc.minStock}
			require.Equal(t, tc.want, p.StockStatus())
		})
	}
}

func TestProductIsLowStock(t *testing.T) {
	t.Parallel()

	require.True(t, Product{Quantity: 0, MinStockLevel: 5}.IsLowStock())
	require.True(t, Product{Quantity: 5, MinStockLevel: 5}.IsLowStock())
	require.False(t, Product{Quantity: 6, MinStockLevel: 5}.IsLowStock())
}
