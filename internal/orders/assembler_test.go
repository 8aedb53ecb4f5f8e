package orders

import (
	"context"
	"testing"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestAssembleTotals(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	asm := NewAssembler(db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "ASM-001", 50)
	gadget := seedProduct(t, db, "Gadget", "ASM-002", 50)

	out, err := asm.Assemble(ctx, domain.OrderTypeSale, []ItemRequest{
		{ProductID: widget.ID, Quantity: 4, Price: 2.5},
		{ProductID: gadget.ID, Quantity: 1, Price: 7},
	}, 1.5, 0.5)
	require.NoError(t, err)

	require.InDelta(t, 17.0, out.Subtotal, 1e-9)
	require.InDelta(t, 18.0, out.TotalAmount, 1e-9)
	require.Len(t, out.Items, 2)
	require.InDelta(t, 10.0, out.Items[0].Total, 1e-9)

	// Assembly must not touch stock
	require.Equal(t, 50, productQuantity(t, db, widget.ID))
}

func TestAssembleSnapshotsProductFields(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	asm := NewAssembler(db)

	widget := seedProduct(t, db, "Widget", "ASM-003", 50)

	out, err := asm.Assemble(context.Background(), domain.OrderTypePurchase,
		[]ItemRequest{{ProductID: widget.ID, Quantity: 2, Price: 3}}, 0, 0)
	require.NoError(t, err)

	require.Equal(t, "Widget", out.Items[0].ProductName)
	require.Equal(t, "ASM-003", out.Items[0].ProductSku)
	require.Equal(t, widget.ID, out.Items[0].ProductID)
}

func TestAssembleValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	asm := NewAssembler(db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "ASM-004", 5)
	one := []ItemRequest{{ProductID: widget.ID, Quantity: 1, Price: 1}}

	cases := []struct {
		name      string
		orderType string
		items     []ItemRequest
		tax       float64
		discount  float64
	}{
		{"unknown type", "transfer", one, 0, 0},
		{"no items", domain.OrderTypeSale, nil, 0, 0},
		{"zero quantity", domain.OrderTypeSale, []ItemRequest{{ProductID: widget.ID, Quantity: 0, Price: 1}}, 0, 0},
		{"negative price", domain.OrderTypeSale, []ItemRequest{{ProductID: widget.ID, Quantity: 1, Price: -1}}, 0, 0},
		{"negative tax", domain.OrderTypeSale, one, -1, 0},
		{"negative discount", domain.OrderTypeSale, one, 0, -1},
		{"discount exceeds total", domain.OrderTypeSale, one, 0, 100},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := asm.Assemble(ctx, tc.orderType, tc.items, tc.tax, tc.discount)
			require.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestAssembleUnknownProduct(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	asm := NewAssembler(db)

	_, err := asm.Assemble(context.Background(), domain.OrderTypeSale,
		[]ItemRequest{{ProductID: 777, Quantity: 1, Price: 1}}, 0, 0)
	require.True(t, IsNotFound(err))
}

func TestAssembleSaleChecksStock(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	asm := NewAssembler(db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "ASM-005", 3)

	_, err := asm.Assemble(ctx, domain.OrderTypeSale,
		[]ItemRequest{{ProductID: widget.ID, Quantity: 4, Price: 1}}, 0, 0)
	require.True(t, IsInsufficientStock(err))

	// Purchases are unconstrained by current stock
	_, err = asm.Assemble(ctx, domain.OrderTypePurchase,
		[]ItemRequest{{ProductID: widget.ID, Quantity: 400, Price: 1}}, 0, 0)
	require.NoError(t, err)
}
