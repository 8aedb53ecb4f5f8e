package orders

import (
	"testing"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	require.True(t, CanTransition(domain.OrderStatusPending, domain.OrderStatusConfirmed))
	require.True(t, CanTransition(domain.OrderStatusPending, domain.OrderStatusCompleted))
	require.True(t, CanTransition(domain.OrderStatusConfirmed, domain.OrderStatusProcessing))
	require.True(t, CanTransition(domain.OrderStatusProcessing, domain.OrderStatusCancelled))

	// Same-status updates are allowed
	require.True(t, CanTransition(domain.OrderStatusPending, domain.OrderStatusPending))

	// No backwards movement, nothing leaves a terminal status
	require.False(t, CanTransition(domain.OrderStatusConfirmed, domain.OrderStatusPending))
	require.False(t, CanTransition(domain.OrderStatusCompleted, domain.OrderStatusProcessing))
	require.False(t, CanTransition(domain.OrderStatusCancelled, domain.OrderStatusPending))
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	require.True(t, IsTerminal(domain.OrderStatusCompleted))
	require.True(t, IsTerminal(domain.OrderStatusCancelled))
	require.False(t, IsTerminal(domain.OrderStatusPending))
	require.False(t, IsTerminal(domain.OrderStatusProcessing))
	require.False(t, IsTerminal("unknown"))
}

func TestValidStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		domain.OrderStatusPending,
		domain.OrderStatusConfirmed,
		domain.OrderStatusProcessing,
		domain.OrderStatusCompleted,
		domain.OrderStatusCancelled,
	} {
		require.True(t, ValidStatus(s), s)
	}
	require.False(t, ValidStatus("shipped"))
	require.False(t, ValidStatus(""))

	require.True(t, ValidPaymentStatus(domain.PaymentStatusPartial))
	require.False(t, ValidPaymentStatus("refunded"))
}
