package orders

import "github.com/stocklane/stocklane/internal/domain"

// legalTransitions is the explicit order lifecycle graph. completed and
// cancelled are terminal.
var legalTransitions = map[string][]string{
	domain.OrderStatusPending:    {domain.OrderStatusConfirmed, domain.OrderStatusProcessing, domain.OrderStatusCompleted, domain.OrderStatusCancelled},
	domain.OrderStatusConfirmed:  {domain.OrderStatusProcessing, domain.OrderStatusCompleted, domain.OrderStatusCancelled},
	domain.OrderStatusProcessing: {domain.OrderStatusCompleted, domain.OrderStatusCancelled},
	domain.OrderStatusCompleted:  {},
	domain.OrderStatusCancelled:  {},
}

var paymentStatuses = map[string]bool{
	domain.PaymentStatusUnpaid:  true,
	domain.PaymentStatusPartial: true,
	domain.PaymentStatusPaid:    true,
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions
func IsTerminal(status string) bool {
	next, ok := legalTransitions[status]
	return ok && len(next) == 0
}

// ValidStatus reports whether s names a known order status
func ValidStatus(s string) bool {
	_, ok := legalTransitions[s]
	return ok
}

// ValidPaymentStatus reports whether s names a known payment status
func ValidPaymentStatus(s string) bool {
	return paymentStatuses[s]
}
