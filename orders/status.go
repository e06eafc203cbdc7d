package orders

import "farmermall/models"

// Forward transitions a farmer may apply to an order. Cancellation is
// handled separately because buyers trigger it through their own endpoint.
var transitions = map[string][]string{
	models.OrderPending:   {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:   {models.OrderDelivered},
}

// CanTransition reports whether an order may move from one status to another.
// Delivered and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether a buyer may still cancel an order. Once the
// order has shipped the goods are in transit and cancellation is closed.
func Cancellable(status string) bool {
	return status == models.OrderPending || status == models.OrderConfirmed
}

// ValidStatus reports whether s is a recognised order status.
func ValidStatus(s string) bool {
	switch s {
	case models.OrderPending, models.OrderConfirmed, models.OrderShipped,
		models.OrderDelivered, models.OrderCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a recognised payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
		return true
	}
	return false
}
