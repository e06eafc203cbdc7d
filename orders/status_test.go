package orders

import (
	"testing"
	"time"

	"farmermall/models"
)

func testTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPending, models.OrderDelivered, false},
		{models.OrderConfirmed, models.OrderShipped, true},
		{models.OrderConfirmed, models.OrderCancelled, true},
		{models.OrderConfirmed, models.OrderDelivered, false},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderDelivered, models.OrderPending, false},
		{models.OrderDelivered, models.OrderShipped, false},
		{models.OrderCancelled, models.OrderConfirmed, false},
		{"bogus", models.OrderConfirmed, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestCancellable(t *testing.T) {
	if !Cancellable(models.OrderPending) || !Cancellable(models.OrderConfirmed) {
		t.Error("pending and confirmed orders should be cancellable")
	}
	for _, s := range []string{models.OrderShipped, models.OrderDelivered, models.OrderCancelled} {
		if Cancellable(s) {
			t.Errorf("%s order should not be cancellable", s)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{models.OrderPending, models.OrderConfirmed, models.OrderShipped, models.OrderDelivered, models.OrderCancelled} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	if ValidStatus("refunded") || ValidStatus("") {
		t.Error("unknown statuses should be invalid")
	}
}

func TestBuildOrderDefaults(t *testing.T) {
	product := models.Product{ID: "p1", FarmerID: "f1", Price: 12.5, Quantity: 100}
	order := buildOrder("b1", "12 Main St", "", product, 4)

	if order.PaymentMethod != models.PaymentCashOnDelivery {
		t.Errorf("payment method = %q, want %q", order.PaymentMethod, models.PaymentCashOnDelivery)
	}
	if order.OrderStatus != models.OrderPending {
		t.Errorf("order status = %q, want %q", order.OrderStatus, models.OrderPending)
	}
	if order.PaymentStatus != models.PaymentPending {
		t.Errorf("payment status = %q, want %q", order.PaymentStatus, models.PaymentPending)
	}
	if order.TotalAmount != 50 {
		t.Errorf("total = %v, want 50", order.TotalAmount)
	}
	if order.FarmerID != "f1" {
		t.Errorf("farmer id = %q, want f1", order.FarmerID)
	}
}

func TestInvoicePayloadIsSigned(t *testing.T) {
	p1 := invoicePayload("o1", "b1", testTime())
	p2 := invoicePayload("o2", "b1", testTime())
	if p1 == p2 {
		t.Error("different orders should produce different payloads")
	}
}
