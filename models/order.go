package models

import "time"

// Order statuses.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

const PaymentCashOnDelivery = "cash_on_delivery"

type Order struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	BuyerID         string    `json:"buyer_id" bson:"buyer_id"`
	ProductID       string    `json:"product_id" bson:"product_id"`
	FarmerID        string    `json:"farmer_id" bson:"farmer_id"`
	Quantity        int       `json:"quantity" bson:"quantity"`
	TotalAmount     float64   `json:"total_amount" bson:"total_amount"`
	DeliveryAddress string    `json:"delivery_address" bson:"delivery_address"`
	OrderStatus     string    `json:"order_status" bson:"order_status"`
	PaymentMethod   string    `json:"payment_method" bson:"payment_method"`
	PaymentStatus   string    `json:"payment_status" bson:"payment_status"`
	CreatedAt       time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// OrderDetail is an order denormalized with product and counterpart fields.
// Buyer listings carry the farmer name; farmer listings carry buyer contact.
type OrderDetail struct {
	Order
	ProductName  string  `json:"product_name,omitempty"`
	ProductImage string  `json:"product_image,omitempty"`
	ProductPrice float64 `json:"product_price,omitempty"`
	FarmerName   string  `json:"farmer_name,omitempty"`
	BuyerName    string  `json:"buyer_name,omitempty"`
	BuyerPhone   string  `json:"buyer_phone,omitempty"`
	BuyerAddress string  `json:"buyer_address,omitempty"`
}
