package models

import "time"

// Subscription statuses.
const (
	SubscriptionActive    = "active"
	SubscriptionPaused    = "paused"
	SubscriptionCancelled = "cancelled"
)

type Subscription struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	FarmerID    string    `json:"farmer_id" bson:"farmer_id"`
	BuyerID     string    `json:"buyer_id" bson:"buyer_id"`
	ServiceType string    `json:"service_type" bson:"service_type"`
	ProductID   string    `json:"product_id,omitempty" bson:"product_id,omitempty"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Frequency   string    `json:"frequency" bson:"frequency"`
	StartDate   string    `json:"start_date" bson:"start_date"`
	EndDate     string    `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// SubscriptionDetail joins in the product and counterpart user.
type SubscriptionDetail struct {
	Subscription
	ProductName string  `json:"product_name,omitempty"`
	Price       float64 `json:"price,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	FarmerName  string  `json:"farmer_name,omitempty"`
	FarmerPhone string  `json:"farmer_phone,omitempty"`
	BuyerName   string  `json:"buyer_name,omitempty"`
	BuyerPhone  string  `json:"buyer_phone,omitempty"`
	BuyerEmail  string  `json:"buyer_email,omitempty"`
}
