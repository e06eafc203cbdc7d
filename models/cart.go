package models

import "time"

type CartItem struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	BuyerID   string    `json:"buyer_id" bson:"buyer_id"`
	ProductID string    `json:"product_id" bson:"product_id"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// CartItemDetail is a cart row denormalized with the current product and
// farmer. Rows whose product has since been deleted are dropped at read time.
type CartItemDetail struct {
	CartItem
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	ImageURL          string  `json:"image_url,omitempty"`
	AvailableQuantity int     `json:"available_quantity"`
	FarmerName        string  `json:"farmer_name,omitempty"`
	FarmerPhone       string  `json:"farmer_phone,omitempty"`
}
