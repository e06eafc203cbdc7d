package models

import "time"

type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	FarmerID    string    `json:"farmer_id" bson:"farmer_id"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// AdminProduct is a product joined with its owning farmer for the admin listing.
type AdminProduct struct {
	Product
	FarmerName  string `json:"farmer_name,omitempty"`
	FarmerEmail string `json:"farmer_email,omitempty"`
}
