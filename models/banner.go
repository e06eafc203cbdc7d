package models

import "time"

// Banner statuses.
const (
	BannerActive   = "active"
	BannerInactive = "inactive"
)

type Banner struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Title        string    `json:"title,omitempty" bson:"title,omitempty"`
	ImageURL     string    `json:"image_url" bson:"image_url"`
	LinkURL      string    `json:"link_url,omitempty" bson:"link_url,omitempty"`
	DisplayOrder int       `json:"display_order" bson:"display_order"`
	Status       string    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}
