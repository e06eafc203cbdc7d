package models

import "time"

// FarmDetails holds the farm profile of a farmer. At most one record per
// farmer; writes use find-or-create upsert semantics.
type FarmDetails struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	FarmerID      string    `json:"farmer_id" bson:"farmer_id"`
	FarmName      string    `json:"farm_name,omitempty" bson:"farm_name,omitempty"`
	FarmAddress   string    `json:"farm_address,omitempty" bson:"farm_address,omitempty"`
	FarmArea      float64   `json:"farm_area,omitempty" bson:"farm_area,omitempty"`
	FarmType      string    `json:"farm_type,omitempty" bson:"farm_type,omitempty"`
	CropsGrown    string    `json:"crops_grown,omitempty" bson:"crops_grown,omitempty"`
	Livestock     string    `json:"livestock,omitempty" bson:"livestock,omitempty"`
	Certification string    `json:"certification,omitempty" bson:"certification,omitempty"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}
