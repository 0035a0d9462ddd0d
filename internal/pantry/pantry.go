package pantry

import (
	"time"

	"totsuki/internal/grocery"
)

// Item represents a single item in the household pantry.
//
// canonical_name is the normalized form used for receipt matching
// (e.g. "Whole Milk" -> "milk"); quantity is a float so fractional
// amounts like 0.5 lb work.
type Item struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"user_id"`
	Name            string           `json:"name"`
	CanonicalName   string           `json:"canonical_name,omitempty"`
	Quantity        float64          `json:"quantity"`
	Unit            string           `json:"unit"`
	EstimatedExpiry *time.Time       `json:"estimated_expiry,omitempty"`
	Category        grocery.Category `json:"category"`
	Source          grocery.Source   `json:"source"`
	CreatedAt       time.Time        `json:"created_at"`
	LastUpdated     time.Time        `json:"last_updated"`
}

// CreateItem carries the fields accepted when adding a pantry item.
type CreateItem struct {
	Name            string           `json:"name"`
	CanonicalName   string           `json:"canonical_name,omitempty"`
	Quantity        float64          `json:"quantity"`
	Unit            string           `json:"unit"`
	EstimatedExpiry *time.Time       `json:"estimated_expiry,omitempty"`
	Category        grocery.Category `json:"category"`
	Source          grocery.Source   `json:"source"`
}

// UpdateItem carries a partial update; nil fields are left untouched.
type UpdateItem struct {
	Name            *string           `json:"name,omitempty"`
	CanonicalName   *string           `json:"canonical_name,omitempty"`
	Quantity        *float64          `json:"quantity,omitempty"`
	Unit            *string           `json:"unit,omitempty"`
	EstimatedExpiry *time.Time        `json:"estimated_expiry,omitempty"`
	Category        *grocery.Category `json:"category,omitempty"`
}
