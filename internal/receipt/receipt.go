package receipt

import (
	"time"

	"totsuki/internal/grocery"
)

// ParsedRow is one receipt line after CSV decoding, before any
// normalization or matching.
type ParsedRow struct {
	RawName   string           `json:"raw_name"`
	Quantity  float64          `json:"quantity"`
	Unit      string           `json:"unit"`
	UnitPrice float64          `json:"unit_price"`
	Category  grocery.Category `json:"category,omitempty"`
}

// PreviewItem is one receipt line after normalization, matching and
// category resolution, ready for user review.
type PreviewItem struct {
	RawName         string           `json:"raw_name"`
	NormalizedName  string           `json:"normalized_name"`
	Quantity        float64          `json:"quantity"`
	Unit            string           `json:"unit"`
	UnitPrice       float64          `json:"unit_price"`
	TotalPrice      float64          `json:"total_price"`
	Category        grocery.Category `json:"category"`
	MatchedPantryID *int64           `json:"matched_pantry_id,omitempty"`
	MatchedName     string           `json:"matched_name,omitempty"`
	MatchScore      float64          `json:"match_score,omitempty"`
	WillCreateNew   bool             `json:"will_create_new"`
}

// Preview is one uploaded receipt batch awaiting confirmation.
type Preview struct {
	BatchID      string        `json:"batch_id"`
	Store        string        `json:"store"`
	PurchaseDate time.Time     `json:"purchase_date"`
	Items        []PreviewItem `json:"items"`
	ItemCount    int           `json:"item_count"`
	TotalAmount  float64       `json:"total_amount"`
	MatchedCount int           `json:"matched_count"`
	NewCount     int           `json:"new_count"`
}

// Item is a persisted receipt line.
type Item struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"user_id"`
	BatchID         string           `json:"batch_id"`
	RawName         string           `json:"raw_name"`
	NormalizedName  string           `json:"normalized_name"`
	Quantity        float64          `json:"quantity"`
	Unit            string           `json:"unit"`
	UnitPrice       float64          `json:"unit_price"`
	TotalPrice      float64          `json:"total_price"`
	Category        grocery.Category `json:"category"`
	Store           string           `json:"store"`
	PurchaseDate    time.Time        `json:"purchase_date"`
	MatchedPantryID *int64           `json:"matched_pantry_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// PantryUpdate instructs the pantry to top up an existing item.
type PantryUpdate struct {
	PantryID      int64   `json:"pantry_id"`
	QuantityToAdd float64 `json:"quantity_to_add"`
}

// PantryCreate instructs the pantry to add a new item.
type PantryCreate struct {
	Name          string           `json:"name"`
	CanonicalName string           `json:"canonical_name"`
	Quantity      float64          `json:"quantity"`
	Unit          string           `json:"unit"`
	Category      grocery.Category `json:"category"`
}

// Summary is one receipt batch seen from the receipts listing.
type Summary struct {
	BatchID      string    `json:"batch_id"`
	Store        string    `json:"store"`
	PurchaseDate time.Time `json:"purchase_date"`
	TotalAmount  float64   `json:"total_amount"`
	ItemCount    int       `json:"item_count"`
}
