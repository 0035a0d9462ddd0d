package recipe

import (
	"time"

	"totsuki/internal/grocery"
)

// Ingredient is a single line of a recipe's ingredient list. Quantity
// is per the recipe's stated servings, not per serving.
type Ingredient struct {
	Name     string           `json:"name"`
	Quantity float64          `json:"quantity"`
	Unit     string           `json:"unit"`
	Category grocery.Category `json:"category,omitempty"`
}

// Recipe is a read-only catalog entry. Protein, calorie and cost
// figures are per serving.
type Recipe struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Servings        int          `json:"servings"`
	TimeMinutes     int          `json:"time_minutes"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []string     `json:"steps"`
	CuisineTags     []string     `json:"cuisine_tags"`
	DietTags        []string     `json:"diet_tags"`
	ProteinEstimate float64      `json:"protein_estimate"`
	CalorieEstimate float64      `json:"calorie_estimate"`
	EstimatedCost   float64      `json:"estimated_cost"`
	Difficulty      int          `json:"difficulty"`
	ImageURL        string       `json:"image_url,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Summary is the slim projection of a recipe that shows up inside a
// generated meal plan.
type Summary struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	TimeMinutes     int      `json:"time_minutes"`
	ProteinEstimate float64  `json:"protein_estimate"`
	CalorieEstimate float64  `json:"calorie_estimate"`
	EstimatedCost   float64  `json:"estimated_cost"`
	Difficulty      int      `json:"difficulty"`
	CuisineTags     []string `json:"cuisine_tags"`
}

// Summarize projects a recipe into its plan-facing summary.
func (r *Recipe) Summarize() Summary {
	return Summary{
		ID:              r.ID,
		Title:           r.Title,
		TimeMinutes:     r.TimeMinutes,
		ProteinEstimate: r.ProteinEstimate,
		CalorieEstimate: r.CalorieEstimate,
		EstimatedCost:   r.EstimatedCost,
		Difficulty:      r.Difficulty,
		CuisineTags:     r.CuisineTags,
	}
}

// HasDietTags reports whether the recipe carries every required tag.
func (r *Recipe) HasDietTags(required []string) bool {
	for _, want := range required {
		found := false
		for _, have := range r.DietTags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
