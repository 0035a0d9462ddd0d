package planner

import (
	"fmt"

	"totsuki/internal/grocery"
	"totsuki/internal/recipe"
)

// PlanRequest carries the knobs for one plan generation. Nil pointer
// fields mean "no constraint"; budget, max time and protein goal are
// ignored when set to zero.
type PlanRequest struct {
	Budget            *float64 `json:"budget,omitempty"`
	MaxTime           *int     `json:"max_time,omitempty"`
	ProteinGoal       *float64 `json:"protein_goal,omitempty"`
	RequiredDietTags  []string `json:"required_diet_tags,omitempty"`
	PreferredCuisines []string `json:"preferred_cuisines,omitempty"`
	ServingsPerDay    int      `json:"servings_per_day,omitempty"`
}

// Validate checks ranges and fills defaults: max time 60 when absent,
// one serving per day when absent.
func (r *PlanRequest) Validate() error {
	if r.Budget != nil && *r.Budget < 0 {
		return fmt.Errorf("budget must be >= 0, got %g", *r.Budget)
	}
	if r.MaxTime == nil {
		defaultMax := 60
		r.MaxTime = &defaultMax
	} else if *r.MaxTime < 10 || *r.MaxTime > 240 {
		return fmt.Errorf("max_time must be between 10 and 240, got %d", *r.MaxTime)
	}
	if r.ProteinGoal != nil && *r.ProteinGoal < 0 {
		return fmt.Errorf("protein_goal must be >= 0, got %g", *r.ProteinGoal)
	}
	if r.ServingsPerDay == 0 {
		r.ServingsPerDay = 1
	}
	if r.ServingsPerDay < 1 || r.ServingsPerDay > 3 {
		return fmt.Errorf("servings_per_day must be between 1 and 3, got %d", r.ServingsPerDay)
	}
	return nil
}

// Day is one day of a generated plan. Meals holds servings-per-day
// copies of the selected recipe's summary; the totals are the recipe's
// per-serving metrics scaled the same way.
type Day struct {
	Day           int              `json:"day"`
	Weekday       string           `json:"weekday"`
	Meals         []recipe.Summary `json:"meals"`
	TotalTime     int              `json:"total_time"`
	TotalProtein  float64          `json:"total_protein"`
	TotalCalories float64          `json:"total_calories"`
	TotalCost     float64          `json:"total_cost"`
}

// AggregatedIngredient is one shopping-list line: every occurrence of
// the same (name, unit) pair across the week summed together.
type AggregatedIngredient struct {
	Name     string           `json:"name"`
	Quantity float64          `json:"quantity"`
	Unit     string           `json:"unit"`
	Category grocery.Category `json:"category,omitempty"`
}

// Summary holds the plan-level statistics.
type Summary struct {
	TotalRecipes      int     `json:"total_recipes"`
	TotalCost         float64 `json:"total_cost"`
	TotalProtein      float64 `json:"total_protein"`
	TotalCalories     float64 `json:"total_calories"`
	AvgTimePerMeal    float64 `json:"avg_time_per_meal"`
	AvgProteinPerMeal float64 `json:"avg_protein_per_meal"`
}

// PlanResponse is a complete 7-day plan.
type PlanResponse struct {
	Days         []Day                  `json:"days"`
	ShoppingList []AggregatedIngredient `json:"shopping_list"`
	Summary      Summary                `json:"summary"`
}
