// Package planner generates 7-day meal plans from the recipe catalog.
//
// Generation is pure computation over in-memory values: filter, score,
// select, assemble. Callers own loading the catalog and supplying a
// random source, so concurrent generations never interfere.
package planner

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"strings"

	"totsuki/internal/grocery"
	"totsuki/internal/recipe"
)

// ErrNoRecipes means the catalog is empty and no fallback can fill a
// week.
var ErrNoRecipes = errors.New("no recipes available")

var weekdays = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Candidates selected per plan, one per day.
const planDays = 7

// varietyAbundance is the pool-size multiple above which the cuisine
// repetition guard is allowed to skip candidates. Tunable, not a
// contract.
const varietyAbundance = 1.5

type scoredRecipe struct {
	recipe *recipe.Recipe
	score  float64
}

// GeneratePlan builds a 7-day plan from the catalog. The request must
// already be validated. The random source drives score jitter and the
// mid-week shuffle; tests pass a fixed seed for reproducible output.
func GeneratePlan(recipes []recipe.Recipe, req PlanRequest, rng *rand.Rand) (*PlanResponse, error) {
	if len(recipes) == 0 {
		return nil, ErrNoRecipes
	}

	candidates := hardFilter(recipes, req)

	// Fallback ladder: a too-strict filter relaxes to time-only, then
	// to the whole catalog. Hard constraints are best effort when the
	// catalog is small.
	if len(candidates) < planDays {
		maxTime := 240
		if req.MaxTime != nil && *req.MaxTime > 0 {
			maxTime = *req.MaxTime
		}
		candidates = candidates[:0]
		for i := range recipes {
			if recipes[i].TimeMinutes <= maxTime {
				candidates = append(candidates, &recipes[i])
			}
		}
	}
	if len(candidates) < planDays {
		candidates = candidates[:0]
		for i := range recipes {
			candidates = append(candidates, &recipes[i])
		}
	}

	scored := scoreRecipes(candidates, req, rng)
	selected := selectWeek(scored, rng)

	days := assembleDays(selected, req.ServingsPerDay)
	shoppingList := aggregateIngredients(selected, req.ServingsPerDay)
	summary := summarize(selected, req.ServingsPerDay)

	return &PlanResponse{
		Days:         days,
		ShoppingList: shoppingList,
		Summary:      summary,
	}, nil
}

func hardFilter(recipes []recipe.Recipe, req PlanRequest) []*recipe.Recipe {
	var dailyCostCap float64
	if req.Budget != nil && *req.Budget > 0 {
		dailyCostCap = *req.Budget / 7 / float64(req.ServingsPerDay)
	}

	var out []*recipe.Recipe
	for i := range recipes {
		r := &recipes[i]
		if req.MaxTime != nil && *req.MaxTime > 0 && r.TimeMinutes > *req.MaxTime {
			continue
		}
		if len(req.RequiredDietTags) > 0 && !r.HasDietTags(req.RequiredDietTags) {
			continue
		}
		if dailyCostCap > 0 && r.EstimatedCost > dailyCostCap {
			continue
		}
		out = append(out, r)
	}
	return out
}

func scoreRecipes(candidates []*recipe.Recipe, req PlanRequest, rng *rand.Rand) []scoredRecipe {
	scored := make([]scoredRecipe, 0, len(candidates))
	for _, r := range candidates {
		score := 50.0

		if req.ProteinGoal != nil && *req.ProteinGoal > 0 {
			gap := math.Abs(r.ProteinEstimate - *req.ProteinGoal)
			score += math.Max(0, 25-1.25*gap)
		} else {
			score += math.Min(15, r.ProteinEstimate/3)
		}

		score += 7.5 * float64(cuisineOverlap(r.CuisineTags, req.PreferredCuisines))

		switch {
		case r.TimeMinutes <= 30:
			score += 10
		case r.TimeMinutes <= 45:
			score += 7
		case r.TimeMinutes <= 60:
			score += 4
		}

		switch {
		case r.EstimatedCost <= 3.0:
			score += 10
		case r.EstimatedCost <= 4.5:
			score += 7
		case r.EstimatedCost <= 6.0:
			score += 4
		}

		score += rng.Float64() * 5

		scored = append(scored, scoredRecipe{recipe: r, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}

func cuisineOverlap(tags, preferred []string) int {
	n := 0
	for _, t := range tags {
		for _, p := range preferred {
			if t == p {
				n++
				break
			}
		}
	}
	return n
}

// selectWeek picks 7 recipes from the score-sorted candidates. The
// cuisine guard avoids back-to-back repeats while the pool is abundant;
// a backfill pass ignores the guard, and when the catalog holds fewer
// than 7 unique recipes the list cycles so the week still fills.
func selectWeek(scored []scoredRecipe, rng *rand.Rand) []*recipe.Recipe {
	selected := make([]*recipe.Recipe, 0, planDays)
	used := make(map[int64]bool)

	for _, sr := range scored {
		if len(selected) == planDays {
			break
		}
		if used[sr.recipe.ID] {
			continue
		}

		if len(selected) > 0 {
			prev := selected[len(selected)-1]
			available := len(scored) - len(selected)
			remaining := planDays - len(selected)
			if cuisineOverlap(sr.recipe.CuisineTags, prev.CuisineTags) > 0 &&
				float64(available) > float64(remaining)*varietyAbundance {
				continue
			}
		}

		selected = append(selected, sr.recipe)
		used[sr.recipe.ID] = true
	}

	// Backfill skipped recipes in score order, guard off.
	for _, sr := range scored {
		if len(selected) == planDays {
			break
		}
		if !used[sr.recipe.ID] {
			selected = append(selected, sr.recipe)
			used[sr.recipe.ID] = true
		}
	}

	// Fewer than 7 unique recipes in the whole catalog: repeat.
	for i := 0; len(selected) < planDays; i++ {
		selected = append(selected, scored[i%len(scored)].recipe)
	}

	// Keep the top pick on Monday and the last on Sunday; shuffle the
	// middle so the week is not sorted by score.
	middle := selected[1 : planDays-1]
	rng.Shuffle(len(middle), func(i, j int) {
		middle[i], middle[j] = middle[j], middle[i]
	})

	return selected
}

func assembleDays(selected []*recipe.Recipe, servingsPerDay int) []Day {
	days := make([]Day, 0, planDays)
	for i, r := range selected {
		meals := make([]recipe.Summary, 0, servingsPerDay)
		for s := 0; s < servingsPerDay; s++ {
			meals = append(meals, r.Summarize())
		}
		spd := float64(servingsPerDay)
		days = append(days, Day{
			Day:           i + 1,
			Weekday:       weekdays[i],
			Meals:         meals,
			TotalTime:     r.TimeMinutes * servingsPerDay,
			TotalProtein:  r.ProteinEstimate * spd,
			TotalCalories: r.CalorieEstimate * spd,
			TotalCost:     r.EstimatedCost * spd,
		})
	}
	return days
}

// categorySentinel sorts uncategorized shopping-list entries last.
const categorySentinel = "zzz"

func aggregateIngredients(selected []*recipe.Recipe, servingsPerDay int) []AggregatedIngredient {
	type key struct {
		name string
		unit string
	}

	totals := make(map[key]float64)
	categories := make(map[key]grocery.Category)
	var order []key

	for _, r := range selected {
		scale := 1.0
		if r.Servings > 0 {
			scale = float64(servingsPerDay) / float64(r.Servings)
		}
		for _, ing := range r.Ingredients {
			name := strings.ToLower(strings.TrimSpace(ing.Name))
			unit := strings.ToLower(strings.TrimSpace(ing.Unit))
			if unit == "" {
				unit = "unit"
			}
			k := key{name: name, unit: unit}
			if _, seen := totals[k]; !seen {
				order = append(order, k)
			}
			totals[k] += ing.Quantity * scale
			if _, has := categories[k]; !has && ing.Category != "" {
				categories[k] = ing.Category
			}
		}
	}

	list := make([]AggregatedIngredient, 0, len(order))
	for _, k := range order {
		list = append(list, AggregatedIngredient{
			Name:     k.name,
			Quantity: round2(totals[k]),
			Unit:     k.unit,
			Category: categories[k],
		})
	}

	sort.Slice(list, func(i, j int) bool {
		ci, cj := string(list[i].Category), string(list[j].Category)
		if ci == "" {
			ci = categorySentinel
		}
		if cj == "" {
			cj = categorySentinel
		}
		if ci != cj {
			return ci < cj
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func summarize(selected []*recipe.Recipe, servingsPerDay int) Summary {
	spd := float64(servingsPerDay)
	distinct := make(map[int64]bool)
	var cost, protein, calories float64
	var minutes int

	for _, r := range selected {
		distinct[r.ID] = true
		cost += r.EstimatedCost * spd
		protein += r.ProteinEstimate * spd
		calories += r.CalorieEstimate * spd
		minutes += r.TimeMinutes
	}

	return Summary{
		TotalRecipes:      len(distinct),
		TotalCost:         round2(cost),
		TotalProtein:      round1(protein),
		TotalCalories:     math.Round(calories),
		AvgTimePerMeal:    round1(float64(minutes) / planDays),
		AvgProteinPerMeal: round1(protein / (planDays * spd)),
	}
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
