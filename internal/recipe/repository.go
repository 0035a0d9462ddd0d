package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Cuisine    string
	Diet       string
	MaxTime    int
	MinProtein float64
	MaxCost    float64
}

// Repository is a database-backed repository for the recipe catalog.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Create inserts a recipe and returns it with its assigned ID.
func (r *Repository) Create(ctx context.Context, rec Recipe) (*Recipe, error) {
	ingredients, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ingredients: %w", err)
	}
	steps, err := json.Marshal(rec.Steps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode steps: %w", err)
	}
	cuisines, err := json.Marshal(rec.CuisineTags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cuisine tags: %w", err)
	}
	diets, err := json.Marshal(rec.DietTags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode diet tags: %w", err)
	}

	if rec.Servings <= 0 {
		rec.Servings = 4
	}
	if rec.TimeMinutes <= 0 {
		rec.TimeMinutes = 30
	}
	if rec.Difficulty <= 0 {
		rec.Difficulty = 2
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recipes
			(title, description, servings, time_minutes, ingredients, steps,
			 cuisine_tags, diet_tags, protein_estimate, calorie_estimate,
			 estimated_cost, difficulty, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Title, rec.Description, rec.Servings, rec.TimeMinutes,
		string(ingredients), string(steps), string(cuisines), string(diets),
		rec.ProteinEstimate, rec.CalorieEstimate, rec.EstimatedCost,
		rec.Difficulty, rec.ImageURL, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to insert recipe: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted recipe id: %w", err)
	}
	return r.Get(ctx, id)
}

// Get retrieves a recipe by ID, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id int64) (*Recipe, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, servings, time_minutes, ingredients,
			steps, cuisine_tags, diet_tags, protein_estimate, calorie_estimate,
			estimated_cost, difficulty, image_url, created_at
		FROM recipes WHERE id = ?`, id)

	rec, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return rec, nil
}

// All loads the full catalog ordered by ID. The planner works against
// this snapshot rather than querying per request.
func (r *Repository) All(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, servings, time_minutes, ingredients,
			steps, cuisine_tags, diet_tags, protein_estimate, calorie_estimate,
			estimated_cost, difficulty, image_url, created_at
		FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}
	return recipes, nil
}

// List returns the catalog filtered and paginated. Tag filters work on
// the decoded JSON columns, so filtering happens in memory; the catalog
// is small and seeded once. The second return value is the total match
// count before pagination.
func (r *Repository) List(ctx context.Context, f Filter, offset, limit int) ([]Recipe, int, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, 0, err
	}

	var matched []Recipe
	for _, rec := range all {
		if f.Cuisine != "" && !contains(rec.CuisineTags, f.Cuisine) {
			continue
		}
		if f.Diet != "" && !contains(rec.DietTags, f.Diet) {
			continue
		}
		if f.MaxTime > 0 && rec.TimeMinutes > f.MaxTime {
			continue
		}
		if f.MinProtein > 0 && rec.ProteinEstimate < f.MinProtein {
			continue
		}
		if f.MaxCost > 0 && rec.EstimatedCost > f.MaxCost {
			continue
		}
		matched = append(matched, rec)
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// Count returns the catalog size.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(id) FROM recipes").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}

// Cuisines returns every distinct cuisine tag, sorted.
func (r *Repository) Cuisines(ctx context.Context) ([]string, error) {
	return r.distinctTags(ctx, func(rec *Recipe) []string { return rec.CuisineTags })
}

// Diets returns every distinct diet tag, sorted.
func (r *Repository) Diets(ctx context.Context) ([]string, error) {
	return r.distinctTags(ctx, func(rec *Recipe) []string { return rec.DietTags })
}

func (r *Repository) distinctTags(ctx context.Context, pick func(*Recipe) []string) ([]string, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for i := range all {
		for _, tag := range pick(&all[i]) {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

func contains(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func scanRecipe(row interface{ Scan(...any) error }) (*Recipe, error) {
	var rec Recipe
	var description, imageURL sql.NullString
	var ingredients, steps, cuisines, diets string

	err := row.Scan(&rec.ID, &rec.Title, &description, &rec.Servings,
		&rec.TimeMinutes, &ingredients, &steps, &cuisines, &diets,
		&rec.ProteinEstimate, &rec.CalorieEstimate, &rec.EstimatedCost,
		&rec.Difficulty, &imageURL, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	rec.Description = description.String
	rec.ImageURL = imageURL.String
	if err := json.Unmarshal([]byte(ingredients), &rec.Ingredients); err != nil {
		return nil, fmt.Errorf("bad ingredients column for recipe %d: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(steps), &rec.Steps); err != nil {
		return nil, fmt.Errorf("bad steps column for recipe %d: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(cuisines), &rec.CuisineTags); err != nil {
		return nil, fmt.Errorf("bad cuisine_tags column for recipe %d: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(diets), &rec.DietTags); err != nil {
		return nil, fmt.Errorf("bad diet_tags column for recipe %d: %w", rec.ID, err)
	}
	return &rec, nil
}
