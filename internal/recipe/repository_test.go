package recipe

import (
	"context"
	"path/filepath"
	"testing"

	"totsuki/internal/database"
	"totsuki/internal/grocery"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func testRecipe(title string) Recipe {
	return Recipe{
		Title:       title,
		Servings:    4,
		TimeMinutes: 30,
		Ingredients: []Ingredient{
			{Name: "chicken breast", Quantity: 1, Unit: "lb", Category: grocery.CategoryMeat},
		},
		Steps:           []string{"Cook it."},
		CuisineTags:     []string{"american"},
		DietTags:        []string{"gluten-free"},
		ProteinEstimate: 30,
		CalorieEstimate: 500,
		EstimatedCost:   4.0,
		Difficulty:      2,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testRecipe("Grilled Chicken"))
	if err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}
	if created.ID == 0 {
		t.Error("Expected a non-zero recipe ID")
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Failed to get recipe: %v", err)
	}
	if got == nil {
		t.Fatal("Expected recipe, got nil")
	}
	if got.Title != "Grilled Chicken" {
		t.Errorf("Expected title 'Grilled Chicken', got %q", got.Title)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].Name != "chicken breast" {
		t.Errorf("Ingredients did not round-trip: %+v", got.Ingredients)
	}
	if len(got.DietTags) != 1 || got.DietTags[0] != "gluten-free" {
		t.Errorf("Diet tags did not round-trip: %+v", got.DietTags)
	}
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.Get(context.Background(), 999)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing recipe, got %+v", got)
	}
}

func TestList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	fast := testRecipe("Fast Pasta")
	fast.TimeMinutes = 15
	fast.CuisineTags = []string{"italian"}
	fast.DietTags = []string{"vegetarian"}
	fast.ProteinEstimate = 12
	fast.EstimatedCost = 2.0

	slow := testRecipe("Slow Roast")
	slow.TimeMinutes = 120
	slow.EstimatedCost = 8.0

	for _, rec := range []Recipe{fast, slow, testRecipe("Grilled Chicken")} {
		if _, err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Failed to create %q: %v", rec.Title, err)
		}
	}

	t.Run("NoFilter", func(t *testing.T) {
		recipes, total, err := repo.List(ctx, Filter{}, 0, 50)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if total != 3 || len(recipes) != 3 {
			t.Errorf("Expected 3 recipes, got total=%d len=%d", total, len(recipes))
		}
	})

	t.Run("Cuisine", func(t *testing.T) {
		recipes, _, err := repo.List(ctx, Filter{Cuisine: "italian"}, 0, 50)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if len(recipes) != 1 || recipes[0].Title != "Fast Pasta" {
			t.Errorf("Expected only 'Fast Pasta', got %+v", recipes)
		}
	})

	t.Run("Diet", func(t *testing.T) {
		recipes, _, err := repo.List(ctx, Filter{Diet: "vegetarian"}, 0, 50)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if len(recipes) != 1 || recipes[0].Title != "Fast Pasta" {
			t.Errorf("Expected only 'Fast Pasta', got %+v", recipes)
		}
	})

	t.Run("MaxTime", func(t *testing.T) {
		_, total, err := repo.List(ctx, Filter{MaxTime: 30}, 0, 50)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if total != 2 {
			t.Errorf("Expected 2 recipes at or under 30 minutes, got %d", total)
		}
	})

	t.Run("MinProtein", func(t *testing.T) {
		_, total, err := repo.List(ctx, Filter{MinProtein: 20}, 0, 50)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if total != 2 {
			t.Errorf("Expected 2 recipes with protein >= 20, got %d", total)
		}
	})

	t.Run("MaxCost", func(t *testing.T) {
		_, total, err := repo.List(ctx, Filter{MaxCost: 4.0}, 0, 50)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if total != 2 {
			t.Errorf("Expected 2 recipes at or under $4, got %d", total)
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		recipes, total, err := repo.List(ctx, Filter{}, 2, 2)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if total != 3 {
			t.Errorf("Expected total 3 regardless of page, got %d", total)
		}
		if len(recipes) != 1 {
			t.Errorf("Expected 1 recipe on the last page, got %d", len(recipes))
		}
	})
}

func TestCuisinesAndDiets(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a := testRecipe("A")
	a.CuisineTags = []string{"italian", "mediterranean"}
	a.DietTags = []string{"vegetarian"}
	b := testRecipe("B")
	b.CuisineTags = []string{"italian"}
	b.DietTags = []string{"vegan", "vegetarian"}

	for _, rec := range []Recipe{a, b} {
		if _, err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Failed to create %q: %v", rec.Title, err)
		}
	}

	cuisines, err := repo.Cuisines(ctx)
	if err != nil {
		t.Fatalf("Failed to list cuisines: %v", err)
	}
	if len(cuisines) != 2 || cuisines[0] != "italian" || cuisines[1] != "mediterranean" {
		t.Errorf("Expected sorted distinct cuisines, got %v", cuisines)
	}

	diets, err := repo.Diets(ctx)
	if err != nil {
		t.Fatalf("Failed to list diets: %v", err)
	}
	if len(diets) != 2 || diets[0] != "vegan" || diets[1] != "vegetarian" {
		t.Errorf("Expected sorted distinct diets, got %v", diets)
	}
}

func TestSeed(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	n, err := repo.Seed(ctx)
	if err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}
	if n < 7 {
		t.Errorf("Expected the seed dataset to hold at least 7 recipes, got %d", n)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != n {
		t.Errorf("Expected count %d after seeding, got %d", n, count)
	}

	t.Run("Idempotent", func(t *testing.T) {
		again, err := repo.Seed(ctx)
		if err != nil {
			t.Fatalf("Failed to re-seed: %v", err)
		}
		if again != 0 {
			t.Errorf("Expected re-seed to insert nothing, got %d", again)
		}
	})
}

func TestHasDietTags(t *testing.T) {
	rec := testRecipe("X")
	rec.DietTags = []string{"vegan", "gluten-free"}

	if !rec.HasDietTags(nil) {
		t.Error("Expected empty requirement to pass")
	}
	if !rec.HasDietTags([]string{"vegan"}) {
		t.Error("Expected single present tag to pass")
	}
	if !rec.HasDietTags([]string{"vegan", "gluten-free"}) {
		t.Error("Expected full subset to pass")
	}
	if rec.HasDietTags([]string{"vegan", "keto"}) {
		t.Error("Expected missing tag to fail")
	}
}
