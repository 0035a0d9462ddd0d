package recipe

import (
	"strings"
	"testing"
)

const microdataPage = `<!DOCTYPE html>
<html><head><title>Site - Best Pancakes</title>
<meta property="og:title" content="Best Pancakes">
</head><body>
<script>trackEverything();</script>
<h1>Best Pancakes</h1>
<p>Serves 4 | Ready in 1 hour 20 minutes</p>
<ul>
  <li itemprop="recipeIngredient">2 cups flour</li>
  <li itemprop="recipeIngredient">1 cup milk</li>
  <li itemprop="recipeIngredient">2 eggs</li>
</ul>
<div itemprop="recipeInstructions">
  <ol>
    <li>Mix the dry ingredients.</li>
    <li>Whisk in milk and eggs.</li>
    <li>Cook on a hot griddle.</li>
  </ol>
</div>
</body></html>`

const classBasedPage = `<html><head><title>Simple Soup</title></head><body>
<h1>Simple Soup</h1>
<div class="ingredients">
  <ul><li>1 onion</li><li>4 cups broth</li></ul>
</div>
<div class="instructions">
  <ul><li>Saute the onion.</li><li>Add broth and simmer.</li></ul>
</div>
</body></html>`

func TestExtract(t *testing.T) {
	t.Run("Microdata", func(t *testing.T) {
		got, err := Extract(strings.NewReader(microdataPage))
		if err != nil {
			t.Fatalf("Failed to extract: %v", err)
		}

		if got.Title != "Best Pancakes" {
			t.Errorf("Expected title 'Best Pancakes', got %q", got.Title)
		}
		if len(got.Ingredients) != 3 {
			t.Errorf("Expected 3 ingredients, got %d: %v", len(got.Ingredients), got.Ingredients)
		}
		if len(got.Steps) != 3 {
			t.Errorf("Expected 3 steps, got %d: %v", len(got.Steps), got.Steps)
		}
		if got.Servings != 4 {
			t.Errorf("Expected 4 servings, got %d", got.Servings)
		}
		if got.TimeMinutes != 80 {
			t.Errorf("Expected 80 minutes, got %d", got.TimeMinutes)
		}
	})

	t.Run("ClassBasedMarkup", func(t *testing.T) {
		got, err := Extract(strings.NewReader(classBasedPage))
		if err != nil {
			t.Fatalf("Failed to extract: %v", err)
		}
		if got.Title != "Simple Soup" {
			t.Errorf("Expected title 'Simple Soup', got %q", got.Title)
		}
		if len(got.Ingredients) != 2 {
			t.Errorf("Expected 2 ingredients, got %v", got.Ingredients)
		}
		if len(got.Steps) != 2 {
			t.Errorf("Expected 2 steps, got %v", got.Steps)
		}
	})

	t.Run("NotARecipe", func(t *testing.T) {
		if _, err := Extract(strings.NewReader("<html><body><p>hello</p></body></html>")); err == nil {
			t.Error("Expected an error for a page without recipe markup")
		}
	})
}

func TestExtractedRecipeConversion(t *testing.T) {
	x := &ExtractedRecipe{
		Title:       "Best Pancakes",
		Ingredients: []string{"2 cups flour", "1 cup milk"},
		Steps:       []string{"Mix.", "Cook."},
		Servings:    4,
		TimeMinutes: 20,
		SourceURL:   "https://example.com/pancakes",
	}

	rec := x.Recipe()
	if rec.Title != "Best Pancakes" {
		t.Errorf("Expected title to carry over, got %q", rec.Title)
	}
	if rec.Servings != 4 || rec.TimeMinutes != 20 {
		t.Errorf("Expected servings/time to carry over, got %d/%d", rec.Servings, rec.TimeMinutes)
	}
	if len(rec.Ingredients) != 2 || rec.Ingredients[0].Name != "2 cups flour" {
		t.Errorf("Expected ingredient lines as names, got %+v", rec.Ingredients)
	}
	if !strings.Contains(rec.Description, "example.com") {
		t.Errorf("Expected the source URL in the description, got %q", rec.Description)
	}
}
