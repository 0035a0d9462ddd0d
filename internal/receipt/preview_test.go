package receipt

import (
	"math"
	"testing"
	"time"

	"totsuki/internal/grocery"
	"totsuki/internal/normalize"
)

var testDate = time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

func testPantry() []normalize.Candidate {
	return []normalize.Candidate{
		{ID: 1, Name: "Whole Milk", CanonicalName: "milk", Category: grocery.CategoryDairy},
		{ID: 2, Name: "Chicken Breast", CanonicalName: "chicken breast", Category: grocery.CategoryMeat},
	}
}

func TestBuildPreview(t *testing.T) {
	rows := []ParsedRow{
		{RawName: "GREAT VALUE 2% MILK 1GAL", Quantity: 1, Unit: "gal", UnitPrice: 3.49},
		{RawName: "SPARKLING WATER 12PK", Quantity: 2, Unit: "pack", UnitPrice: 3.99},
	}

	preview := BuildPreview(rows, testPantry(), "Walmart", testDate)

	if preview.BatchID == "" {
		t.Error("Expected a generated batch id")
	}
	if preview.Store != "Walmart" || !preview.PurchaseDate.Equal(testDate) {
		t.Errorf("Batch metadata wrong: %+v", preview)
	}
	if preview.ItemCount != 2 {
		t.Fatalf("Expected 2 items, got %d", preview.ItemCount)
	}
	if preview.MatchedCount != 1 || preview.NewCount != 1 {
		t.Errorf("Expected 1 matched / 1 new, got %d / %d", preview.MatchedCount, preview.NewCount)
	}

	milk := preview.Items[0]
	if milk.NormalizedName != "milk" {
		t.Errorf("Expected normalized name 'milk', got %q", milk.NormalizedName)
	}
	if milk.MatchedPantryID == nil || *milk.MatchedPantryID != 1 {
		t.Errorf("Expected a match against pantry item 1, got %+v", milk.MatchedPantryID)
	}
	if milk.WillCreateNew {
		t.Error("Expected matched item not to create new")
	}
	if milk.Category != grocery.CategoryDairy {
		t.Errorf("Expected matched item's category, got %q", milk.Category)
	}

	water := preview.Items[1]
	if water.MatchedPantryID != nil {
		t.Errorf("Expected no match for sparkling water, got %+v", water.MatchedPantryID)
	}
	if !water.WillCreateNew {
		t.Error("Expected unmatched item to create new")
	}
	if water.Category != grocery.CategoryBeverages {
		t.Errorf("Expected inferred beverages category, got %q", water.Category)
	}
}

func TestBuildPreviewTotalPrice(t *testing.T) {
	rows := []ParsedRow{
		{RawName: "Eggs", Quantity: 2, Unit: "dozen", UnitPrice: 2.50},
		{RawName: "Bread", Quantity: 3, Unit: "loaf", UnitPrice: 1.99},
	}

	preview := BuildPreview(rows, nil, "Store", testDate)

	for i, item := range preview.Items {
		want := rows[i].Quantity * rows[i].UnitPrice
		if math.Abs(item.TotalPrice-want) > 1e-9 {
			t.Errorf("Expected total %f for %q, got %f", want, item.RawName, item.TotalPrice)
		}
	}
	wantTotal := 2*2.50 + 3*1.99
	if math.Abs(preview.TotalAmount-wantTotal) > 1e-9 {
		t.Errorf("Expected batch total %f, got %f", wantTotal, preview.TotalAmount)
	}
}

func TestBuildPreviewCategoryPriority(t *testing.T) {
	t.Run("ExplicitWins", func(t *testing.T) {
		rows := []ParsedRow{{RawName: "GREAT VALUE 2% MILK 1GAL", Quantity: 1, UnitPrice: 3, Category: grocery.CategoryBeverages}}
		preview := BuildPreview(rows, testPantry(), "Store", testDate)
		if preview.Items[0].Category != grocery.CategoryBeverages {
			t.Errorf("Expected the explicit category to win, got %q", preview.Items[0].Category)
		}
	})

	t.Run("MatchedBeatsInferred", func(t *testing.T) {
		// "milk" would infer dairy anyway; use a pantry item whose
		// category disagrees with inference to see the priority.
		pantry := []normalize.Candidate{{ID: 5, Name: "Milk", CanonicalName: "milk", Category: grocery.CategoryFrozen}}
		rows := []ParsedRow{{RawName: "MILK", Quantity: 1, UnitPrice: 3}}
		preview := BuildPreview(rows, pantry, "Store", testDate)
		if preview.Items[0].Category != grocery.CategoryFrozen {
			t.Errorf("Expected the matched item's category, got %q", preview.Items[0].Category)
		}
	})

	t.Run("InferredFallback", func(t *testing.T) {
		rows := []ParsedRow{{RawName: "CHEDDAR CHEESE", Quantity: 1, UnitPrice: 4}}
		preview := BuildPreview(rows, nil, "Store", testDate)
		if preview.Items[0].Category != grocery.CategoryDairy {
			t.Errorf("Expected inferred dairy, got %q", preview.Items[0].Category)
		}
	})

	// Confirm requests carry client-supplied rows, so an explicit
	// category can be any string; an unknown one must not leak into
	// the preview as-is.
	t.Run("InvalidExplicitFallsThroughToMatch", func(t *testing.T) {
		pantry := []normalize.Candidate{{ID: 5, Name: "Milk", CanonicalName: "milk", Category: grocery.CategoryFrozen}}
		rows := []ParsedRow{{RawName: "MILK", Quantity: 1, UnitPrice: 3, Category: "junkfood"}}
		preview := BuildPreview(rows, pantry, "Store", testDate)
		if got := preview.Items[0].Category; got != grocery.CategoryFrozen {
			t.Errorf("Expected unknown category to defer to the matched item, got %q", got)
		}
	})

	t.Run("InvalidExplicitFallsThroughToInference", func(t *testing.T) {
		rows := []ParsedRow{{RawName: "CHEDDAR CHEESE", Quantity: 1, UnitPrice: 4, Category: "junkfood"}}
		preview := BuildPreview(rows, nil, "Store", testDate)
		if got := preview.Items[0].Category; got != grocery.CategoryDairy {
			t.Errorf("Expected unknown category to defer to inference, got %q", got)
		}
	})
}

func TestBuildPreviewFreshBatchIDs(t *testing.T) {
	a := BuildPreview(nil, nil, "Store", testDate)
	b := BuildPreview(nil, nil, "Store", testDate)
	if a.BatchID == b.BatchID {
		t.Error("Expected every preview to get its own batch id")
	}
}

func TestFinalize(t *testing.T) {
	rows := []ParsedRow{
		{RawName: "GREAT VALUE 2% MILK 1GAL", Quantity: 2, Unit: "gal", UnitPrice: 3.49},
		{RawName: "SPARKLING WATER 12PK", Quantity: 1, Unit: "pack", UnitPrice: 3.99},
	}
	preview := BuildPreview(rows, testPantry(), "Walmart", testDate)

	items, updates, creates := Finalize(preview, 1)

	if len(items) != 2 {
		t.Fatalf("Expected 2 db-ready items, got %d", len(items))
	}
	for _, item := range items {
		if item.BatchID != preview.BatchID {
			t.Errorf("Expected items to carry the batch id, got %q", item.BatchID)
		}
		if item.UserID != 1 || item.Store != "Walmart" {
			t.Errorf("Batch metadata missing on item: %+v", item)
		}
	}

	if len(updates) != 1 {
		t.Fatalf("Expected 1 pantry update, got %d", len(updates))
	}
	if updates[0].PantryID != 1 || updates[0].QuantityToAdd != 2 {
		t.Errorf("Expected a +2 update for pantry item 1, got %+v", updates[0])
	}

	if len(creates) != 1 {
		t.Fatalf("Expected 1 pantry create, got %d", len(creates))
	}
	c := creates[0]
	if c.Name != "SPARKLING WATER 12PK" {
		t.Errorf("Expected the raw name on the create payload, got %q", c.Name)
	}
	if c.CanonicalName != "sparkling water" {
		t.Errorf("Expected canonical name 'sparkling water', got %q", c.CanonicalName)
	}
	if c.Category != grocery.CategoryBeverages {
		t.Errorf("Expected beverages category, got %q", c.Category)
	}
}
