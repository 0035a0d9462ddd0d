package receipt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

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

func testItems(batchID, store string, date time.Time) []Item {
	return []Item{
		{
			UserID: 1, BatchID: batchID, RawName: "MILK", NormalizedName: "milk",
			Quantity: 1, Unit: "gal", UnitPrice: 3.49, TotalPrice: 3.49,
			Category: grocery.CategoryDairy, Store: store, PurchaseDate: date,
		},
		{
			UserID: 1, BatchID: batchID, RawName: "CHKN BRST", NormalizedName: "chicken breast",
			Quantity: 2, Unit: "lb", UnitPrice: 4.99, TotalPrice: 9.98,
			Category: grocery.CategoryMeat, Store: store, PurchaseDate: date,
		},
	}
}

func TestInsertAndFetchBatch(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	if err := repo.InsertBatch(ctx, testItems("batch-1", "Walmart", date)); err != nil {
		t.Fatalf("Failed to insert batch: %v", err)
	}

	items, err := repo.ItemsByBatch(ctx, "batch-1", 1)
	if err != nil {
		t.Fatalf("Failed to fetch batch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].RawName != "MILK" || items[0].Category != grocery.CategoryDairy {
		t.Errorf("First item did not round-trip: %+v", items[0])
	}
	if items[1].TotalPrice != 9.98 {
		t.Errorf("Expected total price 9.98, got %f", items[1].TotalPrice)
	}

	t.Run("OtherUserSeesNothing", func(t *testing.T) {
		items, err := repo.ItemsByBatch(ctx, "batch-1", 2)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("Expected no items for another user, got %d", len(items))
		}
	})
}

func TestRecentReceipts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	older := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	if err := repo.InsertBatch(ctx, testItems("batch-old", "Kroger", older)); err != nil {
		t.Fatalf("Failed to insert batch: %v", err)
	}
	if err := repo.InsertBatch(ctx, testItems("batch-new", "Walmart", newer)); err != nil {
		t.Fatalf("Failed to insert batch: %v", err)
	}

	summaries, err := repo.RecentReceipts(ctx, 1, 10)
	if err != nil {
		t.Fatalf("Failed to list receipts: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 batches, got %d", len(summaries))
	}
	if summaries[0].BatchID != "batch-new" {
		t.Errorf("Expected newest batch first, got %q", summaries[0].BatchID)
	}
	if summaries[0].ItemCount != 2 {
		t.Errorf("Expected 2 items per batch, got %d", summaries[0].ItemCount)
	}
	if summaries[0].TotalAmount != 3.49+9.98 {
		t.Errorf("Expected batch total %.2f, got %f", 3.49+9.98, summaries[0].TotalAmount)
	}
}

func TestDeleteBatch(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	date := time.Now().UTC()

	if err := repo.InsertBatch(ctx, testItems("batch-del", "Store", date)); err != nil {
		t.Fatalf("Failed to insert batch: %v", err)
	}

	deleted, err := repo.DeleteBatch(ctx, "batch-del", 1)
	if err != nil {
		t.Fatalf("Failed to delete batch: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted rows, got %d", deleted)
	}

	items, err := repo.ItemsByBatch(ctx, "batch-del", 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected batch to be gone, got %d items", len(items))
	}
}

func TestSpendBreakdown(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	may := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	if err := repo.InsertBatch(ctx, testItems("b1", "Walmart", may)); err != nil {
		t.Fatalf("Failed to insert batch: %v", err)
	}
	if err := repo.InsertBatch(ctx, testItems("b2", "Kroger", june)); err != nil {
		t.Fatalf("Failed to insert batch: %v", err)
	}

	b, err := repo.SpendBreakdown(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to compute breakdown: %v", err)
	}

	wantTotal := 2 * (3.49 + 9.98)
	if b.TotalSpent != round2(wantTotal) {
		t.Errorf("Expected total spent %.2f, got %f", wantTotal, b.TotalSpent)
	}
	if b.ReceiptCount != 2 {
		t.Errorf("Expected 2 receipts, got %d", b.ReceiptCount)
	}
	if b.ItemCount != 4 {
		t.Errorf("Expected 4 items, got %d", b.ItemCount)
	}

	t.Run("ByCategory", func(t *testing.T) {
		if len(b.ByCategory) != 2 {
			t.Fatalf("Expected 2 categories, got %d", len(b.ByCategory))
		}
		// Meat ($19.96) outspends dairy ($6.98).
		if b.ByCategory[0].Category != "meat" {
			t.Errorf("Expected meat ranked first, got %q", b.ByCategory[0].Category)
		}
		var pct float64
		for _, c := range b.ByCategory {
			pct += c.Percentage
		}
		if pct < 99.5 || pct > 100.5 {
			t.Errorf("Expected category percentages to sum to ~100, got %f", pct)
		}
	})

	t.Run("ByStore", func(t *testing.T) {
		if len(b.ByStore) != 2 {
			t.Fatalf("Expected 2 stores, got %d", len(b.ByStore))
		}
		for _, s := range b.ByStore {
			if s.ItemCount != 2 {
				t.Errorf("Expected 2 items at %q, got %d", s.Store, s.ItemCount)
			}
		}
	})

	t.Run("ByMonth", func(t *testing.T) {
		if len(b.ByMonth) != 2 {
			t.Fatalf("Expected 2 months, got %d", len(b.ByMonth))
		}
		if b.ByMonth[0].Month != "2025-05" || b.ByMonth[1].Month != "2025-06" {
			t.Errorf("Expected chronological months, got %+v", b.ByMonth)
		}
	})

	t.Run("TopItems", func(t *testing.T) {
		if len(b.TopItems) != 2 {
			t.Fatalf("Expected 2 top items, got %d", len(b.TopItems))
		}
		top := b.TopItems[0]
		if top.Name != "chicken breast" {
			t.Errorf("Expected chicken breast on top, got %q", top.Name)
		}
		if top.TimesBought != 2 {
			t.Errorf("Expected 2 purchases, got %d", top.TimesBought)
		}
		if top.AvgUnitPrice != 4.99 {
			t.Errorf("Expected average unit price 4.99, got %f", top.AvgUnitPrice)
		}
	})

	t.Run("EmptyHistory", func(t *testing.T) {
		empty, err := repo.SpendBreakdown(ctx, 42)
		if err != nil {
			t.Fatalf("Failed on empty history: %v", err)
		}
		if empty.TotalSpent != 0 || empty.ReceiptCount != 0 {
			t.Errorf("Expected zeroed breakdown, got %+v", empty)
		}
	})
}
