package receipt

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"totsuki/internal/grocery"
)

// Repository persists receipt line items and answers the analytics
// queries.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// InsertBatch writes all line items of one confirmed batch in a single
// transaction.
func (r *Repository) InsertBatch(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO receipt_items
			(user_id, receipt_batch_id, raw_name, normalized_name, quantity,
			 unit, unit_price, total_price, category, store, purchase_date,
			 matched_pantry_item_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, item := range items {
		_, err := stmt.ExecContext(ctx, item.UserID, item.BatchID, item.RawName,
			item.NormalizedName, item.Quantity, item.Unit, item.UnitPrice,
			item.TotalPrice, string(item.Category), item.Store,
			item.PurchaseDate, item.MatchedPantryID, now)
		if err != nil {
			return fmt.Errorf("failed to insert receipt item %q: %w", item.RawName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit receipt batch: %w", err)
	}
	return nil
}

// ItemsByBatch returns every line item of one batch, in insertion
// order.
func (r *Repository) ItemsByBatch(ctx context.Context, batchID string, userID int64) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, receipt_batch_id, raw_name, normalized_name,
			quantity, unit, unit_price, total_price, category, store,
			purchase_date, matched_pantry_item_id, created_at
		FROM receipt_items
		WHERE receipt_batch_id = ? AND user_id = ?
		ORDER BY id`, batchID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var category string
		var matched sql.NullInt64
		err := rows.Scan(&item.ID, &item.UserID, &item.BatchID, &item.RawName,
			&item.NormalizedName, &item.Quantity, &item.Unit, &item.UnitPrice,
			&item.TotalPrice, &category, &item.Store, &item.PurchaseDate,
			&matched, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		item.Category, _ = grocery.ParseCategory(category)
		if matched.Valid {
			id := matched.Int64
			item.MatchedPantryID = &id
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt items: %w", err)
	}
	return items, nil
}

// RecentReceipts lists batches newest first, one summary row per batch.
func (r *Repository) RecentReceipts(ctx context.Context, userID int64, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT receipt_batch_id, store, purchase_date,
			SUM(total_price), COUNT(id)
		FROM receipt_items
		WHERE user_id = ?
		GROUP BY receipt_batch_id, store, purchase_date
		ORDER BY purchase_date DESC, receipt_batch_id
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.BatchID, &s.Store, &s.PurchaseDate, &s.TotalAmount, &s.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan receipt summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt summaries: %w", err)
	}
	return summaries, nil
}

// DeleteBatch removes every line item of one batch. Returns the number
// of deleted rows.
func (r *Repository) DeleteBatch(ctx context.Context, batchID string, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM receipt_items WHERE receipt_batch_id = ? AND user_id = ?",
		batchID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete batch %s: %w", batchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected, nil
}
