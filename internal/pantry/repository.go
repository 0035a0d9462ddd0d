package pantry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"totsuki/internal/grocery"
	"totsuki/internal/normalize"
)

// Repository is a database-backed repository for pantry items.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

const itemColumns = `id, user_id, name, canonical_name, quantity, unit,
	estimated_expiry, category, source, created_at, last_updated`

// Create inserts a new pantry item. The canonical name is derived from
// the display name when the caller does not supply one.
func (r *Repository) Create(ctx context.Context, data CreateItem, userID int64) (*Item, error) {
	canonical := data.CanonicalName
	if canonical == "" {
		canonical = normalize.SuggestCanonicalName(data.Name)
	}

	quantity := data.Quantity
	if quantity == 0 {
		quantity = 1.0
	}
	unit := data.Unit
	if unit == "" {
		unit = "unit"
	}
	category := data.Category
	if category == "" {
		category = grocery.CategoryOther
	}
	source := data.Source
	if source == "" {
		source = grocery.SourceManual
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pantry_items
			(user_id, name, canonical_name, quantity, unit, estimated_expiry, category, source, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, data.Name, canonical, quantity, unit, data.EstimatedExpiry,
		string(category), string(source), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert pantry item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted pantry item id: %w", err)
	}

	return r.Get(ctx, id, userID)
}

// Get retrieves a single pantry item by ID, scoped to the owner.
// Returns nil when the item does not exist.
func (r *Repository) Get(ctx context.Context, id, userID int64) (*Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM pantry_items
		WHERE id = ? AND user_id = ?`, id, userID)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pantry item %d: %w", id, err)
	}
	return item, nil
}

// List returns pantry items ordered by last_updated (most recent first),
// with an optional category filter and pagination. The second return
// value is the total count before pagination.
func (r *Repository) List(ctx context.Context, userID int64, category *grocery.Category, offset, limit int) ([]Item, int, error) {
	where := "WHERE user_id = ?"
	args := []any{userID}
	if category != nil {
		where += " AND category = ?"
		args = append(args, string(*category))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(id) FROM pantry_items "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pantry items: %w", err)
	}

	query := "SELECT " + itemColumns + " FROM pantry_items " + where +
		" ORDER BY last_updated DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pantry items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan pantry item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate pantry items: %w", err)
	}

	return items, total, nil
}

// Update applies a partial update. When the name changes without an
// explicit canonical name, the canonical name is re-derived. Returns
// nil when the item does not exist.
func (r *Repository) Update(ctx context.Context, id int64, data UpdateItem, userID int64) (*Item, error) {
	item, err := r.Get(ctx, id, userID)
	if err != nil || item == nil {
		return item, err
	}

	if data.Name != nil {
		item.Name = *data.Name
		if data.CanonicalName == nil {
			item.CanonicalName = normalize.SuggestCanonicalName(*data.Name)
		}
	}
	if data.CanonicalName != nil {
		item.CanonicalName = *data.CanonicalName
	}
	if data.Quantity != nil {
		item.Quantity = *data.Quantity
	}
	if data.Unit != nil {
		item.Unit = *data.Unit
	}
	if data.EstimatedExpiry != nil {
		item.EstimatedExpiry = data.EstimatedExpiry
	}
	if data.Category != nil {
		item.Category = *data.Category
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE pantry_items
		SET name = ?, canonical_name = ?, quantity = ?, unit = ?,
			estimated_expiry = ?, category = ?, last_updated = ?
		WHERE id = ? AND user_id = ?`,
		item.Name, item.CanonicalName, item.Quantity, item.Unit,
		item.EstimatedExpiry, string(item.Category), time.Now().UTC(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update pantry item %d: %w", id, err)
	}

	return r.Get(ctx, id, userID)
}

// Delete removes a pantry item. Returns false when nothing was deleted.
func (r *Repository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM pantry_items WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete pantry item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// Consume reduces an item's quantity. When the quantity drops to zero
// or below the row is deleted and (nil, true, nil) is returned; the
// second return reports whether the item existed at all.
func (r *Repository) Consume(ctx context.Context, id int64, quantity float64, userID int64) (*Item, bool, error) {
	item, err := r.Get(ctx, id, userID)
	if err != nil {
		return nil, false, err
	}
	if item == nil {
		return nil, false, nil
	}

	remaining := item.Quantity - quantity
	if remaining <= 0 {
		if _, err := r.Delete(ctx, id, userID); err != nil {
			return nil, true, err
		}
		return nil, true, nil
	}

	qty := remaining
	updated, err := r.Update(ctx, id, UpdateItem{Quantity: &qty}, userID)
	if err != nil {
		return nil, true, err
	}
	return updated, true, nil
}

// AddQuantity increments an item's quantity in place, used when a
// confirmed receipt tops up existing inventory.
func (r *Repository) AddQuantity(ctx context.Context, id int64, delta float64, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pantry_items
		SET quantity = quantity + ?, last_updated = ?
		WHERE id = ? AND user_id = ?`,
		delta, time.Now().UTC(), id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to add quantity to pantry item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// ListForMatching returns the pantry snapshot the receipt matcher
// consumes: id, display name, canonical name and category.
func (r *Repository) ListForMatching(ctx context.Context, userID int64) ([]normalize.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(canonical_name, ''), category
		FROM pantry_items
		WHERE user_id = ?
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pantry snapshot: %w", err)
	}
	defer rows.Close()

	var candidates []normalize.Candidate
	for rows.Next() {
		var c normalize.Candidate
		var category string
		if err := rows.Scan(&c.ID, &c.Name, &c.CanonicalName, &category); err != nil {
			return nil, fmt.Errorf("failed to scan pantry snapshot row: %w", err)
		}
		c.Category, _ = grocery.ParseCategory(category)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pantry snapshot: %w", err)
	}
	return candidates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var canonical sql.NullString
	var expiry sql.NullTime
	var category, source string

	err := row.Scan(&item.ID, &item.UserID, &item.Name, &canonical,
		&item.Quantity, &item.Unit, &expiry, &category, &source,
		&item.CreatedAt, &item.LastUpdated)
	if err != nil {
		return nil, err
	}

	if canonical.Valid {
		item.CanonicalName = canonical.String
	}
	if expiry.Valid {
		t := expiry.Time
		item.EstimatedExpiry = &t
	}
	item.Category, _ = grocery.ParseCategory(category)
	item.Source = grocery.Source(source)
	return &item, nil
}
