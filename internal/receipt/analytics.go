package receipt

import (
	"context"
	"fmt"
	"math"
)

// CategorySpend is spending within one category, with its share of the
// overall total.
type CategorySpend struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// StoreSpend is spending at one store.
type StoreSpend struct {
	Store      string  `json:"store"`
	Total      float64 `json:"total"`
	ItemCount  int     `json:"item_count"`
	Percentage float64 `json:"percentage"`
}

// MonthSpend is spending within one calendar month ("YYYY-MM").
type MonthSpend struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// TopItem is one frequently bought item ranked by total spend.
type TopItem struct {
	Name         string  `json:"name"`
	TotalSpent   float64 `json:"total_spent"`
	TimesBought  int     `json:"times_bought"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

// SpendBreakdown is the full analytics payload.
type SpendBreakdown struct {
	TotalSpent   float64         `json:"total_spent"`
	ReceiptCount int             `json:"receipt_count"`
	ItemCount    int             `json:"item_count"`
	ByCategory   []CategorySpend `json:"by_category"`
	ByStore      []StoreSpend    `json:"by_store"`
	ByMonth      []MonthSpend    `json:"by_month"`
	TopItems     []TopItem       `json:"top_items"`
}

// SpendBreakdown aggregates all receipt history for one user into
// totals, category/store shares, a monthly series and the top items by
// spend.
func (r *Repository) SpendBreakdown(ctx context.Context, userID int64) (*SpendBreakdown, error) {
	b := &SpendBreakdown{
		ByCategory: []CategorySpend{},
		ByStore:    []StoreSpend{},
		ByMonth:    []MonthSpend{},
		TopItems:   []TopItem{},
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_price), 0),
			COUNT(DISTINCT receipt_batch_id), COUNT(id)
		FROM receipt_items WHERE user_id = ?`, userID).
		Scan(&b.TotalSpent, &b.ReceiptCount, &b.ItemCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute spend totals: %w", err)
	}
	b.TotalSpent = round2(b.TotalSpent)

	if err := r.spendByCategory(ctx, userID, b); err != nil {
		return nil, err
	}
	if err := r.spendByStore(ctx, userID, b); err != nil {
		return nil, err
	}
	if err := r.spendByMonth(ctx, userID, b); err != nil {
		return nil, err
	}
	if err := r.topItems(ctx, userID, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Repository) spendByCategory(ctx context.Context, userID int64, b *SpendBreakdown) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(total_price) AS total
		FROM receipt_items
		WHERE user_id = ?
		GROUP BY category
		ORDER BY total DESC`, userID)
	if err != nil {
		return fmt.Errorf("failed to group spend by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c CategorySpend
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return fmt.Errorf("failed to scan category spend: %w", err)
		}
		c.Total = round2(c.Total)
		c.Percentage = share(c.Total, b.TotalSpent)
		b.ByCategory = append(b.ByCategory, c)
	}
	return rows.Err()
}

func (r *Repository) spendByStore(ctx context.Context, userID int64, b *SpendBreakdown) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT store, SUM(total_price) AS total, COUNT(id)
		FROM receipt_items
		WHERE user_id = ?
		GROUP BY store
		ORDER BY total DESC`, userID)
	if err != nil {
		return fmt.Errorf("failed to group spend by store: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s StoreSpend
		if err := rows.Scan(&s.Store, &s.Total, &s.ItemCount); err != nil {
			return fmt.Errorf("failed to scan store spend: %w", err)
		}
		s.Total = round2(s.Total)
		s.Percentage = share(s.Total, b.TotalSpent)
		b.ByStore = append(b.ByStore, s)
	}
	return rows.Err()
}

func (r *Repository) spendByMonth(ctx context.Context, userID int64, b *SpendBreakdown) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', purchase_date) AS month, SUM(total_price)
		FROM receipt_items
		WHERE user_id = ?
		GROUP BY month
		ORDER BY month`, userID)
	if err != nil {
		return fmt.Errorf("failed to group spend by month: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m MonthSpend
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return fmt.Errorf("failed to scan month spend: %w", err)
		}
		m.Total = round2(m.Total)
		b.ByMonth = append(b.ByMonth, m)
	}
	return rows.Err()
}

func (r *Repository) topItems(ctx context.Context, userID int64, b *SpendBreakdown) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT normalized_name, SUM(total_price) AS total,
			COUNT(id), AVG(unit_price)
		FROM receipt_items
		WHERE user_id = ? AND normalized_name != ''
		GROUP BY normalized_name
		ORDER BY total DESC
		LIMIT 10`, userID)
	if err != nil {
		return fmt.Errorf("failed to rank top items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t TopItem
		if err := rows.Scan(&t.Name, &t.TotalSpent, &t.TimesBought, &t.AvgUnitPrice); err != nil {
			return fmt.Errorf("failed to scan top item: %w", err)
		}
		t.TotalSpent = round2(t.TotalSpent)
		t.AvgUnitPrice = round2(t.AvgUnitPrice)
		b.TopItems = append(b.TopItems, t)
	}
	return rows.Err()
}

func share(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round1(part / whole * 100)
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
