package receipt

import (
	"time"

	"github.com/google/uuid"

	"totsuki/internal/grocery"
	"totsuki/internal/normalize"
)

// BuildPreview turns parsed rows into a reviewable batch: each row is
// normalized, matched against the pantry snapshot and categorized.
// Category priority: the row's explicit category when valid, then the
// matched pantry item's, then keyword inference over the normalized
// name. Pure computation; nothing is written anywhere.
func BuildPreview(rows []ParsedRow, candidates []normalize.Candidate, store string, purchaseDate time.Time) *Preview {
	preview := &Preview{
		BatchID:      uuid.NewString(),
		Store:        store,
		PurchaseDate: purchaseDate,
		Items:        make([]PreviewItem, 0, len(rows)),
	}

	for _, row := range rows {
		item := PreviewItem{
			RawName:        row.RawName,
			NormalizedName: normalize.Normalize(row.RawName, false),
			Quantity:       row.Quantity,
			Unit:           row.Unit,
			UnitPrice:      row.UnitPrice,
			TotalPrice:     row.Quantity * row.UnitPrice,
		}

		match := normalize.FindBestMatch(row.RawName, candidates, normalize.DefaultMatchThreshold)
		if match != nil {
			id := match.ID
			item.MatchedPantryID = &id
			item.MatchedName = match.Name
			item.MatchScore = match.Score
		}
		item.WillCreateNew = match == nil

		// The confirm path decodes rows straight from client JSON, so
		// the explicit category cannot be trusted to be a real enum
		// value; an unparseable one counts as absent.
		explicit, validExplicit := grocery.ParseCategory(string(row.Category))
		switch {
		case row.Category != "" && validExplicit:
			item.Category = explicit
		case match != nil && match.Category != "":
			item.Category = match.Category
		default:
			item.Category = grocery.InferCategory(item.NormalizedName)
		}

		preview.Items = append(preview.Items, item)
		preview.TotalAmount += item.TotalPrice
		if match != nil {
			preview.MatchedCount++
		} else {
			preview.NewCount++
		}
	}

	preview.ItemCount = len(preview.Items)
	return preview
}

// Finalize partitions confirmed preview items into persistable line
// items and pantry mutation instructions. Matched items become quantity
// top-ups; unmatched items become creation payloads. The caller applies
// them; this function issues no writes.
func Finalize(p *Preview, userID int64) ([]Item, []PantryUpdate, []PantryCreate) {
	items := make([]Item, 0, len(p.Items))
	var updates []PantryUpdate
	var creates []PantryCreate

	for _, pi := range p.Items {
		items = append(items, Item{
			UserID:          userID,
			BatchID:         p.BatchID,
			RawName:         pi.RawName,
			NormalizedName:  pi.NormalizedName,
			Quantity:        pi.Quantity,
			Unit:            pi.Unit,
			UnitPrice:       pi.UnitPrice,
			TotalPrice:      pi.TotalPrice,
			Category:        pi.Category,
			Store:           p.Store,
			PurchaseDate:    p.PurchaseDate,
			MatchedPantryID: pi.MatchedPantryID,
		})

		if pi.MatchedPantryID != nil {
			updates = append(updates, PantryUpdate{
				PantryID:      *pi.MatchedPantryID,
				QuantityToAdd: pi.Quantity,
			})
		} else {
			creates = append(creates, PantryCreate{
				Name:          pi.RawName,
				CanonicalName: pi.NormalizedName,
				Quantity:      pi.Quantity,
				Unit:          pi.Unit,
				Category:      pi.Category,
			})
		}
	}

	return items, updates, creates
}
