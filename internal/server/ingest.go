package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"totsuki/internal/grocery"
	"totsuki/internal/pantry"
	"totsuki/internal/receipt"
)

const maxReceiptUpload = 5 << 20 // 5 MiB

// handleIngestReceipt accepts a multipart CSV upload plus store and
// purchase date, and returns a preview for confirmation. Nothing is
// persisted here.
func (s *Server) handleIngestReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptUpload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	store := r.FormValue("store")
	if store == "" {
		respondError(w, http.StatusBadRequest, "store is required")
		return
	}
	purchaseDate, err := parsePurchaseDate(r.FormValue("purchase_date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "purchase_date must be YYYY-MM-DD")
		return
	}

	rows, err := receipt.ParseCSV(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not parse CSV: "+err.Error())
		return
	}
	if len(rows) == 0 {
		respondError(w, http.StatusBadRequest, "no usable rows in CSV")
		return
	}

	candidates, err := s.pantryRepo.ListForMatching(r.Context(), DefaultUserID)
	if err != nil {
		log.Printf("Failed to load pantry snapshot: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load pantry")
		return
	}

	preview := receipt.BuildPreview(rows, candidates, store, purchaseDate)
	respondJSON(w, http.StatusOK, preview)
}

// confirmRequest re-submits the parsed rows; the preview is rebuilt
// against the live pantry so a stale client preview cannot corrupt
// matching.
type confirmRequest struct {
	Store        string              `json:"store"`
	PurchaseDate string              `json:"purchase_date"`
	Items        []receipt.ParsedRow `json:"items"`
	UpdatePantry bool                `json:"update_pantry"`
}

func (s *Server) handleConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Store == "" || len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "store and items are required")
		return
	}
	for _, row := range req.Items {
		if row.RawName == "" || row.Quantity <= 0 || row.UnitPrice < 0 {
			respondError(w, http.StatusBadRequest, "each item needs a name, quantity > 0 and price >= 0")
			return
		}
	}
	purchaseDate, err := parsePurchaseDate(req.PurchaseDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "purchase_date must be YYYY-MM-DD")
		return
	}

	ctx := r.Context()
	candidates, err := s.pantryRepo.ListForMatching(ctx, DefaultUserID)
	if err != nil {
		log.Printf("Failed to load pantry snapshot: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load pantry")
		return
	}

	preview := receipt.BuildPreview(req.Items, candidates, req.Store, purchaseDate)
	items, updates, creates := receipt.Finalize(preview, DefaultUserID)

	if err := s.receiptRepo.InsertBatch(ctx, items); err != nil {
		log.Printf("Failed to persist receipt batch: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to save receipt")
		return
	}

	applied := 0
	if req.UpdatePantry {
		for _, u := range updates {
			if _, err := s.pantryRepo.AddQuantity(ctx, u.PantryID, u.QuantityToAdd, DefaultUserID); err != nil {
				log.Printf("Failed to top up pantry item %d: %v", u.PantryID, err)
				continue
			}
			applied++
		}
		for _, c := range creates {
			_, err := s.pantryRepo.Create(ctx, pantry.CreateItem{
				Name:          c.Name,
				CanonicalName: c.CanonicalName,
				Quantity:      c.Quantity,
				Unit:          c.Unit,
				Category:      c.Category,
				Source:        grocery.SourceReceipt,
			}, DefaultUserID)
			if err != nil {
				log.Printf("Failed to create pantry item %q: %v", c.Name, err)
				continue
			}
			applied++
		}
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"batch_id":       preview.BatchID,
		"items_saved":    len(items),
		"total_amount":   preview.TotalAmount,
		"pantry_applied": applied,
		"pantry_updates": len(updates),
		"pantry_creates": len(creates),
	})
}

func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	summaries, err := s.receiptRepo.RecentReceipts(r.Context(), DefaultUserID, limit)
	if err != nil {
		log.Printf("Failed to list receipts: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list receipts")
		return
	}
	if summaries == nil {
		summaries = []receipt.Summary{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"receipts": summaries})
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	batchID := r.PathValue("batch_id")
	items, err := s.receiptRepo.ItemsByBatch(r.Context(), batchID, DefaultUserID)
	if err != nil {
		log.Printf("Failed to load batch %s: %v", batchID, err)
		respondError(w, http.StatusInternalServerError, "failed to load receipt")
		return
	}
	if len(items) == 0 {
		respondError(w, http.StatusNotFound, "receipt not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	batchID := r.PathValue("batch_id")
	deleted, err := s.receiptRepo.DeleteBatch(r.Context(), batchID, DefaultUserID)
	if err != nil {
		log.Printf("Failed to delete batch %s: %v", batchID, err)
		respondError(w, http.StatusInternalServerError, "failed to delete receipt")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "receipt not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted_items": deleted})
}

func (s *Server) handleSpendBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.receiptRepo.SpendBreakdown(r.Context(), DefaultUserID)
	if err != nil {
		log.Printf("Failed to compute spend breakdown: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}
	respondJSON(w, http.StatusOK, breakdown)
}

func parsePurchaseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse("2006-01-02", s)
}
