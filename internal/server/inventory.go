package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"totsuki/internal/grocery"
	"totsuki/internal/pantry"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req pantry.CreateItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "quantity must be >= 0")
		return
	}
	if req.Category != "" {
		req.Category, _ = grocery.ParseCategory(string(req.Category))
	}

	item, err := s.pantryRepo.Create(r.Context(), req, DefaultUserID)
	if err != nil {
		log.Printf("Failed to create pantry item: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	var category *grocery.Category
	if c := r.URL.Query().Get("category"); c != "" {
		parsed, ok := grocery.ParseCategory(c)
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown category: "+c)
			return
		}
		category = &parsed
	}
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 100)

	items, total, err := s.pantryRepo.List(r.Context(), DefaultUserID, category, offset, limit)
	if err != nil {
		log.Printf("Failed to list inventory: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if items == nil {
		items = []pantry.Item{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req pantry.UpdateItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Category != nil {
		parsed, _ := grocery.ParseCategory(string(*req.Category))
		req.Category = &parsed
	}

	item, err := s.pantryRepo.Update(r.Context(), id, req, DefaultUserID)
	if err != nil {
		log.Printf("Failed to update pantry item %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	deleted, err := s.pantryRepo.Delete(r.Context(), id, DefaultUserID)
	if err != nil {
		log.Printf("Failed to delete pantry item %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   int64   `json:"item_id"`
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be > 0")
		return
	}

	item, found, err := s.pantryRepo.Consume(r.Context(), req.ItemID, req.Quantity, DefaultUserID)
	if err != nil {
		log.Printf("Failed to consume pantry item %d: %v", req.ItemID, err)
		respondError(w, http.StatusInternalServerError, "failed to consume item")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	if item == nil {
		respondJSON(w, http.StatusOK, map[string]any{"fully_consumed": true})
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
