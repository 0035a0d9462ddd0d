// Package server exposes the HTTP API: pantry inventory, meal-plan
// generation, receipt ingestion and spend analytics.
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"totsuki/internal/pantry"
	"totsuki/internal/recipe"
	"totsuki/internal/receipt"
)

// DefaultUserID is the single household owner. There is no
// authentication layer; every request operates on this user.
const DefaultUserID int64 = 1

// Server wires the HTTP handlers to the repositories.
type Server struct {
	pantryRepo  *pantry.Repository
	recipeRepo  *recipe.Repository
	receiptRepo *receipt.Repository
}

// NewServer creates a new Server.
func NewServer(pantryRepo *pantry.Repository, recipeRepo *recipe.Repository, receiptRepo *receipt.Repository) *Server {
	return &Server{
		pantryRepo:  pantryRepo,
		recipeRepo:  recipeRepo,
		receiptRepo: receiptRepo,
	}
}

// Routes builds the request mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/inventory/item", s.handleCreateItem)
	mux.HandleFunc("GET /api/v1/inventory", s.handleListInventory)
	mux.HandleFunc("PUT /api/v1/inventory/item/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /api/v1/inventory/item/{id}", s.handleDeleteItem)
	mux.HandleFunc("POST /api/v1/inventory/consume", s.handleConsume)

	mux.HandleFunc("GET /api/v1/recipes", s.handleListRecipes)
	mux.HandleFunc("GET /api/v1/recipes/{id}", s.handleGetRecipe)

	mux.HandleFunc("POST /api/v1/plan/generate", s.handleGeneratePlan)
	mux.HandleFunc("GET /api/v1/plan/cuisines", s.handleCuisines)
	mux.HandleFunc("GET /api/v1/plan/diets", s.handleDiets)

	mux.HandleFunc("POST /api/v1/ingest-receipt", s.handleIngestReceipt)
	mux.HandleFunc("POST /api/v1/ingest-receipt/confirm", s.handleConfirmReceipt)
	mux.HandleFunc("GET /api/v1/receipts", s.handleListReceipts)
	mux.HandleFunc("GET /api/v1/receipts/{batch_id}", s.handleGetReceipt)
	mux.HandleFunc("DELETE /api/v1/receipts/{batch_id}", s.handleDeleteReceipt)
	mux.HandleFunc("GET /api/v1/analytics/spend-breakdown", s.handleSpendBreakdown)

	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "totsuki",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
