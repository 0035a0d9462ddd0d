package server

import (
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"time"

	"totsuki/internal/planner"
)

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req planner.PlanRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	recipes, err := s.recipeRepo.All(r.Context())
	if err != nil {
		log.Printf("Failed to load recipe catalog: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load recipes")
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	plan, err := planner.GeneratePlan(recipes, req, rng)
	if err != nil {
		if errors.Is(err, planner.ErrNoRecipes) {
			respondError(w, http.StatusServiceUnavailable, "no recipes available")
			return
		}
		log.Printf("Failed to generate plan: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to generate plan")
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCuisines(w http.ResponseWriter, r *http.Request) {
	cuisines, err := s.recipeRepo.Cuisines(r.Context())
	if err != nil {
		log.Printf("Failed to list cuisines: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list cuisines")
		return
	}
	if cuisines == nil {
		cuisines = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"cuisines": cuisines})
}

func (s *Server) handleDiets(w http.ResponseWriter, r *http.Request) {
	diets, err := s.recipeRepo.Diets(r.Context())
	if err != nil {
		log.Printf("Failed to list diets: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list diets")
		return
	}
	if diets == nil {
		diets = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"diets": diets})
}
