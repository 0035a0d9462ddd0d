package server

import (
	"net/http"
	"strconv"

	"totsuki/internal/recipe"
)

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := recipe.Filter{
		Cuisine:    q.Get("cuisine"),
		Diet:       q.Get("diet"),
		MaxTime:    queryInt(r, "max_time", 0),
		MinProtein: queryFloat(r, "min_protein"),
		MaxCost:    queryFloat(r, "max_cost"),
	}
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)

	recipes, total, err := s.recipeRepo.List(r.Context(), filter, offset, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list recipes")
		return
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"recipes": recipes,
		"total":   total,
	})
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recipe id")
		return
	}

	rec, err := s.recipeRepo.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load recipe")
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

func queryFloat(r *http.Request, name string) float64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
