package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListRecipes handles GET /api/v1/recipes
func (h *APIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.workspace.Recipes(), "")
}

// GenerateRecipes handles POST /api/v1/recipes/generate
func (h *APIHandlers) GenerateRecipes(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.workspace.RegenerateRecipes(r.Context()), "")
}

// CookRecipe handles POST /api/v1/recipes/{id}/cook and returns the
// inventory after consumption
func (h *APIHandlers) CookRecipe(w http.ResponseWriter, r *http.Request) {
	items, err := h.workspace.CookRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, items, "Recipe cooked")
}
