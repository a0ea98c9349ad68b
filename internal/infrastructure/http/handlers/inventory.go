package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
)

// ListInventory handles GET /api/v1/inventory
func (h *APIHandlers) ListInventory(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.pantry.List(r.Context()), "")
}

// AddItem handles POST /api/v1/inventory
func (h *APIHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.AddItemCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	item, err := h.pantry.AddItem(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, item, "Item added")
}

// DeleteItem handles DELETE /api/v1/inventory/{id}
func (h *APIHandlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.pantry.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, nil, "Item removed")
}
