package handlers

import (
	"net/http"

	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
)

// GetWorkspace handles GET /api/v1/workspace
func (h *APIHandlers) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.workspace.Snapshot(r.Context()), "")
}

// Navigate handles PUT /api/v1/workspace/tab
func (h *APIHandlers) Navigate(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.NavigateCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	tab := h.workspace.Navigate(r.Context(), cmd)
	h.respond(w, http.StatusOK, map[string]interface{}{"tab": tab}, "")
}

// GetPreferences handles GET /api/v1/preferences
func (h *APIHandlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.preferences.Get(), "")
}

// Onboard handles POST /api/v1/onboarding
func (h *APIHandlers) Onboard(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.OnboardCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	prefs, err := h.workspace.Onboard(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, prefs, "Preferences saved")
}
