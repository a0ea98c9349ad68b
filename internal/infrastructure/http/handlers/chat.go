package handlers

import (
	"net/http"

	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
)

// GetTranscript handles GET /api/v1/chat
func (h *APIHandlers) GetTranscript(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.workspace.Transcript(), "")
}

// Chat handles POST /api/v1/chat
func (h *APIHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.ChatCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, h.workspace.Chat(r.Context(), cmd), "")
}
