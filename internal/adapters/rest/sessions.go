package rest

import (
	"net/http"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
)

type listSessionsResponse struct {
	Sessions []domain.MixSession `json:"sessions"`
}

// ListSessions handles GET /mix-sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListSessions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if sessions == nil {
		sessions = []domain.MixSession{}
	}
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

// GetSession handles GET /mix-sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	session, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
