package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type quickMixRequest struct {
	MaxTracks int `json:"max_tracks"`
}

type createSessionRequest struct {
	Name      string `json:"name"`
	MaxTracks int    `json:"max_tracks"`
}

// QuickMix handles POST /mixes/quick. An empty body uses the default mix size.
func (h *Handler) QuickMix(w http.ResponseWriter, r *http.Request) {
	var req quickMixRequest
	if r.ContentLength != 0 {
		if !isJSONContentType(r) {
			writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	result, err := h.svc.QuickMix(r.Context(), req.MaxTracks)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateSession handles POST /mix-sessions: builds a quick mix and saves it.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.svc.CreateSession(r.Context(), req.Name, req.MaxTracks)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/mix-sessions/"+session.ID)
	writeJSON(w, http.StatusCreated, session)
}

// decodeBody decodes JSON tolerating an empty body of unknown length.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
