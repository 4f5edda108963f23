package rest

import (
	"net/http"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/services"
	"github.com/ewilliams-labs/remixense/internal/worker"
)

// addTrackRequest defines what the client sends us
type addTrackRequest struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Tempo      *float64 `json:"tempo"`
	Key        string   `json:"key"`
	Energy     *int     `json:"energy"`
	Duration   string   `json:"duration"`
	ISRC       string   `json:"isrc"`
	PreviewURL string   `json:"preview_url"`
}

type importTrackRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

type listTracksResponse struct {
	Tracks []domain.Track `json:"tracks"`
}

// AddTrack handles POST /tracks
func (h *Handler) AddTrack(w http.ResponseWriter, r *http.Request) {
	var req addTrackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	track, err := h.svc.AddTrack(r.Context(), services.NewTrack{
		ID:         req.ID,
		Title:      req.Title,
		Artist:     req.Artist,
		Tempo:      req.Tempo,
		Key:        req.Key,
		Energy:     req.Energy,
		Duration:   req.Duration,
		ISRC:       req.ISRC,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.queueAnalysis(track)
	w.Header().Set("Location", "/tracks/"+track.ID)
	writeJSON(w, http.StatusCreated, track)
}

// ImportTrack handles POST /tracks/import
func (h *Handler) ImportTrack(w http.ResponseWriter, r *http.Request) {
	var req importTrackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" || req.Artist == "" {
		writeError(w, http.StatusBadRequest, "title and artist are required")
		return
	}

	// We pass the Context so the provider lookup is cancelled if the user disconnects
	track, err := h.svc.ImportTrack(r.Context(), req.Title, req.Artist)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.queueAnalysis(track)
	w.Header().Set("Location", "/tracks/"+track.ID)
	writeJSON(w, http.StatusCreated, track)
}

// ListTracks handles GET /tracks
func (h *Handler) ListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.svc.ListTracks(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if tracks == nil {
		tracks = []domain.Track{}
	}
	writeJSON(w, http.StatusOK, listTracksResponse{Tracks: tracks})
}

// queueAnalysis measures energy in the background for tracks that arrive
// with a preview clip but no energy level.
func (h *Handler) queueAnalysis(t domain.Track) {
	if h.pool == nil || t.PreviewURL == "" || t.Energy != nil {
		return
	}
	h.pool.Submit(worker.Job{TrackID: t.ID, PreviewURL: t.PreviewURL})
}
