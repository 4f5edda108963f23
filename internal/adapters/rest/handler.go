package rest

import (
	"net/http"

	"github.com/ewilliams-labs/remixense/internal/core/services"
	"github.com/ewilliams-labs/remixense/internal/worker"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Orchestrator // Dependency on the Core Service
	pool   *worker.Pool           // optional; nil disables background analysis
	router *http.ServeMux         // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator, pool *worker.Pool) *Handler {
	h := &Handler{
		svc:    svc,
		pool:   pool,
		router: http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Track Library
	h.router.HandleFunc("POST /tracks", h.AddTrack)
	h.router.HandleFunc("GET /tracks", h.ListTracks)
	h.router.HandleFunc("POST /tracks/import", h.ImportTrack)
	// Mixing
	h.router.HandleFunc("POST /mixes/quick", h.QuickMix)
	h.router.HandleFunc("POST /mix-sessions", h.CreateSession)
	h.router.HandleFunc("GET /mix-sessions", h.ListSessions)
	h.router.HandleFunc("GET /mix-sessions/{id}", h.GetSession)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "RemiXense is live"})
}
