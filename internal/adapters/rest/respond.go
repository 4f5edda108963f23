package rest

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/ports"
	"github.com/ewilliams-labs/remixense/internal/core/services"
)

const (
	errCodeInsufficientTracks  = "INSUFFICIENT_TRACKS"
	errCodeNoConfidentMatch    = "NO_CONFIDENT_MATCH"
	errCodeNotFound            = "NOT_FOUND"
	errCodeInvalidArgument     = "INVALID_ARGUMENT"
	errCodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARN rest: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func isJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeJSON enforces a JSON content type and decodes the body into v,
// writing the error response itself when it returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeServiceError maps core errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var insufficient domain.InsufficientTracksError
	switch {
	case errors.As(err, &insufficient):
		writeErrorWithCode(w, http.StatusUnprocessableEntity, insufficient.Error(), errCodeInsufficientTracks)
	case errors.Is(err, ports.ErrNoConfidentMatch):
		writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeNoConfidentMatch)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorWithCode(w, http.StatusNotFound, "not found", errCodeNotFound)
	case errors.Is(err, domain.ErrInvalidArgument):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidArgument)
	case errors.Is(err, services.ErrProviderUnavailable):
		writeErrorWithCode(w, http.StatusServiceUnavailable, err.Error(), errCodeProviderUnavailable)
	default:
		log.Printf("WARN rest: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
