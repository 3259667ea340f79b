package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dangerclosesec/tracker/internal/domain"
	"github.com/dangerclosesec/tracker/internal/serializer"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
)

type ErrorResponse struct {
	BaseResponse
	Error   string    `json:"error"`
	Details *[]string `json:"details,omitempty"`
}

type BaseResponse struct {
	Ok bool `json:"ok"`
}

// respondWithError sends an error response with a message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithDetails(w http.ResponseWriter, code int, message string, details ...string) {
	respondWithJSON(w, code, ErrorResponse{Error: message, Details: &details})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// Sets content type header
	w.Header().Set("Content-Type", "application/json")

	// Sets the HTTP status code
	w.WriteHeader(code)

	// Encodes the response
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// respondWithModel maps a model through its registered serializer before
// writing it.
func respondWithModel(w http.ResponseWriter, r *http.Request, code int, model any) {
	payload, err := serializer.Serialize(model)
	if err != nil {
		handleError(w, r, fmt.Errorf("serializing response: %w", err))
		return
	}
	respondWithJSON(w, code, payload)
}

// handleError maps domain errors onto HTTP status codes. Anything unrecognised
// is logged and reported as a 500 without detail.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondWithDetails(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithDetails(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, domain.ErrConflict):
		respondWithDetails(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
	default:
		slog.ErrorContext(r.Context(), "request failed", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request payload: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// idParam parses a positive integer path parameter.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s %q is not a valid id", domain.ErrInvalidInput, name, raw)
	}
	return id, nil
}
