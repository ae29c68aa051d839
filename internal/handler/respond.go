package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shothost/shothost/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps service denials to HTTP statuses. Quota denials keep their
// wrapped reason in the body so clients can tell which ceiling was hit;
// internal faults stay opaque.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrUnauthenticated):
		writeErrorMessage(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrUnauthorized):
		writeErrorMessage(w, http.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrQuotaExceeded):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		writeErrorMessage(w, http.StatusConflict, "already exists")
	case errors.Is(err, service.ErrLoginDisabled):
		writeErrorMessage(w, http.StatusServiceUnavailable, "login is temporarily disabled")
	case errors.Is(err, service.ErrRegistrationDisabled):
		writeErrorMessage(w, http.StatusServiceUnavailable, "registration is temporarily disabled")
	case errors.Is(err, service.ErrInternal):
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	default:
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
