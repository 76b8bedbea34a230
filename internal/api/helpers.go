package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/lightmail/lightmail/internal/jmap"
	"github.com/lightmail/lightmail/internal/mail"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("API: Failed to encode response: %v", err)
	}
}

// writeServiceError maps core error values onto HTTP statuses for the UI.
// Transport and protocol failures collapse into a generic "service
// unavailable"; a server-reported method error surfaces its type string.
func writeServiceError(w http.ResponseWriter, err error) {
	var methodErr *jmap.MethodError
	switch {
	case errors.Is(err, mail.ErrEmailNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "email not found"})
	case errors.As(err, &methodErr):
		log.Printf("API: Remote method error: %v", methodErr)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: methodErr.Type})
	default:
		log.Printf("API: Service error: %v", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "service unavailable"})
	}
}

// ParseLimitParam parses the limit query parameter. Returns defaultLimit if
// the parameter is missing or invalid. This is a shared helper used by
// handlers for consistent pagination parsing.
func ParseLimitParam(r *http.Request, defaultLimit int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultLimit
}
