package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finsight/internal/core"
)

const userIDHeader = "X-User-ID"

// userIDFrom extracts the authenticated user id from the request header.
func userIDFrom(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, "insight not found")
	case errors.Is(err, core.ErrForbidden):
		respondError(w, http.StatusForbidden, "insight belongs to another user")
	case core.IsDependencyError(err):
		slog.ErrorContext(r.Context(), "Dependency failure", "error", err, "url", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "a dependency failed, try again later")
	default:
		slog.ErrorContext(r.Context(), "Unhandled error", "error", err, "url", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
