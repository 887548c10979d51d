package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/baykus/baykus/internal/connectors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeServiceError maps connector errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := connectors.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case connectors.ErrValidation:
		status = http.StatusBadRequest
	case connectors.ErrNotFound, connectors.ErrAdapterNotFound:
		status = http.StatusNotFound
	case connectors.ErrRateLimited:
		status = http.StatusTooManyRequests
	case connectors.ErrUnsupported:
		status = http.StatusUnprocessableEntity
	case connectors.ErrNetwork, connectors.ErrAPI:
		status = http.StatusBadGateway
	}

	if errors.Is(err, sql.ErrNoRows) {
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "Internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}

// writeRepoError reports repository failures, translating missing rows to 404.
func writeRepoError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

// pathID extracts the path segment following prefix, e.g. the connector ID
// from /api/connectors/{id}/test. Returns empty string when absent.
func pathID(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}
