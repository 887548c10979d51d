package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/google/uuid"

	"github.com/baykus/baykus/internal/database"
	"github.com/baykus/baykus/internal/models"
)

// CredentialHandler manages API keys and auth credentials for connectors.
// Key values are accepted on write but redacted on every read.
type CredentialHandler struct {
	repo   *database.CredentialRepository
	logger *slog.Logger
}

func NewCredentialHandler(repo *database.CredentialRepository, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{repo: repo, logger: logger}
}

const redactedValue = "********"

func redactAPIKeys(keys []models.APIKey) []models.APIKey {
	out := make([]models.APIKey, len(keys))
	for i, k := range keys {
		k.KeyValue = redactedValue
		out[i] = k
	}
	return out
}

func redactCredentials(creds []models.AuthCredential) []models.AuthCredential {
	out := make([]models.AuthCredential, len(creds))
	for i, c := range creds {
		redacted := make(map[string]string, len(c.Credentials))
		for name := range c.Credentials {
			redacted[name] = redactedValue
		}
		c.Credentials = redacted
		out[i] = c
	}
	return out
}

// ListAPIKeys handles GET /api/connectors/{id}/keys.
func (h *CredentialHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	connectorID := pathID(r.URL.Path, "/api/connectors/")
	keys, err := h.repo.ListAPIKeys(r.Context(), connectorID)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"api_keys": redactAPIKeys(keys), "count": len(keys)})
}

// CreateAPIKey handles POST /api/connectors/{id}/keys.
func (h *CredentialHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	connectorID := pathID(r.URL.Path, "/api/connectors/")

	var key models.APIKey
	if err := json.NewDecoder(r.Body).Decode(&key); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if key.KeyName == "" || key.KeyValue == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "key_name and key_value are required"})
		return
	}

	key.ID = uuid.New().String()
	key.ConnectorID = connectorID
	key.IsActive = true
	if err := h.repo.CreateAPIKey(r.Context(), &key); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}

	h.logger.Info("api key created", "connector_id", connectorID, "key_name", key.KeyName)
	key.KeyValue = redactedValue
	writeJSON(w, http.StatusCreated, key)
}

type apiKeyUpdate struct {
	IsActive bool `json:"is_active"`
}

// UpdateAPIKey handles PUT /api/keys/{id}, toggling active state. Rotation
// deactivates the old key and creates a new one; values are never edited.
func (h *CredentialHandler) UpdateAPIKey(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/keys/")
	if id == "" {
		http.Error(w, "Key ID required", http.StatusBadRequest)
		return
	}

	var req apiKeyUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.SetAPIKeyActive(r.Context(), id, req.IsActive); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": req.IsActive})
}

// DeleteAPIKey handles DELETE /api/keys/{id}.
func (h *CredentialHandler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/keys/")
	if id == "" {
		http.Error(w, "Key ID required", http.StatusBadRequest)
		return
	}
	if err := h.repo.DeleteAPIKey(r.Context(), id); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAuthCredentials handles GET /api/connectors/{id}/credentials.
func (h *CredentialHandler) ListAuthCredentials(w http.ResponseWriter, r *http.Request) {
	connectorID := pathID(r.URL.Path, "/api/connectors/")
	creds, err := h.repo.ListAuthCredentials(r.Context(), connectorID)
	if err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"credentials": redactCredentials(creds), "count": len(creds)})
}

// CreateAuthCredential handles POST /api/connectors/{id}/credentials.
func (h *CredentialHandler) CreateAuthCredential(w http.ResponseWriter, r *http.Request) {
	connectorID := pathID(r.URL.Path, "/api/connectors/")

	var cred models.AuthCredential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if cred.AuthType == "" || len(cred.Credentials) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "auth_type and credentials are required"})
		return
	}

	cred.ID = uuid.New().String()
	cred.ConnectorID = connectorID
	cred.IsActive = true
	if err := h.repo.CreateAuthCredential(r.Context(), &cred); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}

	h.logger.Info("auth credential created", "connector_id", connectorID, "auth_type", cred.AuthType)
	for name := range cred.Credentials {
		cred.Credentials[name] = redactedValue
	}
	writeJSON(w, http.StatusCreated, cred)
}

// DeleteAuthCredential handles DELETE /api/credentials/{id}.
func (h *CredentialHandler) DeleteAuthCredential(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/credentials/")
	if id == "" {
		http.Error(w, "Credential ID required", http.StatusBadRequest)
		return
	}
	if err := h.repo.DeleteAuthCredential(r.Context(), id); err != nil {
		writeRepoError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
