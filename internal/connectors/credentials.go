package connectors

import (
	"context"
	"log/slog"

	"github.com/baykus/baykus/internal/models"
)

// CredentialSource provides the active credentials stored for a connector.
// It is implemented by the database repositories.
type CredentialSource interface {
	ActiveAPIKeys(ctx context.Context, connectorID string) ([]models.APIKey, error)
	ActiveAuthCredentials(ctx context.Context, connectorID string) ([]models.AuthCredential, error)
}

// CredentialStore resolves credentials for adapters. Lookups never fail:
// storage errors are logged and treated as an empty credential set so a
// degraded database cannot take the whole adapter layer down with it.
type CredentialStore struct {
	source CredentialSource
	logger *slog.Logger
}

func NewCredentialStore(source CredentialSource, logger *slog.Logger) *CredentialStore {
	return &CredentialStore{source: source, logger: logger}
}

// KeysFor returns a name->key map of the connector's active API keys.
// Connectors that do not require an API key get an empty map without a
// storage round trip.
func (s *CredentialStore) KeysFor(ctx context.Context, conn *models.Connector) map[string]string {
	keys := map[string]string{}
	if conn == nil || !conn.RequiresAPIKey {
		return keys
	}
	records, err := s.source.ActiveAPIKeys(ctx, conn.ID)
	if err != nil {
		s.logger.Error("failed to load api keys", "connector_id", conn.ID, "error", err)
		return keys
	}
	for _, rec := range records {
		keys[rec.KeyName] = rec.KeyValue
	}
	return keys
}

// AuthFor returns the connector's active auth credentials grouped by auth
// type. Each group holds the credential payload fields (username, password,
// tokens and so on).
func (s *CredentialStore) AuthFor(ctx context.Context, conn *models.Connector) map[models.AuthType]map[string]string {
	auth := map[models.AuthType]map[string]string{}
	if conn == nil || !conn.RequiresAuth {
		return auth
	}
	records, err := s.source.ActiveAuthCredentials(ctx, conn.ID)
	if err != nil {
		s.logger.Error("failed to load auth credentials", "connector_id", conn.ID, "error", err)
		return auth
	}
	for _, rec := range records {
		if _, ok := auth[rec.AuthType]; ok {
			continue // first active credential per type wins
		}
		payload := make(map[string]string, len(rec.Credentials))
		for k, v := range rec.Credentials {
			payload[k] = v
		}
		auth[rec.AuthType] = payload
	}
	return auth
}
