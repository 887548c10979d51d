package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/baykus/baykus/internal/models"
)

// CredentialRepository manages API keys and auth credentials. It backs the
// connector layer's credential store.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new repository for credentials.
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// CreateAPIKey inserts a new API key.
func (r *CredentialRepository) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	now := time.Now()
	key.CreatedAt = now
	key.UpdatedAt = now

	query := `
		INSERT INTO api_keys (id, connector_id, key_name, key_value, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		key.ID, key.ConnectorID, key.KeyName, key.KeyValue, key.IsActive, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ListAPIKeys retrieves all API keys for a connector.
func (r *CredentialRepository) ListAPIKeys(ctx context.Context, connectorID string) ([]models.APIKey, error) {
	query := `
		SELECT id, connector_id, key_name, key_value, is_active, created_at, updated_at
		FROM api_keys
		WHERE connector_id = $1
		ORDER BY key_name
	`
	rows, err := r.db.QueryContext(ctx, query, connectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query api keys: %w", err)
	}
	defer rows.Close()

	var keys []models.APIKey
	for rows.Next() {
		var key models.APIKey
		if err := rows.Scan(&key.ID, &key.ConnectorID, &key.KeyName, &key.KeyValue,
			&key.IsActive, &key.CreatedAt, &key.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// ActiveAPIKeys retrieves only the active API keys for a connector.
func (r *CredentialRepository) ActiveAPIKeys(ctx context.Context, connectorID string) ([]models.APIKey, error) {
	keys, err := r.ListAPIKeys(ctx, connectorID)
	if err != nil {
		return nil, err
	}
	active := keys[:0]
	for _, key := range keys {
		if key.IsActive {
			active = append(active, key)
		}
	}
	return active, nil
}

// SetAPIKeyActive toggles an API key without deleting it.
func (r *CredentialRepository) SetAPIKeyActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE api_keys SET is_active = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update api key: %w", err)
	}
	return requireRow(result, "api key", id)
}

// DeleteAPIKey removes an API key.
func (r *CredentialRepository) DeleteAPIKey(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}
	return requireRow(result, "api key", id)
}

// CreateAuthCredential inserts a new auth credential.
func (r *CredentialRepository) CreateAuthCredential(ctx context.Context, cred *models.AuthCredential) error {
	payload, err := json.Marshal(cred.Credentials)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	now := time.Now()
	cred.CreatedAt = now
	cred.UpdatedAt = now

	query := `
		INSERT INTO auth_credentials (id, connector_id, auth_type, credentials, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		cred.ID, cred.ConnectorID, cred.AuthType, payload, cred.IsActive, cred.CreatedAt, cred.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create auth credential: %w", err)
	}
	return nil
}

// ListAuthCredentials retrieves all auth credentials for a connector.
func (r *CredentialRepository) ListAuthCredentials(ctx context.Context, connectorID string) ([]models.AuthCredential, error) {
	query := `
		SELECT id, connector_id, auth_type, credentials, is_active, created_at, updated_at
		FROM auth_credentials
		WHERE connector_id = $1
		ORDER BY auth_type, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, connectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query auth credentials: %w", err)
	}
	defer rows.Close()

	var creds []models.AuthCredential
	for rows.Next() {
		var cred models.AuthCredential
		var payload []byte
		if err := rows.Scan(&cred.ID, &cred.ConnectorID, &cred.AuthType, &payload,
			&cred.IsActive, &cred.CreatedAt, &cred.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan auth credential: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &cred.Credentials); err != nil {
				return nil, fmt.Errorf("failed to parse auth credential: %w", err)
			}
		}
		creds = append(creds, cred)
	}
	return creds, rows.Err()
}

// ActiveAuthCredentials retrieves only the active auth credentials for a
// connector.
func (r *CredentialRepository) ActiveAuthCredentials(ctx context.Context, connectorID string) ([]models.AuthCredential, error) {
	creds, err := r.ListAuthCredentials(ctx, connectorID)
	if err != nil {
		return nil, err
	}
	active := creds[:0]
	for _, cred := range creds {
		if cred.IsActive {
			active = append(active, cred)
		}
	}
	return active, nil
}

// DeleteAuthCredential removes an auth credential.
func (r *CredentialRepository) DeleteAuthCredential(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_credentials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete auth credential: %w", err)
	}
	return requireRow(result, "auth credential", id)
}
