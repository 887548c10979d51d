package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/baykus/baykus/internal/models"
)

// ConnectorRepository manages connector rows.
type ConnectorRepository struct {
	db *sql.DB
}

// NewConnectorRepository creates a new repository for connectors.
func NewConnectorRepository(db *sql.DB) *ConnectorRepository {
	return &ConnectorRepository{db: db}
}

const connectorColumns = `id, name, connector_type, description, base_url, documentation_url,
	status, requires_api_key, requires_authentication, configuration, created_at, updated_at`

func scanConnector(row interface{ Scan(...any) error }) (*models.Connector, error) {
	conn := &models.Connector{}
	var configJSON []byte

	err := row.Scan(
		&conn.ID,
		&conn.Name,
		&conn.Type,
		&conn.Description,
		&conn.BaseURL,
		&conn.DocumentationURL,
		&conn.Status,
		&conn.RequiresAPIKey,
		&conn.RequiresAuth,
		&configJSON,
		&conn.CreatedAt,
		&conn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &conn.Configuration); err != nil {
			return nil, fmt.Errorf("failed to parse connector configuration: %w", err)
		}
	}
	if conn.Configuration == nil {
		conn.Configuration = map[string]string{}
	}
	return conn, nil
}

// Create inserts a new connector.
func (r *ConnectorRepository) Create(ctx context.Context, conn *models.Connector) error {
	configJSON, err := json.Marshal(conn.Configuration)
	if err != nil {
		return fmt.Errorf("failed to marshal connector configuration: %w", err)
	}

	now := time.Now()
	conn.CreatedAt = now
	conn.UpdatedAt = now
	if conn.Status == "" {
		conn.Status = models.ConnectorStatusInactive
	}

	query := `
		INSERT INTO connectors (` + connectorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.ExecContext(ctx, query,
		conn.ID, conn.Name, conn.Type, conn.Description, conn.BaseURL, conn.DocumentationURL,
		conn.Status, conn.RequiresAPIKey, conn.RequiresAuth, configJSON, conn.CreatedAt, conn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create connector: %w", err)
	}
	return nil
}

// GetConnector retrieves a connector by ID. A missing row is reported with
// an error wrapping sql.ErrNoRows.
func (r *ConnectorRepository) GetConnector(ctx context.Context, id string) (*models.Connector, error) {
	query := `SELECT ` + connectorColumns + ` FROM connectors WHERE id = $1`

	conn, err := scanConnector(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("connector not found: %s: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connector: %w", err)
	}
	return conn, nil
}

// List retrieves connectors, optionally filtered by type and status.
func (r *ConnectorRepository) List(ctx context.Context, connectorType, status string) ([]models.Connector, error) {
	query := `SELECT ` + connectorColumns + ` FROM connectors`
	var args []any
	argCount := 0

	where := ""
	if connectorType != "" {
		argCount++
		where = fmt.Sprintf(" WHERE connector_type = $%d", argCount)
		args = append(args, connectorType)
	}
	if status != "" {
		argCount++
		if where == "" {
			where = fmt.Sprintf(" WHERE status = $%d", argCount)
		} else {
			where += fmt.Sprintf(" AND status = $%d", argCount)
		}
		args = append(args, status)
	}
	query += where + " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query connectors: %w", err)
	}
	defer rows.Close()

	var connectors []models.Connector
	for rows.Next() {
		conn, err := scanConnector(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connector: %w", err)
		}
		connectors = append(connectors, *conn)
	}
	return connectors, rows.Err()
}

// Update replaces the mutable fields of a connector.
func (r *ConnectorRepository) Update(ctx context.Context, conn *models.Connector) error {
	configJSON, err := json.Marshal(conn.Configuration)
	if err != nil {
		return fmt.Errorf("failed to marshal connector configuration: %w", err)
	}
	conn.UpdatedAt = time.Now()

	query := `
		UPDATE connectors
		SET name = $1, connector_type = $2, description = $3, base_url = $4,
			documentation_url = $5, status = $6, requires_api_key = $7,
			requires_authentication = $8, configuration = $9, updated_at = $10
		WHERE id = $11
	`
	result, err := r.db.ExecContext(ctx, query,
		conn.Name, conn.Type, conn.Description, conn.BaseURL,
		conn.DocumentationURL, conn.Status, conn.RequiresAPIKey,
		conn.RequiresAuth, configJSON, conn.UpdatedAt, conn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update connector: %w", err)
	}
	return requireRow(result, "connector", conn.ID)
}

// UpdateConnectorStatus updates only the status column, leaving the rest of
// the row untouched.
func (r *ConnectorRepository) UpdateConnectorStatus(ctx context.Context, id string, status models.ConnectorStatus) error {
	query := `UPDATE connectors SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update connector status: %w", err)
	}
	return requireRow(result, "connector", id)
}

// Delete removes a connector. Credentials and request history cascade via
// foreign keys.
func (r *ConnectorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM connectors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete connector: %w", err)
	}
	return requireRow(result, "connector", id)
}

// requireRow converts a zero-row update into a not-found error wrapping
// sql.ErrNoRows.
func requireRow(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found: %s: %w", entity, id, sql.ErrNoRows)
	}
	return nil
}
