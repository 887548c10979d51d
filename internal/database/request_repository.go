package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/baykus/baykus/internal/models"
)

// RequestRepository manages the audit trail of upstream requests.
type RequestRepository struct {
	db *sql.DB
}

// NewRequestRepository creates a new repository for request records.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `id, connector_id, endpoint, method, params, headers, body,
	status_code, response_data, error_message, status, request_time, response_time, duration_ms`

// CreateRequest inserts a pending request record.
func (r *RequestRepository) CreateRequest(ctx context.Context, rec *models.RequestRecord) error {
	params, err := json.Marshal(rec.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal request params: %w", err)
	}
	headers, err := json.Marshal(rec.Headers)
	if err != nil {
		return fmt.Errorf("failed to marshal request headers: %w", err)
	}

	query := `
		INSERT INTO connector_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.ConnectorID, rec.Endpoint, rec.Method, params, headers, rec.Body,
		rec.StatusCode, rec.ResponseData, rec.ErrorMessage, rec.Status,
		rec.RequestTime, rec.ResponseTime, rec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to create request record: %w", err)
	}
	return nil
}

// FinalizeRequest writes the outcome of a completed request.
func (r *RequestRepository) FinalizeRequest(ctx context.Context, rec *models.RequestRecord) error {
	query := `
		UPDATE connector_requests
		SET status_code = $1, response_data = $2, error_message = $3, status = $4,
			response_time = $5, duration_ms = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.StatusCode, rec.ResponseData, rec.ErrorMessage, rec.Status,
		rec.ResponseTime, rec.DurationMS, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize request record: %w", err)
	}
	return requireRow(result, "request record", rec.ID)
}

func scanRequest(rows *sql.Rows) (*models.RequestRecord, error) {
	rec := &models.RequestRecord{}
	var params, headers []byte

	err := rows.Scan(
		&rec.ID, &rec.ConnectorID, &rec.Endpoint, &rec.Method, &params, &headers, &rec.Body,
		&rec.StatusCode, &rec.ResponseData, &rec.ErrorMessage, &rec.Status,
		&rec.RequestTime, &rec.ResponseTime, &rec.DurationMS,
	)
	if err != nil {
		return nil, err
	}

	if len(params) > 0 {
		if err := json.Unmarshal(params, &rec.Params); err != nil {
			return nil, fmt.Errorf("failed to parse request params: %w", err)
		}
	}
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &rec.Headers); err != nil {
			return nil, fmt.Errorf("failed to parse request headers: %w", err)
		}
	}
	return rec, nil
}

// ListByConnector retrieves the most recent request records for a
// connector, newest first, capped at limit.
func (r *RequestRepository) ListByConnector(ctx context.Context, connectorID string, limit int) ([]models.RequestRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	query := `
		SELECT ` + requestColumns + `
		FROM connector_requests
		WHERE connector_id = $1
		ORDER BY request_time DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, connectorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query request records: %w", err)
	}
	defer rows.Close()

	var records []models.RequestRecord
	for rows.Next() {
		rec, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
