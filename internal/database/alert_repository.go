package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/baykus/baykus/internal/models"
)

// AlertRepository manages alerts raised on monitored assets.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new repository for alerts.
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

const alertColumns = `id, target_id, asset_id, title, description, severity, status,
	previous_value, current_value, created_at, updated_at, acknowledged_at`

// Create inserts a new alert in the new state.
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	now := time.Now()
	alert.CreatedAt = now
	alert.UpdatedAt = now
	if alert.Status == "" {
		alert.Status = models.AlertStatusNew
	}

	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		alert.ID, alert.TargetID, nullIfEmpty(alert.AssetID), alert.Title, alert.Description,
		alert.Severity, alert.Status, alert.PreviousValue, alert.CurrentValue,
		alert.CreatedAt, alert.UpdatedAt, alert.AcknowledgedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func scanAlert(row interface{ Scan(...any) error }) (*models.Alert, error) {
	alert := &models.Alert{}
	var assetID sql.NullString

	err := row.Scan(
		&alert.ID, &alert.TargetID, &assetID, &alert.Title, &alert.Description,
		&alert.Severity, &alert.Status, &alert.PreviousValue, &alert.CurrentValue,
		&alert.CreatedAt, &alert.UpdatedAt, &alert.AcknowledgedAt,
	)
	if err != nil {
		return nil, err
	}
	alert.AssetID = assetID.String
	return alert, nil
}

// Get retrieves an alert by ID.
func (r *AlertRepository) Get(ctx context.Context, id string) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	alert, err := scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("alert not found: %s: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return alert, nil
}

// ListByTarget retrieves the alerts for a target, newest first, optionally
// filtered by status.
func (r *AlertRepository) ListByTarget(ctx context.Context, targetID string, status models.AlertStatus) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE target_id = $1`
	args := []any{targetID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *alert)
	}
	return alerts, rows.Err()
}

// UpdateStatus moves an alert through its triage lifecycle. Entering the
// acknowledged state stamps acknowledged_at.
func (r *AlertRepository) UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error {
	now := time.Now()
	var acknowledgedAt *time.Time
	if status == models.AlertStatusAcknowledged {
		acknowledgedAt = &now
	}

	query := `
		UPDATE alerts
		SET status = $1, updated_at = $2,
			acknowledged_at = COALESCE($3, acknowledged_at)
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, now, acknowledgedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update alert status: %w", err)
	}
	return requireRow(result, "alert", id)
}

// Delete removes an alert.
func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	return requireRow(result, "alert", id)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
