package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/baykus/baykus/internal/models"
)

// ReportRepository manages generated reports.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new repository for reports.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, target_id, name, report_type, format_type, content, created_at`

// Create inserts a generated report.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	report.CreatedAt = time.Now()

	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.TargetID, report.Name, report.Type, report.Format,
		report.Content, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// Get retrieves a report by ID.
func (r *ReportRepository) Get(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report := &models.Report{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID, &report.TargetID, &report.Name, &report.Type, &report.Format,
		&report.Content, &report.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found: %s: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// ListByTarget retrieves all reports generated for a target, newest first.
func (r *ReportRepository) ListByTarget(ctx context.Context, targetID string) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE target_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(&report.ID, &report.TargetID, &report.Name, &report.Type,
			&report.Format, &report.Content, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
