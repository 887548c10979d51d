package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/baykus/baykus/internal/models"
)

// TargetRepository manages investigation targets.
type TargetRepository struct {
	db *sql.DB
}

// NewTargetRepository creates a new repository for targets.
func NewTargetRepository(db *sql.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

const targetColumns = `id, name, slug, target_type, description, tags, is_active, created_at, updated_at`

// Create inserts a new target, deriving the slug from the name when unset.
func (r *TargetRepository) Create(ctx context.Context, target *models.Target) error {
	if target.Slug == "" {
		target.Slug = models.Slugify(target.Name)
	}
	now := time.Now()
	target.CreatedAt = now
	target.UpdatedAt = now

	query := `
		INSERT INTO targets (` + targetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		target.ID, target.Name, target.Slug, target.Type, target.Description,
		pq.Array(target.Tags), target.IsActive, target.CreatedAt, target.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create target: %w", err)
	}
	return nil
}

func scanTarget(row interface{ Scan(...any) error }) (*models.Target, error) {
	target := &models.Target{}
	err := row.Scan(
		&target.ID, &target.Name, &target.Slug, &target.Type, &target.Description,
		pq.Array(&target.Tags), &target.IsActive, &target.CreatedAt, &target.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Get retrieves a target by ID.
func (r *TargetRepository) Get(ctx context.Context, id string) (*models.Target, error) {
	query := `SELECT ` + targetColumns + ` FROM targets WHERE id = $1`
	target, err := scanTarget(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("target not found: %s: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get target: %w", err)
	}
	return target, nil
}

// List retrieves all targets, newest first.
func (r *TargetRepository) List(ctx context.Context) ([]models.Target, error) {
	query := `SELECT ` + targetColumns + ` FROM targets ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	var targets []models.Target
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, *target)
	}
	return targets, rows.Err()
}

// Update replaces the mutable fields of a target.
func (r *TargetRepository) Update(ctx context.Context, target *models.Target) error {
	if target.Slug == "" {
		target.Slug = models.Slugify(target.Name)
	}
	target.UpdatedAt = time.Now()

	query := `
		UPDATE targets
		SET name = $1, slug = $2, target_type = $3, description = $4, tags = $5,
			is_active = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		target.Name, target.Slug, target.Type, target.Description,
		pq.Array(target.Tags), target.IsActive, target.UpdatedAt, target.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update target: %w", err)
	}
	return requireRow(result, "target", target.ID)
}

// Delete removes a target. Assets, alerts, and reports cascade via foreign
// keys.
func (r *TargetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM targets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	return requireRow(result, "target", id)
}
