package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/baykus/baykus/internal/models"
)

// RelationshipRepository manages typed edges between assets.
type RelationshipRepository struct {
	db *sql.DB
}

// NewRelationshipRepository creates a new repository for relationships.
func NewRelationshipRepository(db *sql.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

const relationshipColumns = `id, source_asset_id, target_asset_id, relationship_type,
	description, confidence_score, evidence, created_at, updated_at`

// Create inserts a new relationship.
func (r *RelationshipRepository) Create(ctx context.Context, rel *models.Relationship) error {
	now := time.Now()
	rel.CreatedAt = now
	rel.UpdatedAt = now

	query := `
		INSERT INTO relationships (` + relationshipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		rel.ID, rel.SourceAssetID, rel.TargetAssetID, rel.Type,
		rel.Description, rel.Confidence, rel.Evidence, rel.CreatedAt, rel.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create relationship: %w", err)
	}
	return nil
}

func scanRelationship(row interface{ Scan(...any) error }) (*models.Relationship, error) {
	rel := &models.Relationship{}
	err := row.Scan(
		&rel.ID, &rel.SourceAssetID, &rel.TargetAssetID, &rel.Type,
		&rel.Description, &rel.Confidence, &rel.Evidence, &rel.CreatedAt, &rel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// Get retrieves a relationship by ID.
func (r *RelationshipRepository) Get(ctx context.Context, id string) (*models.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE id = $1`
	rel, err := scanRelationship(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("relationship not found: %s: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get relationship: %w", err)
	}
	return rel, nil
}

// ListByAsset retrieves every relationship an asset participates in, on
// either end of the edge.
func (r *RelationshipRepository) ListByAsset(ctx context.Context, assetID string) ([]models.Relationship, error) {
	query := `
		SELECT ` + relationshipColumns + `
		FROM relationships
		WHERE source_asset_id = $1 OR target_asset_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query relationships: %w", err)
	}
	defer rows.Close()

	var rels []models.Relationship
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		rels = append(rels, *rel)
	}
	return rels, rows.Err()
}

// Delete removes a relationship.
func (r *RelationshipRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	return requireRow(result, "relationship", id)
}
