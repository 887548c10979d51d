package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/baykus/baykus/internal/models"
)

// AssetRepository manages discovered assets.
type AssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new repository for assets.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, target_id, asset_type, name, value, description, source,
	confidence_score, tags, is_verified, created_at, updated_at`

// Create inserts a new asset.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	now := time.Now()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		asset.ID, asset.TargetID, asset.AssetType, asset.Name, asset.Value,
		asset.Description, asset.Source, asset.Confidence, pq.Array(asset.Tags),
		asset.IsVerified, asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func scanAsset(row interface{ Scan(...any) error }) (*models.Asset, error) {
	asset := &models.Asset{}
	err := row.Scan(
		&asset.ID, &asset.TargetID, &asset.AssetType, &asset.Name, &asset.Value,
		&asset.Description, &asset.Source, &asset.Confidence, pq.Array(&asset.Tags),
		&asset.IsVerified, &asset.CreatedAt, &asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// Get retrieves an asset by ID.
func (r *AssetRepository) Get(ctx context.Context, id string) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("asset not found: %s: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

// ListByTarget retrieves all assets discovered for a target.
func (r *AssetRepository) ListByTarget(ctx context.Context, targetID string) ([]models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE target_id = $1 ORDER BY asset_type, value`
	rows, err := r.db.QueryContext(ctx, query, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

// Update replaces the mutable fields of an asset.
func (r *AssetRepository) Update(ctx context.Context, asset *models.Asset) error {
	asset.UpdatedAt = time.Now()

	query := `
		UPDATE assets
		SET asset_type = $1, name = $2, value = $3, description = $4, source = $5,
			confidence_score = $6, tags = $7, is_verified = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		asset.AssetType, asset.Name, asset.Value, asset.Description, asset.Source,
		asset.Confidence, pq.Array(asset.Tags), asset.IsVerified, asset.UpdatedAt, asset.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return requireRow(result, "asset", asset.ID)
}

// Delete removes an asset. Relationships referencing it cascade via foreign
// keys.
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return requireRow(result, "asset", id)
}
