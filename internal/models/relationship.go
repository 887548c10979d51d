package models

import "time"

// RelationshipType classifies how two assets relate.
type RelationshipType string

const (
	RelationshipOwner      RelationshipType = "owner"
	RelationshipUser       RelationshipType = "user"
	RelationshipAdmin      RelationshipType = "admin"
	RelationshipAssociated RelationshipType = "associated"
	RelationshipSimilar    RelationshipType = "similar"
	RelationshipLinked     RelationshipType = "linked"
	RelationshipOther      RelationshipType = "other"
)

// Relationship links two assets with a typed edge and a confidence score.
type Relationship struct {
	ID            string           `json:"id"`
	SourceAssetID string           `json:"source_asset_id"`
	TargetAssetID string           `json:"target_asset_id"`
	Type          RelationshipType `json:"relationship_type"`
	Description   string           `json:"description"`
	Confidence    float64          `json:"confidence_score"`
	Evidence      string           `json:"evidence"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
