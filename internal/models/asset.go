package models

import "time"

// Asset is a digital footprint discovered for a target: an email address, a
// social profile, a subdomain, an exposed document and so on. The value plus
// asset type is unique per target.
type Asset struct {
	ID          string   `json:"id"`
	TargetID    string   `json:"target_id"`
	AssetType   string   `json:"asset_type"` // email, username, domain, profile, image, paste, ...
	Name        string   `json:"name"`
	Value       string   `json:"value"`
	Description string   `json:"description"`
	Source      string   `json:"source"` // connector or service that discovered it
	Confidence  float64  `json:"confidence_score"`
	Tags        []string `json:"tags"`
	IsVerified  bool     `json:"is_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
