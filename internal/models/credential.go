package models

import "time"

// APIKey is a named key/value credential belonging to one connector.
// Keys are deactivated on rotation, never deleted, so request history stays
// attributable.
type APIKey struct {
	ID          string    `json:"id"`
	ConnectorID string    `json:"connector_id"`
	KeyName     string    `json:"key_name"`
	KeyValue    string    `json:"key_value"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthType identifies an authentication scheme stored in an AuthCredential.
type AuthType string

const (
	AuthTypeBasic  AuthType = "basic"
	AuthTypeOAuth1 AuthType = "oauth1"
	AuthTypeOAuth2 AuthType = "oauth2"
	AuthTypeToken  AuthType = "token"
	AuthTypeCookie AuthType = "cookie"
	AuthTypeOther  AuthType = "other"
)

// AuthCredential is an opaque credential blob for one auth scheme on one
// connector. At most one active credential per (connector, auth type).
type AuthCredential struct {
	ID          string            `json:"id"`
	ConnectorID string            `json:"connector_id"`
	AuthType    AuthType          `json:"auth_type"`
	Credentials map[string]string `json:"credentials"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
