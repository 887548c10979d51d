package models

import (
	"strings"
	"time"
	"unicode"
)

// TargetType classifies what kind of entity an investigation focuses on.
type TargetType string

const (
	TargetTypePerson       TargetType = "person"
	TargetTypeOrganization TargetType = "organization"
	TargetTypeDomain       TargetType = "domain"
	TargetTypeIP           TargetType = "ip"
	TargetTypeOther        TargetType = "other"
)

// Target is the focus of an OSINT investigation: a person, organization,
// domain or IP address.
type Target struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Type        TargetType `json:"target_type"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Slugify converts a target name into a URL-safe slug: lowercase,
// alphanumeric runs joined by single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
