package models

import (
	"fmt"
	"time"
)

// ConnectorType identifies the family of external service a connector talks to.
type ConnectorType string

const (
	ConnectorTypeSocialMedia    ConnectorType = "social_media"
	ConnectorTypeSearchEngine   ConnectorType = "search_engine"
	ConnectorTypeDomainInfo     ConnectorType = "domain_info"
	ConnectorTypeEmailVerify    ConnectorType = "email_verify"
	ConnectorTypePhoneAnalysis  ConnectorType = "phone_analysis"
	ConnectorTypePastebin       ConnectorType = "pastebin"
	ConnectorTypeUsernameSearch ConnectorType = "username_search"
	ConnectorTypeImageAnalysis  ConnectorType = "image_analysis"
	ConnectorTypeWebArchive     ConnectorType = "web_archive"
	ConnectorTypeOther          ConnectorType = "other"
)

// ValidConnectorTypes lists every accepted connector type.
var ValidConnectorTypes = []ConnectorType{
	ConnectorTypeSocialMedia,
	ConnectorTypeSearchEngine,
	ConnectorTypeDomainInfo,
	ConnectorTypeEmailVerify,
	ConnectorTypePhoneAnalysis,
	ConnectorTypePastebin,
	ConnectorTypeUsernameSearch,
	ConnectorTypeImageAnalysis,
	ConnectorTypeWebArchive,
	ConnectorTypeOther,
}

// ConnectorStatus is the operational state of a connector.
//
// rate_limited is only ever set by the transport when it observes a 429;
// a connector returns to active only through a successful connection test.
type ConnectorStatus string

const (
	ConnectorStatusActive      ConnectorStatus = "active"
	ConnectorStatusInactive    ConnectorStatus = "inactive"
	ConnectorStatusError       ConnectorStatus = "error"
	ConnectorStatusRateLimited ConnectorStatus = "rate_limited"
)

// Connector describes one external service integration.
type Connector struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Type             ConnectorType     `json:"connector_type"`
	Description      string            `json:"description"`
	BaseURL          string            `json:"base_url"`
	DocumentationURL string            `json:"documentation_url"`
	Status           ConnectorStatus   `json:"status"`
	RequiresAPIKey   bool              `json:"requires_api_key"`
	RequiresAuth     bool              `json:"requires_authentication"`
	Configuration    map[string]string `json:"configuration"` // endpoint templates, adapter key
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ConnectorSettings is the parsed, validated form of a connector's free-form
// configuration map. Every field has a default so an empty map is always valid.
type ConnectorSettings struct {
	AdapterKey string // which adapter variant to use within the connector type

	// Endpoint templates. Placeholders in braces are substituted by adapters.
	ProfileEndpoint     string // social: {username}
	SearchEndpoint      string // social / search engine / pastebin / username search
	ImageSearchEndpoint string // search engine image search
	DomainEndpoint      string // whois: {domain}
	DNSEndpoint         string // dns: {domain}, {record_type}
	CertEndpoint        string // ssl: {domain}
	VerifyEndpoint      string // email verification
	AnalyzeEndpoint     string // phone analysis
	PasteEndpoint       string // pastebin: {paste_id}
	PlatformEndpoint    string // username search: {platform}
	URLEndpoint         string // image analysis by URL
	FileEndpoint        string // image analysis by upload
	CompareEndpoint     string // image comparison
	CDXEndpoint         string // wayback CDX query
	TestEndpoint        string // generic connection-test endpoint
}

// settingDefaults maps configuration keys to their default endpoint templates.
var settingDefaults = map[string]string{
	"adapter_key":           "default",
	"profile_endpoint":      "users/{username}",
	"search_endpoint":       "search",
	"image_search_endpoint": "images",
	"domain_endpoint":       "domain/{domain}",
	"dns_endpoint":          "dns/{domain}/{record_type}",
	"cert_endpoint":         "cert/{domain}",
	"verify_endpoint":       "verify",
	"analyze_endpoint":      "analyze",
	"paste_endpoint":        "paste/{paste_id}",
	"platform_endpoint":     "check/{platform}",
	"url_endpoint":          "analyze",
	"file_endpoint":         "analyze",
	"compare_endpoint":      "compare",
	"cdx_endpoint":          "cdx/search",
	"test_endpoint":         "",
}

// ParseSettings reads a connector's configuration map into a ConnectorSettings
// struct, applying defaults for absent keys.
func ParseSettings(configuration map[string]string) ConnectorSettings {
	get := func(key string) string {
		if v, ok := configuration[key]; ok && v != "" {
			return v
		}
		return settingDefaults[key]
	}

	return ConnectorSettings{
		AdapterKey:          get("adapter_key"),
		ProfileEndpoint:     get("profile_endpoint"),
		SearchEndpoint:      get("search_endpoint"),
		ImageSearchEndpoint: get("image_search_endpoint"),
		DomainEndpoint:      get("domain_endpoint"),
		DNSEndpoint:         get("dns_endpoint"),
		CertEndpoint:        get("cert_endpoint"),
		VerifyEndpoint:      get("verify_endpoint"),
		AnalyzeEndpoint:     get("analyze_endpoint"),
		PasteEndpoint:       get("paste_endpoint"),
		PlatformEndpoint:    get("platform_endpoint"),
		URLEndpoint:         get("url_endpoint"),
		FileEndpoint:        get("file_endpoint"),
		CompareEndpoint:     get("compare_endpoint"),
		CDXEndpoint:         get("cdx_endpoint"),
		TestEndpoint:        get("test_endpoint"),
	}
}

// Settings returns the connector's parsed settings.
func (c *Connector) Settings() ConnectorSettings {
	return ParseSettings(c.Configuration)
}

// Validate checks the fields an operator supplies at creation time.
func (c *Connector) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("connector name is required")
	}

	typeValid := false
	for _, t := range ValidConnectorTypes {
		if c.Type == t {
			typeValid = true
			break
		}
	}
	if !typeValid {
		return fmt.Errorf("invalid connector type: %s", c.Type)
	}

	switch c.Status {
	case "", ConnectorStatusActive, ConnectorStatusInactive, ConnectorStatusError, ConnectorStatusRateLimited:
	default:
		return fmt.Errorf("invalid connector status: %s", c.Status)
	}

	return nil
}
