package models

import "testing"

func TestParseSettingsDefaults(t *testing.T) {
	settings := ParseSettings(nil)

	if settings.AdapterKey != "default" {
		t.Errorf("AdapterKey = %q, want %q", settings.AdapterKey, "default")
	}
	if settings.ProfileEndpoint != "users/{username}" {
		t.Errorf("ProfileEndpoint = %q", settings.ProfileEndpoint)
	}
	if settings.CDXEndpoint != "cdx/search" {
		t.Errorf("CDXEndpoint = %q", settings.CDXEndpoint)
	}
	if settings.TestEndpoint != "" {
		t.Errorf("TestEndpoint = %q, want empty", settings.TestEndpoint)
	}
}

func TestParseSettingsOverrides(t *testing.T) {
	settings := ParseSettings(map[string]string{
		"adapter_key":     "twitter",
		"search_endpoint": "1.1/search/tweets.json",
		"dns_endpoint":    "", // empty values fall back to the default
	})

	if settings.AdapterKey != "twitter" {
		t.Errorf("AdapterKey = %q", settings.AdapterKey)
	}
	if settings.SearchEndpoint != "1.1/search/tweets.json" {
		t.Errorf("SearchEndpoint = %q", settings.SearchEndpoint)
	}
	if settings.DNSEndpoint != "dns/{domain}/{record_type}" {
		t.Errorf("DNSEndpoint = %q", settings.DNSEndpoint)
	}
}

func TestConnectorValidate(t *testing.T) {
	tests := []struct {
		name    string
		conn    Connector
		wantErr bool
	}{
		{"valid", Connector{Name: "twitter", Type: ConnectorTypeSocialMedia}, false},
		{"valid with status", Connector{Name: "t", Type: ConnectorTypeWebArchive, Status: ConnectorStatusRateLimited}, false},
		{"missing name", Connector{Type: ConnectorTypeSocialMedia}, true},
		{"bad type", Connector{Name: "t", Type: "telepathy"}, true},
		{"empty type", Connector{Name: "t"}, true},
		{"bad status", Connector{Name: "t", Type: ConnectorTypeOther, Status: "sleeping"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conn.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
