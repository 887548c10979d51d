package connectors

import (
	"context"
	"testing"
	"time"

	"github.com/baykus/baykus/internal/models"
)

func TestDomainAgeDays(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"rfc3339", "2025-01-01T00:00:00Z", intPtr(365)},
		{"datetime without zone", "2025-12-31T00:00:00", intPtr(1)},
		{"date only", "2024-01-02", intPtr(730)},
		{"unparseable", "January 1st 2020", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domainAgeDays(tt.input, now)
			if tt.want == nil {
				if got != nil {
					t.Errorf("domainAgeDays(%q) = %d, want nil", tt.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("domainAgeDays(%q) = nil, want %d", tt.input, *tt.want)
			}
			if *got != *tt.want {
				t.Errorf("domainAgeDays(%q) = %d, want %d", tt.input, *got, *tt.want)
			}
		})
	}
}

func intPtr(n int) *int { return &n }

func TestWhoisProcessData(t *testing.T) {
	conn := testConnector(models.ConnectorTypeDomainInfo,
		"https://api.example.com", map[string]string{"adapter_key": "whois"})
	adapter := newWhoisAdapter(testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))

	raw := map[string]any{
		"domain":          "example.com",
		"registrar":       map[string]any{"name": "Example Registrar"},
		"created_date":    "1995-08-14",
		"expiration_date": "2027-08-13",
		"status":          []any{"clientTransferProhibited"},
		"name_servers":    []any{"a.iana-servers.net", "b.iana-servers.net"},
		"registrant": map[string]any{
			"name":         "Jane Doe",
			"organization": "Example Org",
		},
	}

	result := adapter.ProcessData(raw)
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	info, ok := result.Data.(WhoisInfo)
	if !ok {
		t.Fatalf("unexpected data type %T", result.Data)
	}

	if info.Domain != "example.com" || info.Registrar != "Example Registrar" {
		t.Errorf("fields not mapped: %+v", info)
	}
	if info.DomainAgeDays == nil || *info.DomainAgeDays <= 0 {
		t.Error("expected positive domain age for a 1995 registration")
	}
	if info.Registrant == nil || info.Registrant.Name != "Jane Doe" {
		t.Errorf("registrant not mapped: %+v", info.Registrant)
	}
	if len(info.NameServers) != 2 {
		t.Errorf("name servers = %v", info.NameServers)
	}
}

func TestWhoisUnparseableDateYieldsNilAge(t *testing.T) {
	conn := testConnector(models.ConnectorTypeDomainInfo,
		"https://api.example.com", map[string]string{"adapter_key": "whois"})
	adapter := newWhoisAdapter(testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))

	result := adapter.ProcessData(map[string]any{
		"domain":       "example.com",
		"created_date": "a long time ago",
	})
	info := result.Data.(WhoisInfo)
	if info.DomainAgeDays != nil {
		t.Errorf("age = %d, want nil for unparseable date", *info.DomainAgeDays)
	}
	if info.RegisteredOn != "a long time ago" {
		t.Error("raw date string should still be carried through")
	}
}

func TestDomainAdapterValidation(t *testing.T) {
	conn := testConnector(models.ConnectorTypeDomainInfo,
		"https://api.example.com", map[string]string{"adapter_key": "dns"})
	adapter := newDNSAdapter(testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))

	for _, input := range []string{"", "not a domain", "no-tld"} {
		_, err := adapter.Search(context.Background(), input, SearchOptions{})
		if KindOf(err) != ErrValidation {
			t.Errorf("Search(%q): expected validation error, got %v", input, err)
		}
	}
}
