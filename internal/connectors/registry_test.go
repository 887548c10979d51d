package connectors

import (
	"context"
	"testing"

	"github.com/baykus/baykus/internal/models"
)

func buildViaLookup(t *testing.T, r *Registry, connectorType models.ConnectorType, key string) Adapter {
	t.Helper()
	factory, err := r.Lookup(connectorType, key)
	if err != nil {
		t.Fatalf("Lookup(%s, %q): %v", connectorType, key, err)
	}
	conn := testConnector(connectorType, "https://api.example.com", nil)
	return factory(testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name          string
		connectorType models.ConnectorType
		key           string
		wantService   string
	}{
		{"exact key", models.ConnectorTypeSocialMedia, "reddit", "reddit"},
		{"default key fallback", models.ConnectorTypeEmailVerify, "no-such-adapter", "email_verify"},
		{"lexicographic fallback", models.ConnectorTypeSocialMedia, "no-such-adapter", "facebook"},
		{"lexicographic fallback search", models.ConnectorTypeSearchEngine, "yandex", "bing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := buildViaLookup(t, r, tt.connectorType, tt.key)
			if adapter.Service() != tt.wantService {
				t.Errorf("resolved %q, want %q", adapter.Service(), tt.wantService)
			}
		})
	}
}

func TestRegistryLookupDeterministic(t *testing.T) {
	r := NewRegistry()
	first := buildViaLookup(t, r, models.ConnectorTypeImageAnalysis, "unknown")
	for i := 0; i < 10; i++ {
		again := buildViaLookup(t, r, models.ConnectorTypeImageAnalysis, "unknown")
		if again.Service() != first.Service() {
			t.Fatalf("lookup flapped: %q then %q", first.Service(), again.Service())
		}
	}
}

func TestRegistryLookupUnknownType(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup(models.ConnectorTypeOther, "anything")
	if KindOf(err) != ErrAdapterNotFound {
		t.Fatalf("expected adapter_not_found, got %v", err)
	}
}

func TestResolverUsesAdapterKeySetting(t *testing.T) {
	registry := NewRegistry()
	transport := NewTransport(&fakeStatusWriter{}, testLogger())
	store := NewCredentialStore(&fakeCredentialSource{}, testLogger())
	resolver := NewResolver(registry, transport, store, testLogger())

	conn := testConnector(models.ConnectorTypeSocialMedia, "https://api.example.com",
		map[string]string{"adapter_key": "instagram"})

	adapter, err := resolver.AdapterFor(context.Background(), conn)
	if err != nil {
		t.Fatalf("AdapterFor: %v", err)
	}
	if adapter.Service() != "instagram" {
		t.Errorf("resolved %q, want instagram", adapter.Service())
	}
}
