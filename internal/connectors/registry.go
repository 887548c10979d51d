package connectors

import (
	"context"
	"log/slog"
	"sort"

	"github.com/baykus/baykus/internal/models"
)

// defaultAdapterKey is the fallback adapter key within a connector type.
const defaultAdapterKey = "default"

// Registry maps (connector type, adapter key) pairs to adapter factories.
type Registry struct {
	entries map[models.ConnectorType]map[string]Factory
}

// NewRegistry returns a registry preloaded with every built-in adapter.
func NewRegistry() *Registry {
	r := &Registry{entries: map[models.ConnectorType]map[string]Factory{}}

	r.Register(models.ConnectorTypeSocialMedia, "twitter", newTwitterAdapter)
	r.Register(models.ConnectorTypeSocialMedia, "facebook", newFacebookAdapter)
	r.Register(models.ConnectorTypeSocialMedia, "linkedin", newLinkedInAdapter)
	r.Register(models.ConnectorTypeSocialMedia, "instagram", newInstagramAdapter)
	r.Register(models.ConnectorTypeSocialMedia, "reddit", newRedditAdapter)

	r.Register(models.ConnectorTypeSearchEngine, "google", newGoogleAdapter)
	r.Register(models.ConnectorTypeSearchEngine, "bing", newBingAdapter)
	r.Register(models.ConnectorTypeSearchEngine, "duckduckgo", newDuckDuckGoAdapter)

	r.Register(models.ConnectorTypeDomainInfo, "whois", newWhoisAdapter)
	r.Register(models.ConnectorTypeDomainInfo, "dns", newDNSAdapter)
	r.Register(models.ConnectorTypeDomainInfo, "ssl", newSSLAdapter)

	r.Register(models.ConnectorTypeEmailVerify, defaultAdapterKey, newEmailVerificationAdapter)
	r.Register(models.ConnectorTypePhoneAnalysis, defaultAdapterKey, newPhoneAnalysisAdapter)
	r.Register(models.ConnectorTypePastebin, defaultAdapterKey, newPastebinAdapter)
	r.Register(models.ConnectorTypeUsernameSearch, defaultAdapterKey, newUsernameSearchAdapter)

	r.Register(models.ConnectorTypeImageAnalysis, "exif", newExifAdapter)
	r.Register(models.ConnectorTypeImageAnalysis, "reverse_search", newReverseImageAdapter)
	r.Register(models.ConnectorTypeImageAnalysis, "comparison", newImageComparisonAdapter)

	r.Register(models.ConnectorTypeWebArchive, "wayback_machine", newWaybackAdapter)

	return r
}

func (r *Registry) Register(t models.ConnectorType, key string, factory Factory) {
	if r.entries[t] == nil {
		r.entries[t] = map[string]Factory{}
	}
	r.entries[t][key] = factory
}

// Lookup picks the factory for a connector type and requested adapter key.
// Resolution order: the requested key, then "default", then the
// lexicographically smallest registered key so repeated calls always agree.
func (r *Registry) Lookup(t models.ConnectorType, key string) (Factory, error) {
	byKey := r.entries[t]
	if len(byKey) == 0 {
		return nil, newError(ErrAdapterNotFound, "no adapter registered for connector type %q", t)
	}
	if f, ok := byKey[key]; ok {
		return f, nil
	}
	if f, ok := byKey[defaultAdapterKey]; ok {
		return f, nil
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return byKey[keys[0]], nil
}

// Resolver builds ready-to-use adapters for connectors, binding the shared
// transport and the connector's credentials.
type Resolver struct {
	registry  *Registry
	transport *Transport
	creds     *CredentialStore
	logger    *slog.Logger
}

func NewResolver(registry *Registry, transport *Transport, creds *CredentialStore, logger *slog.Logger) *Resolver {
	return &Resolver{registry: registry, transport: transport, creds: creds, logger: logger}
}

// AdapterFor resolves and constructs the adapter for conn.
func (r *Resolver) AdapterFor(ctx context.Context, conn *models.Connector) (Adapter, error) {
	settings := conn.Settings()
	factory, err := r.registry.Lookup(conn.Type, settings.AdapterKey)
	if err != nil {
		return nil, err
	}
	return factory(Deps{
		Connector: conn,
		Settings:  settings,
		Transport: r.transport,
		Keys:      r.creds.KeysFor(ctx, conn),
		Auth:      r.creds.AuthFor(ctx, conn),
		Logger:    r.logger,
	}), nil
}
