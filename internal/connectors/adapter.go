package connectors

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/baykus/baykus/internal/models"
)

// SearchOptions carries the optional knobs a caller can set on a search.
// Adapters read only the fields that apply to their family and ignore the
// rest.
type SearchOptions struct {
	SearchType string  // family specific, e.g. "profile", "web", "snapshots"
	MaxResults int     // result cap where the provider supports one
	Start      int     // pagination offset
	RecordType string  // DNS record type filter
	Platform   string  // single platform for username checks
	FromDate   string  // web archive range start, YYYYMMDD
	ToDate     string  // web archive range end, YYYYMMDD
	CompareTo  string  // second image for comparisons
	Threshold  float64 // similarity threshold for comparisons, 0 means default
}

// Result is the canonical envelope every adapter operation produces.
type Result struct {
	Service string `json:"service"`
	Kind    string `json:"kind"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Raw     any    `json:"raw_data,omitempty"`
}

// Adapter is the provider-facing contract. One adapter instance is bound to
// one connector row and its resolved credentials.
type Adapter interface {
	// Service names the upstream provider, e.g. "twitter" or "wayback".
	Service() string
	// Search runs the family's primary lookup for query.
	Search(ctx context.Context, query string, opts SearchOptions) (*Result, error)
	// ProcessData normalizes a raw upstream payload. It never fails: payloads
	// that cannot be normalized yield a Result with Error set and the input
	// preserved in Raw.
	ProcessData(raw any) *Result
	// TestConnection probes the provider and reports reachability.
	TestConnection(ctx context.Context) (bool, string)
	// ExecuteRequest performs an arbitrary call against the provider, used by
	// the request orchestrator.
	ExecuteRequest(ctx context.Context, endpoint, method string, params, headers map[string]string, body string) (*Response, error)
}

// Deps is everything a factory needs to build an adapter for a connector.
type Deps struct {
	Connector *models.Connector
	Settings  models.ConnectorSettings
	Transport *Transport
	Keys      map[string]string
	Auth      map[models.AuthType]map[string]string
	Logger    *slog.Logger
}

// Factory builds an adapter from resolved dependencies.
type Factory func(deps Deps) Adapter

// base carries the state and plumbing shared by every adapter family.
type base struct {
	service   string
	conn      *models.Connector
	settings  models.ConnectorSettings
	transport *Transport
	keys      map[string]string
	auth      map[models.AuthType]map[string]string
	logger    *slog.Logger

	// extraHeaders lets a family inject provider-specific auth headers on
	// top of the defaults.
	extraHeaders func() map[string]string
}

func newBase(service string, deps Deps) base {
	return base{
		service:   service,
		conn:      deps.Connector,
		settings:  deps.Settings,
		transport: deps.Transport,
		keys:      deps.Keys,
		auth:      deps.Auth,
		logger:    deps.Logger.With("adapter", service, "connector", deps.Connector.Name),
	}
}

func (b *base) Service() string { return b.service }

// requestHeaders builds the credential headers for an upstream call. An
// "api_key" credential travels as X-API-Key, an "api_token" as a bearer
// Authorization header. Families override or extend via extraHeaders.
func (b *base) requestHeaders() map[string]string {
	headers := map[string]string{}
	if key := b.keys["api_key"]; key != "" {
		headers["X-API-Key"] = key
	}
	if token := b.keys["api_token"]; token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	if b.extraHeaders != nil {
		for k, v := range b.extraHeaders() {
			headers[k] = v
		}
	}
	return headers
}

func (b *base) get(ctx context.Context, endpoint string, params map[string]string) (*Response, error) {
	return b.transport.Do(ctx, RequestSpec{
		Connector: b.conn,
		Method:    http.MethodGet,
		Endpoint:  endpoint,
		Params:    params,
		Headers:   b.requestHeaders(),
	})
}

func (b *base) post(ctx context.Context, endpoint string, params map[string]string, body any) (*Response, error) {
	return b.transport.Do(ctx, RequestSpec{
		Connector: b.conn,
		Method:    http.MethodPost,
		Endpoint:  endpoint,
		Params:    params,
		Headers:   b.requestHeaders(),
		Body:      body,
	})
}

// ExecuteRequest is the generic passthrough used by the request
// orchestrator. Caller-supplied headers win over the credential defaults.
func (b *base) ExecuteRequest(ctx context.Context, endpoint, method string, params, headers map[string]string, body string) (*Response, error) {
	merged := b.requestHeaders()
	for k, v := range headers {
		merged[k] = v
	}
	// A body that is not valid JSON still has to travel as JSON, so it is
	// wrapped under a "data" key rather than sent as a bare string.
	var payload any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			payload = map[string]any{"data": body}
		}
	}
	return b.transport.Do(ctx, RequestSpec{
		Connector: b.conn,
		Method:    method,
		Endpoint:  endpoint,
		Params:    params,
		Headers:   merged,
		Body:      payload,
	})
}

// TestConnection hits the connector's configured test endpoint. Families
// with a cheaper probe override this; without a configured endpoint there
// is nothing safe to call, so the probe is refused.
func (b *base) TestConnection(ctx context.Context) (bool, string) {
	if b.settings.TestEndpoint == "" {
		return false, "no test endpoint configured for " + b.service
	}
	resp, err := b.get(ctx, b.settings.TestEndpoint, nil)
	if err != nil {
		return false, err.Error()
	}
	return true, http.StatusText(resp.StatusCode)
}

// degraded builds the never-fails ProcessData fallback result.
func (b *base) degraded(kind string, raw any, reason string) *Result {
	return &Result{Service: b.service, Kind: kind, Error: reason, Raw: raw}
}

func (b *base) unsupported(what string) error {
	return newError(ErrUnsupported, "%s adapter does not support %s", b.service, what)
}
