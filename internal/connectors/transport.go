package connectors

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/baykus/baykus/internal/models"
)

const (
	defaultUserAgent = "Baykus OSINT Tool/1.0"
	defaultTimeout   = 30 * time.Second
	maxResponseSize  = 10 << 20 // 10 MiB
)

// StatusWriter persists connector status transitions observed by the
// transport, most importantly the flip to rate_limited on a 429.
type StatusWriter interface {
	UpdateConnectorStatus(ctx context.Context, connectorID string, status models.ConnectorStatus) error
}

// Response is the outcome of a successful upstream call.
type Response struct {
	StatusCode int
	Body       any    // decoded JSON when the payload parses, raw text otherwise
	Text       string // verbatim response body
}

// Transport issues HTTP requests to upstream providers on behalf of
// adapters. All provider traffic funnels through Do so rate-limit handling
// and header policy live in one place.
type Transport struct {
	client *http.Client
	status StatusWriter
	logger *slog.Logger
}

func NewTransport(status StatusWriter, logger *slog.Logger) *Transport {
	return &Transport{
		client: &http.Client{Timeout: defaultTimeout},
		status: status,
		logger: logger,
	}
}

// RequestSpec describes a single upstream call.
type RequestSpec struct {
	Connector *models.Connector
	Method    string
	Endpoint  string            // joined onto the connector base URL
	Params    map[string]string // query string parameters
	Headers   map[string]string // merged over the defaults, caller wins
	Body      any               // JSON-encoded when non-nil
}

// Do performs the request described by spec. Connectors already flagged as
// rate limited are short-circuited without touching the network. A 429
// response flips the connector to rate_limited before returning.
func (t *Transport) Do(ctx context.Context, spec RequestSpec) (*Response, error) {
	conn := spec.Connector
	if conn == nil {
		return nil, newError(ErrValidation, "transport: connector is required")
	}
	if conn.Status == models.ConnectorStatusRateLimited {
		return nil, &Error{
			Kind:    ErrRateLimited,
			Message: "connector " + conn.Name + " is rate limited",
		}
	}

	endpoint, err := joinURL(conn.BaseURL, spec.Endpoint)
	if err != nil {
		return nil, newError(ErrValidation, "transport: invalid endpoint: %v", err)
	}

	var body io.Reader
	if spec.Body != nil {
		encoded, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, newError(ErrValidation, "transport: encoding request body: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	method := strings.ToUpper(spec.Method)
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, newError(ErrValidation, "transport: building request: %v", err)
	}

	if len(spec.Params) > 0 {
		q := req.URL.Query()
		for k, v := range spec.Params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")
	if spec.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("upstream request failed",
			"connector", conn.Name, "method", method, "url", endpoint, "error", err)
		return nil, &Error{Kind: ErrNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))

	t.logger.Debug("upstream request",
		"connector", conn.Name, "method", method, "url", endpoint,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	text := string(raw)
	parsed := decodeBody(raw)

	// The 429 flag must land even when the body read failed partway.
	if resp.StatusCode == http.StatusTooManyRequests {
		if err := t.status.UpdateConnectorStatus(ctx, conn.ID, models.ConnectorStatusRateLimited); err != nil {
			t.logger.Error("failed to persist rate limited status",
				"connector_id", conn.ID, "error", err)
		}
		return nil, &Error{
			Kind:       ErrRateLimited,
			StatusCode: resp.StatusCode,
			Message:    "rate limit exceeded for connector " + conn.Name,
			Body:       parsed,
		}
	}

	if readErr != nil {
		return nil, &Error{Kind: ErrNetwork, Message: "reading response body: " + readErr.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       ErrAPI,
			StatusCode: resp.StatusCode,
			Message:    "upstream returned " + resp.Status,
			Body:       parsed,
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: parsed, Text: text}, nil
}

// joinURL joins a base URL and an endpoint path with exactly one slash
// between them, regardless of how either side is written.
func joinURL(base, endpoint string) (string, error) {
	if base == "" {
		return "", newError(ErrValidation, "connector has no base url")
	}
	if _, err := url.Parse(base); err != nil {
		return "", err
	}
	if endpoint == "" {
		return strings.TrimRight(base, "/"), nil
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/"), nil
}

// decodeBody attempts to parse the payload as JSON. Providers that answer
// with plain text still produce a usable value.
func decodeBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return string(raw)
	}
	return out
}
