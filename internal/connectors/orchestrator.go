package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baykus/baykus/internal/models"
)

// ExecuteInput describes an arbitrary upstream call requested by a caller.
type ExecuteInput struct {
	ConnectorID string            `json:"connector_id"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Params      map[string]string `json:"params"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`
}

// Execute runs a caller-specified request through the connector's adapter
// and returns the finalized audit record. Exactly one record is written
// per invocation: created pending before the call, finalized once with the
// outcome. An unknown connector fails before any record exists.
func (s *Service) Execute(ctx context.Context, in ExecuteInput) (*models.RequestRecord, error) {
	conn, err := s.loadConnector(ctx, in.ConnectorID)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(in.Method)
	if method == "" {
		method = http.MethodGet
	}

	rec := &models.RequestRecord{
		ID:          uuid.New().String(),
		ConnectorID: conn.ID,
		Endpoint:    in.Endpoint,
		Method:      method,
		Params:      in.Params,
		Headers:     in.Headers,
		Body:        in.Body,
		Status:      models.RequestStatusPending,
		RequestTime: time.Now(),
	}
	if err := s.requests.CreateRequest(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating request record: %w", err)
	}

	start := time.Now()
	adapter, err := s.resolver.AdapterFor(ctx, conn)
	if err != nil {
		s.finalize(ctx, conn, rec, start, nil, err)
		return rec, err
	}

	resp, err := adapter.ExecuteRequest(ctx, in.Endpoint, method, in.Params, in.Headers, in.Body)
	s.finalize(ctx, conn, rec, start, resp, err)
	return rec, err
}

func (s *Service) finalize(ctx context.Context, conn *models.Connector, rec *models.RequestRecord, start time.Time, resp *Response, callErr error) {
	now := time.Now()
	rec.ResponseTime = &now
	rec.DurationMS = now.Sub(start).Milliseconds()

	switch {
	case callErr == nil:
		rec.Status = models.RequestStatusSuccess
		rec.StatusCode = resp.StatusCode
		rec.ResponseData = resp.Text
	case KindOf(callErr) == ErrRateLimited:
		rec.Status = models.RequestStatusThrottled
		fallthrough
	default:
		if rec.Status == models.RequestStatusPending {
			rec.Status = models.RequestStatusError
		}
		rec.ErrorMessage = callErr.Error()
		if ce, ok := callErr.(*Error); ok {
			rec.StatusCode = ce.StatusCode
			if ce.Body != nil {
				if encoded, err := json.Marshal(ce.Body); err == nil {
					rec.ResponseData = string(encoded)
				}
			}
		}
	}

	if err := s.requests.FinalizeRequest(ctx, rec); err != nil {
		s.logger.Error("failed to finalize request record",
			"request_id", rec.ID, "error", err)
	}
	s.observe(conn, "execute", callErr, now.Sub(start))
}
