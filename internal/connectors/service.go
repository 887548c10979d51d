package connectors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/baykus/baykus/internal/metrics"
	"github.com/baykus/baykus/internal/models"
)

// ConnectorSource provides connector rows and status write-back. Missing
// rows are signaled with an error wrapping sql.ErrNoRows.
type ConnectorSource interface {
	GetConnector(ctx context.Context, id string) (*models.Connector, error)
	UpdateConnectorStatus(ctx context.Context, id string, status models.ConnectorStatus) error
}

// RequestLog persists request audit records.
type RequestLog interface {
	CreateRequest(ctx context.Context, rec *models.RequestRecord) error
	FinalizeRequest(ctx context.Context, rec *models.RequestRecord) error
}

// Service is the caller-facing entry point to the connector layer. It owns
// connector lookup, adapter resolution, status write-back, and the request
// audit trail.
type Service struct {
	connectors ConnectorSource
	requests   RequestLog
	resolver   *Resolver
	collector  *metrics.ConnectorCollector
	logger     *slog.Logger
}

func NewService(connectors ConnectorSource, requests RequestLog, resolver *Resolver, collector *metrics.ConnectorCollector, logger *slog.Logger) *Service {
	return &Service{
		connectors: connectors,
		requests:   requests,
		resolver:   resolver,
		collector:  collector,
		logger:     logger,
	}
}

func (s *Service) loadConnector(ctx context.Context, id string) (*models.Connector, error) {
	conn, err := s.connectors.GetConnector(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, newError(ErrNotFound, "connector %s not found", id)
		}
		return nil, fmt.Errorf("loading connector %s: %w", id, err)
	}
	return conn, nil
}

// Search resolves the adapter for the connector and runs the family's
// primary lookup.
func (s *Service) Search(ctx context.Context, connectorID, query string, opts SearchOptions) (*Result, error) {
	conn, err := s.loadConnector(ctx, connectorID)
	if err != nil {
		return nil, err
	}
	adapter, err := s.resolver.AdapterFor(ctx, conn)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := adapter.Search(ctx, query, opts)
	s.observe(conn, "search", err, time.Since(start))
	if err != nil {
		s.logger.Warn("connector search failed",
			"connector", conn.Name, "adapter", adapter.Service(), "error", err)
		return nil, err
	}
	return result, nil
}

// TestConnection probes the connector's upstream and records the outcome
// on the connector row: active on success, error on failure.
func (s *Service) TestConnection(ctx context.Context, connectorID string) (bool, string, error) {
	conn, err := s.loadConnector(ctx, connectorID)
	if err != nil {
		return false, "", err
	}
	adapter, err := s.resolver.AdapterFor(ctx, conn)
	if err != nil {
		return false, "", err
	}

	start := time.Now()
	ok, message := adapter.TestConnection(ctx)
	s.observe(conn, "test", nil, time.Since(start))

	status := models.ConnectorStatusActive
	if !ok {
		status = models.ConnectorStatusError
	}
	if err := s.connectors.UpdateConnectorStatus(ctx, conn.ID, status); err != nil {
		s.logger.Error("failed to update connector status",
			"connector_id", conn.ID, "status", status, "error", err)
	}
	return ok, message, nil
}

func (s *Service) observe(conn *models.Connector, operation string, err error, elapsed time.Duration) {
	if s.collector == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	s.collector.ObserveRequest(string(conn.Type), operation, outcome, elapsed.Seconds())
}
