package connectors

import (
	"context"
	"io"
	"sync"

	"log/slog"

	"github.com/baykus/baykus/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStatusWriter struct {
	mu      sync.Mutex
	updates []models.ConnectorStatus
}

func (f *fakeStatusWriter) UpdateConnectorStatus(ctx context.Context, id string, status models.ConnectorStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, status)
	return nil
}

func (f *fakeStatusWriter) recorded() []models.ConnectorStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ConnectorStatus(nil), f.updates...)
}

type fakeCredentialSource struct {
	keys  []models.APIKey
	creds []models.AuthCredential
}

func (f *fakeCredentialSource) ActiveAPIKeys(ctx context.Context, connectorID string) ([]models.APIKey, error) {
	return f.keys, nil
}

func (f *fakeCredentialSource) ActiveAuthCredentials(ctx context.Context, connectorID string) ([]models.AuthCredential, error) {
	return f.creds, nil
}

func testConnector(connectorType models.ConnectorType, baseURL string, configuration map[string]string) *models.Connector {
	return &models.Connector{
		ID:            "conn-1",
		Name:          "test-connector",
		Type:          connectorType,
		BaseURL:       baseURL,
		Status:        models.ConnectorStatusActive,
		Configuration: configuration,
	}
}

func testDeps(conn *models.Connector, transport *Transport) Deps {
	return Deps{
		Connector: conn,
		Settings:  conn.Settings(),
		Transport: transport,
		Keys:      map[string]string{},
		Auth:      map[models.AuthType]map[string]string{},
		Logger:    testLogger(),
	}
}
