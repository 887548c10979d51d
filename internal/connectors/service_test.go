package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/baykus/baykus/internal/models"
)

type fakeConnectorSource struct {
	mu       sync.Mutex
	conns    map[string]*models.Connector
	statuses map[string]models.ConnectorStatus
}

func newFakeConnectorSource(conns ...*models.Connector) *fakeConnectorSource {
	f := &fakeConnectorSource{
		conns:    map[string]*models.Connector{},
		statuses: map[string]models.ConnectorStatus{},
	}
	for _, c := range conns {
		f.conns[c.ID] = c
	}
	return f
}

func (f *fakeConnectorSource) GetConnector(ctx context.Context, id string) (*models.Connector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, ok := f.conns[id]
	if !ok {
		return nil, fmt.Errorf("connector not found: %s: %w", id, sql.ErrNoRows)
	}
	copied := *conn
	return &copied, nil
}

func (f *fakeConnectorSource) UpdateConnectorStatus(ctx context.Context, id string, status models.ConnectorStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

func (f *fakeConnectorSource) lastStatus(id string) models.ConnectorStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[id]
}

type fakeRequestLog struct {
	mu        sync.Mutex
	created   []models.RequestRecord
	finalized []models.RequestRecord
}

func (f *fakeRequestLog) CreateRequest(ctx context.Context, rec *models.RequestRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *rec)
	return nil
}

func (f *fakeRequestLog) FinalizeRequest(ctx context.Context, rec *models.RequestRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalized = append(f.finalized, *rec)
	return nil
}

func newTestService(src *fakeConnectorSource, log *fakeRequestLog) *Service {
	transport := NewTransport(src, testLogger())
	store := NewCredentialStore(&fakeCredentialSource{}, testLogger())
	resolver := NewResolver(NewRegistry(), transport, store, testLogger())
	return NewService(src, log, resolver, nil, testLogger())
}

func TestServiceSearchUnknownConnector(t *testing.T) {
	service := newTestService(newFakeConnectorSource(), &fakeRequestLog{})

	_, err := service.Search(context.Background(), "missing", "query", SearchOptions{})
	if KindOf(err) != ErrNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestServiceTestConnectionStatusWriteback(t *testing.T) {
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer okSrv.Close()
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer badSrv.Close()

	healthy := testConnector(models.ConnectorTypeUsernameSearch, okSrv.URL, nil)
	healthy.ID = "healthy"
	broken := testConnector(models.ConnectorTypeUsernameSearch, badSrv.URL, nil)
	broken.ID = "broken"

	src := newFakeConnectorSource(healthy, broken)
	service := newTestService(src, &fakeRequestLog{})

	ok, _, err := service.TestConnection(context.Background(), "healthy")
	if err != nil {
		t.Fatalf("TestConnection(healthy): %v", err)
	}
	if !ok {
		t.Error("healthy connector reported failure")
	}
	if got := src.lastStatus("healthy"); got != models.ConnectorStatusActive {
		t.Errorf("healthy status = %q, want active", got)
	}

	ok, message, err := service.TestConnection(context.Background(), "broken")
	if err != nil {
		t.Fatalf("TestConnection(broken): %v", err)
	}
	if ok {
		t.Error("broken connector reported success")
	}
	if message == "" {
		t.Error("failure message should explain what went wrong")
	}
	if got := src.lastStatus("broken"); got != models.ConnectorStatusError {
		t.Errorf("broken status = %q, want error", got)
	}
}

func TestServiceSearchPropagatesValidation(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	conn := testConnector(models.ConnectorTypeEmailVerify, srv.URL, nil)
	src := newFakeConnectorSource(conn)
	service := newTestService(src, &fakeRequestLog{})

	_, err := service.Search(context.Background(), conn.ID, "definitely not an email", SearchOptions{})
	if KindOf(err) != ErrValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("invalid query reached the network %d times", calls)
	}
}
