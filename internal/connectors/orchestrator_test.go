package connectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baykus/baykus/internal/models"
)

func TestExecuteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Query().Get("q") != "alice" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	conn := testConnector(models.ConnectorTypeUsernameSearch, srv.URL, nil)
	src := newFakeConnectorSource(conn)
	log := &fakeRequestLog{}
	service := newTestService(src, log)

	rec, err := service.Execute(context.Background(), ExecuteInput{
		ConnectorID: conn.ID,
		Endpoint:    "lookup",
		Method:      "post",
		Params:      map[string]string{"q": "alice"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(log.created) != 1 || len(log.finalized) != 1 {
		t.Fatalf("record writes: created=%d finalized=%d, want 1/1", len(log.created), len(log.finalized))
	}
	if log.created[0].Status != models.RequestStatusPending {
		t.Errorf("created status = %q, want pending", log.created[0].Status)
	}

	final := log.finalized[0]
	if final.ID != rec.ID || final.ID != log.created[0].ID {
		t.Error("the created and finalized record must be the same one")
	}
	if final.Status != models.RequestStatusSuccess {
		t.Errorf("final status = %q, want success", final.Status)
	}
	if final.Method != http.MethodPost {
		t.Errorf("method normalized to %q", final.Method)
	}
	if final.StatusCode != http.StatusOK {
		t.Errorf("status code = %d", final.StatusCode)
	}
	if !strings.Contains(final.ResponseData, `"ok"`) {
		t.Errorf("response data = %q", final.ResponseData)
	}
	if final.ResponseTime == nil || final.DurationMS < 0 {
		t.Error("timing fields not populated")
	}
}

func TestExecuteUnknownConnectorWritesNoRecord(t *testing.T) {
	log := &fakeRequestLog{}
	service := newTestService(newFakeConnectorSource(), log)

	rec, err := service.Execute(context.Background(), ExecuteInput{ConnectorID: "missing"})
	if KindOf(err) != ErrNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if rec != nil {
		t.Error("no record should exist for an unknown connector")
	}
	if len(log.created) != 0 || len(log.finalized) != 0 {
		t.Errorf("record writes: created=%d finalized=%d, want none", len(log.created), len(log.finalized))
	}
}

func TestExecuteRateLimitedMarksThrottled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota exhausted"}`))
	}))
	defer srv.Close()

	conn := testConnector(models.ConnectorTypeUsernameSearch, srv.URL, nil)
	src := newFakeConnectorSource(conn)
	log := &fakeRequestLog{}
	service := newTestService(src, log)

	rec, err := service.Execute(context.Background(), ExecuteInput{
		ConnectorID: conn.ID,
		Endpoint:    "lookup",
	})
	if KindOf(err) != ErrRateLimited {
		t.Fatalf("expected rate_limited, got %v", err)
	}

	if rec.Status != models.RequestStatusThrottled {
		t.Errorf("record status = %q, want throttled", rec.Status)
	}
	if rec.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status code = %d", rec.StatusCode)
	}
	if rec.ErrorMessage == "" {
		t.Error("error message should be recorded")
	}
	if !strings.Contains(rec.ResponseData, "quota exhausted") {
		t.Errorf("provider body should be preserved, got %q", rec.ResponseData)
	}
	if len(log.finalized) != 1 {
		t.Fatalf("finalized %d records, want 1", len(log.finalized))
	}

	if got := src.lastStatus(conn.ID); got != models.ConnectorStatusRateLimited {
		t.Errorf("connector status = %q, want rate_limited", got)
	}
}

func TestExecuteUpstreamErrorFinalizesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such endpoint"}`))
	}))
	defer srv.Close()

	conn := testConnector(models.ConnectorTypeUsernameSearch, srv.URL, nil)
	log := &fakeRequestLog{}
	service := newTestService(newFakeConnectorSource(conn), log)

	rec, err := service.Execute(context.Background(), ExecuteInput{
		ConnectorID: conn.ID,
		Endpoint:    "nope",
	})
	if KindOf(err) != ErrAPI {
		t.Fatalf("expected api_error, got %v", err)
	}
	if rec.Status != models.RequestStatusError {
		t.Errorf("record status = %q, want error", rec.Status)
	}
	if rec.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d", rec.StatusCode)
	}
	if len(log.created) != 1 || len(log.finalized) != 1 {
		t.Errorf("record writes: created=%d finalized=%d, want 1/1", len(log.created), len(log.finalized))
	}
}

func TestExecuteDefaultsMethodToGet(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	conn := testConnector(models.ConnectorTypeUsernameSearch, srv.URL, nil)
	service := newTestService(newFakeConnectorSource(conn), &fakeRequestLog{})

	rec, err := service.Execute(context.Background(), ExecuteInput{ConnectorID: conn.ID, Endpoint: "x"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if gotMethod != http.MethodGet || rec.Method != http.MethodGet {
		t.Errorf("method = %q / record %q, want GET", gotMethod, rec.Method)
	}
}
