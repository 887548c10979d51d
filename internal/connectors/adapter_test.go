package connectors

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baykus/baykus/internal/models"
)

func TestExecuteRequestBodyEncoding(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantWire string
	}{
		{"json object passes through", `{"q":"alice","page":2}`, `{"page":2,"q":"alice"}`},
		{"json array passes through", `[1,2,3]`, `[1,2,3]`},
		{"plain text wrapped under data", "plain text body", `{"data":"plain text body"}`},
		{"broken json wrapped under data", `{"q": oops`, `{"data":"{\"q\": oops"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var wire string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				raw, _ := io.ReadAll(r.Body)
				wire = string(raw)
				w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			conn := testConnector(models.ConnectorTypeOther, srv.URL, nil)
			b := newBase("generic", testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))

			_, err := b.ExecuteRequest(context.Background(), "submit", http.MethodPost, nil, nil, tt.body)
			if err != nil {
				t.Fatalf("ExecuteRequest: %v", err)
			}
			if strings.TrimSpace(wire) != tt.wantWire {
				t.Errorf("wire body = %q, want %q", wire, tt.wantWire)
			}
		})
	}
}

func TestExecuteRequestEmptyBody(t *testing.T) {
	var contentType string
	var length int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		length = r.ContentLength
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	conn := testConnector(models.ConnectorTypeOther, srv.URL, nil)
	b := newBase("generic", testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))

	if _, err := b.ExecuteRequest(context.Background(), "submit", http.MethodPost, nil, nil, ""); err != nil {
		t.Fatalf("ExecuteRequest: %v", err)
	}
	if length != 0 {
		t.Errorf("empty body should not be sent, got %d bytes", length)
	}
	if contentType == "application/json" {
		t.Error("Content-Type should not be set without a body")
	}
}

func TestBaseTestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	conn := testConnector(models.ConnectorTypeOther, srv.URL,
		map[string]string{"test_endpoint": "ping"})
	b := newBase("generic", testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))

	ok, _ := b.TestConnection(context.Background())
	if !ok {
		t.Error("configured test endpoint should probe successfully")
	}
}

func TestBaseTestConnectionWithoutEndpoint(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	conn := testConnector(models.ConnectorTypeOther, srv.URL, nil)
	b := newBase("generic", testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))

	ok, message := b.TestConnection(context.Background())
	if ok {
		t.Error("probe without a test endpoint should be refused")
	}
	if !strings.Contains(message, "no test endpoint configured") {
		t.Errorf("message = %q", message)
	}
	if calls != 0 {
		t.Errorf("refused probe reached the network %d times", calls)
	}
}
