package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPCollectorInstrumentHandler(t *testing.T) {
	collector, err := NewHTTPCollector()
	if err != nil {
		t.Fatalf("NewHTTPCollector: %v", err)
	}

	handler := collector.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/targets", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	scrape := httptest.NewRecorder()
	collector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := scrape.Body.String()
	if !strings.Contains(body, `baykus_http_requests_total{method="POST",path="/api/targets",status="201"} 1`) {
		t.Errorf("request counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, "baykus_http_request_duration_seconds_count") {
		t.Errorf("duration histogram missing from scrape")
	}
}

func TestConnectorCollectorObserveRequest(t *testing.T) {
	httpCollector, err := NewHTTPCollector()
	if err != nil {
		t.Fatalf("NewHTTPCollector: %v", err)
	}
	collector, err := NewConnectorCollector(httpCollector.Registry())
	if err != nil {
		t.Fatalf("NewConnectorCollector: %v", err)
	}

	collector.ObserveRequest("social_media", "search", "success", 0.25)
	collector.ObserveRequest("social_media", "search", "success", 0.5)
	collector.ObserveRequest("web_archive", "execute", "rate_limited", 0.1)

	scrape := httptest.NewRecorder()
	httpCollector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := scrape.Body.String()
	if !strings.Contains(body, `baykus_connectors_requests_total{connector_type="social_media",operation="search",outcome="success"} 2`) {
		t.Errorf("success counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, `baykus_connectors_requests_total{connector_type="web_archive",operation="execute",outcome="rate_limited"} 1`) {
		t.Errorf("rate_limited counter missing from scrape")
	}
}

func TestNewConnectorCollectorDuplicateRegistration(t *testing.T) {
	httpCollector, err := NewHTTPCollector()
	if err != nil {
		t.Fatalf("NewHTTPCollector: %v", err)
	}
	if _, err := NewConnectorCollector(httpCollector.Registry()); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewConnectorCollector(httpCollector.Registry()); err == nil {
		t.Error("second registration on the same registry should fail")
	}
}
