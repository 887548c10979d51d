package connectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/baykus/baykus/internal/models"
)

func newTestWaybackAdapter(baseURL string) Adapter {
	conn := testConnector(models.ConnectorTypeWebArchive, baseURL, nil)
	return newWaybackAdapter(testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))
}

func TestWaybackProcessData(t *testing.T) {
	adapter := newTestWaybackAdapter("https://web.archive.org")

	raw := []any{
		[]any{"timestamp", "original", "mimetype", "statuscode", "length"},
		[]any{"20200101000000", "http://example.com/", "text/html", "200", "1000"},
		[]any{"20230615120000", "http://example.com/", "text/html", "200", "1200"},
		[]any{"20210301000000", "http://example.com/", "text/html", "301", "0"},
	}

	result := adapter.ProcessData(raw)
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	list, ok := result.Data.(SnapshotList)
	if !ok {
		t.Fatalf("unexpected data type %T", result.Data)
	}

	if list.TotalSnapshots != 3 {
		t.Errorf("total = %d, want 3", list.TotalSnapshots)
	}
	if list.URL != "http://example.com/" {
		t.Errorf("url = %q", list.URL)
	}

	// Newest capture first.
	wantOrder := []string{"20230615120000", "20210301000000", "20200101000000"}
	for i, want := range wantOrder {
		if list.Snapshots[i].Timestamp != want {
			t.Errorf("snapshot %d timestamp = %q, want %q", i, list.Snapshots[i].Timestamp, want)
		}
	}

	want := "https://web.archive.org/web/20230615120000/http://example.com/"
	if list.Snapshots[0].ArchiveURL != want {
		t.Errorf("archive url = %q, want %q", list.Snapshots[0].ArchiveURL, want)
	}
}

func TestWaybackProcessDataSkipsShortRows(t *testing.T) {
	adapter := newTestWaybackAdapter("https://web.archive.org")

	raw := []any{
		[]any{"timestamp", "original", "mimetype", "statuscode", "length"},
		[]any{"20230615120000", "http://example.com/", "text/html", "200", "1200"},
		[]any{"20220101000000"}, // truncated row
	}

	result := adapter.ProcessData(raw)
	list := result.Data.(SnapshotList)
	if list.TotalSnapshots != 1 {
		t.Errorf("total = %d, want 1 (short row dropped)", list.TotalSnapshots)
	}
}

func TestWaybackProcessDataEmpty(t *testing.T) {
	adapter := newTestWaybackAdapter("https://web.archive.org")

	for _, raw := range []any{
		nil,
		[]any{},
		[]any{[]any{"timestamp", "original"}}, // header only
		map[string]any{"error": "nope"},
	} {
		result := adapter.ProcessData(raw)
		if result.Error == "" {
			t.Errorf("payload %#v should degrade", raw)
		}
	}
}

func TestWaybackSearchParams(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`[["timestamp","original","mimetype","statuscode","length"],
			["20230615120000","http://example.com/","text/html","200","1200"]]`))
	}))
	defer srv.Close()

	adapter := newTestWaybackAdapter(srv.URL)
	_, err := adapter.Search(context.Background(), "example.com", SearchOptions{
		FromDate:   "20230101",
		ToDate:     "20231231",
		MaxResults: 5,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	wantParams := map[string]string{
		"url":      "example.com",
		"output":   "json",
		"collapse": "timestamp:8",
		"from":     "20230101",
		"to":       "20231231",
		"limit":    "5",
	}
	for k, want := range wantParams {
		if got := query.Get(k); got != want {
			t.Errorf("param %s = %q, want %q", k, got, want)
		}
	}
}

func TestWaybackUnsupportedSearchType(t *testing.T) {
	adapter := newTestWaybackAdapter("https://web.archive.org")
	_, err := adapter.Search(context.Background(), "example.com", SearchOptions{SearchType: "profile"})
	if KindOf(err) != ErrUnsupported {
		t.Errorf("expected unsupported_operation, got %v", err)
	}
}
