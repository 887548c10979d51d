package connectors

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Snapshot is a single archived capture of a URL.
type Snapshot struct {
	Timestamp  string `json:"timestamp"`
	URL        string `json:"url"`
	MimeType   string `json:"mime_type"`
	StatusCode string `json:"status_code"`
	Length     string `json:"length"`
	ArchiveURL string `json:"archive_url"`
}

// SnapshotList is the processed outcome of a CDX query, newest capture
// first.
type SnapshotList struct {
	Service        string     `json:"service"`
	URL            string     `json:"url"`
	TotalSnapshots int        `json:"total_snapshots"`
	Snapshots      []Snapshot `json:"snapshots"`
}

// waybackAdapter queries the Internet Archive CDX API. The response is a
// JSON array whose first row names the columns and whose remaining rows
// carry the captures.
type waybackAdapter struct {
	base
}

func newWaybackAdapter(deps Deps) Adapter {
	return &waybackAdapter{base: newBase("wayback_machine", deps)}
}

func (a *waybackAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	searchType := opts.SearchType
	if searchType == "" {
		searchType = "snapshots"
	}
	if searchType != "snapshots" {
		return nil, a.unsupported("search type " + searchType)
	}
	if strings.TrimSpace(query) == "" {
		return nil, newError(ErrValidation, "url is empty")
	}

	params := map[string]string{
		"url":      query,
		"output":   "json",
		"fl":       "timestamp,original,mimetype,statuscode,length",
		"collapse": "timestamp:8", // one capture per day
	}
	if opts.FromDate != "" {
		params["from"] = opts.FromDate
	}
	if opts.ToDate != "" {
		params["to"] = opts.ToDate
	}
	if opts.MaxResults > 0 {
		params["limit"] = strconv.Itoa(opts.MaxResults)
	}

	resp, err := a.get(ctx, a.settings.CDXEndpoint, params)
	if err != nil {
		return nil, err
	}
	return a.ProcessData(resp.Body), nil
}

func (a *waybackAdapter) ProcessData(raw any) *Result {
	rows := asSlice(raw)
	if len(rows) < 2 {
		return a.degraded("snapshots", raw, "no snapshot data found")
	}

	header := make([]string, 0)
	for _, col := range asSlice(rows[0]) {
		name, _ := col.(string)
		header = append(header, name)
	}

	out := SnapshotList{Service: a.service, Snapshots: []Snapshot{}}
	for _, row := range rows[1:] {
		cells := asSlice(row)
		if len(cells) < len(header) {
			continue
		}
		fields := map[string]any{}
		for i, name := range header {
			fields[name] = cells[i]
		}
		timestamp := str(fields, "timestamp")
		original := str(fields, "original")
		out.Snapshots = append(out.Snapshots, Snapshot{
			Timestamp:  timestamp,
			URL:        original,
			MimeType:   str(fields, "mimetype"),
			StatusCode: str(fields, "statuscode"),
			Length:     str(fields, "length"),
			ArchiveURL: "https://web.archive.org/web/" + timestamp + "/" + original,
		})
		if out.URL == "" && original != "" {
			out.URL = original
		}
	}
	out.TotalSnapshots = len(out.Snapshots)

	sort.SliceStable(out.Snapshots, func(i, j int) bool {
		return out.Snapshots[i].Timestamp > out.Snapshots[j].Timestamp
	})

	return &Result{Service: a.service, Kind: "snapshots", Data: out, Raw: raw}
}

func (a *waybackAdapter) TestConnection(ctx context.Context) (bool, string) {
	_, err := a.Search(ctx, "example.com", SearchOptions{MaxResults: 1})
	if err != nil {
		return false, fmt.Sprintf("wayback machine connection failed: %v", err)
	}
	return true, "wayback machine connection successful"
}
