package connectors

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const maxPasteResults = 1000

// Paste describes a single paste, either as a search hit or fetched in
// full. Content and Highlight are mutually exclusive in practice.
type Paste struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	User      string `json:"user"`
	Date      string `json:"date"`
	Syntax    string `json:"syntax"`
	Size      int    `json:"size"`
	Expire    string `json:"expire"`
	URL       string `json:"url"`
	Hits      int    `json:"hits"`
	Highlight string `json:"highlight,omitempty"`
	Content   string `json:"content,omitempty"`
}

type PasteSearch struct {
	Service      string  `json:"service"`
	Type         string  `json:"type"`
	Query        string  `json:"query"`
	TotalResults int     `json:"total_results"`
	Results      []Paste `json:"results"`
}

type pastebinAdapter struct {
	base
}

func newPastebinAdapter(deps Deps) Adapter {
	return &pastebinAdapter{base: newBase("pastebin", deps)}
}

// Search runs a content search by default; search type "paste" treats the
// query as a paste ID and fetches the full paste.
func (a *pastebinAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, newError(ErrValidation, "search query is empty")
	}

	searchType := opts.SearchType
	if searchType == "" {
		searchType = "search"
	}

	switch searchType {
	case "search":
		limit := opts.MaxResults
		if limit <= 0 || limit > maxPasteResults {
			limit = maxPasteResults
		}
		resp, err := a.get(ctx, a.settings.SearchEndpoint, map[string]string{
			"q":     query,
			"limit": strconv.Itoa(limit),
		})
		if err != nil {
			return nil, err
		}
		return a.processSearch(resp.Body), nil

	case "paste":
		endpoint := fillTemplate(a.settings.PasteEndpoint, map[string]string{"paste_id": query})
		resp, err := a.get(ctx, endpoint, nil)
		if err != nil {
			return nil, err
		}
		return a.processPaste(resp.Body), nil

	default:
		return nil, a.unsupported("search type " + searchType)
	}
}

func (a *pastebinAdapter) processSearch(raw any) *Result {
	m := asMap(raw)
	if m == nil {
		return a.degraded("paste_search", raw, "unrecognized payload shape")
	}
	pastes := subSlice(m, "pastes")
	out := PasteSearch{
		Service:      a.service,
		Type:         "paste_search",
		Query:        str(m, "query"),
		TotalResults: len(pastes),
		Results:      []Paste{},
	}
	for _, item := range pastes {
		p := asMap(item)
		if p == nil {
			continue
		}
		out.Results = append(out.Results, Paste{
			ID:        str(p, "id"),
			Title:     str(p, "title"),
			User:      str(p, "user"),
			Date:      str(p, "date"),
			Syntax:    str(p, "syntax"),
			Size:      integer(p, "size"),
			Expire:    str(p, "expire"),
			URL:       str(p, "url"),
			Hits:      integer(p, "hits"),
			Highlight: str(p, "highlight"),
		})
	}
	return &Result{Service: a.service, Kind: "paste_search", Data: out, Raw: raw}
}

func (a *pastebinAdapter) processPaste(raw any) *Result {
	m := asMap(raw)
	if m == nil {
		return a.degraded("paste", raw, "unrecognized payload shape")
	}
	paste := Paste{
		ID:      str(m, "id"),
		Title:   str(m, "title"),
		User:    str(m, "user"),
		Date:    str(m, "date"),
		Syntax:  str(m, "syntax"),
		Size:    integer(m, "size"),
		Expire:  str(m, "expire"),
		URL:     str(m, "url"),
		Hits:    integer(m, "hits"),
		Content: str(m, "content"),
	}
	return &Result{Service: a.service, Kind: "paste", Data: paste, Raw: raw}
}

// ProcessData distinguishes a full paste from search results by the
// presence of a content field.
func (a *pastebinAdapter) ProcessData(raw any) *Result {
	if m := asMap(raw); m != nil {
		if _, ok := m["content"]; ok {
			return a.processPaste(raw)
		}
	}
	return a.processSearch(raw)
}

func (a *pastebinAdapter) TestConnection(ctx context.Context) (bool, string) {
	_, err := a.Search(ctx, "password", SearchOptions{MaxResults: 1})
	if err != nil {
		return false, fmt.Sprintf("pastebin service connection failed: %v", err)
	}
	return true, "pastebin service connection successful"
}
