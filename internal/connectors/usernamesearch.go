package connectors

import (
	"context"
	"fmt"
	"strconv"
)

// PlatformHit is a platform where the username was found.
type PlatformHit struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

// PlatformMiss is a platform where the username does not exist.
type PlatformMiss struct {
	Platform string `json:"platform"`
}

// PlatformError is a platform the service failed to check.
type PlatformError struct {
	Platform string `json:"platform"`
	Error    string `json:"error"`
}

// UsernameSearch buckets the per-platform outcomes of a username sweep.
// PresencePercentage is found over total checked, 0 when nothing was
// checked.
type UsernameSearch struct {
	Service            string          `json:"service"`
	Type               string          `json:"type"`
	Username           string          `json:"username"`
	TotalSites         int             `json:"total_sites"`
	Found              []PlatformHit   `json:"found"`
	NotFound           []PlatformMiss  `json:"not_found"`
	Errors             []PlatformError `json:"error"`
	PresencePercentage float64         `json:"presence_percentage"`
}

type PlatformCheck struct {
	Service  string `json:"service"`
	Type     string `json:"type"`
	Username string `json:"username"`
	Platform string `json:"platform"`
	Status   string `json:"status"`
	URL      string `json:"url"`
}

type usernameSearchAdapter struct {
	base
}

func newUsernameSearchAdapter(deps Deps) Adapter {
	return &usernameSearchAdapter{base: newBase("username_search", deps)}
}

// Search sweeps the username across platforms by default; search type
// "platform" checks a single platform named in the options.
func (a *usernameSearchAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	if !validUsername(query) {
		return nil, newError(ErrValidation, "invalid username format: %s", query)
	}

	searchType := opts.SearchType
	if searchType == "" {
		searchType = "search"
	}

	switch searchType {
	case "search":
		params := map[string]string{"username": query}
		if opts.MaxResults > 0 {
			params["limit"] = strconv.Itoa(opts.MaxResults)
		}
		resp, err := a.get(ctx, a.settings.SearchEndpoint, params)
		if err != nil {
			return nil, err
		}
		return a.processSearch(resp.Body), nil

	case "platform":
		if opts.Platform == "" {
			return nil, newError(ErrValidation, "platform is required for platform search type")
		}
		endpoint := fillTemplate(a.settings.PlatformEndpoint, map[string]string{"platform": opts.Platform})
		resp, err := a.get(ctx, endpoint, map[string]string{"username": query})
		if err != nil {
			return nil, err
		}
		return a.processPlatform(resp.Body), nil

	default:
		return nil, a.unsupported("search type " + searchType)
	}
}

func (a *usernameSearchAdapter) processSearch(raw any) *Result {
	m := asMap(raw)
	if m == nil {
		return a.degraded("username_search", raw, "unrecognized payload shape")
	}
	results := subSlice(m, "results")
	out := UsernameSearch{
		Service:    a.service,
		Type:       "username_search",
		Username:   str(m, "username"),
		TotalSites: len(results),
		Found:      []PlatformHit{},
		NotFound:   []PlatformMiss{},
		Errors:     []PlatformError{},
	}
	for _, item := range results {
		r := asMap(item)
		if r == nil {
			continue
		}
		platform := str(r, "platform")
		switch str(r, "status") {
		case "found":
			out.Found = append(out.Found, PlatformHit{
				Platform: platform,
				URL:      str(r, "url"),
				Username: str(r, "username"),
			})
		case "not_found":
			out.NotFound = append(out.NotFound, PlatformMiss{Platform: platform})
		case "error":
			out.Errors = append(out.Errors, PlatformError{
				Platform: platform,
				Error:    str(r, "error"),
			})
		}
	}
	if out.TotalSites > 0 {
		out.PresencePercentage = float64(len(out.Found)) / float64(out.TotalSites) * 100
	}
	return &Result{Service: a.service, Kind: "username_search", Data: out, Raw: raw}
}

func (a *usernameSearchAdapter) processPlatform(raw any) *Result {
	m := asMap(raw)
	if m == nil {
		return a.degraded("platform_check", raw, "unrecognized payload shape")
	}
	check := PlatformCheck{
		Service:  a.service,
		Type:     "platform_check",
		Username: str(m, "username"),
		Platform: str(m, "platform"),
		Status:   str(m, "status"),
		URL:      str(m, "url"),
	}
	return &Result{Service: a.service, Kind: "platform_check", Data: check, Raw: raw}
}

// ProcessData distinguishes a single platform check from sweep results by
// the platform/username field pair.
func (a *usernameSearchAdapter) ProcessData(raw any) *Result {
	if m := asMap(raw); m != nil {
		_, hasPlatform := m["platform"]
		_, hasUsername := m["username"]
		if hasPlatform && hasUsername {
			return a.processPlatform(raw)
		}
	}
	return a.processSearch(raw)
}

func (a *usernameSearchAdapter) TestConnection(ctx context.Context) (bool, string) {
	_, err := a.Search(ctx, "test", SearchOptions{MaxResults: 1})
	if err != nil {
		return false, fmt.Sprintf("username search service connection failed: %v", err)
	}
	return true, "username search service connection successful"
}
