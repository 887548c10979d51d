package connectors

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// WebResult is a single normalized web search hit. Engines differ in which
// of the optional fields they populate.
type WebResult struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"display_link,omitempty"`
	CacheLink   string `json:"cache_link,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	FileFormat  string `json:"file_format,omitempty"`
	LastCrawled string `json:"date_last_crawled,omitempty"`
}

type WebSearch struct {
	Engine       string      `json:"engine"`
	Type         string      `json:"type"`
	Query        string      `json:"query"`
	TotalResults int         `json:"total_results"`
	Results      []WebResult `json:"results"`
}

type ImageResult struct {
	Title           string `json:"title"`
	Link            string `json:"link"`
	DisplayLink     string `json:"display_link,omitempty"`
	MimeType        string `json:"mime_type,omitempty"`
	FileFormat      string `json:"file_format,omitempty"`
	ContextLink     string `json:"context_link,omitempty"`
	HostPageURL     string `json:"host_page_url,omitempty"`
	ContentSize     string `json:"content_size,omitempty"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	ThumbnailWidth  int    `json:"thumbnail_width"`
	ThumbnailHeight int    `json:"thumbnail_height"`
	InsightsToken   string `json:"image_insights_token,omitempty"`
}

type ImageSearch struct {
	Engine       string        `json:"engine"`
	Type         string        `json:"type"`
	Query        string        `json:"query"`
	TotalResults int           `json:"total_results"`
	Results      []ImageResult `json:"results"`
}

// searchEngineAdapter implements the web/images/dork split shared by the
// search engines. A dork query is just a web search with operators, so it
// rides the web path.
type searchEngineAdapter struct {
	base
	web    func(raw any) any
	images func(raw any) any // nil when the engine has no image API
}

func (a *searchEngineAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, newError(ErrValidation, "search query is empty")
	}

	searchType := opts.SearchType
	if searchType == "" {
		searchType = "web"
	}

	num := opts.MaxResults
	if num <= 0 {
		num = 10
	}
	if num > 100 {
		num = 100
	}
	params := map[string]string{
		"q":     query,
		"num":   strconv.Itoa(num),
		"start": strconv.Itoa(opts.Start),
	}

	switch searchType {
	case "web", "dork":
		resp, err := a.get(ctx, a.settings.SearchEndpoint, params)
		if err != nil {
			return nil, err
		}
		return &Result{Service: a.service, Kind: "web_search", Data: a.web(resp.Body), Raw: resp.Body}, nil

	case "images":
		if a.images == nil {
			return nil, a.unsupported("image search")
		}
		resp, err := a.get(ctx, a.settings.ImageSearchEndpoint, params)
		if err != nil {
			return nil, err
		}
		return &Result{Service: a.service, Kind: "image_search", Data: a.images(resp.Body), Raw: resp.Body}, nil

	default:
		return nil, a.unsupported("search type " + searchType)
	}
}

func (a *searchEngineAdapter) ProcessData(raw any) *Result {
	if asMap(raw) == nil {
		return a.degraded("web_search", raw, "unrecognized payload shape")
	}
	return &Result{Service: a.service, Kind: "web_search", Data: a.web(raw), Raw: raw}
}

// TestConnection issues a one-result web search, the cheapest call every
// engine supports.
func (a *searchEngineAdapter) TestConnection(ctx context.Context) (bool, string) {
	_, err := a.Search(ctx, "test", SearchOptions{SearchType: "web", MaxResults: 1})
	if err != nil {
		return false, fmt.Sprintf("%s search connection failed: %v", a.service, err)
	}
	return true, fmt.Sprintf("%s search connection successful", a.service)
}

// Google (Custom Search JSON API shapes)

func newGoogleAdapter(deps Deps) Adapter {
	a := &searchEngineAdapter{base: newBase("google", deps)}
	query := func(m map[string]any) string {
		requests := subSlice(subMap(m, "queries"), "request")
		if len(requests) == 0 {
			return ""
		}
		return str(asMap(requests[0]), "searchTerms")
	}
	total := func(m map[string]any) int {
		return integer(subMap(m, "searchInformation"), "totalResults")
	}
	a.web = func(raw any) any {
		m := asMap(raw)
		out := WebSearch{Engine: a.service, Type: "web_search", Query: query(m), TotalResults: total(m), Results: []WebResult{}}
		for _, item := range subSlice(m, "items") {
			it := asMap(item)
			if it == nil {
				continue
			}
			out.Results = append(out.Results, WebResult{
				Title:       str(it, "title"),
				Link:        str(it, "link"),
				Snippet:     str(it, "snippet"),
				DisplayLink: str(it, "displayLink"),
				CacheLink:   str(it, "cacheId"),
				MimeType:    str(it, "mime"),
				FileFormat:  str(it, "fileFormat"),
			})
		}
		return out
	}
	a.images = func(raw any) any {
		m := asMap(raw)
		out := ImageSearch{Engine: a.service, Type: "image_search", Query: query(m), TotalResults: total(m), Results: []ImageResult{}}
		for _, item := range subSlice(m, "items") {
			it := asMap(item)
			if it == nil {
				continue
			}
			img := subMap(it, "image")
			out.Results = append(out.Results, ImageResult{
				Title:           str(it, "title"),
				Link:            str(it, "link"),
				DisplayLink:     str(it, "displayLink"),
				MimeType:        str(it, "mime"),
				FileFormat:      str(it, "fileFormat"),
				ContextLink:     str(img, "contextLink"),
				Width:           integer(img, "width"),
				Height:          integer(img, "height"),
				ThumbnailURL:    str(img, "thumbnailLink"),
				ThumbnailWidth:  integer(img, "thumbnailWidth"),
				ThumbnailHeight: integer(img, "thumbnailHeight"),
			})
		}
		return out
	}
	return a
}

// Bing (Web Search API shapes). The subscription key travels in the
// Ocp-Apim-Subscription-Key header rather than X-API-Key.

func newBingAdapter(deps Deps) Adapter {
	a := &searchEngineAdapter{base: newBase("bing", deps)}
	a.extraHeaders = func() map[string]string {
		if key := a.keys["subscription_key"]; key != "" {
			return map[string]string{"Ocp-Apim-Subscription-Key": key}
		}
		return nil
	}
	a.web = func(raw any) any {
		m := asMap(raw)
		webPages := subMap(m, "webPages")
		out := WebSearch{
			Engine:       a.service,
			Type:         "web_search",
			Query:        str(subMap(m, "queryContext"), "originalQuery"),
			TotalResults: integer(webPages, "totalEstimatedMatches"),
			Results:      []WebResult{},
		}
		for _, item := range subSlice(webPages, "value") {
			page := asMap(item)
			if page == nil {
				continue
			}
			out.Results = append(out.Results, WebResult{
				Title:       str(page, "name"),
				Link:        str(page, "url"),
				Snippet:     str(page, "snippet"),
				DisplayLink: str(page, "displayUrl"),
				LastCrawled: str(page, "dateLastCrawled"),
			})
		}
		return out
	}
	a.images = func(raw any) any {
		m := asMap(raw)
		out := ImageSearch{
			Engine:       a.service,
			Type:         "image_search",
			Query:        str(subMap(m, "queryContext"), "originalQuery"),
			TotalResults: integer(m, "totalEstimatedMatches"),
			Results:      []ImageResult{},
		}
		for _, item := range subSlice(m, "value") {
			img := asMap(item)
			if img == nil {
				continue
			}
			thumb := subMap(img, "thumbnail")
			out.Results = append(out.Results, ImageResult{
				Title:           str(img, "name"),
				Link:            str(img, "contentUrl"),
				HostPageURL:     str(img, "hostPageUrl"),
				DisplayLink:     str(img, "hostPageDisplayUrl"),
				ContentSize:     str(img, "contentSize"),
				Width:           integer(img, "width"),
				Height:          integer(img, "height"),
				ThumbnailURL:    str(img, "thumbnailUrl"),
				ThumbnailWidth:  integer(thumb, "width"),
				ThumbnailHeight: integer(thumb, "height"),
				InsightsToken:   str(img, "imageInsightsToken"),
			})
		}
		return out
	}
	return a
}

// DuckDuckGo (Instant Answer API shapes). There is no image API, so image
// searches report unsupported.

func newDuckDuckGoAdapter(deps Deps) Adapter {
	a := &searchEngineAdapter{base: newBase("duckduckgo", deps)}
	a.web = func(raw any) any {
		m := asMap(raw)
		out := WebSearch{
			Engine:  a.service,
			Type:    "web_search",
			Query:   str(m, "Heading"),
			Results: []WebResult{},
		}
		appendTopic := func(t map[string]any) {
			if t == nil || str(t, "FirstURL") == "" {
				return
			}
			out.Results = append(out.Results, WebResult{
				Title:   str(t, "Text"),
				Link:    str(t, "FirstURL"),
				Snippet: str(t, "Text"),
			})
		}
		if abstract := str(m, "AbstractURL"); abstract != "" {
			out.Results = append(out.Results, WebResult{
				Title:   str(m, "Heading"),
				Link:    abstract,
				Snippet: str(m, "AbstractText"),
			})
		}
		for _, item := range subSlice(m, "Results") {
			appendTopic(asMap(item))
		}
		for _, item := range subSlice(m, "RelatedTopics") {
			topic := asMap(item)
			if topic == nil {
				continue
			}
			// Related topics may be grouped one level deeper.
			if nested := subSlice(topic, "Topics"); len(nested) > 0 {
				for _, n := range nested {
					appendTopic(asMap(n))
				}
				continue
			}
			appendTopic(topic)
		}
		out.TotalResults = len(out.Results)
		return out
	}
	return a
}
