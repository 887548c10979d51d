package connectors

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
)

// defaultMatchThreshold is the similarity above which two images count as
// a match when the caller does not set one.
const defaultMatchThreshold = 0.8

// imageAdapter implements the url/file analysis split shared by the image
// services. File input travels base64 encoded in a JSON body.
type imageAdapter struct {
	base
	process func(raw any) any
}

func (a *imageAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	searchType := opts.SearchType
	if searchType == "" {
		searchType = "url"
	}

	switch searchType {
	case "url":
		if !validURL(query) {
			return nil, newError(ErrValidation, "invalid URL format: %s", query)
		}
		resp, err := a.get(ctx, a.settings.URLEndpoint, map[string]string{"url": query})
		if err != nil {
			return nil, err
		}
		return &Result{Service: a.service, Kind: "image_analysis", Data: a.process(resp.Body), Raw: resp.Body}, nil

	case "file":
		if _, err := base64.StdEncoding.DecodeString(query); err != nil {
			return nil, newError(ErrValidation, "invalid base64 encoded image data")
		}
		resp, err := a.post(ctx, a.settings.FileEndpoint, nil, map[string]string{"image": query})
		if err != nil {
			return nil, err
		}
		return &Result{Service: a.service, Kind: "image_analysis", Data: a.process(resp.Body), Raw: resp.Body}, nil

	default:
		return nil, a.unsupported("search type " + searchType)
	}
}

func (a *imageAdapter) ProcessData(raw any) *Result {
	if asMap(raw) == nil {
		return a.degraded("image_analysis", raw, "unrecognized payload shape")
	}
	return &Result{Service: a.service, Kind: "image_analysis", Data: a.process(raw), Raw: raw}
}

func (a *imageAdapter) TestConnection(ctx context.Context) (bool, string) {
	_, err := a.Search(ctx, "https://www.example.com/test.jpg", SearchOptions{SearchType: "url"})
	if err != nil {
		return false, fmt.Sprintf("%s service connection failed: %v", a.service, err)
	}
	return true, fmt.Sprintf("%s service connection successful", a.service)
}

// EXIF extraction

type ExifCamera struct {
	Make     string `json:"make"`
	Model    string `json:"model"`
	Software string `json:"software"`
}

type ExifLocation struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Altitude     float64 `json:"altitude"`
	LocationName string  `json:"location_name"`
}

type ExifTime struct {
	DateTimeOriginal  string `json:"date_time_original"`
	DateTimeDigitized string `json:"date_time_digitized"`
	DateTime          string `json:"date_time"`
}

type ExifPhoto struct {
	ExposureTime string `json:"exposure_time,omitempty"`
	FNumber      string `json:"f_number,omitempty"`
	ISO          string `json:"iso,omitempty"`
	FocalLength  string `json:"focal_length,omitempty"`
}

type ExifSummary struct {
	Camera   *ExifCamera    `json:"camera,omitempty"`
	Location *ExifLocation  `json:"location,omitempty"`
	Time     *ExifTime      `json:"time,omitempty"`
	Photo    *ExifPhoto     `json:"photo_info,omitempty"`
	All      map[string]any `json:"all"`
}

type ExifExtraction struct {
	Service  string       `json:"service"`
	Type     string       `json:"type"`
	Filename string       `json:"filename"`
	MimeType string       `json:"mime_type"`
	FileSize int          `json:"file_size"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	HasExif  bool         `json:"has_exif"`
	Exif     *ExifSummary `json:"exif,omitempty"`
}

func newExifAdapter(deps Deps) Adapter {
	a := &imageAdapter{base: newBase("exif_extractor", deps)}
	a.process = func(raw any) any {
		m := asMap(raw)
		exifData := subMap(m, "exif")
		out := ExifExtraction{
			Service:  a.service,
			Type:     "exif_extraction",
			Filename: str(m, "filename"),
			MimeType: str(m, "mime_type"),
			FileSize: integer(m, "file_size"),
			Width:    integer(m, "width"),
			Height:   integer(m, "height"),
			HasExif:  len(exifData) > 0,
		}
		if len(exifData) == 0 {
			return out
		}

		summary := &ExifSummary{All: exifData}
		if _, hasMake := exifData["make"]; hasMake || exifData["model"] != nil {
			summary.Camera = &ExifCamera{
				Make:     str(exifData, "make"),
				Model:    str(exifData, "model"),
				Software: str(exifData, "software"),
			}
		}
		if exifData["gps_latitude"] != nil || exifData["gps_longitude"] != nil {
			summary.Location = &ExifLocation{
				Latitude:     float(exifData, "gps_latitude"),
				Longitude:    float(exifData, "gps_longitude"),
				Altitude:     float(exifData, "gps_altitude"),
				LocationName: str(exifData, "location_name"),
			}
		}
		if exifData["date_time_original"] != nil {
			summary.Time = &ExifTime{
				DateTimeOriginal:  str(exifData, "date_time_original"),
				DateTimeDigitized: str(exifData, "date_time_digitized"),
				DateTime:          str(exifData, "date_time"),
			}
		}
		photo := &ExifPhoto{
			ExposureTime: str(exifData, "exposure_time"),
			FNumber:      str(exifData, "f_number"),
			ISO:          str(exifData, "iso_speed_ratings"),
			FocalLength:  str(exifData, "focal_length"),
		}
		if *photo != (ExifPhoto{}) {
			summary.Photo = photo
		}
		out.Exif = summary
		return out
	}
	return a
}

// Reverse image search

type ImageMatch struct {
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Website      string  `json:"website"`
	Similarity   float64 `json:"similarity_score"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
}

type ReverseImageSearch struct {
	Service      string       `json:"service"`
	Type         string       `json:"type"`
	QueryImage   string       `json:"query_image"`
	TotalMatches int          `json:"total_matches"`
	Matches      []ImageMatch `json:"matches"`
}

func newReverseImageAdapter(deps Deps) Adapter {
	a := &imageAdapter{base: newBase("reverse_image_search", deps)}
	a.process = func(raw any) any {
		m := asMap(raw)
		matches := subSlice(m, "matches")
		out := ReverseImageSearch{
			Service:      a.service,
			Type:         "reverse_image_search",
			QueryImage:   str(m, "query_image"),
			TotalMatches: len(matches),
			Matches:      []ImageMatch{},
		}
		for _, item := range matches {
			match := asMap(item)
			if match == nil {
				continue
			}
			out.Matches = append(out.Matches, ImageMatch{
				URL:          str(match, "url"),
				Title:        str(match, "title"),
				Description:  str(match, "description"),
				Website:      str(match, "website"),
				Similarity:   float(match, "similarity_score"),
				ThumbnailURL: str(match, "thumbnail_url"),
				Width:        integer(match, "width"),
				Height:       integer(match, "height"),
			})
		}
		// Stable so equal scores keep the provider's ordering.
		sort.SliceStable(out.Matches, func(i, j int) bool {
			return out.Matches[i].Similarity > out.Matches[j].Similarity
		})
		return out
	}
	return a
}

// Image comparison

type ComparisonMetrics struct {
	Structural float64 `json:"structural_similarity"`
	Histogram  float64 `json:"histogram_similarity"`
	Features   float64 `json:"feature_match"`
}

type ImageComparison struct {
	Service   string            `json:"service"`
	Type      string            `json:"type"`
	ImageA    string            `json:"image_a"`
	ImageB    string            `json:"image_b"`
	Score     float64           `json:"similarity_score"`
	Threshold float64           `json:"threshold"`
	IsMatch   bool              `json:"is_match"`
	Metrics   ComparisonMetrics `json:"metrics"`
}

type imageComparisonAdapter struct {
	base
	threshold float64
}

func newImageComparisonAdapter(deps Deps) Adapter {
	return &imageComparisonAdapter{
		base:      newBase("image_comparison", deps),
		threshold: defaultMatchThreshold,
	}
}

// Search compares the query image against opts.CompareTo. Both sides are
// URLs; the match verdict applies opts.Threshold when set.
func (a *imageComparisonAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	if !validURL(query) {
		return nil, newError(ErrValidation, "invalid URL format: %s", query)
	}
	if opts.CompareTo == "" {
		return nil, newError(ErrValidation, "comparison requires a second image")
	}
	if !validURL(opts.CompareTo) {
		return nil, newError(ErrValidation, "invalid URL format: %s", opts.CompareTo)
	}
	resp, err := a.post(ctx, a.settings.CompareEndpoint, nil, map[string]string{
		"image_a": query,
		"image_b": opts.CompareTo,
	})
	if err != nil {
		return nil, err
	}
	return a.processWithThreshold(resp.Body, opts.Threshold), nil
}

func (a *imageComparisonAdapter) processWithThreshold(raw any, threshold float64) *Result {
	m := asMap(raw)
	if m == nil {
		return a.degraded("image_comparison", raw, "unrecognized payload shape")
	}
	if threshold <= 0 {
		threshold = a.threshold
	}
	metrics := subMap(m, "metrics")
	comparison := ImageComparison{
		Service:   a.service,
		Type:      "image_comparison",
		ImageA:    str(m, "image_a"),
		ImageB:    str(m, "image_b"),
		Score:     float(m, "similarity_score"),
		Threshold: threshold,
		Metrics: ComparisonMetrics{
			Structural: float(metrics, "structural_similarity"),
			Histogram:  float(metrics, "histogram_similarity"),
			Features:   float(metrics, "feature_match"),
		},
	}
	comparison.IsMatch = comparison.Score >= threshold
	return &Result{Service: a.service, Kind: "image_comparison", Data: comparison, Raw: raw}
}

func (a *imageComparisonAdapter) ProcessData(raw any) *Result {
	return a.processWithThreshold(raw, 0)
}

func (a *imageComparisonAdapter) TestConnection(ctx context.Context) (bool, string) {
	_, err := a.Search(ctx, "https://www.example.com/a.jpg", SearchOptions{
		CompareTo: "https://www.example.com/b.jpg",
	})
	if err != nil {
		return false, fmt.Sprintf("image comparison service connection failed: %v", err)
	}
	return true, "image comparison service connection successful"
}
