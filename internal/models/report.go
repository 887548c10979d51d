package models

import "time"

// ReportType selects what a generated report covers.
type ReportType string

const (
	ReportTypeSummary        ReportType = "summary"
	ReportTypeDetailed       ReportType = "detailed"
	ReportTypeAssetInventory ReportType = "asset_inventory"
	ReportTypeTimeline       ReportType = "timeline"
)

// ReportFormat selects the output rendering.
type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatHTML ReportFormat = "html"
)

// Report is a generated document summarizing findings for a target.
type Report struct {
	ID        string       `json:"id"`
	TargetID  string       `json:"target_id"`
	Name      string       `json:"name"`
	Type      ReportType   `json:"report_type"`
	Format    ReportFormat `json:"format_type"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}
