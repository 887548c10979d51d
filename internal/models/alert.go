package models

import "time"

// AlertSeverity grades how urgent an alert is.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus tracks an alert through triage.
type AlertStatus string

const (
	AlertStatusNew           AlertStatus = "new"
	AlertStatusAcknowledged  AlertStatus = "acknowledged"
	AlertStatusResolved      AlertStatus = "resolved"
	AlertStatusFalsePositive AlertStatus = "false_positive"
)

// Alert notifies about a change to, or a finding on, a monitored asset.
type Alert struct {
	ID          string        `json:"id"`
	TargetID    string        `json:"target_id"`
	AssetID     string        `json:"asset_id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Severity    AlertSeverity `json:"severity"`
	Status      AlertStatus   `json:"status"`

	PreviousValue string `json:"previous_value,omitempty"`
	CurrentValue  string `json:"current_value,omitempty"`

	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}
