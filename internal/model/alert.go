package model

import "time"

// AlertType identifies which detection rule produced an alert.
type AlertType string

var (
	AlertTargetAmount   AlertType = "target_amount"
	AlertPatternAnomaly AlertType = "pattern_anomaly"
	AlertLargeTransfer  AlertType = "large_transfer"
	AlertTest           AlertType = "test"
)

// Severity ranks how urgent an alert is.
type Severity string

var (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AlertEvent is one alert produced by the router. It only exists long enough
// to be dispatched and handed to the store.
type AlertEvent struct {
	Type     AlertType
	Severity Severity
	Message  string
	TxHash   string
	SentAt   time.Time
}
