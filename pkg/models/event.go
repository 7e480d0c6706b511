package models

import (
	"time"
)

// Severity classifies how serious a simulation event is
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SimulationEvent is a single record produced during a simulation.
// Events are append-only: once recorded they are never mutated or removed.
type SimulationEvent struct {
	Timestamp   time.Time      `json:"timestamp"`    // When the event occurred
	EventType   string         `json:"event_type"`   // Event tag, e.g. "stage_delivery" or "alert"
	Description string         `json:"description"`  // Human-readable summary
	Severity    Severity       `json:"severity"`     // low, medium, high or critical
	Source      string         `json:"source"`       // Component that produced the event
	Target      string         `json:"target"`       // Target of the simulated action
	Metadata    map[string]any `json:"metadata,omitempty"` // Open key-value details
}
