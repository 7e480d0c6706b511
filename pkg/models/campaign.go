package models

import (
	"time"
)

// CampaignStatus is the lifecycle state of a campaign.
// Transitions run strictly forward: pending -> running -> one of the
// terminal states. A terminal status is never left again.
type CampaignStatus string

const (
	StatusPending   CampaignStatus = "pending"
	StatusRunning   CampaignStatus = "running"
	StatusCompleted CampaignStatus = "completed"
	StatusFailed    CampaignStatus = "failed"
	StatusStopped   CampaignStatus = "stopped"
)

// Terminal reports whether the status is one of the end states.
func (s CampaignStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusStopped:
		return true
	}
	return false
}

// CampaignConfig describes one attack campaign to run
type CampaignConfig struct {
	AttackType     string        `json:"attack_type" yaml:"attack_type"`         // phishing, malware or any other type
	Target         string        `json:"target" yaml:"target"`                   // Named target of the campaign
	Defenses       []string      `json:"defenses" yaml:"defenses"`               // Active defensive control names
	StageDelay     time.Duration `json:"stage_delay" yaml:"stage_delay"`         // Pause between stages; 0 means per-stage default
	AttackDuration time.Duration `json:"attack_duration" yaml:"attack_duration"` // Wall-clock bound; 0 means registry default
}

// CampaignMetrics holds the running counters of a campaign
type CampaignMetrics struct {
	AttackSuccess  int     `json:"attack_success"`  // Stages that got past the defenses
	DefenseSuccess int     `json:"defense_success"` // Stages blocked by the defenses
	TotalEvents    int     `json:"total_events"`    // Stage events recorded so far
	RiskScore      float64 `json:"risk_score"`      // attack_success / total_events, in [0,1]
}

// CampaignSnapshot is a read-only view of a campaign handed to callers.
// It is safe to retain: the worker never writes through it.
type CampaignSnapshot struct {
	ID         string          `json:"id"`
	Status     CampaignStatus  `json:"status"`
	AttackType string          `json:"attack_type"`
	Target     string          `json:"target"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    *time.Time      `json:"end_time,omitempty"`
	Duration   time.Duration   `json:"duration"`
	Metrics    CampaignMetrics `json:"metrics"`
	EventCount int             `json:"event_count"`
	RiskLevel  string          `json:"risk_level"`
	Error      string          `json:"error,omitempty"`
}

// RiskLevel discretizes a risk score into a named level
func RiskLevel(score float64) string {
	switch {
	case score >= 0.8:
		return "critical"
	case score >= 0.6:
		return "high"
	case score >= 0.4:
		return "medium"
	case score >= 0.2:
		return "low"
	default:
		return "minimal"
	}
}
