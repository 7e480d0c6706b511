package simulation

import (
	"github.com/Dark-Vol/llm-attack-simulation/pkg/models"
)

// RiskAccumulator tracks the rolling risk score of one campaign and
// decides when a critical alert fires. Alerts are not deduplicated:
// every stage that leaves the score above the threshold fires again, so
// the event log shows how long the campaign stayed hot.
type RiskAccumulator struct {
	threshold float64
	alerts    int
}

// NewRiskAccumulator creates an accumulator with the given alert threshold
func NewRiskAccumulator(threshold float64) *RiskAccumulator {
	return &RiskAccumulator{threshold: threshold}
}

// Update recomputes the risk score from the metrics, stores it back and
// reports whether an alert should fire. The score is attack successes
// over total events, 0 while no events exist.
func (r *RiskAccumulator) Update(m *models.CampaignMetrics) (float64, bool) {
	score := 0.0
	if m.TotalEvents > 0 {
		score = float64(m.AttackSuccess) / float64(m.TotalEvents)
	}
	m.RiskScore = score

	if score > r.threshold {
		r.alerts++
		return score, true
	}
	return score, false
}

// Threshold returns the configured alert threshold
func (r *RiskAccumulator) Threshold() float64 { return r.threshold }

// Alerts returns how many alerts have fired so far
func (r *RiskAccumulator) Alerts() int { return r.alerts }
