package simulation

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dark-Vol/llm-attack-simulation/pkg/defense"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/events"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/metrics"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/models"
)

const eventSource = "attack_simulator"

// stageMachine drives one campaign through its kill-chain stages. Each
// campaign worker owns exactly one machine; nothing here is shared.
type stageMachine struct {
	catalog    *defense.Catalog
	sink       events.Sink
	clock      Clock
	rng        Rand
	risk       *RiskAccumulator
	stats      *metrics.Metrics
	logger     *logrus.Entry
	stageDelay time.Duration // override for every stage; 0 uses the stage's own duration
	duration   time.Duration // soft wall-clock bound for the whole campaign
}

// Stage thresholds that end a campaign early
const (
	attackSuccessLimit  = 5
	defenseSuccessLimit = 3
)

// run executes the stage loop and returns the terminal status the
// campaign should take. The stop flag is observed only at stage
// boundaries; an in-flight stage always runs to completion.
func (m *stageMachine) run(c *campaign) models.CampaignStatus {
	stages := StagesFor(c.config.AttackType)
	modifier := m.catalog.Modifier(c.config.Defenses)

	for _, stage := range stages {
		if c.stopRequested() {
			return models.StatusStopped
		}

		m.executeStage(c, stage, modifier)

		if m.shouldStop(c) {
			return models.StatusCompleted
		}
		if c.stopRequested() {
			return models.StatusStopped
		}

		// Suspends only this worker; the registry and other
		// campaigns keep running.
		time.Sleep(m.delayFor(c, stage))
	}

	return models.StatusCompleted
}

// executeStage plays out a single kill-chain stage: the attack attempt
// draw, the defense draw, the resulting event and the risk update.
func (m *stageMachine) executeStage(c *campaign, stage Stage, modifier float64) {
	attempt := m.rng.Float64() < stage.SuccessRate
	blocked := m.rng.Float64() <= modifier
	success := attempt && !blocked

	c.recordStage(success)
	m.stats.StageOutcome(success)

	severity := models.SeverityMedium
	description := fmt.Sprintf("Stage '%s' blocked by defenses", stage.Description)
	if success {
		severity = models.SeverityHigh
		description = fmt.Sprintf("Stage '%s' executed successfully", stage.Description)
	}

	event := models.SimulationEvent{
		Timestamp:   m.clock.Now(),
		EventType:   "stage_" + stage.Name,
		Description: description,
		Severity:    severity,
		Source:      eventSource,
		Target:      c.config.Target,
		Metadata: map[string]any{
			"stage":            stage.Name,
			"success":          success,
			"defense_modifier": modifier,
		},
	}
	c.appendEvent(event)
	m.sink.Record(event)

	mcopy := c.metricsCopy()
	score, alert := m.risk.Update(&mcopy)
	c.setRiskScore(score)

	if alert {
		m.triggerAlert(c, score)
	}

	m.logger.WithFields(logrus.Fields{
		"stage":   stage.Name,
		"success": success,
		"risk":    score,
	}).Debug("stage executed")
}

// triggerAlert appends one critical alert event. Fires on every stage
// whose score exceeds the threshold; duplicates are intentional.
func (m *stageMachine) triggerAlert(c *campaign, score float64) {
	alert := models.SimulationEvent{
		Timestamp:   m.clock.Now(),
		EventType:   "alert",
		Description: fmt.Sprintf("High risk level: %.2f", score),
		Severity:    models.SeverityCritical,
		Source:      eventSource,
		Target:      "system",
		Metadata: map[string]any{
			"risk_score": score,
			"threshold":  m.risk.Threshold(),
		},
	}
	c.appendEvent(alert)
	m.sink.Record(alert)
	m.stats.AlertTriggered()

	m.logger.WithField("risk_score", score).Warn("campaign risk above alert threshold")
}

// shouldStop checks the early-termination conditions after a stage
func (m *stageMachine) shouldStop(c *campaign) bool {
	mc := c.metricsCopy()
	if mc.AttackSuccess >= attackSuccessLimit {
		return true
	}
	if mc.DefenseSuccess >= defenseSuccessLimit {
		return true
	}

	c.mu.RLock()
	start := c.start
	c.mu.RUnlock()
	return m.clock.Now().Sub(start) > m.campaignDuration(c)
}

func (m *stageMachine) campaignDuration(c *campaign) time.Duration {
	if c.config.AttackDuration > 0 {
		return c.config.AttackDuration
	}
	return m.duration
}

func (m *stageMachine) delayFor(c *campaign, stage Stage) time.Duration {
	if c.config.StageDelay > 0 {
		return c.config.StageDelay
	}
	if m.stageDelay > 0 {
		return m.stageDelay
	}
	return stage.Duration
}
