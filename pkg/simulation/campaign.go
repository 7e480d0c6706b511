package simulation

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dark-Vol/llm-attack-simulation/pkg/models"
)

// CompletionCallback is invoked exactly once when a campaign reaches a
// terminal state. A panicking callback is caught and reported through
// the event sink; it never affects the campaign's finalization.
type CompletionCallback func(models.CampaignSnapshot)

// campaign is the registry's record of one simulation run. The worker
// goroutine is the only writer while the campaign runs; everyone else
// reads through snapshot().
type campaign struct {
	mu       sync.RWMutex
	id       string
	config   models.CampaignConfig
	status   models.CampaignStatus
	start    time.Time
	end      time.Time
	events   []models.SimulationEvent
	metrics  models.CampaignMetrics
	errMsg   string
	callback CompletionCallback
	stop     atomic.Bool
}

func newCampaign(id string, cfg models.CampaignConfig, callback CompletionCallback) *campaign {
	return &campaign{
		id:       id,
		config:   cfg,
		status:   models.StatusPending,
		callback: callback,
	}
}

// begin moves the campaign from pending to running
func (c *campaign) begin(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = models.StatusRunning
	c.start = now
}

// finish moves the campaign into a terminal state. It is a no-op if the
// campaign is already terminal.
func (c *campaign) finish(status models.CampaignStatus, errMsg string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.Terminal() {
		return
	}
	c.status = status
	c.errMsg = errMsg
	c.end = now
}

// requestStop sets the cooperative stop flag. Returns true only if the
// campaign was still running; the flag is observed at the next stage
// boundary, so an in-flight stage runs to completion first.
func (c *campaign) requestStop() bool {
	c.mu.RLock()
	running := c.status == models.StatusRunning
	c.mu.RUnlock()
	if !running {
		return false
	}
	c.stop.Store(true)
	return true
}

func (c *campaign) stopRequested() bool {
	return c.stop.Load()
}

// appendEvent adds an event to the campaign log. Metrics are updated
// separately by recordStage; alert events do not count as stage events.
func (c *campaign) appendEvent(event models.SimulationEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// recordStage updates the stage counters for one stage outcome
func (c *campaign) recordStage(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.TotalEvents++
	if success {
		c.metrics.AttackSuccess++
	} else {
		c.metrics.DefenseSuccess++
	}
}

// metricsCopy returns the current metrics by value
func (c *campaign) metricsCopy() models.CampaignMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

// setRiskScore stores a freshly computed risk score
func (c *campaign) setRiskScore(score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.RiskScore = score
}

// snapshot returns a consistent read-only view of the campaign. The
// duration of a still-running campaign is measured against now.
func (c *campaign) snapshot(now time.Time) models.CampaignSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := models.CampaignSnapshot{
		ID:         c.id,
		Status:     c.status,
		AttackType: c.config.AttackType,
		Target:     c.config.Target,
		StartTime:  c.start,
		Metrics:    c.metrics,
		EventCount: len(c.events),
		RiskLevel:  models.RiskLevel(c.metrics.RiskScore),
		Error:      c.errMsg,
	}

	if !c.end.IsZero() {
		end := c.end
		snap.EndTime = &end
		snap.Duration = c.end.Sub(c.start)
	} else if !c.start.IsZero() {
		snap.Duration = now.Sub(c.start)
	}
	return snap
}

// eventsCopy returns a copy of the event log
func (c *campaign) eventsCopy() []models.SimulationEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.SimulationEvent, len(c.events))
	copy(out, c.events)
	return out
}
