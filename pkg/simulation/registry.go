package simulation

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dark-Vol/llm-attack-simulation/pkg/defense"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/events"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/metrics"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/models"
)

// RegistryConfig holds the registry settings and its substitutable
// collaborators. Zero collaborators fall back to production defaults.
type RegistryConfig struct {
	MaxConcurrent  int              // Running-campaign limit
	AttackDuration time.Duration    // Default soft wall-clock bound per campaign
	AlertThreshold float64          // Risk score above which alerts fire
	StageDelay     time.Duration    // Override pause between stages; 0 uses per-stage defaults
	Clock          Clock            // Timestamp source, nil means system clock
	Rand           Rand             // Uniform draw source, nil means time-seeded
	Metrics        *metrics.Metrics // Optional Prometheus collectors
}

// DefaultRegistryConfig returns the standard settings
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		MaxConcurrent:  5,
		AttackDuration: 300 * time.Second,
		AlertThreshold: 0.8,
	}
}

// Registry owns the set of campaigns. It enforces the concurrency
// limit, schedules one worker goroutine per campaign and hands out
// read-only snapshots. The two maps are the only shared state; both are
// guarded by the mutex, and no lock is ever held across a stage loop.
type Registry struct {
	config  RegistryConfig
	catalog *defense.Catalog
	sink    events.Sink
	logger  *logrus.Logger

	mu        sync.RWMutex
	campaigns map[string]*campaign // all campaigns, terminal ones included
	running   map[string]*campaign // currently running subset

	wg sync.WaitGroup
}

// NewRegistry creates a campaign registry
func NewRegistry(cfg RegistryConfig, catalog *defense.Catalog, sink events.Sink, logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.New()
	}
	if catalog == nil {
		catalog = defense.DefaultCatalog()
	}
	if sink == nil {
		sink = events.NewLogrusSink(logger)
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}
	if cfg.AttackDuration <= 0 {
		cfg.AttackDuration = 300 * time.Second
	}
	if cfg.AlertThreshold <= 0 {
		cfg.AlertThreshold = 0.8
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Rand == nil {
		cfg.Rand = NewTimeSeededRand()
	}

	return &Registry{
		config:    cfg,
		catalog:   catalog,
		sink:      sink,
		logger:    logger,
		campaigns: make(map[string]*campaign),
		running:   make(map[string]*campaign),
	}
}

// Start validates capacity, registers a new campaign and schedules its
// worker. It returns immediately; the campaign runs independently.
func (r *Registry) Start(cfg models.CampaignConfig, callback CompletionCallback) (string, error) {
	id := "sim_" + uuid.NewString()
	c := newCampaign(id, cfg, callback)

	r.mu.Lock()
	if len(r.running) >= r.config.MaxConcurrent {
		r.mu.Unlock()
		return "", fmt.Errorf("%w (limit %d)", ErrCapacityExceeded, r.config.MaxConcurrent)
	}
	r.campaigns[id] = c
	r.running[id] = c
	r.mu.Unlock()

	c.begin(r.config.Clock.Now())
	r.config.Metrics.CampaignStarted()

	r.logger.WithFields(logrus.Fields{
		"campaign":    id,
		"attack_type": cfg.AttackType,
		"target":      cfg.Target,
	}).Info("campaign started")

	r.wg.Add(1)
	go r.runCampaign(c)

	return id, nil
}

// runCampaign is the campaign worker. Any panic inside the stage loop
// is captured into the campaign record; the registry and the other
// campaigns are never affected.
func (r *Registry) runCampaign(c *campaign) {
	defer r.wg.Done()

	machine := &stageMachine{
		catalog:    r.catalog,
		sink:       r.sink,
		clock:      r.config.Clock,
		rng:        r.config.Rand,
		risk:       NewRiskAccumulator(r.config.AlertThreshold),
		stats:      r.config.Metrics,
		logger:     r.logger.WithField("campaign", c.id),
		stageDelay: r.config.StageDelay,
		duration:   r.config.AttackDuration,
	}

	status := models.StatusFailed
	errMsg := ""
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				status = models.StatusFailed
				errMsg = fmt.Sprintf("campaign worker failure: %v", rec)
			}
		}()
		status = machine.run(c)
	}()

	r.finalize(c, status, errMsg)
}

// finalize moves the campaign to its terminal state, removes it from
// the running set and invokes the completion callback exactly once.
func (r *Registry) finalize(c *campaign, status models.CampaignStatus, errMsg string) {
	now := r.config.Clock.Now()
	c.finish(status, errMsg, now)

	r.mu.Lock()
	delete(r.running, c.id)
	r.mu.Unlock()

	r.config.Metrics.CampaignFinished(string(status))

	snap := c.snapshot(now)
	r.sink.Record(models.SimulationEvent{
		Timestamp:   now,
		EventType:   "campaign_" + string(status),
		Description: fmt.Sprintf("Campaign %s %s", c.id, status),
		Severity:    models.SeverityLow,
		Source:      eventSource,
		Target:      c.config.Target,
		Metadata: map[string]any{
			"duration":   snap.Duration.Seconds(),
			"risk_score": snap.Metrics.RiskScore,
			"error":      errMsg,
		},
	})

	r.invokeCallback(c, snap)

	r.logger.WithFields(logrus.Fields{
		"campaign": c.id,
		"status":   status,
		"duration": snap.Duration,
		"risk":     snap.Metrics.RiskScore,
	}).Info("campaign finished")
}

// invokeCallback runs the completion callback, isolating any panic
func (r *Registry) invokeCallback(c *campaign, snap models.CampaignSnapshot) {
	if c.callback == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.sink.Record(models.SimulationEvent{
				Timestamp:   r.config.Clock.Now(),
				EventType:   "callback_error",
				Description: fmt.Sprintf("Completion callback failed: %v", rec),
				Severity:    models.SeverityMedium,
				Source:      eventSource,
				Target:      c.id,
			})
			r.logger.WithField("campaign", c.id).Warnf("completion callback panicked: %v", rec)
		}
	}()
	c.callback(snap)
}

// Stop marks a running campaign for cooperative stop. The flag is
// observed at the next stage boundary. Returns false for unknown or
// already-terminal campaigns.
func (r *Registry) Stop(id string) bool {
	r.mu.RLock()
	c, ok := r.campaigns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if !c.requestStop() {
		return false
	}
	r.logger.WithField("campaign", id).Info("campaign stop requested")
	return true
}

// Status returns a snapshot of the campaign, or ErrUnknownCampaign
func (r *Registry) Status(id string) (models.CampaignSnapshot, error) {
	r.mu.RLock()
	c, ok := r.campaigns[id]
	r.mu.RUnlock()
	if !ok {
		return models.CampaignSnapshot{}, ErrUnknownCampaign
	}
	return c.snapshot(r.config.Clock.Now()), nil
}

// Events returns a copy of the campaign's event log
func (r *Registry) Events(id string) ([]models.SimulationEvent, error) {
	r.mu.RLock()
	c, ok := r.campaigns[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownCampaign
	}
	return c.eventsCopy(), nil
}

// ListRunning returns the ids of currently running campaigns, sorted
func (r *Registry) ListRunning() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.running))
	for id := range r.running {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SystemStats summarizes all campaigns the registry has seen
type SystemStats struct {
	TotalCampaigns     int     `json:"total_campaigns"`
	CompletedCampaigns int     `json:"completed_campaigns"`
	FailedCampaigns    int     `json:"failed_campaigns"`
	StoppedCampaigns   int     `json:"stopped_campaigns"`
	RunningCampaigns   int     `json:"running_campaigns"`
	AverageRiskScore   float64 `json:"average_risk_score"`
	MaxConcurrent      int     `json:"max_concurrent"`
	AttackDuration     float64 `json:"attack_duration"` // seconds
}

// Stats returns aggregate statistics. The average risk score covers
// completed campaigns only.
func (r *Registry) Stats() SystemStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := SystemStats{
		TotalCampaigns: len(r.campaigns),
		MaxConcurrent:  r.config.MaxConcurrent,
		AttackDuration: r.config.AttackDuration.Seconds(),
	}

	riskSum := 0.0
	for _, c := range r.campaigns {
		snap := c.snapshot(r.config.Clock.Now())
		switch snap.Status {
		case models.StatusCompleted:
			stats.CompletedCampaigns++
			riskSum += snap.Metrics.RiskScore
		case models.StatusFailed:
			stats.FailedCampaigns++
		case models.StatusStopped:
			stats.StoppedCampaigns++
		case models.StatusRunning:
			stats.RunningCampaigns++
		}
	}
	if stats.CompletedCampaigns > 0 {
		stats.AverageRiskScore = riskSum / float64(stats.CompletedCampaigns)
	}
	return stats
}

// ClearHistory removes terminal campaigns from the registry. Running
// campaigns are kept.
func (r *Registry) ClearHistory() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, c := range r.campaigns {
		c.mu.RLock()
		terminal := c.status.Terminal()
		c.mu.RUnlock()
		if terminal {
			delete(r.campaigns, id)
			removed++
		}
	}
	return removed
}

// Wait blocks until every scheduled campaign worker has finished
func (r *Registry) Wait() {
	r.wg.Wait()
}
