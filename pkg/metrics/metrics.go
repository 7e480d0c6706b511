package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the simulator. All
// observer methods are nil-safe so instrumentation stays optional.
type Metrics struct {
	campaignsStarted   prometheus.Counter
	campaignsFinished  *prometheus.CounterVec
	runningCampaigns   prometheus.Gauge
	stageOutcomes      *prometheus.CounterVec
	alertsTriggered    prometheus.Counter
	networkAttacks     *prometheus.CounterVec
	networkIntegrity   prometheus.Gauge
	compromisedNodes   prometheus.Gauge
}

// New registers the simulator collectors with the given registerer
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		campaignsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "simulator_campaigns_started_total",
			Help: "Number of attack campaigns started.",
		}),
		campaignsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "simulator_campaigns_finished_total",
			Help: "Number of attack campaigns finished, by terminal status.",
		}, []string{"status"}),
		runningCampaigns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulator_campaigns_running",
			Help: "Number of campaigns currently running.",
		}),
		stageOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "simulator_stage_outcomes_total",
			Help: "Kill-chain stage outcomes, by result.",
		}, []string{"result"}),
		alertsTriggered: factory.NewCounter(prometheus.CounterOpts{
			Name: "simulator_risk_alerts_total",
			Help: "Critical risk alerts emitted by campaigns.",
		}),
		networkAttacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "simulator_network_attacks_total",
			Help: "Simulated attacks against the synthetic network, by result.",
		}, []string{"result"}),
		networkIntegrity: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulator_network_integrity",
			Help: "Aggregate integrity of the synthetic network, 0 to 1.",
		}),
		compromisedNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulator_network_compromised_nodes",
			Help: "Number of compromised nodes in the synthetic network.",
		}),
	}
}

// CampaignStarted records a campaign start
func (m *Metrics) CampaignStarted() {
	if m == nil {
		return
	}
	m.campaignsStarted.Inc()
	m.runningCampaigns.Inc()
}

// CampaignFinished records a campaign reaching a terminal status
func (m *Metrics) CampaignFinished(status string) {
	if m == nil {
		return
	}
	m.campaignsFinished.WithLabelValues(status).Inc()
	m.runningCampaigns.Dec()
}

// StageOutcome records one kill-chain stage result
func (m *Metrics) StageOutcome(success bool) {
	if m == nil {
		return
	}
	if success {
		m.stageOutcomes.WithLabelValues("attack_success").Inc()
	} else {
		m.stageOutcomes.WithLabelValues("defense_success").Inc()
	}
}

// AlertTriggered records one critical risk alert
func (m *Metrics) AlertTriggered() {
	if m == nil {
		return
	}
	m.alertsTriggered.Inc()
}

// NetworkAttack records one simulated network attack
func (m *Metrics) NetworkAttack(success bool) {
	if m == nil {
		return
	}
	if success {
		m.networkAttacks.WithLabelValues("success").Inc()
	} else {
		m.networkAttacks.WithLabelValues("blocked").Inc()
	}
}

// NetworkState updates the integrity and compromise gauges
func (m *Metrics) NetworkState(integrity float64, compromised int) {
	if m == nil {
		return
	}
	m.networkIntegrity.Set(integrity)
	m.compromisedNodes.Set(float64(compromised))
}
