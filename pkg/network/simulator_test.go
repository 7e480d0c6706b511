package network

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand returns a scripted Float64 sequence and always Intn 0
type fixedRand struct {
	values []float64
	idx    int
}

func (r *fixedRand) Float64() float64 {
	v := r.values[r.idx%len(r.values)]
	r.idx++
	return v
}

func (r *fixedRand) Intn(n int) int { return 0 }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func seededSimulator(seed int64) *Simulator {
	return NewSimulator(rand.New(rand.NewSource(seed)), quietLogger())
}

func TestCreateNetworkCounts(t *testing.T) {
	sim := seededSimulator(42)

	nodes, err := sim.CreateNetwork(5)
	require.NoError(t, err)
	assert.Len(t, nodes, 5)

	// Spanning structure guarantees at least n-1 edges; the fill stops
	// at min(2n, 50)
	assert.GreaterOrEqual(t, sim.ConnectionCount(), 4)
	assert.LessOrEqual(t, sim.ConnectionCount(), 10)
}

func TestCreateNetworkNodeInvariants(t *testing.T) {
	sim := seededSimulator(7)

	nodes, err := sim.CreateNetwork(50)
	require.NoError(t, err)

	for _, node := range nodes {
		assert.GreaterOrEqual(t, node.SecurityLevel, 0.1)
		assert.LessOrEqual(t, node.SecurityLevel, 1.0)
		assert.False(t, node.Compromised)
		assert.LessOrEqual(t, len(node.Vulnerabilities), 1)
		for _, v := range node.Vulnerabilities {
			assert.Greater(t, v.Severity, 0.0)
			assert.LessOrEqual(t, v.Severity, 1.0)
			assert.Contains(t, vulnerabilityTypes, v.Type)
		}
	}

	assert.LessOrEqual(t, sim.ConnectionCount(), 50)
}

func TestCreateNetworkSmallTopologies(t *testing.T) {
	sim := seededSimulator(3)

	nodes, err := sim.CreateNetwork(1)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Equal(t, 0, sim.ConnectionCount())

	// Two nodes can only ever share one edge; the fill loop must not spin
	nodes, err = sim.CreateNetwork(2)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, 1, sim.ConnectionCount())
	assert.True(t, sim.Connected(nodes[0].ID, nodes[1].ID))
}

func TestCreateNetworkRejectsBadCount(t *testing.T) {
	sim := seededSimulator(1)
	_, err := sim.CreateNetwork(0)
	assert.ErrorIs(t, err, ErrInvalidNodeCount)
	_, err = sim.CreateNetwork(-3)
	assert.ErrorIs(t, err, ErrInvalidNodeCount)
}

func TestAttackProbabilityFormula(t *testing.T) {
	// security_level 0.5, no vulnerabilities, exploit:
	// 0.3 + 0.6 + 0 + (1-0.5)*0.3 = 1.05, clamped to 0.95
	node := &Node{ID: "server_1", Type: NodeTypeServer, SecurityLevel: 0.5}
	assert.InDelta(t, 0.95, AttackProbability("exploit", node), 1e-9)

	// Fully secure node, weakest attack type
	strong := &Node{ID: "db_1", Type: NodeTypeDatabase, SecurityLevel: 1.0}
	assert.InDelta(t, 0.3+0.2+0.0+0.0, AttackProbability("brute_force", strong), 1e-9)

	// Unknown attack types fall back to the default modifier
	assert.InDelta(t, 0.3+0.3+0.0+0.0, AttackProbability("quantum", strong), 1e-9)
}

func TestAttackProbabilityAlwaysClamped(t *testing.T) {
	types := []string{"phishing", "brute_force", "exploit", "social_engineering", "other"}
	nodes := []*Node{
		{SecurityLevel: 0.1, Compromised: true, Vulnerabilities: []Vulnerability{
			{Type: "open_port", Severity: 0.8}, {Type: "weak_password", Severity: 0.8},
		}},
		{SecurityLevel: 1.0},
		{SecurityLevel: 0.5, Vulnerabilities: []Vulnerability{{Type: "misconfiguration", Severity: 0.4}}},
	}

	for _, attackType := range types {
		for _, node := range nodes {
			p := AttackProbability(attackType, node)
			assert.GreaterOrEqual(t, p, 0.05)
			assert.LessOrEqual(t, p, 0.95)
		}
	}
}

func TestSimulateAttackEmptyTopology(t *testing.T) {
	sim := seededSimulator(1)
	_, err := sim.SimulateAttack("phishing", "")
	assert.ErrorIs(t, err, ErrEmptyTopology)
}

func TestSimulateAttackUnknownTarget(t *testing.T) {
	sim := seededSimulator(1)
	_, err := sim.CreateNetwork(3)
	require.NoError(t, err)

	_, err = sim.SimulateAttack("phishing", "server_99")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestCompromiseIsMonotonic(t *testing.T) {
	// Draws above 0.95 always fail, draws below 0.05 always succeed
	rng := &fixedRand{values: []float64{0.99}}
	sim := NewSimulator(rng, quietLogger())

	node := &Node{ID: "user_1", Type: NodeTypeUser, SecurityLevel: 0.5}
	sim.nodes[node.ID] = node
	sim.order = append(sim.order, node.ID)

	// Repeated failures never compromise
	for i := 0; i < 5; i++ {
		outcome, err := sim.SimulateAttack("exploit", node.ID)
		require.NoError(t, err)
		assert.False(t, outcome.Success)
		assert.False(t, node.Compromised)
	}

	// One success compromises permanently
	rng.values = []float64{0.01}
	outcome, err := sim.SimulateAttack("exploit", node.ID)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.True(t, node.Compromised)

	rng.values = []float64{0.99}
	outcome, err = sim.SimulateAttack("exploit", node.ID)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.True(t, node.Compromised, "compromise flag must never reset")

	assert.Len(t, node.AttackHistory, 7)
	assert.Equal(t, 7, sim.NetworkStats().TotalAttacks)
	assert.Equal(t, 1, sim.NetworkStats().SuccessfulAttacks)
}

func TestSimulateAttackPicksRandomTarget(t *testing.T) {
	sim := seededSimulator(11)
	_, err := sim.CreateNetwork(5)
	require.NoError(t, err)

	outcome, err := sim.SimulateAttack("phishing", "")
	require.NoError(t, err)
	_, exists := sim.Node(outcome.TargetID)
	assert.True(t, exists)
}

func TestIntegrityBounds(t *testing.T) {
	sim := seededSimulator(1)

	// Empty topology scores perfect integrity
	assert.Equal(t, 1.0, sim.Integrity())

	_, err := sim.CreateNetwork(20)
	require.NoError(t, err)

	integrity := sim.Integrity()
	assert.GreaterOrEqual(t, integrity, 0.0)
	assert.LessOrEqual(t, integrity, 1.0)
}

func TestIntegrityDropsWithCompromise(t *testing.T) {
	sim := NewSimulator(&fixedRand{values: []float64{0.5}}, quietLogger())
	for i, level := range []float64{0.9, 0.8, 0.7} {
		id := fmt.Sprintf("server_%d", i+1)
		node := &Node{ID: id, Type: NodeTypeServer, SecurityLevel: level}
		sim.nodes[id] = node
		sim.order = append(sim.order, id)
	}

	before := sim.Integrity()
	assert.InDelta(t, 0.8, before, 1e-9)

	sim.nodes[sim.order[0]].recordAttack(time.Now(), "exploit", true, nil)
	after := sim.Integrity()
	assert.Less(t, after, before)
}

func TestNetworkStatsAndReset(t *testing.T) {
	sim := seededSimulator(5)
	_, err := sim.CreateNetwork(10)
	require.NoError(t, err)

	stats := sim.NetworkStats()
	assert.Equal(t, 10, stats.TotalNodes)
	assert.Equal(t, 0, stats.CompromisedNodes)
	assert.Equal(t, sim.ConnectionCount(), stats.TotalConnections)

	typeTotal := 0
	for _, count := range stats.NodeTypes {
		typeTotal += count
	}
	assert.Equal(t, 10, typeTotal)

	sim.Reset()
	stats = sim.NetworkStats()
	assert.Equal(t, 0, stats.TotalNodes)
	assert.Equal(t, 0, stats.TotalConnections)
	assert.Equal(t, 1.0, stats.NetworkIntegrity)
}
