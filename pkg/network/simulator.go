package network

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyTopology is returned when an attack is simulated before
	// any network has been created.
	ErrEmptyTopology = errors.New("network not created, call CreateNetwork first")

	// ErrNodeNotFound is returned for an unknown target node id
	ErrNodeNotFound = errors.New("target node not found")

	// ErrInvalidNodeCount is returned for a non-positive node count
	ErrInvalidNodeCount = errors.New("node count must be positive")
)

// Rand is the source of uniform draws for the network simulator.
// Injectable so tests can script exact outcomes.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// vulnerability types planted during network creation
var vulnerabilityTypes = []string{"weak_password", "outdated_software", "open_port", "misconfiguration"}

// edge is an unordered pair of node ids, stored normalized
type edge struct {
	a, b string
}

func newEdge(x, y string) edge {
	if x > y {
		x, y = y, x
	}
	return edge{a: x, b: y}
}

// Simulator owns one synthetic network instance: its nodes, edges and
// attack counters. It is built wholesale by CreateNetwork and wiped
// wholesale by Reset. The simulator is not safe for concurrent
// mutation; callers that share one instance must serialize access.
type Simulator struct {
	logger *logrus.Logger
	rng    Rand

	nodes   map[string]*Node
	order   []string // node ids in creation order
	edges   map[edge]struct{}

	totalAttacks      int
	successfulAttacks int
}

// NewSimulator creates an empty network simulator. A nil rng falls back
// to a time-seeded source, a nil logger to a fresh logrus logger.
func NewSimulator(rng Rand, logger *logrus.Logger) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Simulator{
		logger: logger,
		rng:    rng,
		nodes:  make(map[string]*Node),
		edges:  make(map[edge]struct{}),
	}
}

// CreateNetwork builds a fresh topology with the given number of nodes.
// Node types are uniform over the four kinds, security levels uniform
// in [0.1,1.0], and roughly 30% of nodes carry one vulnerability. The
// connectivity pass first guarantees a spanning structure, then adds
// random extra edges up to min(2*n, 50).
func (s *Simulator) CreateNetwork(nodeCount int) ([]*Node, error) {
	if nodeCount <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidNodeCount, nodeCount)
	}

	s.Reset()
	now := time.Now()

	for i := 0; i < nodeCount; i++ {
		nodeType := nodeTypes[s.rng.Intn(len(nodeTypes))]
		node := &Node{
			ID:            fmt.Sprintf("%s_%d", nodeType, i+1),
			Type:          nodeType,
			SecurityLevel: 0.1 + s.rng.Float64()*0.9,
		}

		if s.rng.Float64() < 0.3 {
			node.Vulnerabilities = append(node.Vulnerabilities, Vulnerability{
				Type:         vulnerabilityTypes[s.rng.Intn(len(vulnerabilityTypes))],
				Severity:     0.1 + s.rng.Float64()*0.7,
				DiscoveredAt: now,
			})
		}

		s.nodes[node.ID] = node
		s.order = append(s.order, node.ID)
	}

	s.buildConnectivity()

	s.logger.WithFields(logrus.Fields{
		"nodes":       len(s.nodes),
		"connections": len(s.edges),
		"integrity":   s.Integrity(),
	}).Info("network created")

	return s.Nodes(), nil
}

// buildConnectivity links every node i>0 to one random earlier node,
// then adds random distinct edges until the target count is reached.
// The target is bounded by the number of possible distinct pairs so the
// fill loop always terminates.
func (s *Simulator) buildConnectivity() {
	n := len(s.order)
	for i := 1; i < n; i++ {
		target := s.order[s.rng.Intn(i)]
		s.edges[newEdge(s.order[i], target)] = struct{}{}
	}

	targetEdges := 2 * n
	if targetEdges > 50 {
		targetEdges = 50
	}
	if maxPossible := n * (n - 1) / 2; targetEdges > maxPossible {
		targetEdges = maxPossible
	}

	attempts := 0
	for len(s.edges) < targetEdges && attempts < 20*targetEdges {
		attempts++
		a := s.order[s.rng.Intn(n)]
		b := s.order[s.rng.Intn(n)]
		if a == b {
			continue
		}
		s.edges[newEdge(a, b)] = struct{}{}
	}
}

// Node returns the node with the given id
func (s *Simulator) Node(id string) (*Node, bool) {
	node, ok := s.nodes[id]
	return node, ok
}

// Nodes returns all nodes in creation order
func (s *Simulator) Nodes() []*Node {
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// ConnectionCount returns the number of edges
func (s *Simulator) ConnectionCount() int {
	return len(s.edges)
}

// Connected reports whether two nodes share an edge
func (s *Simulator) Connected(a, b string) bool {
	_, ok := s.edges[newEdge(a, b)]
	return ok
}

// Reset wipes the topology and counters wholesale
func (s *Simulator) Reset() {
	s.nodes = make(map[string]*Node)
	s.order = nil
	s.edges = make(map[edge]struct{})
	s.totalAttacks = 0
	s.successfulAttacks = 0
}
