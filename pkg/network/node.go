package network

import (
	"time"
)

// NodeType classifies a synthetic network node
type NodeType string

const (
	NodeTypeUser     NodeType = "user"
	NodeTypeServer   NodeType = "server"
	NodeTypeRouter   NodeType = "router"
	NodeTypeDatabase NodeType = "database"
)

// nodeTypes in the order used for uniform selection
var nodeTypes = []NodeType{NodeTypeUser, NodeTypeServer, NodeTypeRouter, NodeTypeDatabase}

// Vulnerability is a weakness attached to a node at creation time
type Vulnerability struct {
	Type         string    `json:"type"`          // weak_password, outdated_software, open_port or misconfiguration
	Severity     float64   `json:"severity"`      // In (0,1]
	DiscoveredAt time.Time `json:"discovered_at"` // When the vulnerability was planted
}

// AttackRecord is one entry in a node's attack history
type AttackRecord struct {
	Timestamp  time.Time      `json:"timestamp"`
	AttackType string         `json:"attack_type"`
	Success    bool           `json:"success"`
	Details    map[string]any `json:"details,omitempty"`
}

// Node is a single host in the synthetic network. SecurityLevel is
// fixed at creation; Compromised is one-way — once true it stays true
// for the lifetime of the topology.
type Node struct {
	ID              string          `json:"id"`
	Type            NodeType        `json:"type"`
	SecurityLevel   float64         `json:"security_level"` // In [0.1, 1.0]
	Vulnerabilities []Vulnerability `json:"vulnerabilities,omitempty"`
	AttackHistory   []AttackRecord  `json:"attack_history,omitempty"`
	Compromised     bool            `json:"compromised"`
}

// vulnerabilityWeight sums the severities of all vulnerabilities
func (n *Node) vulnerabilityWeight() float64 {
	total := 0.0
	for _, v := range n.Vulnerabilities {
		total += v.Severity
	}
	return total
}

// SecurityScore is the node's effective security: the base level minus
// a vulnerability penalty and a flat compromise penalty, floored at 0.
func (n *Node) SecurityScore() float64 {
	score := n.SecurityLevel - n.vulnerabilityWeight()*0.1
	if n.Compromised {
		score -= 0.5
	}
	if score < 0 {
		return 0
	}
	return score
}

// recordAttack appends to the attack history and flips the compromise
// flag on success. The flag never flips back.
func (n *Node) recordAttack(now time.Time, attackType string, success bool, details map[string]any) {
	n.AttackHistory = append(n.AttackHistory, AttackRecord{
		Timestamp:  now,
		AttackType: attackType,
		Success:    success,
		Details:    details,
	})
	if success {
		n.Compromised = true
	}
}
