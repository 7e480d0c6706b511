package network

import (
	"fmt"
	"time"
)

// attackTypeModifiers adjusts the base success rate per attack type
var attackTypeModifiers = map[string]float64{
	"phishing":           0.4,
	"brute_force":        0.2,
	"exploit":            0.6,
	"social_engineering": 0.5,
}

const (
	baseSuccessRate       = 0.3
	defaultAttackModifier = 0.3
	minSuccessProbability = 0.05
	maxSuccessProbability = 0.95
)

// AttackOutcome is the result of one simulated attack
type AttackOutcome struct {
	AttackType  string         `json:"attack_type"`
	TargetID    string         `json:"target_node"`
	Success     bool           `json:"success"`
	Probability float64        `json:"probability"`
	Details     map[string]any `json:"details"`
	Stats       Stats          `json:"network_stats"`
}

// AttackProbability computes the success probability of an attack type
// against a node: base rate plus attack-type, vulnerability and
// security modifiers, clamped to [0.05, 0.95].
func AttackProbability(attackType string, target *Node) float64 {
	attackModifier, ok := attackTypeModifiers[attackType]
	if !ok {
		attackModifier = defaultAttackModifier
	}

	vulnerabilityModifier := target.vulnerabilityWeight() * 0.2
	securityModifier := (1.0 - target.SecurityScore()) * 0.3

	p := baseSuccessRate + attackModifier + vulnerabilityModifier + securityModifier
	if p < minSuccessProbability {
		return minSuccessProbability
	}
	if p > maxSuccessProbability {
		return maxSuccessProbability
	}
	return p
}

// SimulateAttack runs one attack against the network. With an empty
// target id a node is picked uniformly at random. The outcome is always
// appended to the target's attack history; a success compromises the
// node permanently.
func (s *Simulator) SimulateAttack(attackType, targetID string) (*AttackOutcome, error) {
	if len(s.nodes) == 0 {
		return nil, ErrEmptyTopology
	}

	if targetID == "" {
		targetID = s.order[s.rng.Intn(len(s.order))]
	}
	target, ok := s.nodes[targetID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, targetID)
	}

	probability := AttackProbability(attackType, target)
	success := s.rng.Float64() < probability

	now := time.Now()
	details := map[string]any{
		"attack_type":            attackType,
		"target_node":            targetID,
		"target_vulnerabilities": len(target.Vulnerabilities),
		"target_security_score":  target.SecurityScore(),
		"success_probability":    probability,
	}
	target.recordAttack(now, attackType, success, details)

	s.totalAttacks++
	if success {
		s.successfulAttacks++
	}

	s.logger.WithFields(map[string]any{
		"attack_type": attackType,
		"target":      targetID,
		"success":     success,
		"probability": probability,
	}).Info("attack simulated")

	return &AttackOutcome{
		AttackType:  attackType,
		TargetID:    targetID,
		Success:     success,
		Probability: probability,
		Details:     details,
		Stats:       s.NetworkStats(),
	}, nil
}
