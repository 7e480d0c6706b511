package simulation

import (
	"time"
)

// Stage is one phase of the kill chain
type Stage struct {
	Name        string        // Stage identifier, used in event types
	Description string        // Human-readable stage description
	Duration    time.Duration // Default pause after the stage
	SuccessRate float64       // Base probability of the attack attempt succeeding
}

// baseStages is the full kill chain in execution order
var baseStages = []Stage{
	{Name: "reconnaissance", Description: "Target reconnaissance", Duration: 10 * time.Second, SuccessRate: 0.8},
	{Name: "weaponization", Description: "Attack preparation", Duration: 15 * time.Second, SuccessRate: 0.7},
	{Name: "delivery", Description: "Payload delivery", Duration: 20 * time.Second, SuccessRate: 0.6},
	{Name: "exploitation", Description: "Vulnerability exploitation", Duration: 25 * time.Second, SuccessRate: 0.5},
	{Name: "installation", Description: "Malicious code installation", Duration: 30 * time.Second, SuccessRate: 0.4},
	{Name: "command_control", Description: "Command channel establishment", Duration: 20 * time.Second, SuccessRate: 0.3},
	{Name: "actions_objectives", Description: "Attack objective execution", Duration: 40 * time.Second, SuccessRate: 0.2},
}

// StagesFor returns the stage sequence for an attack type. Phishing
// campaigns stop after delivery preparation (first 4 stages), malware
// campaigns skip the final objectives stage (first 6); every other type
// runs the full chain.
func StagesFor(attackType string) []Stage {
	switch attackType {
	case "phishing":
		return baseStages[:4]
	case "malware":
		return baseStages[:6]
	default:
		return baseStages
	}
}
