package defense

import (
	"fmt"
	"sort"
)

// ErrInvalidWeight is returned when a control is registered with a
// bonus weight outside [0,1].
var ErrInvalidWeight = fmt.Errorf("defense bonus weight must be between 0 and 1")

const (
	// Each active control contributes this much to the base modifier
	perControlWeight = 0.15
	// The count-based part of the modifier is capped here
	baseModifierCap = 0.8
	// The total modifier never exceeds this
	totalModifierCap = 0.9
)

// Catalog maps named defensive controls to risk-reduction bonus weights.
// Controls not present in the catalog still count toward the base
// modifier but add no specific bonus.
type Catalog struct {
	bonuses map[string]float64
}

// DefaultCatalog returns the built-in controls and their bonuses
func DefaultCatalog() *Catalog {
	return &Catalog{
		bonuses: map[string]float64{
			"ids_ips": 0.10,
			"siem":    0.10,
			"edr":     0.15,
			"mfa":     0.20,
		},
	}
}

// NewCatalog builds a catalog from the given weights. Weights outside
// [0,1] are rejected before any state is created.
func NewCatalog(bonuses map[string]float64) (*Catalog, error) {
	for name, weight := range bonuses {
		if weight < 0 || weight > 1 {
			return nil, fmt.Errorf("control %q: %w (got %.2f)", name, ErrInvalidWeight, weight)
		}
	}

	copied := make(map[string]float64, len(bonuses))
	for name, weight := range bonuses {
		copied[name] = weight
	}
	return &Catalog{bonuses: copied}, nil
}

// Bonus returns the specific bonus for a control, 0 if unknown
func (c *Catalog) Bonus(name string) float64 {
	return c.bonuses[name]
}

// Controls lists the known control names in sorted order
func (c *Catalog) Controls() []string {
	names := make([]string, 0, len(c.bonuses))
	for name := range c.bonuses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Modifier computes the defense modifier for a set of active controls:
// min(0.8, n*0.15) plus the specific bonuses of known controls, with the
// sum capped at 0.9. An empty set yields 0.
func (c *Catalog) Modifier(defenses []string) float64 {
	if len(defenses) == 0 {
		return 0
	}

	base := float64(len(defenses)) * perControlWeight
	if base > baseModifierCap {
		base = baseModifierCap
	}

	additional := 0.0
	for _, name := range defenses {
		additional += c.bonuses[name]
	}

	modifier := base + additional
	if modifier > totalModifierCap {
		modifier = totalModifierCap
	}
	return modifier
}
