package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrValidation is returned for configuration values outside their
// allowed range. Validation happens eagerly, before any component is
// built from the config.
var ErrValidation = fmt.Errorf("invalid configuration value")

// Config holds the simulator configuration
type Config struct {
	LogLevel   string           `yaml:"log_level"`  // Logging level (debug, info, warn, error)
	Simulation SimulationConfig `yaml:"simulation"` // Campaign engine settings
	Network    NetworkConfig    `yaml:"network"`    // Synthetic network settings
	Dashboard  DashboardConfig  `yaml:"dashboard"`  // Web dashboard settings
}

// SimulationConfig tunes the campaign engine
type SimulationConfig struct {
	MaxConcurrentAttacks int     `yaml:"max_concurrent_attacks"` // Running-campaign limit
	AttackDuration       int     `yaml:"attack_duration"`        // Soft wall-clock bound per campaign, seconds
	RecoveryTime         int     `yaml:"recovery_time"`          // Cool-down between campaign batches, seconds
	AlertThreshold       float64 `yaml:"alert_threshold"`        // Risk score above which alerts fire
	StageDelay           int     `yaml:"stage_delay"`            // Override pause between stages, seconds; 0 uses per-stage defaults
}

// NetworkConfig tunes the synthetic network builder
type NetworkConfig struct {
	MaxNodes int `yaml:"max_nodes"` // Node count used when none is given
}

// DashboardConfig holds web dashboard settings
type DashboardConfig struct {
	Port       string `yaml:"port"`        // Listen port
	EnableCORS bool   `yaml:"enable_cors"` // Allow cross-origin requests
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Simulation: SimulationConfig{
			MaxConcurrentAttacks: 5,
			AttackDuration:       300,
			RecoveryTime:         60,
			AlertThreshold:       0.8,
			StageDelay:           0,
		},
		Network: NetworkConfig{
			MaxNodes: 20,
		},
		Dashboard: DashboardConfig{
			Port:       "8080",
			EnableCORS: false,
		},
	}
}

// LoadConfigFromFile loads configuration from a YAML file. Values of the
// form ${ENV_VAR} are replaced from the environment before parsing.
// Missing keys keep their defaults.
func LoadConfigFromFile(filePath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, err
	}

	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks all values against their allowed ranges
func (c Config) Validate() error {
	if c.Simulation.MaxConcurrentAttacks < 1 {
		return fmt.Errorf("%w: max_concurrent_attacks must be at least 1, got %d",
			ErrValidation, c.Simulation.MaxConcurrentAttacks)
	}
	if c.Simulation.AttackDuration < 1 {
		return fmt.Errorf("%w: attack_duration must be positive, got %d",
			ErrValidation, c.Simulation.AttackDuration)
	}
	if c.Simulation.RecoveryTime < 0 {
		return fmt.Errorf("%w: recovery_time must not be negative, got %d",
			ErrValidation, c.Simulation.RecoveryTime)
	}
	if c.Simulation.AlertThreshold < 0 || c.Simulation.AlertThreshold > 1 {
		return fmt.Errorf("%w: alert_threshold must be between 0 and 1, got %.2f",
			ErrValidation, c.Simulation.AlertThreshold)
	}
	if c.Simulation.StageDelay < 0 {
		return fmt.Errorf("%w: stage_delay must not be negative, got %d",
			ErrValidation, c.Simulation.StageDelay)
	}
	if c.Network.MaxNodes < 1 {
		return fmt.Errorf("%w: network max_nodes must be at least 1, got %d",
			ErrValidation, c.Network.MaxNodes)
	}
	return nil
}

// AttackDurationTime returns the attack duration as a time.Duration
func (c SimulationConfig) AttackDurationTime() time.Duration {
	return time.Duration(c.AttackDuration) * time.Second
}

// StageDelayTime returns the stage delay as a time.Duration
func (c SimulationConfig) StageDelayTime() time.Duration {
	return time.Duration(c.StageDelay) * time.Second
}
