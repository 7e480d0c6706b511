package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Dark-Vol/llm-attack-simulation/pkg/api"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/config"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/defense"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/events"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/generator"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/metrics"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/models"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/network"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/simulation"
)

const (
	appName    = "Attack Campaign Simulator"
	appVersion = "1.0.0"
)

var (
	log = logrus.New()
	cfg = config.DefaultConfig()
)

func main() {
	app := &cli.App{
		Name:    "attack-simulator",
		Usage:   "Adversarial campaign and network compromise simulator",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from YAML `FILE`",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"ATTACK_SIM_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			if path := c.String("config"); path != "" {
				loaded, err := config.LoadConfigFromFile(path)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				cfg = loaded
			}

			logLevel := c.String("log-level")
			if !c.IsSet("log-level") && cfg.LogLevel != "" {
				logLevel = cfg.LogLevel
			}
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				level = logrus.InfoLevel
			}
			log.SetLevel(level)
			log.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
			})
			return nil
		},
		Commands: []*cli.Command{
			commandCampaign(),
			commandNetwork(),
			commandDashboard(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newRegistry builds a campaign registry from the loaded configuration
func newRegistry(sink events.Sink, stats *metrics.Metrics) *simulation.Registry {
	regCfg := simulation.RegistryConfig{
		MaxConcurrent:  cfg.Simulation.MaxConcurrentAttacks,
		AttackDuration: cfg.Simulation.AttackDurationTime(),
		AlertThreshold: cfg.Simulation.AlertThreshold,
		StageDelay:     cfg.Simulation.StageDelayTime(),
		Metrics:        stats,
	}
	return simulation.NewRegistry(regCfg, defense.DefaultCatalog(), sink, log)
}

func commandCampaign() *cli.Command {
	return &cli.Command{
		Name:  "campaign",
		Usage: "Run attack campaigns against a named target",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "attack-type", Aliases: []string{"t"}, Value: "phishing", Usage: "Attack type (phishing, malware, ...)"},
			&cli.StringFlag{Name: "target", Value: "corporate_network", Usage: "Campaign target name"},
			&cli.StringSliceFlag{Name: "defense", Aliases: []string{"d"}, Usage: "Active defensive control (repeatable)"},
			&cli.IntFlag{Name: "count", Value: 1, Usage: "Number of campaigns to run"},
			&cli.IntFlag{Name: "stage-delay", Value: 1, Usage: "Seconds between stages"},
		},
		Action: runCampaigns,
	}
}

func runCampaigns(c *cli.Context) error {
	color.Cyan("\n=== %s v%s ===\n", appName, appVersion)

	sink := events.NewLogrusSink(log)
	registry := newRegistry(sink, nil)

	count := c.Int("count")
	campaignCfg := models.CampaignConfig{
		AttackType: c.String("attack-type"),
		Target:     c.String("target"),
		Defenses:   c.StringSlice("defense"),
		StageDelay: time.Duration(c.Int("stage-delay")) * time.Second,
	}

	color.Green("Starting %d %s campaign(s) against %s", count, campaignCfg.AttackType, campaignCfg.Target)
	if len(campaignCfg.Defenses) > 0 {
		color.Green("Active defenses: %v", campaignCfg.Defenses)
	} else {
		color.Yellow("No defenses active")
	}

	done := make(chan models.CampaignSnapshot, count)
	for i := 0; i < count; i++ {
		id, err := registry.Start(campaignCfg, func(snap models.CampaignSnapshot) {
			done <- snap
		})
		if err != nil {
			color.Red("Failed to start campaign: %v", err)
			continue
		}
		log.Infof("Campaign %s scheduled", id)
	}

	registry.Wait()
	close(done)

	fmt.Println()
	for snap := range done {
		printCampaignSummary(snap)
	}
	return nil
}

func printCampaignSummary(snap models.CampaignSnapshot) {
	header := color.New(color.FgCyan, color.Bold)
	header.Printf("Campaign %s\n", snap.ID)
	fmt.Printf("  Status:      %s\n", snap.Status)
	fmt.Printf("  Duration:    %s\n", snap.Duration.Round(time.Millisecond))
	fmt.Printf("  Events:      %d\n", snap.EventCount)
	fmt.Printf("  Attacks:     %d succeeded, %d blocked\n", snap.Metrics.AttackSuccess, snap.Metrics.DefenseSuccess)

	riskLine := fmt.Sprintf("  Risk:        %.2f (%s)", snap.Metrics.RiskScore, snap.RiskLevel)
	switch snap.RiskLevel {
	case "critical", "high":
		color.Red(riskLine)
	case "medium":
		color.Yellow(riskLine)
	default:
		color.Green(riskLine)
	}
	fmt.Println()
}

func commandNetwork() *cli.Command {
	return &cli.Command{
		Name:  "network",
		Usage: "Build a synthetic network and simulate attacks against it",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "nodes", Aliases: []string{"n"}, Usage: "Number of nodes (default from config)"},
			&cli.IntFlag{Name: "attacks", Aliases: []string{"a"}, Value: 10, Usage: "Number of attacks to simulate"},
			&cli.StringFlag{Name: "attack-type", Aliases: []string{"t"}, Value: "exploit", Usage: "Attack type"},
		},
		Action: runNetwork,
	}
}

func runNetwork(c *cli.Context) error {
	color.Cyan("\n=== Network Compromise Simulation ===\n")

	nodeCount := c.Int("nodes")
	if nodeCount == 0 {
		nodeCount = cfg.Network.MaxNodes
	}

	sim := network.NewSimulator(nil, log)
	if _, err := sim.CreateNetwork(nodeCount); err != nil {
		return err
	}

	stats := sim.NetworkStats()
	color.Green("Created network: %d nodes, %d connections, integrity %.2f",
		stats.TotalNodes, stats.TotalConnections, stats.NetworkIntegrity)

	attackType := c.String("attack-type")
	for i := 0; i < c.Int("attacks"); i++ {
		outcome, err := sim.SimulateAttack(attackType, "")
		if err != nil {
			return err
		}
		if outcome.Success {
			color.Red("  %s on %s succeeded (p=%.2f)", attackType, outcome.TargetID, outcome.Probability)
		} else {
			color.Green("  %s on %s blocked (p=%.2f)", attackType, outcome.TargetID, outcome.Probability)
		}
	}

	final := sim.NetworkStats()
	fmt.Println()
	color.Cyan("Final state:")
	fmt.Printf("  Compromised nodes: %d/%d\n", final.CompromisedNodes, final.TotalNodes)
	fmt.Printf("  Attacks:           %d total, %d successful\n", final.TotalAttacks, final.SuccessfulAttacks)
	fmt.Printf("  Integrity:         %.2f\n", final.NetworkIntegrity)
	return nil
}

func commandDashboard() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Serve the web dashboard and REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config)"},
			&cli.BoolFlag{Name: "cors", Usage: "Enable CORS headers"},
		},
		Action: runDashboard,
	}
}

func runDashboard(c *cli.Context) error {
	port := c.String("port")
	if port == "" {
		port = cfg.Dashboard.Port
	}

	promReg := prometheus.NewRegistry()
	stats := metrics.New(promReg)

	recent := events.NewMemorySink()
	sink := events.NewMultiSink(events.NewLogrusSink(log), recent)

	registry := newRegistry(sink, stats)
	netSim := network.NewSimulator(nil, log)
	provider := generator.NewTemplateProvider(log)

	server := api.NewServer(api.ServerConfig{
		Port:       port,
		EnableCORS: c.Bool("cors") || cfg.Dashboard.EnableCORS,
	}, registry, netSim, provider, recent, promReg, log)

	color.Cyan("\n=== %s Dashboard ===\n", appName)
	color.Green("Listening on http://localhost:%s", port)
	return server.Start()
}
