package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Dark-Vol/llm-attack-simulation/pkg/events"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/generator"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/network"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/simulation"
)

// ServerConfig contains configuration for the dashboard server
type ServerConfig struct {
	Port       string
	EnableCORS bool
}

// Server exposes the campaign registry and the network simulator over
// HTTP. Network mutation is serialized with a mutex because the
// simulator itself is single-caller by design.
type Server struct {
	router   *gin.Engine
	logger   *logrus.Logger
	config   ServerConfig
	registry *simulation.Registry
	netMu    sync.Mutex
	network  *network.Simulator
	provider generator.ContentProvider
	recent   *events.MemorySink
	gatherer prometheus.Gatherer
}

// NewServer creates the dashboard server and wires its routes
func NewServer(cfg ServerConfig, registry *simulation.Registry, netSim *network.Simulator,
	provider generator.ContentProvider, recent *events.MemorySink,
	gatherer prometheus.Gatherer, logger *logrus.Logger) *Server {

	if logger == nil {
		logger = logrus.New()
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:   router,
		logger:   logger,
		config:   cfg,
		registry: registry,
		network:  netSim,
		provider: provider,
		recent:   recent,
		gatherer: gatherer,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	if s.config.EnableCORS {
		s.router.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
		})
	}

	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/stats", s.handleSystemStats)
		api.GET("/events", s.handleRecentEvents)

		api.POST("/campaigns", s.handleStartCampaign)
		api.GET("/campaigns", s.handleListRunning)
		api.GET("/campaigns/:id", s.handleCampaignStatus)
		api.GET("/campaigns/:id/events", s.handleCampaignEvents)
		api.POST("/campaigns/:id/stop", s.handleStopCampaign)

		api.POST("/network", s.handleCreateNetwork)
		api.GET("/network/stats", s.handleNetworkStats)
		api.POST("/network/attack", s.handleNetworkAttack)
		api.POST("/network/reset", s.handleNetworkReset)

		api.POST("/phishing/preview", s.handlePhishingPreview)
	}

	if s.gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
}

// Router returns the underlying gin engine, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the dashboard server until it fails
func (s *Server) Start() error {
	s.logger.Infof("Dashboard listening on :%s", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}
