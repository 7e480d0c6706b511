package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dark-Vol/llm-attack-simulation/pkg/models"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/network"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/simulation"
)

// startCampaignRequest is the POST /api/campaigns body
type startCampaignRequest struct {
	AttackType     string   `json:"attack_type" binding:"required"`
	Target         string   `json:"target"`
	Defenses       []string `json:"defenses"`
	StageDelay     int      `json:"stage_delay"`     // seconds
	AttackDuration int      `json:"attack_duration"` // seconds
}

// createNetworkRequest is the POST /api/network body
type createNetworkRequest struct {
	Nodes int `json:"nodes" binding:"required"`
}

// attackRequest is the POST /api/network/attack body
type attackRequest struct {
	AttackType string `json:"attack_type" binding:"required"`
	TargetID   string `json:"target_id"`
}

// phishingRequest is the POST /api/phishing/preview body
type phishingRequest struct {
	Prompt  string `json:"prompt" binding:"required"`
	Target  string `json:"target"`
	Urgency string `json:"urgency"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSystemStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.Stats())
}

func (s *Server) handleRecentEvents(c *gin.Context) {
	if s.recent == nil {
		c.JSON(http.StatusOK, []models.SimulationEvent{})
		return
	}
	c.JSON(http.StatusOK, s.recent.Events())
}

func (s *Server) handleStartCampaign(c *gin.Context) {
	var req startCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := models.CampaignConfig{
		AttackType:     req.AttackType,
		Target:         req.Target,
		Defenses:       req.Defenses,
		StageDelay:     secondsToDuration(req.StageDelay),
		AttackDuration: secondsToDuration(req.AttackDuration),
	}

	id, err := s.registry.Start(cfg, nil)
	if err != nil {
		if errors.Is(err, simulation.ErrCapacityExceeded) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"id": id})
}

func (s *Server) handleListRunning(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"running": s.registry.ListRunning()})
}

func (s *Server) handleCampaignStatus(c *gin.Context) {
	snap, err := s.registry.Status(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleCampaignEvents(c *gin.Context) {
	evts, err := s.registry.Events(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evts})
}

func (s *Server) handleStopCampaign(c *gin.Context) {
	id := c.Param("id")
	stopped := s.registry.Stop(id)
	if !stopped {
		c.JSON(http.StatusNotFound, gin.H{"stopped": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopped": true})
}

func (s *Server) handleCreateNetwork(c *gin.Context) {
	var req createNetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.netMu.Lock()
	nodes, err := s.network.CreateNetwork(req.Nodes)
	s.netMu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"nodes": nodes})
}

func (s *Server) handleNetworkStats(c *gin.Context) {
	s.netMu.Lock()
	stats := s.network.NetworkStats()
	s.netMu.Unlock()
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleNetworkAttack(c *gin.Context) {
	var req attackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.netMu.Lock()
	outcome, err := s.network.SimulateAttack(req.AttackType, req.TargetID)
	s.netMu.Unlock()
	if err != nil {
		switch {
		case errors.Is(err, network.ErrEmptyTopology):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, network.ErrNodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleNetworkReset(c *gin.Context) {
	s.netMu.Lock()
	s.network.Reset()
	s.netMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

func (s *Server) handlePhishingPreview(c *gin.Context) {
	if s.provider == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no content provider configured"})
		return
	}

	var req phishingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Urgency == "" {
		req.Urgency = "medium"
	}

	email, err := s.provider.GenerateEmail(req.Prompt, req.Target, req.Urgency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": email})
}

func secondsToDuration(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
