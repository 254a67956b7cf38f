package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-web/internal/ui"
)

const healthProbeTimeout = 3 * time.Second

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Backend   string `json:"backend"`
}

func (s *Server) backendHealth(ctx context.Context) ui.Health {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	if err := s.client.Health(ctx); err != nil {
		return ui.HealthOffline
	}
	return ui.HealthOnline
}

// HandleHealth returns the health status of the service.
// The front end stays up when the backend is down, so this is degraded,
// not failing.
func (s *Server) HandleHealth(c *gin.Context) {
	backend := s.backendHealth(c.Request.Context())

	status := "healthy"
	if backend == ui.HealthOffline {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Backend:   string(backend),
	})
}

// HandleReadiness reports ready only when the backend answers its health
// endpoint.
func (s *Server) HandleReadiness(c *gin.Context) {
	if s.backendHealth(c.Request.Context()) != ui.HealthOnline {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "backend_unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// HandleAPIStatus refreshes the visitor's health badge and returns it.
func (s *Server) HandleAPIStatus(c *gin.Context) {
	v := s.open(c)
	health := v.dash.CheckHealth(c.Request.Context())
	v.save(c)
	c.JSON(http.StatusOK, gin.H{"status": health})
}
