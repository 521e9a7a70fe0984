// Package controller implements HTTP handlers for the local API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	generalChecker   func() bool
	protectedChecker func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	General   string `json:"generalStore"`
	Protected string `json:"protectedStore"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(generalChecker, protectedChecker func() bool) *HealthController {
	return &HealthController{
		generalChecker:   generalChecker,
		protectedChecker: protectedChecker,
	}
}

// Check handles GET /health requests. The agent reports ok even when a
// store tier is down; degraded tiers are visible in the per-tier fields.
func (h *HealthController) Check(c *gin.Context) {
	general := "disconnected"
	if h.generalChecker != nil && h.generalChecker() {
		general = "connected"
	}
	protected := "disconnected"
	if h.protectedChecker != nil && h.protectedChecker() {
		protected = "connected"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		General:   general,
		Protected: protected,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
