package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/client/internal/application/usecase/syncengine"
	"github.com/finance-tracker/client/internal/integration/entrypoint/dto"
)

// SyncController handles the manual sync trigger and status endpoints.
type SyncController struct {
	engine *syncengine.Engine
}

// NewSyncController creates a new sync controller instance.
func NewSyncController(engine *syncengine.Engine) *SyncController {
	return &SyncController{engine: engine}
}

// Trigger handles POST /sync requests. The cycle runs asynchronously; a
// trigger raised while one is already running is dropped, and both cases
// answer 202.
func (c *SyncController) Trigger(ctx *gin.Context) {
	if c.engine.Syncing() {
		ctx.JSON(http.StatusAccepted, gin.H{"status": "already-running"})
		return
	}

	c.engine.Trigger()
	ctx.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

// Status handles GET /sync/status requests.
func (c *SyncController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToSyncStatusResponse(c.engine.Status()))
}
