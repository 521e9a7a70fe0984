package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/client/internal/application/usecase/syncengine"
	"github.com/finance-tracker/client/internal/integration/entrypoint/dto"
)

// ProfileController serves the cached user profile.
type ProfileController struct {
	engine *syncengine.Engine
}

// NewProfileController creates a new profile controller instance.
func NewProfileController(engine *syncengine.Engine) *ProfileController {
	return &ProfileController{engine: engine}
}

// Get handles GET /profile requests. The profile is whatever the last
// successful fetch cached; before the first one there is nothing to serve.
func (c *ProfileController) Get(ctx *gin.Context) {
	profile, err := c.engine.Profile(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to read cached profile",
		})
		return
	}
	if profile == nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "No profile cached yet",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}
