package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/client/internal/application/adapter"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
	"github.com/finance-tracker/client/internal/integration/entrypoint/dto"
)

// AnalyticsController proxies the remote analytics feeds. The agent never
// interprets or caches these payloads.
type AnalyticsController struct {
	gateway adapter.Gateway
}

// NewAnalyticsController creates a new analytics controller instance.
func NewAnalyticsController(gateway adapter.Gateway) *AnalyticsController {
	return &AnalyticsController{gateway: gateway}
}

// Feed handles GET /analytics/:feed requests.
func (c *AnalyticsController) Feed(ctx *gin.Context) {
	raw, err := c.gateway.FetchAnalytics(ctx.Request.Context(), ctx.Param("feed"))
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "Analytics feed unavailable",
			Code:  string(domainerror.ErrCodeRemoteUnavailable),
		})
		return
	}

	ctx.Data(http.StatusOK, "application/json", raw)
}
