package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/client/internal/application/usecase/clients"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
	"github.com/finance-tracker/client/internal/integration/entrypoint/dto"
)

// ClientController handles the client directory endpoints.
type ClientController struct {
	directory *clients.Directory
}

// NewClientController creates a new client controller instance.
func NewClientController(directory *clients.Directory) *ClientController {
	return &ClientController{directory: directory}
}

// List handles GET /clients requests, serving the cached directory when
// the server is unreachable.
func (c *ClientController) List(ctx *gin.Context) {
	list, err := c.directory.List(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "Client directory unavailable",
			Code:  string(domainerror.ErrCodeRemoteUnavailable),
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToClientListResponse(list))
}

// Create handles POST /clients requests. Client mutations are passthrough
// writes; there is no offline queue for them.
func (c *ClientController) Create(ctx *gin.Context) {
	var request dto.ClientRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	created, err := c.directory.Create(ctx.Request.Context(), request.ToEntity(""))
	if err != nil {
		c.remoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToClientResponse(created))
}

// Update handles PUT /clients/:id requests.
func (c *ClientController) Update(ctx *gin.Context) {
	var request dto.ClientRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	updated, err := c.directory.Update(ctx.Request.Context(), request.ToEntity(ctx.Param("id")))
	if err != nil {
		c.remoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToClientResponse(updated))
}

// Delete handles DELETE /clients/:id requests.
func (c *ClientController) Delete(ctx *gin.Context) {
	if err := c.directory.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.remoteError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// remoteError maps a gateway failure to the local API status code.
func (c *ClientController) remoteError(ctx *gin.Context, err error) {
	if errors.Is(err, domainerror.ErrRemoteRejected) {
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error: "Server rejected the request",
			Code:  string(domainerror.ErrCodeRemoteRejected),
		})
		return
	}
	ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
		Error: "Server unreachable",
		Code:  string(domainerror.ErrCodeRemoteUnavailable),
	})
}
