package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/client/internal/application/usecase/events"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
	"github.com/finance-tracker/client/internal/integration/entrypoint/dto"
)

// EventController handles the scheduling agenda endpoints. Events are
// device-local state and never leave for the server.
type EventController struct {
	agenda *events.Agenda
}

// NewEventController creates a new event controller instance.
func NewEventController(agenda *events.Agenda) *EventController {
	return &EventController{agenda: agenda}
}

// List handles GET /events requests.
func (c *EventController) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToEventListResponse(c.agenda.List()))
}

// Create handles POST /events requests.
func (c *EventController) Create(ctx *gin.Context) {
	var request dto.EventRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	event := request.ToEntity()
	if err := c.agenda.Add(ctx.Request.Context(), event); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "Failed to persist the event",
			Code:  string(domainerror.ErrCodeStoreUnavailable),
		})
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

// Delete handles DELETE /events/:id requests.
func (c *EventController) Delete(ctx *gin.Context) {
	if err := c.agenda.Remove(ctx.Request.Context(), ctx.Param("id")); err != nil {
		if errors.Is(err, domainerror.ErrEventNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error: "Event not found",
				Code:  string(domainerror.ErrCodeEventNotFound),
			})
			return
		}
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "Failed to persist the event",
			Code:  string(domainerror.ErrCodeStoreUnavailable),
		})
		return
	}

	ctx.Status(http.StatusNoContent)
}
