// Package router sets up the HTTP routing for the local API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/client/internal/integration/entrypoint/controller"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	transactionController *controller.TransactionController
	syncController        *controller.SyncController
	profileController     *controller.ProfileController
	clientController      *controller.ClientController
	eventController       *controller.EventController
	analyticsController   *controller.AnalyticsController
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	transactionController *controller.TransactionController,
	syncController *controller.SyncController,
	profileController *controller.ProfileController,
	clientController *controller.ClientController,
	eventController *controller.EventController,
	analyticsController *controller.AnalyticsController,
) *Router {
	return &Router{
		healthController:      healthController,
		transactionController: transactionController,
		syncController:        syncController,
		profileController:     profileController,
		clientController:      clientController,
		eventController:       eventController,
		analyticsController:   analyticsController,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.engine.GET("/health", r.healthController.Check)

	v1 := r.engine.Group("/api/v1")
	{
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", r.transactionController.List)
			transactions.POST("", r.transactionController.Create)
		}

		v1.GET("/balance", r.transactionController.Balance)

		sync := v1.Group("/sync")
		{
			sync.POST("", r.syncController.Trigger)
			sync.GET("/status", r.syncController.Status)
		}

		v1.GET("/profile", r.profileController.Get)

		clients := v1.Group("/clients")
		{
			clients.GET("", r.clientController.List)
			clients.POST("", r.clientController.Create)
			clients.PUT("/:id", r.clientController.Update)
			clients.DELETE("/:id", r.clientController.Delete)
		}

		events := v1.Group("/events")
		{
			events.GET("", r.eventController.List)
			events.POST("", r.eventController.Create)
			events.DELETE("/:id", r.eventController.Delete)
		}

		v1.GET("/analytics/:feed", r.analyticsController.Feed)
	}

	return r.engine
}
