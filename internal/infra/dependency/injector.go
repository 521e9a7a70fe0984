// Package dependency provides dependency injection for the agent.
package dependency

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/client/config"
	"github.com/finance-tracker/client/internal/application/usecase/clients"
	"github.com/finance-tracker/client/internal/application/usecase/events"
	"github.com/finance-tracker/client/internal/application/usecase/localcache"
	"github.com/finance-tracker/client/internal/application/usecase/outbox"
	"github.com/finance-tracker/client/internal/application/usecase/syncengine"
	"github.com/finance-tracker/client/internal/application/usecase/transactions"
	"github.com/finance-tracker/client/internal/domain/event"
	"github.com/finance-tracker/client/internal/infra/db"
	"github.com/finance-tracker/client/internal/infra/server/router"
	"github.com/finance-tracker/client/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/client/internal/integration/gateway"
	"github.com/finance-tracker/client/internal/integration/persistence"
)

// Injector holds all agent dependencies. Every stateful component exists
// exactly once and is owned here; nothing lives in package-level state.
type Injector struct {
	Config *config.Config
	Bus    *event.Bus
	Engine *syncengine.Engine
	Agenda *events.Agenda
	Tokens *gateway.TokenProvider
	Router *router.Router
}

// NewInjector wires the agent from its two storage backends outward.
func NewInjector(cfg *config.Config, database *db.Database, redisClient *redis.Client) (*Injector, error) {
	general := persistence.NewRedisStore(redisClient)
	protected, err := persistence.NewSecureStore(database.DB(), cfg.Secure.Key)
	if err != nil {
		return nil, err
	}
	store := persistence.NewPartitionedStore(general, protected)

	bus := event.NewBus()
	tokens := gateway.NewTokenProvider(protected)
	remote := gateway.NewClient(&cfg.Remote, tokens)

	cache := localcache.NewCache(store, bus, cfg.Sync.BaseCurrency)
	box := outbox.NewOutbox(store)
	writer := transactions.NewWriter(cache, box, remote, tokens)
	directory := clients.NewDirectory(remote, store)
	agenda := events.NewAgenda(store)
	engine := syncengine.NewEngine(cache, box, remote, tokens, bus, store, cfg.Sync.Interval)

	healthController := controller.NewHealthController(
		func() bool { return redisClient.Ping(context.Background()).Err() == nil },
		database.HealthCheck,
	)
	transactionController := controller.NewTransactionController(cache, writer, cfg.Sync.BaseCurrency)
	syncController := controller.NewSyncController(engine)
	profileController := controller.NewProfileController(engine)
	clientController := controller.NewClientController(directory)
	eventController := controller.NewEventController(agenda)
	analyticsController := controller.NewAnalyticsController(remote)

	appRouter := router.NewRouter(
		healthController,
		transactionController,
		syncController,
		profileController,
		clientController,
		eventController,
		analyticsController,
	)

	return &Injector{
		Config: cfg,
		Bus:    bus,
		Engine: engine,
		Agenda: agenda,
		Tokens: tokens,
		Router: appRouter,
	}, nil
}
