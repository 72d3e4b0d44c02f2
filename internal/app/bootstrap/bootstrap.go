package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"medbook/internal/platform/config"
	"medbook/internal/platform/db"
	"medbook/internal/platform/httpserver"
	"medbook/internal/platform/messaging"
	"medbook/internal/shared/consumer"
	"medbook/internal/shared/outbox"
	delivery "medbook/services/delivery"
	deliverypostgres "medbook/services/delivery/adapters/postgres"
	inventory "medbook/services/inventory"
	inventorypostgres "medbook/services/inventory/adapters/postgres"
	orders "medbook/services/orders"
	"medbook/services/orders/adapters/catalog"
	orderspostgres "medbook/services/orders/adapters/postgres"
	payments "medbook/services/payments"
	paymentspostgres "medbook/services/payments/adapters/postgres"
)

// Package bootstrap is the composition root. Each Build* wires one deployable
// service: its HTTP surface, its outbox relay and its consumer supervisors
// all run inside the same process.

// App is one fully wired service process.
type App struct {
	server     *httpserver.Server
	relay      outbox.Relay
	registry   *consumer.Registry
	supervisor consumer.Supervisor
	postgres   *db.Postgres
	bus        *messaging.Bus
	logger     *slog.Logger
}

// Run serves HTTP, drains the outbox and consumes every bound queue until
// the context is cancelled or one of them fails beyond recovery.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app started",
		"event", "bootstrap_app_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"consumers", len(a.registry.Bindings()),
	)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return a.server.Run(ctx) })
	group.Go(func() error { return a.runRelay(ctx) })
	for _, binding := range a.registry.Bindings() {
		binding := binding
		group.Go(func() error { return a.supervisor.Run(ctx, binding) })
	}
	return group.Wait()
}

// runRelay restarts the relay loop after store failures with the same
// backoff the consumers use for connection loss.
func (a *App) runRelay(ctx context.Context) error {
	delay := a.supervisor.ReconnectDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	for {
		err := a.relay.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		a.logger.Error("outbox relay failed, restarting",
			"event", "outbox_relay_restarting",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"retry_in", delay.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (a *App) Close() error {
	var errs []error
	if a.bus != nil {
		errs = append(errs, a.bus.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

// core is the infrastructure every service shares.
type core struct {
	cfg      config.Config
	logger   *slog.Logger
	postgres *db.Postgres
	bus      *messaging.Bus
	outbox   *outbox.Store
	server   *httpserver.Server
}

func buildCore(defaultService string, models []any) (*core, error) {
	cfg, err := config.Load(defaultService)
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName)

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	models = append(models, &outbox.Entry{})
	if err := pg.Migrate(models...); err != nil {
		_ = pg.Close()
		return nil, err
	}

	bus, err := messaging.NewBus(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	return &core{
		cfg:      cfg,
		logger:   logger,
		postgres: pg,
		bus:      bus,
		outbox:   outbox.NewStore(pg.DB),
		server:   httpserver.New(cfg.HTTPPort, logger),
	}, nil
}

func (c *core) app(registry *consumer.Registry) *App {
	return &App{
		server:   c.server,
		registry: registry,
		relay: outbox.Relay{
			Outbox:       c.outbox,
			Publisher:    c.bus,
			Service:      c.cfg.ServiceName,
			PollInterval: c.cfg.OutboxPollInterval,
			BatchSize:    c.cfg.OutboxBatchSize,
			Logger:       c.logger,
		},
		supervisor: consumer.Supervisor{
			Broker:         messaging.NewConsumerBroker(c.bus),
			Group:          c.cfg.ServiceName,
			MaxAttempts:    c.cfg.ConsumerMaxAttempts,
			RetryDelay:     c.cfg.ConsumerRetryDelay,
			ReconnectDelay: c.cfg.ConsumerReconnectDelay,
			Logger:         c.logger,
		},
		postgres: c.postgres,
		bus:      c.bus,
		logger:   c.logger,
	}
}

func BuildOrders() (*App, error) {
	core, err := buildCore("orders", orderspostgres.Models())
	if err != nil {
		return nil, err
	}

	repo := orderspostgres.NewRepository(core.postgres.DB, core.outbox, core.logger)
	module := orders.NewModule(orders.Dependencies{
		Orders:      repo,
		Catalog:     catalog.NewClient(core.cfg.CatalogBaseURL, core.logger),
		IDGenerator: orderspostgres.UUIDGenerator{},
		Logger:      core.logger,
	})
	module.Handler.Routes(core.server.Mux())

	registry := consumer.NewRegistry()
	if err := module.RegisterConsumers(registry); err != nil {
		return nil, err
	}
	return core.app(registry), nil
}

func BuildInventory() (*App, error) {
	core, err := buildCore("inventory", inventorypostgres.Models())
	if err != nil {
		return nil, err
	}

	repo := inventorypostgres.NewRepository(core.postgres.DB, core.outbox, core.logger)
	module := inventory.NewModule(inventory.Dependencies{
		Inventory: repo,
		Logger:    core.logger,
	})
	module.Handler.Routes(core.server.Mux())

	registry := consumer.NewRegistry()
	if err := module.RegisterConsumers(registry); err != nil {
		return nil, err
	}
	return core.app(registry), nil
}

func BuildPayments() (*App, error) {
	core, err := buildCore("payments", paymentspostgres.Models())
	if err != nil {
		return nil, err
	}

	repo := paymentspostgres.NewRepository(core.postgres.DB, core.outbox, core.logger)
	module := payments.NewModule(payments.Dependencies{
		Payments: repo,
		Logger:   core.logger,
	})
	module.Handler.Routes(core.server.Mux())

	registry := consumer.NewRegistry()
	if err := module.RegisterConsumers(registry); err != nil {
		return nil, err
	}
	return core.app(registry), nil
}

func BuildDelivery() (*App, error) {
	core, err := buildCore("delivery", deliverypostgres.Models())
	if err != nil {
		return nil, err
	}

	repo := deliverypostgres.NewRepository(core.postgres.DB, core.outbox, core.logger)
	module := delivery.NewModule(delivery.Dependencies{
		Deliveries: repo,
		Logger:     core.logger,
	})
	module.Handler.Routes(core.server.Mux())

	registry := consumer.NewRegistry()
	if err := module.RegisterConsumers(registry); err != nil {
		return nil, err
	}
	return core.app(registry), nil
}
