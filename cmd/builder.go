package cmd

import (
	"context"
	"fmt"
	"net/http"

	"scanorder/api"
	"scanorder/api/health"
	apisession "scanorder/api/session"
	"scanorder/application/session"
	"scanorder/config"
	"scanorder/domain/cart"
	"scanorder/domain/order"
	"scanorder/domain/shared"
	"scanorder/infrastructure/persistence"
	"scanorder/infrastructure/persistence/kv"
	"scanorder/pkg/logger"

	"go.uber.org/zap"
)

// AppBuilder builds an App; components not supplied are created from the config
type AppBuilder struct {
	cfg       *config.Config
	store     persistence.Store
	publisher shared.EventPublisher
}

func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithStore uses store instead of opening the configured one
func (b *AppBuilder) WithStore(store persistence.Store) *AppBuilder {
	b.store = store
	return b
}

// WithPublisher replaces the default in-process event bus
func (b *AppBuilder) WithPublisher(p shared.EventPublisher) *AppBuilder {
	b.publisher = p
	return b
}

// Build creates the App. The logger must already be initialised.
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	store := b.store
	if store == nil {
		var err error
		if store, err = OpenStore(ctx, b.cfg); err != nil {
			return nil, err
		}
	}

	manager, err := NewSessionManager(b.cfg, store, b.publisherOrDefault())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	router := api.NewRouter(b.cfg,
		health.NewController(b.cfg, store, manager.Len),
		apisession.NewController(manager))
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:   b.cfg,
		router:   router,
		server:   server,
		store:    store,
		sessions: manager,
	}, nil
}

func (b *AppBuilder) publisherOrDefault() shared.EventPublisher {
	if b.publisher != nil {
		return b.publisher
	}
	return NewEventBus()
}

// NewSessionManager wires one cart and one order repository per session over store
func NewSessionManager(cfg *config.Config, store persistence.Store, publisher shared.EventPublisher) (*session.Manager, error) {
	policy, err := session.ParsePolicy(cfg.Session.PersistencePolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}

	keys := kv.Keyspace{
		Prefix:    cfg.Session.KeyPrefix,
		CartKey:   cfg.Session.CartKey,
		OrdersKey: cfg.Session.OrdersKey,
	}
	repos := func(sessionID string) (cart.Repository, order.Repository) {
		return keys.Repositories(store, sessionID)
	}

	opts := []session.Option{
		session.WithPolicy(policy),
		session.WithDateLayout(cfg.Session.DateLayout),
	}
	if publisher != nil {
		opts = append(opts, session.WithPublisher(publisher))
	}
	limits := session.Limits{MaxOpen: cfg.Session.MaxOpen, IdleTimeout: cfg.Session.IdleTimeout}
	return session.NewManager(repos, opts...).WithLimits(limits), nil
}

// NewEventBus in-process bus with a handler logging every committed order event
func NewEventBus() *shared.EventBus {
	bus := shared.NewEventBus()
	logEvent := shared.NewFuncHandler("event_logger", func(e shared.DomainEvent) error {
		fields := []zap.Field{
			zap.String("event", e.EventName()),
			zap.String("aggregate_id", e.GetAggregateID()),
			zap.Time("occurred_on", e.OccurredOn()),
		}
		if placed, ok := e.(*order.PlacedEvent); ok {
			fields = append(fields,
				zap.String("total", placed.Total().String()),
				zap.Int("item_count", placed.ItemCount()))
		}
		logger.Info("Domain event", fields...)
		return nil
	})
	for _, name := range []string{order.EventPlaced, order.EventHistoryCleared} {
		_ = bus.Subscribe(name, logEvent)
	}
	return bus
}
