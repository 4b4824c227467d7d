package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scanorder/config"
	"scanorder/domain/order"
	"scanorder/infrastructure/persistence/memory"
	"scanorder/infrastructure/persistence/mocks"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Server.Port = "0"
	cfg.Storage.Type = "memory"
	cfg.Storage.Retry.Enabled = true
	cfg.Storage.Retry.MaxAttempts = 2
	cfg.Session.CartKey = "cart"
	cfg.Session.OrdersKey = "orderHistory"
	cfg.Session.KeyPrefix = "session:"
	return cfg
}

func TestBuildServesSessionRoutes(t *testing.T) {
	store := memory.New()
	publisher := mocks.NewMockEventPublisher()
	app, err := NewBuilder(testConfig()).WithStore(store).WithPublisher(publisher).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	engine := app.Router().GetEngine()

	serve := func(method, path, body string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)
		return w.Code
	}

	if code := serve(http.MethodPost, "/api/v1/sessions/T4/cart/items", `{"id":"A","price":2}`); code != http.StatusOK {
		t.Fatalf("add item = %d", code)
	}
	if code := serve(http.MethodPost, "/api/v1/sessions/T4/orders", ""); code != http.StatusCreated {
		t.Fatalf("place order = %d", code)
	}
	if code := serve(http.MethodGet, "/api/v1/health", ""); code != http.StatusOK {
		t.Errorf("health = %d", code)
	}
	if code := serve(http.MethodGet, "/api/v1/menus", ""); code != http.StatusNotFound {
		t.Errorf("unknown route = %d", code)
	}

	if _, err := store.Get(context.Background(), "session:T4:orderHistory"); err != nil {
		t.Errorf("order history not persisted: %v", err)
	}
	if names := publisher.Names(); len(names) != 1 || names[0] != order.EventPlaced {
		t.Errorf("published = %v", names)
	}

	if err := app.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := store.Ping(context.Background()); err == nil {
		t.Error("store still open after Shutdown")
	}
}

func TestBuildRejectsUnknownPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Session.PersistencePolicy = "ignore"

	if _, err := NewBuilder(cfg).WithStore(memory.New()).Build(context.Background()); err == nil {
		t.Error("Build() accepted an unknown persistence policy")
	}
}

func TestOpenStore(t *testing.T) {
	cfg := testConfig()
	store, err := OpenStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("OpenStore(memory) error = %v", err)
	}
	defer store.Close()
	if err := store.Set(context.Background(), "k", "v"); err != nil {
		t.Errorf("Set() error = %v", err)
	}

	cfg.Storage.Type = "sqlite"
	cfg.Storage.SQLite.Path = t.TempDir() + "/scanorder.db"
	sqliteStore, err := OpenStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("OpenStore(sqlite) error = %v", err)
	}
	_ = sqliteStore.Close()

	cfg.Storage.Type = "etcd"
	if _, err := OpenStore(context.Background(), cfg); err == nil {
		t.Error("OpenStore accepted an unknown storage type")
	}
}

func TestEventBusLogsOrderEvents(t *testing.T) {
	bus := NewEventBus()
	if err := bus.Publish(order.NewHistoryClearedEvent("T1", 2)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	history := bus.GetPublishHistory()
	if len(history) != 1 || !history[0].Success {
		t.Errorf("publish history = %+v", history)
	}
}
