package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"scanorder/api"
	"scanorder/application/session"
	"scanorder/config"
	"scanorder/infrastructure/persistence"
	"scanorder/pkg/logger"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

// App the HTTP server and everything it owns
type App struct {
	config   *config.Config
	router   *api.Router
	server   *http.Server
	store    persistence.Store
	sessions *session.Manager
}

// Run serves until SIGINT/SIGTERM or ctx is cancelled, then shuts down
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("addr", a.server.Addr),
			zap.String("storage", a.config.Storage.Type))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = a.store.Close()
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	return a.Shutdown()
}

// Shutdown drains in-flight requests, then closes the store
func (a *App) Shutdown() error {
	timeout := a.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Shutting down server", zap.Int("open_sessions", a.sessions.Len()))

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}

// Router exposed for tests
func (a *App) Router() *api.Router {
	return a.router
}
