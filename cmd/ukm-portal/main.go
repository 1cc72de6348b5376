// @title        ULBI UKM Portal API
// @version      1.0
// @description  JSON surface of the UKM portal client: session, notifications and role-gated navigation.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ulbi/ukm-portal/docs"
	"github.com/ulbi/ukm-portal/internal/api"
	"github.com/ulbi/ukm-portal/internal/api/metrics"
	"github.com/ulbi/ukm-portal/internal/api/view"
	"github.com/ulbi/ukm-portal/internal/core/service"
	"github.com/ulbi/ukm-portal/internal/infrastructure/backend"
	"github.com/ulbi/ukm-portal/internal/infrastructure/config"
	"github.com/ulbi/ukm-portal/internal/infrastructure/storage"
	"github.com/ulbi/ukm-portal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("ukm-portal stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Pretty: true})
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn().Err(err).Msg("close client storage")
		}
	}()

	recorder := metrics.Recorder{}
	client, err := backend.NewClient(backend.Config{
		BaseURL:  cfg.Backend.URL,
		Timeout:  cfg.Backend.Timeout,
		RPS:      cfg.Backend.RPS,
		Observer: recorder,
	}, log)
	if err != nil {
		return err
	}

	opts := service.WorkspaceOptions{
		NotificationDuration: cfg.Workspace.NotificationDuration,
		Observer:             recorder,
	}
	registry := service.NewRegistry(func(clientID string) *service.Workspace {
		return service.NewWorkspace(clientID, client, store.ForClient(clientID), opts, log)
	}, cfg.Workspace.IdleTTL, recorder, log)
	registry.Start(ctx)
	defer registry.Close()

	renderer, err := view.New()
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Workspaces: registry,
		Storage:    store,
		Backend:    client,
		Renderer:   renderer,
		CookieName: cfg.Workspace.CookieName,
		Secure:     cfg.IsProduction(),
		Log:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("backend", cfg.Backend.URL).
			Str("storage", cfg.Storage.Driver).
			Msg("ukm-portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Int("workspaces", registry.Len()).Msg("releasing client workspaces")
	return nil
}
