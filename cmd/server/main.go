package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/foliolabs/folio/internal/config"
	"github.com/foliolabs/folio/internal/documents"
	"github.com/foliolabs/folio/internal/infrastructure"
	"github.com/foliolabs/folio/internal/reader"
	"github.com/foliolabs/folio/internal/render"
	"github.com/foliolabs/folio/internal/routes"
	"github.com/foliolabs/folio/internal/server"
	"github.com/foliolabs/folio/internal/settings"
	"github.com/foliolabs/folio/internal/source"
	"github.com/foliolabs/folio/pkg/handlers"
	"github.com/foliolabs/folio/pkg/middleware"
	"github.com/foliolabs/folio/pkg/module"
	"github.com/foliolabs/folio/web/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Finalize(); err != nil {
		return fmt.Errorf("finalize configuration: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}
	logger := infra.Logger

	docs := documents.New(infra.Database.DB(), infra.Storage, logger, cfg.Pagination)
	prefs := settings.New(infra.Database.DB(), logger)

	pipeline := render.NewPipeline(
		source.New(infra.Storage, cfg.Reader.FetchTimeoutDuration()),
		render.NewFitzRenderer(),
		cfg.Reader.Oversample,
		cfg.Reader.HorizontalPadding,
		logger,
	)
	sessions := reader.NewManager(docs, pipeline, cfg.Reader, logger)

	handler, err := buildHandler(cfg, logger, docs, prefs, sessions)
	if err != nil {
		return err
	}

	if err := infra.Start(); err != nil {
		return err
	}

	srv := server.New(&cfg.Server, handler, logger)
	if err := srv.Start(infra.Lifecycle); err != nil {
		return err
	}

	infra.Lifecycle.OnShutdown(func() {
		<-infra.Lifecycle.Context().Done()
		sessions.CloseAll(context.Background())
	})

	infra.Lifecycle.WaitForStartup()
	logger.Info("folio started", "addr", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")
	if err := infra.Lifecycle.Shutdown(cfg.Server.ShutdownTimeoutDuration()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("folio stopped")
	return nil
}

func buildHandler(
	cfg *config.Config,
	logger *slog.Logger,
	docs documents.System,
	prefs settings.System,
	sessions *reader.Manager,
) (http.Handler, error) {
	rs := routes.New(logger)
	rs.RegisterGroup(documents.NewHandler(docs, logger, cfg.Pagination, cfg.Storage.MaxImportSizeBytes()).Routes())
	rs.RegisterGroup(settings.NewHandler(prefs, logger).Routes())
	rs.RegisterGroup(reader.NewHandler(sessions, logger).Routes())

	api := module.New("/api", rs.Build())
	api.Use(middleware.TrimSlash())
	api.Use(middleware.CORS(cfg.CORS))

	web, err := app.NewHandler()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	api.Mount(mux)
	mux.Handle("/", web)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return middleware.Logger(logger)(mux), nil
}
