// Package app wires the dashboard server together: configuration,
// logging, telemetry, the dataset session, the websocket hub and the
// HTTP router, plus graceful startup and shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"gradeviz/internal/config"
	"gradeviz/internal/infrastructure"
	"gradeviz/internal/middleware"
	"gradeviz/internal/services"
	handlers "gradeviz/internal/transport/http"
	ws "gradeviz/internal/websocket"
)

const (
	// Version is the application version reported on startup.
	Version = "1.0.0"
	// AppName is the human-readable product name.
	AppName = "GradeViz"
)

// Application is the dashboard server container.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Session       *services.Session
	WebSocketHub  *ws.Hub
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
}

// NewApplication creates a fully wired application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	otelProviders, err := infrastructure.InitOTel(context.Background(), logger, cfg.Telemetry.TraceStdout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	session := services.NewSession(cfg, logger)
	hub := ws.NewHub(logger)
	session.OnChange(func(event services.ChangeEvent) {
		hub.BroadcastJSON(event)
	})

	app := &Application{
		Config:        cfg,
		Session:       session,
		WebSocketHub:  hub,
		Logger:        logger,
		OTelProviders: otelProviders,
	}
	app.setupRouter()

	return app, nil
}

func (app *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Tracing(app.OTelProviders.Tracer))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(app.Logger))
	r.Use(middleware.Recoverer(app.Logger))
	r.Use(middleware.Compress(5))
	r.Use(middleware.SecurityHeaders)

	if app.Config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			app.Config.RateLimit.RPS,
			app.Config.RateLimit.Burst,
			app.Logger)
		r.Use(limiter.Handler)
	}

	dataHandler := handlers.NewDataHandler(app.Session, app.Logger)
	r.Mount("/api", dataHandler.Routes())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/charts", http.StatusFound)
	})
	r.Get("/charts", app.serveCharts)
	r.Get("/ws", app.WebSocketHub.ServeWS)
	r.Handle("/metrics", app.OTelProviders.PrometheusHTTP)

	app.Router = r
}

// serveCharts renders the combined chart dashboard of the filtered view.
func (app *Application) serveCharts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := app.Session.DashboardHTML(r.Context(), w); err != nil {
		app.Logger.ErrorContext(r.Context(), "dashboard render failed",
			slog.String("error", err.Error()))
		http.Error(w, "dashboard render failed", http.StatusInternalServerError)
	}
}

// Run starts the server and blocks until the context is cancelled or a
// termination signal arrives.
func (app *Application) Run(ctx context.Context) error {
	if err := app.Session.EnsureDataset(ctx); err != nil {
		return fmt.Errorf("failed to prepare dataset: %w", err)
	}

	app.WebSocketHub.Start()

	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", app.Config.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server listening", slog.String("addr", app.Server.Addr))
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		app.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-ctx.Done():
		app.Logger.Info("context cancelled, shutting down")
	}

	return app.Shutdown()
}

// Shutdown stops the server, the hub and the telemetry providers.
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if app.Server != nil {
		if err := app.Server.Shutdown(ctx); err != nil {
			app.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
			firstErr = err
		}
	}

	app.WebSocketHub.Stop()

	if err := app.OTelProviders.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}

	if err := infrastructure.CloseLogger(); err != nil && firstErr == nil {
		firstErr = err
	}

	app.Logger.Info("shutdown complete")
	return firstErr
}
