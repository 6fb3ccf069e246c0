// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bissquit/gov-status/internal/catalog"
	"github.com/bissquit/gov-status/internal/config"
	"github.com/bissquit/gov-status/internal/incidents"
	"github.com/bissquit/gov-status/internal/monitoring"
	"github.com/bissquit/gov-status/internal/pkg/httputil"
	"github.com/bissquit/gov-status/internal/pkg/metrics"
	"github.com/bissquit/gov-status/internal/timeline"
	"github.com/bissquit/gov-status/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OpenAPISpecPath is where the API description is served from.
const OpenAPISpecPath = "api/openapi/openapi.yaml"

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	catalog       *catalog.Catalog
	poller        *monitoring.Poller
	server        *http.Server
	metricsServer *http.Server
	pollerCancel  context.CancelFunc
}

// New creates a new application instance.
// The catalog is loaded and validated here; a malformed table fails start-up.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	cat, err := catalog.Load(catalog.Sources{
		IncidentsPath: cfg.Catalog.IncidentsPath,
		ServicesPath:  cfg.Catalog.ServicesPath,
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	logger.Info("catalog loaded",
		"incidents", cat.IncidentCount(),
		"services", cat.ServiceCount(),
		"embedded", cfg.Catalog.IncidentsPath == "" && cfg.Catalog.ServicesPath == "",
	)
	metrics.RecordCatalogSize(cat.IncidentCount(), cat.ServiceCount())

	app := &App{
		config:  cfg,
		logger:  logger,
		catalog: cat,
		poller:  newPoller(cfg.Monitoring, cat),
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           app.setupRouter(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the status poller (when enabled) and the HTTP servers.
func (a *App) Run() error {
	if a.config.Monitoring.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		a.pollerCancel = cancel
		a.poller.Start(ctx)
	} else {
		a.logger.Info("status poller disabled, serving catalog statuses")
	}

	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
		"version", version.Version,
	)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	if a.pollerCancel != nil {
		a.pollerCancel()
		a.poller.Stop()
	}

	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	for name, srv := range map[string]*http.Server{"server": a.server, "metrics server": a.metricsServer} {
		wg.Add(1)
		go func(name string, srv *http.Server) {
			defer wg.Done()
			if err := srv.Shutdown(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("shutdown %s: %w", name, err))
				mu.Unlock()
			}
		}(name, srv)
	}

	wg.Wait()

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

// Poller returns the status poller.
func (a *App) Poller() *monitoring.Poller {
	return a.poller
}

func (a *App) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		http.ServeFile(w, r, OpenAPISpecPath)
	})

	engine := timeline.NewEngine(a.catalog)

	catalogHandler := catalog.NewHandler(a.catalog)
	incidentsHandler := incidents.NewHandler(a.catalog)
	statusHandler := monitoring.NewHandler(a.poller)
	timelineHandler := timeline.NewHandler(engine, timeline.HandlerConfig{
		DefaultStart: a.config.Timeline.StartDate(),
	})

	r.Route("/api/v1", func(r chi.Router) {
		catalogHandler.RegisterRoutes(r)
		incidentsHandler.RegisterRoutes(r)
		statusHandler.RegisterRoutes(r)
		timelineHandler.RegisterRoutes(r)
	})

	return r
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

// readyzHandler reports ready once the catalog is loaded; New fails otherwise,
// so a running app with an empty incident table is the only unready state.
func (a *App) readyzHandler(w http.ResponseWriter, _ *http.Request) {
	if a.catalog == nil || a.catalog.IncidentCount() == 0 {
		httputil.Text(w, http.StatusServiceUnavailable, "Catalog empty")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, version.Get())
}

func newPoller(cfg config.MonitoringConfig, cat *catalog.Catalog) *monitoring.Poller {
	var checker monitoring.Checker = monitoring.StaticChecker{}
	if cfg.Checker == "http" {
		checker = monitoring.NewHTTPChecker(monitoring.HTTPCheckerConfig{
			UserAgent: cfg.UserAgent,
			RateLimit: cfg.RateLimit,
		})
	}

	return monitoring.NewPoller(monitoring.PollerConfig{
		Interval:          cfg.Interval,
		Timeout:           cfg.Timeout,
		RetryAttempts:     cfg.RetryAttempts,
		InitialBackoff:    cfg.InitialBackoff,
		MaxBackoff:        cfg.MaxBackoff,
		BackoffMultiplier: cfg.BackoffMultiplier,
	}, checker, cat.Services())
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
