package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"trexxdash/internal/artifacts"
	"trexxdash/internal/config"
	"trexxdash/internal/errors"
	"trexxdash/internal/infrastructure"
	customMiddleware "trexxdash/internal/middleware"
	"trexxdash/internal/panels"
	"trexxdash/internal/services"
	handlers "trexxdash/internal/transport/http"
)

var (
	// BuildTime is set at compile time
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(config.AppVersion))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Provider      artifacts.Provider
	Sessions      *artifacts.Sessions // nil under process scope
	Dashboard     *services.DashboardService
	Health        *services.HealthService
	ErrorHandler  *errors.ErrorHandler
}

// NewApplication loads the configuration, initialises the process logger and
// builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires every component for cfg
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("build_id", BuildID))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// PanelOptions maps the panels section of the configuration onto builder
// options.
func PanelOptions(cfg config.PanelsConfig) (panels.Options, error) {
	policy, err := panels.ParseRowPolicy(cfg.RowPolicy)
	if err != nil {
		return panels.Options{}, err
	}
	return panels.Options{
		HighProbabilityThreshold: cfg.HighProbabilityThreshold,
		TopFeatures:              cfg.TopFeatures,
		RowPolicy:                policy,
	}, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	opts, err := PanelOptions(a.Config.Panels)
	if err != nil {
		return err
	}

	fsys := os.DirFS(a.Paths.ArtifactsDir)
	loaderOpts := []artifacts.Option{
		artifacts.WithLogger(a.Logger),
		artifacts.WithMetrics(a.OTelProviders.Metrics),
		artifacts.WithTracer(a.OTelProviders.Tracer),
	}

	// The readiness probe has no session, so it reads through its own loader
	// rather than minting an anonymous session.
	probe := artifacts.NewLoader(fsys, nil, loaderOpts...)

	switch a.Config.Artifacts.CacheScope {
	case config.CacheScopeSession:
		a.Sessions = artifacts.NewSessions(
			a.Config.Artifacts.SessionTTL,
			a.Config.Artifacts.MaxSessions,
			func(cache *artifacts.Cache) *artifacts.Loader {
				return artifacts.NewLoader(fsys, cache, loaderOpts...)
			},
			a.OTelProviders.Metrics,
		)
		a.Provider = a.Sessions
	default:
		a.Provider = probe
	}

	a.Logger.Info("Artifact cache configured",
		slog.String("scope", a.Config.Artifacts.CacheScope),
		slog.String("dir", a.Paths.ArtifactsDir),
		slog.String("row_policy", string(opts.RowPolicy)))

	a.Dashboard = services.NewDashboardService(a.Provider, opts, a.Logger, a.OTelProviders.Metrics)
	a.Health = services.NewHealthService(config.AppVersion, BuildTime, BuildID, a.Paths.ArtifactsDir, probe, a.Logger)
	a.ErrorHandler = errors.NewErrorHandler(a.Logger, false)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Ordering: RequestID → RealIP → OTel → error/log → headers → CORS → rate limit → session → timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// Set before any Mount so every subrouter inherits them
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(errors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		if a.Sessions != nil {
			r.Use(customMiddleware.Session(customMiddleware.SessionConfig{
				CookieName: config.SessionCookieName,
				Header:     config.SessionHeader,
				TTL:        a.Config.Artifacts.SessionTTL,
			}))
		}

		if a.Config.Server.RequestTimeout > 0 {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		}

		a.setupAPIRoutes(r)
	})

	// Prometheus metrics endpoint (outside the middleware group for performance)
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Compress(5))

		healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Mount("/artifacts", handlers.NewArtifactsHandler(a.Dashboard, a.Logger, a.ErrorHandler).Routes())
		r.Mount("/dashboard", handlers.NewDashboardHandler(a.Dashboard, a.Logger, a.ErrorHandler).Routes())
		r.Delete("/session", handlers.NewSessionHandler(a.Dashboard, a.ErrorHandler).End)
	})
}

// getCORSConfig returns CORS configuration
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedHeaders:   []string{"Accept", "Content-Type", customMiddleware.RequestIDHeader, config.SessionHeader},
		ExposedHeaders:   []string{customMiddleware.RequestIDHeader, config.SessionHeader, "Content-Disposition"},
		AllowCredentials: true,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server in the background. A listen failure cancels
// ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.performStartupHealthCheck(ctx)

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.Sessions != nil {
		stats := a.Sessions.Stats()
		a.Sessions.Stop()
		a.Logger.InfoContext(ctx, "Session caches dropped",
			slog.Int("active", stats.Active),
			slog.Int64("created", stats.Created))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck logs which artifacts are present. Missing files
// are warnings: the affected panels degrade and the rest keep serving.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	if !config.DirExists(a.Paths.ArtifactsDir) {
		a.Logger.WarnContext(ctx, "Artifacts directory not found",
			slog.String("path", a.Paths.ArtifactsDir))
		return
	}

	for _, name := range artifacts.Names() {
		if _, err := fs.Stat(os.DirFS(a.Paths.ArtifactsDir), name.FileName()); err != nil {
			a.Logger.WarnContext(ctx, "Artifact missing; dependent panels will be unavailable",
				slog.String("dataset", string(name)),
				slog.String("file", name.FileName()))
		}
	}
}
