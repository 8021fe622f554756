package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"hdpulse/internal/config"
	apierrors "hdpulse/internal/errors"
	"hdpulse/internal/infrastructure"
	customMiddleware "hdpulse/internal/middleware"
	"hdpulse/internal/services"
	"hdpulse/internal/store"
	transport "hdpulse/internal/transport/http"
	ws "hdpulse/internal/websocket"
	"hdpulse/pkg/contracts"
	"hdpulse/pkg/contracts/events"
)

// AppName is the application name used in logs
const AppName = "hdpulse"

// Application holds every long-lived component of the dashboard server
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics

	Store         *store.Store
	Hub           *ws.Hub
	DataService   *services.DataService
	HealthService *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler

	Router chi.Router
	Server *http.Server
}

// NewApplication builds the application from configuration. The dataset must
// load successfully; a server over no data is useless.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	a := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	a.Store = store.New(cfg.Dataset.Path, logger)
	a.Hub = ws.NewHub(logger)
	a.DataService = services.NewDataService(a.Store, logger)
	a.HealthService = services.NewHealthService(a.Store, a.Hub, logger)
	a.ErrorHandler = apierrors.NewErrorHandler(logger, false)

	// Fail fast on a missing or corrupt dataset.
	dataset, err := a.Store.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	a.Metrics.SetDatasetSize(len(dataset.All), len(dataset.Gate), len(dataset.HD))

	a.setupRouter()
	a.createServer()

	return a, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware first; nothing here wraps the ResponseWriter, so
	// the WebSocket upgrade stays possible.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Get("/ws", ws.ServeWS(a.Hub, a.Logger))

	// Metrics endpoint outside the full middleware group
	r.Handle("/metrics", a.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.StripSlashes)
		r.Use(customMiddleware.Compress(5))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Metrics(a.Metrics))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		r.Route("/api", func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))
			r.Use(customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler).ValidateRequest)

			healthHandler := transport.NewHealthHandler(a.HealthService, a.Logger)
			r.Mount("/health", healthHandler.Routes())

			dataHandler := transport.NewDataHandler(a.DataService, a.Logger, a.ErrorHandler)
			r.Mount("/data", dataHandler.Routes())
		})

		r.NotFound(a.ErrorHandler.NotFound)
		r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)
	})

	a.Router = r
}

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

// Run starts the server and background services and blocks until the
// context is cancelled or a component fails.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("dataset", a.Config.Dataset.Path))

	a.Hub.Start()
	defer a.Hub.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer shutdownCancel()
		a.Logger.Info("shutting down server")
		return a.Server.Shutdown(shutdownCtx)
	})

	if a.Config.Dataset.WatchInterval > 0 {
		g.Go(func() error {
			a.watchDataset(ctx)
			return nil
		})
	}

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return g.Wait()
}

// RunUntilInterrupt runs the application until SIGINT or SIGTERM
func (a *Application) RunUntilInterrupt() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}

// watchDataset polls the source file's modtime and reloads the dataset when
// it changes, notifying WebSocket clients afterwards.
func (a *Application) watchDataset(ctx context.Context) {
	ticker := time.NewTicker(a.Config.Dataset.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		changed, err := a.Store.Changed()
		if err != nil {
			a.Logger.WarnContext(ctx, "dataset watch failed",
				slog.String("error", err.Error()))
			continue
		}
		if !changed {
			continue
		}

		// Each reload gets its own trace ID so its log lines correlate.
		reloadCtx := infrastructure.EnsureTraceID(ctx)

		dataset, err := a.Store.Load(reloadCtx)
		if err != nil {
			a.Logger.ErrorContext(reloadCtx, "dataset reload failed",
				slog.String("error", err.Error()))
			continue
		}

		a.Metrics.SetDatasetSize(len(dataset.All), len(dataset.Gate), len(dataset.HD))
		a.Metrics.DatasetReloads.Inc()

		summary := dataset.Summary()
		a.Hub.BroadcastReload(events.ReloadPayload{
			Version:      dataset.Version,
			LoadedAt:     dataset.LoadedAt,
			TotalRecords: summary.TotalRecords,
			GateEntries:  summary.GateEntries,
			HDEntries:    summary.HDEntries,
		})

		a.Logger.InfoContext(reloadCtx, "dataset reloaded",
			slog.String("version", dataset.Version),
			slog.Int("records", summary.TotalRecords))
	}
}
