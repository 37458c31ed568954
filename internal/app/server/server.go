package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hrconsole/internal/domain/aifilter"
	"hrconsole/internal/domain/audit"
	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/entitystore"
	"hrconsole/internal/domain/importer"
	"hrconsole/internal/domain/presets"
	"hrconsole/internal/domain/skills"
	"hrconsole/internal/platform/apiclient"
	"hrconsole/internal/platform/config"
	cryptoutil "hrconsole/internal/platform/crypto"
	"hrconsole/internal/platform/db"
	"hrconsole/internal/platform/events"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/transport/http/api"
	aihandler "hrconsole/internal/transport/http/handlers/ai"
	audithandler "hrconsole/internal/transport/http/handlers/audit"
	authhandler "hrconsole/internal/transport/http/handlers/auth"
	importhandler "hrconsole/internal/transport/http/handlers/imports"
	jobshandler "hrconsole/internal/transport/http/handlers/jobs"
	matrixhandler "hrconsole/internal/transport/http/handlers/matrix"
	presetshandler "hrconsole/internal/transport/http/handlers/presets"
	skillshandler "hrconsole/internal/transport/http/handlers/skills"
	"hrconsole/internal/transport/http/middleware"
)

const (
	sensitiveLimit  = 10
	sensitiveWindow = time.Minute
)

// Registrar mounts a handler group under /api.
type Registrar interface {
	RegisterRoutes(r chi.Router)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      *pgxpool.Pool
	Store   *entitystore.Store
	Loader  *entitystore.Loader
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler

	closers []func()
}

// New connects to the database, applies migrations, seeds the admin account
// and assembles the router. Nothing is served until Run.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app := &App{Config: cfg, Logger: logger, DB: pool, closers: []func(){pool.Close}}

	if cfg.RunMigrations {
		if _, err := db.Migrate(ctx, pool, cfg.MigrationsDir, logger); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY: %w", err)
	}
	authStore := auth.NewStore(pool)
	if err := SeedAdmin(ctx, authStore, cfg, logger); err != nil {
		app.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		producer.EnsureTopic()
		publisher = producer
		app.closers = append(app.closers, producer.Close)
	}

	app.Metrics = metrics.New()
	app.Store = entitystore.New()
	skillStore := skills.NewStore(pool)
	app.Loader = entitystore.NewLoader(skills.Source{Store: skillStore}, logger, cfg.LoadTimeout)
	app.Jobs = jobs.New(jobs.NewPGRunStore(pool), logger)

	auditSvc := audit.New(pool)
	skillsSvc := skills.NewService(skillStore, app.Store, publisher, auditSvc, logger)
	perms := auth.StaticPermissions{}
	assistant, remote := newAssistant(cfg, logger)

	app.Router = NewRouter(cfg, logger, pool, app.Metrics,
		authhandler.NewHandler(auth.NewService(authStore, cfg.JWTSecret, crypto, logger), logger),
		skillshandler.NewHandler(skillsSvc, perms, logger),
		matrixhandler.NewHandler(app.Store, app.Loader, app.Metrics, perms, logger),
		presetshandler.NewHandler(presets.NewService(presets.NewStore(pool)), perms, logger),
		aihandler.NewHandler(assistant, remote, app.Store, perms, logger),
		importhandler.NewHandler(importer.New(skillsSvc, publisher, logger), app.Jobs, app.Metrics, perms, logger),
		jobshandler.NewHandler(app.Jobs, perms, logger),
		audithandler.NewHandler(auditSvc, perms, logger),
	)
	return app, nil
}

// newAssistant picks the hosted model when an API key is set and a remote
// backend when only an endpoint is set. The remote applier is nil unless the
// backend also evaluates filters.
func newAssistant(cfg config.Config, logger *zap.Logger) (aifilter.Assistant, aihandler.Applier) {
	switch {
	case cfg.AIAPIKey != "":
		return aifilter.NewOpenAIAssistant(cfg.AIAPIKey, "", cfg.AIModel, logger), nil
	case cfg.AIEndpoint != "":
		var tokens apiclient.TokenSource
		if strings.TrimSpace(cfg.BackendToken) != "" {
			tokens = apiclient.StaticToken(cfg.BackendToken)
		}
		remote := aifilter.NewHTTPAssistant(apiclient.New(cfg.AIEndpoint, tokens, cfg.LoadTimeout, logger))
		return remote, remote
	}
	return nil, nil
}

// NewRouter builds the HTTP surface. authHandler serves the public login
// route; every other group is mounted behind the bearer middleware.
func NewRouter(cfg config.Config, logger *zap.Logger, pinger Pinger, collector *metrics.Collector, authHandler *authhandler.Handler, groups ...Registrar) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger, collector))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes, cfg.MaxUploadBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled && collector != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.SensitiveRateLimit(sensitiveLimit, sensitiveWindow))
		authHandler.RegisterPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			authHandler.RegisterRoutes(r)
			for _, g := range groups {
				g.RegisterRoutes(r)
			}
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	return router
}

// Run loads the collections, starts the job worker and serves until ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	a.Jobs.Start(ctx)
	a.refresh(ctx)
	a.Jobs.Schedule(ctx, a.Config.StoreRefreshInterval, jobs.JobStoreRefresh, func(ctx context.Context) (any, error) {
		return a.refresh(ctx).Messages(), nil
	})

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", zap.String("addr", a.Config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("graceful shutdown failed", zap.Error(err))
		}
	}
	a.Jobs.Wait()
	return serveErr
}

func (a *App) refresh(ctx context.Context) entitystore.Diagnostics {
	diag := a.Loader.Refresh(ctx, a.Store)
	a.Metrics.StoreReload(len(diag))
	if !diag.OK() {
		a.Logger.Warn("collections loaded with failures", zap.Strings("failed_sources", diag.Failed()))
	}
	return diag
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// UserSeeder inserts a user unless the email is already taken.
type UserSeeder interface {
	EnsureUser(ctx context.Context, email, passwordHash, role string) (bool, error)
}

// SeedAdmin creates the configured admin account on first start.
func SeedAdmin(ctx context.Context, store UserSeeder, cfg config.Config, logger *zap.Logger) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" {
		return nil
	}
	password := cfg.SeedAdminPassword
	if password == "" {
		if cfg.IsProduction() {
			return errors.New("SEED_ADMIN_PASSWORD is required")
		}
		password = "admin123"
		logger.Warn("seeding admin with the development default password", zap.String("email", email))
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	created, err := store.EnsureUser(ctx, email, hash, auth.RoleAdmin)
	if err != nil {
		return err
	}
	if created {
		logger.Info("admin user seeded", zap.String("email", email))
	}
	return nil
}
