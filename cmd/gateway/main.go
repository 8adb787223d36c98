// Command gateway runs the VERTEX TARGET portal gateway.
//
//	@title			VERTEX TARGET portal gateway
//	@version		1.0
//	@description	Backend-for-frontend for the VERTEX TARGET dashboard.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vertextarget/portal-gateway/internal/api"
	"github.com/vertextarget/portal-gateway/internal/api/handler"
	"github.com/vertextarget/portal-gateway/internal/api/metrics"
	"github.com/vertextarget/portal-gateway/internal/api/middleware"
	"github.com/vertextarget/portal-gateway/internal/core/cache"
	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
	"github.com/vertextarget/portal-gateway/internal/core/service"
	"github.com/vertextarget/portal-gateway/internal/infrastructure/db/memory"
	mongodb "github.com/vertextarget/portal-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/vertextarget/portal-gateway/internal/infrastructure/db/redis"
	"github.com/vertextarget/portal-gateway/internal/infrastructure/queue"
	"github.com/vertextarget/portal-gateway/internal/infrastructure/remote"
	"github.com/vertextarget/portal-gateway/internal/infrastructure/telemetry"
	"github.com/vertextarget/portal-gateway/internal/pkg/config"
	"github.com/vertextarget/portal-gateway/pkg/logger"
)

const auditWorkers = 4

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.ServiceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	shutdownTracing := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Environment: cfg.Env,
	}, logger.Component(log, "telemetry"))
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	checks := map[string]handler.Check{}

	// --- Session storage ---
	var sessions ports.SessionStorageProvider
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		log.Warn().Msg("using in-memory session storage; sessions are lost on restart")
		sessions = memory.NewSessionStorage(cfg.Session.TTL)
	default:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = redisdb.NewSessionStorage(rdb, cfg.Session.TTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// --- Audit trail ---
	var (
		auditSink   ports.AuditSink = ports.NopAuditSink{}
		auditReader handler.AuditReader
	)
	if cfg.AuditEnabled() {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  cfg.ServiceName,
		})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		repo := mongodb.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}
		dispatcher := queue.NewDispatcher(auditWorkers, repo, metrics.AuditObserver{}, logger.Component(log, "audit"))
		dispatcher.Start(ctx)
		defer dispatcher.Close()

		auditSink, auditReader = dispatcher, repo
		checks["mongo"] = repo.Ping
	}

	// --- Backend clients ---
	backend := remote.New(remote.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	}, logger.Component(log, "backend"), remote.WithObserver(metrics.BackendObserver{}))
	checks["backend"] = backend.Health

	authClient := remote.NewAuthClient(backend)
	portfolioClient := remote.NewPortfolioClient(backend)
	testimonialClient := remote.NewTestimonialClient(backend)

	// --- Resource stores: one per resource for the life of the process ---
	portfolioStore := cache.New[domain.Project]("portfolio", portfolioClient.List,
		cache.WithTTL(cfg.Cache.PortfolioTTL),
		cache.WithLogger(logger.Component(log, "portfolio-store")),
		cache.WithObserver(metrics.CacheObserver{}),
	)
	testimonialStore := cache.New[domain.Testimonial]("testimonials", testimonialClient.List,
		cache.WithTTL(cfg.Cache.TestimonialsTTL),
		cache.WithLogger(logger.Component(log, "testimonials-store")),
		cache.WithObserver(metrics.CacheObserver{}),
	)

	e := api.NewRouter(api.Deps{
		Log: log,
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.Cookie,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.CookieSecure,
			Storage:    sessions,
			Auth:       authClient,
			Observer:   metrics.AuthObserver{},
			Log:        logger.Component(log, "session"),
		},
		Portfolio:    service.NewPortfolio(portfolioStore, portfolioClient, auditSink, logger.Component(log, "portfolio")),
		Testimonials: service.NewTestimonials(testimonialStore, testimonialClient, auditSink, logger.Component(log, "testimonials")),
		Users:        service.NewUserService(remote.NewUserClient(backend), authClient, auditSink, logger.Component(log, "users")),
		Strategy: service.NewStrategyService(remote.NewStrategyClient(backend), authClient, service.StrategyConfig{
			DemoEmail:    cfg.Strategy.DemoEmail,
			DemoPassword: cfg.Strategy.DemoPassword,
			TokenTTL:     cfg.Strategy.TokenTTL,
		}, logger.Component(log, "strategy")),
		Contact: service.NewContactService(remote.NewContactClient(backend), logger.Component(log, "contact")),
		Audit:   auditReader,
		Checks:  checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, "gateway"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend.URL).Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
