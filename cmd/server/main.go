// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	accountshandler "kurspanel/internal/accounts/handler"
	accountsservice "kurspanel/internal/accounts/service"
	accountsstore "kurspanel/internal/accounts/store"
	"kurspanel/internal/audit"
	credhandler "kurspanel/internal/credentials/handler"
	credjwt "kurspanel/internal/credentials/jwt"
	credservice "kurspanel/internal/credentials/service"
	credstore "kurspanel/internal/credentials/store"
	"kurspanel/internal/events"
	"kurspanel/internal/isolation"
	licensehandler "kurspanel/internal/license/handler"
	licensemetrics "kurspanel/internal/license/metrics"
	licenseservice "kurspanel/internal/license/service"
	licensestore "kurspanel/internal/license/store"
	"kurspanel/internal/platform/config"
	"kurspanel/internal/platform/database"
	"kurspanel/internal/platform/health"
	"kurspanel/internal/platform/logger"
	platformredis "kurspanel/internal/platform/redis"
	"kurspanel/internal/platform/tracer"
	"kurspanel/internal/roster"
	"kurspanel/internal/tenantctx"
	"kurspanel/pkg/platform/middleware/device"
	"kurspanel/pkg/platform/middleware/operator"
	request "kurspanel/pkg/platform/middleware/request"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing kurspanel control plane",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	pool, err := database.New(withURL(database.DefaultConfig(), cfg.DatabaseURL))
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		prometheus.MustRegister(collectors.NewDBStatsCollector(pool.DB(), "kurspanel"))
		log.Info("database connected", "open_conns", pool.Stats().OpenConnections)
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	// Stores fall back to memory when no database is configured, which keeps
	// local development free of infrastructure.
	var (
		tenantStore  licensestore.TenantStore
		tokenStore   credservice.TokenStore
		accountStore accountsservice.AccountStore
		auditStore   audit.Store
	)
	if pool != nil {
		tenantStore = licensestore.NewPostgres(pool.DB())
		tokenStore = credstore.NewPostgres(pool.DB())
		accountStore = accountsstore.NewPostgres(pool.DB())
		auditStore = audit.NewPostgres(pool.DB())
	} else {
		log.Warn("no DATABASE_URL set, using in-memory stores")
		tenantStore = licensestore.NewMemory()
		tokenStore = credstore.NewMemory()
		accountStore = accountsstore.NewMemory()
		auditStore = audit.NewInMemoryStore()
	}
	if redisClient != nil {
		tenantStore = licensestore.NewCached(tenantStore, redisClient, log, 5*time.Minute)
	}

	recorder := audit.NewRecorder(auditStore, log, audit.WithAsyncBuffer(256))
	defer recorder.Close()

	var publisher events.Publisher = events.Noop{}
	if cfg.KafkaBrokers != "" {
		kafka, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.EventTopic,
		}, log)
		if err != nil {
			log.Error("kafka init failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
	}

	registry := isolation.NewRegistry()
	rosterStore := roster.NewStore(registry)

	licenseSvc := licenseservice.New(tenantStore,
		licenseservice.WithDependencyChecker(registry),
		licenseservice.WithUsageReporter(rosterStore),
		licenseservice.WithAuditRecorder(recorder),
		licenseservice.WithEventPublisher(publisher),
		licenseservice.WithMetrics(licensemetrics.New()),
		licenseservice.WithTracer(tracer.NewOTel()),
		licenseservice.WithLogger(log),
	)

	signer := credjwt.NewSigner(cfg.JWTSigningKey)
	credSvc := credservice.New(tokenStore, licenseSvc, signer,
		credservice.WithAuditRecorder(recorder),
		credservice.WithEventPublisher(publisher),
		credservice.WithLogger(log),
	)
	accountSvc := accountsservice.New(accountStore, signer, cfg.OperatorTokenTTL,
		accountsservice.WithAuditRecorder(recorder),
		accountsservice.WithLogger(log),
	)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", pool.Health)
	}
	if redisClient != nil {
		healthHandler.RegisterCheck("redis", redisClient.Health)
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.ClientMetadata)
	r.Use(device.Device)
	r.Use(request.Logger(log))
	r.Use(tenantctx.Install)

	r.Method(http.MethodGet, "/healthz", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		accountshandler.New(accountSvc, log).Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(operator.RequireAuth(credSvc, log))
		r.Use(tenantctx.BindFromPrincipal(log))
		licensehandler.New(licenseSvc, log).Register(r)
		credhandler.New(credSvc, log).Register(r)
		r.Group(func(r chi.Router) {
			r.Use(operator.RequireOperator(log))
			audit.NewHandler(auditStore, log).Register(r)
		})
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func withURL(cfg database.Config, url string) database.Config {
	cfg.URL = url
	return cfg
}
