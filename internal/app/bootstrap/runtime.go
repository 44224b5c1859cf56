package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/adapters/cache"
	eventadapter "github.com/Ademileke12/examfever-affiliate-service/internal/adapters/events"
	grpcadapter "github.com/Ademileke12/examfever-affiliate-service/internal/adapters/grpc"
	httpadapter "github.com/Ademileke12/examfever-affiliate-service/internal/adapters/http"
	"github.com/Ademileke12/examfever-affiliate-service/internal/adapters/memory"
	"github.com/Ademileke12/examfever-affiliate-service/internal/adapters/postgres"
	"github.com/Ademileke12/examfever-affiliate-service/internal/adapters/security"
	"github.com/Ademileke12/examfever-affiliate-service/internal/application"
	"google.golang.org/grpc"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	worker     *eventadapter.OutboxWorker
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	deps := application.Dependencies{
		Config: application.Config{
			ServiceName:        cfg.ServiceID,
			CommissionRate:     cfg.CommissionRate,
			FraudLogLookback:   cfg.FraudLogLookback,
			ReferralCodeLength: cfg.ReferralCodeLength,
			OutboxBatchSize:    cfg.OutboxBatchSize,
			RateLimits:         rateLimitPolicies(cfg.RateLimits),
		},
	}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, 10)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		repos := postgres.NewRepositories(db)
		deps.Referrals, deps.Affiliates, deps.Commissions = repos.Referrals, repos.Affiliates, repos.Commissions
		deps.FraudLogs, deps.Outbox = repos.FraudLogs, repos.Outbox
	} else {
		logger.WarnContext(ctx, "DATABASE_URL not set, using in-memory repositories",
			"module", "bootstrap", "layer", "app", "operation", "init_storage", "outcome", "fallback")
		repos := memory.NewRepositories()
		deps.Referrals, deps.Affiliates, deps.Commissions = repos.Referrals, repos.Affiliates, repos.Commissions
		deps.FraudLogs, deps.Outbox = repos.FraudLogs, repos.Outbox
	}

	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		deps.RateLimits = cache.NewRedisRateLimitStore(client)
	} else {
		logger.WarnContext(ctx, "REDIS_URL not set, using in-memory rate limit store",
			"module", "bootstrap", "layer", "app", "operation", "init_rate_limit", "outcome", "fallback")
		deps.RateLimits = memory.NewSlidingWindowStore()
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		deps.Publisher = publisher
	} else {
		logger.WarnContext(ctx, "KAFKA_BROKERS not set, events will be logged only",
			"module", "bootstrap", "layer", "app", "operation", "init_publisher", "outcome", "fallback")
		deps.Publisher = eventadapter.NewLoggingPublisher(logger)
	}

	secret := cfg.AuthTokenSecret
	if secret == "" {
		// Unblocks local startup when static secrets are intentionally absent.
		secret = "local-dev-secret"
		logger.WarnContext(ctx, "AUTH_TOKEN_SECRET not set, using local development secret",
			"module", "bootstrap", "layer", "app", "operation", "init_auth", "outcome", "fallback")
	}
	verifier, err := security.NewHMACVerifier(secret)
	if err != nil {
		return nil, fmt.Errorf("init token verifier: %w", err)
	}

	svc := application.NewService(deps)

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler, verifier)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcadapter.Register(grpcServer, grpcadapter.NewAffiliateInternalServer(svc))

	worker := eventadapter.NewOutboxWorker(logger, svc, cfg.OutboxFlush)
	return &Runtime{cfg: cfg, logger: logger, httpServer: httpServer, grpcServer: grpcServer, worker: worker}, nil
}

func rateLimitPolicies(raw map[string]RateLimitConfig) map[string]application.RateLimitPolicy {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]application.RateLimitPolicy, len(raw))
	for class, rl := range raw {
		out[class] = application.RateLimitPolicy{Limit: rl.Limit, Window: rl.Window}
	}
	return out
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Ports bind here, not at construction, so the worker process never holds
	// listeners it does not serve.
	grpcLis, err := net.Listen("tcp", fmt.Sprintf(":%d", r.cfg.GRPCPort))
	if err != nil {
		return err
	}
	errCh := make(chan error, 2)
	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(grpcLis); err != nil {
			errCh <- err
		}
	}()
	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		if err := r.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
