package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/notekit/internal/api"
	"github.com/dmitrymomot/notekit/internal/notes"
	"github.com/dmitrymomot/notekit/internal/repository"
	"github.com/dmitrymomot/notekit/internal/repository/migrations"
	"github.com/dmitrymomot/notekit/internal/subscription"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/internal/users"
	"github.com/dmitrymomot/notekit/pkg/config"
	"github.com/dmitrymomot/notekit/pkg/email"
	"github.com/dmitrymomot/notekit/pkg/environment"
	"github.com/dmitrymomot/notekit/pkg/httpserver"
	"github.com/dmitrymomot/notekit/pkg/jwt"
	"github.com/dmitrymomot/notekit/pkg/logger"
	"github.com/dmitrymomot/notekit/pkg/metrics"
	"github.com/dmitrymomot/notekit/pkg/pg"
	"github.com/dmitrymomot/notekit/pkg/redis"
	"github.com/dmitrymomot/notekit/pkg/requestid"
)

const serviceName = "notekit"

// AppConfig holds process level settings.
type AppConfig struct {
	Env            string `env:"NODE_ENV" envDefault:"development"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	StoreDriver    string `env:"STORE_DRIVER" envDefault:"postgres"`
	AppURL         string `env:"APP_URL" envDefault:"http://localhost:8080"`
}

// store is what the services need from persistence.
type store interface {
	tenant.Store
	notes.Store
	users.Store
	subscription.Store
	Ping(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg AppConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load app config: %w", err)
	}
	env := environment.Parse(cfg.Env)

	log := logger.New(
		logger.WithEnvironment(env, serviceName),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.UserLoggerExtractor(),
			tenant.TenantLoggerExtractor(),
		),
	)
	slog.SetDefault(log)

	st, closeStore, err := openStore(ctx, cfg.StoreDriver, log)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, cachePing, closeCache, err := profileCache(ctx, log)
	if err != nil {
		return err
	}
	defer closeCache()
	ping := func(ctx context.Context) error {
		if err := st.Ping(ctx); err != nil {
			return err
		}
		return cachePing(ctx)
	}

	var jwtCfg jwt.Config
	if err := config.Load(&jwtCfg); err != nil {
		return fmt.Errorf("load jwt config: %w", err)
	}
	tokens, err := jwt.NewFromConfig(jwtCfg)
	if err != nil {
		return fmt.Errorf("jwt: %w", err)
	}

	sender, err := emailSender(log)
	if err != nil {
		return err
	}

	m := metrics.New(serviceName)
	errorHandler := api.NewErrorHandler(log, m)

	tenants := tenant.NewService(st,
		tenant.WithCache(cache),
		tenant.WithLogger(log),
	)

	router := api.Router(api.RouterOptions{
		Environment:    env,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
		Metrics:        m,
		JWT:            tokens,
		Tenants:        tenants,
		Health:         api.NewHealthHandler(ping, env),
		Notes: api.NewNotesHandler(
			notes.NewService(st, notes.WithLogger(log)),
			errorHandler,
		),
		Users: api.NewUsersHandler(
			users.NewService(st,
				users.WithInvalidator(tenants),
				users.WithInviter(users.NewEmailInviter(sender, cfg.AppURL)),
				users.WithLogger(log),
			),
			errorHandler,
		),
		Subscription: api.NewSubscriptionHandler(
			subscription.NewService(st, tenants, log),
			errorHandler,
		),
	})

	var srvCfg httpserver.Config
	if err := config.Load(&srvCfg); err != nil {
		return fmt.Errorf("load http config: %w", err)
	}

	log.InfoContext(ctx, "starting server",
		slog.String("addr", srvCfg.Addr),
		slog.String("store", cfg.StoreDriver),
	)
	return httpserver.New(srvCfg, router, log).Run(ctx)
}

// openStore returns the configured store and a function releasing its
// connections.
func openStore(ctx context.Context, driver string, log *slog.Logger) (store, func(), error) {
	switch driver {
	case "memory":
		log.WarnContext(ctx, "using in-memory store, data is lost on restart")
		return repository.NewMemory(), func() {}, nil
	case "postgres":
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, nil, fmt.Errorf("load postgres config: %w", err)
	}
	pool, err := pg.Connect(ctx, pgCfg, log)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Migrate(ctx, pool, migrations.FS, migrations.Dir, pgCfg, log); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repository.NewPostgres(pool), pool.Close, nil
}

// profileCache returns the redis backed cache, its health probe and a
// function closing the client, or a no-op cache when REDIS_URL is empty.
func profileCache(ctx context.Context, log *slog.Logger) (tenant.ProfileCache, func(context.Context) error, func(), error) {
	noPing := func(context.Context) error { return nil }

	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return nil, nil, nil, fmt.Errorf("load redis config: %w", err)
	}
	if !redisCfg.Enabled() {
		log.InfoContext(ctx, "redis not configured, profile cache disabled")
		return tenant.NopCache(), noPing, func() {}, nil
	}

	var cacheCfg tenant.CacheConfig
	if err := config.Load(&cacheCfg); err != nil {
		return nil, nil, nil, fmt.Errorf("load profile cache config: %w", err)
	}

	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close redis client", logger.Error(err))
		}
	}
	return tenant.NewRedisProfileCache(client, cacheCfg), redis.Healthcheck(client), closeClient, nil
}

func emailSender(log *slog.Logger) (email.EmailSender, error) {
	var emailCfg email.Config
	if err := config.Load(&emailCfg); err != nil {
		return nil, fmt.Errorf("load email config: %w", err)
	}
	if !emailCfg.PostmarkEnabled() {
		return email.NewDevSender(log), nil
	}
	sender, err := email.NewPostmarkSender(emailCfg)
	if err != nil {
		return nil, errors.Join(email.ErrInvalidConfig, err)
	}
	return sender, nil
}
