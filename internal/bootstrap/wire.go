package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/audit"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/db/migrations"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/profile"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
	http_handlers "github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/router"
)

const migrateTimeout = 30 * time.Second

// Deps holds every constructor newServer touches so tests can swap them.
type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(rabbitURL, exchange string) (auth.EventPublisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    migrations.Up,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (auth.EventPublisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

// closers releases resources in reverse acquisition order.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func newServer(deps Deps) (srv *http.Server, cleanup func(), err error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cl closers
	defer func() {
		if err != nil {
			cl.run()
		}
	}()

	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}
	cl.add(func() { _ = db.Close() })

	if cfg.DBMigrate && deps.Migrate != nil {
		if err = migrate(deps.Migrate, db); err != nil {
			return nil, nil, err
		}
	}

	users := postgres.NewUserRepo(db)
	blacklist := withBlacklistCache(cfg, deps.NewRedis, postgres.NewBlacklistRepo(db), &cl)

	pub, err := openPublisher(cfg, deps.NewPublisher, &cl)
	if err != nil {
		return nil, nil, err
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)
	logger.Logger.Info().
		Str("issuer", cfg.JWTIssuer).
		Dur("token_ttl", cfg.TokenTTL).
		Int("bcrypt_cost", cfg.BcryptCost).
		Msg("security configured")

	if cfg.Env == "dev" {
		postgres.SeedUsers(context.Background(), users, hasher)
	}

	svc := auth.NewService(
		users,
		hasher,
		signer,
		blacklist,
		profile.NewClient(cfg.ProfileServiceURL, cfg.ProfileTimeout),
		pub,
		auth.Config{TokenTTL: cfg.TokenTTL},
	).WithAudit(audit.New(logger.Logger))

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	janitorDone := startBlacklistJanitor(janitorCtx, svc, cfg.BlacklistPurgeInterval)
	cl.add(func() {
		stopJanitor()
		<-janitorDone
	})

	mux, err := deps.NewRouter(router.Deps{
		Health:         http_handlers.NewHealthHandler(db),
		Auth:           http_handlers.NewAuthHandler(svc),
		AuthMW:         middleware.Auth(svc, response.WriteError),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		return nil, nil, err
	}

	srv = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return srv, cl.run, nil
}

func migrate(up func(context.Context, *sql.DB) error, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := up(ctx, db); err != nil {
		return err
	}
	logger.Logger.Info().Msg("migrations applied")
	return nil
}

// withBlacklistCache puts Redis in front of the blacklist table when it is
// configured and reachable. Redis is never required to serve traffic.
func withBlacklistCache(
	cfg *config.Config,
	newRedis func(addr, password string, db int) *redis.Client,
	store auth.Blacklist,
	cl *closers,
) auth.Blacklist {
	if cfg.RedisAddr == "" || newRedis == nil {
		return store
	}
	c := newRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := c.Ping(context.Background()); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, blacklist cache disabled")
		_ = c.Close()
		return store
	}
	cl.add(func() { _ = c.Close() })
	logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("blacklist cache enabled")
	return redis.NewCachedBlacklist(store, c)
}

// openPublisher dials the broker. Outside dev a broken broker URL is fatal;
// with no URL at all events are dropped.
func openPublisher(
	cfg *config.Config,
	dial func(url, exchange string) (auth.EventPublisher, error),
	cl *closers,
) (auth.EventPublisher, error) {
	if cfg.RabbitURL == "" || dial == nil {
		return memory.NewNoopPublisher(), nil
	}
	p, err := dial(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		if cfg.Env != "dev" {
			return nil, err
		}
		logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable, using noop publisher")
		return memory.NewNoopPublisher(), nil
	}
	if c, ok := p.(interface{ Close() error }); ok {
		cl.add(func() { _ = c.Close() })
	}
	return p, nil
}
