// Package server initializes and runs the application: configuration,
// logging, database with schema migrations, the user service, the login
// rate limiter and the HTTP endpoint, with graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	httpx "github.com/dmitrijs2005/gatekeeper/internal/server/http"
	"github.com/dmitrijs2005/gatekeeper/internal/server/migrations"
	"github.com/dmitrijs2005/gatekeeper/internal/server/ratelimit"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	limiter     ratelimit.Limiter
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if cfg.IsProduction() && cfg.SecretKey == config.DefaultSecretKey {
		return nil, errors.New("production requires an explicit secret key")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	repo := users.NewPostgresRepository(db)
	userService := services.NewUserService(repo, cfg)

	limiter, err := newLimiter(cfg)
	if err != nil {
		return nil, fmt.Errorf("rate limiter init error: %w", err)
	}

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: userService,
		limiter:     limiter,
	}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// newLimiter picks the rate limiter backend: Redis when configured so the
// limit holds across replicas, an in-process map otherwise.
func newLimiter(cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.LoginRateLimit <= 0 {
		return nil, nil
	}
	if cfg.RedisAddr != "" {
		return ratelimit.NewRedisLimiter(cfg.RedisAddr, "", 0)
	}
	return ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{}), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	server := httpx.NewServer(app.config, app.logger, app.userService, app.limiter)
	if err := server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "error", err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "app stopped")
}
