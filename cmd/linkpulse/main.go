package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"

	api "github.com/avoronov/linkpulse/internal/api/http"
	"github.com/avoronov/linkpulse/internal/config"
	"github.com/avoronov/linkpulse/internal/database/postgres"
	"github.com/avoronov/linkpulse/internal/database/redis"
	"github.com/avoronov/linkpulse/internal/service"
	pkgpostgres "github.com/avoronov/linkpulse/pkg/postgres"
)

const migrationPath = "file://migrations"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		panic(err)
	}
}

func newLogger(env string) *httplog.Logger {
	switch env {
	case config.EnvProd:
		return httplog.NewLogger("linkpulse", httplog.Options{
			JSON:     true,
			LogLevel: slog.LevelInfo,
		})
	case config.EnvStage:
		return httplog.NewLogger("linkpulse", httplog.Options{
			JSON:     true,
			LogLevel: slog.LevelDebug,
		})
	default:
		return httplog.NewLogger("linkpulse", httplog.Options{
			LogLevel: slog.LevelDebug,
			Concise:  true,
		})
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Env)

	if err := pkgpostgres.RunMigrations(migrationPath, cfg.Postgres.DSN()); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	db, err := pkgpostgres.New(ctx, cfg.Postgres.DSN(),
		pkgpostgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pkgpostgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pkgpostgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pkgpostgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return err
	}
	g.Go(func() error {
		<-ctx.Done()
		return db.Close()
	})

	redisClient, err := redis.New(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	g.Go(func() error {
		<-ctx.Done()
		return redisClient.Close()
	})

	linkRepo := postgres.NewLinkRepository(db)
	clickRepo := postgres.NewClickRepository(db)
	userRepo := postgres.NewUserRepository(db)
	referrerRepo := postgres.NewReferrerRepository(db)
	tokenStore := redis.NewTokenStore(redisClient)

	svcs := api.Services{
		Auth:      service.NewAuthService(userRepo, tokenStore, cfg.JWT.Secret, cfg.JWT.TokenTTL),
		Links:     service.NewLinkService(linkRepo, referrerRepo, cfg.AliasLength),
		Redirect:  service.NewRedirectService(linkRepo, clickRepo, logger.Logger),
		Stats:     service.NewStatsService(linkRepo, clickRepo),
		Referrers: service.NewReferrerService(referrerRepo),
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        api.NewRouter(logger, svcs, cfg.RateLimit),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g.Go(func() error {
		logger.Info("starting server", slog.String("addr", server.Addr), slog.String("env", cfg.Env))

		var err error
		if cfg.HTTPServer.CertFile != "" && cfg.HTTPServer.KeyFile != "" {
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})

	return g.Wait()
}
