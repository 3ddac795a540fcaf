package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/link-shortener/internal/adapter/preview"
	"github.com/vadimbarashkov/link-shortener/internal/config"
	"github.com/vadimbarashkov/link-shortener/internal/usecase"
	"github.com/vadimbarashkov/link-shortener/pkg/middleware/ratelimit"
	"github.com/vadimbarashkov/link-shortener/pkg/postgres"
	"golang.org/x/sync/errgroup"

	httpdelivery "github.com/vadimbarashkov/link-shortener/internal/adapter/delivery/http"
	memrepo "github.com/vadimbarashkov/link-shortener/internal/adapter/repository/memory"
	pgrepo "github.com/vadimbarashkov/link-shortener/internal/adapter/repository/postgres"
)

const serviceName = "link-shortener"

type previewFetcher interface {
	PreviewImage(ctx context.Context, pageURL string) (string, bool)
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg)

	handler, cleanup, err := newHandler(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer cleanup()

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        handler,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		logger.Info("starting server",
			"addr", server.Addr,
			"env", cfg.Env,
			"storage", cfg.Storage,
		)

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

func newLogger(cfg *config.Config) *httplog.Logger {
	prod := cfg.Env == config.EnvProd

	return httplog.NewLogger(serviceName, httplog.Options{
		JSON:           cfg.Log.JSON || prod,
		LogLevel:       cfg.Log.SlogLevel(),
		Concise:        !prod,
		RequestHeaders: !prod,
		Tags: map[string]string{
			"env": cfg.Env,
		},
	})
}

// newHandler assembles storage, the link use case and the router. The returned
// cleanup func releases the storage.
func newHandler(ctx context.Context, cfg *config.Config, logger *httplog.Logger) (http.Handler, func() error, error) {
	var fetcher previewFetcher = preview.Noop{}
	if cfg.Preview.Enabled {
		fetcher = preview.New(preview.Config{
			Timeout:      cfg.Preview.Timeout,
			MaxBodyBytes: cfg.Preview.MaxBodyBytes,
			UserAgent:    cfg.Preview.UserAgent,
		}, logger.Logger)
	}

	aliases := usecase.NewAliasGenerator(cfg.Alias.Length, cfg.Alias.MaxAttempts)

	var (
		uc      *usecase.LinkUseCase
		cleanup = func() error { return nil }
	)

	switch cfg.Storage {
	case config.StorageMemory:
		uc = usecase.New(memrepo.NewLinkRepository(), fetcher, aliases, logger.Logger)
	default:
		db, err := postgres.New(
			ctx,
			cfg.Postgres.DSN(),
			postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
			postgres.WithConnectRetry(cfg.Postgres.ConnectAttempts, cfg.Postgres.ConnectDelay),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		version, err := postgres.RunMigrations(cfg.Postgres.MigrationsPath, cfg.Postgres.DSN())
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		logger.Info("database schema is up to date", "version", version)

		cleanup = db.Close
		uc = usecase.New(pgrepo.NewLinkRepository(db), fetcher, aliases, logger.Logger)
	}

	r := httpdelivery.NewRouter(logger, uc, httpdelivery.Config{
		APIRoot:        cfg.HTTPServer.APIRoot,
		BaseURL:        cfg.BaseURL,
		AppURL:         cfg.AppURL,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		Auth: httpdelivery.AuthConfig{
			JWTSecret:  cfg.Auth.JWTSecret,
			CookieName: cfg.Auth.CookieName,
		},
		CreateLimit: ratelimit.Config{
			Window: cfg.RateLimit.Window,
			Max:    cfg.RateLimit.CreateMax,
		},
		DefaultLimit: ratelimit.Config{
			Window: cfg.RateLimit.Window,
			Max:    cfg.RateLimit.DefaultMax,
		},
	})

	return r, cleanup, nil
}
