package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/brevly/internal/adapter/repository/postgres"
	"github.com/vadimbarashkov/brevly/internal/adapter/storage/s3"
	"github.com/vadimbarashkov/brevly/internal/config"
	"github.com/vadimbarashkov/brevly/internal/metrics"
	"github.com/vadimbarashkov/brevly/internal/usecase"
	"github.com/vadimbarashkov/brevly/migrations"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/brevly/internal/adapter/delivery/http"
	pg "github.com/vadimbarashkov/brevly/pkg/postgres"
)

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel:       slog.LevelDebug,
		Concise:        true,
		RequestHeaders: true,
		Tags: map[string]string{
			"env": env,
		},
	}

	if env == config.EnvProd {
		opts.LogLevel = slog.LevelInfo
		opts.JSON = true
		opts.Concise = false
	}

	return httplog.NewLogger("brevly", opts)
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg.Env)

	db, err := pg.New(
		ctx,
		cfg.Postgres.DSN(),
		pg.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pg.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pg.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := pg.RunMigrations(migrations.FS, ".", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	storage, err := s3.New(ctx, cfg.ObjectStorage)
	if err != nil {
		return fmt.Errorf("%s: failed to init object storage: %w", op, err)
	}

	linkRepo := postgres.NewLinkRepository(db)
	linkUseCase := usecase.NewLinkUseCase(cfg.ShortCodeLength, linkRepo)
	exportUseCase := usecase.NewExportUseCase(linkRepo, storage, cfg.ObjectStorage.PublicURL)

	router := delivery.NewRouter(delivery.RouterOptions{
		Logger:         logger,
		Metrics:        metrics.New(),
		LinkUseCase:    linkUseCase,
		ExportUseCase:  exportUseCase,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		useTLS := cfg.Env == config.EnvProd && cfg.HTTPServer.TLSEnabled()
		logger.Info("starting server", slog.String("addr", server.Addr), slog.Bool("tls", useTLS))

		if useTLS {
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		} else {
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
