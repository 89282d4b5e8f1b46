// Package app wires configuration, logging, storage, services, and the HTTP
// transport into a runnable server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/almonteweb/listaescolar-backend/internal/adapter/catalog"
	"github.com/almonteweb/listaescolar-backend/internal/adapter/classifier"
	"github.com/almonteweb/listaescolar-backend/internal/adapter/postgres"
	courserepo "github.com/almonteweb/listaescolar-backend/internal/adapter/postgres/course"
	"github.com/almonteweb/listaescolar-backend/internal/config"
	"github.com/almonteweb/listaescolar-backend/internal/matcher"
	coursesvc "github.com/almonteweb/listaescolar-backend/internal/service/course"
	"github.com/almonteweb/listaescolar-backend/internal/service/importer"
	"github.com/almonteweb/listaescolar-backend/internal/service/listversion"
	"github.com/almonteweb/listaescolar-backend/internal/transport/middleware"
	"github.com/almonteweb/listaescolar-backend/internal/transport/rest"
	"github.com/almonteweb/listaescolar-backend/migrations"
)

// Run is the application entry point. It loads configuration, applies
// pending migrations, wires the services, and serves HTTP until ctx is
// cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := applyMigrations(ctx, cfg.Database.DSN); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	courseRepo := courserepo.New(pool, logger)
	catalogClient := catalog.New(cfg.Catalog, logger)
	classifierClient := classifier.New(cfg.Classifier, logger)
	match := matcher.New(matcher.Config{
		HighThreshold: cfg.Matcher.HighThreshold,
		LowThreshold:  cfg.Matcher.LowThreshold,
		AmbiguityBand: cfg.Matcher.AmbiguityBand,
	})

	courseService := coursesvc.NewService(logger, courseRepo)
	listService := listversion.NewService(logger, courseRepo, txManager)
	importService := importer.NewService(logger, listService, catalogClient, classifierClient, match, cfg.Importer)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Health:      rest.NewHealthHandler(pool, BuildVersion()),
		Courses:     rest.NewCourseHandler(courseService, logger),
		Lists:       rest.NewListHandler(listService, importService, logger),
		Logger:      logger,
		CORS:        cfg.CORS,
		RateLimiter: rateLimiter,
		RateLimit:   cfg.Server.RateLimitPerMin,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

// applyMigrations runs the embedded goose migrations. goose requires
// database/sql, so a separate short-lived connection is used here instead
// of the pgx pool.
func applyMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
