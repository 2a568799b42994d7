package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	boltadapter "github.com/ericfisherdev/gitshelf/internal/adapter/driven/bolt"
	githubadapter "github.com/ericfisherdev/gitshelf/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/gitshelf/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/gitshelf/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/gitshelf/internal/adapter/driving/web"
	"github.com/ericfisherdev/gitshelf/internal/application"
	"github.com/ericfisherdev/gitshelf/internal/config"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"store", cfg.Store,
		"min_busy", cfg.MinBusy,
		"github_authenticated", cfg.HasGitHubToken(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the bookmark store.
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			slog.Error("error closing bookmark store", "error", closeErr)
		}
	}()

	// 4. Create GitHub client (anonymous when no token is configured).
	ghClient, err := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL)
	if err != nil {
		return err
	}

	// 5. Create services and restore the bookmark collection.
	bookmarkSvc := application.NewBookmarkService(store, ghClient, slog.Default())
	if err := bookmarkSvc.Load(ctx); err != nil {
		return err
	}
	repoSvc := application.NewRepositoryService(ghClient, slog.Default())

	// 6. Register API and GUI routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(bookmarkSvc, repoSvc, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(bookmarkSvc, repoSvc, cfg.MinBusy, slog.Default()))

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("gitshelf started", "listen_addr", cfg.ListenAddr)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 8. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// openStore opens the bookmark store selected by cfg.Store and returns it
// with its close function.
func openStore(ctx context.Context, cfg *config.Config) (driven.BookmarkStore, func() error, error) {
	switch cfg.Store {
	case config.StoreBolt:
		store, err := boltadapter.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("bolt store opened", "path", cfg.DBPath)
		return store, store.Close, nil

	case config.StoreSQLite:
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("database opened", "path", cfg.DBPath)

		version, err := sqliteadapter.RunMigrations(db.Writer)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		slog.Info("migrations complete", "schema_version", version)
		return sqliteadapter.NewBookmarkRepo(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
