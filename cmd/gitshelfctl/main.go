package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	boltadapter "github.com/ericfisherdev/gitshelf/internal/adapter/driven/bolt"
	githubadapter "github.com/ericfisherdev/gitshelf/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/gitshelf/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/gitshelf/internal/adapter/driving/cli"
	"github.com/ericfisherdev/gitshelf/internal/application"
	"github.com/ericfisherdev/gitshelf/internal/config"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := cli.NewCommand(open)
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// open wires the same store and GitHub client the server uses, so both share
// one bookmark collection.
func open(ctx context.Context, logger *slog.Logger) (*cli.Services, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	ghClient, err := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	bookmarkSvc := application.NewBookmarkService(store, ghClient, logger)
	if err := bookmarkSvc.Load(ctx); err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	return &cli.Services{
		Bookmarks:    bookmarkSvc,
		Repositories: application.NewRepositoryService(ghClient, logger),
	}, closeStore, nil
}

func openStore(ctx context.Context, cfg *config.Config) (driven.BookmarkStore, func() error, error) {
	switch cfg.Store {
	case config.StoreBolt:
		store, err := boltadapter.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("%w (is the gitshelf server holding the file?)", err)
		}
		return store, store.Close, nil

	case config.StoreSQLite:
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if _, err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqliteadapter.NewBookmarkRepo(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
