// Package cli implements the gitshelfctl terminal driving adapter.
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/gitshelf/internal/application"
)

// Services are the application services a command operates on.
type Services struct {
	Bookmarks    *application.BookmarkService
	Repositories *application.RepositoryService
}

// Opener builds the services for one command invocation. The returned close
// function releases the bookmark store.
type Opener func(ctx context.Context, logger *slog.Logger) (*Services, func() error, error)

// NewCommand creates the gitshelfctl root command.
func NewCommand(open Opener) *cli.Command {
	h := &handler{open: open}

	return &cli.Command{
		Name:    "gitshelfctl",
		Usage:   "Manage gitshelf repository bookmarks from the terminal",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List bookmarked repositories",
				Action: h.list,
			},
			{
				Name:      "add",
				Usage:     "Bookmark a repository",
				ArgsUsage: "OWNER/NAME",
				Action:    h.add,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a bookmarked repository",
				ArgsUsage: "OWNER/NAME",
				Action:    h.remove,
			},
			{
				Name:      "issues",
				Usage:     "Show one page of a repository's issues",
				ArgsUsage: "OWNER/NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "state",
						Aliases: []string{"s"},
						Usage:   "Issue state: all, open or closed",
						Value:   "open",
					},
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "Page number, starting at 1",
						Value:   1,
					},
				},
				Action: h.issues,
			},
		},
	}
}
