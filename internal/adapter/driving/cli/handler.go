package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/gitshelf/internal/application"
	"github.com/ericfisherdev/gitshelf/internal/domain/model"
)

// ErrUsage is returned when a command is missing its argument.
var ErrUsage = errors.New("usage error")

var (
	nameColor  = color.New(color.FgCyan, color.Bold)
	okColor    = color.New(color.FgGreen)
	errColor   = color.New(color.FgRed)
	labelColor = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
)

type handler struct {
	open Opener
}

func newLogger(cmd *cli.Command) *slog.Logger {
	logLevel := slog.LevelWarn
	if cmd.Bool("debug") {
		logLevel = slog.LevelDebug
	} else if cmd.Bool("verbose") {
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// withServices opens the services, runs fn and releases the store.
func (h *handler) withServices(ctx context.Context, cmd *cli.Command, fn func(*Services) error) error {
	logger := newLogger(cmd)

	svcs, closeFn, err := h.open(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to open gitshelf: %w", err)
	}
	defer func() {
		if closeErr := closeFn(); closeErr != nil {
			logger.Error("error closing bookmark store", "error", closeErr)
		}
	}()

	return fn(svcs)
}

func requireName(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%w: %s expects exactly one OWNER/NAME argument", ErrUsage, cmd.Name)
	}
	return cmd.Args().First(), nil
}

func (h *handler) list(ctx context.Context, cmd *cli.Command) error {
	return h.withServices(ctx, cmd, func(svcs *Services) error {
		w := cmd.Root().Writer
		bookmarks := svcs.Bookmarks.List(ctx)
		if len(bookmarks) == 0 {
			dimColor.Fprintln(w, "No repositories bookmarked.")
			return nil
		}

		for _, b := range bookmarks {
			nameColor.Fprintln(w, b.Name)
		}
		return nil
	})
}

func (h *handler) add(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd)
	if err != nil {
		return err
	}

	return h.withServices(ctx, cmd, func(svcs *Services) error {
		bookmark, err := svcs.Bookmarks.Add(ctx, name)
		if err != nil {
			errColor.Fprintln(cmd.Root().ErrWriter, application.UserMessage(err))
			return err
		}

		okColor.Fprintf(cmd.Root().Writer, "Bookmarked %s\n", bookmark.Name)
		return nil
	})
}

func (h *handler) remove(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd)
	if err != nil {
		return err
	}

	return h.withServices(ctx, cmd, func(svcs *Services) error {
		stored, ok := findBookmark(svcs.Bookmarks.List(ctx), name)
		if !ok {
			dimColor.Fprintf(cmd.Root().Writer, "%s is not bookmarked\n", name)
			return nil
		}

		if err := svcs.Bookmarks.Delete(ctx, stored.Name); err != nil {
			errColor.Fprintln(cmd.Root().ErrWriter, application.UserMessage(err))
			return err
		}

		okColor.Fprintf(cmd.Root().Writer, "Removed %s\n", stored.Name)
		return nil
	})
}

func (h *handler) issues(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd)
	if err != nil {
		return err
	}

	state, err := model.ParseIssueState(cmd.String("state"))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	query := model.NewIssueQuery(state, int(cmd.Int("page")))

	return h.withServices(ctx, cmd, func(svcs *Services) error {
		w := cmd.Root().Writer

		page := svcs.Repositories.Detail(ctx, name, query)
		if !page.Loaded() {
			errColor.Fprintf(cmd.Root().ErrWriter, "Could not load %s\n", name)
			return fmt.Errorf("loading repository %s: %w", name, application.ErrUnexpected)
		}

		nameColor.Fprintln(w, page.Repository.FullName)
		if page.Repository.Description != "" {
			fmt.Fprintln(w, page.Repository.Description)
		}
		dimColor.Fprintf(w, "%s issues, page %d\n\n", page.Query.State, page.Query.Page)

		if len(page.Issues) == 0 {
			dimColor.Fprintln(w, "No issues on this page.")
			return nil
		}

		for _, issue := range page.Issues {
			fmt.Fprintf(w, "#%d %s", issue.Number, issue.Title)
			for _, l := range issue.Labels {
				labelColor.Fprintf(w, " [%s]", l.Name)
			}
			fmt.Fprintln(w)
			dimColor.Fprintf(w, "    by %s  %s\n", issue.User.Login, issue.HTMLURL)
		}
		return nil
	})
}

// findBookmark returns the stored entry for name, matched case-insensitively
// so the exact stored spelling can be deleted.
func findBookmark(bookmarks model.Bookmarks, name string) (model.Bookmark, bool) {
	for _, b := range bookmarks {
		if b.SameRepository(name) {
			return b, true
		}
	}
	return model.Bookmark{}, false
}
