package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mythic-botz/Rename/internal/inbox"
	"github.com/Mythic-botz/Rename/internal/logging"
	"github.com/Mythic-botz/Rename/internal/renamer"
	"github.com/Mythic-botz/Rename/internal/sequence"
	"github.com/Mythic-botz/Rename/internal/services"
	"github.com/Mythic-botz/Rename/internal/staging"
	"github.com/Mythic-botz/Rename/internal/store"
)

// inboxRouter handles inbox events for one user. A file that arrives while
// the user has an open sequence is queued; anything else is renamed.
type inboxRouter struct {
	renamer *renamer.Renamer
	batcher *sequence.Batcher
	lock    func(context.Context) (func(), error)
	userID  int64
	out     io.Writer
	logger  *slog.Logger
}

func (h *inboxRouter) handle(ctx context.Context, ev inbox.Event) {
	ctx = services.WithUserID(services.WithRequestID(ctx, ev.ID), h.userID)

	queued, err := h.offer(ctx, ev)
	if err != nil {
		logging.WithContext(ctx, h.logger).Error("inbox sequence check failed",
			logging.String(logging.FieldFile, ev.Name),
			logging.Error(err),
		)
		return
	}
	if queued {
		fmt.Fprintf(h.out, "queued %s\n", ev.Name)
		return
	}

	rec := renamer.Record{
		FileID:     ev.Path,
		FileName:   ev.Name,
		Kind:       ev.Kind,
		Size:       ev.Size,
		SourcePath: ev.Path,
		UserID:     h.userID,
		ChatID:     h.userID,
	}
	result, err := h.renamer.Rename(ctx, rec)
	switch {
	case err == nil:
		fmt.Fprintf(h.out, "%s -> %s\n", ev.Name, result.FileName)
	case errors.Is(err, renamer.ErrDuplicate):
	case errors.Is(err, renamer.ErrNoTemplate):
		fmt.Fprintln(h.out, noTemplateNotice)
	default:
		logging.WithContext(ctx, h.logger).Error("inbox rename failed",
			logging.String(logging.FieldFile, ev.Name),
			logging.Error(err),
		)
	}
}

// offer adds the file to the user's open sequence under the sequence lock.
// It reports false when no sequence is open.
func (h *inboxRouter) offer(ctx context.Context, ev inbox.Event) (bool, error) {
	if h.lock != nil {
		unlock, err := h.lock(ctx)
		if err != nil {
			return false, err
		}
		defer unlock()
	}
	return h.batcher.Add(ctx, h.userID, sequence.File{FileID: ev.Path, FileName: ev.Name})
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var dir string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rename media files as they land in the inbox directory",
		Long: `Watch the inbox directory and rename each settled media file.

While a sequence is open for the user, new files are queued into it instead
and sent in order by "renamer sequence end".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			target := strings.TrimSpace(dir)
			if target == "" {
				target = cfg.Paths.InboxDir
			}
			if target == "" {
				return services.Wrap(services.ErrConfiguration, "watch", "resolve inbox", "set paths.inbox_dir or pass --dir", nil)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			unlock, err := ctx.lock(runCtx, "watch", time.Millisecond)
			if err != nil {
				return errors.New("another renamer watch instance is already running")
			}
			defer unlock()

			logger := ctx.logger(cmd.ErrOrStderr())
			staging.CleanScratch(runCtx, cfg, staging.DefaultMaxAge, logger)
			return ctx.withStore(func(st *store.Store) error {
				userID := ctx.userID()
				router := &inboxRouter{
					renamer: buildRenamer(cfg, ctx.settingsSource(st), logger, nil, false),
					batcher: newBatcher(cfg, st, cmd.OutOrStdout(), logger),
					lock: func(lockCtx context.Context) (func(), error) {
						return ctx.lock(lockCtx, sequenceLockName(userID), sequenceLockWait)
					},
					userID: userID,
					out:    cmd.OutOrStdout(),
					logger: logger,
				}

				w, err := inbox.New(target, debounce, router.handle, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", target)
				return w.Run(runCtx)
			})
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to watch (defaults to paths.inbox_dir)")
	cmd.Flags().DurationVar(&debounce, "debounce", inbox.DefaultDebounce, "Quiet period before a file is processed")
	return cmd
}
