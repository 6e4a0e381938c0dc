package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mythic-botz/Rename/internal/config"
	"github.com/Mythic-botz/Rename/internal/fileutil"
	"github.com/Mythic-botz/Rename/internal/sequence"
	"github.com/Mythic-botz/Rename/internal/store"
)

const sequenceLockWait = 10 * time.Second

// consoleChannel prints notices and copies dispatched files into the output
// directory. File ids are source paths.
type consoleChannel struct {
	out       io.Writer
	outputDir string
	nextID    atomic.Int64
}

func (c *consoleChannel) Reply(_ context.Context, _ int64, text string) (int64, error) {
	fmt.Fprintln(c.out, strings.ReplaceAll(text, "**", ""))
	return c.nextID.Add(1), nil
}

func (c *consoleChannel) SendFile(ctx context.Context, _ int64, fileID, caption string) error {
	target := filepath.Join(c.outputDir, filepath.Base(fileID))
	if err := fileutil.CopyWithProgress(ctx, fileID, target, nil); err != nil {
		return fmt.Errorf("copy %s: %w", filepath.Base(fileID), err)
	}
	fmt.Fprintf(c.out, "sent %s\n", strings.Trim(caption, "*"))
	return nil
}

func (c *consoleChannel) DeleteMessages(context.Context, int64, []int64) error {
	return nil
}

func newSequenceCommand(ctx *commandContext) *cobra.Command {
	seqCmd := &cobra.Command{
		Use:   "sequence",
		Short: "Collect files and send them in episode order",
	}
	seqCmd.AddCommand(newSequenceStartCommand(ctx))
	seqCmd.AddCommand(newSequenceAddCommand(ctx))
	seqCmd.AddCommand(newSequenceEndCommand(ctx))
	seqCmd.AddCommand(newSequenceShowCommand(ctx))
	return seqCmd
}

// withBatcher runs fn holding the user's sequence lock so concurrent renamer
// processes cannot interleave on the same session.
func (c *commandContext) withBatcher(cmd *cobra.Command, fn func(*sequence.Batcher, int64) error) error {
	cfg := c.configValue()
	userID := c.userID()
	unlock, err := c.lock(cmd.Context(), sequenceLockName(userID), sequenceLockWait)
	if err != nil {
		return err
	}
	defer unlock()

	return c.withStore(func(st *store.Store) error {
		return fn(newBatcher(cfg, st, cmd.OutOrStdout(), c.logger(cmd.ErrOrStderr())), userID)
	})
}

// sequenceLockName names the per-user lock shared by the sequence commands
// and the inbox watcher.
func sequenceLockName(userID int64) string {
	return "sequence-" + strconv.FormatInt(userID, 10)
}

func newBatcher(cfg *config.Config, st sequence.Store, out io.Writer, logger *slog.Logger) *sequence.Batcher {
	channel := &consoleChannel{out: out, outputDir: cfg.Paths.OutputDir}
	return sequence.NewBatcher(st, channel, sequence.Options{
		Pacing:         time.Duration(cfg.Sequence.PacingMillis) * time.Millisecond,
		RateLimitGrace: time.Duration(cfg.Sequence.RateLimitGraceSeconds) * time.Second,
		Logger:         logger,
	})
}

// reportNotice prints the notice for session state errors and swallows them.
func reportNotice(out io.Writer, err error) error {
	if errors.Is(err, sequence.ErrSessionActive) || errors.Is(err, sequence.ErrNoSession) || errors.Is(err, sequence.ErrSessionEmpty) {
		fmt.Fprintln(out, strings.ReplaceAll(sequence.Notice(err), "**", ""))
		return nil
	}
	return err
}

func newSequenceStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Open a sequence for the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBatcher(cmd, func(b *sequence.Batcher, userID int64) error {
				return reportNotice(cmd.OutOrStdout(), b.Start(cmd.Context(), userID, userID))
			})
		},
	}
}

func newSequenceAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Add files to the open sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBatcher(cmd, func(b *sequence.Batcher, userID int64) error {
				for _, arg := range args {
					rec, err := recordForPath(arg, userID)
					if err != nil {
						return err
					}
					added, err := b.Add(cmd.Context(), userID, sequence.File{FileID: rec.SourcePath, FileName: rec.FileName})
					if err != nil {
						return err
					}
					if !added {
						return reportNotice(cmd.OutOrStdout(), sequence.ErrNoSession)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "queued %s\n", rec.FileName)
				}
				return nil
			})
		},
	}
}

func newSequenceEndCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "Close the sequence and send its files in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBatcher(cmd, func(b *sequence.Batcher, userID int64) error {
				report, err := b.End(cmd.Context(), userID, userID)
				if err != nil {
					if notice := reportNotice(cmd.OutOrStdout(), err); notice != nil {
						fmt.Fprintln(cmd.OutOrStdout(), strings.ReplaceAll(sequence.NoticeFailed, "**", ""))
						return notice
					}
					return nil
				}
				if report.Failed > 0 {
					return fmt.Errorf("%d of %d files failed to send", report.Failed, report.Total)
				}
				return nil
			})
		},
	}
}

func newSequenceShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the files collected so far in dispatch order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBatcher(cmd, func(b *sequence.Batcher, userID int64) error {
				session, ok, err := b.Show(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if !ok {
					return reportNotice(cmd.OutOrStdout(), sequence.ErrNoSession)
				}
				ordered := sequence.Sort(session.Files)
				rows := make([][]string, 0, len(ordered))
				for i, file := range ordered {
					key := sequence.KeyOf(file.FileName)
					rows = append(rows, []string{strconv.Itoa(i + 1), file.FileName, strconv.Itoa(key.Season), key.Episode})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Sequence started %s with %d files\n", session.StartedAt.Local().Format(time.DateTime), len(ordered))
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable([]string{"#", "File", "Season", "Episode"}, rows, []columnAlignment{alignRight}))
				}
				return nil
			})
		},
	}
}
