package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mythic-botz/Rename/internal/config"
	"github.com/Mythic-botz/Rename/internal/inbox"
	"github.com/Mythic-botz/Rename/internal/logging"
	"github.com/Mythic-botz/Rename/internal/naming"
	"github.com/Mythic-botz/Rename/internal/probe"
	"github.com/Mythic-botz/Rename/internal/renamer"
	"github.com/Mythic-botz/Rename/internal/services"
	"github.com/Mythic-botz/Rename/internal/settings"
	"github.com/Mythic-botz/Rename/internal/store"
	"github.com/Mythic-botz/Rename/internal/tagger"
)

const noTemplateNotice = "Please set a rename format using: renamer settings set template \"...\""

// templateOverride forces a template over whatever the user has stored.
type templateOverride struct {
	source   settings.Source
	template string
}

func (t templateOverride) Settings(ctx context.Context, userID int64) (settings.UserSettings, error) {
	values, err := t.source.Settings(ctx, userID)
	if err != nil {
		return values, err
	}
	values.Template = t.template
	return values, nil
}

func buildRenamer(cfg *config.Config, source settings.Source, logger *slog.Logger, progressOut io.Writer, captions bool) *renamer.Renamer {
	transport := renamer.NewLocalTransport(cfg.Paths.OutputDir)
	transport.WriteCaptions = captions
	var tag renamer.MetadataTagger
	if cfg.Rename.Tagging {
		tag = tagger.New(cfg.FFmpegBinary(), logger)
	}
	opts := []renamer.Option{}
	if progress := newProgress(progressOut, "transferring"); progress != nil {
		opts = append(opts, renamer.WithProgress(progress))
	}
	return renamer.New(cfg, source, transport, probe.New(cfg.FFprobeBinary(), logger), tag, logger, opts...)
}

func recordForPath(path string, userID int64) (renamer.Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return renamer.Record{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return renamer.Record{}, services.Wrap(services.ErrNotFound, "rename", "stat", path, err)
	}
	if info.IsDir() {
		return renamer.Record{}, services.Wrap(services.ErrValidation, "rename", "stat", path+" is a directory", nil)
	}
	kind, ok := inbox.KindFor(abs)
	if !ok {
		kind = naming.KindDocument
	}
	return renamer.Record{
		FileID:     abs,
		FileName:   filepath.Base(abs),
		Kind:       kind,
		Size:       info.Size(),
		SourcePath: abs,
		UserID:     userID,
		ChatID:     userID,
	}, nil
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var template string
	var captions bool

	cmd := &cobra.Command{
		Use:   "rename <file>...",
		Short: "Rename, tag and deliver files into the output directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.logger(cmd.ErrOrStderr())
			out := cmd.OutOrStdout()

			return ctx.withStore(func(st *store.Store) error {
				source := ctx.settingsSource(st)
				if strings.TrimSpace(template) != "" {
					source = templateOverride{source: source, template: template}
				}
				r := buildRenamer(cfg, source, logger, cmd.ErrOrStderr(), captions)

				failed := 0
				for _, arg := range args {
					rec, err := recordForPath(arg, ctx.userID())
					if err == nil {
						var result renamer.Result
						result, err = r.Rename(cmd.Context(), rec)
						if err == nil {
							fmt.Fprintf(out, "%s -> %s\n", rec.FileName, result.FileName)
							continue
						}
					}
					if errors.Is(err, renamer.ErrNoTemplate) {
						fmt.Fprintln(out, noTemplateNotice)
						return err
					}
					if errors.Is(err, renamer.ErrDuplicate) {
						continue
					}
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", filepath.Base(arg), services.Classify(err))
					logger.Error("rename failed", logging.String(logging.FieldFile, arg), logging.Error(err))
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d files failed", failed, len(args))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", "", "Template to use instead of the stored one")
	cmd.Flags().BoolVar(&captions, "captions", false, "Write <name>.caption.txt next to each delivered file")
	return cmd
}
