// Package tagger writes container and stream titles into a renamed file with
// ffmpeg, copying all streams without re-encoding.
package tagger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Mythic-botz/Rename/internal/deps"
	"github.com/Mythic-botz/Rename/internal/logging"
	"github.com/Mythic-botz/Rename/internal/services"
)

// ErrTaggingFailed reports that ffmpeg did not produce a tagged output.
var ErrTaggingFailed = errors.New("metadata tagging failed")

// Tags are the metadata values written into the output container.
type Tags struct {
	Title     string
	Video     string
	Audio     string
	Subtitle  string
	Artist    string
	Author    string
	EncodedBy string
	CustomTag string
}

// TagsFromMap builds Tags from a map keyed by tag name.
func TagsFromMap(values map[string]string) Tags {
	return Tags{
		Title:     values["title"],
		Video:     values["video"],
		Audio:     values["audio"],
		Subtitle:  values["subtitle"],
		Artist:    values["artist"],
		Author:    values["author"],
		EncodedBy: values["encoded_by"],
		CustomTag: values["custom_tag"],
	}
}

// Tagger runs ffmpeg.
type Tagger struct {
	binary string
	logger *slog.Logger
}

// New creates a Tagger for the given ffmpeg command.
func New(binary string, logger *slog.Logger) *Tagger {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Tagger{binary: binary, logger: logging.NewComponentLogger(logger, "tagger")}
}

// Args returns the ffmpeg arguments used to tag input into output.
func Args(input, output string, tags Tags) []string {
	return []string{
		"-hide_banner",
		"-i", input,
		"-map", "0",
		"-c", "copy",
		"-metadata", "title=" + tags.Title,
		"-metadata:s:v", "title=" + tags.Video,
		"-metadata:s:s", "title=" + tags.Subtitle,
		"-metadata:s:a", "title=" + tags.Audio,
		"-metadata", "artist=" + tags.Artist,
		"-metadata", "author=" + tags.Author,
		"-metadata", "encoded_by=" + tags.EncodedBy,
		"-metadata", "comment=" + tags.CustomTag,
		"-loglevel", "error",
		"-y",
		"-f", "matroska",
		output,
	}
}

// Apply writes a tagged copy of input to output. On failure output is removed.
func (t *Tagger) Apply(ctx context.Context, input, output string, tags Tags) error {
	binary, err := deps.Resolve(t.binary)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "tagger", "resolve ffmpeg", "", err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "tagger", "prepare output", filepath.Dir(output), err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, Args(input, output, tags)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(output)
		detail := strings.TrimSpace(stderr.String())
		logging.WithContext(ctx, t.logger).Error("ffmpeg tagging failed",
			logging.String(logging.FieldFile, input),
			logging.String("stderr", detail),
			logging.Error(err),
		)
		return services.Wrap(services.ErrExternalTool, "tagger", "ffmpeg", detail, fmt.Errorf("%w: %w", ErrTaggingFailed, err))
	}
	logging.WithContext(ctx, t.logger).Debug("metadata written", logging.String(logging.FieldFile, output))
	return nil
}
