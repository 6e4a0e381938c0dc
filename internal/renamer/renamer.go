package renamer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mythic-botz/Rename/internal/config"
	"github.com/Mythic-botz/Rename/internal/fileutil"
	"github.com/Mythic-botz/Rename/internal/logging"
	"github.com/Mythic-botz/Rename/internal/naming"
	"github.com/Mythic-botz/Rename/internal/probe"
	"github.com/Mythic-botz/Rename/internal/quality"
	"github.com/Mythic-botz/Rename/internal/sequence"
	"github.com/Mythic-botz/Rename/internal/services"
	"github.com/Mythic-botz/Rename/internal/settings"
	"github.com/Mythic-botz/Rename/internal/tagger"
	"github.com/Mythic-botz/Rename/internal/textutil"
)

var (
	// ErrDuplicate reports a file that is already being renamed.
	ErrDuplicate = errors.New("rename already in progress")
	// ErrNoTemplate reports a user who has not set a rename format.
	ErrNoTemplate = errors.New("please set a rename format first")
)

// Record is one incoming file.
type Record struct {
	FileID     string
	FileName   string
	Kind       string
	Size       int64
	SourcePath string
	UserID     int64
	ChatID     int64
}

// Result describes a completed rename.
type Result struct {
	RequestID  string
	FileName   string
	Extraction naming.Extraction
	Audio      string
	Caption    string
	Probed     bool
	Tagged     bool
}

// StreamProber inspects a local media file.
type StreamProber interface {
	Audio(ctx context.Context, path string) (probe.Profile, error)
	VideoResolution(ctx context.Context, path string) (string, error)
}

// MetadataTagger rewrites container metadata into a new file.
type MetadataTagger interface {
	Apply(ctx context.Context, input, output string, tags tagger.Tags) error
}

// Renamer runs the rename pipeline for incoming records.
type Renamer struct {
	cfg       *config.Config
	settings  settings.Source
	transport Transport
	prober    StreamProber
	tagger    MetadataTagger
	logger    *slog.Logger
	inflight  *inflight
	progress  fileutil.ProgressFunc
}

// Option customises a Renamer.
type Option func(*Renamer)

// WithClock replaces the clock used by duplicate suppression.
func WithClock(now func() time.Time) Option {
	return func(r *Renamer) {
		r.inflight.now = now
	}
}

// WithProgress reports transfer progress for fetch and delivery.
func WithProgress(fn fileutil.ProgressFunc) Option {
	return func(r *Renamer) {
		r.progress = fn
	}
}

// New builds a Renamer. A nil tagger disables metadata tagging.
func New(cfg *config.Config, source settings.Source, transport Transport, prober StreamProber, tag MetadataTagger, logger *slog.Logger, opts ...Option) *Renamer {
	window := time.Duration(cfg.Rename.DuplicateWindowSeconds) * time.Second
	r := &Renamer{
		cfg:       cfg,
		settings:  source,
		transport: transport,
		prober:    prober,
		tagger:    tag,
		logger:    logging.NewComponentLogger(logger, "renamer"),
		inflight:  newInflight(window, time.Now),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plan computes the new filename for rec without touching any file. Quality
// is taken from the name only.
func (r *Renamer) Plan(template string, rec Record) (string, naming.Extraction) {
	x := naming.Extract(rec.FileName, naming.Options{NormalizeLongNames: r.cfg.Rename.NormalizeLongNames})
	return r.finalName(template, rec, x, ""), x
}

func (r *Renamer) finalName(template string, rec Record, x naming.Extraction, audio string) string {
	rendered := naming.Render(template, x, audio)
	return textutil.SanitizeFileName(naming.FileName(rendered, rec.FileName, rec.Kind))
}

// Rename fetches rec, resolves its new name, tags it and delivers it. A record
// already in flight returns ErrDuplicate.
func (r *Renamer) Rename(ctx context.Context, rec Record) (Result, error) {
	key := rec.FileID
	if key == "" {
		key = rec.SourcePath
	}
	release, ok := r.inflight.acquire(key)
	if !ok {
		r.logger.Debug("duplicate rename ignored", logging.String(logging.FieldFile, rec.FileName))
		return Result{}, ErrDuplicate
	}
	defer release()

	requestID := uuid.NewString()
	ctx = services.WithRequestID(services.WithUserID(services.WithStage(ctx, "rename"), rec.UserID), requestID)
	logger := logging.WithContext(ctx, r.logger).With(logging.String(logging.FieldFile, rec.FileName))

	prefs, err := r.settings.Settings(ctx, rec.UserID)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "rename", "load settings", "", err)
	}
	if strings.TrimSpace(prefs.Template) == "" {
		return Result{}, ErrNoTemplate
	}

	x := naming.Extract(rec.FileName, naming.Options{NormalizeLongNames: r.cfg.Rename.NormalizeLongNames})
	if x.Episode == "" {
		logger.Debug("no episode token found", logging.String("season", x.Season))
	}
	result := Result{RequestID: requestID, Extraction: x}

	downloadPath := filepath.Join(r.cfg.DownloadDir(), requestID+"-"+textutil.SanitizeFileName(filepath.Base(rec.FileName)))
	var metadataPath string
	defer func() {
		cleanup(logger, downloadPath, metadataPath)
	}()

	localPath, err := r.transport.Fetch(ctx, rec, downloadPath, r.progress)
	if err != nil {
		return result, err
	}

	if x.Quality == quality.Unknown && r.cfg.Rename.ProbeMissingQuality && r.prober != nil && rec.Kind != naming.KindAudio {
		resolution, err := r.prober.VideoResolution(ctx, localPath)
		if err != nil {
			return result, err
		}
		result.Probed = true
		if resolution != quality.Unknown {
			x.Quality = resolution
			result.Extraction = x
		}
	}

	if naming.NeedsAudio(prefs.Template) && r.prober != nil {
		profile, err := r.prober.Audio(ctx, localPath)
		if err != nil {
			return result, err
		}
		result.Audio = probe.AudioLabel(profile)
	}

	result.FileName = r.finalName(prefs.Template, rec, x, result.Audio)
	if result.FileName == "" {
		return result, services.Wrap(services.ErrValidation, "rename", "render", "template rendered an empty filename", nil)
	}

	finalPath := localPath
	if r.tagger != nil && r.cfg.Rename.Tagging {
		metadataPath = filepath.Join(r.cfg.MetadataDir(), requestID+"-"+result.FileName)
		if err := r.tagger.Apply(ctx, localPath, metadataPath, tagger.TagsFromMap(prefs.Tags)); err != nil {
			return result, err
		}
		finalPath = metadataPath
		result.Tagged = true
	}

	result.Caption = prefs.Caption
	if strings.TrimSpace(result.Caption) == "" {
		result.Caption = sequence.Caption(result.FileName)
	}

	if err := r.transport.Deliver(ctx, Delivery{
		ChatID:    rec.ChatID,
		Path:      finalPath,
		FileName:  result.FileName,
		Kind:      rec.Kind,
		Caption:   result.Caption,
		Thumbnail: prefs.Thumbnail,
		Progress:  r.progress,
	}); err != nil {
		return result, err
	}

	logger.Info("file renamed",
		logging.String("new_name", result.FileName),
		logging.String("quality", x.Quality),
		logging.Bool("tagged", result.Tagged),
	)
	return result, nil
}

func cleanup(logger *slog.Logger, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("temp file not removed", logging.String("path", path), logging.Error(err))
		}
	}
}
