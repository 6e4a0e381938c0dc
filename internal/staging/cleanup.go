package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mythic-botz/Rename/internal/config"
	"github.com/Mythic-botz/Rename/internal/logging"
)

// DefaultMaxAge is the age after which leftover scratch files are swept.
const DefaultMaxAge = 24 * time.Hour

// CleanStaleResult contains the outcome of a stale scratch cleanup.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

func (r *CleanStaleResult) merge(other CleanStaleResult) {
	r.Removed = append(r.Removed, other.Removed...)
	r.Errors = append(r.Errors, other.Errors...)
}

// ScratchDirs lists the directories the rename pipeline writes temporary
// files into.
func ScratchDirs(cfg *config.Config) []string {
	return []string{cfg.DownloadDir(), cfg.MetadataDir()}
}

// CleanScratch sweeps every scratch directory of cfg.
func CleanScratch(ctx context.Context, cfg *config.Config, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	var result CleanStaleResult
	for _, dir := range ScratchDirs(cfg) {
		if ctx.Err() != nil {
			break
		}
		result.merge(CleanStale(ctx, dir, maxAge, logger))
	}
	return result
}

// CleanStale removes entries of dir last modified before maxAge ago. Renames
// normally remove their own temp files; this catches what a crash left behind.
func CleanStale(ctx context.Context, dir string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}
	if logger == nil {
		logger = logging.NewNop()
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return result
		}
		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logger.Warn("failed to remove stale scratch entry",
				logging.String("path", path),
				logging.Error(err),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		logger.Info("removed stale scratch entry",
			logging.String("path", path),
			logging.Duration("age", time.Since(info.ModTime())),
		)
	}
	return result
}
