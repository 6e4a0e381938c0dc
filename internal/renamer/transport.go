package renamer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mythic-botz/Rename/internal/fileutil"
	"github.com/Mythic-botz/Rename/internal/services"
)

// Delivery is a finished file handed back to the user.
type Delivery struct {
	ChatID    int64
	Path      string
	FileName  string
	Kind      string
	Caption   string
	Thumbnail string
	Progress  fileutil.ProgressFunc
}

// Transport moves files between the user and the local work area.
type Transport interface {
	// Fetch materialises rec at dest and returns the local path.
	Fetch(ctx context.Context, rec Record, dest string, progress fileutil.ProgressFunc) (string, error)
	// Deliver sends the renamed file back.
	Deliver(ctx context.Context, d Delivery) error
}

// LocalTransport reads records from disk and delivers into an output
// directory. Captions are written next to the file as <name>.caption.txt
// when WriteCaptions is set. A thumbnail is copied next to the file under
// the file's stem with the image's own extension.
type LocalTransport struct {
	OutputDir     string
	WriteCaptions bool
}

// NewLocalTransport returns a LocalTransport delivering into outputDir.
func NewLocalTransport(outputDir string) *LocalTransport {
	return &LocalTransport{OutputDir: outputDir}
}

func (l *LocalTransport) Fetch(ctx context.Context, rec Record, dest string, progress fileutil.ProgressFunc) (string, error) {
	if rec.SourcePath == "" {
		return "", services.Wrap(services.ErrValidation, "transport", "fetch", "record has no source path", nil)
	}
	if _, err := os.Stat(rec.SourcePath); err != nil {
		return "", services.Wrap(services.ErrNotFound, "transport", "fetch", rec.SourcePath, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	if err := fileutil.CopyWithProgress(ctx, rec.SourcePath, dest, progress); err != nil {
		return "", services.Wrap(services.ErrTransient, "transport", "fetch", rec.FileName, err)
	}
	return dest, nil
}

func (l *LocalTransport) Deliver(ctx context.Context, d Delivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	target := filepath.Join(l.OutputDir, d.FileName)
	if err := fileutil.CopyFileVerified(d.Path, target); err != nil {
		return services.Wrap(services.ErrTransient, "transport", "deliver", d.FileName, err)
	}
	if d.Progress != nil {
		if info, err := os.Stat(target); err == nil {
			d.Progress(info.Size(), info.Size())
		}
	}
	if d.Thumbnail != "" {
		if err := copyThumbnail(d.Thumbnail, target); err != nil {
			return err
		}
	}
	if l.WriteCaptions && d.Caption != "" {
		if err := os.WriteFile(target+".caption.txt", []byte(d.Caption+"\n"), 0o644); err != nil {
			return fmt.Errorf("write caption: %w", err)
		}
	}
	return nil
}

// ThumbnailPath returns where a thumbnail for target is written.
func ThumbnailPath(target, thumbnail string) string {
	return strings.TrimSuffix(target, filepath.Ext(target)) + strings.ToLower(filepath.Ext(thumbnail))
}

func copyThumbnail(thumbnail, target string) error {
	info, err := os.Stat(thumbnail)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "transport", "thumbnail", thumbnail, err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "transport", "thumbnail", thumbnail+" is a directory", nil)
	}
	if err := fileutil.CopyFile(thumbnail, ThumbnailPath(target, thumbnail)); err != nil {
		return services.Wrap(services.ErrTransient, "transport", "thumbnail", filepath.Base(thumbnail), err)
	}
	return nil
}
