package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/Mythic-botz/Rename/internal/logging"
	"github.com/Mythic-botz/Rename/internal/naming"
)

// DefaultDebounce is how long a path must stay quiet before it is handed off.
const DefaultDebounce = time.Second

// Event is one settled media file in the inbox.
type Event struct {
	ID   string
	Path string
	Name string
	Kind string
	Size int64
}

// Handler receives settled files. It runs on its own goroutine.
type Handler func(ctx context.Context, ev Event)

// Watcher reports media files dropped into a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	logger   *slog.Logger
	fw       *fsnotify.Watcher

	mu       sync.Mutex
	timers   map[string]*time.Timer
	closed   bool
	inflight sync.WaitGroup
}

// New watches dir. A debounce <= 0 uses DefaultDebounce.
func New(dir string, debounce time.Duration, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("inbox: handler is nil")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		logger:   logging.NewComponentLogger(logger, "inbox"),
		fw:       fw,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run processes events until ctx is cancelled, then waits for running
// handlers to return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		w.closed = true
		for path, timer := range w.timers {
			timer.Stop()
			delete(w.timers, path)
		}
		w.mu.Unlock()
		w.inflight.Wait()
		_ = w.fw.Close()
	}()

	w.logger.Info("watching inbox", logging.String("dir", w.dir))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, ".part") {
		return
	}
	kind, ok := KindFor(base)
	if !ok {
		return
	}

	path := event.Name
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		if w.closed {
			w.mu.Unlock()
			return
		}
		w.inflight.Add(1)
		w.mu.Unlock()
		defer w.inflight.Done()
		w.dispatch(ctx, path, base, kind)
	})
}

func (w *Watcher) dispatch(ctx context.Context, path, name, kind string) {
	if ctx.Err() != nil {
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	ev := Event{ID: uuid.NewString(), Path: path, Name: name, Kind: kind, Size: info.Size()}
	w.logger.Debug("inbox file settled",
		logging.String(logging.FieldFile, name),
		logging.String(logging.FieldCorrelationID, ev.ID),
	)
	w.handler(ctx, ev)
}

var (
	videoExtensions = map[string]bool{
		".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
		".m4v": true, ".wmv": true, ".flv": true, ".webm": true,
		".ts": true, ".m2ts": true, ".mpg": true, ".mpeg": true,
	}
	audioExtensions = map[string]bool{
		".mp3": true, ".flac": true, ".aac": true, ".ogg": true,
		".wav": true, ".m4a": true, ".m4b": true, ".opus": true,
	}
)

// KindFor classifies name by extension and reports whether it is media.
func KindFor(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case videoExtensions[ext]:
		return naming.KindVideo, true
	case audioExtensions[ext]:
		return naming.KindAudio, true
	default:
		return "", false
	}
}
