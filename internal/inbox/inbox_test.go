package inbox_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mythic-botz/Rename/internal/inbox"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		name string
		kind string
		ok   bool
	}{
		{"Show S01E01.MKV", "video", true},
		{"track.flac", "audio", true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		kind, ok := inbox.KindFor(tt.name)
		if kind != tt.kind || ok != tt.ok {
			t.Fatalf("KindFor(%q) = %q %v, want %q %v", tt.name, kind, ok, tt.kind, tt.ok)
		}
	}
}

func TestWatcherDeliversSettledMedia(t *testing.T) {
	dir := t.TempDir()
	events := make(chan inbox.Event, 4)
	w, err := inbox.New(dir, 50*time.Millisecond, func(_ context.Context, ev inbox.Event) {
		events <- ev
	}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for _, name := range []string{"notes.txt", ".hidden.mkv", "Show S01E02.mkv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	select {
	case ev := <-events:
		if ev.Name != "Show S01E02.mkv" || ev.Kind != "video" || ev.Size != 4 || ev.ID == "" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for inbox event")
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected second event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestNewRequiresHandler(t *testing.T) {
	if _, err := inbox.New(t.TempDir(), 0, nil, nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}
