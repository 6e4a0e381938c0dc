package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mythic-botz/Rename/internal/inbox"
	"github.com/Mythic-botz/Rename/internal/logging"
	"github.com/Mythic-botz/Rename/internal/naming"
	"github.com/Mythic-botz/Rename/internal/settings"
	"github.com/Mythic-botz/Rename/internal/testsupport"
)

func TestInboxRouterQueuesWhileSequenceOpen(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTemplate("S{season}E{episode} [{quality}]"))
	cfg.Rename.Tagging = false
	cfg.Rename.ProbeMissingQuality = false
	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	var out bytes.Buffer
	router := &inboxRouter{
		renamer: buildRenamer(cfg, settings.NewLayered(st, settings.Defaults(cfg)), logger, nil, false),
		batcher: newBatcher(cfg, st, &out, logger),
		userID:  77,
		out:     &out,
		logger:  logger,
	}
	event := func(name string) inbox.Event {
		path := filepath.Join(testsupport.BaseDir(cfg), "inbox", name)
		testsupport.WriteFile(t, path, 1024)
		return inbox.Event{ID: "ev-" + name, Path: path, Name: name, Kind: naming.KindVideo, Size: 1024}
	}
	ctx := context.Background()

	router.handle(ctx, event("Show S01E01 720p.mkv"))
	requireContains(t, out.String(), "Show S01E01 720p.mkv -> S01E01 [720p].mkv")
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "S01E01 [720p].mkv")); err != nil {
		t.Fatalf("expected renamed file without a sequence: %v", err)
	}

	if err := router.batcher.Start(ctx, 77, 77); err != nil {
		t.Fatalf("start sequence: %v", err)
	}
	out.Reset()

	router.handle(ctx, event("Show S01E02 720p.mkv"))
	requireContains(t, out.String(), "queued Show S01E02 720p.mkv")
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "S01E02 [720p].mkv")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected queued file not to be renamed, stat err %v", err)
	}

	session, ok, err := router.batcher.Show(ctx, 77)
	if err != nil || !ok {
		t.Fatalf("show sequence: ok=%v err=%v", ok, err)
	}
	if len(session.Files) != 1 || session.Files[0].FileName != "Show S01E02 720p.mkv" {
		t.Fatalf("unexpected session files %+v", session.Files)
	}
}

func TestInboxRouterSkipsEventWhenLockFails(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTemplate("S{season}E{episode}"))
	cfg.Rename.Tagging = false
	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	var out bytes.Buffer
	router := &inboxRouter{
		renamer: buildRenamer(cfg, settings.NewLayered(st, settings.Defaults(cfg)), logger, nil, false),
		batcher: newBatcher(cfg, st, &out, logger),
		lock: func(context.Context) (func(), error) {
			return nil, errors.New("sequence-77 is locked by another renamer process")
		},
		userID: 77,
		out:    &out,
		logger: logger,
	}
	path := filepath.Join(testsupport.BaseDir(cfg), "inbox", "Show S01E03.mkv")
	testsupport.WriteFile(t, path, 512)

	router.handle(context.Background(), inbox.Event{ID: "ev", Path: path, Name: "Show S01E03.mkv", Kind: naming.KindVideo, Size: 512})
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "S01E03.mkv")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no rename while the sequence lock is held, stat err %v", err)
	}
}
