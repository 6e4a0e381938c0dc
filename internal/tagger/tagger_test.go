package tagger_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mythic-botz/Rename/internal/services"
	"github.com/Mythic-botz/Rename/internal/tagger"
)

func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestArgsCarryEveryTag(t *testing.T) {
	args := strings.Join(tagger.Args("in.mkv", "out.mkv", tagger.TagsFromMap(map[string]string{
		"title": "T", "video": "V", "audio": "A", "subtitle": "S",
		"artist": "Ar", "author": "Au", "encoded_by": "E", "custom_tag": "C",
	})), " ")
	for _, fragment := range []string{
		"-i in.mkv -map 0 -c copy",
		"-metadata title=T",
		"-metadata:s:v title=V",
		"-metadata:s:s title=S",
		"-metadata:s:a title=A",
		"-metadata artist=Ar",
		"-metadata author=Au",
		"-metadata encoded_by=E",
		"-metadata comment=C",
		"-y -f matroska out.mkv",
	} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("expected %q in %q", fragment, args)
		}
	}
}

func TestApplyWritesOutput(t *testing.T) {
	// The stub copies its -i argument to the last argument.
	stub := writeStub(t, `in=""; prev=""; for a in "$@"; do if [ "$prev" = "-i" ]; then in="$a"; fi; prev="$a"; out="$a"; done
cp "$in" "$out"
`)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mkv")
	output := filepath.Join(dir, "metadata", "out.mkv")
	if err := os.WriteFile(input, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := tagger.New(stub, nil).Apply(context.Background(), input, output, tagger.Tags{Title: "x"}); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil || string(data) != "media" {
		t.Fatalf("expected copied output, got %q %v", data, err)
	}
}

func TestApplyFailureRemovesPartialOutput(t *testing.T) {
	stub := writeStub(t, `for a in "$@"; do out="$a"; done
echo partial > "$out"
echo "Invalid data found" >&2
exit 1
`)
	output := filepath.Join(t.TempDir(), "out.mkv")

	err := tagger.New(stub, nil).Apply(context.Background(), "in.mkv", output, tagger.Tags{})
	if !errors.Is(err, tagger.ErrTaggingFailed) {
		t.Fatalf("expected ErrTaggingFailed, got %v", err)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("expected partial output removed, stat err %v", statErr)
	}
}

func TestApplyMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	err := tagger.New("ffmpeg", nil).Apply(context.Background(), "in.mkv", filepath.Join(t.TempDir(), "o.mkv"), tagger.Tags{})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
