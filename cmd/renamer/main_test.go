package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Mythic-botz/Rename/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	inputDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("RENAMER_TEMPLATE", "")
	t.Setenv("RENAMER_LOG_LEVEL", "")

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	for _, name := range []string{"ffprobe", "ffmpeg"} {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(homeDir, ".config", "renamer", "config.toml"),
		outputDir:  filepath.Join(base, "output"),
		inputDir:   filepath.Join(base, "input"),
	}
	content := fmt.Sprintf(`[paths]
work_dir = %q
output_dir = %q
state_dir = %q
log_dir = %q

[tools]
ffprobe = %q
ffmpeg = %q

[rename]
probe_missing_quality = false
tagging = false

[sequence]
pacing_millis = 1

[logging]
level = "error"
`,
		filepath.Join(base, "work"),
		env.outputDir,
		filepath.Join(base, "state"),
		filepath.Join(base, "logs"),
		filepath.Join(binDir, "ffprobe"),
		filepath.Join(binDir, "ffmpeg"),
	)
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) input(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.inputDir, name)
	testsupport.WriteFile(t, path, 2048)
	return path
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath, "--user", "77"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestParseCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "parse", "--template", "S{season}E{episode} [{quality}]", "Show S01E02 720p.mkv")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	requireContains(t, out, "season-episode")
	requireContains(t, out, "720p")
	requireContains(t, out, "S01E02 [720p].mkv")
}

func TestSettingsSetAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "settings", "set", "template", "S{season}E{episode}")
	if err != nil {
		t.Fatalf("settings set: %v", err)
	}
	requireContains(t, out, "Saved template")

	out, _, err = runCLI(t, env, "settings", "show")
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	requireContains(t, out, "S{season}E{episode}")
	requireContains(t, out, "user")

	out, _, err = runCLI(t, env, "settings", "set", "thumbnail", "/covers/show.jpg")
	if err != nil {
		t.Fatalf("settings set thumbnail: %v", err)
	}
	requireContains(t, out, "Saved thumbnail")

	if _, _, err := runCLI(t, env, "settings", "set", "poster", "x"); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestRenameCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	source := env.input(t, "Show.S01E02.720p.mkv")

	out, _, err := runCLI(t, env, "rename", source)
	if err == nil {
		t.Fatal("expected rename without template to fail")
	}
	requireContains(t, out, "Please set a rename format")

	if _, _, err := runCLI(t, env, "settings", "set", "template", "S{season}E{episode} {quality}"); err != nil {
		t.Fatalf("settings set: %v", err)
	}
	out, _, err = runCLI(t, env, "rename", "--captions", source)
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	requireContains(t, out, "Show.S01E02.720p.mkv -> S01E02 720p.mkv")

	target := filepath.Join(env.outputDir, "S01E02 720p.mkv")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected renamed file: %v", err)
	}
	caption, err := os.ReadFile(target + ".caption.txt")
	if err != nil || string(caption) != "**S01E02 720p.mkv**\n" {
		t.Fatalf("unexpected caption %q %v", caption, err)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("expected source to be left in place: %v", err)
	}
}

func TestSequenceFlow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "sequence", "end")
	if err != nil {
		t.Fatalf("sequence end without session: %v", err)
	}
	requireContains(t, out, "No active sequence found")

	out, _, err = runCLI(t, env, "sequence", "start")
	if err != nil {
		t.Fatalf("sequence start: %v", err)
	}
	requireContains(t, out, "Sequence started")

	out, _, err = runCLI(t, env, "sequence", "start")
	if err != nil {
		t.Fatalf("second sequence start: %v", err)
	}
	requireContains(t, out, "already active")

	files := []string{
		env.input(t, "Show S02E01 1080p.mkv"),
		env.input(t, "Show S01E10 720p.mkv"),
		env.input(t, "Show S01E02 480p.mkv"),
	}
	if _, _, err := runCLI(t, env, append([]string{"sequence", "add"}, files...)...); err != nil {
		t.Fatalf("sequence add: %v", err)
	}

	out, _, err = runCLI(t, env, "sequence", "show")
	if err != nil {
		t.Fatalf("sequence show: %v", err)
	}
	requireContains(t, out, "with 3 files")

	out, _, err = runCLI(t, env, "sequence", "end")
	if err != nil {
		t.Fatalf("sequence end: %v", err)
	}
	requireContains(t, out, "Sending 3 files in order")

	first := strings.Index(out, "sent Show S01E02 480p.mkv")
	second := strings.Index(out, "sent Show S01E10 720p.mkv")
	third := strings.Index(out, "sent Show S02E01 1080p.mkv")
	if first < 0 || second < first || third < second {
		t.Fatalf("files not sent in canonical order:\n%s", out)
	}
	for _, name := range []string{"Show S02E01 1080p.mkv", "Show S01E10 720p.mkv", "Show S01E02 480p.mkv"} {
		if _, err := os.Stat(filepath.Join(env.outputDir, name)); err != nil {
			t.Fatalf("expected %s in output: %v", name, err)
		}
	}

	out, _, err = runCLI(t, env, "sequence", "end")
	if err != nil {
		t.Fatalf("sequence end after dispatch: %v", err)
	}
	requireContains(t, out, "No active sequence found")
}

func TestSequenceEndEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "sequence", "start"); err != nil {
		t.Fatalf("sequence start: %v", err)
	}
	out, _, err := runCLI(t, env, "sequence", "end")
	if err != nil {
		t.Fatalf("sequence end: %v", err)
	}
	requireContains(t, out, "No files received in this sequence")
	if strings.Contains(out, "Sending") {
		t.Fatalf("empty sequence must not dispatch:\n%s", out)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "FFprobe")
	requireContains(t, out, "read/write ok")
	requireContains(t, out, "001_initial")
}

func TestCleanupCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	leftover := filepath.Join(env.baseDir, "work", "downloads", "abc-Show.mkv")
	testsupport.WriteFile(t, leftover, 8)
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(leftover, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	out, _, err := runCLI(t, env, "cleanup")
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	requireContains(t, out, "Removed 1 stale entries")
	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Fatal("expected leftover to be removed")
	}
}
