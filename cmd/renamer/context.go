package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/Mythic-botz/Rename/internal/config"
	"github.com/Mythic-botz/Rename/internal/logging"
	"github.com/Mythic-botz/Rename/internal/settings"
	"github.com/Mythic-botz/Rename/internal/store"
)

type commandContext struct {
	configFlag *string
	userFlag   *int64

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, userFlag *int64) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		userFlag:   userFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) userID() int64 {
	if c.userFlag != nil && *c.userFlag != 0 {
		return *c.userFlag
	}
	return int64(os.Getuid())
}

func (c *commandContext) logger(w io.Writer) *slog.Logger {
	cfg := c.configValue()
	opts := logging.Options{Level: "info", Format: "console", Console: w}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
		opts.MaxSizeMB = cfg.Logging.MaxSizeMB
		opts.MaxBackups = cfg.Logging.MaxBackups
		if cfg.Paths.LogDir != "" {
			opts.FilePath = filepath.Join(cfg.Paths.LogDir, "renamer.log")
		}
	}
	logger, err := logging.New(opts)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	st, err := store.Open(c.configValue())
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func (c *commandContext) settingsSource(st *store.Store) settings.Source {
	return settings.NewLayered(st, settings.Defaults(c.configValue()))
}

// lock takes an advisory file lock under the state directory, waiting up to
// wait for another process to release it.
func (c *commandContext) lock(ctx context.Context, name string, wait time.Duration) (func(), error) {
	cfg := c.configValue()
	if err := os.MkdirAll(cfg.LockDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fl := flock.New(filepath.Join(cfg.LockDir(), name+".lock"))

	lockCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	ok, err := fl.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil && lockCtx.Err() == nil {
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s is locked by another renamer process", name)
	}
	return func() {
		_ = fl.Unlock()
	}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
