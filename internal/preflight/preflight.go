package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/Mythic-botz/Rename/internal/config"
	"github.com/Mythic-botz/Rename/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Path     string
	Passed   bool
	Optional bool
	Detail   string
}

// Directories checks every configured directory renamer writes into. The
// inbox is only checked when configured.
func Directories(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Paths.InboxDir != "" {
		results = append(results, CheckDirectoryAccess("Inbox directory", cfg.Paths.InboxDir))
	}
	return results
}

// Tools checks the external binaries the pipeline runs.
func Tools(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		r := Result{Name: status.Name, Path: status.Command, Passed: status.Available, Optional: status.Optional, Detail: "available"}
		if !status.Available {
			r.Detail = status.Detail
		}
		results = append(results, r)
	}
	return results
}

// Failures counts failed checks that are not optional.
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed && !r.Optional {
			n++
		}
	}
	return n
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	result := Result{Name: name, Path: path}
	if strings.TrimSpace(path) == "" {
		result.Detail = "not configured"
		return result
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			result.Detail = "does not exist"
			return result
		}
		result.Detail = fmt.Sprintf("stat: %v", err)
		return result
	}
	if !info.IsDir() {
		result.Detail = "is not a directory"
		return result
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		result.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return result
	}
	result.Passed = true
	result.Detail = "read/write ok"
	return result
}
