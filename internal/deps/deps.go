package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Mythic-botz/Rename/internal/config"
)

// ErrMissingBinary reports that a required executable could not be located.
var ErrMissingBinary = errors.New("binary not found")

// Requirement defines an external dependency renamer relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := Resolve(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Requirements lists the external tools the rename pipeline executes.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "Stream inspection when filenames lack quality"},
		{Name: "FFmpeg", Command: cfg.FFmpegBinary(), Description: "Metadata tagging", Optional: !cfg.Rename.Tagging},
	}
}

// Resolve returns the absolute path of command, searching PATH when it is not
// already a path.
func Resolve(command string) (string, error) {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return "", fmt.Errorf("%w: command not configured", ErrMissingBinary)
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMissingBinary, cmd, err)
	}
	return resolved, nil
}
