package main

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/Mythic-botz/Rename/internal/fileutil"
)

// newProgress returns a byte progress bar on w, or nil when w is not a
// terminal. A transfer that restarts from zero gets a fresh bar.
func newProgress(w io.Writer, description string) fileutil.ProgressFunc {
	if !isTerminal(w) {
		return nil
	}
	var (
		bar  *progressbar.ProgressBar
		last int64
	)
	return func(written, total int64) {
		if bar == nil || written < last {
			bar = progressbar.NewOptions64(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription(description),
				progressbar.OptionShowBytes(true),
				progressbar.OptionClearOnFinish(),
			)
		}
		last = written
		_ = bar.Set64(written)
		if written >= total {
			_ = bar.Finish()
			bar = nil
			last = 0
		}
	}
}
