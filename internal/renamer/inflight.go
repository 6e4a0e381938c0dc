package renamer

import (
	"sync"
	"time"
)

// inflight suppresses a file offered again while its first rename is still
// running. A stale entry older than window no longer blocks.
type inflight struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	entries map[string]time.Time
}

func newInflight(window time.Duration, now func() time.Time) *inflight {
	if now == nil {
		now = time.Now
	}
	return &inflight{window: window, now: now, entries: make(map[string]time.Time)}
}

// acquire claims key. The returned release must run on every exit path.
func (f *inflight) acquire(key string) (func(), bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if started, ok := f.entries[key]; ok && now.Sub(started) < f.window {
		return nil, false
	}
	f.entries[key] = now
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.entries[key].Equal(now) {
			delete(f.entries, key)
		}
	}, true
}

func (f *inflight) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
