package renamer

import (
	"testing"
	"time"
)

func TestInflightWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newInflight(10*time.Second, func() time.Time { return now })

	release, ok := f.acquire("a")
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}
	if _, ok := f.acquire("a"); ok {
		t.Fatal("expected duplicate inside window to be rejected")
	}
	if _, ok := f.acquire("b"); !ok {
		t.Fatal("expected a different key to be accepted")
	}

	now = now.Add(11 * time.Second)
	staleRelease, ok := f.acquire("a")
	if !ok {
		t.Fatal("expected stale entry to be replaced")
	}

	// The first holder releasing must not drop the newer claim.
	release()
	if _, ok := f.acquire("a"); ok {
		t.Fatal("expected newer claim to survive old release")
	}
	staleRelease()
	if f.size() != 1 {
		t.Fatalf("expected only key b to remain, got %d", f.size())
	}
}
