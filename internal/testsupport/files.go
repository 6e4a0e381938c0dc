package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path with size bytes of filler, creating parent
// directories. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{'r'}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ProbeScript returns a stub ffprobe body that prints payload on stdout.
func ProbeScript(t testing.TB, payload string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "streams.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write probe payload: %v", err)
	}
	return "#!/bin/sh\ncat " + path + "\n"
}

// CopyScript returns a stub ffmpeg body that copies the -i input to its last
// argument, mimicking a successful stream copy.
func CopyScript() string {
	return `#!/bin/sh
in=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-i" ]; then in="$arg"; fi
  prev="$arg"
  last="$arg"
done
cp "$in" "$last"
`
}
