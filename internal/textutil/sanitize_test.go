package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Show S01E02 [1080p].mkv", "Show S01E02 [1080p].mkv"},
		{"AC/DC: Live?.mp4", "AC-DC- Live.mp4"},
		{`a\b*c|d<e>"f".mkv`, "a-b-cdef.mkv"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
