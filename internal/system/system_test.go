package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestStoryboard(t *testing.T) {
	dir := t.TempDir()

	files := []string{"old.osb", "new.OSB", "newest.txt"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("[Events]"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(path, modTime, modTime)
	}

	latest, err := FindLatestStoryboard(dir)
	if err != nil {
		t.Fatalf("FindLatestStoryboard failed: %v", err)
	}
	if latest != filepath.Join(dir, "new.OSB") {
		t.Errorf("Expected new.OSB, got %s", latest)
	}

	if _, err := FindLatestStoryboard(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
}

func TestCollectStats(t *testing.T) {
	s, err := CollectStats()
	if err != nil {
		t.Skipf("Host stats unavailable: %v", err)
	}
	if s.CPUs < 1 || s.RSS == 0 {
		t.Errorf("Unexpected stats: %+v", s)
	}
	t.Logf("CPUs: %d, RSS: %s, Total: %s", s.CPUs, FormatBytes(s.RSS), FormatBytes(s.TotalMemory))
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d): expected %q, got %q", tt.n, tt.want, got)
		}
	}
}
