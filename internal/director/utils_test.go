package director

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateScenarioPath(t *testing.T) {
	path := GenerateScenarioPath("maps/My Map.osb", false)

	if filepath.Dir(path) != ScenariosDir {
		t.Errorf("Path should be in %s: %s", ScenariosDir, path)
	}
	if !strings.HasPrefix(filepath.Base(path), "My Map_") || !strings.HasSuffix(path, ".yaml") {
		t.Errorf("Unexpected path: %s", path)
	}

	compressed := GenerateScenarioPath("", true)
	if !strings.HasPrefix(filepath.Base(compressed), "scenario_") || !strings.HasSuffix(compressed, ".yaml.zst") {
		t.Errorf("Unexpected compressed path: %s", compressed)
	}

	t.Logf("Generated path: %s", path)
}

func TestFindLatestScenario(t *testing.T) {
	testDir := t.TempDir()

	files := []string{
		filepath.Join(testDir, "a_2026-02-12_10-00-00.yaml"),
		filepath.Join(testDir, "b_2026-02-13_01-00-00.yaml.zst"),
		filepath.Join(testDir, "c_2026-02-11_15-30-00.yaml"),
	}

	for i, f := range files {
		if err := os.WriteFile(f, []byte("test"), 0644); err != nil {
			t.Fatal(err)
		}
		// Set different modification times
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	// Newer, but not a scenario
	os.WriteFile(filepath.Join(testDir, "notes.txt"), []byte("x"), 0644)

	latest, err := FindLatestScenario(testDir)
	if err != nil {
		t.Fatalf("FindLatestScenario failed: %v", err)
	}
	if latest != files[2] {
		t.Errorf("Expected %s, got %s", files[2], latest)
	}
}

func TestFindLatestScenarioEmpty(t *testing.T) {
	if _, err := FindLatestScenario(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
	if _, err := FindLatestScenario(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
