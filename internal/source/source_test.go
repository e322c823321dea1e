package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.osb", "a.OSB", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[Events]\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	os.Mkdir(filepath.Join(dir, "sub.osb"), 0755)

	single := filepath.Join(dir, "notes.txt")
	sources, err := Expand(dir, single)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	want := []string{filepath.Join(dir, "a.OSB"), filepath.Join(dir, "b.osb"), single}
	if len(sources) != len(want) {
		t.Fatalf("Expected %d sources, got %d", len(want), len(sources))
	}
	for i, src := range sources {
		if src.Name() != want[i] {
			t.Errorf("Source %d: expected %s, got %s", i, want[i], src.Name())
		}
	}

	r, err := sources[0].Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "[Events]\n" {
		t.Errorf("Unexpected content: %q", data)
	}
}

func TestExpandErrors(t *testing.T) {
	if _, err := Expand(t.TempDir()); err == nil {
		t.Error("Expected error for a directory without scripts")
	}
	if _, err := Expand(filepath.Join(t.TempDir(), "missing.osb")); err == nil {
		t.Error("Expected error for a missing path")
	}
}

func TestStringSource(t *testing.T) {
	src := NewStringSource("inline", "[Events]")
	r, err := src.Open()
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(r)
	if src.Name() != "inline" || string(data) != "[Events]" {
		t.Errorf("Unexpected source: %s %q", src.Name(), data)
	}
}
