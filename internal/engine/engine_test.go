package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/storyboard/internal/config"
	"github.com/ivlev/storyboard/internal/source"
	"github.com/ivlev/storyboard/internal/storyboard"
)

const good = `[Events]
Sprite,Foreground,Centre,"a.png",320,240
 L,0,4
  F,0,0,100,0,1
 S,0,0,400,1,2
`

const bad = `[Events]
Sprite,Foreground,Centre,"a.png",320,240
 F,0,100,50,0,1
`

func testConfig() *config.Config {
	return &config.Config{FPS: 30, Workers: 2, MaxLoopCount: 100, Quiet: true}
}

func TestRun(t *testing.T) {
	sources := []source.Source{
		source.NewStringSource("one.osb", good),
		source.NewStringSource("broken.osb", bad),
		source.NewStringSource("two.osb", good),
	}

	report, err := NewProject(testConfig(), sources).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(report.Results))
	}
	// Results keep input order regardless of completion order.
	for i, name := range []string{"one.osb", "broken.osb", "two.osb"} {
		if report.Results[i].Name != name {
			t.Errorf("Result %d: expected %s, got %s", i, name, report.Results[i].Name)
		}
	}

	if report.Failed != 1 || !errors.Is(report.Results[1].Err, storyboard.ErrInvalidArgument) {
		t.Errorf("Expected one invalid argument failure, got %d: %v", report.Failed, report.Results[1].Err)
	}
	if report.Results[0].Commands != 5 || report.Commands != 10 || report.Objects != 2 {
		t.Errorf("Unexpected counts: %+v", report)
	}
}

func TestRunLoopLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLoopCount = 3

	report, err := NewProject(cfg, []source.Source{source.NewStringSource("one.osb", good)}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("Expected loop limit failure, got %+v", report.Results[0])
	}
}

func TestRunNestedLoopExplosion(t *testing.T) {
	const nested = `[Events]
Sprite,Foreground,Centre,"a.png",320,240
 L,0,1000
  L,0,1000
   L,0,1000
    F,0,0,1,0,1
`
	cfg := testConfig()
	cfg.MaxLoopCount = storyboard.DefaultMaxLoopCount

	report, err := NewProject(cfg, []source.Source{source.NewStringSource("nested.osb", nested)}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Failed != 1 || !errors.Is(report.Results[0].Err, storyboard.ErrInvalidArgument) {
		t.Errorf("Expected expansion limit failure, got %+v", report.Results[0])
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProject(testConfig(), []source.Source{source.NewStringSource("one.osb", good)}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRunEmpty(t *testing.T) {
	if _, err := NewProject(testConfig(), nil).Run(context.Background()); err == nil {
		t.Error("Expected error for empty batch")
	}
}

func TestStatsLog(t *testing.T) {
	cfg := testConfig()
	cfg.ShowStats = true
	cfg.BuildVersion = "test-build"
	cfg.StatsLog = filepath.Join(t.TempDir(), "benchmark.log")

	sources := []source.Source{source.NewStringSource("one.osb", good)}
	for i := 0; i < 2; i++ {
		if _, err := NewProject(cfg, sources).Run(context.Background()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	}

	data, err := os.ReadFile(cfg.StatsLog)
	if err != nil {
		t.Fatalf("Stats log not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 appended entries, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Build: test-build") || !strings.Contains(lines[0], "Input: one.osb") {
		t.Errorf("Unexpected log entry: %s", lines[0])
	}
}

func TestAppendStatsLogError(t *testing.T) {
	// A directory cannot be opened for writing
	if err := appendStatsLog(t.TempDir(), "entry\n"); err == nil {
		t.Error("Expected error when the stats log path is a directory")
	}
}

func TestFilesPerSecond(t *testing.T) {
	tests := []struct {
		files   int
		elapsed time.Duration
		want    float64
	}{
		{10, 2 * time.Second, 5},
		{3, 0, 0},
		{0, time.Second, 0},
	}

	for _, tt := range tests {
		if got := filesPerSecond(tt.files, tt.elapsed); got != tt.want {
			t.Errorf("filesPerSecond(%d, %v) = %v, want %v", tt.files, tt.elapsed, got, tt.want)
		}
	}
}
