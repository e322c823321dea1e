package director

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/storyboard/internal/storyboard"
)

const testStoryboard = `[Events]
Sprite,Foreground,Centre,"sb/star.png",320,240
 F,0,0,1000,0,1
 F,0,2000,3000,1,0
Animation,Background,TopLeft,"sb/fx.png",0,0,2,500,LoopForever
 M,0,0,1000,0,0,100,50
Sprite,Background,TopLeft,"sb/empty.png",0,0
`

func parse(t *testing.T) *storyboard.Storyboard {
	t.Helper()
	sb, err := storyboard.ParseString("test.osb", testStoryboard)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	return sb
}

func TestBake(t *testing.T) {
	scenario, err := NewDirector(1).Bake(parse(t))
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}

	if scenario.Version != ScenarioVersion || scenario.Name != "test.osb" || scenario.FPS != 1 {
		t.Errorf("Unexpected scenario header: %+v", scenario)
	}
	if len(scenario.Tracks) != 3 {
		t.Fatalf("Expected 3 tracks, got %d", len(scenario.Tracks))
	}

	star := scenario.Tracks[0]
	if star.Start != 0 || star.End != 3000 {
		t.Errorf("Expected 0-3000, got %d-%d", star.Start, star.End)
	}
	// One sample per second, both ends included.
	if len(star.Keyframes) != 4 {
		t.Fatalf("Expected 4 keyframes, got %d", len(star.Keyframes))
	}
	if kf := star.Keyframes[1]; kf.Opacity != 1 || !kf.Visible || kf.X != 320 {
		t.Errorf("Unexpected keyframe at 1000: %+v", kf)
	}
	if kf := star.Keyframes[3]; kf.Opacity != 0 || kf.Visible {
		t.Errorf("Expected invisible last keyframe, got %+v", kf)
	}
	if star.Keyframes[0].Image != "" {
		t.Error("Sprite keyframes should not carry frame images")
	}

	fx := scenario.Tracks[1]
	if len(fx.Keyframes) != 2 {
		t.Fatalf("Expected 2 keyframes, got %d", len(fx.Keyframes))
	}
	if kf := fx.Keyframes[1]; kf.X != 100 || kf.Y != 50 || kf.Frame != 0 || kf.Image != "sb/fx0.png" {
		t.Errorf("Unexpected animation keyframe: %+v", kf)
	}

	if empty := scenario.Tracks[2]; len(empty.Keyframes) != 0 || empty.Object != 2 {
		t.Errorf("Expected empty track for object 2, got %+v", empty)
	}
}

func TestBakeAppendsEndSample(t *testing.T) {
	scenario, err := NewDirector(3).Bake(parse(t))
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}

	kfs := scenario.Tracks[1].Keyframes
	last := kfs[len(kfs)-1]
	if last.Time != 1000 {
		t.Errorf("Expected last sample at 1000, got %f", last.Time)
	}
	if prev := kfs[len(kfs)-2]; math.Abs(prev.Time-1000) < 1e-9 {
		t.Errorf("End sample duplicated: %f", prev.Time)
	}
}

func TestBakeLimits(t *testing.T) {
	if _, err := NewDirector(0).Bake(parse(t)); err == nil {
		t.Error("Expected error for zero fps")
	}

	d := NewDirector(1000)
	d.MaxKeyframes = 10
	if _, err := d.Bake(parse(t)); err == nil {
		t.Error("Expected keyframe limit error")
	}
}

func TestWriteReadScenario(t *testing.T) {
	scenario, err := NewDirector(2).Bake(parse(t))
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}

	for _, name := range []string{"baked.yaml", "baked.yaml.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := WriteScenario(scenario, path); err != nil {
				t.Fatalf("WriteScenario failed: %v", err)
			}

			loaded, err := ReadScenario(path)
			if err != nil {
				t.Fatalf("ReadScenario failed: %v", err)
			}
			if len(loaded.Tracks) != len(scenario.Tracks) {
				t.Fatalf("Expected %d tracks, got %d", len(scenario.Tracks), len(loaded.Tracks))
			}
			got, want := loaded.Tracks[0].Keyframes, scenario.Tracks[0].Keyframes
			if len(got) != len(want) || got[len(got)-1] != want[len(want)-1] {
				t.Errorf("Keyframes changed on reload")
			}
		})
	}
}

func TestReadScenarioRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml.zst")
	if err := os.WriteFile(path, []byte("not zstd"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadScenario(path); err == nil {
		t.Error("Expected decompression error")
	}
}
