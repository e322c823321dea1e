package director

import (
	"fmt"
	"math"
	"slices"

	"github.com/ivlev/storyboard/internal/renderer"
	"github.com/ivlev/storyboard/internal/storyboard"
	"github.com/ivlev/storyboard/internal/timeline"
)

const ScenarioVersion = "1.0"

// DefaultMaxKeyframes caps the samples of a single track
const DefaultMaxKeyframes = 1_000_000

// Director bakes storyboards into fixed-rate keyframe scenarios
type Director struct {
	FPS          float64 // Samples per second of storyboard time
	MaxKeyframes int     // Per track; 0 means DefaultMaxKeyframes
}

// NewDirector creates a new Director sampling at fps
func NewDirector(fps float64) *Director {
	return &Director{
		FPS:          fps,
		MaxKeyframes: DefaultMaxKeyframes,
	}
}

// Bake samples every object of sb across its own timeline. Objects without
// commands get an empty track so indices stay aligned with the source.
func (d *Director) Bake(sb *storyboard.Storyboard) (*Scenario, error) {
	if d.FPS <= 0 || math.IsInf(d.FPS, 0) || math.IsNaN(d.FPS) {
		return nil, fmt.Errorf("invalid fps %v", d.FPS)
	}

	scenario := &Scenario{
		Version: ScenarioVersion,
		Name:    sb.Name,
		FPS:     d.FPS,
		Tracks:  make([]Track, 0, len(sb.Events.Objects)),
	}

	for i, obj := range sb.Events.Objects {
		track, err := d.BakeObject(i, obj)
		if err != nil {
			return nil, err
		}
		scenario.Tracks = append(scenario.Tracks, *track)
	}

	return scenario, nil
}

// BakeObject samples a single object. The last keyframe always sits exactly
// on the end of the timeline.
func (d *Director) BakeObject(index int, obj *storyboard.Object) (*Track, error) {
	classified := timeline.Of(obj)
	track := &Track{
		Object: index,
		Line:   obj.Line,
		Type:   obj.Type.String(),
		Layer:  obj.Layer.String(),
		Origin: obj.Origin.String(),
		Image:  obj.ImagePath,
	}

	start, ok := classified.Flattened.Start()
	if !ok {
		return track, nil
	}
	end, _ := classified.Flattened.End()
	track.Start, track.End = start, end

	count := int(math.Floor(float64(end-start)*d.FPS/1000)) + 1
	if limit := d.maxKeyframes(); count > limit {
		return nil, fmt.Errorf("object %d (line %d): %d keyframes exceed the limit of %d",
			index, obj.Line, count, limit)
	}

	ranges := slices.Collect(timeline.VisibleRanges(classified))
	interp := renderer.NewInterpolator(classified)

	track.Keyframes = make([]Keyframe, 0, count+1)
	for i := 0; i < count; i++ {
		t := float64(start) + float64(i)*1000/d.FPS
		track.Keyframes = append(track.Keyframes, d.keyframe(obj, interp.State(t), ranges))
	}
	if last := track.Keyframes[len(track.Keyframes)-1]; last.Time < float64(end) {
		track.Keyframes = append(track.Keyframes, d.keyframe(obj, interp.State(float64(end)), ranges))
	}

	return track, nil
}

func (d *Director) keyframe(obj *storyboard.Object, s renderer.State, ranges []timeline.Range) Keyframe {
	kf := Keyframe{
		Time:     s.Time,
		X:        s.X,
		Y:        s.Y,
		ScaleX:   s.ScaleX,
		ScaleY:   s.ScaleY,
		Rotation: s.Rotation,
		Opacity:  s.Opacity,
		Colour:   Colour{R: s.R, G: s.G, B: s.B},
		FlipH:    s.FlipH,
		FlipV:    s.FlipV,
		Additive: s.Additive,
		Visible:  s.Visible() && inRanges(s.Time, ranges),
	}
	if obj.Animation != nil {
		kf.Frame = s.Frame
		kf.Image = obj.FramePath(s.Frame)
	}
	return kf
}

func (d *Director) maxKeyframes() int {
	if d.MaxKeyframes <= 0 {
		return DefaultMaxKeyframes
	}
	return d.MaxKeyframes
}

func inRanges(t float64, ranges []timeline.Range) bool {
	for _, r := range ranges {
		if t >= float64(r.Start) && t <= float64(r.End) {
			return true
		}
	}
	return false
}
