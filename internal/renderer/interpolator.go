package renderer

import (
	"math"
	"sort"

	"github.com/ivlev/storyboard/internal/easing"
	"github.com/ivlev/storyboard/internal/storyboard"
	"github.com/ivlev/storyboard/internal/timeline"
)

// Interpolator answers "value at time t" queries for one object. Times are
// milliseconds; fractional values are allowed so frames can be sampled
// between whole milliseconds.
type Interpolator struct {
	object *storyboard.Object
	c      *timeline.Classified
	params [3][]storyboard.Parameter
	start  int
}

// NewInterpolator indexes a classified timeline for queries.
func NewInterpolator(c *timeline.Classified) *Interpolator {
	in := &Interpolator{object: c.Flattened.Object, c: c}
	for _, p := range c.Parameters {
		if p.Param >= 0 && int(p.Param) < len(in.params) {
			in.params[p.Param] = append(in.params[p.Param], p)
		}
	}
	in.start, _ = c.Flattened.Start()
	return in
}

// For builds an interpolator straight from a parsed object.
func For(obj *storyboard.Object) *Interpolator {
	return NewInterpolator(timeline.Of(obj))
}

// locate finds the last command starting at or before t and the eased
// progress through it. i is -1 when t precedes every command.
func locate[T storyboard.SimpleCommand](cmds []T, t float64) (i int, alpha float64) {
	i = sort.Search(len(cmds), func(j int) bool {
		return float64(cmds[j].Span().Start) > t
	}) - 1
	if i < 0 {
		return -1, 0
	}

	span := cmds[i].Span()
	if t >= float64(span.End) {
		return i, 1
	}
	p := (t - float64(span.Start)) / float64(span.End-span.Start)
	return i, easing.Apply(span.Easing, p)
}

// lerp blends a and b; alpha 1 returns b exactly.
func lerp(a, b, alpha float64) float64 {
	return (1-alpha)*a + alpha*b
}

// Opacity returns 1 before the first fade.
func (in *Interpolator) Opacity(t float64) float64 {
	i, alpha := locate(in.c.Fades, t)
	if i < 0 {
		return 1
	}
	f := in.c.Fades[i]
	return lerp(f.StartOpacity, f.EndOpacity, alpha)
}

// Position follows Move commands only. Without any it reports the object's
// declared position; before the first it holds the first start value.
func (in *Interpolator) Position(t float64) (x, y float64) {
	moves := in.c.Moves
	if len(moves) == 0 {
		return in.object.X, in.object.Y
	}
	i, alpha := locate(moves, t)
	if i < 0 {
		return moves[0].StartX, moves[0].StartY
	}
	m := moves[i]
	return lerp(m.StartX, m.EndX, alpha), lerp(m.StartY, m.EndY, alpha)
}

// X follows MoveX commands only.
func (in *Interpolator) X(t float64) float64 {
	cmds := in.c.MoveXs
	if len(cmds) == 0 {
		return in.object.X
	}
	i, alpha := locate(cmds, t)
	if i < 0 {
		return cmds[0].StartX
	}
	return lerp(cmds[i].StartX, cmds[i].EndX, alpha)
}

// Y follows MoveY commands only.
func (in *Interpolator) Y(t float64) float64 {
	cmds := in.c.MoveYs
	if len(cmds) == 0 {
		return in.object.Y
	}
	i, alpha := locate(cmds, t)
	if i < 0 {
		return cmds[0].StartY
	}
	return lerp(cmds[i].StartY, cmds[i].EndY, alpha)
}

func (in *Interpolator) Scale(t float64) float64 {
	i, alpha := locate(in.c.Scales, t)
	if i < 0 {
		return 1
	}
	s := in.c.Scales[i]
	return lerp(s.StartScale, s.EndScale, alpha)
}

func (in *Interpolator) VectorScale(t float64) (x, y float64) {
	cmds := in.c.VectorScales
	if len(cmds) == 0 {
		return 1, 1
	}
	i, alpha := locate(cmds, t)
	if i < 0 {
		return cmds[0].StartX, cmds[0].StartY
	}
	v := cmds[i]
	return lerp(v.StartX, v.EndX, alpha), lerp(v.StartY, v.EndY, alpha)
}

// Rotation is in radians and defaults to 0.
func (in *Interpolator) Rotation(t float64) float64 {
	i, alpha := locate(in.c.Rotates, t)
	if i < 0 {
		return 0
	}
	r := in.c.Rotates[i]
	return lerp(r.StartAngle, r.EndAngle, alpha)
}

// Colour returns the tint channels on a 0-255 scale. White leaves the image
// untouched.
func (in *Interpolator) Colour(t float64) (r, g, b float64) {
	cmds := in.c.Colours
	if len(cmds) == 0 {
		return 255, 255, 255
	}
	i, alpha := locate(cmds, t)
	if i < 0 {
		c := cmds[0]
		return float64(c.R1), float64(c.G1), float64(c.B1)
	}
	c := cmds[i]
	return lerp(float64(c.R1), float64(c.R2), alpha),
		lerp(float64(c.G1), float64(c.G2), alpha),
		lerp(float64(c.B1), float64(c.B2), alpha)
}

// Flag reports whether p is in effect at t. Unlike the other attributes a
// parameter does not persist past its end, except for instant commands.
func (in *Interpolator) Flag(p storyboard.Param, t float64) bool {
	if p < 0 || int(p) >= len(in.params) {
		return false
	}
	cmds := in.params[p]
	i, _ := locate(cmds, t)
	if i < 0 {
		return false
	}
	span := cmds[i].Span()
	return span.Instant() || t <= float64(span.End)
}

// Frame returns the animation frame shown at t, counted from the start of
// the object's timeline. Sprites always show frame 0.
func (in *Interpolator) Frame(t float64) int {
	a := in.object.Animation
	if a == nil || a.FrameDelay <= 0 || a.FrameCount <= 1 {
		return 0
	}

	elapsed := t - float64(in.start)
	if elapsed < 0 {
		return 0
	}
	n := int(math.Floor(elapsed / a.FrameDelay))
	if a.LoopType == storyboard.LoopOnce {
		return min(n, a.FrameCount-1)
	}
	return n % a.FrameCount
}

// moveDrives reports whether the Move track, rather than the single-axis
// track, sets a coordinate at t: whichever started most recently wins.
func moveDrives[T storyboard.SimpleCommand](moves []storyboard.Move, axis []T, t float64) bool {
	if len(moves) == 0 {
		return false
	}
	if len(axis) == 0 {
		return true
	}

	mi, _ := locate(moves, t)
	ai, _ := locate(axis, t)
	switch {
	case mi < 0 && ai < 0:
		return moves[0].Start <= axis[0].Span().Start
	case ai < 0:
		return true
	case mi < 0:
		return false
	}
	return moves[mi].Start >= axis[ai].Span().Start
}

// State combines every attribute at t.
func (in *Interpolator) State(t float64) State {
	s := State{
		Time:     t,
		Origin:   in.object.Origin,
		Opacity:  in.Opacity(t),
		Rotation: in.Rotation(t),
		Frame:    in.Frame(t),
		FlipH:    in.Flag(storyboard.ParamFlipH, t),
		FlipV:    in.Flag(storyboard.ParamFlipV, t),
		Additive: in.Flag(storyboard.ParamAdditive, t),
	}

	mx, my := in.Position(t)
	if moveDrives(in.c.Moves, in.c.MoveXs, t) {
		s.X = mx
	} else {
		s.X = in.X(t)
	}
	if moveDrives(in.c.Moves, in.c.MoveYs, t) {
		s.Y = my
	} else {
		s.Y = in.Y(t)
	}

	scale := in.Scale(t)
	vx, vy := in.VectorScale(t)
	s.ScaleX, s.ScaleY = scale*vx, scale*vy

	s.R, s.G, s.B = in.Colour(t)
	return s
}
