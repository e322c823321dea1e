package storyboard

import (
	"fmt"

	"github.com/ivlev/storyboard/internal/easing"
)

// Kind tags each Command variant.
type Kind int

const (
	KindFade Kind = iota
	KindMove
	KindMoveX
	KindMoveY
	KindScale
	KindVectorScale
	KindRotate
	KindColour
	KindParameter
	KindLoop
	KindTrigger
)

var kindTags = []string{"F", "M", "MX", "MY", "S", "V", "R", "C", "P", "L", "T"}

// Tag returns the script keyword of the kind.
func (k Kind) Tag() string {
	if k < 0 || int(k) >= len(kindTags) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindTags[k]
}

func (k Kind) String() string {
	switch k {
	case KindFade:
		return "Fade"
	case KindMove:
		return "Move"
	case KindMoveX:
		return "MoveX"
	case KindMoveY:
		return "MoveY"
	case KindScale:
		return "Scale"
	case KindVectorScale:
		return "VectorScale"
	case KindRotate:
		return "Rotate"
	case KindColour:
		return "Colour"
	case KindParameter:
		return "Parameter"
	case KindLoop:
		return "Loop"
	case KindTrigger:
		return "TriggerLoop"
	}
	return k.Tag()
}

// Simple reports whether commands of this kind are timed leaves.
func (k Kind) Simple() bool {
	return k >= KindFade && k <= KindParameter
}

// Command is one of Fade, Move, MoveX, MoveY, Scale, VectorScale, Rotate,
// Colour, Parameter, Loop or TriggerLoop.
type Command interface {
	Kind() Kind
	SourceLine() int
	sealed()
}

// SimpleCommand is a timed, eased command.
type SimpleCommand interface {
	Command
	Span() Timing
	// Shift returns a copy moved by offset milliseconds.
	Shift(offset int) SimpleCommand
}

// Timing is shared by every simple command. Start and End are milliseconds.
type Timing struct {
	Easing easing.Kind
	Start  int
	End    int
}

func (t Timing) Span() Timing { return t }

func (t Timing) Instant() bool { return t.Start == t.End }

func (t Timing) Duration() int { return t.End - t.Start }

func (t Timing) shift(offset int) Timing {
	t.Start += offset
	t.End += offset
	return t
}

// Pos records where a command was declared.
type Pos struct {
	Line int
}

func (p Pos) SourceLine() int { return p.Line }

// Fade changes opacity; 0 is invisible, 1 fully visible.
type Fade struct {
	Pos
	Timing
	StartOpacity, EndOpacity float64
}

// Move changes position in playfield coordinates (640x480, origin top-left).
type Move struct {
	Pos
	Timing
	StartX, StartY, EndX, EndY float64
}

type MoveX struct {
	Pos
	Timing
	StartX, EndX float64
}

type MoveY struct {
	Pos
	Timing
	StartY, EndY float64
}

// Scale changes the uniform scale factor (1 = 100%).
type Scale struct {
	Pos
	Timing
	StartScale, EndScale float64
}

// VectorScale changes the per-axis scale factors.
type VectorScale struct {
	Pos
	Timing
	StartX, StartY, EndX, EndY float64
}

// Rotate changes the angle in radians; positive is clockwise.
type Rotate struct {
	Pos
	Timing
	StartAngle, EndAngle float64
}

// Colour tints the image; (255,255,255) keeps the original colours.
type Colour struct {
	Pos
	Timing
	R1, G1, B1 int
	R2, G2, B2 int
}

// Parameter applies a flag only while active, unlike the other commands
// which hold their end value.
type Parameter struct {
	Pos
	Timing
	Param Param
}

// Loop repeats its children LoopCount times from StartTime. Child timestamps
// are relative to the start of each iteration.
type Loop struct {
	Pos
	StartTime int
	LoopCount int
	Children  []Command
}

// TriggerLoop runs its children once when Trigger fires between Start and
// End. Its contents depend on gameplay and never enter a flattened timeline.
type TriggerLoop struct {
	Pos
	Trigger  Trigger
	Start    int
	End      int
	Children []Command
}

func (Fade) Kind() Kind        { return KindFade }
func (Move) Kind() Kind        { return KindMove }
func (MoveX) Kind() Kind       { return KindMoveX }
func (MoveY) Kind() Kind       { return KindMoveY }
func (Scale) Kind() Kind       { return KindScale }
func (VectorScale) Kind() Kind { return KindVectorScale }
func (Rotate) Kind() Kind      { return KindRotate }
func (Colour) Kind() Kind      { return KindColour }
func (Parameter) Kind() Kind   { return KindParameter }
func (Loop) Kind() Kind        { return KindLoop }
func (TriggerLoop) Kind() Kind { return KindTrigger }

func (Fade) sealed()        {}
func (Move) sealed()        {}
func (MoveX) sealed()       {}
func (MoveY) sealed()       {}
func (Scale) sealed()       {}
func (VectorScale) sealed() {}
func (Rotate) sealed()      {}
func (Colour) sealed()      {}
func (Parameter) sealed()   {}
func (Loop) sealed()        {}
func (TriggerLoop) sealed() {}

func (c Fade) Shift(offset int) SimpleCommand        { c.Timing = c.shift(offset); return c }
func (c Move) Shift(offset int) SimpleCommand        { c.Timing = c.shift(offset); return c }
func (c MoveX) Shift(offset int) SimpleCommand       { c.Timing = c.shift(offset); return c }
func (c MoveY) Shift(offset int) SimpleCommand       { c.Timing = c.shift(offset); return c }
func (c Scale) Shift(offset int) SimpleCommand       { c.Timing = c.shift(offset); return c }
func (c VectorScale) Shift(offset int) SimpleCommand { c.Timing = c.shift(offset); return c }
func (c Rotate) Shift(offset int) SimpleCommand      { c.Timing = c.shift(offset); return c }
func (c Colour) Shift(offset int) SimpleCommand      { c.Timing = c.shift(offset); return c }
func (c Parameter) Shift(offset int) SimpleCommand   { c.Timing = c.shift(offset); return c }
