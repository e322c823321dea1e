// Package timeline expands an object's command tree into flat, per-kind
// command lists ready for time queries.
package timeline

import (
	"iter"
	"sort"

	"github.com/ivlev/storyboard/internal/storyboard"
)

// Flattened is an object's commands with every Loop unrolled. The commands
// are copies, so shifting them never touches the parsed tree.
type Flattened struct {
	Object   *storyboard.Object
	Commands []storyboard.SimpleCommand
}

// Flatten unrolls obj's loops. TriggerLoop contents depend on gameplay events
// and are left out.
func Flatten(obj *storyboard.Object) *Flattened {
	return &Flattened{
		Object:   obj,
		Commands: flatten(obj.Commands),
	}
}

func flatten(commands []storyboard.Command) []storyboard.SimpleCommand {
	var out []storyboard.SimpleCommand

	for _, cmd := range commands {
		switch c := cmd.(type) {
		case storyboard.SimpleCommand:
			out = append(out, c)

		case storyboard.Loop:
			body := flatten(c.Children)

			// Iteration length comes from the zero-based child times.
			duration := 0
			for i, sub := range body {
				duration = max(duration, sub.Span().End)
				body[i] = sub.Shift(c.StartTime)
			}

			out = append(out, body...)
			for i := 1; i < c.LoopCount; i++ {
				offset := i * duration
				for _, sub := range body {
					out = append(out, sub.Shift(offset))
				}
			}
		}
	}
	return out
}

// Start returns the earliest command start. ok is false when there are no
// commands.
func (f *Flattened) Start() (start int, ok bool) {
	for i, c := range f.Commands {
		if s := c.Span().Start; i == 0 || s < start {
			start = s
		}
	}
	return start, len(f.Commands) > 0
}

// End returns the latest command end.
func (f *Flattened) End() (end int, ok bool) {
	for i, c := range f.Commands {
		if e := c.Span().End; i == 0 || e > end {
			end = e
		}
	}
	return end, len(f.Commands) > 0
}

// Classified groups flattened commands by kind. Each slice is sorted by
// start time; commands starting together keep their flattened order.
type Classified struct {
	Flattened *Flattened

	Fades        []storyboard.Fade
	Moves        []storyboard.Move
	MoveXs       []storyboard.MoveX
	MoveYs       []storyboard.MoveY
	Scales       []storyboard.Scale
	VectorScales []storyboard.VectorScale
	Rotates      []storyboard.Rotate
	Colours      []storyboard.Colour
	Parameters   []storyboard.Parameter
}

// Classify partitions f by command kind.
func Classify(f *Flattened) *Classified {
	c := &Classified{Flattened: f}

	for _, cmd := range f.Commands {
		switch v := cmd.(type) {
		case storyboard.Fade:
			c.Fades = append(c.Fades, v)
		case storyboard.Move:
			c.Moves = append(c.Moves, v)
		case storyboard.MoveX:
			c.MoveXs = append(c.MoveXs, v)
		case storyboard.MoveY:
			c.MoveYs = append(c.MoveYs, v)
		case storyboard.Scale:
			c.Scales = append(c.Scales, v)
		case storyboard.VectorScale:
			c.VectorScales = append(c.VectorScales, v)
		case storyboard.Rotate:
			c.Rotates = append(c.Rotates, v)
		case storyboard.Colour:
			c.Colours = append(c.Colours, v)
		case storyboard.Parameter:
			c.Parameters = append(c.Parameters, v)
		}
	}

	sortByStart(c.Fades)
	sortByStart(c.Moves)
	sortByStart(c.MoveXs)
	sortByStart(c.MoveYs)
	sortByStart(c.Scales)
	sortByStart(c.VectorScales)
	sortByStart(c.Rotates)
	sortByStart(c.Colours)
	sortByStart(c.Parameters)
	return c
}

func sortByStart[T storyboard.SimpleCommand](cmds []T) {
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].Span().Start < cmds[j].Span().Start
	})
}

// Of classifies a freshly flattened obj.
func Of(obj *storyboard.Object) *Classified {
	return Classify(Flatten(obj))
}

// Range is a closed time interval in milliseconds.
type Range struct {
	Start int
	End   int
}

// VisibleRanges yields the intervals in which the object may be visible,
// judged from its Fade commands and the bounds of its timeline. An object
// is considered visible from the timeline start until a fade takes it to
// zero opacity, and again from the next fade that is not fully transparent.
func VisibleRanges(c *Classified) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		first, ok := c.Flattened.Start()
		if !ok {
			return
		}
		last, _ := c.Flattened.End()

		start, open := first, true
		for _, f := range c.Fades {
			if !open && (f.StartOpacity != 0 || f.EndOpacity != 0) {
				start, open = f.Start, true
			}
			if open && f.EndOpacity == 0 {
				if !yield(Range{Start: start, End: f.End}) {
					return
				}
				open = false
			}
		}

		if open {
			yield(Range{Start: start, End: last})
		}
	}
}
