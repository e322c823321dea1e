package storyboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivlev/storyboard/internal/easing"
	"github.com/ivlev/storyboard/internal/fields"
	"github.com/ivlev/storyboard/internal/tree"
)

// DefaultMaxLoopCount bounds loop expansion when Options leaves it unset.
const DefaultMaxLoopCount = 10000

// DefaultMaxExpandedCommands bounds the commands one object may unroll to
// when Options leaves it unset. Nested loops multiply, so a per-loop count
// limit alone does not bound this.
const DefaultMaxExpandedCommands = 1_000_000

// Options tunes validation limits.
type Options struct {
	MaxLoopCount        int
	MaxExpandedCommands int
}

func DefaultOptions() Options {
	return Options{
		MaxLoopCount:        DefaultMaxLoopCount,
		MaxExpandedCommands: DefaultMaxExpandedCommands,
	}
}

func (o Options) maxLoopCount() int {
	if o.MaxLoopCount <= 0 {
		return DefaultMaxLoopCount
	}
	return o.MaxLoopCount
}

func (o Options) maxExpandedCommands() int {
	if o.MaxExpandedCommands <= 0 {
		return DefaultMaxExpandedCommands
	}
	return o.MaxExpandedCommands
}

// expandedSize counts the simple commands cmds unroll to, giving up with
// limit+1 as soon as the count passes limit. Trigger loop contents are
// never unrolled.
func expandedSize(cmds []Command, limit int) int {
	total := 0
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case Loop:
			body := expandedSize(c.Children, limit)
			if body > 0 && c.LoopCount > (limit-total)/body {
				return limit + 1
			}
			total += body * c.LoopCount
		case TriggerLoop:
		default:
			total++
		}
		if total > limit {
			return limit + 1
		}
	}
	return total
}

// parser carries per-document state; a fresh one is used for every parse.
type parser struct {
	opts     Options
	warnings []Warning
}

func (p *parser) warn(line int, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{Line: line, Message: fmt.Sprintf(format, args...)})
}

type commandParser func(p *parser, n *tree.Node) ([]Command, error)

var commandParsers map[string]commandParser

func init() {
	commandParsers = map[string]commandParser{
		"F":  parseFade,
		"M":  parseMove,
		"MX": parseMoveX,
		"MY": parseMoveY,
		"S":  parseScale,
		"V":  parseVectorScale,
		"R":  parseRotate,
		"C":  parseColour,
		"L":  parseLoop,
		"T":  parseTriggerLoop,
		"P":  parseParameter,
	}
}

func (p *parser) parseCommand(n *tree.Node) ([]Command, error) {
	name := fields.First(n.Text)
	parse, ok := commandParsers[name]
	if !ok {
		return nil, errorf(n.Line, ErrInvalidObjectType, "invalid command type %q", name)
	}
	return parse(p, n)
}

func (p *parser) parseCommands(nodes []*tree.Node) ([]Command, error) {
	var out []Command
	for _, child := range nodes {
		cmds, err := p.parseCommand(child)
		if err != nil {
			return nil, err
		}
		out = append(out, cmds...)
	}
	return out, nil
}

// args returns the fields after the leading keyword.
func args(n *tree.Node) []string {
	return fields.Split(n.Text)[1:]
}

func noChildren(n *tree.Node, kind Kind) error {
	if len(n.Children) > 0 {
		return errorf(n.Line, ErrSubCommandNotSupported,
			"command %q does not support sub-commands", kind.Tag())
	}
	return nil
}

func parseInt(s, what string, line int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errorf(line, ErrInvalidArgument, "invalid %s %q: not an integer", what, s)
	}
	return v, nil
}

func parseFloat(s, what string, line int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errorf(line, ErrInvalidArgument, "invalid %s %q: not a number", what, s)
	}
	return v, nil
}

func parseEasing(s string, line int) (easing.Kind, error) {
	v, err := parseInt(s, "easing", line)
	if err != nil {
		return 0, err
	}
	k, ok := easing.FromValue(v)
	if !ok {
		return 0, errorf(line, ErrInvalidEnum, "invalid easing value %d, use one of [0..%d]", v, easing.Count-1)
	}
	return k, nil
}

// parseTiming reads the easing, start and end fields. An empty end reuses
// the start time.
func parseTiming(easingField, startField, endField string, line int) (Timing, error) {
	e, err := parseEasing(easingField, line)
	if err != nil {
		return Timing{}, err
	}
	start, err := parseInt(startField, "start time", line)
	if err != nil {
		return Timing{}, err
	}
	if strings.TrimSpace(endField) == "" {
		endField = startField
	}
	end, err := parseInt(endField, "end time", line)
	if err != nil {
		return Timing{}, err
	}
	if end < start {
		return Timing{}, errorf(line, ErrInvalidArgument, "end time %d is before start time %d", end, start)
	}
	return Timing{Easing: e, Start: start, End: end}, nil
}

// attrGroups expands the attribute fields of a command into start/end value
// pairs. Each returned group holds k start values followed by k end values.
// With a single group the end values repeat the start values; with more,
// group i runs from the i-th to the (i+1)-th set of values.
func attrGroups(attrs []string, k int) [][]string {
	n := len(attrs)
	if n != k {
		n -= k
	}

	var groups [][]string
	for i := 0; i < n; i += k {
		group := make([]string, 2*k)
		copy(group, attrs[i:i+k])
		for j := 0; j < k; j++ {
			idx := i + k + j
			if idx < len(attrs) && strings.TrimSpace(attrs[idx]) != "" {
				group[k+j] = attrs[idx]
			} else {
				group[k+j] = attrs[i+j]
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// parseAnimated handles every attribute-bearing command. build turns one
// group of 2k values into a command.
func parseAnimated(n *tree.Node, kind Kind, k int, build func(Pos, Timing, []string) (SimpleCommand, error)) ([]Command, error) {
	if err := noChildren(n, kind); err != nil {
		return nil, err
	}

	a := args(n)
	count := len(a) - 3
	if count < k || count%k != 0 {
		return nil, errorf(n.Line, ErrWrongArgumentCount,
			"wrong argument count for %q: expected 3 + a multiple of %d, found %d", kind.Tag(), k, len(a))
	}

	timing, err := parseTiming(a[0], a[1], a[2], n.Line)
	if err != nil {
		return nil, err
	}
	duration := timing.Duration()

	var out []Command
	for _, group := range attrGroups(a[3:], k) {
		cmd, err := build(Pos{Line: n.Line}, timing, group)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
		timing = timing.shift(duration)
	}
	return out, nil
}

func parseFloats(values []string, line int) ([]float64, error) {
	out := make([]float64, len(values))
	for i, s := range values {
		v, err := parseFloat(s, "value", line)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFade(_ *parser, n *tree.Node) ([]Command, error) {
	return parseAnimated(n, KindFade, 1, func(pos Pos, t Timing, g []string) (SimpleCommand, error) {
		v, err := parseFloats(g, pos.Line)
		if err != nil {
			return nil, err
		}
		return Fade{Pos: pos, Timing: t, StartOpacity: v[0], EndOpacity: v[1]}, nil
	})
}

func parseMove(_ *parser, n *tree.Node) ([]Command, error) {
	return parseAnimated(n, KindMove, 2, func(pos Pos, t Timing, g []string) (SimpleCommand, error) {
		v, err := parseFloats(g, pos.Line)
		if err != nil {
			return nil, err
		}
		return Move{Pos: pos, Timing: t, StartX: v[0], StartY: v[1], EndX: v[2], EndY: v[3]}, nil
	})
}

func parseMoveX(_ *parser, n *tree.Node) ([]Command, error) {
	return parseAnimated(n, KindMoveX, 1, func(pos Pos, t Timing, g []string) (SimpleCommand, error) {
		v, err := parseFloats(g, pos.Line)
		if err != nil {
			return nil, err
		}
		return MoveX{Pos: pos, Timing: t, StartX: v[0], EndX: v[1]}, nil
	})
}

func parseMoveY(_ *parser, n *tree.Node) ([]Command, error) {
	return parseAnimated(n, KindMoveY, 1, func(pos Pos, t Timing, g []string) (SimpleCommand, error) {
		v, err := parseFloats(g, pos.Line)
		if err != nil {
			return nil, err
		}
		return MoveY{Pos: pos, Timing: t, StartY: v[0], EndY: v[1]}, nil
	})
}

func parseScale(_ *parser, n *tree.Node) ([]Command, error) {
	return parseAnimated(n, KindScale, 1, func(pos Pos, t Timing, g []string) (SimpleCommand, error) {
		v, err := parseFloats(g, pos.Line)
		if err != nil {
			return nil, err
		}
		return Scale{Pos: pos, Timing: t, StartScale: v[0], EndScale: v[1]}, nil
	})
}

func parseVectorScale(_ *parser, n *tree.Node) ([]Command, error) {
	return parseAnimated(n, KindVectorScale, 2, func(pos Pos, t Timing, g []string) (SimpleCommand, error) {
		v, err := parseFloats(g, pos.Line)
		if err != nil {
			return nil, err
		}
		return VectorScale{Pos: pos, Timing: t, StartX: v[0], StartY: v[1], EndX: v[2], EndY: v[3]}, nil
	})
}

func parseRotate(_ *parser, n *tree.Node) ([]Command, error) {
	return parseAnimated(n, KindRotate, 1, func(pos Pos, t Timing, g []string) (SimpleCommand, error) {
		v, err := parseFloats(g, pos.Line)
		if err != nil {
			return nil, err
		}
		return Rotate{Pos: pos, Timing: t, StartAngle: v[0], EndAngle: v[1]}, nil
	})
}

func parseColour(_ *parser, n *tree.Node) ([]Command, error) {
	return parseAnimated(n, KindColour, 3, func(pos Pos, t Timing, g []string) (SimpleCommand, error) {
		var c [6]int
		for i, s := range g {
			v, err := parseInt(s, "colour channel", pos.Line)
			if err != nil {
				return nil, err
			}
			if v < 0 || v > 255 {
				return nil, errorf(pos.Line, ErrInvalidArgument, "colour channel %d out of range 0-255", v)
			}
			c[i] = v
		}
		return Colour{Pos: pos, Timing: t, R1: c[0], G1: c[1], B1: c[2], R2: c[3], G2: c[4], B2: c[5]}, nil
	})
}

func parseParameter(_ *parser, n *tree.Node) ([]Command, error) {
	if err := noChildren(n, KindParameter); err != nil {
		return nil, err
	}

	a := args(n)
	if len(a) != 4 {
		return nil, errorf(n.Line, ErrWrongArgumentCount,
			"wrong argument count for %q: expected 4, found %d", KindParameter.Tag(), len(a))
	}

	timing, err := parseTiming(a[0], a[1], a[2], n.Line)
	if err != nil {
		return nil, err
	}
	param, err := lookupEnum(paramNames, strings.TrimSpace(a[3]), "Parameter", n.Line)
	if err != nil {
		return nil, err
	}
	return []Command{Parameter{Pos: Pos{Line: n.Line}, Timing: timing, Param: Param(param)}}, nil
}

func parseLoop(p *parser, n *tree.Node) ([]Command, error) {
	a := args(n)
	if len(a) != 2 {
		return nil, errorf(n.Line, ErrWrongArgumentCount,
			"wrong argument count for %q: expected 2, found %d", KindLoop.Tag(), len(a))
	}

	start, err := parseInt(a[0], "loop start time", n.Line)
	if err != nil {
		return nil, err
	}
	count, err := parseInt(a[1], "loop count", n.Line)
	if err != nil {
		return nil, err
	}
	if limit := p.opts.maxLoopCount(); count < 1 || count > limit {
		return nil, errorf(n.Line, ErrInvalidArgument, "loop count %d out of range 1-%d", count, limit)
	}

	children, err := p.parseCommands(n.Children)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if !child.Kind().Simple() {
			p.warn(child.SourceLine(), "nested loop may not be displayed correctly in osu!")
		}
	}

	loop := Loop{Pos: Pos{Line: n.Line}, StartTime: start, LoopCount: count, Children: children}
	if limit := p.opts.maxExpandedCommands(); expandedSize([]Command{loop}, limit) > limit {
		return nil, errorf(n.Line, ErrInvalidArgument, "loop expands to more than %d commands", limit)
	}
	return []Command{loop}, nil
}

func parseTriggerLoop(p *parser, n *tree.Node) ([]Command, error) {
	a := args(n)
	if len(a) != 3 {
		return nil, errorf(n.Line, ErrWrongArgumentCount,
			"wrong argument count for %q: expected 3, found %d", KindTrigger.Tag(), len(a))
	}

	trigger, err := lookupEnum(triggerNames, strings.TrimSpace(a[0]), "Trigger", n.Line)
	if err != nil {
		return nil, err
	}
	start, err := parseInt(a[1], "trigger start time", n.Line)
	if err != nil {
		return nil, err
	}
	end, err := parseInt(a[2], "trigger end time", n.Line)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, errorf(n.Line, ErrInvalidArgument, "end time %d is before start time %d", end, start)
	}

	children, err := p.parseCommands(n.Children)
	if err != nil {
		return nil, err
	}

	return []Command{TriggerLoop{
		Pos:      Pos{Line: n.Line},
		Trigger:  Trigger(trigger),
		Start:    start,
		End:      end,
		Children: children,
	}}, nil
}
