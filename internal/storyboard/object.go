package storyboard

import (
	"path"
	"strconv"
	"strings"

	"github.com/ivlev/storyboard/internal/fields"
	"github.com/ivlev/storyboard/internal/tree"
)

type ObjectType int

const (
	ObjectSprite ObjectType = iota
	ObjectAnimation
)

func (t ObjectType) String() string {
	switch t {
	case ObjectSprite:
		return "Sprite"
	case ObjectAnimation:
		return "Animation"
	}
	return "ObjectType(" + strconv.Itoa(int(t)) + ")"
}

// AnimationInfo holds the extra fields of an Animation object.
type AnimationInfo struct {
	FrameCount int
	FrameDelay float64 // milliseconds per frame
	LoopType   LoopType
}

// Object is a Sprite or an Animation together with its command tree.
type Object struct {
	Line      int
	Type      ObjectType
	Layer     Layer
	Origin    Origin
	ImagePath string
	X, Y      float64
	Commands  []Command

	// Animation is nil for sprites.
	Animation *AnimationInfo
}

// FramePath returns the image file of the given animation frame: the frame
// index goes right before the extension ("sb/fx.png" -> "sb/fx3.png").
// Sprites always return ImagePath.
func (o *Object) FramePath(frame int) string {
	if o.Animation == nil {
		return o.ImagePath
	}
	ext := path.Ext(o.ImagePath)
	return strings.TrimSuffix(o.ImagePath, ext) + strconv.Itoa(frame) + ext
}

type objectParser func(p *parser, n *tree.Node) (*Object, error)

var objectParsers map[string]objectParser

func init() {
	objectParsers = map[string]objectParser{
		"Sprite":    parseSprite,
		"Animation": parseAnimation,
	}
}

func (p *parser) parseObject(n *tree.Node) (*Object, error) {
	name := fields.First(n.Text)
	parse, ok := objectParsers[name]
	if !ok {
		return nil, errorf(n.Line, ErrInvalidObjectType, "invalid object type %q", name)
	}
	return parse(p, n)
}

// parseBase reads layer, origin, path, x and y, the fields shared by every
// object type.
func (p *parser) parseBase(n *tree.Node, a []string, typ ObjectType) (*Object, error) {
	layer, err := lookupEnum(layerNames, strings.TrimSpace(a[0]), "Layer", n.Line)
	if err != nil {
		return nil, err
	}
	origin, err := lookupEnum(originNames, strings.TrimSpace(a[1]), "Origin", n.Line)
	if err != nil {
		return nil, err
	}
	x, err := parseFloat(a[3], "x", n.Line)
	if err != nil {
		return nil, err
	}
	y, err := parseFloat(a[4], "y", n.Line)
	if err != nil {
		return nil, err
	}

	commands, err := p.parseCommands(n.Children)
	if err != nil {
		return nil, err
	}
	if limit := p.opts.maxExpandedCommands(); expandedSize(commands, limit) > limit {
		return nil, errorf(n.Line, ErrInvalidArgument, "object expands to more than %d commands", limit)
	}

	return &Object{
		Line:      n.Line,
		Type:      typ,
		Layer:     Layer(layer),
		Origin:    Origin(origin),
		ImagePath: a[2],
		X:         x,
		Y:         y,
		Commands:  commands,
	}, nil
}

func parseSprite(p *parser, n *tree.Node) (*Object, error) {
	a := args(n)
	if len(a) != 5 {
		return nil, errorf(n.Line, ErrWrongArgumentCount,
			"wrong argument count for Sprite: expected 5, found %d", len(a))
	}
	return p.parseBase(n, a, ObjectSprite)
}

func parseAnimation(p *parser, n *tree.Node) (*Object, error) {
	a := args(n)
	if len(a) != 8 {
		return nil, errorf(n.Line, ErrWrongArgumentCount,
			"wrong argument count for Animation: expected 8, found %d", len(a))
	}

	frameCount, err := parseInt(a[5], "frame count", n.Line)
	if err != nil {
		return nil, err
	}
	if frameCount < 1 {
		return nil, errorf(n.Line, ErrInvalidArgument, "frame count %d must be at least 1", frameCount)
	}
	frameDelay, err := parseFloat(a[6], "frame delay", n.Line)
	if err != nil {
		return nil, err
	}
	if frameDelay < 0 {
		return nil, errorf(n.Line, ErrInvalidArgument, "frame delay %g must not be negative", frameDelay)
	}
	loopType, err := lookupEnum(loopTypeNames, strings.TrimSpace(a[7]), "LoopType", n.Line)
	if err != nil {
		return nil, err
	}

	obj, err := p.parseBase(n, a, ObjectAnimation)
	if err != nil {
		return nil, err
	}
	obj.Animation = &AnimationInfo{
		FrameCount: frameCount,
		FrameDelay: frameDelay,
		LoopType:   LoopType(loopType),
	}
	return obj, nil
}
