package storyboard

import (
	"fmt"
	"strings"
)

type Layer int

const (
	LayerBackground Layer = iota
	LayerFail
	LayerPass
	LayerForeground
)

var layerNames = []string{"Background", "Fail", "Pass", "Foreground"}

func (l Layer) String() string { return enumName(layerNames, int(l), "Layer") }

type Origin int

const (
	OriginTopLeft Origin = iota
	OriginTopCentre
	OriginTopRight
	OriginCentreLeft
	OriginCentre
	OriginCentreRight
	OriginBottomLeft
	OriginBottomCentre
	OriginBottomRight
)

var originNames = []string{
	"TopLeft", "TopCentre", "TopRight",
	"CentreLeft", "Centre", "CentreRight",
	"BottomLeft", "BottomCentre", "BottomRight",
}

func (o Origin) String() string { return enumName(originNames, int(o), "Origin") }

// Anchor returns the origin as a fraction of the image size, (0,0) being the
// top-left corner and (1,1) the bottom-right one.
func (o Origin) Anchor() (fx, fy float64) {
	if o < OriginTopLeft || o > OriginBottomRight {
		return 0.5, 0.5
	}
	col, row := int(o)%3, int(o)/3
	return float64(col) / 2, float64(row) / 2
}

type LoopType int

const (
	LoopForever LoopType = iota
	LoopOnce
)

var loopTypeNames = []string{"LoopForever", "LoopOnce"}

func (l LoopType) String() string { return enumName(loopTypeNames, int(l), "LoopType") }

// Param is the flag toggled by a P command.
type Param int

const (
	ParamFlipH Param = iota
	ParamFlipV
	ParamAdditive
)

var paramNames = []string{"H", "V", "A"}

func (p Param) String() string { return enumName(paramNames, int(p), "Parameter") }

// Trigger is the gameplay event that starts a T loop.
type Trigger int

const (
	TriggerHitSoundClap Trigger = iota
	TriggerHitSoundFinish
	TriggerHitSoundWhistle
	TriggerPassing
	TriggerFailing
)

var triggerNames = []string{"HitSoundClap", "HitSoundFinish", "HitSoundWhistle", "Passing", "Failing"}

func (t Trigger) String() string { return enumName(triggerNames, int(t), "Trigger") }

func enumName(names []string, v int, typ string) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%s(%d)", typ, v)
	}
	return names[v]
}

// lookupEnum resolves name against names and reports an ErrInvalidEnum
// listing the valid alternatives when it does not match.
func lookupEnum(names []string, name, typ string, line int) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, errorf(line, ErrInvalidEnum, "invalid %s %q, use one of [%s]",
		typ, name, strings.Join(names, ", "))
}
