// Package easing implements the tweening curves used by storyboard commands.
//
// The formulas and endpoint correction constants match the osu!framework
// definitions so that interpolated values agree with the game's playback.
package easing

import (
	"fmt"
	"math"
)

// Kind identifies an easing curve by its storyboard value.
type Kind int

const (
	Linear Kind = iota
	Out
	In
	QuadIn
	QuadOut
	QuadInOut
	CubicIn
	CubicOut
	CubicInOut
	QuartIn
	QuartOut
	QuartInOut
	QuintIn
	QuintOut
	QuintInOut
	SineIn
	SineOut
	SineInOut
	ExpoIn
	ExpoOut
	ExpoInOut
	CircIn
	CircOut
	CircInOut
	ElasticIn
	ElasticOut
	ElasticHalfOut
	ElasticQuarterOut
	ElasticInOut
	BackIn
	BackOut
	BackInOut
	BounceIn
	BounceOut
	BounceInOut

	count
)

var names = [count]string{
	"Linear", "EasingOut", "EasingIn",
	"QuadIn", "QuadOut", "QuadInOut",
	"CubicIn", "CubicOut", "CubicInOut",
	"QuartIn", "QuartOut", "QuartInOut",
	"QuintIn", "QuintOut", "QuintInOut",
	"SineIn", "SineOut", "SineInOut",
	"ExpoIn", "ExpoOut", "ExpoInOut",
	"CircIn", "CircOut", "CircInOut",
	"ElasticIn", "ElasticOut", "ElasticHalfOut", "ElasticQuarterOut", "ElasticInOut",
	"BackIn", "BackOut", "BackInOut",
	"BounceIn", "BounceOut", "BounceInOut",
}

// Count is the number of defined curves.
const Count = int(count)

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Easing(%d)", int(k))
	}
	return names[k]
}

// Valid reports whether k names a defined curve.
func (k Kind) Valid() bool {
	return k >= 0 && k < count
}

// FromValue converts a storyboard easing number.
func FromValue(v int) (Kind, bool) {
	k := Kind(v)
	return k, k.Valid()
}

// Kinds returns every curve in value order.
func Kinds() []Kind {
	out := make([]Kind, count)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

const (
	elasticConst  = 2 * math.Pi / .3
	elasticConst2 = .3 / 4
	backConst     = 1.70158
	backConst2    = backConst * 1.525
	bounceConst   = 1 / 2.75
)

// Offsets pulling the expo and elastic curves through 0 and 1 exactly.
var (
	expoOffset           = math.Pow(2, -10)
	elasticOffsetFull    = math.Pow(2, -11)
	elasticOffsetHalf    = math.Pow(2, -10) * math.Sin((.5-elasticConst2)*elasticConst)
	elasticOffsetQuarter = math.Pow(2, -10) * math.Sin((.25-elasticConst2)*elasticConst)
	inOutElasticOffset   = math.Pow(2, -10) * math.Sin((1-elasticConst2*1.5)*elasticConst/1.5)
)

// Func returns the curve for k. Unknown kinds fall back to Linear.
func Func(k Kind) func(float64) float64 {
	return func(t float64) float64 { return Apply(k, t) }
}

// Apply evaluates curve k at normalized time t.
func Apply(k Kind, t float64) float64 {
	switch k {
	case In, QuadIn:
		return t * t
	case Out, QuadOut:
		return t * (2 - t)
	case QuadInOut:
		if t < .5 {
			return t * t * 2
		}
		t--
		return t*t*-2 + 1

	case CubicIn:
		return t * t * t
	case CubicOut:
		t--
		return t*t*t + 1
	case CubicInOut:
		if t < .5 {
			return t * t * t * 4
		}
		t--
		return t*t*t*4 + 1

	case QuartIn:
		return t * t * t * t
	case QuartOut:
		t--
		return 1 - t*t*t*t
	case QuartInOut:
		if t < .5 {
			return t * t * t * t * 8
		}
		t--
		return t*t*t*t*-8 + 1

	case QuintIn:
		return t * t * t * t * t
	case QuintOut:
		t--
		return t*t*t*t*t + 1
	case QuintInOut:
		if t < .5 {
			return t * t * t * t * t * 16
		}
		t--
		return t*t*t*t*t*16 + 1

	case SineIn:
		return 1 - math.Cos(t*math.Pi*.5)
	case SineOut:
		return math.Sin(t * math.Pi * .5)
	case SineInOut:
		return .5 - .5*math.Cos(math.Pi*t)

	case ExpoIn:
		return math.Pow(2, 10*(t-1)) + expoOffset*(t-1)
	case ExpoOut:
		return -math.Pow(2, -10*t) + 1 + expoOffset*t
	case ExpoInOut:
		if t < .5 {
			return .5 * (math.Pow(2, 20*t-10) + expoOffset*(2*t-1))
		}
		return 1 - .5*(math.Pow(2, -20*t+10)+expoOffset*(-2*t+1))

	case CircIn:
		return 1 - math.Sqrt(1-t*t)
	case CircOut:
		t--
		return math.Sqrt(1 - t*t)
	case CircInOut:
		t *= 2
		if t < 1 {
			return .5 - .5*math.Sqrt(1-t*t)
		}
		t -= 2
		return .5 + .5*math.Sqrt(1-t*t)

	case ElasticIn:
		return -math.Pow(2, -10+10*t)*math.Sin((1-elasticConst2-t)*elasticConst) + elasticOffsetFull*(1-t)
	case ElasticOut:
		return math.Pow(2, -10*t)*math.Sin((t-elasticConst2)*elasticConst) + 1 - elasticOffsetFull*t
	case ElasticHalfOut:
		return math.Pow(2, -10*t)*math.Sin((.5*t-elasticConst2)*elasticConst) + 1 - elasticOffsetHalf*t
	case ElasticQuarterOut:
		return math.Pow(2, -10*t)*math.Sin((.25*t-elasticConst2)*elasticConst) + 1 - elasticOffsetQuarter*t
	case ElasticInOut:
		t *= 2
		if t < 1 {
			return -.5 * (math.Pow(2, -10+10*t)*math.Sin((1-elasticConst2*1.5-t)*elasticConst/1.5) - inOutElasticOffset*(1-t))
		}
		t--
		return .5*(math.Pow(2, -10*t)*math.Sin((t-elasticConst2*1.5)*elasticConst/1.5)-inOutElasticOffset*t) + 1

	case BackIn:
		return t * t * ((backConst+1)*t - backConst)
	case BackOut:
		t--
		return t*t*((backConst+1)*t+backConst) + 1
	case BackInOut:
		t *= 2
		if t < 1 {
			return .5 * t * t * ((backConst2+1)*t - backConst2)
		}
		t -= 2
		return .5 * (t*t*((backConst2+1)*t+backConst2) + 2)

	case BounceIn:
		return 1 - bounceOut(1-t)
	case BounceOut:
		return bounceOut(t)
	case BounceInOut:
		if t < .5 {
			return .5 - .5*bounceOut(1-t*2)
		}
		return bounceOut((t-.5)*2)*.5 + .5
	}

	return t
}

func bounceOut(t float64) float64 {
	switch {
	case t < bounceConst:
		return 7.5625 * t * t
	case t < 2*bounceConst:
		t -= 1.5 * bounceConst
		return 7.5625*t*t + .75
	case t < 2.5*bounceConst:
		t -= 2.25 * bounceConst
		return 7.5625*t*t + .9375
	default:
		t -= 2.625 * bounceConst
		return 7.5625*t*t + .984375
	}
}
