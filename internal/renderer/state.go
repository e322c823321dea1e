package renderer

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/ivlev/storyboard/internal/storyboard"
)

// State is the full visual state of an object at one moment, in playfield
// coordinates (640x480, y pointing down).
type State struct {
	Time float64 // milliseconds

	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64 // radians, clockwise
	Opacity        float64
	R, G, B        float64 // 0-255

	FlipH, FlipV, Additive bool

	Frame  int
	Origin storyboard.Origin
}

// Visible reports whether anything would be drawn.
func (s State) Visible() bool {
	return s.Opacity > 0 && s.ScaleX != 0 && s.ScaleY != 0
}

// Transform returns the affine matrix mapping pixel coordinates of a w x h
// image onto the playfield: the origin anchor lands on (X, Y), the image is
// flipped and scaled about it, then rotated.
func (s State) Transform(w, h float64) f64.Aff3 {
	fx, fy := s.Origin.Anchor()
	ax, ay := fx*w, fy*h

	sx, sy := s.ScaleX, s.ScaleY
	if s.FlipH {
		sx = -sx
	}
	if s.FlipV {
		sy = -sy
	}

	sin, cos := math.Sincos(s.Rotation)
	a, b := cos*sx, -sin*sy
	d, e := sin*sx, cos*sy

	return f64.Aff3{
		a, b, s.X - a*ax - b*ay,
		d, e, s.Y - d*ax - e*ay,
	}
}

// Apply maps (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func (s State) String() string {
	return fmt.Sprintf("t=%.0f pos=(%.2f, %.2f) scale=(%.3f, %.3f) rot=%.3f opacity=%.3f colour=(%.0f, %.0f, %.0f) frame=%d",
		s.Time, s.X, s.Y, s.ScaleX, s.ScaleY, s.Rotation, s.Opacity, s.R, s.G, s.B, s.Frame)
}
