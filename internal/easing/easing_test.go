package easing

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestEndpoints(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			if got := Apply(k, 0); math.Abs(got) > tolerance {
				t.Errorf("f(0) = %.12f, want 0", got)
			}
			if got := Apply(k, 1); math.Abs(got-1) > tolerance {
				t.Errorf("f(1) = %.12f, want 1", got)
			}
		})
	}
}

func TestKindsCount(t *testing.T) {
	if len(Kinds()) != 35 {
		t.Fatalf("Expected 35 easing kinds, got %d", len(Kinds()))
	}
	if BounceInOut != 34 {
		t.Errorf("Expected BounceInOut to have value 34, got %d", BounceInOut)
	}
}

func TestKnownValues(t *testing.T) {
	tests := []struct {
		kind Kind
		t    float64
		want float64
	}{
		{Linear, 0.25, 0.25},
		{In, 0.5, 0.25},
		{Out, 0.5, 0.75},
		{QuadInOut, 0.25, 0.125},
		{QuadInOut, 0.75, 0.875},
		{CubicIn, 0.5, 0.125},
		{CubicOut, 0.5, 0.875},
		{QuartIn, 0.5, 0.0625},
		{QuintIn, 0.5, 0.03125},
		{SineInOut, 0.5, 0.5},
		{CircInOut, 0.5, 0.5},
		{BounceInOut, 0.5, 0.5},
		{ExpoInOut, 0.5, 0.5},

		// Interior points of the offset-corrected curves
		{ExpoIn, 0.5, 0.03076171875},
		{ExpoOut, 0.5, 0.96923828125},
		{ElasticIn, 0.5, -0.015380859375},
		{ElasticOut, 0.5, 1.015380859375},
		{ElasticHalfOut, 0.5, 0.984130859375},
		{ElasticQuarterOut, 0.5, 1.02730743449326},
		{ElasticInOut, 0.25, 0.0119270498491083},
		{ElasticInOut, 0.75, 0.988072950150892},
		{BackIn, 0.5, -0.0876975},
		{BackOut, 0.5, 1.0876975},
		{BackInOut, 0.25, -0.09968184375},
		{BackInOut, 0.75, 1.09968184375},
	}

	for _, tt := range tests {
		got := Apply(tt.kind, tt.t)
		if math.Abs(got-tt.want) > tolerance {
			t.Errorf("%s(%.2f) = %.12f, want %.12f", tt.kind, tt.t, got, tt.want)
		}
	}
}

func TestOvershoot(t *testing.T) {
	if got := Apply(BackIn, 0.2); got >= 0 {
		t.Errorf("BackIn should dip below 0 early, got %f", got)
	}
	if got := Apply(BackOut, 0.8); got <= 1 {
		t.Errorf("BackOut should overshoot 1 late, got %f", got)
	}
	if got := Apply(ElasticOut, 0.1); got <= 1 {
		t.Errorf("ElasticOut should overshoot 1, got %f", got)
	}
}

func TestBounceSymmetry(t *testing.T) {
	for _, x := range []float64{0.1, 0.3, 0.45, 0.7, 0.95} {
		in := Apply(BounceIn, x)
		out := Apply(BounceOut, 1-x)
		if math.Abs(in-(1-out)) > tolerance {
			t.Errorf("BounceIn(%.2f)=%f is not the mirror of BounceOut(%.2f)=%f", x, in, 1-x, out)
		}
	}
}

func TestFromValue(t *testing.T) {
	if k, ok := FromValue(18); !ok || k != ExpoIn {
		t.Errorf("FromValue(18) = %v, %v", k, ok)
	}
	for _, v := range []int{-1, 35, 100} {
		if _, ok := FromValue(v); ok {
			t.Errorf("FromValue(%d) should be invalid", v)
		}
	}
	if Kind(40).String() != "Easing(40)" {
		t.Errorf("Unexpected name for invalid kind: %s", Kind(40))
	}
}

func TestFuncMatchesApply(t *testing.T) {
	f := Func(ElasticInOut)
	for _, x := range []float64{0, 0.2, 0.5, 0.8, 1} {
		if f(x) != Apply(ElasticInOut, x) {
			t.Errorf("Func and Apply disagree at %.2f", x)
		}
	}
}
