package imageutil

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestContrastFactor(t *testing.T) {
	t.Parallel()
	if f := ContrastFactor(1); math.Abs(f-1) > 1e-12 {
		t.Errorf("ContrastFactor(1) = %v, want 1", f)
	}
	if f := ContrastFactor(1.2); f <= 1 {
		t.Errorf("ContrastFactor(1.2) = %v, want > 1", f)
	}
	if f := ContrastFactor(0.8); f >= 1 || f <= 0 {
		t.Errorf("ContrastFactor(0.8) = %v, want in (0, 1)", f)
	}
	if f := ContrastFactor(0); math.Abs(f) > 1e-12 {
		t.Errorf("ContrastFactor(0) = %v, want 0", f)
	}
}

func TestContrastChannel(t *testing.T) {
	t.Parallel()
	f := ContrastFactor(1.5)
	if got := ContrastChannel(128, f); got != 128 {
		t.Errorf("Mid-gray should be a fixed point, got %v", got)
	}
	if got := ContrastChannel(0, f); got != 0 {
		t.Errorf("Expected clamp to 0, got %v", got)
	}
	if got := ContrastChannel(255, f); got != 255 {
		t.Errorf("Expected clamp to 255, got %v", got)
	}
	if got := ContrastChannel(140, f); got <= 140 {
		t.Errorf("Expected 140 pushed away from mid-gray, got %v", got)
	}
}

func TestAdjustContrast(t *testing.T) {
	t.Parallel()
	src := CreateGradientImage(32, 2)
	src.SetRGBA(0, 0, color.RGBA{R: 10, G: 10, B: 10, A: 77})

	same := AdjustContrast(src, 1)
	if d := CalculateMaxDiff(src, same); d != 0 {
		t.Errorf("Contrast 1 should be identity, diff %d", d)
	}

	flat := AdjustContrast(src, 0)
	for y := 0; y < flat.Height(); y++ {
		for x := 0; x < flat.Width(); x++ {
			if c := flat.GetRGB(x, y); c != (RGB{128, 128, 128}) {
				t.Fatalf("Contrast 0 should flatten to mid-gray, got %v at (%d,%d)", c, x, y)
			}
		}
	}
	if a := flat.RGBAAt(0, 0).A; a != 77 {
		t.Errorf("Alpha should be untouched, got %d", a)
	}
	if src.GetRGB(31, 1) != (RGB{255, 255, 255}) {
		t.Error("AdjustContrast must not modify its input")
	}
}

func TestResizeNoOpAndInvalid(t *testing.T) {
	t.Parallel()
	src := CreateColorBarsImage(8, 8)
	for _, interp := range []Interpolation{
		InterpolationAuto, InterpolationLanczos, InterpolationCatmullRom,
		InterpolationLinear, InterpolationNearest,
	} {
		out, err := Resize(src, 8, 8, interp)
		if err != nil {
			t.Fatalf("%v: %v", interp, err)
		}
		if d := CalculateMaxDiff(src, out); d != 0 {
			t.Errorf("%v: same-size resize changed pixels by %d", interp, d)
		}
		out, err = Resize(src, 5, 3, interp)
		if err != nil {
			t.Fatalf("%v: %v", interp, err)
		}
		if out.Width() != 5 || out.Height() != 3 {
			t.Errorf("%v: expected 5x3, got %dx%d", interp, out.Width(), out.Height())
		}
	}
	if _, err := Resize(src, 0, 3, InterpolationAuto); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions, got %v", err)
	}
}

func TestChooseInterpolation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		srcW, srcH, dstW, dstH int
		want                   Interpolation
	}{
		{1000, 1000, 500, 500, InterpolationLanczos},
		{1000, 1000, 899, 1000, InterpolationLanczos},
		{1000, 1000, 900, 900, InterpolationCatmullRom},
		{100, 100, 400, 400, InterpolationCatmullRom},
		{1000, 100, 1000, 50, InterpolationLanczos},
	}
	for _, tt := range tests {
		got := chooseInterpolation(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
		if got != tt.want {
			t.Errorf("%dx%d -> %dx%d: expected %v, got %v", tt.srcW, tt.srcH, tt.dstW, tt.dstH, tt.want, got)
		}
	}
}
