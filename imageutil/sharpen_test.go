package imageutil

import (
	"errors"
	"math"
	"testing"
)

func TestSharpenSolidUnchanged(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(16, 16, RGB{R: 120, G: 60, B: 200})
	out, err := Sharpen(img, 1.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 16 || out.Height() != 16 {
		t.Fatalf("Expected 16x16, got %dx%d", out.Width(), out.Height())
	}
	if d := CalculateMaxDiff(img, out); d > 1 {
		t.Errorf("Expected a flat image to stay flat, max diff %d", d)
	}
}

func TestSharpenIncreasesEdgeContrast(t *testing.T) {
	t.Parallel()
	img := NewRGBAImage(16, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(100)
			if x >= 8 {
				v = 160
			}
			img.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}
	out, err := Sharpen(img, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if dark, light := out.GetRGB(7, 2).R, out.GetRGB(8, 2).R; dark >= 100 || light <= 160 {
		t.Errorf("Expected overshoot at the edge, got %d and %d", dark, light)
	}
	if img.GetRGB(7, 2).R != 100 {
		t.Error("Sharpen modified its input")
	}
}

func TestSharpenParameters(t *testing.T) {
	t.Parallel()
	img := CreateGradientImage(8, 8)
	out, err := Sharpen(img, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if CalculateMaxDiff(img, out) != 0 {
		t.Error("Expected amount 0 to return an identical copy")
	}
	out.SetRGB(0, 0, RGB{R: 1})
	if img.GetRGB(0, 0) == (RGB{R: 1}) {
		t.Error("Expected a copy, not the input")
	}
	nan := math.NaN()
	for _, p := range [][2]float64{{0, 1}, {-1, 1}, {1, -0.5}, {nan, 1}, {1, nan}, {math.Inf(1), 1}} {
		if _, err := Sharpen(img, p[0], p[1]); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("Sharpen(%v, %v): expected ErrInvalidFilter, got %v", p[0], p[1], err)
		}
	}
}
