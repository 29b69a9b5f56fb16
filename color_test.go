package inkframe

import (
	"math"
	"testing"
)

func TestLabFromRGB(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		r, g, b float64
		want    Lab
	}{
		{"black", 0, 0, 0, Lab{0, 0, 0}},
		{"white", 255, 255, 255, Lab{100, 0, 0}},
		{"red", 255, 0, 0, Lab{53.24, 80.09, 67.20}},
		{"blue", 0, 0, 255, Lab{32.30, 79.19, -107.86}},
	}
	for _, tt := range tests {
		got := LabFromRGB(tt.r, tt.g, tt.b)
		if math.Abs(got.L-tt.want.L) > 0.1 || math.Abs(got.A-tt.want.A) > 0.1 || math.Abs(got.B-tt.want.B) > 0.1 {
			t.Errorf("%s: expected %+v, got %+v", tt.name, tt.want, got)
		}
	}
}

func TestLabDistance(t *testing.T) {
	t.Parallel()
	a := Lab{50, 10, -10}
	b := Lab{53, 14, -10}
	if got := a.DistanceSquared(b); got != 25 {
		t.Errorf("Expected squared distance 25, got %v", got)
	}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Expected distance 5, got %v", got)
	}
	if got := a.Distance(a); got != 0 {
		t.Errorf("Expected zero self distance, got %v", got)
	}
}
