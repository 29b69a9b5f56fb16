package inkframe

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/makeworld-the-better-one/dither/v2"
)

func TestBuiltinKernels(t *testing.T) {
	t.Parallel()
	want := []string{"floyd-steinberg", "atkinson", "stucki", "jarvis-judice-ninke"}
	if got := Kernels.Names(); !slices.Equal(got, want) {
		t.Fatalf("Expected kernels %v, got %v", want, got)
	}

	tests := []struct {
		name    string
		taps    int
		sum     int
		divisor int
	}{
		{"floyd-steinberg", 4, 16, 16},
		{"atkinson", 6, 6, 8},
		{"stucki", 12, 42, 42},
		{"jarvis-judice-ninke", 12, 48, 48},
	}
	for _, tt := range tests {
		k, err := Kernels.Lookup(tt.name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.name, err)
		}
		if len(k.Taps) != tt.taps {
			t.Errorf("%s: expected %d taps, got %d", tt.name, tt.taps, len(k.Taps))
		}
		if k.WeightSum() != tt.sum || k.Divisor != tt.divisor {
			t.Errorf("%s: expected %d/%d, got %d/%d", tt.name, tt.sum, tt.divisor, k.WeightSum(), k.Divisor)
		}
		if err := k.Validate(); err != nil {
			t.Errorf("%s: %v", tt.name, err)
		}
	}
}

func TestKernelValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		k    Kernel
	}{
		{"zero divisor", Kernel{Taps: []Tap{{1, 0, 1}}}},
		{"no taps", Kernel{Divisor: 1}},
		{"self", Kernel{Taps: []Tap{{0, 0, 1}}, Divisor: 1}},
		{"left", Kernel{Taps: []Tap{{-1, 0, 1}}, Divisor: 1}},
		{"above", Kernel{Taps: []Tap{{1, -1, 1}}, Divisor: 1}},
	}
	for _, tt := range tests {
		if err := tt.k.Validate(); !errors.Is(err, ErrInvalidKernel) {
			t.Errorf("%s: expected ErrInvalidKernel, got %v", tt.name, err)
		}
	}
	ok := Kernel{Name: "down-left", Taps: []Tap{{-2, 1, 1}}, Divisor: 2}
	if err := ok.Validate(); err != nil {
		t.Errorf("Expected a causal kernel to validate, got %v", err)
	}
}

func TestKernelLookup(t *testing.T) {
	t.Parallel()
	if _, err := Kernels.Lookup("sierra"); !errors.Is(err, ErrUnknownKernel) {
		t.Errorf("Expected ErrUnknownKernel, got %v", err)
	}
	k, _ := Kernels.Lookup("floyd-steinberg")
	k.Taps[0].Weight = 100
	again, _ := Kernels.Lookup("floyd-steinberg")
	if again.Taps[0].Weight != 7 {
		t.Errorf("Registry kernel was modified through a lookup: %v", again.Taps)
	}
	bad := Kernel{Name: "bad", Taps: []Tap{{0, 0, 1}}, Divisor: 1}
	if _, err := NewKernelRegistry(bad); !errors.Is(err, ErrInvalidKernel) {
		t.Errorf("Expected ErrInvalidKernel, got %v", err)
	}
}

func TestKernelsMatchDitherMatrices(t *testing.T) {
	t.Parallel()
	matrices := map[string]dither.ErrorDiffusionMatrix{
		"floyd-steinberg":     dither.FloydSteinberg,
		"atkinson":            dither.Atkinson,
		"stucki":              dither.Stucki,
		"jarvis-judice-ninke": dither.JarvisJudiceNinke,
	}
	for name, m := range matrices {
		k, err := Kernels.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		type offset struct{ dx, dy int }
		fractions := make(map[offset]float32)
		cur := m.CurrentPixel()
		for dy, row := range m {
			for i, v := range row {
				if v != 0 {
					fractions[offset{i - cur, dy}] = v
				}
			}
		}
		if len(fractions) != len(k.Taps) {
			t.Errorf("%s: expected %d taps, got %d", name, len(fractions), len(k.Taps))
		}
		for _, tap := range k.Taps {
			want, ok := fractions[offset{tap.DX, tap.DY}]
			if !ok {
				t.Errorf("%s: tap (%d,%d) not in matrix", name, tap.DX, tap.DY)
				continue
			}
			got := float32(tap.Weight) / float32(k.Divisor)
			if math.Abs(float64(got-want)) > 1e-6 {
				t.Errorf("%s: tap (%d,%d) expected %v, got %v", name, tap.DX, tap.DY, want, got)
			}
		}
	}
}
