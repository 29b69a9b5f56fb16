package inkframe

import (
	"errors"
	"testing"

	"github.com/wbrown/inkframe/imageutil"
)

func TestMatcherExactColors(t *testing.T) {
	t.Parallel()
	for _, name := range Palettes.Names() {
		p, _ := Palettes.Lookup(name)
		for _, strategy := range []MatchStrategy{MatchLab, MatchLabBlueOverride} {
			m, err := NewMatcher(p, strategy)
			if err != nil {
				t.Fatal(err)
			}
			for i, c := range p.Colors {
				if got := m.Nearest(float64(c.R), float64(c.G), float64(c.B)); got != i {
					t.Errorf("%s/%v: color %v matched index %d, expected %d", name, strategy, c, got, i)
				}
			}
		}
	}
}

func TestMatcherTieGoesToFirst(t *testing.T) {
	t.Parallel()
	gray := imageutil.RGB{R: 128, G: 128, B: 128}
	p := Palette{Name: "dup", Colors: []imageutil.RGB{{}, gray, gray}}
	m, err := NewMatcher(p, MatchLab)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Nearest(130, 130, 130); got != 1 {
		t.Errorf("Expected the first of two equal entries (1), got %d", got)
	}
}

func TestMatcherBlueOverride(t *testing.T) {
	t.Parallel()
	spectra, _ := Palettes.Lookup("spectra6")
	lab, _ := NewMatcher(spectra, MatchLab)
	blue, _ := NewMatcher(spectra, MatchLabBlueOverride)

	// Dark teal and navy sit closer to white or black in Lab.
	tests := []struct {
		r, g, b float64
		labIdx  int
	}{
		{40, 140, 110, 1},
		{30, 100, 140, 0},
	}
	for _, tt := range tests {
		if got := lab.Nearest(tt.r, tt.g, tt.b); got != tt.labIdx {
			t.Errorf("Lab match of (%v,%v,%v): expected %d, got %d", tt.r, tt.g, tt.b, tt.labIdx, got)
		}
		if got := blue.Nearest(tt.r, tt.g, tt.b); got != 4 {
			t.Errorf("Blue override of (%v,%v,%v): expected 4, got %d", tt.r, tt.g, tt.b, got)
		}
	}

	// Outside the box the override is inert.
	for _, c := range [][3]float64{{50, 100, 200}, {20, 150, 200}, {20, 100, 100}} {
		if a, b := lab.Nearest(c[0], c[1], c[2]), blue.Nearest(c[0], c[1], c[2]); a != b {
			t.Errorf("(%v): strategies disagree outside the blue box: %d vs %d", c, a, b)
		}
	}
}

func TestMatcherBlueOverrideNeedsPureBlue(t *testing.T) {
	t.Parallel()
	p, _ := Palettes.Lookup("acep8-calibrated")
	lab, _ := NewMatcher(p, MatchLab)
	blue, _ := NewMatcher(p, MatchLabBlueOverride)
	for r := 0.0; r < 50; r += 7 {
		for g := 0.0; g < 150; g += 13 {
			for b := 101.0; b <= 255; b += 17 {
				if lab.Nearest(r, g, b) != blue.Nearest(r, g, b) {
					t.Fatalf("(%v,%v,%v): override fired without a pure blue entry", r, g, b)
				}
			}
		}
	}
}

func TestNewMatcherErrors(t *testing.T) {
	t.Parallel()
	if _, err := NewMatcher(Palette{Name: "empty"}, MatchLab); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("Expected ErrInvalidPalette, got %v", err)
	}
	bw, _ := Palettes.Lookup("bw")
	if _, err := NewMatcher(bw, MatchStrategy(7)); !errors.Is(err, ErrUnknownMatchStrategy) {
		t.Errorf("Expected ErrUnknownMatchStrategy, got %v", err)
	}
}

func TestParseMatchStrategy(t *testing.T) {
	t.Parallel()
	for _, s := range []MatchStrategy{MatchLab, MatchLabBlueOverride} {
		got, err := ParseMatchStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseMatchStrategy(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseMatchStrategy("rgb"); !errors.Is(err, ErrUnknownMatchStrategy) {
		t.Errorf("Expected ErrUnknownMatchStrategy, got %v", err)
	}
}

// These colors sit near a decision boundary, where the exact sRGB to XYZ
// coefficients decide the match.
func TestMatcherBoundaryColors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		palette string
		c       imageutil.RGB
		want    int
	}{
		{"spectra6", imageutil.RGB{R: 96, G: 42, B: 144}, 4},
		{"spectra6", imageutil.RGB{R: 75, G: 144, B: 15}, 5},
		{"bw", imageutil.RGB{R: 2, G: 134, B: 120}, 0},
	}
	for _, tt := range tests {
		p, _ := Palettes.Lookup(tt.palette)
		m, err := NewMatcher(p, MatchLab)
		if err != nil {
			t.Fatal(err)
		}
		if got := m.Nearest(float64(tt.c.R), float64(tt.c.G), float64(tt.c.B)); got != tt.want {
			t.Errorf("%s: %v matched index %d, expected %d", tt.palette, tt.c, got, tt.want)
		}
	}
}
