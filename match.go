package inkframe

import (
	"fmt"

	"github.com/wbrown/inkframe/imageutil"
)

// MatchStrategy selects how a pixel is mapped to a palette entry.
type MatchStrategy int

const (
	// MatchLabBlueOverride is MatchLab plus a heuristic for saturated
	// blues: an input with r < 50, g < 150 and b > 100 maps straight to
	// an exact (0, 0, 255) palette entry when there is one. Lab distance
	// tends to pull such blues toward dark or muted pigments.
	MatchLabBlueOverride MatchStrategy = iota

	// MatchLab picks the entry with the smallest Euclidean distance in
	// CIE L*a*b*. The first entry wins a tie.
	MatchLab
)

func (s MatchStrategy) String() string {
	switch s {
	case MatchLab:
		return "lab"
	case MatchLabBlueOverride:
		return "lab-blue"
	}
	return fmt.Sprintf("MatchStrategy(%d)", int(s))
}

// ParseMatchStrategy maps "lab" and "lab-blue" to their strategy.
func ParseMatchStrategy(s string) (MatchStrategy, error) {
	switch s {
	case "lab":
		return MatchLab, nil
	case "lab-blue":
		return MatchLabBlueOverride, nil
	}
	return 0, fmt.Errorf("match strategy %q: %w", s, ErrUnknownMatchStrategy)
}

var pureBlue = imageutil.RGB{B: 255}

// Matcher finds the nearest palette color. The palette's Lab values are
// computed once when the Matcher is built.
type Matcher struct {
	colors   []imageutil.RGB
	lab      []Lab
	strategy MatchStrategy
	blue     int // index of exact pure blue, -1 if absent
}

// NewMatcher prepares palette for matching with strategy.
func NewMatcher(palette Palette, strategy MatchStrategy) (*Matcher, error) {
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	if strategy != MatchLab && strategy != MatchLabBlueOverride {
		return nil, fmt.Errorf("%v: %w", strategy, ErrUnknownMatchStrategy)
	}
	m := &Matcher{
		colors:   palette.Clone().Colors,
		lab:      make([]Lab, len(palette.Colors)),
		strategy: strategy,
		blue:     -1,
	}
	for i, c := range m.colors {
		m.lab[i] = LabFromRGB(float64(c.R), float64(c.G), float64(c.B))
		if m.blue < 0 && c == pureBlue {
			m.blue = i
		}
	}
	return m, nil
}

// Nearest returns the index of the palette entry closest to (r, g, b),
// given on the 0-255 scale.
func (m *Matcher) Nearest(r, g, b float64) int {
	if m.strategy == MatchLabBlueOverride && m.blue >= 0 && isSaturatedBlue(r, g, b) {
		return m.blue
	}
	target := LabFromRGB(r, g, b)
	best := 0
	bestDist := target.DistanceSquared(m.lab[0])
	for i := 1; i < len(m.lab); i++ {
		if d := target.DistanceSquared(m.lab[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Match returns the palette color closest to (r, g, b).
func (m *Matcher) Match(r, g, b float64) imageutil.RGB {
	return m.colors[m.Nearest(r, g, b)]
}

func isSaturatedBlue(r, g, b float64) bool {
	return r < 50 && g < 150 && b > 100
}
