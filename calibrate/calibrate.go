// Package calibrate derives a measured palette from a photograph of a
// panel showing its color swatches.
package calibrate

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/soniakeys/quant/median"

	"github.com/wbrown/inkframe"
	"github.com/wbrown/inkframe/imageutil"
)

// ErrNoColors is returned when no palette could be extracted, either
// because k is not positive or the image has no opaque pixels.
var ErrNoColors = errors.New("calibrate: no colors extracted")

// Method selects the color extraction algorithm.
type Method int

const (
	// MethodKMeans clusters a subsample of the pixels and keeps a diverse
	// set of the most populated clusters. It falls back to
	// MethodDominant when clustering yields nothing.
	MethodKMeans Method = iota
	// MethodDominant uses weighted dominant color candidates.
	MethodDominant
	// MethodMedianCut splits the color cube by median cut.
	MethodMedianCut
)

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	case MethodDominant:
		return "dominant"
	case MethodMedianCut:
		return "median-cut"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a method name to its Method.
func ParseMethod(s string) (Method, error) {
	for _, m := range []Method{MethodKMeans, MethodDominant, MethodMedianCut} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("calibrate: unknown method %q", s)
}

// maxSamples caps the pixels handed to k-means.
const maxSamples = 12000

// Extract returns up to k representative colors of img.
func Extract(img image.Image, k int, method Method) ([]imageutil.RGB, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k=%d: %w", k, ErrNoColors)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image: %w", ErrNoColors)
	}

	var cols []colorful.Color
	switch method {
	case MethodKMeans:
		cols = extractKMeans(img, k)
		if len(cols) == 0 {
			log.Println("calibrate: kmeans returned no clusters, falling back to dominant colors")
			cols = extractDominant(img, k)
		}
	case MethodDominant:
		cols = extractDominant(img, k)
	case MethodMedianCut:
		cols = extractMedianCut(img, k)
	default:
		return nil, fmt.Errorf("calibrate: unknown method %v", method)
	}
	if len(cols) == 0 {
		return nil, ErrNoColors
	}
	out := make([]imageutil.RGB, len(cols))
	for i, c := range cols {
		r, g, b := c.Clamped().RGB255()
		out[i] = imageutil.RGB{R: r, G: g, B: b}
	}
	return out, nil
}

// NewPalette wraps extracted colors as a calibrated palette.
func NewPalette(name string, colors []imageutil.RGB) (inkframe.Palette, error) {
	p := inkframe.Palette{
		Name:        name,
		Description: fmt.Sprintf("%d colors measured from a panel photo", len(colors)),
		Calibrated:  true,
		Colors:      slices.Clone(colors),
	}
	return p, p.Validate()
}

// SortByLightness orders colors from darkest to lightest by relative
// luminance.
func SortByLightness(colors []imageutil.RGB) {
	slices.SortStableFunc(colors, func(a, b imageutil.RGB) int {
		ya, yb := luminance(a), luminance(b)
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
}

func luminance(c imageutil.RGB) float64 {
	r, g, b := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

type weightedColor struct {
	col    colorful.Color
	weight float64
}

func extractDominant(img image.Image, k int) []colorful.Color {
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	if len(candidates) == 0 {
		return nil
	}
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{col: col.Clamped(), weight: c.Weight})
	}
	return selectDiverse(weighted, k)
}

func extractKMeans(img image.Image, k int) []colorful.Color {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/maxSamples)) + 1
	}
	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 65535,
				float64(g) / 65535,
				float64(bl) / 65535,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(max(k*4, k+2), len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}
	// Most populated clusters first.
	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{col: col, weight: float64(len(c.Observations))})
	}
	return selectDiverse(weighted, k)
}

func extractMedianCut(img image.Image, k int) []colorful.Color {
	pal := median.Quantizer(k).Quantize(make(color.Palette, 0, k), img)
	out := make([]colorful.Color, 0, len(pal))
	for _, c := range pal {
		col, ok := colorful.MakeColor(c)
		if !ok {
			continue
		}
		out = append(out, col)
	}
	return out
}

// selectDiverse greedily picks k candidates: the heaviest first, then
// whichever candidate maximizes its Lab distance to the picks so far,
// scaled by its weight.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))
	maxW := 0.0
	labs := make([][3]float64, len(cands))
	for i := range cands {
		if cands[i].weight <= 0 {
			cands[i].weight = 1e-6
		}
		maxW = max(maxW, cands[i].weight)
		l, a, b := cands[i].col.Lab()
		labs[i] = [3]float64{l, a, b}
	}

	selected := make([]bool, len(cands))
	picked := make([]int, 0, k)
	seed := 0
	for i := range cands {
		if cands[i].weight > cands[seed].weight {
			seed = i
		}
	}
	picked = append(picked, seed)
	selected[seed] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i := range cands {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range picked {
				d0 := labs[i][0] - labs[s][0]
				d1 := labs[i][1] - labs[s][1]
				d2 := labs[i][2] - labs[s][2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(cands[i].weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		selected[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, len(picked))
	for i, idx := range picked {
		out[i] = cands[idx].col
	}
	return out
}
