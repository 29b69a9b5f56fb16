package imageutil

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LanczosA is the support radius of the Lanczos window.
const LanczosA = 3

// Lanczos3 evaluates the Lanczos-3 kernel sinc(x)·sinc(x/3) for |x| < 3
// and returns 0 elsewhere.
func Lanczos3(x float64) float64 {
	if x <= -LanczosA || x >= LanczosA {
		return 0
	}
	return sinc(x) * sinc(x/LanczosA)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// Contributors lists the source samples feeding one destination sample.
// Weights are normalized to sum to 1.
type Contributors struct {
	Indices []int
	Weights []float64
}

// LanczosWeights computes the contributor table mapping a source axis of
// srcSize samples onto dstSize samples. Destination sample d is centred at
// (d+0.5)*srcSize/dstSize-0.5 in source space; the taps floor-2 through
// floor+3 that fall inside the source are weighted by Lanczos3 and then
// renormalized, which matters where the window is clipped at an edge.
func LanczosWeights(srcSize, dstSize int) ([]Contributors, error) {
	if srcSize <= 0 || dstSize <= 0 {
		return nil, fmt.Errorf("lanczos weights %d->%d: %w", srcSize, dstSize, ErrInvalidDimensions)
	}
	ratio := float64(srcSize) / float64(dstSize)
	table := make([]Contributors, dstSize)
	for d := range table {
		center := (float64(d)+0.5)*ratio - 0.5
		base := int(math.Floor(center))
		c := Contributors{
			Indices: make([]int, 0, 2*LanczosA),
			Weights: make([]float64, 0, 2*LanczosA),
		}
		for j := base - (LanczosA - 1); j <= base+LanczosA; j++ {
			if j < 0 || j >= srcSize {
				continue
			}
			w := Lanczos3(center - float64(j))
			if w == 0 {
				continue
			}
			c.Indices = append(c.Indices, j)
			c.Weights = append(c.Weights, w)
		}
		sum := floats.Sum(c.Weights)
		if len(c.Weights) == 0 || math.Abs(sum) < 1e-12 {
			// Degenerate window; fall back to the nearest source sample.
			c.Indices = []int{clampInt(int(math.Round(center)), 0, srcSize-1)}
			c.Weights = []float64{1}
		} else {
			floats.Scale(1/sum, c.Weights)
		}
		table[d] = c
	}
	return table, nil
}

// ResizeLanczos resamples img to width x height with a separable
// Lanczos-3 filter. The horizontal pass writes into a float64 buffer that
// the vertical pass reads without intermediate rounding, so the result
// does not depend on the pass order. All four channels are filtered.
func ResizeLanczos(img *RGBAImage, width, height int) (*RGBAImage, error) {
	srcW, srcH := img.Width(), img.Height()
	if srcW <= 0 || srcH <= 0 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resize %dx%d to %dx%d: %w", srcW, srcH, width, height, ErrInvalidDimensions)
	}
	xWeights, err := LanczosWeights(srcW, width)
	if err != nil {
		return nil, err
	}
	yWeights, err := LanczosWeights(srcH, height)
	if err != nil {
		return nil, err
	}

	// Horizontal pass: srcH rows of width samples.
	tmp := make([]float64, srcH*width*4)
	for y := 0; y < srcH; y++ {
		row := img.Pix[y*img.Stride:]
		out := tmp[y*width*4:]
		for x, c := range xWeights {
			var r, g, b, a float64
			for i, sx := range c.Indices {
				w := c.Weights[i]
				p := row[sx*4 : sx*4+4]
				r += float64(p[0]) * w
				g += float64(p[1]) * w
				b += float64(p[2]) * w
				a += float64(p[3]) * w
			}
			o := out[x*4 : x*4+4]
			o[0], o[1], o[2], o[3] = r, g, b, a
		}
	}

	// Vertical pass.
	dst := NewRGBAImage(width, height)
	for y, c := range yWeights {
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < width; x++ {
			var r, g, b, a float64
			for i, sy := range c.Indices {
				w := c.Weights[i]
				p := tmp[(sy*width+x)*4:]
				r += p[0] * w
				g += p[1] * w
				b += p[2] * w
				a += p[3] * w
			}
			o := out[x*4 : x*4+4]
			alpha := clampUint8(a)
			o[0] = min(clampUint8(r), alpha)
			o[1] = min(clampUint8(g), alpha)
			o[2] = min(clampUint8(b), alpha)
			o[3] = alpha
		}
	}
	return dst, nil
}
