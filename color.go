package inkframe

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Lab is a color in CIE L*a*b* (D65) using conventional units: L spans
// [0, 100] and a, b are roughly [-128, 127].
type Lab struct {
	L, A, B float64
}

// LabFromRGB converts 8-bit-scale sRGB channel values to Lab. The inputs
// are floats because the ditherer matches accumulated, unrounded values.
func LabFromRGB(r, g, b float64) Lab {
	lr, lg, lb := colorful.Color{R: r / 255, G: g / 255, B: b / 255}.LinearRgb()
	x := 0.4124*lr + 0.3576*lg + 0.1805*lb
	y := 0.2126*lr + 0.7152*lg + 0.0722*lb
	z := 0.0193*lr + 0.1192*lg + 0.9505*lb
	l, a, bb := colorful.XyzToLabWhiteRef(x, y, z, colorful.D65)
	// go-colorful works with Y normalized to 1, which scales Lab by 1/100.
	return Lab{L: l * 100, A: a * 100, B: bb * 100}
}

// DistanceSquared returns the squared Euclidean distance between two Lab
// colors. Ordering by it is the same as ordering by Distance.
func (c Lab) DistanceSquared(o Lab) float64 {
	dl := c.L - o.L
	da := c.A - o.A
	db := c.B - o.B
	return dl*dl + da*da + db*db
}

// Distance returns the Euclidean (CIE76) distance between two Lab colors.
func (c Lab) Distance(o Lab) float64 {
	return math.Sqrt(c.DistanceSquared(o))
}
