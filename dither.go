package inkframe

import (
	"fmt"
	"math"

	"github.com/wbrown/inkframe/imageutil"
)

// Ranges accepted by DitherOptions.
const (
	MinStrength = 0.0
	MaxStrength = 1.5
	MinContrast = 0.5
	MaxContrast = 2.0
)

// DitherOptions tunes a dithering pass.
type DitherOptions struct {
	// Strength scales the diffused error, in [0, 1.5]. 0 is plain
	// nearest-color quantization.
	Strength float64
	// Contrast is applied once to the whole image before dithering, in
	// [0.5, 2]. 1 leaves the image unchanged.
	Contrast float64
	Matching MatchStrategy
}

// DefaultDitherOptions returns full-strength diffusion, unchanged
// contrast and blue-override matching.
func DefaultDitherOptions() DitherOptions {
	return DitherOptions{Strength: 1, Contrast: 1, Matching: MatchLabBlueOverride}
}

// Validate checks the option ranges.
func (o DitherOptions) Validate() error {
	if math.IsNaN(o.Strength) || o.Strength < MinStrength || o.Strength > MaxStrength {
		return fmt.Errorf("strength %v outside [%v, %v]: %w", o.Strength, MinStrength, MaxStrength, ErrInvalidOption)
	}
	if math.IsNaN(o.Contrast) || o.Contrast < MinContrast || o.Contrast > MaxContrast {
		return fmt.Errorf("contrast %v outside [%v, %v]: %w", o.Contrast, MinContrast, MaxContrast, ErrInvalidOption)
	}
	return nil
}

// Dither quantizes img to palette, diffusing the quantization error with
// kernel in a single raster-order pass. img is not modified; the result
// has the same size, is fully opaque and contains only palette colors.
func Dither(img *imageutil.RGBAImage, palette Palette, kernel Kernel, opts DitherOptions) (*imageutil.RGBAImage, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := kernel.Validate(); err != nil {
		return nil, err
	}
	matcher, err := NewMatcher(palette, opts.Matching)
	if err != nil {
		return nil, err
	}
	width, height := img.Width(), img.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("dither %dx%d: %w", width, height, imageutil.ErrInvalidDimensions)
	}

	d := &ditherer{
		width:   width,
		height:  height,
		buf:     workingCopy(img, opts.Contrast),
		kernel:  kernel,
		divisor: float64(kernel.Divisor),
	}
	out := imageutil.NewRGBAImage(width, height)
	colors := palette.Colors
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			r, g, b := d.buf[i], d.buf[i+1], d.buf[i+2]
			c := colors[matcher.Nearest(r, g, b)]
			out.SetRGB(x, y, c)
			d.distributeError(x, y, [3]float64{
				(r - float64(c.R)) * opts.Strength,
				(g - float64(c.G)) * opts.Strength,
				(b - float64(c.B)) * opts.Strength,
			})
		}
	}
	return out, nil
}

// workingCopy returns the float64 RGB samples of img with the contrast
// transform already applied. Alpha is ignored; Pipeline.Convert flattens
// translucent images before they get here.
func workingCopy(img *imageutil.RGBAImage, contrast float64) []float64 {
	width, height := img.Width(), img.Height()
	buf := make([]float64, width*height*3)
	factor := imageutil.ContrastFactor(contrast)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+3]
			o := buf[(y*width+x)*3:]
			for c := 0; c < 3; c++ {
				v := float64(p[c])
				if contrast != 1 {
					v = imageutil.ContrastChannel(v, factor)
				}
				o[c] = v
			}
		}
	}
	return buf
}

type ditherer struct {
	width, height int
	buf           []float64
	kernel        Kernel
	divisor       float64
}

// distributeError spreads the error at (x, y) over the kernel taps that
// land inside the image. Each neighbor is clamped to [0, 255] as it is
// written.
func (d *ditherer) distributeError(x, y int, qerr [3]float64) {
	if qerr == ([3]float64{}) {
		return
	}
	for _, t := range d.kernel.Taps {
		nx, ny := x+t.DX, y+t.DY
		if nx < 0 || nx >= d.width || ny < 0 || ny >= d.height {
			continue
		}
		factor := float64(t.Weight) / d.divisor
		o := d.buf[(ny*d.width+nx)*3:]
		for c := 0; c < 3; c++ {
			o[c] = math.Max(0, math.Min(255, o[c]+qerr[c]*factor))
		}
	}
}
