package inkframe

import (
	"fmt"
	"slices"

	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/wbrown/inkframe/imageutil"
)

// orderedMatrix builds a pixel mapper for a given strength.
type orderedMatrix func(strength float32) dither.PixelMapper

func fromMatrix(m dither.OrderedDitherMatrix) orderedMatrix {
	return func(strength float32) dither.PixelMapper {
		return dither.PixelMapperFromMatrix(m, strength)
	}
}

func bayer(n uint) orderedMatrix {
	return func(strength float32) dither.PixelMapper {
		return dither.Bayer(n, n, strength)
	}
}

var orderedMatrices = map[string]orderedMatrix{
	"bayer-4x4":         bayer(4),
	"bayer-8x8":         bayer(8),
	"clustered-dot-4x4": fromMatrix(dither.ClusteredDot4x4),
	"clustered-dot-8x8": fromMatrix(dither.ClusteredDot8x8),
	"horizontal-3x5":    fromMatrix(dither.Horizontal3x5),
	"vertical-5x3":      fromMatrix(dither.Vertical5x3),
}

// OrderedMatrixNames lists the threshold matrices OrderedDither accepts,
// sorted by name.
func OrderedMatrixNames() []string {
	names := make([]string, 0, len(orderedMatrices))
	for name := range orderedMatrices {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// OrderedDither quantizes img to palette with a threshold matrix instead
// of error diffusion. Each pixel is decided on its own; no error carries
// over. The matrix offsets are added to the sRGB channels, scaled by
// opts.Strength, and the shifted color is matched with opts.Matching.
// Contrast is applied first. Output pixels are opaque palette colors.
func OrderedDither(img *imageutil.RGBAImage, palette Palette, matrix string, opts DitherOptions) (*imageutil.RGBAImage, error) {
	mapper, ok := orderedMatrices[matrix]
	if !ok {
		return nil, fmt.Errorf("ordered matrix %q: %w", matrix, ErrUnknownKernel)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(palette.Colors) < 2 {
		return nil, fmt.Errorf("palette %q: ordered dithering needs two colors: %w", palette.Name, ErrInvalidPalette)
	}
	matcher, err := NewMatcher(palette, opts.Matching)
	if err != nil {
		return nil, err
	}
	width, height := img.Width(), img.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("dither %dx%d: %w", width, height, imageutil.ErrInvalidDimensions)
	}

	threshold := mapper(float32(opts.Strength))
	work := imageutil.AdjustContrast(img, opts.Contrast)
	out := imageutil.NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := work.GetRGB(x, y)
			r, g, b := threshold(x, y, uint16(c.R)*257, uint16(c.G)*257, uint16(c.B)*257)
			out.SetRGB(x, y, matcher.Match(float64(r)/257, float64(g)/257, float64(b)/257))
		}
	}
	return out, nil
}
