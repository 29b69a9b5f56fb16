// Package imageutil provides the pixel buffer type and the image-level
// stages of the inkframe pipeline: decoding, resampling with fit/fill
// placement, and contrast adjustment.
package imageutil

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

var (
	// ErrInvalidDimensions is returned when a source or target has zero or
	// negative width or height.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrInvalidPlacement is returned when a placement offset lies outside
	// [-1, 1] or the fit mode is unknown.
	ErrInvalidPlacement = errors.New("invalid placement")

	// ErrInvalidFilter is returned when a filter parameter is out of range
	// or NaN.
	ErrInvalidFilter = errors.New("invalid filter parameters")
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
// It is the pixel buffer handed between pipeline stages: each stage
// returns a new RGBAImage and never retains the one it was given.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to an RGBAImage whose bounds
// start at the origin. Alpha is carried over.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return (&RGBAImage{RGBA: rgba}).Clone()
	}
	bounds := img.Bounds()
	dst := NewRGBAImage(bounds.Dx(), bounds.Dy())
	draw.Draw(dst.RGBA, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y) with full opacity.
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

// Fill paints every pixel with c.
func (img *RGBAImage) Fill(c RGB) {
	draw.Draw(img.RGBA, img.Bounds(), &image.Uniform{C: c.ToColor()}, image.Point{}, draw.Src)
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+img.Width()*4]
		copy(clone.Pix[y*clone.Stride:], src)
	}
	return clone
}

// Flatten composites img over an opaque bg canvas. The result is fully
// opaque, so its RGB samples no longer carry premultiplied alpha.
func Flatten(img *RGBAImage, bg RGB) *RGBAImage {
	out := NewRGBAImage(img.Width(), img.Height())
	out.Fill(bg)
	draw.Draw(out.RGBA, out.Bounds(), img.RGBA, img.Bounds().Min, draw.Over)
	return out
}

// clampInt clamps an integer to the given range.
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255], rounds, and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
