package imageutil

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/gift"
)

// Sharpen applies an unsharp mask with the given Gaussian sigma and
// amount. amount 0 returns an unchanged copy.
func Sharpen(img *RGBAImage, sigma, amount float64) (*RGBAImage, error) {
	if !(sigma > 0) || !(amount >= 0) || math.IsInf(sigma, 0) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("sharpen sigma=%v amount=%v: %w", sigma, amount, ErrInvalidFilter)
	}
	if amount == 0 {
		return img.Clone(), nil
	}
	g := gift.New(gift.UnsharpMask(float32(sigma), float32(amount), 0))
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img.RGBA)
	return &RGBAImage{RGBA: dst}, nil
}
