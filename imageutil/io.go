package imageutil

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"io"
	"os"

	_ "github.com/xfmoulet/qoi"  // Register QOI decoder
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// DecodeImage decodes an image from r and converts it to an RGBAImage.
// Supports PNG, JPEG, GIF, BMP, TIFF, WebP and QOI. The returned format
// name is the one reported by image.Decode.
func DecodeImage(r io.Reader) (*RGBAImage, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, format, fmt.Errorf("decoded %s is %dx%d: %w", format, b.Dx(), b.Dy(), ErrInvalidDimensions)
	}
	return RGBAImageFromImage(img), format, nil
}

// LoadImage loads an image from the specified path.
func LoadImage(path string) (*RGBAImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// SavePNG saves an image as PNG to the specified path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

// PaletteSwatch renders colors as a horizontal strip of tile x tile
// squares.
func PaletteSwatch(colors []RGB, tile int) *RGBAImage {
	if tile <= 0 {
		tile = 64
	}
	img := NewRGBAImage(max(1, len(colors))*tile, tile)
	for i, c := range colors {
		for y := 0; y < tile; y++ {
			for x := i * tile; x < (i+1)*tile; x++ {
				img.SetRGB(x, y, c)
			}
		}
	}
	return img
}
