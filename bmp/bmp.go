// Package bmp writes uncompressed 24-bit BMP files in the exact layout
// e-ink frame firmware expects: a 54-byte header, a negative height so
// rows run top to bottom, and BGR samples with each row zero-padded to a
// multiple of four bytes.
package bmp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wbrown/inkframe/imageutil"
)

// MIMEType is the media type of encoded output.
const MIMEType = "image/bmp"

// Header sizes and fixed field values.
const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	HeaderSize     = fileHeaderSize + infoHeaderSize

	bitsPerPixel   = 24
	pixelsPerMetre = 2835 // 72 DPI
)

var (
	// ErrEmptyImage is returned for an image with zero width or height.
	ErrEmptyImage = errors.New("bmp: empty image")

	// ErrTooLarge is returned when the file size does not fit the 32-bit
	// header fields.
	ErrTooLarge = errors.New("bmp: image too large")
)

// EncodedImage is a complete BMP file.
type EncodedImage struct {
	Data          []byte
	Width, Height int
	Format        string
}

// RowSize returns the padded byte length of one pixel row of the given
// width.
func RowSize(width int) int {
	return (width*3 + 3) / 4 * 4
}

// header is the BITMAPFILEHEADER followed by the BITMAPINFOHEADER.
type header struct {
	Signature       [2]byte
	FileSize        uint32
	Reserved        uint32
	DataOffset      uint32
	InfoSize        uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	XPixelsPerM     int32
	YPixelsPerM     int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// checkSize rejects dimensions that cannot be written as a valid header.
func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%dx%d: %w", width, height, ErrEmptyImage)
	}
	if width > math.MaxInt32 || height > math.MaxInt32 ||
		int64(RowSize(width))*int64(height)+HeaderSize > math.MaxUint32 {
		return fmt.Errorf("%dx%d: %w", width, height, ErrTooLarge)
	}
	return nil
}

func newHeader(width, height int) header {
	imageSize := RowSize(width) * height
	return header{
		Signature:    [2]byte{'B', 'M'},
		FileSize:     uint32(HeaderSize + imageSize),
		DataOffset:   HeaderSize,
		InfoSize:     infoHeaderSize,
		Width:        int32(width),
		Height:       -int32(height),
		Planes:       1,
		BitsPerPixel: bitsPerPixel,
		ImageSize:    uint32(imageSize),
		XPixelsPerM:  pixelsPerMetre,
		YPixelsPerM:  pixelsPerMetre,
	}
}

// Write encodes img to w. Alpha is dropped.
func Write(w io.Writer, img *imageutil.RGBAImage) error {
	width, height := img.Width(), img.Height()
	if err := checkSize(width, height); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, newHeader(width, height)); err != nil {
		return fmt.Errorf("bmp: writing header: %w", err)
	}
	row := make([]byte, RowSize(width))
	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			row[x*3] = src[x*4+2]
			row[x*3+1] = src[x*4+1]
			row[x*3+2] = src[x*4]
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("bmp: writing row %d: %w", y, err)
		}
	}
	return nil
}

// Encode returns img as a BMP file held in memory. The result owns its
// byte slice.
func Encode(img *imageutil.RGBAImage) (EncodedImage, error) {
	width, height := img.Width(), img.Height()
	if err := checkSize(width, height); err != nil {
		return EncodedImage{}, err
	}
	var buf bytes.Buffer
	buf.Grow(HeaderSize + RowSize(width)*height)
	if err := Write(&buf, img); err != nil {
		return EncodedImage{}, err
	}
	return EncodedImage{
		Data:   buf.Bytes(),
		Width:  width,
		Height: height,
		Format: "bmp",
	}, nil
}
