// Package proof renders contact sheets of converted images so different
// palettes, kernels and settings can be compared side by side before
// anything is copied to a frame.
package proof

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// ErrNoEntries is returned when Render is given nothing to draw.
var ErrNoEntries = errors.New("proof: no entries")

// Entry is one tile of the sheet.
type Entry struct {
	Caption string
	Image   image.Image
}

// Options controls the sheet layout. Zero fields take the defaults noted
// on each field.
type Options struct {
	TileWidth  int     // thumbnail box width, default 320
	TileHeight int     // thumbnail box height, default 240
	Columns    int     // default 3
	Padding    int     // space around each tile, default 8
	FontSize   float64 // caption size in points at 72 DPI, default 12

	Background color.RGBA // default white
	Foreground color.RGBA // caption color, default black
}

func (o Options) withDefaults() Options {
	if o.TileWidth <= 0 {
		o.TileWidth = 320
	}
	if o.TileHeight <= 0 {
		o.TileHeight = 240
	}
	if o.Columns <= 0 {
		o.Columns = 3
	}
	if o.Padding <= 0 {
		o.Padding = 8
	}
	if o.FontSize <= 0 {
		o.FontSize = 12
	}
	if o.Background == (color.RGBA{}) {
		o.Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if o.Foreground == (color.RGBA{}) {
		o.Foreground = color.RGBA{A: 255}
	}
	return o
}

var loadFont = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(goregular.TTF)
})

// Layout returns the sheet size for n entries.
func Layout(n int, opts Options) (width, height int) {
	opts = opts.withDefaults()
	cols := min(n, opts.Columns)
	rows := (n + opts.Columns - 1) / opts.Columns
	cellW, cellH := cellSize(opts)
	return cols * cellW, rows * cellH
}

func captionHeight(opts Options) int {
	return int(opts.FontSize*1.5 + 0.5)
}

func cellSize(opts Options) (int, int) {
	return opts.TileWidth + 2*opts.Padding, opts.TileHeight + captionHeight(opts) + 2*opts.Padding
}

// Render draws entries left to right, top to bottom. Each image is
// scaled down to fit its tile, never up, and centered above its caption.
func Render(entries []Entry, opts Options) (*image.RGBA, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	opts = opts.withDefaults()
	ttf, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("proof: loading font: %w", err)
	}

	width, height := Layout(len(entries), opts)
	sheet := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(sheet, sheet.Bounds(), &image.Uniform{C: opts.Background}, image.Point{}, draw.Src)

	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(opts.FontSize)
	ctx.SetDst(sheet)
	ctx.SetSrc(&image.Uniform{C: opts.Foreground})
	ctx.SetHinting(font.HintingFull)

	cellW, cellH := cellSize(opts)
	ascent := face.Metrics().Ascent.Ceil()
	for i, e := range entries {
		if e.Image == nil {
			return nil, fmt.Errorf("proof: entry %d (%q) has no image", i, e.Caption)
		}
		x0 := (i%opts.Columns)*cellW + opts.Padding
		y0 := (i/opts.Columns)*cellH + opts.Padding

		thumb := resize.Thumbnail(uint(opts.TileWidth), uint(opts.TileHeight), e.Image, resize.Lanczos3)
		tb := thumb.Bounds()
		dx := x0 + (opts.TileWidth-tb.Dx())/2
		dy := y0 + (opts.TileHeight-tb.Dy())/2
		draw.Draw(sheet, image.Rect(dx, dy, dx+tb.Dx(), dy+tb.Dy()), thumb, tb.Min, draw.Over)

		caption := fitCaption(face, e.Caption, opts.TileWidth)
		captionTop := y0 + opts.TileHeight
		ctx.SetClip(image.Rect(x0, captionTop, x0+opts.TileWidth, captionTop+captionHeight(opts)))
		baseline := captionTop + (captionHeight(opts)+ascent)/2 - 1
		if _, err := ctx.DrawString(caption, freetype.Pt(x0, baseline)); err != nil {
			return nil, fmt.Errorf("proof: drawing caption %q: %w", e.Caption, err)
		}
	}
	return sheet, nil
}

// fitCaption shortens s with a trailing ellipsis until it fits in width
// pixels.
func fitCaption(face font.Face, s string, width int) string {
	limit := fixed.I(width)
	if font.MeasureString(face, s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if font.MeasureString(face, candidate) <= limit {
			return candidate
		}
	}
	return ""
}
