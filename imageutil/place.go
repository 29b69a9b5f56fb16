package imageutil

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// FitMode selects how a source is placed on a target canvas of a
// different aspect ratio.
type FitMode int

const (
	// Fill scales the source to cover the whole canvas and crops overflow.
	Fill FitMode = iota
	// Fit scales the source to lie entirely inside the canvas and
	// letterboxes the remainder with the background color.
	Fit
)

func (m FitMode) String() string {
	switch m {
	case Fill:
		return "fill"
	case Fit:
		return "fit"
	}
	return fmt.Sprintf("FitMode(%d)", int(m))
}

// ParseFitMode maps "fit" and "fill" to their FitMode.
func ParseFitMode(s string) (FitMode, error) {
	switch s {
	case "fill":
		return Fill, nil
	case "fit":
		return Fit, nil
	}
	return 0, fmt.Errorf("fit mode %q: %w", s, ErrInvalidPlacement)
}

// Placement describes where a scaled source lands on the canvas.
// OffsetX and OffsetY range over [-1, 1]; 0 centres the image and ±1 pans
// it as far as it can go along that axis.
type Placement struct {
	Mode       FitMode
	OffsetX    float64
	OffsetY    float64
	Background RGB
}

// Validate reports whether the placement is usable.
func (p Placement) Validate() error {
	if p.Mode != Fit && p.Mode != Fill {
		return fmt.Errorf("mode %v: %w", p.Mode, ErrInvalidPlacement)
	}
	for _, o := range []float64{p.OffsetX, p.OffsetY} {
		if math.IsNaN(o) || o < -1 || o > 1 {
			return fmt.Errorf("offset %v outside [-1, 1]: %w", o, ErrInvalidPlacement)
		}
	}
	return nil
}

// Layout is the computed geometry of a placement: the size the source is
// scaled to and the canvas position of its top-left corner. X and Y are
// negative when Fill crops the source.
type Layout struct {
	Width, Height int
	X, Y          int
	Scale         float64
}

// ComputeLayout works out the scaled size and position of a srcW x srcH
// source on a dstW x dstH canvas.
func ComputeLayout(srcW, srcH, dstW, dstH int, p Placement) (Layout, error) {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return Layout{}, fmt.Errorf("layout %dx%d on %dx%d: %w", srcW, srcH, dstW, dstH, ErrInvalidDimensions)
	}
	if err := p.Validate(); err != nil {
		return Layout{}, err
	}
	sx := float64(dstW) / float64(srcW)
	sy := float64(dstH) / float64(srcH)
	scale := min(sx, sy)
	if p.Mode == Fill {
		scale = max(sx, sy)
	}
	l := Layout{
		Width:  max(1, int(math.Round(float64(srcW)*scale))),
		Height: max(1, int(math.Round(float64(srcH)*scale))),
		Scale:  scale,
	}
	l.X = placeAxis(l.Width, dstW, p.OffsetX)
	l.Y = placeAxis(l.Height, dstH, p.OffsetY)
	return l, nil
}

// placeAxis positions a span of size scaled on a canvas axis of size
// target. The same mapping serves both modes: with Fit the span is
// shorter and offset slides it inside the canvas, with Fill it is longer
// and offset pans the visible window.
func placeAxis(scaled, target int, offset float64) int {
	center := float64(target-scaled) / 2
	maxOffset := float64(scaled-target) / 2
	return int(math.Round(center - offset*maxOffset))
}

// Resample produces a width x height canvas holding src scaled with its
// aspect ratio preserved and placed according to p. The canvas is filled
// with p.Background before the scaled image is composited over it. A
// source already at the target size is returned unchanged.
func Resample(src *RGBAImage, width, height int, p Placement) (*RGBAImage, error) {
	layout, err := ComputeLayout(src.Width(), src.Height(), width, height, p)
	if err != nil {
		return nil, err
	}
	if src.Width() == width && src.Height() == height {
		return src.Clone(), nil
	}

	scaled, err := Resize(src, layout.Width, layout.Height, InterpolationAuto)
	if err != nil {
		return nil, err
	}

	canvas := NewRGBAImage(width, height)
	canvas.Fill(p.Background)
	r := image.Rect(layout.X, layout.Y, layout.X+layout.Width, layout.Y+layout.Height)
	draw.Draw(canvas.RGBA, r, scaled.RGBA, image.Point{}, draw.Over)
	return canvas, nil
}
