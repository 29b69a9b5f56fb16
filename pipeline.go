// Package inkframe prepares photographs for color e-ink panels. Images
// are resampled to the panel size, quantized to the panel's few pigments
// with error diffusion or ordered dithering in CIE L*a*b*, and encoded as
// uncompressed 24-bit BMP files that panel controllers read directly.
package inkframe

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/wbrown/inkframe/bmp"
	"github.com/wbrown/inkframe/imageutil"
)

// Default pipeline settings.
const (
	DefaultWidth   = 1600
	DefaultHeight  = 1200
	DefaultPalette = "spectra6"
	DefaultKernel  = "floyd-steinberg"
)

// Pipeline turns decoded photos into panel-ready BMP files: resample to
// the target size, dither against the palette, encode. A Pipeline is
// immutable once built and safe for concurrent use.
type Pipeline struct {
	width, height int
	placement     imageutil.Placement
	palette       Palette
	kernel        Kernel
	ordered       string // ordered matrix name; empty selects error diffusion
	dither        DitherOptions
	sharpenSigma  float64
	sharpenAmount float64
	workers       int
	logger        *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// NewPipeline creates a Pipeline with the given options applied over the
// defaults: 1600x1200, centered fill on white, spectra6, Floyd-Steinberg,
// strength 1, contrast 1, blue-override matching, one worker per CPU.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	palette, err := Palettes.Lookup(DefaultPalette)
	if err != nil {
		return nil, err
	}
	kernel, err := Kernels.Lookup(DefaultKernel)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		width:  DefaultWidth,
		height: DefaultHeight,
		placement: imageutil.Placement{
			Mode:       imageutil.Fill,
			Background: imageutil.RGB{R: 255, G: 255, B: 255},
		},
		palette: palette,
		kernel:  kernel,
		dither:  DefaultDitherOptions(),
		workers: runtime.NumCPU(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if err := p.dither.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// WithTargetSize sets the output canvas size in pixels.
func WithTargetSize(width, height int) Option {
	return func(p *Pipeline) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("target size %dx%d: %w", width, height, ErrInvalidOption)
		}
		p.width, p.height = width, height
		return nil
	}
}

// WithPlacement sets fit/fill mode, offsets and background color.
func WithPlacement(placement imageutil.Placement) Option {
	return func(p *Pipeline) error {
		if err := placement.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
		p.placement = placement
		return nil
	}
}

// WithPaletteName selects a built-in palette by name.
func WithPaletteName(name string) Option {
	return func(p *Pipeline) error {
		palette, err := Palettes.Lookup(name)
		if err != nil {
			return err
		}
		p.palette = palette
		return nil
	}
}

// WithPalette uses a caller-supplied palette, such as one loaded with
// ReadPaletteJSON.
func WithPalette(palette Palette) Option {
	return func(p *Pipeline) error {
		if err := palette.Validate(); err != nil {
			return err
		}
		p.palette = palette.Clone()
		return nil
	}
}

// WithKernelName selects a built-in error diffusion kernel, or an ordered
// dithering matrix from OrderedMatrixNames.
func WithKernelName(name string) Option {
	return func(p *Pipeline) error {
		kernel, err := Kernels.Lookup(name)
		if err == nil {
			p.kernel, p.ordered = kernel, ""
			return nil
		}
		if _, ok := orderedMatrices[name]; ok {
			p.ordered = name
			return nil
		}
		return err
	}
}

// WithKernel uses a caller-supplied error diffusion kernel.
func WithKernel(kernel Kernel) Option {
	return func(p *Pipeline) error {
		if err := kernel.Validate(); err != nil {
			return err
		}
		p.kernel, p.ordered = kernel.Clone(), ""
		return nil
	}
}

// WithStrength sets the error diffusion strength, in [0, 1.5].
func WithStrength(strength float64) Option {
	return func(p *Pipeline) error {
		p.dither.Strength = strength
		return p.dither.Validate()
	}
}

// WithContrast sets the pre-dither contrast, in [0.5, 2].
func WithContrast(contrast float64) Option {
	return func(p *Pipeline) error {
		p.dither.Contrast = contrast
		return p.dither.Validate()
	}
}

// WithMatching sets the palette matching strategy.
func WithMatching(strategy MatchStrategy) Option {
	return func(p *Pipeline) error {
		if strategy != MatchLab && strategy != MatchLabBlueOverride {
			return fmt.Errorf("%v: %w", strategy, ErrUnknownMatchStrategy)
		}
		p.dither.Matching = strategy
		return nil
	}
}

// WithSharpen applies an unsharp mask between resampling and dithering.
// amount 0 disables it.
func WithSharpen(sigma, amount float64) Option {
	return func(p *Pipeline) error {
		if amount != 0 && (sigma <= 0 || amount < 0 || math.IsNaN(sigma) || math.IsNaN(amount)) {
			return fmt.Errorf("sharpen sigma=%v amount=%v: %w", sigma, amount, ErrInvalidOption)
		}
		p.sharpenSigma, p.sharpenAmount = sigma, amount
		return nil
	}
}

// WithWorkers bounds the number of images ProcessBatch handles at once.
func WithWorkers(n int) Option {
	return func(p *Pipeline) error {
		if n <= 0 {
			return fmt.Errorf("workers %d: %w", n, ErrInvalidOption)
		}
		p.workers = n
		return nil
	}
}

// WithLogger enables per-image progress and failure logging. A Pipeline
// without a logger is silent.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger
		return nil
	}
}

// TargetSize returns the output canvas size.
func (p *Pipeline) TargetSize() (width, height int) {
	return p.width, p.height
}

// Palette returns a copy of the palette in use.
func (p *Pipeline) Palette() Palette {
	return p.palette.Clone()
}

// Method returns the name of the kernel or ordered matrix in use.
func (p *Pipeline) Method() string {
	if p.ordered != "" {
		return p.ordered
	}
	return p.kernel.Name
}

// DitherOptions returns the strength, contrast and matching settings.
func (p *Pipeline) DitherOptions() DitherOptions {
	return p.dither
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// Result is one converted image.
type Result struct {
	// Name is the source base name with a .bmp extension.
	Name     string
	MIMEType string
	Image    bmp.EncodedImage
}

// OutputName derives the file name for a converted source: the base name
// with its extension replaced by .bmp.
func OutputName(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}
	return base + ".bmp"
}

// Convert runs the resample and dither stages and returns the panel
// image before encoding.
func (p *Pipeline) Convert(img image.Image) (*imageutil.RGBAImage, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image: %w", imageutil.ErrInvalidDimensions)
	}
	resampled, err := imageutil.Resample(imageutil.RGBAImageFromImage(img), p.width, p.height, p.placement)
	if err != nil {
		return nil, err
	}
	if !resampled.Opaque() {
		resampled = imageutil.Flatten(resampled, p.placement.Background)
	}
	if p.sharpenAmount > 0 {
		if resampled, err = imageutil.Sharpen(resampled, p.sharpenSigma, p.sharpenAmount); err != nil {
			return nil, err
		}
	}
	if p.ordered != "" {
		return OrderedDither(resampled, p.palette, p.ordered, p.dither)
	}
	return Dither(resampled, p.palette, p.kernel, p.dither)
}

// Process converts one decoded image and encodes it as BMP.
func (p *Pipeline) Process(name string, img image.Image) (Result, error) {
	start := time.Now()
	panel, err := p.Convert(img)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}
	enc, err := bmp.Encode(panel)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}
	res := Result{Name: OutputName(name), MIMEType: bmp.MIMEType, Image: enc}
	b := img.Bounds()
	p.logf("%s: %dx%d -> %s %dx%d (%s, %s) in %v",
		name, b.Dx(), b.Dy(), res.Name, enc.Width, enc.Height,
		p.palette.Name, p.Method(), time.Since(start).Round(time.Millisecond))
	return res, nil
}

// Source is an image waiting to be decoded. Open is called at most once,
// from a worker goroutine.
type Source struct {
	Name string
	Open func() (image.Image, error)
}

// BatchResult pairs a Source with its outcome. Exactly one of Result and
// Err is meaningful.
type BatchResult struct {
	Source string
	Result Result
	Err    error
}

// ProcessBatch converts sources on up to WithWorkers goroutines. Results
// are in input order. A failing image does not stop the others; sources
// not started before ctx is done get ctx.Err().
func (p *Pipeline) ProcessBatch(ctx context.Context, sources []Source) []BatchResult {
	results := make([]BatchResult, len(sources))
	for i, s := range sources {
		results[i].Source = s.Name
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(p.workers, len(sources)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i].Result, results[i].Err = p.processSource(ctx, sources[i])
				if results[i].Err != nil {
					p.logf("%s: %v", sources[i].Name, results[i].Err)
				}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(sources); next++ {
		select {
		case jobs <- next:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	for i := next; i < len(sources); i++ {
		results[i].Err = ctx.Err()
	}
	wg.Wait()
	return results
}

func (p *Pipeline) processSource(ctx context.Context, s Source) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s.Open == nil {
		return Result{}, fmt.Errorf("%s: no decoder: %w", s.Name, ErrDecode)
	}
	img, err := s.Open()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w: %w", s.Name, ErrDecode, err)
	}
	return p.Process(s.Name, img)
}
