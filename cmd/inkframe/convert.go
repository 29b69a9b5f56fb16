package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	xbmp "golang.org/x/image/bmp"

	"github.com/wbrown/inkframe"
	"github.com/wbrown/inkframe/imageutil"
	"github.com/wbrown/inkframe/proof"
)

type convertFlags struct {
	width, height    int
	mode             string
	offsetX, offsetY float64
	background       string
	palette          string
	paletteFile      string
	dither           string
	strength         float64
	contrast         float64
	match            string
	sharpen          float64
	sharpenSigma     float64
	workers          int
	outDir           string
	proofFile        string
	verbose          bool
}

func newConvertFlagSet(cf *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.IntVar(&cf.width, "width", inkframe.DefaultWidth, "Panel width in pixels")
	fs.IntVar(&cf.height, "height", inkframe.DefaultHeight, "Panel height in pixels")
	fs.StringVar(&cf.mode, "mode", "fill",
		"Placement: 'fill' crops to cover the panel, 'fit' letterboxes")
	fs.Float64Var(&cf.offsetX, "offset-x", 0,
		"Horizontal pan in [-1, 1], 0 is centered")
	fs.Float64Var(&cf.offsetY, "offset-y", 0,
		"Vertical pan in [-1, 1], 0 is centered")
	fs.StringVar(&cf.background, "background", "#FFFFFF",
		"Letterbox color as #RRGGBB")
	fs.StringVar(&cf.palette, "palette", inkframe.DefaultPalette,
		"Built-in palette name (see 'inkframe palettes')")
	fs.StringVar(&cf.paletteFile, "palette-file", "",
		"Path to a palette JSON file, overrides -palette")
	fs.StringVar(&cf.dither, "dither", inkframe.DefaultKernel,
		"Error diffusion kernel or ordered matrix name")
	fs.Float64Var(&cf.strength, "strength", 1,
		"Error diffusion strength in [0, 1.5]")
	fs.Float64Var(&cf.contrast, "contrast", 1,
		"Contrast applied before dithering, in [0.5, 2]")
	fs.StringVar(&cf.match, "match", inkframe.MatchLabBlueOverride.String(),
		"Color matching: 'lab' or 'lab-blue'")
	fs.Float64Var(&cf.sharpen, "sharpen", 0,
		"Unsharp mask amount applied after resampling, 0 disables")
	fs.Float64Var(&cf.sharpenSigma, "sharpen-sigma", 1,
		"Unsharp mask blur radius")
	fs.IntVar(&cf.workers, "workers", 0,
		"Images converted in parallel, 0 for one per CPU")
	fs.StringVar(&cf.outDir, "o", ".", "Output directory")
	fs.StringVar(&cf.proofFile, "proof", "",
		"Also write a PNG contact sheet of the results to this path")
	fs.BoolVar(&cf.verbose, "v", false, "Log per-image progress")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: inkframe convert [flags] image...\n")
		fs.PrintDefaults()
	}
	return fs
}

// pipelineOptions maps parsed flags onto pipeline options.
func (cf *convertFlags) pipelineOptions() ([]inkframe.Option, error) {
	mode, err := imageutil.ParseFitMode(cf.mode)
	if err != nil {
		return nil, err
	}
	bg, err := inkframe.ParseHexColor(cf.background)
	if err != nil {
		return nil, fmt.Errorf("-background: %w", err)
	}
	match, err := inkframe.ParseMatchStrategy(cf.match)
	if err != nil {
		return nil, err
	}

	opts := []inkframe.Option{
		inkframe.WithTargetSize(cf.width, cf.height),
		inkframe.WithPlacement(imageutil.Placement{
			Mode:       mode,
			OffsetX:    cf.offsetX,
			OffsetY:    cf.offsetY,
			Background: bg,
		}),
		inkframe.WithKernelName(cf.dither),
		inkframe.WithStrength(cf.strength),
		inkframe.WithContrast(cf.contrast),
		inkframe.WithMatching(match),
		inkframe.WithSharpen(cf.sharpenSigma, cf.sharpen),
	}
	if cf.paletteFile != "" {
		p, err := loadPaletteFile(cf.paletteFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, inkframe.WithPalette(p))
	} else {
		opts = append(opts, inkframe.WithPaletteName(cf.palette))
	}
	if cf.workers > 0 {
		opts = append(opts, inkframe.WithWorkers(cf.workers))
	}
	if cf.verbose {
		opts = append(opts, inkframe.WithLogger(logger))
	}
	return opts, nil
}

func loadPaletteFile(path string) (inkframe.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return inkframe.Palette{}, err
	}
	defer f.Close()
	p, err := inkframe.ReadPaletteJSON(f)
	if err != nil {
		return inkframe.Palette{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func fileSource(path string) inkframe.Source {
	return inkframe.Source{
		Name: path,
		Open: func() (image.Image, error) {
			img, err := imageutil.LoadImage(path)
			if err != nil {
				return nil, err
			}
			return img.RGBA, nil
		},
	}
}

func runConvert(args []string) error {
	var cf convertFlags
	fs := newConvertFlagSet(&cf)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("convert: no input images")
	}

	opts, err := cf.pipelineOptions()
	if err != nil {
		return err
	}
	p, err := inkframe.NewPipeline(opts...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cf.outDir, 0o755); err != nil {
		return err
	}

	sources := make([]inkframe.Source, fs.NArg())
	for i, path := range fs.Args() {
		sources[i] = fileSource(path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results := p.ProcessBatch(ctx, sources)

	failed := 0
	var entries []proof.Entry
	for _, r := range results {
		if r.Err != nil {
			logger.Printf("%s: %v", r.Source, r.Err)
			failed++
			continue
		}
		out := filepath.Join(cf.outDir, r.Result.Name)
		if err := os.WriteFile(out, r.Result.Image.Data, 0o644); err != nil {
			logger.Printf("%s: %v", r.Source, err)
			failed++
			continue
		}
		fmt.Printf("%s -> %s (%dx%d, %d bytes)\n", r.Source, out,
			r.Result.Image.Width, r.Result.Image.Height, len(r.Result.Image.Data))
		if cf.proofFile != "" {
			img, err := xbmp.Decode(bytes.NewReader(r.Result.Image.Data))
			if err != nil {
				logger.Printf("%s: proof: %v", r.Source, err)
				continue
			}
			entries = append(entries, proof.Entry{
				Caption: proofCaption(r.Result.Name, p),
				Image:   img,
			})
		}
	}

	if cf.proofFile != "" && len(entries) > 0 {
		if err := writeProof(cf.proofFile, entries); err != nil {
			return err
		}
		fmt.Printf("proof sheet written to %s\n", cf.proofFile)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(results))
	}
	return nil
}

func proofCaption(name string, p *inkframe.Pipeline) string {
	opts := p.DitherOptions()
	parts := []string{
		strings.TrimSuffix(name, filepath.Ext(name)),
		p.Palette().Name,
		p.Method(),
		fmt.Sprintf("s%.2g c%.2g", opts.Strength, opts.Contrast),
	}
	return strings.Join(parts, " · ")
}

func writeProof(path string, entries []proof.Entry) error {
	sheet, err := proof.Render(entries, proof.Options{})
	if err != nil {
		return err
	}
	return imageutil.SavePNG(sheet, path)
}
