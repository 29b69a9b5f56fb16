package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/wbrown/inkframe"
	"github.com/wbrown/inkframe/calibrate"
	"github.com/wbrown/inkframe/imageutil"
)

func runCalibrate(args []string) error {
	fs := flag.NewFlagSet("calibrate", flag.ContinueOnError)
	k := fs.Int("k", 8, "Number of colors to extract")
	method := fs.String("method", calibrate.MethodKMeans.String(),
		"Extraction method: kmeans, dominant or median-cut")
	name := fs.String("name", "calibrated", "Name of the resulting palette")
	sortColors := fs.Bool("sort", true, "Order colors from darkest to lightest")
	output := fs.String("o", "", "Write the palette JSON here instead of stdout")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: inkframe calibrate [flags] panel-photo\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("calibrate: expected exactly one image")
	}

	m, err := calibrate.ParseMethod(*method)
	if err != nil {
		return err
	}
	img, err := imageutil.LoadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	colors, err := calibrate.Extract(img, *k, m)
	if err != nil {
		return err
	}
	if *sortColors {
		calibrate.SortByLightness(colors)
	}
	p, err := calibrate.NewPalette(*name, colors)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := inkframe.WritePaletteJSON(w, p); err != nil {
		return err
	}
	if *output != "" {
		logger.Printf("wrote %d colors to %s", len(p.Colors), *output)
	}
	return nil
}
