package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wbrown/inkframe"
	"github.com/wbrown/inkframe/imageutil"
)

func runPalettes(args []string) error {
	fs := flag.NewFlagSet("palettes", flag.ContinueOnError)
	swatchDir := fs.String("swatch", "",
		"Write a PNG swatch strip per palette into this directory")
	tile := fs.Int("tile", 64, "Swatch tile size in pixels")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	fmt.Println("Palettes:")
	for _, name := range inkframe.Palettes.Names() {
		p, err := inkframe.Palettes.Lookup(name)
		if err != nil {
			return err
		}
		hex := make([]string, len(p.Colors))
		for i, c := range p.Colors {
			hex[i] = inkframe.HexColor(c)
		}
		kind := "idealized"
		if p.Calibrated {
			kind = "calibrated"
		}
		fmt.Printf("  %-18s %d colors, %s: %s\n", name, len(p.Colors), kind, p.Description)
		fmt.Printf("  %-18s %s\n", "", strings.Join(hex, " "))

		if *swatchDir != "" {
			if err := os.MkdirAll(*swatchDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(*swatchDir, name+".png")
			if err := imageutil.SavePNG(imageutil.PaletteSwatch(p.Colors, *tile), path); err != nil {
				return fmt.Errorf("swatch %s: %w", name, err)
			}
		}
	}

	fmt.Println("\nError diffusion kernels:")
	for _, name := range inkframe.Kernels.Names() {
		k, err := inkframe.Kernels.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-20s %2d taps, %d/%d of the error\n", name, len(k.Taps), k.WeightSum(), k.Divisor)
	}

	fmt.Println("\nOrdered matrices:")
	for _, name := range inkframe.OrderedMatrixNames() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
