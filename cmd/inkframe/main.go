// Command inkframe converts photos into dithered BMP files for color
// e-ink picture frames.
//
// Usage:
//
//	inkframe convert [flags] photo.jpg ...
//	inkframe palettes [-swatch dir]
//	inkframe calibrate [-k n] [-method kmeans|dominant|median-cut] panel.jpg
package main

import (
	"fmt"
	"log"
	"os"
)

var logger = log.New(os.Stderr, "inkframe: ", 0)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: inkframe <command> [flags] [args]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  convert    dither photos for a panel and write BMP files\n")
	fmt.Fprintf(os.Stderr, "  palettes   list palettes, kernels and ordered matrices\n")
	fmt.Fprintf(os.Stderr, "  calibrate  measure a palette from a photo of a panel\n\n")
	fmt.Fprintf(os.Stderr, "Run 'inkframe <command> -h' for command flags.\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "convert":
		err = runConvert(args)
	case "palettes":
		err = runPalettes(args)
	case "calibrate":
		err = runCalibrate(args)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "inkframe: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Print(err)
		os.Exit(1)
	}
}
