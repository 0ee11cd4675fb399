package main

import (
	"flag"
	"image"
	"os"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-stb/imageprint"
)

var (
	col        = flag.Bool("col", true, "whether to use color escape sequences")
	col256     = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm      = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm    = flag.Bool("rasterm", false, "whether to print with the rasterm library (kitty, iterm or sixel) instead of 24 bit")
	halfblocks = flag.Bool("halfblocks", false, "whether to print two pixel rows per line with half block characters")
	blanks     = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize   = flag.Bool("downsize", true, "whether to shrink images to the terminal size")
)

func out(img image.Image) {
	if *downsize {
		if termSize, err := imageprint.GetTermSize(); err == nil {
			// Prefer native size if there's a chance we print an image rather than pixels.
			img = imageprint.Fit(img, termSize, *rasterm || *iterm)
		}
	}

	var err error
	if *rasterm {
		err = imageprint.FprintRasTerm(os.Stdout, img)
	} else if !*col {
		err = imageprint.FprintNoColor(os.Stdout, img, *blanks)
	} else if *iterm {
		err = imageprint.FprintITerm(os.Stdout, img, "image.png")
	} else if *halfblocks {
		err = imageprint.FprintHalfBlocks(os.Stdout, img)
	} else if *col256 {
		err = imageprint.Fprint256Color(os.Stdout, img, *blanks)
	} else {
		err = imageprint.Fprint24bit(os.Stdout, img, *blanks)
	}
	if err != nil {
		glog.Errorf("stbprint: printing: %v", err)
	}
}
