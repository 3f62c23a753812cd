package main

import (
	"errors"
	"flag"
	"os"

	"github.com/fatih/color"
	"stockdash.com/internal/setup"
)

func main() {
	src := flag.String("template", setup.DefaultTemplate, "configuration template to copy")
	dst := flag.String("out", setup.DefaultTarget, "configuration file to create")
	force := flag.Bool("force", false, "overwrite an existing configuration file")
	flag.Parse()

	ok := color.New(color.FgGreen).PrintfFunc()
	warn := color.New(color.FgYellow).PrintfFunc()
	fail := color.New(color.FgRed).PrintfFunc()

	err := setup.CopyTemplate(*src, *dst, *force)
	switch {
	case err == nil:
		ok("Created %s from %s\n", *dst, *src)
	case errors.Is(err, setup.ErrTargetExists):
		warn("%s already exists, rerun with -force to overwrite\n", *dst)
	default:
		fail("Setup failed: %v\n", err)
		os.Exit(1)
	}
}
