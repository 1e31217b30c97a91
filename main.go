package main

import (
	"log/slog"
	"os"

	"palut/bake"
	"palut/inspect"
	"palut/mangle"
	"palut/parallel"

	"github.com/alecthomas/kong"
)

type cli struct {
	Workers int  `help:"Number of worker goroutines, 0 for one per CPU" default:"0"`
	Verbose bool `help:"Log debug messages" short:"v"`

	Lut     bake.CLICmd        `cmd:"" help:"Bake a palette lookup table into a PNG file"`
	Dither  mangle.CLICmd      `cmd:"" help:"Dither every image of a folder through a palette lookup table"`
	Palette inspect.PaletteCmd `cmd:"" help:"Print a palette with Lab values and tonal neighbors"`
	Probe   inspect.ProbeCmd   `cmd:"" help:"Show how colors map onto a palette"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("palut"),
		kong.Description("Perceptual palette matching, lookup tables and ordered dithering."),
		kong.UsageOnError(),
	)

	if c.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	pool := parallel.Start(c.Workers)
	slog.Debug("started workers", "count", pool.Workers())

	err := kctx.Run(pool)
	pool.Stop()
	if err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
