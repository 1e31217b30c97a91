package inspect

import (
	"fmt"
	"log/slog"
	"os"

	"palut/bake"
	"palut/cielab"
	"palut/lut"
	"palut/metric"
	"palut/palette"

	"github.com/alecthomas/kong"
)

type PaletteCmd struct {
	Src      string      `arg:"" help:"Built-in palette name, PAL file in RIFF format, JSON, raw RGB or image file"`
	Quantize int         `help:"Number of colors to extract when the source is a truecolor image" default:"0"`
	Metric   metric.Kind `help:"Color distance metric used for tonal neighbors (cie76, cie94, ciede2000)" default:"ciede2000"`
	Out      string      `help:"Also write the palette as a PAL file in RIFF format" type:"path"`
}

func (c *PaletteCmd) Run(kctx *kong.Context) error {
	pal, err := palette.Load(c.Src, c.Quantize)
	if err != nil {
		return err
	}
	m, err := c.Metric.Metric()
	if err != nil {
		return err
	}

	if err := writeTable(kctx.Stdout, palette.NewIndex(pal, m)); err != nil {
		return err
	}

	if c.Out == "" {
		return nil
	}
	return writePAL(pal, c.Out)
}

func writePAL(pal *palette.Palette, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", dest, err)
	}
	n, err := palette.WriteRIFF(f, pal)
	if err != nil {
		f.Close()
		return fmt.Errorf("could not write palette file %q: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close palette file %q: %w", dest, err)
	}
	slog.Info("saved palette", "file", dest, "colors", pal.Len(), "bytes", n)
	return nil
}

type ProbeCmd struct {
	Colors   []string    `arg:"" help:"Colors to look up, as #RRGGBB or #RGB"`
	Palette  string      `help:"Built-in palette name, PAL file in RIFF format, JSON, raw RGB or image file" required:""`
	Quantize int         `help:"Number of colors to extract when the palette source is a truecolor image" default:"0"`
	Metric   metric.Kind `help:"Color distance metric (cie76, cie94, ciede2000)" default:"ciede2000"`
	Lut      string      `help:"LUT file to sample as well" type:"existingfile" group:"lut"`
	Layers   []lut.Layer `help:"Layers stored in the LUT file" default:"nearest" group:"lut"`
	Meta     lut.Meta    `help:"Metadata stored in the LUT file" default:"spread" group:"lut"`

	colors []cielab.RGB `kong:"-"`
}

func (c *ProbeCmd) Validate(kctx *kong.Context) error {
	c.colors = c.colors[:0]
	for _, s := range c.Colors {
		rgb, err := parseColor(s)
		if err != nil {
			return err
		}
		c.colors = append(c.colors, rgb)
	}
	return nil
}

func (c *ProbeCmd) Run(kctx *kong.Context) error {
	pal, err := palette.Load(c.Palette, c.Quantize)
	if err != nil {
		return err
	}
	m, err := c.Metric.Metric()
	if err != nil {
		return err
	}
	idx := palette.NewIndex(pal, m)

	var l *lut.Lut
	if c.Lut != "" {
		if l, err = bake.Load(c.Lut, c.Layers, c.Meta); err != nil {
			return err
		}
	}

	for _, rgb := range c.colors {
		if err := probe(kctx.Stdout, idx, l, rgb); err != nil {
			return err
		}
	}
	return nil
}
