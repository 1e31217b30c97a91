// Package bake turns a palette source into a LUT raster file.
package bake

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"palut/lut"
	"palut/metric"
	"palut/palette"
	"palut/parallel"
)

// Options describe how a LUT is built. They are shared by every command
// that can bake a LUT on the fly.
type Options struct {
	Palette   string      `help:"Built-in palette name, PAL file in RIFF format, JSON, raw RGB or image file"`
	Quantize  int         `help:"Number of colors to extract when the palette source is a truecolor image" default:"0"`
	Metric    metric.Kind `help:"Color distance metric (cie76, cie94, ciede2000)" default:"ciede2000"`
	Size      int         `help:"LUT resolution per RGB channel" default:"64"`
	Layers    []lut.Layer `help:"Layers to store (nearest, second, darker, lighter, source)" default:"nearest"`
	Meta      lut.Meta    `help:"Metadata stored in the alpha channel (spread, lightness)" default:"spread"`
	MinSpread float64     `help:"Spread given to the darkest and lightest colors" default:"0"`
	MaxSpread float64     `help:"Spread given to mid lightness colors" default:"120"`
}

// Check reports option combinations that cannot produce a LUT.
func (o *Options) Check() error {
	switch {
	case o.Palette == "":
		return errors.New("no palette given")
	case o.Quantize < 0:
		return fmt.Errorf("invalid color count: %d", o.Quantize)
	case o.Size < 2 || o.Size > lut.MaxSize:
		return fmt.Errorf("%w: %d", lut.ErrInvalidSize, o.Size)
	case o.MinSpread > o.MaxSpread:
		return fmt.Errorf("min spread %v is above max spread %v", o.MinSpread, o.MaxSpread)
	}
	return nil
}

// Index loads the palette and indexes it under the chosen metric.
func (o *Options) Index() (*palette.Index, error) {
	pal, err := palette.Load(o.Palette, o.Quantize)
	if err != nil {
		return nil, err
	}
	m, err := o.Metric.Metric()
	if err != nil {
		return nil, err
	}
	return palette.NewIndex(pal, m), nil
}

// Build loads the palette and bakes the LUT. progress, if not nil, is called
// once per finished blue slab, Size times in total.
func (o *Options) Build(pool *parallel.Pool, progress func()) (*lut.Lut, *palette.Index, error) {
	idx, err := o.Index()
	if err != nil {
		return nil, nil, err
	}

	slog.Info("baking LUT", "palette", o.Palette, "colors", idx.Palette().Len(),
		"metric", o.Metric, "size", o.Size, "layers", o.Layers, "meta", o.Meta)

	b := lut.NewBuilder(idx, o.Size, o.Layers...)
	b.Meta = o.Meta
	b.MinSpread = o.MinSpread
	b.MaxSpread = o.MaxSpread
	b.Progress = progress

	l, err := b.Build(pool)
	if err != nil {
		return nil, nil, err
	}
	return l, idx, nil
}

// Save writes the LUT raster as a PNG file, replacing dest only once the
// file is complete.
func Save(l *lut.Lut, dest string) (err error) {
	out, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest))
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", dest, err)
	}
	canRename := false
	defer func() {
		if defErr := out.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination for %q: %w", dest, defErr)
		}
		if canRename && err == nil {
			if defErr := os.Rename(out.Name(), dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", dest, defErr)
			}
		}
		if err != nil {
			os.Remove(out.Name())
		}
	}()

	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err = enc.Encode(out, l.Image()); err != nil {
		return fmt.Errorf("could not encode LUT %q: %w", dest, err)
	}
	if err = out.Sync(); err != nil {
		return fmt.Errorf("could not flush LUT %q: %w", dest, err)
	}

	canRename = true
	return nil
}

// Load reads a LUT raster written by Save, or by any tool using the same
// layout. layers and meta describe what the raster holds.
func Load(src string, layers []lut.Layer, meta lut.Meta) (*lut.Lut, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("could not open LUT %q: %w", src, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode LUT %q: %w", src, err)
	}

	l, err := lut.FromImage(img, layers, meta)
	if err != nil {
		return nil, fmt.Errorf("LUT %q: %w", src, err)
	}
	slog.Debug("loaded LUT", "file", src, "size", l.Size(), "layers", layers, "meta", meta)
	return l, nil
}
