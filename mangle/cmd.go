// Package mangle implements the dither command: every image of a folder is
// optionally resized, dithered through a palette LUT and saved.
package mangle

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"

	"palut/bake"
	"palut/dither"
	"palut/lut"
	"palut/palette"
	"palut/parallel"

	"github.com/alecthomas/kong"
	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Scan      string       `help:"Source folder to scan" default:"."`
	Dest      string       `help:"Destination folder for processed pictures. Relative to scan dir if not absolute. If same as scan dir, will overwrite source files." default:"dithered"`
	Resize    bool         `help:"Resize image" default:"false" group:"resize"`
	Width     int          `help:"Max width" group:"resize"`
	Height    int          `help:"Max height" group:"resize"`
	Crop      bool         `help:"Crop image to maintain requested aspect ration" default:"false" group:"resize"`
	Fill      string       `help:"If given and not cropping, will fill background with this color (#RGB or #RRGGBB) to maintain destination aspect ratio" group:"resize"`
	Lut       string       `help:"Prebaked LUT file. --layers and --meta describe its contents, --palette is then only used for indexed output" type:"existingfile" group:"lut"`
	Bake      bake.Options `embed:"" group:"lut"`
	Mode      dither.Mode  `help:"How the dithered color is picked (spread, distance, lightness)" default:"spread" group:"dither"`
	Spread    string       `help:"Spread: auto (from LUT metadata), N (fixed), xK (metadata times K) or xK:LO:HI (clamped)" default:"auto" group:"dither"`
	Format    string       `help:"Output format of dithered image. If prefixed with 'unsup:' will convert only unsupported formats" enum:"same,gif,unsup:gif,jpeg,unsup:jpeg,png,unsup:png,bmp,unsup:bmp,tiff,unsup:tiff" default:"unsup:png"`
	FillColor color.Color  `kong:"-"`

	spread dither.SpreadFunc `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if c.Resize {
		switch {
		case (c.Width < 0):
			return fmt.Errorf("invalid resize width: %d", c.Width)
		case (c.Height < 0):
			return fmt.Errorf("invalid resize height: %d", c.Height)
		case (c.Width == 0) && (c.Height == 0):
			return fmt.Errorf("no resize dimensions given")
		}
	}

	if (!c.Crop) && (c.Fill != "") {
		fill, err := colorful.Hex(c.Fill)
		if err != nil {
			return fmt.Errorf("invalid fill color %q: %w", c.Fill, err)
		}
		c.FillColor = fill.Clamped()
	}

	if c.spread, err = parseSpread(c.Spread); err != nil {
		return err
	}

	if c.Lut == "" {
		if c.Bake.Palette == "" {
			return fmt.Errorf("either --lut or --palette is required")
		}
		if err := c.Bake.Check(); err != nil {
			return err
		}
		if c.Mode != dither.ModeSpread && !slices.Contains(c.Bake.Layers, lut.LayerSecond) {
			c.Bake.Layers = append(c.Bake.Layers, lut.LayerSecond)
		}
	}

	return nil
}

// setup returns the ditherer for the command and, when known, the palette
// the output is indexed against.
func (c *CLICmd) setup(pool *parallel.Pool) (*dither.Ditherer, *palette.Palette, error) {
	m, err := c.Bake.Metric.Metric()
	if err != nil {
		return nil, nil, err
	}

	var (
		l   *lut.Lut
		pal *palette.Palette
	)
	if c.Lut != "" {
		if l, err = bake.Load(c.Lut, c.Bake.Layers, c.Bake.Meta); err != nil {
			return nil, nil, err
		}
		if c.Bake.Palette != "" {
			if pal, err = palette.Load(c.Bake.Palette, c.Bake.Quantize); err != nil {
				return nil, nil, err
			}
		}
	} else {
		var idx *palette.Index
		if l, idx, err = c.Bake.Build(pool, nil); err != nil {
			return nil, nil, err
		}
		pal = idx.Palette()
	}

	d, err := dither.New(l, dither.Options{Mode: c.Mode, Spread: c.spread, Metric: m})
	if err != nil {
		return nil, nil, err
	}
	if pal != nil && pal.Len() > 256 {
		slog.Warn("palette too large for indexed output, saving truecolor", "colors", pal.Len())
		pal = nil
	}
	return d, pal, nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	d, pal, err := c.setup(pool)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var processedCount, errCount atomic.Uint64
	batch := pool.Batch()
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		batch.Do(func() {
			fileName := file.Name()
			filePath := filepath.Join(c.Scan, fileName)
			logger := slog.Default().With("file", filePath)

			img, imgType, err := decode(filePath)
			if err != nil {
				errCount.Add(1)
				logger.Error("could not decode image", "error", err)
				return
			}

			if c.Resize {
				img, err = resize(logger, img, c.Width, c.Height, c.Crop, c.FillColor)
				if err != nil {
					errCount.Add(1)
					logger.Error("could not resize image", "error", err)
					return
				}
			}

			img = ditherImage(logger, d, pal, img)

			if err = save(img, imgType, c.Format, c.Dest, fileName); err != nil {
				errCount.Add(1)
				logger.Error("could not save image", "dir", c.Dest, "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	batch.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func decode(filePath string) (image.Image, string, error) {
	imgFile, err := os.Open(filePath)
	if err != nil {
		return nil, "", err
	}
	defer imgFile.Close()

	return image.Decode(imgFile)
}
