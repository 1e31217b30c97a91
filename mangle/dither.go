package mangle

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"

	"palut/dither"
	"palut/palette"
)

// ditherImage runs on a pool worker, so the image itself is processed on the
// calling goroutine.
func ditherImage(logger *slog.Logger, d *dither.Ditherer, pal *palette.Palette, img image.Image) image.Image {
	b := img.Bounds()
	logger.Debug("dithering", "width", b.Dx(), "height", b.Dy(), "indexed", pal != nil)
	if pal != nil {
		return d.Paletted(img, pal, nil)
	}
	return d.Image(img, nil)
}

// parseSpread reads the --spread flag. "auto" leaves the choice to the
// ditherer and yields nil.
func parseSpread(s string) (dither.SpreadFunc, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return nil, nil
	}

	scale, ok := strings.CutPrefix(s, "x")
	if !ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: invalid spread %q", dither.ErrInvalidOptions, s)
		}
		return dither.Fixed(v), nil
	}

	parts := strings.Split(scale, ":")
	if len(parts) != 1 && len(parts) != 3 {
		return nil, fmt.Errorf("%w: invalid spread %q, want xK or xK:LO:HI", dither.ErrInvalidOptions, s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: invalid spread %q", dither.ErrInvalidOptions, s)
		}
		vals[i] = v
	}

	if len(vals) == 1 {
		return dither.Scaled(vals[0]), nil
	}
	if vals[1] > vals[2] {
		return nil, fmt.Errorf("%w: spread bounds %v > %v", dither.ErrInvalidOptions, vals[1], vals[2])
	}
	return dither.Clamped(vals[0], vals[1], vals[2]), nil
}
