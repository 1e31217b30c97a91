package palette

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/soniakeys/quant/median"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load resolves a palette source: a built-in palette name, a RIFF .pal file,
// a .json palette, a raw .rgb/.raw triple dump or an image. Images must carry
// a palette unless quantize is positive, in which case truecolor images are
// reduced to that many colors with median cut.
func Load(src string, quantize int) (*Palette, error) {
	if p, ok := Builtin(strings.ToLower(src)); ok {
		return p, nil
	}

	switch strings.ToLower(filepath.Ext(src)) {
	case ".pal":
		data, err := readFile(src)
		if err != nil {
			return nil, err
		}
		return ReadRIFF(bytes.NewReader(data))
	case ".json":
		data, err := readFile(src)
		if err != nil {
			return nil, err
		}
		return ReadJSON(data)
	case ".raw", ".rgb":
		data, err := readFile(src)
		if err != nil {
			return nil, err
		}
		return FromBytes(data)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("could not open palette image %q: %w", src, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode palette image %q: %w", src, err)
	}
	return FromImage(img, quantize)
}

func readFile(src string) ([]byte, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("could not read palette %q (built-in palettes: %s): %w",
			src, strings.Join(BuiltinNames(), ", "), err)
	}
	return data, nil
}

// FromImage takes the color table of a paletted image, or quantizes a
// truecolor image to n colors when n > 0.
func FromImage(img image.Image, n int) (*Palette, error) {
	if pm, ok := img.(*image.Paletted); ok && n <= 0 {
		return FromColors(pm.Palette)
	}

	if n <= 0 {
		return nil, fmt.Errorf("%w: the image does not have a palette", ErrInvalidPalette)
	}

	pal := median.Quantizer(n).Quantize(make(color.Palette, 0, n), img)
	return FromColors(pal)
}
