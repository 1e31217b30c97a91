// Package palette holds fixed color palettes and answers perceptual
// nearest-color queries against them.
package palette

import (
	"errors"
	"fmt"
	"image/color"

	"palut/cielab"
)

// ErrInvalidPalette is returned for empty palettes and malformed palette sources.
var ErrInvalidPalette = errors.New("invalid palette")

// Palette is an immutable ordered list of colors. The position of a color is
// its palette index.
type Palette struct {
	rgb []cielab.RGB
	lab []cielab.Lab
}

// Entry is a palette color together with its index and precomputed Lab value.
type Entry struct {
	Index int
	RGB   cielab.RGB
	Lab   cielab.Lab
}

func New(colors []cielab.RGB) (*Palette, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: no colors", ErrInvalidPalette)
	}

	p := &Palette{
		rgb: make([]cielab.RGB, len(colors)),
		lab: make([]cielab.Lab, len(colors)),
	}
	copy(p.rgb, colors)
	for i, c := range p.rgb {
		p.lab[i] = cielab.FromRGB(c)
	}
	return p, nil
}

// FromBytes reads a flat r, g, b, r, g, b, ... sequence.
func FromBytes(b []byte) (*Palette, error) {
	if len(b)%3 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of RGB triples", ErrInvalidPalette, len(b))
	}

	colors := make([]cielab.RGB, len(b)/3)
	for i := range colors {
		colors[i] = cielab.RGB{R: b[3*i], G: b[3*i+1], B: b[3*i+2]}
	}
	return New(colors)
}

func FromColors(pal color.Palette) (*Palette, error) {
	colors := make([]cielab.RGB, len(pal))
	for i, c := range pal {
		colors[i] = cielab.Convert(c)
	}
	return New(colors)
}

func (p *Palette) Len() int {
	return len(p.rgb)
}

func (p *Palette) Entry(i int) Entry {
	return Entry{Index: i, RGB: p.rgb[i], Lab: p.lab[i]}
}

func (p *Palette) RGB(i int) cielab.RGB {
	return p.rgb[i]
}

func (p *Palette) Lab(i int) cielab.Lab {
	return p.lab[i]
}

// Colors returns a copy of the palette as a standard library palette, ready
// for image.NewPaletted.
func (p *Palette) Colors() color.Palette {
	pal := make(color.Palette, len(p.rgb))
	for i, c := range p.rgb {
		pal[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}
	return pal
}

// Bytes is the inverse of FromBytes.
func (p *Palette) Bytes() []byte {
	b := make([]byte, 0, 3*len(p.rgb))
	for _, c := range p.rgb {
		b = append(b, c.R, c.G, c.B)
	}
	return b
}
