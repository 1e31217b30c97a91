// Package lut bakes palette matching into a lookup table over a quantized
// RGB cube and serves O(1) lookups from it.
//
// A LUT of resolution size with k layers is stored as a size*size by k*size
// NRGBA raster. Layer L occupies rows [L*size, (L+1)*size). Within a layer,
// cell (r, g, b) is the pixel (r + b*size, g). The alpha channel holds the
// cell's metadata byte.
package lut

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"palut/cielab"
)

const MaxSize = 256

// Lut is an immutable lookup table. It is safe for concurrent use.
type Lut struct {
	size   int
	layers []Layer
	slots  [numLayers]int
	meta   Meta
	img    *image.NRGBA
}

// Cell is what a LUT stores per cube cell and layer.
type Cell struct {
	Color cielab.RGB
	Meta  uint8
}

func newLut(size int, layers []Layer, meta Meta) (*Lut, error) {
	if size < 2 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (want 2 to %d)", ErrInvalidSize, size, MaxSize)
	}
	if err := checkLayers(layers); err != nil {
		return nil, err
	}

	l := &Lut{
		size:   size,
		layers: append([]Layer(nil), layers...),
		meta:   meta,
		img:    image.NewNRGBA(image.Rect(0, 0, size*size, len(layers)*size)),
	}
	for i := range l.slots {
		l.slots[i] = -1
	}
	for slot, layer := range layers {
		l.slots[layer] = slot
	}
	return l, nil
}

// FromImage restores a LUT from its raster. The layer list and metadata kind
// are not part of the raster and must match what the LUT was built with.
func FromImage(img image.Image, layers []Layer, meta Meta) (*Lut, error) {
	if err := checkLayers(layers); err != nil {
		return nil, err
	}

	b := img.Bounds()
	k := len(layers)
	if b.Dy()%k != 0 {
		return nil, fmt.Errorf("%w: height %d is not a multiple of %d layers", ErrInvalidSize, b.Dy(), k)
	}
	size := b.Dy() / k
	if b.Dx() != size*size {
		return nil, fmt.Errorf("%w: width %d does not match %d layers of height %d", ErrInvalidSize, b.Dx(), k, size)
	}

	l, err := newLut(size, layers, meta)
	if err != nil {
		return nil, err
	}

	if src, ok := img.(*image.NRGBA); ok {
		for y := range l.img.Rect.Dy() {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(l.img.Pix[y*l.img.Stride:(y+1)*l.img.Stride], row)
		}
	} else {
		draw.Draw(l.img, l.img.Rect, img, b.Min, draw.Src)
	}
	return l, nil
}

func (l *Lut) Size() int {
	return l.size
}

func (l *Lut) Meta() Meta {
	return l.meta
}

// Layers returns the stored layers in raster order.
func (l *Lut) Layers() []Layer {
	return append([]Layer(nil), l.layers...)
}

// Image returns the backing raster for persistence. It must not be modified.
func (l *Lut) Image() *image.NRGBA {
	return l.img
}

// Slot returns the raster band of layer.
func (l *Lut) Slot(layer Layer) (int, error) {
	if layer < 0 || layer >= numLayers || l.slots[layer] < 0 {
		return 0, fmt.Errorf("%w: layer %s not in %v", ErrOutOfRange, layer, l.layers)
	}
	return l.slots[layer], nil
}

// Has reports whether layer was built.
func (l *Lut) Has(layer Layer) bool {
	_, err := l.Slot(layer)
	return err == nil
}

// CellOf returns the cube coordinate an 8-bit channel value falls into:
// floor(v / 256 * size).
func (l *Lut) CellOf(v uint8) int {
	return int(v) * l.size >> 8
}

// Sample looks up an arbitrary color in the cube cell containing it.
func (l *Lut) Sample(c cielab.RGB, layer Layer) (Cell, error) {
	slot, err := l.Slot(layer)
	if err != nil {
		return Cell{}, err
	}
	return l.SampleSlot(c, slot), nil
}

// SampleSlot is Sample for a slot obtained from Slot. It does no checking.
func (l *Lut) SampleSlot(c cielab.RGB, slot int) Cell {
	return l.cell(l.CellOf(c.R), l.CellOf(c.G), l.CellOf(c.B), slot)
}

// At returns the cell at cube coordinates (r, g, b).
func (l *Lut) At(r, g, b int, layer Layer) (Cell, error) {
	slot, err := l.Slot(layer)
	if err != nil {
		return Cell{}, err
	}
	if !l.inCube(r, g, b) {
		return Cell{}, fmt.Errorf("%w: cell (%d, %d, %d) outside a cube of size %d", ErrOutOfRange, r, g, b, l.size)
	}
	return l.cell(r, g, b, slot), nil
}

// UV returns the normalized raster coordinate of the center of the pixel
// holding c, as a texture sampler would address it.
func (l *Lut) UV(c cielab.RGB, layer Layer) (u, v float64, err error) {
	slot, err := l.Slot(layer)
	if err != nil {
		return 0, 0, err
	}
	x, y := l.pixel(l.CellOf(c.R), l.CellOf(c.G), l.CellOf(c.B), slot)
	b := l.img.Rect
	return (float64(x) + 0.5) / float64(b.Dx()), (float64(y) + 0.5) / float64(b.Dy()), nil
}

func (l *Lut) inCube(r, g, b int) bool {
	return r >= 0 && r < l.size && g >= 0 && g < l.size && b >= 0 && b < l.size
}

func (l *Lut) pixel(r, g, b, slot int) (int, int) {
	return r + b*l.size, g + slot*l.size
}

func (l *Lut) cell(r, g, b, slot int) Cell {
	x, y := l.pixel(r, g, b, slot)
	p := l.img.Pix[y*l.img.Stride+x*4:]
	return Cell{
		Color: cielab.RGB{R: p[0], G: p[1], B: p[2]},
		Meta:  p[3],
	}
}

func (l *Lut) set(r, g, b, slot int, c Cell) {
	x, y := l.pixel(r, g, b, slot)
	p := l.img.Pix[y*l.img.Stride+x*4:]
	p[0], p[1], p[2], p[3] = c.Color.R, c.Color.G, c.Color.B, c.Meta
}
