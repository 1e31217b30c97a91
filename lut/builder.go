package lut

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"palut/cielab"
	"palut/palette"
	"palut/parallel"
)

const (
	DefaultMinSpread = 0
	DefaultMaxSpread = 120
)

// Builder enumerates the quantized RGB cube and fills the requested layers
// from a palette index.
type Builder struct {
	Index  *palette.Index
	Size   int
	Layers []Layer
	Meta   Meta

	// spread curve bounds, used with MetaSpread
	MinSpread float64
	MaxSpread float64

	// Progress, when set, is called after every finished blue slab, possibly
	// from several goroutines at once.
	Progress func()
}

// NewBuilder returns a builder storing spread metadata with the default bounds.
func NewBuilder(idx *palette.Index, size int, layers ...Layer) *Builder {
	return &Builder{
		Index:     idx,
		Size:      size,
		Layers:    layers,
		Meta:      MetaSpread,
		MinSpread: DefaultMinSpread,
		MaxSpread: DefaultMaxSpread,
	}
}

// GridValue is the channel value represented by cube coordinate i:
// round(i * 255 / (size-1)).
func GridValue(i, size int) uint8 {
	return uint8(math.Round(float64(i) * 255 / float64(size-1)))
}

// GridAligned reports whether every grid value of a cube of the given size
// addresses back to its own cell. Only for such sizes does sampling a grid
// color return exactly the cell built for it.
func GridAligned(size int) bool {
	if size < 2 || size > MaxSize {
		return false
	}
	for i := range size {
		if int(GridValue(i, size))*size>>8 != i {
			return false
		}
	}
	return true
}

// LightnessByte scales L* from [0, 100] to a byte.
func LightnessByte(lab cielab.Lab) uint8 {
	return clampByte(lab.L / 100 * 255)
}

// SpreadByte evaluates minSpread + (maxSpread-minSpread) * (1 - (2L/100 - 1)^4).
func SpreadByte(lab cielab.Lab, minSpread, maxSpread float64) uint8 {
	t := 2*lab.L/100 - 1
	t *= t
	return clampByte(minSpread + (maxSpread-minSpread)*(1-t*t))
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return uint8(v)
}

func (b *Builder) metaByte(lab cielab.Lab) uint8 {
	if b.Meta == MetaLightness {
		return LightnessByte(lab)
	}
	return SpreadByte(lab, b.MinSpread, b.MaxSpread)
}

// Build computes the table. A nil pool builds on the calling goroutine.
func (b *Builder) Build(pool *parallel.Pool) (*Lut, error) {
	if b.Index == nil {
		return nil, errors.New("LUT builder has no palette index")
	}
	if b.Meta != MetaSpread && b.Meta != MetaLightness {
		return nil, ErrInvalidMeta
	}

	l, err := newLut(b.Size, b.Layers, b.Meta)
	if err != nil {
		return nil, err
	}

	size := b.Size
	if !GridAligned(size) {
		slog.Warn("grid colors of this LUT size do not sample back to their own cells", "size", size)
	}

	query := b.query()
	start := time.Now()
	parallel.For(pool, size, func(lo, hi int) {
		for bz := lo; bz < hi; bz++ {
			for g := range size {
				for r := range size {
					c := cielab.RGB{R: GridValue(r, size), G: GridValue(g, size), B: GridValue(bz, size)}
					colors := query(c)
					meta := b.metaByte(cielab.FromRGB(c))
					for slot, layer := range l.layers {
						l.set(r, g, bz, slot, Cell{Color: colors[layer], Meta: meta})
					}
				}
			}
			if b.Progress != nil {
				b.Progress()
			}
		}
	})

	slog.Debug("built LUT", "size", size, "layers", l.layers, "meta", b.Meta,
		"colors", b.Index.Palette().Len(), "elapsed", time.Since(start))
	return l, nil
}

// query returns the cheapest index lookup that covers the requested layers.
func (b *Builder) query() func(cielab.RGB) [numLayers]cielab.RGB {
	var want [numLayers]bool
	for _, l := range b.Layers {
		want[l] = true
	}
	idx := b.Index

	switch {
	case want[LayerDarker] || want[LayerLighter]:
		return func(c cielab.RGB) (res [numLayers]cielab.RGB) {
			first, second, darker, lighter := idx.NearestWithNeighbors(c)
			res[LayerNearest], res[LayerSecond] = first.RGB, second.RGB
			res[LayerDarker], res[LayerLighter] = darker.RGB, lighter.RGB
			res[LayerSource] = c
			return res
		}
	case want[LayerSecond]:
		return func(c cielab.RGB) (res [numLayers]cielab.RGB) {
			first, second := idx.NearestTwo(c)
			res[LayerNearest], res[LayerSecond] = first.RGB, second.RGB
			res[LayerSource] = c
			return res
		}
	case want[LayerNearest]:
		return func(c cielab.RGB) (res [numLayers]cielab.RGB) {
			res[LayerNearest] = idx.Nearest(c).RGB
			res[LayerSource] = c
			return res
		}
	}

	return func(c cielab.RGB) (res [numLayers]cielab.RGB) {
		res[LayerSource] = c
		return res
	}
}
