package dither

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"

	"palut/cielab"
	"palut/lut"
	"palut/metric"
	"palut/palette"
	"palut/parallel"
)

// ErrInvalidOptions is returned when the options do not fit the LUT.
var ErrInvalidOptions = errors.New("invalid dither options")

// Mode selects how a perturbed pixel is resolved to a palette color.
type Mode int

const (
	// ModeSpread looks the perturbed color up in the nearest layer.
	ModeSpread Mode = iota
	// ModeDistance looks the perturbed color up in the nearest and second
	// layers and keeps whichever is perceptually closer to the source color.
	ModeDistance
	// ModeLightness looks the perturbed color up in the nearest and second
	// layers and picks second when the source color's lightness lies further
	// than the pixel's threshold of the way from nearest to second.
	ModeLightness
)

var modeNames = [...]string{
	ModeSpread:    "spread",
	ModeDistance:  "distance",
	ModeLightness: "lightness",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m *Mode) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range modeNames {
		if n == name {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown mode %q (want one of %s)", ErrInvalidOptions, text, strings.Join(modeNames[:], ", "))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type Options struct {
	Mode Mode
	// Spread defaults to Direct for spread metadata and to Scaled(0.5) for
	// lightness metadata.
	Spread SpreadFunc
	// Metric is required by ModeDistance.
	Metric metric.Metric
}

// Ditherer maps pixels to palette colors through a LUT. It is immutable and
// safe for concurrent use.
type Ditherer struct {
	lut     *lut.Lut
	mode    Mode
	spread  SpreadFunc
	metric  metric.Metric
	nearest int
	second  int
}

func New(l *lut.Lut, opts Options) (*Ditherer, error) {
	d := &Ditherer{
		lut:    l,
		mode:   opts.Mode,
		spread: opts.Spread,
		metric: opts.Metric,
	}

	var err error
	if d.nearest, err = l.Slot(lut.LayerNearest); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	switch d.mode {
	case ModeSpread:
	case ModeDistance, ModeLightness:
		if d.second, err = l.Slot(lut.LayerSecond); err != nil {
			return nil, fmt.Errorf("%w: mode %s: %w", ErrInvalidOptions, d.mode, err)
		}
		if d.mode == ModeDistance && d.metric == nil {
			return nil, fmt.Errorf("%w: mode %s needs a metric", ErrInvalidOptions, d.mode)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidOptions, d.mode)
	}

	if d.spread == nil {
		if l.Meta() == lut.MetaLightness {
			d.spread = Scaled(0.5)
		} else {
			d.spread = Direct
		}
	}

	return d, nil
}

// Pixel returns the palette color for color c at pixel (x, y).
func (d *Ditherer) Pixel(c cielab.RGB, x, y int) cielab.RGB {
	threshold := Threshold(x, y)
	cell := d.lut.SampleSlot(c, d.nearest)
	offset := d.spread(cell.Meta) * threshold
	p := cielab.RGB{
		R: perturb(c.R, offset),
		G: perturb(c.G, offset),
		B: perturb(c.B, offset),
	}

	first := d.lut.SampleSlot(p, d.nearest).Color
	if d.mode == ModeSpread {
		return first
	}

	second := d.lut.SampleSlot(p, d.second).Color
	if first == second {
		return first
	}

	orig := cielab.FromRGB(c)
	l1, l2 := cielab.FromRGB(first), cielab.FromRGB(second)

	if d.mode == ModeDistance {
		if d.metric.Distance(l2, orig) < d.metric.Distance(l1, orig) {
			return second
		}
		return first
	}

	den := l2.L - l1.L
	if den == 0 {
		return first
	}
	if (orig.L-l1.L)/den > threshold+0.5 {
		return second
	}
	return first
}

// perturb adds offset to an 8-bit channel, clamps to [0, 255] and truncates.
func perturb(v uint8, offset float64) uint8 {
	f := float64(v) + offset
	if f <= 0 {
		return 0
	} else if f >= 255 {
		return 255
	}
	return uint8(f)
}

// Image dithers img. The result has img's size with its origin at (0, 0);
// thresholds follow the destination coordinates. Alpha is carried over
// unchanged. Rows are spread over pool, a nil pool works inline.
func (d *Ditherer) Image(img image.Image, pool *parallel.Pool) *image.NRGBA {
	sb := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		for y := range sb.Dy() {
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[src.PixOffset(sb.Min.X, sb.Min.Y+y):])
		}
	} else {
		draw.Draw(dst, dst.Rect, img, sb.Min, draw.Src)
	}

	w := sb.Dx()
	parallel.For(pool, sb.Dy(), func(lo, hi int) {
		for y := lo; y < hi; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
			for x := range w {
				px := row[4*x : 4*x+3]
				c := d.Pixel(cielab.RGB{R: px[0], G: px[1], B: px[2]}, x, y)
				px[0], px[1], px[2] = c.R, c.G, c.B
			}
		}
	})

	return dst
}

// Paletted dithers img and stores the result as indices into pal, which
// must hold at most 256 colors. Alpha is dropped. Colors missing from pal
// fall back to their closest entry.
func (d *Ditherer) Paletted(img image.Image, pal *palette.Palette, pool *parallel.Pool) *image.Paletted {
	out := d.Image(img, pool)
	pm := image.NewPaletted(out.Rect, pal.Colors())

	lookup := make(map[cielab.RGB]uint8, pal.Len())
	for i := pal.Len() - 1; i >= 0; i-- {
		lookup[pal.RGB(i)] = uint8(i)
	}

	w, h := out.Rect.Dx(), out.Rect.Dy()
	for y := range h {
		src := out.Pix[y*out.Stride:]
		dst := pm.Pix[y*pm.Stride:]
		for x := range w {
			c := cielab.RGB{R: src[4*x], G: src[4*x+1], B: src[4*x+2]}
			i, ok := lookup[c]
			if !ok {
				i = uint8(pm.Palette.Index(c))
			}
			dst[x] = i
		}
	}
	return pm
}
