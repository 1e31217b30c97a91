package lut

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSize is returned for cube resolutions outside [2, 256] and
	// for rasters whose dimensions do not describe a LUT.
	ErrInvalidSize = errors.New("invalid LUT size")
	// ErrInvalidLayers is returned for an empty, duplicated or unknown layer set.
	ErrInvalidLayers = errors.New("invalid LUT layers")
	ErrInvalidMeta   = errors.New("invalid LUT metadata kind")
	// ErrOutOfRange is returned when a query names a layer the LUT was not
	// built with, or a cell outside the cube.
	ErrOutOfRange = errors.New("LUT query out of range")
)

// Layer selects what a LUT slab stores for each cube cell.
type Layer int

const (
	LayerNearest Layer = iota // closest palette color
	LayerSecond               // second closest palette color
	LayerDarker               // closest palette color darker than the nearest one
	LayerLighter              // closest palette color lighter than the nearest one
	LayerSource               // the quantized cube color itself
	numLayers
)

var layerNames = [numLayers]string{
	LayerNearest: "nearest",
	LayerSecond:  "second",
	LayerDarker:  "darker",
	LayerLighter: "lighter",
	LayerSource:  "source",
}

func (l Layer) String() string {
	if l < 0 || l >= numLayers {
		return fmt.Sprintf("Layer(%d)", int(l))
	}
	return layerNames[l]
}

func ParseLayer(s string) (Layer, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range layerNames {
		if n == name {
			return Layer(l), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown layer %q (want one of %s)", ErrInvalidLayers, s, strings.Join(layerNames[:], ", "))
}

func (l *Layer) UnmarshalText(text []byte) error {
	parsed, err := ParseLayer(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLayers parses a comma separated layer list such as "nearest,second".
func ParseLayers(s string) ([]Layer, error) {
	var res []Layer
	for part := range strings.SplitSeq(s, ",") {
		l, err := ParseLayer(part)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, checkLayers(res)
}

func checkLayers(layers []Layer) error {
	if len(layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalidLayers)
	}

	var seen [numLayers]bool
	for _, l := range layers {
		if l < 0 || l >= numLayers {
			return fmt.Errorf("%w: %s", ErrInvalidLayers, l)
		}
		if seen[l] {
			return fmt.Errorf("%w: %s given twice", ErrInvalidLayers, l)
		}
		seen[l] = true
	}
	return nil
}

// Meta selects what the per-cell metadata byte holds.
type Meta int

const (
	// MetaSpread stores a dithering spread that peaks at mid lightness and
	// falls off towards black and white.
	MetaSpread Meta = iota
	// MetaLightness stores the cell's L* scaled to a byte.
	MetaLightness
)

func (m Meta) String() string {
	switch m {
	case MetaSpread:
		return "spread"
	case MetaLightness:
		return "lightness"
	}
	return fmt.Sprintf("Meta(%d)", int(m))
}

func (m *Meta) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "spread":
		*m = MetaSpread
	case "lightness":
		*m = MetaLightness
	default:
		return fmt.Errorf("%w: %q (want spread or lightness)", ErrInvalidMeta, text)
	}
	return nil
}

func (m Meta) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
