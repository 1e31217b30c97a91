package palette

import (
	"maps"
	"slices"

	"palut/cielab"
)

func hexColors(v ...uint32) []cielab.RGB {
	res := make([]cielab.RGB, len(v))
	for i, c := range v {
		res[i] = cielab.RGB{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c)}
	}
	return res
}

var builtins = map[string][]cielab.RGB{
	"bw":    hexColors(0x000000, 0xffffff),
	"gray4": hexColors(0x000000, 0x555555, 0xaaaaaa, 0xffffff),
	// DMG green shades
	"gameboy": hexColors(0x0f380f, 0x306230, 0x8bac0f, 0x9bbc0f),
	"cga": hexColors(
		0x000000, 0x0000aa, 0x00aa00, 0x00aaaa, 0xaa0000, 0xaa00aa, 0xaa5500, 0xaaaaaa,
		0x555555, 0x5555ff, 0x55ff55, 0x55ffff, 0xff5555, 0xff55ff, 0xffff55, 0xffffff,
	),
	// Pepto's measurements
	"c64": hexColors(
		0x000000, 0xffffff, 0x68372b, 0x70a4b2, 0x6f3d86, 0x588d43, 0x352879, 0xb8c76f,
		0x6f4f25, 0x433900, 0x9a6759, 0x444444, 0x6c6c6c, 0x9ad284, 0x6c5eb5, 0x959595,
	),
	"pico8": hexColors(
		0x000000, 0x1d2b53, 0x7e2553, 0x008751, 0xab5236, 0x5f574f, 0xc2c3c7, 0xfff1e8,
		0xff004d, 0xffa300, 0xffec27, 0x00e436, 0x29adff, 0x83769c, 0xff77a8, 0xffccaa,
	),
}

// Builtin returns a named built-in palette.
func Builtin(name string) (*Palette, bool) {
	colors, ok := builtins[name]
	if !ok {
		return nil, false
	}
	p, err := New(colors)
	if err != nil {
		return nil, false
	}
	return p, true
}

// BuiltinNames lists the built-in palettes in alphabetical order.
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(builtins))
}
