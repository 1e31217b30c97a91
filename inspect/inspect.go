// Package inspect implements the palette and probe commands, which print how
// a palette and its LUT see colors.
package inspect

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"palut/cielab"
	"palut/lut"
	"palut/palette"

	"github.com/lucasb-eyer/go-colorful"
)

func hex(c cielab.RGB) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// parseColor reads #RRGGBB or #RGB, the leading # being optional.
func parseColor(s string) (cielab.RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return cielab.RGB{}, fmt.Errorf("invalid color %q, want #RGB or #RRGGBB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return cielab.RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return cielab.RGB{R: r, G: g, B: b}, nil
}

func writeTable(w io.Writer, idx *palette.Index) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "index\tcolor\tL*\ta*\tb*\tdarker\tlighter")

	pal := idx.Palette()
	for i := range pal.Len() {
		e := pal.Entry(i)
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%d\t%d\n", i, hex(e.RGB),
			e.Lab.L, e.Lab.A, e.Lab.B, idx.Darker(i).Index, idx.Lighter(i).Index)
	}
	return tw.Flush()
}

func probe(w io.Writer, idx *palette.Index, l *lut.Lut, c cielab.RGB) error {
	lab := c.Lab()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tL*=%.2f a*=%.2f b*=%.2f\n", hex(c), lab.L, lab.A, lab.B)

	first, second, darker, lighter := idx.NearestWithNeighbors(c)
	for _, m := range []struct {
		name  string
		match palette.Match
	}{
		{"nearest", first},
		{"second", second},
		{"darker", darker},
		{"lighter", lighter},
	} {
		fmt.Fprintf(tw, "  %s\t%d\t%s\tdE %.3f\n", m.name, m.match.Index, hex(m.match.RGB), m.match.Distance)
	}

	if l != nil {
		r, g, b := l.CellOf(c.R), l.CellOf(c.G), l.CellOf(c.B)
		for _, layer := range l.Layers() {
			cell, err := l.Sample(c, layer)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "  lut %s\t(%d,%d,%d)\t%s\t%s %d\n", layer, r, g, b, hex(cell.Color), l.Meta(), cell.Meta)
		}
	}
	return tw.Flush()
}
