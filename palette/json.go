package palette

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/gjson"

	"palut/cielab"
)

// ReadJSON parses a JSON palette. Accepted shapes are a "colors" array (as
// exported by Lospec) or a bare array, with entries given either as hex
// strings ("#rrggbb" or "rrggbb") or as [r, g, b] byte arrays.
func ReadJSON(data []byte) (*Palette, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidPalette)
	}

	doc := gjson.ParseBytes(data)
	list := doc
	if doc.IsObject() {
		list = doc.Get("colors")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: no color list found", ErrInvalidPalette)
	}

	entries := list.Array()
	colors := make([]cielab.RGB, len(entries))
	for i, v := range entries {
		c, err := jsonColor(v)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidPalette, i, err)
		}
		colors[i] = c
	}

	return New(colors)
}

func jsonColor(v gjson.Result) (cielab.RGB, error) {
	switch {
	case v.Type == gjson.String:
		s := v.String()
		if !strings.HasPrefix(s, "#") {
			s = "#" + s
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return cielab.RGB{}, err
		}
		r, g, b := c.RGB255()
		return cielab.RGB{R: r, G: g, B: b}, nil
	case v.IsArray():
		ch := v.Array()
		if len(ch) != 3 {
			return cielab.RGB{}, fmt.Errorf("want 3 channels, got %d", len(ch))
		}
		var res [3]uint8
		for i, c := range ch {
			n := c.Int()
			if c.Type != gjson.Number || n < 0 || n > 255 {
				return cielab.RGB{}, fmt.Errorf("channel %d out of range: %s", i, c.Raw)
			}
			res[i] = uint8(n)
		}
		return cielab.RGB{R: res[0], G: res[1], B: res[2]}, nil
	}
	return cielab.RGB{}, fmt.Errorf("unsupported color value: %s", v.Raw)
}
