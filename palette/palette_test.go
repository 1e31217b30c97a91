package palette

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"palut/cielab"
	"palut/metric"
)

var metrics = []struct {
	name string
	m    metric.Metric
}{
	{"cie76", metric.CIE76{}},
	{"cie94", metric.CIE94{}},
	{"ciede2000", metric.CIEDE2000{}},
}

func mustBuiltin(t *testing.T, name string) *Palette {
	t.Helper()
	p, ok := Builtin(name)
	if !ok {
		t.Fatalf("missing built-in palette %q", name)
	}
	return p
}

func TestFromBytes(t *testing.T) {
	p, err := FromBytes([]byte{0, 0, 0, 255, 255, 255})
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 2 || p.RGB(1) != (cielab.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("FromBytes gave %d colors, second %v", p.Len(), p.RGB(1))
	}
	if !bytes.Equal(p.Bytes(), []byte{0, 0, 0, 255, 255, 255}) {
		t.Errorf("Bytes() = %v", p.Bytes())
	}

	for _, bad := range [][]byte{nil, {}, {1, 2}, {1, 2, 3, 4}} {
		if _, err := FromBytes(bad); !errors.Is(err, ErrInvalidPalette) {
			t.Errorf("FromBytes(%v) error = %v, want ErrInvalidPalette", bad, err)
		}
	}
}

func TestNewPrecomputesLab(t *testing.T) {
	p := mustBuiltin(t, "c64")
	for i := range p.Len() {
		e := p.Entry(i)
		if e.Index != i || e.Lab != cielab.FromRGB(e.RGB) || p.Lab(i) != e.Lab {
			t.Fatalf("entry %d inconsistent: %+v", i, e)
		}
	}
	if got := len(p.Colors()); got != p.Len() {
		t.Errorf("Colors() has %d entries", got)
	}
}

func TestNewCopiesInput(t *testing.T) {
	in := []cielab.RGB{{R: 1, G: 2, B: 3}}
	p, err := New(in)
	if err != nil {
		t.Fatal(err)
	}
	in[0] = cielab.RGB{}
	if p.RGB(0) != (cielab.RGB{R: 1, G: 2, B: 3}) {
		t.Errorf("palette changed with its input slice")
	}
}

func TestNearestIsSelf(t *testing.T) {
	for _, name := range BuiltinNames() {
		p := mustBuiltin(t, name)
		for _, tc := range metrics {
			idx := NewIndex(p, tc.m)
			for i := range p.Len() {
				m := idx.Nearest(p.RGB(i))
				if m.RGB != p.RGB(i) || m.Distance != 0 {
					t.Errorf("%s/%s: Nearest(%v) = %+v", name, tc.name, p.RGB(i), m)
				}
			}
		}
	}
}

func TestNearestTieGoesToLowestIndex(t *testing.T) {
	p, err := New([]cielab.RGB{{R: 10, G: 10, B: 10}, {R: 200, G: 0, B: 0}, {R: 10, G: 10, B: 10}})
	if err != nil {
		t.Fatal(err)
	}
	idx := NewIndex(p, metric.CIE76{})
	if m := idx.Nearest(cielab.RGB{R: 12, G: 12, B: 12}); m.Index != 0 {
		t.Errorf("Nearest picked index %d, want 0", m.Index)
	}

	first, second := idx.NearestTwo(cielab.RGB{R: 12, G: 12, B: 12})
	if first.Index != 0 || second.Index != 2 {
		t.Errorf("NearestTwo = %d, %d; want 0, 2", first.Index, second.Index)
	}
}

func TestNearestTwo(t *testing.T) {
	p := mustBuiltin(t, "gray4")
	idx := NewIndex(p, metric.CIEDE2000{})

	first, second := idx.NearestTwo(cielab.RGB{R: 0x60, G: 0x60, B: 0x60})
	if first.RGB != (cielab.RGB{R: 0x55, G: 0x55, B: 0x55}) || second.RGB != (cielab.RGB{R: 0xaa, G: 0xaa, B: 0xaa}) {
		t.Errorf("NearestTwo = %v, %v", first.RGB, second.RGB)
	}
	if first.Distance > second.Distance {
		t.Errorf("first is farther than second: %v > %v", first.Distance, second.Distance)
	}
}

func TestNearestTwoSingleColor(t *testing.T) {
	p, err := New([]cielab.RGB{{R: 7, G: 8, B: 9}})
	if err != nil {
		t.Fatal(err)
	}
	idx := NewIndex(p, metric.CIE94{})
	first, second := idx.NearestTwo(cielab.RGB{R: 200, G: 100, B: 0})
	if first.Index != 0 || second.Index != 0 || first.Distance != second.Distance {
		t.Errorf("NearestTwo = %+v, %+v", first, second)
	}

	_, _, darker, lighter := idx.NearestWithNeighbors(cielab.RGB{R: 1, G: 1, B: 1})
	if darker.Index != 0 || lighter.Index != 0 {
		t.Errorf("neighbors of a single color = %d, %d", darker.Index, lighter.Index)
	}
}

func TestNeighborTable(t *testing.T) {
	for _, name := range BuiltinNames() {
		p := mustBuiltin(t, name)
		for _, tc := range metrics {
			idx := NewIndex(p, tc.m)
			for j := range p.Len() {
				lj := p.Lab(j).L

				dk := idx.Darker(j)
				if dk.Index != j && !(dk.Lab.L < lj) {
					t.Errorf("%s/%s: darker(%d) = %d has L* %v >= %v", name, tc.name, j, dk.Index, dk.Lab.L, lj)
				}
				lt := idx.Lighter(j)
				if lt.Index != j && !(lt.Lab.L > lj) {
					t.Errorf("%s/%s: lighter(%d) = %d has L* %v <= %v", name, tc.name, j, lt.Index, lt.Lab.L, lj)
				}
			}
		}
	}
}

func TestNeighborTableEndpoints(t *testing.T) {
	p := mustBuiltin(t, "gray4")
	idx := NewIndex(p, metric.CIE76{})

	wantDarker := []int{0, 0, 1, 2}
	wantLighter := []int{1, 2, 3, 3}
	for j := range p.Len() {
		if got := idx.Darker(j).Index; got != wantDarker[j] {
			t.Errorf("Darker(%d) = %d, want %d", j, got, wantDarker[j])
		}
		if got := idx.Lighter(j).Index; got != wantLighter[j] {
			t.Errorf("Lighter(%d) = %d, want %d", j, got, wantLighter[j])
		}
	}

	first, _, darker, lighter := idx.NearestWithNeighbors(cielab.RGB{R: 0x50, G: 0x50, B: 0x50})
	if first.Index != 1 || darker.Index != 0 || lighter.Index != 2 {
		t.Errorf("NearestWithNeighbors = %d, %d, %d", first.Index, darker.Index, lighter.Index)
	}
	if darker.Distance != (metric.CIE76{}).Distance(darker.Lab, cielab.FromRGB(cielab.RGB{R: 0x50, G: 0x50, B: 0x50})) {
		t.Errorf("darker distance not measured from the query: %v", darker.Distance)
	}
}

func TestRIFFRoundTrip(t *testing.T) {
	p := mustBuiltin(t, "pico8")

	var buf bytes.Buffer
	n, err := WriteRIFF(&buf, p)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) || n != int64(24+4*p.Len()) {
		t.Errorf("WriteRIFF wrote %d bytes, buffer has %d", n, buf.Len())
	}

	back, err := ReadRIFF(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back.Bytes(), p.Bytes()) {
		t.Errorf("RIFF round trip changed colors:\n got %v\nwant %v", back.Bytes(), p.Bytes())
	}
}

func TestReadRIFFRejectsGarbage(t *testing.T) {
	if _, err := ReadRIFF(bytes.NewReader([]byte("RIFF\x04\x00\x00\x00WAVE"))); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("ReadRIFF(WAVE) error = %v", err)
	}
	if _, err := ReadRIFF(bytes.NewReader([]byte("nope"))); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("ReadRIFF(nope) error = %v", err)
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []byte
	}{
		{"lospec", `{"name":"duo","colors":["000000","ffffff"]}`, []byte{0, 0, 0, 255, 255, 255}},
		{"hash", `["#ff0000", "#00f"]`, []byte{255, 0, 0, 0, 0, 255}},
		{"triples", `{"colors":[[1,2,3],[4,5,6]]}`, []byte{1, 2, 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ReadJSON([]byte(tt.doc))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(p.Bytes(), tt.want) {
				t.Errorf("ReadJSON = %v, want %v", p.Bytes(), tt.want)
			}
		})
	}

	for _, bad := range []string{`{`, `{"colors":[]}`, `{"colors":["zzzzzz"]}`, `[[1,2]]`, `[[1,2,300]]`, `{"name":"x"}`} {
		if _, err := ReadJSON([]byte(bad)); !errors.Is(err, ErrInvalidPalette) {
			t.Errorf("ReadJSON(%s) error = %v, want ErrInvalidPalette", bad, err)
		}
	}
}

func TestFromImage(t *testing.T) {
	pm := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	p, err := FromImage(pm, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 2 {
		t.Errorf("FromImage(paletted) has %d colors", p.Len())
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := FromImage(rgba, 0); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("FromImage(truecolor, 0) error = %v", err)
	}

	for y := range 4 {
		for x := range 4 {
			if x < 2 {
				rgba.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				rgba.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	q, err := FromImage(rgba, 2)
	if err != nil {
		t.Fatal(err)
	}
	if q.Len() < 1 || q.Len() > 2 {
		t.Errorf("quantized palette has %d colors", q.Len())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	raw := filepath.Join(dir, "duo.rgb")
	if err := os.WriteFile(raw, []byte{0, 0, 0, 255, 255, 255}, 0o644); err != nil {
		t.Fatal(err)
	}
	badRaw := filepath.Join(dir, "bad.raw")
	if err := os.WriteFile(badRaw, []byte{0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}
	js := filepath.Join(dir, "duo.json")
	if err := os.WriteFile(js, []byte(`{"colors":["#000000","#ffffff"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	pal := filepath.Join(dir, "c64.pal")
	f, err := os.Create(pal)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := WriteRIFF(f, mustBuiltin(t, "c64")); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		src  string
		want int
	}{
		{"bw", 2},
		{"C64", 16},
		{raw, 2},
		{js, 2},
		{pal, 16},
	}
	for _, tt := range tests {
		p, err := Load(tt.src, 0)
		if err != nil {
			t.Errorf("Load(%q): %v", tt.src, err)
			continue
		}
		if p.Len() != tt.want {
			t.Errorf("Load(%q) has %d colors, want %d", tt.src, p.Len(), tt.want)
		}
	}

	if _, err := Load(badRaw, 0); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("Load(bad raw) error = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.pal"), 0); err == nil {
		t.Errorf("Load(missing) succeeded")
	}
}
