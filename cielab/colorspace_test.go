package cielab

import (
	"image/color"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestFromRGBReferencePoints(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want Lab
		tol  float64
	}{
		{"white", RGB{255, 255, 255}, Lab{100, 0, 0}, 0.5},
		{"black", RGB{0, 0, 0}, Lab{0, 0, 0}, 0.01},
		{"red", RGB{255, 0, 0}, Lab{53.2408, 80.0925, 67.2032}, 0.1},
		{"green", RGB{0, 255, 0}, Lab{87.7347, -86.1827, 83.1793}, 0.1},
		{"blue", RGB{0, 0, 255}, Lab{32.2970, 79.1875, -107.8602}, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRGB(tt.in)
			if !near(got.L, tt.want.L, tt.tol) || !near(got.A, tt.want.A, tt.tol) || !near(got.B, tt.want.B, tt.tol) {
				t.Errorf("FromRGB(%v) = %+v, want %+v (±%v)", tt.in, got, tt.want, tt.tol)
			}
		})
	}
}

func TestFromRGBMatchesColorful(t *testing.T) {
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 17 {
				c := RGB{uint8(r), uint8(g), uint8(b)}
				got := FromRGB(c)

				l, a, bb := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Lab()
				if !near(got.L, l*100, 0.1) || !near(got.A, a*100, 0.1) || !near(got.B, bb*100, 0.1) {
					t.Fatalf("FromRGB(%v) = %+v, colorful says (%.4f, %.4f, %.4f)", c, got, l*100, a*100, bb*100)
				}
			}
		}
	}
}

func TestLabRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 5 {
			for b := 0; b < 256; b += 5 {
				c := RGB{uint8(r), uint8(g), uint8(b)}
				back := FromRGB(c).RGB()
				if diff8(c.R, back.R) > 1 || diff8(c.G, back.G) > 1 || diff8(c.B, back.B) > 1 {
					t.Fatalf("round trip of %v gave %v", c, back)
				}
			}
		}
	}
}

func diff8(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestLightnessIsMonotonicOnGrays(t *testing.T) {
	prev := -1.0
	for v := range 256 {
		l := FromRGB(RGB{uint8(v), uint8(v), uint8(v)}).L
		if l <= prev {
			t.Fatalf("L*(%d) = %v is not above L*(%d) = %v", v, l, v-1, prev)
		}
		prev = l
	}
}

func TestModels(t *testing.T) {
	if got := Convert(color.NRGBA{R: 1, G: 2, B: 3, A: 255}); got != (RGB{1, 2, 3}) {
		t.Errorf("Convert(NRGBA) = %v", got)
	}
	if got := Convert(color.Gray{Y: 200}); got != (RGB{200, 200, 200}) {
		t.Errorf("Convert(Gray) = %v", got)
	}

	lab := LabModel.Convert(color.White).(Lab)
	if !near(lab.L, 100, 0.5) || !near(lab.A, 0, 0.5) || !near(lab.B, 0, 0.5) {
		t.Errorf("LabModel.Convert(white) = %+v", lab)
	}
	if same := LabModel.Convert(lab).(Lab); same != lab {
		t.Errorf("LabModel.Convert(Lab) changed the value: %+v", same)
	}

	if got := RGBModel.Convert(Lab{0, 0, 0}).(RGB); got != (RGB{}) {
		t.Errorf("RGBModel.Convert(black Lab) = %v", got)
	}

	r, g, b, a := RGB{0x12, 0x34, 0x56}.RGBA()
	if r != 0x1212 || g != 0x3434 || b != 0x5656 || a != 0xffff {
		t.Errorf("RGBA() = %x %x %x %x", r, g, b, a)
	}
}

func TestLinear(t *testing.T) {
	if Linear(0) != 0 || Linear(255) != 1 {
		t.Errorf("Linear endpoints = %v, %v", Linear(0), Linear(255))
	}
	if got, want := Linear(10), 10.0/255/12.92; !near(got, want, 1e-12) {
		t.Errorf("Linear(10) = %v, want %v", got, want)
	}
}
