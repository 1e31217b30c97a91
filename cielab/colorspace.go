// based on:
// http://www.brucelindbloom.com/index.html?Eqn_RGB_XYZ_Matrix.html
// http://www.brucelindbloom.com/index.html?Eqn_XYZ_to_Lab.html

// Package cielab converts 8-bit sRGB colors to CIE L*a*b* (D65) and back.
package cielab

import (
	"image/color"
	"math"
)

// RGB is an opaque 8-bit sRGB color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (uint32, uint32, uint32, uint32) {
	r, g, b := uint32(c.R), uint32(c.G), uint32(c.B)
	return r | r<<8, g | g<<8, b | b<<8, 0xffff
}

// Lab is shorthand for FromRGB(c).
func (c RGB) Lab() Lab {
	return FromRGB(c)
}

var RGBModel = color.ModelFunc(rgbConvert)

func rgbConvert(c color.Color) color.Color {
	switch rc := c.(type) {
	case RGB:
		return c
	case Lab:
		return rc.RGB()
	}

	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Convert flattens any color to 8-bit sRGB. Alpha is dropped, the channels
// are taken un-premultiplied.
func Convert(c color.Color) RGB {
	return rgbConvert(c).(RGB)
}

type Lab struct {
	L float64 // lightness, 0 (black) to 100 (diffuse white)
	A float64 // green (-) to red (+)
	B float64 // blue (-) to yellow (+)
}

// D65 reference white, Y normalized to 100
const (
	whiteX = 95.0489
	whiteY = 100.0
	whiteZ = 108.884
)

const (
	labEpsilon = 0.008856
	labSlope   = 7.78704
	labOffset  = 0.13793
)

var LabModel = color.ModelFunc(labConvert)

func labConvert(c color.Color) color.Color {
	switch lc := c.(type) {
	case Lab:
		return c
	case RGB:
		return FromRGB(lc)
	}

	return FromRGB(Convert(c))
}

// FromRGB converts an sRGB color to CIE L*a*b*.
func FromRGB(c RGB) Lab {
	r, g, b := linear8[c.R], linear8[c.G], linear8[c.B]

	x := labF((r*41.24564 + g*35.75761 + b*18.04375) / whiteX)
	y := labF((r*21.26729 + g*71.51522 + b*7.21750) / whiteY)
	z := labF((r*1.93339 + g*11.91920 + b*95.03041) / whiteZ)

	return Lab{
		L: 116*y - 16,
		A: 500 * (x - y),
		B: 200 * (y - z),
	}
}

// RGB converts back to sRGB, clamping colors outside the sRGB gamut.
func (lc Lab) RGB() RGB {
	fy := (lc.L + 16) / 116
	fx := fy + lc.A/500
	fz := fy - lc.B/200

	x := labFInv(fx) * whiteX / 100
	y := labFInv(fy) * whiteY / 100
	z := labFInv(fz) * whiteZ / 100

	r := 3.2404542*x - 1.5371385*y - 0.4985314*z
	g := -0.9692660*x + 1.8760108*y + 0.0415560*z
	b := 0.0556434*x - 0.2040259*y + 1.0572252*z

	return RGB{
		R: to8(fromLinear(r)),
		G: to8(fromLinear(g)),
		B: to8(fromLinear(b)),
	}
}

func (lc Lab) RGBA() (uint32, uint32, uint32, uint32) {
	return lc.RGB().RGBA()
}

// Chroma is the distance from the neutral axis.
func (lc Lab) Chroma() float64 {
	return math.Sqrt(lc.A*lc.A + lc.B*lc.B)
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return labSlope*t + labOffset
}

func labFInv(t float64) float64 {
	if t3 := t * t * t; t3 > labEpsilon {
		return t3
	}
	return (t - labOffset) / labSlope
}
