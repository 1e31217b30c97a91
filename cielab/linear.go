package cielab

import "math"

// linear8 maps an 8-bit sRGB channel value to linear light in [0, 1].
var linear8 = func() (t [256]float64) {
	for i := range t {
		t[i] = toLinear(float64(i) / 255)
	}
	return t
}()

// Linear returns the linear light intensity of an 8-bit sRGB channel.
func Linear(v uint8) float64 {
	return linear8[v]
}

func toLinear(x float64) float64 {
	if x > 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}

const pow float64 = 1.0 / 2.4

func fromLinear(x float64) float64 {
	if x >= 0.0031308 {
		return math.Pow(x, pow)*1.055 - 0.055
	}
	return x * 12.92
}

// to8 rounds a [0, 1] channel value to 8 bits, clamping out of gamut values.
func to8(x float64) uint8 {
	v := math.Round(x * 255)
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return uint8(v)
}
