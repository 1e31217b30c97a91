// based on:
// G. Sharma, W. Wu, E. N. Dalal, "The CIEDE2000 color-difference formula:
// implementation notes, supplementary test data, and mathematical observations",
// Color Research & Application 30(1), 2005.

package metric

import (
	"math"

	"palut/cielab"
)

// CIEDE2000 with unit parametric factors (kL = kC = kH = 1).
type CIEDE2000 struct{}

// 25^7
const pow25To7 = 6103515625.0

func (CIEDE2000) Distance(ref, sample cielab.Lab) float64 {
	c1 := ref.Chroma()
	c2 := sample.Chroma()

	cBar7 := math.Pow((c1+c2)/2, 7)
	g := 0.5 * (1 - math.Sqrt(cBar7/(cBar7+pow25To7)))

	a1 := (1 + g) * ref.A
	a2 := (1 + g) * sample.A

	c1p := math.Hypot(a1, ref.B)
	c2p := math.Hypot(a2, sample.B)
	h1p := hueAngle(ref.B, a1)
	h2p := hueAngle(sample.B, a2)

	dLp := sample.L - ref.L
	dCp := c2p - c1p

	// hue difference, wrapped into [-180, 180]; undefined hue counts as no difference
	var dhp float64
	chromaProduct := c1p * c2p
	if chromaProduct != 0 {
		dhp = h2p - h1p
		if dhp > 180 {
			dhp -= 360
		} else if dhp < -180 {
			dhp += 360
		}
	}
	dHp := 2 * math.Sqrt(chromaProduct) * math.Sin(rad(dhp/2))

	lBarp := (ref.L + sample.L) / 2
	cBarp := (c1p + c2p) / 2

	// mean hue, taken along the shorter arc
	hBarp := h1p + h2p
	if chromaProduct != 0 {
		switch {
		case math.Abs(h1p-h2p) <= 180:
			hBarp /= 2
		case hBarp < 360:
			hBarp = (hBarp + 360) / 2
		default:
			hBarp = (hBarp - 360) / 2
		}
	}

	t := 1 -
		0.17*math.Cos(rad(hBarp-30)) +
		0.24*math.Cos(rad(2*hBarp)) +
		0.32*math.Cos(rad(3*hBarp+6)) -
		0.20*math.Cos(rad(4*hBarp-63))

	dTheta := 30 * math.Exp(-sq((hBarp-275)/25))
	cBarp7 := math.Pow(cBarp, 7)
	rC := 2 * math.Sqrt(cBarp7/(cBarp7+pow25To7))

	lm50 := sq(lBarp - 50)
	sL := 1 + 0.015*lm50/math.Sqrt(20+lm50)
	sC := 1 + 0.045*cBarp
	sH := 1 + 0.015*cBarp*t
	rT := -math.Sin(rad(2*dTheta)) * rC

	vL := dLp / sL
	vC := dCp / sC
	vH := dHp / sH
	return math.Sqrt(max(0, vL*vL+vC*vC+vH*vH+rT*vC*vH))
}

// hueAngle returns atan2(b, a) in degrees within [0, 360).
func hueAngle(b, a float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func sq(x float64) float64 {
	return x * x
}
