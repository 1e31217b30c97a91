package metric

import (
	"math"

	"palut/cielab"
)

// CIE76 is the euclidean distance in L*a*b*.
type CIE76 struct{}

func (CIE76) Distance(ref, sample cielab.Lab) float64 {
	dL := ref.L - sample.L
	da := ref.A - sample.A
	db := ref.B - sample.B
	return math.Sqrt(dL*dL + da*da + db*db)
}

// CIE94 uses the graphic arts weights (kL = 1, K1 = 0.045, K2 = 0.015).
type CIE94 struct{}

func (CIE94) Distance(ref, sample cielab.Lab) float64 {
	c1 := ref.Chroma()
	c2 := sample.Chroma()

	dL := ref.L - sample.L
	da := ref.A - sample.A
	db := ref.B - sample.B
	dC := c1 - c2
	dH := math.Sqrt(max(0, da*da+db*db-dC*dC))

	sC := 1 + 0.045*c1
	sH := 1 + 0.015*c1

	vC := dC / sC
	vH := dH / sH
	return math.Sqrt(dL*dL + vC*vC + vH*vH)
}
