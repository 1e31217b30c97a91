package dither

// SpreadFunc turns a LUT cell's metadata byte into the amplitude, in 8-bit
// channel units, by which a pixel is perturbed before the lookup.
type SpreadFunc func(meta uint8) float64

// Direct uses the metadata byte as the spread. Suits LUTs baked with spread metadata.
func Direct(meta uint8) float64 {
	return float64(meta)
}

// Scaled multiplies the metadata byte by k.
func Scaled(k float64) SpreadFunc {
	return func(meta uint8) float64 {
		return k * float64(meta)
	}
}

// Clamped multiplies the metadata byte by k and clamps the result to [lo, hi].
func Clamped(k, lo, hi float64) SpreadFunc {
	return func(meta uint8) float64 {
		return min(max(k*float64(meta), lo), hi)
	}
}

// Fixed ignores the metadata. Fixed(0) disables dithering.
func Fixed(v float64) SpreadFunc {
	return func(uint8) float64 {
		return v
	}
}
