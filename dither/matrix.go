// Package dither applies ordered (Bayer) dithering through a palette LUT.
package dither

// Matrix is the 8x8 Bayer threshold map, indexed [y][x], with values
// v/64 - 0.5 for v in 0..63.
var Matrix = func() (m [8][8]float64) {
	bayer := [64]int{
		0, 32, 8, 40, 2, 34, 10, 42,
		48, 16, 56, 24, 50, 18, 58, 26,
		12, 44, 4, 36, 14, 46, 6, 38,
		60, 28, 52, 20, 62, 30, 54, 22,
		3, 35, 11, 43, 1, 33, 9, 41,
		51, 19, 59, 27, 49, 17, 57, 25,
		15, 47, 7, 39, 13, 45, 5, 37,
		63, 31, 55, 23, 61, 29, 53, 21,
	}
	for i, v := range bayer {
		m[i/8][i%8] = float64(v)/64 - 0.5
	}
	return m
}()

// Threshold returns the matrix value for pixel (x, y), in [-0.5, 0.5).
// Negative coordinates wrap like positive ones.
func Threshold(x, y int) float64 {
	return Matrix[y&7][x&7]
}
