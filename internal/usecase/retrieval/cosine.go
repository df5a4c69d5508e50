package retrieval

import "math"

// cosine returns the cosine similarity of a and b, or 0 when either has zero norm.
// a and b must have equal length.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// Rounding can push |s| slightly past 1.
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
