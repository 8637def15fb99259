package models

// Slice is a 2-D cut through a volume at a fixed position of the last axis.
type Slice struct {
	// Data holds Width*Height values, x-major: Data[x*Height+y].
	Data []float64

	// Width is the extent along the volume's first axis.
	Width int

	// Height is the extent along the volume's second axis.
	Height int

	// Index is the position along the slice axis this cut was taken at.
	Index int
}

// At returns the value at (x, y).
func (s Slice) At(x, y int) float64 {
	return s.Data[x*s.Height+y]
}

// Range returns the smallest and largest value in the slice.
// An empty slice yields (0, 0).
func (s Slice) Range() (lo, hi float64) {
	if len(s.Data) == 0 {
		return 0, 0
	}
	lo, hi = s.Data[0], s.Data[0]
	for _, v := range s.Data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
