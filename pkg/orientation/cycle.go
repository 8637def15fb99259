// Package orientation tracks the cyclic permutation of a volume's axes and the
// slice index used for viewing.
package orientation

import (
	"fmt"

	"morphviewer/internal/models"
)

// Cycle counts how many times the axes have been rotated away from the
// acquisition order. Valid values are 0, 1 and 2.
type Cycle int

// Axes is a permutation: position i of the result holds input axis Axes[i].
type Axes [3]int

// Next returns the state after one more rotation.
func (c Cycle) Next() Cycle {
	return (c.norm() + 1) % 3
}

// Axes returns the permutation that takes acquisition order to the current
// order. Position i holds original axis (i - c) mod 3, so one cycle yields
// (2, 0, 1): the old last axis becomes the first.
func (c Cycle) Axes() Axes {
	n := int(c.norm())
	return Axes{(3 - n) % 3, (4 - n) % 3, (5 - n) % 3}
}

// Inverse returns the permutation that takes the current order back to the
// acquisition order: (c, c+1, c+2) mod 3.
func (c Cycle) Inverse() Axes {
	n := int(c.norm())
	return Axes{n, (n + 1) % 3, (n + 2) % 3}
}

func (c Cycle) norm() Cycle {
	return ((c % 3) + 3) % 3
}

func (c Cycle) String() string {
	return fmt.Sprintf("cycle %d/3", int(c.norm()))
}

// Permute transposes a row-major volume so that output axis i is input axis
// axes[i]. The input is not modified.
func Permute(shape models.Shape, data []float64, axes Axes) (models.Shape, []float64) {
	var out models.Shape
	for i, a := range axes {
		out[i] = shape[a]
	}

	dst := make([]float64, len(data))
	var src [3]int
	for idx := range dst {
		x, y, z := out.Coords(idx)
		src[axes[0]], src[axes[1]], src[axes[2]] = x, y, z
		dst[idx] = data[shape.Index(src[0], src[1], src[2])]
	}
	return out, dst
}

// Step advances c by one rotation and returns the rotated copy of the array.
func Step(c Cycle, shape models.Shape, data []float64) (Cycle, models.Shape, []float64) {
	newShape, newData := Permute(shape, data, Axes{2, 0, 1})
	return c.Next(), newShape, newData
}

// Restore undoes every rotation recorded in c, returning a copy in
// acquisition order.
func Restore(c Cycle, shape models.Shape, data []float64) (models.Shape, []float64) {
	return Permute(shape, data, c.Inverse())
}
