// Package morphology implements binary erosion and dilation of voxel volumes.
package morphology

import (
	"errors"
	"fmt"
)

// Connectivity selects which neighbours count as touching a voxel.
type Connectivity int

const (
	// Face connects the 6 axis-aligned neighbours.
	Face Connectivity = 1
	// Edge adds the 12 neighbours sharing an edge (18 total).
	Edge Connectivity = 2
	// Full adds the 8 corner neighbours (26 total).
	Full Connectivity = 3
)

// ErrInvalidConnectivity is returned for values outside Face..Full.
var ErrInvalidConnectivity = errors.New("connectivity must be 1 (face), 2 (edge) or 3 (full)")

// Offset is a neighbour displacement.
type Offset struct {
	DX, DY, DZ int
}

// Validate checks that c is one of the defined connectivities.
func (c Connectivity) Validate() error {
	if c < Face || c > Full {
		return fmt.Errorf("%w: got %d", ErrInvalidConnectivity, int(c))
	}
	return nil
}

func (c Connectivity) String() string {
	switch c {
	case Face:
		return "face"
	case Edge:
		return "edge"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Connectivity(%d)", int(c))
	}
}

// Neighbors returns the displacements of the structuring element, without
// the centre. A displacement is included when the number of nonzero
// components does not exceed c.
func (c Connectivity) Neighbors() []Offset {
	var out []Offset
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				n := abs(dx) + abs(dy) + abs(dz)
				if n == 0 || n > int(c) {
					continue
				}
				out = append(out, Offset{dx, dy, dz})
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
