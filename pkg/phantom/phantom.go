// Package phantom generates synthetic binary volumes for demos and tests: a
// solid sphere surrounded by isolated speckle voxels.
package phantom

import (
	"math"
	"math/rand/v2"

	"morphviewer/internal/models"
)

// Params describes a phantom.
type Params struct {
	// Shape is the volume extent.
	Shape models.Shape
	// Radius of the sphere in voxels, centred in the volume.
	Radius float64
	// Speckles is the number of single voxels scattered outside the sphere.
	Speckles int
	// Seed makes speckle placement reproducible.
	Seed uint64
}

// DefaultParams returns a 32x32x24 volume with a sphere of radius 8 and 40
// speckles.
func DefaultParams() Params {
	return Params{
		Shape:    models.Shape{32, 32, 24},
		Radius:   8,
		Speckles: 40,
		Seed:     1,
	}
}

// Generate returns a row-major volume of 0 and 1 values.
func Generate(p Params) []float64 {
	s := p.Shape
	data := make([]float64, s.Len())
	cx, cy, cz := float64(s[0])/2, float64(s[1])/2, float64(s[2])/2

	inside := func(x, y, z int) bool {
		dx, dy, dz := float64(x)-cx, float64(y)-cy, float64(z)-cz
		return math.Sqrt(dx*dx+dy*dy+dz*dz) < p.Radius
	}

	for x := 0; x < s[0]; x++ {
		for y := 0; y < s[1]; y++ {
			for z := 0; z < s[2]; z++ {
				if inside(x, y, z) {
					data[s.Index(x, y, z)] = 1
				}
			}
		}
	}

	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))
	for placed, tries := 0, 0; placed < p.Speckles && tries < p.Speckles*100; tries++ {
		x, y, z := rng.IntN(s[0]), rng.IntN(s[1]), rng.IntN(s[2])
		if inside(x, y, z) || data[s.Index(x, y, z)] != 0 {
			continue
		}
		data[s.Index(x, y, z)] = 1
		placed++
	}
	return data
}
