package models

import "fmt"

// Shape holds the extent of a volume along its three spatial axes.
// Shape[2] is always the axis indexed for slice viewing.
type Shape [3]int

// Len returns the total number of voxels.
func (s Shape) Len() int {
	return s[0] * s[1] * s[2]
}

// Valid reports whether every axis holds at least one voxel.
func (s Shape) Valid() bool {
	return s[0] >= 1 && s[1] >= 1 && s[2] >= 1
}

// Index converts (x, y, z) into an offset into the flat row-major array.
// The last axis is contiguous.
func (s Shape) Index(x, y, z int) int {
	return (x*s[1]+y)*s[2] + z
}

// Coords is the inverse of Index.
func (s Shape) Coords(idx int) (x, y, z int) {
	z = idx % s[2]
	idx /= s[2]
	y = idx % s[1]
	x = idx / s[1]
	return x, y, z
}

// Contains reports whether (x, y, z) lies inside the volume.
func (s Shape) Contains(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < s[0] && y < s[1] && z < s[2]
}

// Depth returns the length of the slice axis.
func (s Shape) Depth() int {
	return s[2]
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s[0], s[1], s[2])
}
