package morphology

import "morphviewer/internal/models"

// BinaryErosion keeps a voxel only if it and every structuring-element
// neighbour are foreground. Neighbours outside the volume are background, so
// voxels on the border never survive.
func BinaryErosion(mask []bool, shape models.Shape, conn Connectivity) []bool {
	offsets := conn.Neighbors()
	out := make([]bool, len(mask))
	for idx, fg := range mask {
		if !fg {
			continue
		}
		x, y, z := shape.Coords(idx)
		keep := true
		for _, o := range offsets {
			nx, ny, nz := x+o.DX, y+o.DY, z+o.DZ
			if !shape.Contains(nx, ny, nz) || !mask[shape.Index(nx, ny, nz)] {
				keep = false
				break
			}
		}
		out[idx] = keep
	}
	return out
}

// BinaryDilation sets every voxel that is foreground or has a foreground
// structuring-element neighbour.
func BinaryDilation(mask []bool, shape models.Shape, conn Connectivity) []bool {
	offsets := conn.Neighbors()
	out := make([]bool, len(mask))
	for idx, fg := range mask {
		if !fg {
			continue
		}
		out[idx] = true
		x, y, z := shape.Coords(idx)
		for _, o := range offsets {
			nx, ny, nz := x+o.DX, y+o.DY, z+o.DZ
			if shape.Contains(nx, ny, nz) {
				out[shape.Index(nx, ny, nz)] = true
			}
		}
	}
	return out
}
