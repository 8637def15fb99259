// Package cluster removes connected components of foreground voxels that are
// smaller than a size threshold.
package cluster

import (
	"morphviewer/internal/models"
	"morphviewer/pkg/morphology"
)

// Label assigns every foreground voxel the 1-based id of its connected
// component; background stays 0. sizes[i] is the voxel count of label i+1.
func Label(mask []bool, shape models.Shape, conn morphology.Connectivity) (labels []int32, sizes []int) {
	labels = make([]int32, len(mask))
	offsets := conn.Neighbors()
	queue := make([]int, 0, 1024)

	var next int32
	for start, fg := range mask {
		if !fg || labels[start] != 0 {
			continue
		}

		next++
		labels[start] = next
		queue = append(queue[:0], start)
		size := 0

		for len(queue) > 0 {
			cur := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			size++

			x, y, z := shape.Coords(cur)
			for _, o := range offsets {
				nx, ny, nz := x+o.DX, y+o.DY, z+o.DZ
				if !shape.Contains(nx, ny, nz) {
					continue
				}
				n := shape.Index(nx, ny, nz)
				if mask[n] && labels[n] == 0 {
					labels[n] = next
					queue = append(queue, n)
				}
			}
		}
		sizes = append(sizes, size)
	}
	return labels, sizes
}
