package morphology

import (
	"fmt"

	"morphviewer/internal/models"
	"morphviewer/pkg/volume"
)

// Result summarises one morphological edit.
type Result struct {
	// Op is "erode" or "dilate".
	Op string
	// Before and After count foreground voxels around the edit.
	Before int
	After  int
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d -> %d foreground voxels", r.Op, r.Before, r.After)
}

// Erode applies one iteration of face-connected binary erosion to st.
func Erode(st *volume.State) (Result, error) {
	return apply(st, "erode", BinaryErosion)
}

// Dilate applies one iteration of face-connected binary dilation to st.
func Dilate(st *volume.State) (Result, error) {
	return apply(st, "dilate", BinaryDilation)
}

type kernel func(mask []bool, shape models.Shape, conn Connectivity) []bool

func apply(st *volume.State, op string, k kernel) (Result, error) {
	before := st.Foreground()
	out := k(st.Mask(), st.Shape(), Face)
	if err := st.ReplaceMask(out); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return Result{Op: op, Before: before, After: st.Foreground()}, nil
}
