package cluster

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"morphviewer/pkg/morphology"
	"morphviewer/pkg/volume"
)

// DefaultMinSize is the historical minimum cluster size in voxels.
const DefaultMinSize = 26

// ErrInvalidParams is returned for a negative minimum size or an unknown connectivity.
var ErrInvalidParams = errors.New("invalid cluster parameters")

// Params controls cluster thresholding.
type Params struct {
	// Connectivity defines which voxels belong to the same cluster.
	Connectivity morphology.Connectivity
	// MinSize is the smallest cluster, in voxels, that survives.
	MinSize int
}

// DefaultParams returns full connectivity and a 26 voxel threshold.
func DefaultParams() Params {
	return Params{
		Connectivity: morphology.Full,
		MinSize:      DefaultMinSize,
	}
}

// Validate checks p.
func (p Params) Validate() error {
	if err := p.Connectivity.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if p.MinSize < 0 {
		return fmt.Errorf("%w: minimum size %d is negative", ErrInvalidParams, p.MinSize)
	}
	return nil
}

// Report describes what a threshold pass found. It is advisory only.
type Report struct {
	Params Params
	// Components is the number of clusters found before filtering.
	Components int
	// RemovedComponents counts clusters smaller than Params.MinSize.
	RemovedComponents int
	// RemovedVoxels counts voxels zeroed because their cluster was too small.
	RemovedVoxels int
	// KeptVoxels counts voxels set to 1.
	KeptVoxels int
	// MeanSize and MaxSize describe cluster sizes before filtering.
	MeanSize float64
	MaxSize  int
}

func (r Report) String() string {
	return fmt.Sprintf("%d clusters found (%s connectivity); %d below %d voxels removed (%d voxels), %d voxels kept",
		r.Components, r.Params.Connectivity, r.RemovedComponents, r.Params.MinSize, r.RemovedVoxels, r.KeptVoxels)
}

// Threshold labels the foreground of st, zeroes every cluster smaller than
// p.MinSize and sets the remaining foreground to exactly 1. The result is
// stored in the session's declared element type; labels never leak into it.
func Threshold(st *volume.State, p Params) (Report, error) {
	if err := p.Validate(); err != nil {
		return Report{}, err
	}

	labels, sizes := Label(st.Mask(), st.Shape(), p.Connectivity)

	report := Report{Params: p, Components: len(sizes)}
	if len(sizes) > 0 {
		fs := make([]float64, len(sizes))
		for i, n := range sizes {
			fs[i] = float64(n)
		}
		report.MeanSize = stat.Mean(fs, nil)
		report.MaxSize = int(floats.Max(fs))
	}

	keep := make([]bool, len(sizes))
	for i, n := range sizes {
		if n < p.MinSize {
			report.RemovedComponents++
			report.RemovedVoxels += n
			continue
		}
		keep[i] = true
		report.KeptVoxels += n
	}

	out := make([]bool, len(labels))
	for i, l := range labels {
		out[i] = l != 0 && keep[l-1]
	}
	if err := st.ReplaceMask(out); err != nil {
		return Report{}, fmt.Errorf("cluster threshold: %w", err)
	}
	return report, nil
}
