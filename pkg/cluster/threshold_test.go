package cluster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"morphviewer/internal/models"
	"morphviewer/pkg/morphology"
	"morphviewer/pkg/volume"
)

// fillBox sets every voxel of the box [lo, hi] (inclusive) to v.
func fillBox(data []float64, shape models.Shape, lo, hi [3]int, v float64) {
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				data[shape.Index(x, y, z)] = v
			}
		}
	}
}

func TestLabel_Connectivity(t *testing.T) {
	t.Parallel()

	shape := models.Shape{2, 2, 2}
	tests := []struct {
		name string
		b    [3]int
		want map[morphology.Connectivity]int
	}{
		{"face neighbours", [3]int{1, 0, 0}, map[morphology.Connectivity]int{
			morphology.Face: 1, morphology.Edge: 1, morphology.Full: 1,
		}},
		{"edge neighbours", [3]int{1, 1, 0}, map[morphology.Connectivity]int{
			morphology.Face: 2, morphology.Edge: 1, morphology.Full: 1,
		}},
		{"corner neighbours", [3]int{1, 1, 1}, map[morphology.Connectivity]int{
			morphology.Face: 2, morphology.Edge: 2, morphology.Full: 1,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mask := make([]bool, shape.Len())
			mask[shape.Index(0, 0, 0)] = true
			mask[shape.Index(tt.b[0], tt.b[1], tt.b[2])] = true

			for conn, want := range tt.want {
				labels, sizes := Label(mask, shape, conn)
				require.Len(t, sizes, want, "connectivity %s", conn)
				require.Zero(t, labels[shape.Index(0, 1, 1)])
			}
		})
	}
}

func TestThreshold_RemovesSmallClusters(t *testing.T) {
	t.Parallel()

	shape := models.Shape{10, 10, 10}
	data := make([]float64, shape.Len())
	fillBox(data, shape, [3]int{0, 0, 0}, [3]int{2, 2, 2}, 5) // 27 voxels, kept
	fillBox(data, shape, [3]int{6, 6, 6}, [3]int{7, 7, 7}, 7) // 8 voxels, removed
	data[shape.Index(9, 9, 9)] = 3                            // 1 voxel, removed

	st, err := volume.New(shape, volume.Int16, data, volume.Metadata{})
	require.NoError(t, err)

	report, err := Threshold(st, DefaultParams())
	require.NoError(t, err)
	require.Equal(t, 3, report.Components)
	require.Equal(t, 2, report.RemovedComponents)
	require.Equal(t, 9, report.RemovedVoxels)
	require.Equal(t, 27, report.KeptVoxels)
	require.Equal(t, 27, report.MaxSize)
	require.InDelta(t, 12.0, report.MeanSize, 1e-9)

	want := make([]float64, shape.Len())
	fillBox(want, shape, [3]int{0, 0, 0}, [3]int{2, 2, 2}, 1)
	if diff := cmp.Diff(want, st.Data()); diff != "" {
		t.Fatalf("thresholded volume mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, volume.Int16, st.DataType())
}

func TestThreshold_ConnectivityChangesClusterSize(t *testing.T) {
	t.Parallel()

	// A diagonal line of 4 voxels is one cluster under full connectivity and
	// four single voxels under face connectivity.
	shape := models.Shape{4, 4, 4}
	data := make([]float64, shape.Len())
	for i := 0; i < 4; i++ {
		data[shape.Index(i, i, i)] = 1
	}

	full, err := volume.New(shape, volume.Uint8, data, volume.Metadata{})
	require.NoError(t, err)
	report, err := Threshold(full, Params{Connectivity: morphology.Full, MinSize: 4})
	require.NoError(t, err)
	require.Equal(t, 1, report.Components)
	require.Equal(t, 4, full.Foreground())

	face, err := volume.New(shape, volume.Uint8, data, volume.Metadata{})
	require.NoError(t, err)
	report, err = Threshold(face, Params{Connectivity: morphology.Face, MinSize: 4})
	require.NoError(t, err)
	require.Equal(t, 4, report.Components)
	require.Zero(t, face.Foreground())
}

func TestThreshold_InvalidParamsLeaveStateUntouched(t *testing.T) {
	t.Parallel()

	shape := models.Shape{2, 2, 2}
	data := []float64{0, 4, 0, 4, 0, 0, 0, 9}
	st, err := volume.New(shape, volume.Int8, data, volume.Metadata{})
	require.NoError(t, err)

	_, err = Threshold(st, Params{Connectivity: morphology.Full, MinSize: -1})
	require.ErrorIs(t, err, ErrInvalidParams)
	_, err = Threshold(st, Params{Connectivity: 7, MinSize: 1})
	require.ErrorIs(t, err, ErrInvalidParams)
	require.ErrorIs(t, err, morphology.ErrInvalidConnectivity)

	require.Equal(t, data, st.Data())
}

func TestThreshold_ZeroMinSizeBinarises(t *testing.T) {
	t.Parallel()

	st, err := volume.New(models.Shape{1, 1, 4}, volume.Int32, []float64{0, 40, -2, 0}, volume.Metadata{})
	require.NoError(t, err)

	report, err := Threshold(st, Params{Connectivity: morphology.Full, MinSize: 0})
	require.NoError(t, err)
	require.Equal(t, 1, report.Components)
	require.Equal(t, []float64{0, 1, 1, 0}, st.Data())
	require.Contains(t, report.String(), "1 clusters found")
}

func TestThreshold_EmptyVolume(t *testing.T) {
	t.Parallel()

	st, err := volume.New(models.Shape{3, 3, 3}, volume.Bool, make([]float64, 27), volume.Metadata{})
	require.NoError(t, err)

	report, err := Threshold(st, DefaultParams())
	require.NoError(t, err)
	require.Zero(t, report.Components)
	require.Zero(t, report.MeanSize)
	require.Zero(t, st.Foreground())
}
