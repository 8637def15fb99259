package volume

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Metadata is the orientation information supplied by the loader. Editing
// operations never touch it; the exporter writes it back verbatim.
type Metadata struct {
	// Affine maps voxel indices to world coordinates (4x4).
	Affine *mat.Dense

	// Header is an opaque blob carried through to export unmodified.
	Header []byte
}

// NewMetadata validates affine and copies both fields. A nil affine
// defaults to the identity.
func NewMetadata(affine mat.Matrix, header []byte) (Metadata, error) {
	var m Metadata
	if affine == nil {
		m.Affine = Identity()
	} else {
		r, c := affine.Dims()
		if r != 4 || c != 4 {
			return Metadata{}, fmt.Errorf("affine must be 4x4, got %dx%d", r, c)
		}
		m.Affine = mat.DenseCopyOf(affine)
	}
	if header != nil {
		m.Header = append([]byte(nil), header...)
	}
	return m, nil
}

// Identity returns a 4x4 identity affine.
func Identity() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// Clone returns a deep copy.
func (m Metadata) Clone() Metadata {
	out := Metadata{Affine: Identity()}
	if m.Affine != nil {
		out.Affine = mat.DenseCopyOf(m.Affine)
	}
	if m.Header != nil {
		out.Header = append([]byte(nil), m.Header...)
	}
	return out
}

// VoxelToWorld applies the affine to a voxel coordinate.
func (m Metadata) VoxelToWorld(x, y, z float64) (wx, wy, wz float64) {
	affine := m.Affine
	if affine == nil {
		affine = Identity()
	}
	var out mat.VecDense
	out.MulVec(affine, mat.NewVecDense(4, []float64{x, y, z, 1}))
	return out.AtVec(0), out.AtVec(1), out.AtVec(2)
}

// VoxelSize returns the length of each of the affine's first three columns,
// which is the physical extent of one voxel along each axis.
func (m Metadata) VoxelSize() [3]float64 {
	affine := m.Affine
	if affine == nil {
		affine = Identity()
	}
	var size [3]float64
	for i := range size {
		col := mat.Col(nil, i, affine)
		size[i] = mat.Norm(mat.NewVecDense(3, col[:3]), 2)
	}
	return size
}
