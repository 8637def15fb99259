// Package volume holds the voxel array edited during a session together with
// its fixed element type and orientation metadata.
package volume

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"morphviewer/internal/models"
)

var (
	// ErrSliceOutOfRange is returned when a slice index lies outside [0, Z-1].
	ErrSliceOutOfRange = errors.New("slice index out of range")
	// ErrShapeMismatch is returned when data length does not match the shape.
	ErrShapeMismatch = errors.New("data length does not match shape")
	// ErrInvalidShape is returned for shapes with an empty axis.
	ErrInvalidShape = errors.New("every axis must hold at least one voxel")
)

// State owns the voxel array for one editing session. It is not safe for
// concurrent use; callers run one operation at a time.
type State struct {
	data  []float64
	shape models.Shape
	dtype DataType
	meta  Metadata
}

// New creates a State from the loader's array. data is copied and cast to
// dtype; meta is validated and copied as by NewMetadata.
func New(shape models.Shape, dtype DataType, data []float64, meta Metadata) (*State, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidShape, shape)
	}
	if !dtype.Valid() {
		return nil, fmt.Errorf("unsupported data type %s", dtype)
	}
	if len(data) != shape.Len() {
		return nil, fmt.Errorf("%w: %d values for shape %s", ErrShapeMismatch, len(data), shape)
	}
	var affine mat.Matrix
	if meta.Affine != nil {
		affine = meta.Affine
	}
	meta, err := NewMetadata(affine, meta.Header)
	if err != nil {
		return nil, err
	}

	s := &State{
		data:  make([]float64, len(data)),
		shape: shape,
		dtype: dtype,
		meta:  meta,
	}
	for i, v := range data {
		s.data[i] = dtype.Cast(v)
	}
	return s, nil
}

// Shape returns the current (X, Y, Z) extent.
func (s *State) Shape() models.Shape {
	return s.shape
}

// DataType returns the element type fixed at construction.
func (s *State) DataType() DataType {
	return s.dtype
}

// Metadata returns the affine and header supplied at construction.
func (s *State) Metadata() Metadata {
	return s.meta
}

// Data exposes the stored array. Callers must not modify it; use Replace.
func (s *State) Data() []float64 {
	return s.data
}

// At returns the voxel at (x, y, z) in the current axis order.
func (s *State) At(x, y, z int) float64 {
	return s.data[s.shape.Index(x, y, z)]
}

// Slice returns the X*Y cut at position index of the last axis.
func (s *State) Slice(index int) (models.Slice, error) {
	if index < 0 || index >= s.shape.Depth() {
		return models.Slice{}, fmt.Errorf("%w: %d not in [0, %d]", ErrSliceOutOfRange, index, s.shape.Depth()-1)
	}

	w, h := s.shape[0], s.shape[1]
	out := models.Slice{
		Data:   make([]float64, w*h),
		Width:  w,
		Height: h,
		Index:  index,
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			out.Data[x*h+y] = s.data[s.shape.Index(x, y, index)]
		}
	}
	return out, nil
}

// Replace swaps in a new array, possibly with a new axis order, and takes
// ownership of data. The values are
// cast to the session's element type; the type itself never changes. On
// error the state is left untouched.
func (s *State) Replace(shape models.Shape, data []float64) error {
	if !shape.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidShape, shape)
	}
	if len(data) != shape.Len() {
		return fmt.Errorf("%w: %d values for shape %s", ErrShapeMismatch, len(data), shape)
	}
	for i, v := range data {
		data[i] = s.dtype.Cast(v)
	}
	s.data = data
	s.shape = shape
	return nil
}

// ReplaceMask stores a binary result, writing 1 for foreground and 0 elsewhere.
func (s *State) ReplaceMask(mask []bool) error {
	data := make([]float64, len(mask))
	for i, b := range mask {
		data[i] = s.dtype.FromBool(b)
	}
	return s.Replace(s.shape, data)
}

// Mask returns the foreground (nonzero) voxels as a fresh boolean array.
func (s *State) Mask() []bool {
	mask := make([]bool, len(s.data))
	for i, v := range s.data {
		mask[i] = v != 0
	}
	return mask
}

// Foreground counts nonzero voxels.
func (s *State) Foreground() int {
	n := 0
	for _, v := range s.data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	return &State{
		data:  append([]float64(nil), s.data...),
		shape: s.shape,
		dtype: s.dtype,
		meta:  s.meta.Clone(),
	}
}
