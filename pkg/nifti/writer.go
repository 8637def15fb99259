package nifti

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"morphviewer/internal/models"
	"morphviewer/pkg/volume"
)

// extensionCodeIgnore marks an extension NIfTI readers may skip. The opaque
// loader header travels in one of these.
const extensionCodeIgnore = 0

// Image is everything needed to write one file.
type Image struct {
	Shape    models.Shape
	DataType volume.DataType
	// Data is row-major with the last axis contiguous.
	Data []float64
	Meta volume.Metadata
	// Description is stored in the header's descrip field (max 79 bytes).
	Description string
}

// NewHeader builds the NIfTI-1 header for img. voxOffset is where voxel data
// starts in the file.
func NewHeader(img Image, voxOffset int) (*Header1, error) {
	code, err := datatypeCode(img.DataType)
	if err != nil {
		return nil, err
	}

	h := &Header1{
		SizeofHdr: HeaderSize,
		Regular:   'r',
		Datatype:  code,
		Bitpix:    int16(img.DataType.Bytes() * 8),
		VoxOffset: float32(voxOffset),
		SclSlope:  1,
		XYZTUnits: unitsMM,
		SformCode: sformAligned,
		Magic:     [4]byte{'n', '+', '1', 0},
	}
	h.Dim[0] = 3
	for i := 0; i < 3; i++ {
		if img.Shape[i] > math.MaxInt16 {
			return nil, fmt.Errorf("axis %d length %d exceeds NIfTI-1 limit", i, img.Shape[i])
		}
		h.Dim[i+1] = int16(img.Shape[i])
	}
	for i := 4; i < 8; i++ {
		h.Dim[i] = 1
	}

	affine := img.Meta.Affine
	if affine == nil {
		affine = volume.Identity()
	}
	if r, c := affine.Dims(); r != 4 || c != 4 {
		return nil, fmt.Errorf("affine must be 4x4, got %dx%d", r, c)
	}

	h.Pixdim[0] = 1
	size := volume.Metadata{Affine: affine}.VoxelSize()
	for i := 0; i < 3; i++ {
		h.Pixdim[i+1] = float32(size[i])
	}

	rows := []*[4]float32{&h.SrowX, &h.SrowY, &h.SrowZ}
	for r, row := range rows {
		for c := 0; c < 4; c++ {
			row[c] = float32(affine.At(r, c))
		}
	}
	copy(h.Descrip[:79], img.Description)
	return h, nil
}

// Encode writes img as a single-file NIfTI-1 stream: header, extension
// block carrying Meta.Header verbatim, then voxel data with the first axis
// varying fastest.
func Encode(w io.Writer, img Image) error {
	if len(img.Data) != img.Shape.Len() {
		return fmt.Errorf("%w: %d values for shape %s", volume.ErrShapeMismatch, len(img.Data), img.Shape)
	}

	ext := extensionBlock(img.Meta.Header)
	h, err := NewHeader(img, HeaderSize+4+len(ext))
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var flag [4]byte
	if len(ext) > 0 {
		flag[0] = 1
	}
	if _, err := bw.Write(flag[:]); err != nil {
		return fmt.Errorf("write extension flag: %w", err)
	}
	if _, err := bw.Write(ext); err != nil {
		return fmt.Errorf("write extension: %w", err)
	}

	if err := writeVoxels(bw, img); err != nil {
		return fmt.Errorf("write voxels: %w", err)
	}
	return bw.Flush()
}

// extensionBlock wraps blob in a NIfTI-1 extension padded to a multiple of 16.
func extensionBlock(blob []byte) []byte {
	if len(blob) == 0 {
		return nil
	}
	size := 8 + len(blob)
	if rem := size % 16; rem != 0 {
		size += 16 - rem
	}
	out := make([]byte, size)
	binary.LittleEndian.PutUint32(out[0:4], uint32(size))
	binary.LittleEndian.PutUint32(out[4:8], extensionCodeIgnore)
	copy(out[8:], blob)
	return out
}

func writeVoxels(w io.Writer, img Image) error {
	buf := make([]byte, img.DataType.Bytes())
	sx, sy, sz := img.Shape[0], img.Shape[1], img.Shape[2]
	for z := 0; z < sz; z++ {
		for y := 0; y < sy; y++ {
			for x := 0; x < sx; x++ {
				putValue(buf, img.DataType, img.DataType.Cast(img.Data[img.Shape.Index(x, y, z)]))
				if _, err := w.Write(buf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func putValue(buf []byte, t volume.DataType, v float64) {
	le := binary.LittleEndian
	switch t {
	case volume.Bool, volume.Uint8:
		buf[0] = uint8(v)
	case volume.Int8:
		buf[0] = byte(int8(v))
	case volume.Uint16:
		le.PutUint16(buf, uint16(v))
	case volume.Int16:
		le.PutUint16(buf, uint16(int16(v)))
	case volume.Uint32:
		le.PutUint32(buf, uint32(v))
	case volume.Int32:
		le.PutUint32(buf, uint32(int32(v)))
	case volume.Int64:
		le.PutUint64(buf, uint64(int64(v)))
	case volume.Float32:
		le.PutUint32(buf, math.Float32bits(float32(v)))
	case volume.Float64:
		le.PutUint64(buf, math.Float64bits(v))
	}
}
