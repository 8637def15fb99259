// Package nifti writes volumes in the NIfTI-1 single-file format (.nii and
// .nii.gz).
package nifti

import (
	"fmt"

	"morphviewer/pkg/volume"
)

// HeaderSize is the fixed size of a NIfTI-1 header.
const HeaderSize = 348

// NIfTI-1 datatype codes.
const (
	DTUint8   int16 = 2
	DTInt16   int16 = 4
	DTInt32   int16 = 8
	DTFloat32 int16 = 16
	DTFloat64 int16 = 64
	DTInt8    int16 = 256
	DTUint16  int16 = 512
	DTUint32  int16 = 768
	DTInt64   int16 = 1024
)

// Spatial units: millimetres.
const unitsMM = 2

// sform_code: aligned to another file or anatomical truth.
const sformAligned = 2

// Header1 mirrors the on-disk layout of a NIfTI-1 header. encoding/binary
// packs it without padding into exactly HeaderSize bytes.
type Header1 struct {
	SizeofHdr     int32
	DataType      [10]byte
	DBName        [18]byte
	Extents       int32
	SessionError  int16
	Regular       byte
	DimInfo       byte
	Dim           [8]int16
	IntentP1      float32
	IntentP2      float32
	IntentP3      float32
	IntentCode    int16
	Datatype      int16
	Bitpix        int16
	SliceStart    int16
	Pixdim        [8]float32
	VoxOffset     float32
	SclSlope      float32
	SclInter      float32
	SliceEnd      int16
	SliceCode     byte
	XYZTUnits     byte
	CalMax        float32
	CalMin        float32
	SliceDuration float32
	Toffset       float32
	Glmax         int32
	Glmin         int32
	Descrip       [80]byte
	AuxFile       [24]byte
	QformCode     int16
	SformCode     int16
	QuaternB      float32
	QuaternC      float32
	QuaternD      float32
	QoffsetX      float32
	QoffsetY      float32
	QoffsetZ      float32
	SrowX         [4]float32
	SrowY         [4]float32
	SrowZ         [4]float32
	IntentName    [16]byte
	Magic         [4]byte
}

// datatypeCode maps an element type to its NIfTI code. Bool volumes are
// stored as uint8.
func datatypeCode(t volume.DataType) (int16, error) {
	switch t {
	case volume.Bool, volume.Uint8:
		return DTUint8, nil
	case volume.Int8:
		return DTInt8, nil
	case volume.Uint16:
		return DTUint16, nil
	case volume.Int16:
		return DTInt16, nil
	case volume.Uint32:
		return DTUint32, nil
	case volume.Int32:
		return DTInt32, nil
	case volume.Int64:
		return DTInt64, nil
	case volume.Float32:
		return DTFloat32, nil
	case volume.Float64:
		return DTFloat64, nil
	default:
		return 0, fmt.Errorf("no NIfTI datatype for %s", t)
	}
}
