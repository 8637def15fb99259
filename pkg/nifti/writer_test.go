package nifti

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"morphviewer/internal/models"
	"morphviewer/pkg/volume"
)

func testImage(t *testing.T, dt volume.DataType, header []byte) Image {
	t.Helper()

	affine := mat.NewDense(4, 4, []float64{
		0.5, 0, 0, -10,
		0, 0.5, 0, -20,
		0, 0, 2, 5,
		0, 0, 0, 1,
	})
	meta, err := volume.NewMetadata(affine, header)
	require.NoError(t, err)

	shape := models.Shape{2, 3, 2}
	data := make([]float64, shape.Len())
	for i := range data {
		data[i] = float64(i)
	}
	return Image{Shape: shape, DataType: dt, Data: data, Meta: meta}
}

func TestHeaderSize(t *testing.T) {
	t.Parallel()
	require.Equal(t, HeaderSize, binary.Size(Header1{}))
}

func TestEncode_Layout(t *testing.T) {
	t.Parallel()

	img := testImage(t, volume.Uint8, []byte("opaque"))
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	// header, flag, one 16 byte extension, 12 one-byte voxels
	out := buf.Bytes()
	require.Len(t, out, HeaderSize+4+16+12)

	var h Header1
	require.NoError(t, binary.Read(bytes.NewReader(out[:HeaderSize]), binary.LittleEndian, &h))
	require.Equal(t, int32(HeaderSize), h.SizeofHdr)
	require.Equal(t, [4]byte{'n', '+', '1', 0}, h.Magic)
	require.Equal(t, [8]int16{3, 2, 3, 2, 1, 1, 1, 1}, h.Dim)
	require.Equal(t, DTUint8, h.Datatype)
	require.Equal(t, int16(8), h.Bitpix)
	require.Equal(t, float32(HeaderSize+4+16), h.VoxOffset)
	require.Equal(t, [4]float32{0.5, 0, 0, -10}, h.SrowX)
	require.Equal(t, [4]float32{0, 0, 2, 5}, h.SrowZ)
	require.Equal(t, float32(2), h.Pixdim[3])

	ext := out[HeaderSize : HeaderSize+4+16]
	require.Equal(t, byte(1), ext[0])
	require.Equal(t, uint32(16), binary.LittleEndian.Uint32(ext[4:8]))
	require.Equal(t, []byte("opaque"), ext[12:18])

	// first axis varies fastest on disk
	voxels := out[int(h.VoxOffset):]
	shape := img.Shape
	for z := 0; z < shape[2]; z++ {
		for y := 0; y < shape[1]; y++ {
			for x := 0; x < shape[0]; x++ {
				pos := x + shape[0]*(y+shape[1]*z)
				require.Equal(t, byte(img.Data[shape.Index(x, y, z)]), voxels[pos])
			}
		}
	}
}

func TestEncode_NoHeaderBlob(t *testing.T) {
	t.Parallel()

	img := testImage(t, volume.Int16, nil)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	out := buf.Bytes()
	require.Len(t, out, HeaderSize+4+12*2)
	require.Equal(t, []byte{0, 0, 0, 0}, out[HeaderSize:HeaderSize+4])
	last := int16(binary.LittleEndian.Uint16(out[len(out)-2:]))
	require.Equal(t, int16(img.Data[img.Shape.Index(1, 2, 1)]), last)
}

func TestEncode_Float64(t *testing.T) {
	t.Parallel()

	img := testImage(t, volume.Float64, nil)
	img.Data[0] = -1.25
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	out := buf.Bytes()[HeaderSize+4:]
	require.Equal(t, -1.25, math.Float64frombits(binary.LittleEndian.Uint64(out[:8])))
}

func TestEncode_ShapeMismatch(t *testing.T) {
	t.Parallel()

	img := testImage(t, volume.Uint8, nil)
	img.Data = img.Data[:5]
	require.ErrorIs(t, Encode(io.Discard, img), volume.ErrShapeMismatch)
}

func TestEncode_Int64Extremes(t *testing.T) {
	t.Parallel()

	img := Image{
		Shape:    models.Shape{1, 1, 2},
		DataType: volume.Int64,
		Data:     []float64{1e30, -1e30},
		Meta:     volume.Metadata{},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	out := buf.Bytes()[HeaderSize+4:]
	require.Len(t, out, 16)
	hi := int64(binary.LittleEndian.Uint64(out[:8]))
	lo := int64(binary.LittleEndian.Uint64(out[8:]))
	require.Positive(t, hi)
	require.Greater(t, hi, int64(math.MaxInt64-1024))
	require.Equal(t, int64(math.MinInt64), lo)
}

func TestNewHeader_RejectsNonSquareAffine(t *testing.T) {
	t.Parallel()

	img := testImage(t, volume.Uint8, nil)
	img.Meta.Affine = mat.NewDense(3, 3, nil)
	_, err := NewHeader(img, HeaderSize+4)
	require.Error(t, err)
	require.Error(t, Encode(io.Discard, img))
}

// TestHeader1_FieldOffsets pins the struct layout to the NIfTI-1 byte offsets
// that readers such as nibabel and FSL rely on.
func TestHeader1_FieldOffsets(t *testing.T) {
	t.Parallel()

	img := testImage(t, volume.Int16, nil)
	h, err := NewHeader(img, 352)
	require.NoError(t, err)
	h.QformCode = 7

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))
	raw := buf.Bytes()
	le := binary.LittleEndian

	require.Equal(t, uint32(348), le.Uint32(raw[0:]))
	require.Equal(t, byte('r'), raw[38])
	require.Equal(t, uint16(3), le.Uint16(raw[40:]))
	require.Equal(t, uint16(2), le.Uint16(raw[42:]))
	require.Equal(t, uint16(DTInt16), le.Uint16(raw[70:]))
	require.Equal(t, uint16(16), le.Uint16(raw[72:]))
	require.Equal(t, float32(0.5), math.Float32frombits(le.Uint32(raw[80:])))
	require.Equal(t, float32(352), math.Float32frombits(le.Uint32(raw[108:])))
	require.Equal(t, float32(1), math.Float32frombits(le.Uint32(raw[112:])))
	require.Equal(t, byte(unitsMM), raw[123])
	require.Equal(t, uint16(7), le.Uint16(raw[252:]))
	require.Equal(t, uint16(sformAligned), le.Uint16(raw[254:]))
	require.Equal(t, float32(-10), math.Float32frombits(le.Uint32(raw[292:])))
	require.Equal(t, float32(2), math.Float32frombits(le.Uint32(raw[320:])))
	require.Equal(t, []byte{'n', '+', '1', 0}, raw[344:348])
}

func TestWrite_Gzip(t *testing.T) {
	t.Parallel()

	img := testImage(t, volume.Int8, []byte("hdr"))
	var plain, zipped bytes.Buffer
	require.NoError(t, Encode(&plain, img))
	require.NoError(t, Write(&zipped, img, OptionsFor(".nii.gz", 0)))

	zr, err := gzip.NewReader(&zipped)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Equal(t, plain.Bytes(), got)

	require.False(t, OptionsFor(".nii", 0).Compress)
	require.True(t, OptionsFor(".NII.GZ", 0).Compress)
}
