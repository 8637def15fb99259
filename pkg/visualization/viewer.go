// Package visualization turns 2D cuts of a volume into images. It holds no
// state of its own: every call renders whatever slice it is given.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"morphviewer/internal/models"
)

// SliceSource is anything that can hand out cuts along its last axis, such as
// a volume.State or a session.
type SliceSource interface {
	Slice(index int) (models.Slice, error)
	Shape() models.Shape
}

// Render maps a slice onto a 16-bit grayscale image. Values are windowed
// linearly from the slice's minimum to its maximum; a constant slice renders
// black, or white if the constant is positive. Image x is the volume's
// first axis and image y its second.
func Render(s models.Slice) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, s.Width, s.Height))
	lo, hi := s.Range()
	span := hi - lo

	for x := 0; x < s.Width; x++ {
		for y := 0; y < s.Height; y++ {
			v := s.At(x, y)
			var g float64
			switch {
			case span > 0:
				g = (v - lo) / span
			case v > 0:
				g = 1
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(g * 65535))})
		}
	}
	return img
}

// SaveImage writes img to filename, choosing PNG or JPEG by extension.
func SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return err
	}
	return file.Close()
}

// SaveSlice renders s and writes it to filename.
func SaveSlice(s models.Slice, filename string) error {
	return SaveImage(Render(s), filename)
}

// SnapshotName builds the file name for the seq-th snapshot of a session.
func SnapshotName(seq int, op string, index int, format string) string {
	ext := ".png"
	if format == "jpeg" || format == "jpg" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%03d_%s_slice%03d%s", seq, op, index, ext)
}

// SaveSliceSequence renders every slice of src into outputDir.
func SaveSliceSequence(src SliceSource, outputDir, format string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	ext := ".png"
	if format == "jpeg" || format == "jpg" {
		ext = ".jpg"
	}
	for pos := 0; pos < src.Shape().Depth(); pos++ {
		s, err := src.Slice(pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%03d%s", pos, ext))
		if err := SaveSlice(s, filename); err != nil {
			return err
		}
	}

	return nil
}
