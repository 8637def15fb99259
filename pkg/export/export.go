// Package export writes the edited volume back to disk in its acquisition
// orientation, with the loader's affine and header attached.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"morphviewer/internal/logger"
	"morphviewer/pkg/nifti"
	"morphviewer/pkg/orientation"
	"morphviewer/pkg/volume"
)

// DefaultExtension is used when none is configured.
const DefaultExtension = ".nii.gz"

// filePermissions applies to exported volumes.
const filePermissions = 0o644

// maxProbes bounds the search for a free file name.
const maxProbes = 1 << 20

// ErrNoFreeName is returned when every probed name is taken.
var ErrNoFreeName = errors.New("no free export file name")

// Exporter persists volumes as NIfTI-1 files.
type Exporter struct {
	// Extension is appended to every file name, e.g. ".nii.gz".
	Extension string
	// CompressionLevel is the gzip level for compressed extensions.
	CompressionLevel int
}

// New returns an Exporter. An empty extension selects DefaultExtension.
func New(ext string, level int) *Exporter {
	if ext == "" {
		ext = DefaultExtension
	}
	return &Exporter{Extension: ext, CompressionLevel: level}
}

// FileName returns the name used for export number n.
func FileName(basename string, n int, ext string) string {
	return basename + "_morph_" + strconv.Itoa(n) + ext
}

// Export undoes the rotations recorded in c on a copy of st and writes it to
// dir as <basename>_morph_<N><ext>, N being the smallest free number. st is
// never modified.
func (e *Exporter) Export(ctx context.Context, st *volume.State, c orientation.Cycle, dir, basename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ctx = logger.WithName(ctx, "export")

	shape, data := orientation.Restore(c, st.Shape(), st.Data())
	img := nifti.Image{
		Shape:       shape,
		DataType:    st.DataType(),
		Data:        data,
		Meta:        st.Metadata(),
		Description: "morphviewer export",
	}

	f, path, err := claim(dir, basename, e.Extension)
	if err != nil {
		return "", err
	}
	logger.Debugf(ctx, "claimed %s, restoring %d cycle(s)", path, c)

	if err := e.write(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("export %s: %w", path, err)
	}

	size := "unknown size"
	if info, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	logger.InfoKV(ctx, "exported volume",
		"path", path,
		"shape", shape.String(),
		"dtype", img.DataType.String(),
		"size", size,
	)
	return path, nil
}

func (e *Exporter) write(f *os.File, img nifti.Image) error {
	return nifti.Write(f, img, nifti.OptionsFor(e.Extension, e.CompressionLevel))
}

// NextPath returns the first free export path in dir without creating it.
func NextPath(dir, basename, ext string) (string, error) {
	for n := 0; n < maxProbes; n++ {
		path := filepath.Join(dir, FileName(basename, n, ext))
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe %s: %w", path, err)
		}
	}
	return "", ErrNoFreeName
}

// claim creates the first free export file exclusively, so a name that
// appears between probe and create moves on to the next number.
func claim(dir, basename, ext string) (*os.File, string, error) {
	for n := 0; n < maxProbes; n++ {
		path := filepath.Join(dir, FileName(basename, n, ext))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermissions)
		if err == nil {
			return f, path, nil
		}
		if errors.Is(err, os.ErrExist) {
			continue
		}
		return nil, "", fmt.Errorf("create %s: %w", path, err)
	}
	return nil, "", ErrNoFreeName
}
