package nifti

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Options controls how an image is written.
type Options struct {
	// Compress wraps the stream in gzip (.nii.gz).
	Compress bool
	// Level is the gzip level; zero selects gzip.DefaultCompression.
	Level int
}

// OptionsFor derives Options from a file extension.
func OptionsFor(ext string, level int) Options {
	return Options{
		Compress: strings.HasSuffix(strings.ToLower(ext), ".gz"),
		Level:    level,
	}
}

// Write encodes img to w, compressing when opts asks for it.
func Write(w io.Writer, img Image, opts Options) error {
	if !opts.Compress {
		return Encode(w, img)
	}

	level := opts.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	zw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return fmt.Errorf("gzip writer: %w", err)
	}
	if err := Encode(zw, img); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("gzip close: %w", err)
	}
	return nil
}
