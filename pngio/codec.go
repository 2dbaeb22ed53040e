// Package pngio reads images from disk and writes them back as PNG without
// ever leaving a partially written target behind.
package pngio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"go.uber.org/multierr"
)

var (
	ErrDecode = errors.New("pngio: failed to decode image")
	ErrEncode = errors.New("pngio: failed to encode image")
	ErrWrite  = errors.New("pngio: failed to write image")
	ErrIsDir  = errors.New("pngio: path is a directory")
)

var encoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// Exists reports whether path names an existing regular file.
// A stat error other than "not exist" is returned as-is.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%w: %s", ErrIsDir, path)
	}
	return true, nil
}

// Decode opens and decodes the image at path. PNG and JPEG are supported.
func Decode(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}

// Encode writes img to w as PNG. Channel values, including alpha, are kept exactly.
func Encode(w io.Writer, img image.Image) error {
	if err := encoder.Encode(w, img); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// WriteFile encodes img as PNG and replaces path with it.
//
// The image is fully encoded in memory, written to a temporary file next to
// path, then renamed over it. Any failure leaves path untouched. Existing
// file permissions are kept.
func WriteFile(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, buf.Bytes(), mode); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, multierr.Append(err, os.Remove(tmpPath)))
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, multierr.Append(err, os.Remove(tmpPath)))
	}
	return nil
}

func writeAndClose(f *os.File, data []byte, mode os.FileMode) (err error) {
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Chmod(mode); err != nil {
		return err
	}
	return f.Sync()
}
