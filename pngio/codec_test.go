package pngio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "a.png")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if ok, err := Exists(file); !ok || err != nil {
		t.Errorf("Exists(file) = %v, %v; want true, nil", ok, err)
	}
	if ok, err := Exists(filepath.Join(tmpDir, "missing.png")); ok || err != nil {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", ok, err)
	}
	if ok, err := Exists(tmpDir); ok || !errors.Is(err, ErrIsDir) {
		t.Errorf("Exists(dir) = %v, %v; want false, ErrIsDir", ok, err)
	}
}

func TestWriteFile_RoundTripKeepsAlphaAndColour(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.png")

	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{130, 130, 130, 0})
	img.SetNRGBA(1, 0, color.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(2, 0, color.NRGBA{200, 100, 50, 77})

	if err := WriteFile(path, img); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	nrgba, ok := got.(*image.NRGBA)
	if !ok {
		t.Fatalf("Decode() returned %T, want *image.NRGBA", got)
	}
	if !bytes.Equal(nrgba.Pix, img.Pix) {
		t.Errorf("pixels = %v, want %v", nrgba.Pix, img.Pix)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestWriteFile_KeepsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perm.png")
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	writeTestPNG(t, path, img)
	if err := os.Chmod(path, 0600); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, img); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "out.png")
	err := WriteFile(path, image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, ErrWrite) {
		t.Errorf("WriteFile() error = %v, want ErrWrite", err)
	}
}

func TestWriteFile_EncodeFailureLeavesTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.png")
	if err := os.WriteFile(path, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	// png cannot encode an empty image.
	err := WriteFile(path, image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	if !errors.Is(err, ErrEncode) {
		t.Fatalf("WriteFile() error = %v, want ErrEncode", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "original" {
		t.Errorf("target modified to %q", data)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\ngarbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(path); !errors.Is(err, ErrDecode) {
		t.Errorf("Decode() error = %v, want ErrDecode", err)
	}
}

func TestDecode_Missing(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Decode() error = %v, want os.ErrNotExist", err)
	}
}
