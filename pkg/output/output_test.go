package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.SetRGBA(0, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{R: 12, G: 34, B: 56, A: 255})
	return img
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, testImage()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := "P3\n2 2\n255\n255 0 0\n0 255 0\n0 0 255\n12 34 56\n"
	if buf.String() != expected {
		t.Errorf("Unexpected PPM output:\n%q\nwant\n%q", buf.String(), expected)
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(testImage())
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 12 || g>>8 != 34 || b>>8 != 56 {
		t.Errorf("Unexpected pixel (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 225))
	thumb := Thumbnail(img, 100)
	if thumb.Bounds().Dx() != 100 || thumb.Bounds().Dy() != 56 {
		t.Errorf("Expected 100x56 thumbnail, got %v", thumb.Bounds())
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		file string
	}{
		{"ppm", "render.ppm"},
		{"png", "render.png"},
		{"nested directory", filepath.Join("nested", "render.png")},
		{"bmp", "render.bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := SaveImage(path, testImage()); err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil || info.Size() == 0 {
				t.Fatalf("Expected non-empty file at %s: %v", path, err)
			}
			if filepath.Ext(path) == ".ppm" {
				return
			}
			decoded, err := imaging.Open(path)
			if err != nil {
				t.Fatalf("Failed to reopen %s: %v", path, err)
			}
			if decoded.Bounds().Dx() != 2 {
				t.Errorf("Unexpected bounds %v", decoded.Bounds())
			}
		})
	}

	if err := SaveImage(filepath.Join(dir, "render.xyz"), testImage()); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

// closeRecorder captures writes and fails on Close when closeErr is set
type closeRecorder struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.closeErr
}

func TestWritePPMAndClose(t *testing.T) {
	tests := []struct {
		name        string
		closeErr    error
		expectError bool
	}{
		{"close succeeds", nil, false},
		{"close fails", errors.New("disk full"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := &closeRecorder{closeErr: tt.closeErr}
			err := writePPMAndClose(wc, testImage())

			if !wc.closed {
				t.Error("Expected the writer to be closed")
			}
			if tt.expectError {
				if !errors.Is(err, tt.closeErr) {
					t.Errorf("Expected close error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !bytes.HasPrefix(wc.Bytes(), []byte("P3\n2 2\n255\n")) {
				t.Errorf("Unexpected PPM output %q", wc.String())
			}
		})
	}
}
