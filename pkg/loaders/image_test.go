package loaders

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	return img
}

func TestSavePNG_RoundTrip(t *testing.T) {
	// Nested directory that does not exist yet
	path := filepath.Join(t.TempDir(), "frames", "frame_000.png")
	img := testImage()

	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	loaded, err := LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG failed: %v", err)
	}
	if loaded.Bounds() != img.Bounds() {
		t.Fatalf("Expected bounds %v, got %v", img.Bounds(), loaded.Bounds())
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			want := img.RGBAAt(x, y)
			got := color.RGBAModel.Convert(loaded.At(x, y)).(color.RGBA)
			if got != want {
				t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestEncodePNG_Signature(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, testImage()); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("Output does not start with the PNG signature")
	}
}

func TestLoadPNG_Errors(t *testing.T) {
	if _, err := LoadPNG(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}
