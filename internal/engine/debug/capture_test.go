package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(2, 2, color.NRGBA{R: 255, A: 255})
	return img
}

func TestSavePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	fc := NewFrameCapture(dir, "melencholia", FormatPNG, 1)

	path, err := fc.Save(testImage(), 7)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "melencholia_000007.png"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, _, _, _ := img.At(2, 2).RGBA(); r>>8 != 255 {
		t.Errorf("expected red pixel, got %v", img.At(2, 2))
	}
}

func TestSaveWebP(t *testing.T) {
	dir := t.TempDir()
	fc := NewFrameCapture(dir, "f", FormatWebP, 1)

	path, err := fc.Save(testImage(), 1)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(path) != ".webp" {
		t.Errorf("expected .webp, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Errorf("not a WebP container: % x", data[:min(12, len(data))])
	}
}

func TestOnPresentEvery(t *testing.T) {
	dir := t.TempDir()
	fc := NewFrameCapture(dir, "f", "bmp", 3)

	for frame := uint64(1); frame <= 10; frame++ {
		if err := fc.OnPresent(testImage(), frame); err != nil {
			t.Fatalf("OnPresent(%d): %v", frame, err)
		}
	}

	if fc.Saved() != 3 {
		t.Errorf("expected 3 frames saved, got %d", fc.Saved())
	}
	for _, frame := range []uint64{3, 6, 9} {
		if _, err := os.Stat(fc.Filename(frame)); err != nil {
			t.Errorf("frame %d: %v", frame, err)
		}
	}
	if filepath.Ext(fc.Filename(1)) != ".png" {
		t.Errorf("unknown format should fall back to png")
	}
}
