package ioutils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestConvertToJPEG(t *testing.T) {
	svc := NewImageService()

	out, err := svc.ConvertToJPEG(testPNG(t, 10, 10))
	if err != nil {
		t.Fatalf("ConvertToJPEG failed: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 10 {
		t.Errorf("dimensions = %dx%d, want 10x10", cfg.Width, cfg.Height)
	}
}

func TestConvertToJPEG_NotAnImage(t *testing.T) {
	svc := NewImageService()
	if _, err := svc.ConvertToJPEG([]byte("definitely not an image")); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestResizeImage(t *testing.T) {
	svc := NewImageService()

	out, err := svc.ResizeImage(testPNG(t, 200, 100), 100, 100)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("dimensions = %dx%d, want 100x50 (aspect preserved)", cfg.Width, cfg.Height)
	}
}

func TestResizeImage_SmallImageKeepsSize(t *testing.T) {
	svc := NewImageService()

	out, err := svc.ResizeImage(testPNG(t, 50, 40), 100, 100)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 40 {
		t.Errorf("dimensions = %dx%d, want 50x40", cfg.Width, cfg.Height)
	}
}
