package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/user/videoread/pkg/ports"
)

func TestCreateCanvasFillsBackground(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(10, 10, color.RGBA{R: 255, A: 255})

	img := canvas.ToImage()
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Errorf("canvas size = %v, want 10x10", img.Bounds())
	}
	red, _, _, _ := img.At(5, 5).RGBA()
	if red>>8 != 255 {
		t.Errorf("background red = %d, want 255", red>>8)
	}
}

func TestEncodeImagePNG(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	data, err := r.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode PNG failed: %v", err)
	}
	if decoded.Bounds().Dx() != 4 {
		t.Errorf("decoded width = %d, want 4", decoded.Bounds().Dx())
	}
}

func TestEncodeImageJPEG(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	data, err := r.EncodeImage(img, ports.FormatJPEG, 80)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected JPEG data")
	}
}

func TestResizeImage(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	resized := r.ResizeImage(img, 4, 2)
	if resized.Bounds().Dx() != 4 || resized.Bounds().Dy() != 2 {
		t.Errorf("resized to %v, want 4x2", resized.Bounds())
	}
}

func TestCanvasDrawImage(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(8, 8, color.Black)

	tile := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(tile.Pix); i += 4 {
		tile.Pix[i] = 255
		tile.Pix[i+3] = 255
	}
	canvas.DrawImage(tile, 0, 0)

	img := canvas.ToImage()
	red, _, _, _ := img.At(1, 1).RGBA()
	if red>>8 != 255 {
		t.Errorf("drawn pixel red = %d, want 255", red>>8)
	}
	red, _, _, _ = img.At(6, 6).RGBA()
	if red>>8 != 0 {
		t.Errorf("background pixel red = %d, want 0", red>>8)
	}
}

func TestCanvasMeasureText(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 20, color.White)

	w, h := canvas.MeasureText("hello", ports.TextStyle{FontSize: 12})
	if w <= 0 || h <= 0 {
		t.Errorf("MeasureText = (%f, %f), want positive", w, h)
	}
}
