package sheet

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/user/videoread/pkg/mocks"
	"github.com/user/videoread/pkg/ports"
)

func testThumbs(n, w, h int) []Thumb {
	thumbs := make([]Thumb, n)
	for i := range thumbs {
		thumbs[i] = Thumb{
			Image: image.NewRGBA(image.Rect(0, 0, w, h)),
			Time:  float64(i) / 30.0,
		}
	}
	return thumbs
}

func TestComposeEmptyInput(t *testing.T) {
	c := New(&mocks.Renderer{}, noopLogger{}, DefaultOptions())
	if _, err := c.Compose(context.Background(), nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestComposeGridPlacement(t *testing.T) {
	var canvas *mocks.Canvas
	renderer := &mocks.Renderer{
		CreateCanvasFunc: func(width, height int, bg color.Color) ports.Canvas {
			canvas = &mocks.Canvas{}
			return canvas
		},
	}
	opts := Options{
		Columns:    2,
		ThumbWidth: 100,
		Gap:        10,
		Padding:    20,
		Background: color.Black,
		Timestamps: false,
		Workers:    1,
	}
	c := New(renderer, noopLogger{}, opts)

	// 200x100 source frames give 100x50 thumbnails.
	img, err := c.Compose(context.Background(), testThumbs(3, 200, 100))
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if img == nil {
		t.Fatal("expected sheet image")
	}

	want := []image.Point{
		{X: 20, Y: 20},
		{X: 130, Y: 20},
		{X: 20, Y: 80},
	}
	if len(canvas.DrawImageCalls) != len(want) {
		t.Fatalf("drew %d thumbs, want %d", len(canvas.DrawImageCalls), len(want))
	}
	for i, p := range want {
		if canvas.DrawImageCalls[i] != p {
			t.Errorf("thumb %d at %v, want %v", i, canvas.DrawImageCalls[i], p)
		}
	}
}

func TestComposeDrawsTimestamps(t *testing.T) {
	var canvas *mocks.Canvas
	renderer := &mocks.Renderer{
		CreateCanvasFunc: func(width, height int, bg color.Color) ports.Canvas {
			canvas = &mocks.Canvas{}
			return canvas
		},
	}
	opts := DefaultOptions()
	opts.Workers = 1
	c := New(renderer, noopLogger{}, opts)

	if _, err := c.Compose(context.Background(), testThumbs(4, 64, 48)); err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(canvas.TextDrawn) != 4 {
		t.Fatalf("drew %d labels, want 4", len(canvas.TextDrawn))
	}
	if canvas.TextDrawn[0] != "0:00.000" {
		t.Errorf("first label = %q, want 0:00.000", canvas.TextDrawn[0])
	}
}

func TestComposeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(&mocks.Renderer{}, noopLogger{}, DefaultOptions())
	if _, err := c.Compose(ctx, testThumbs(2, 64, 48)); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00.000"},
		{1.5, "0:01.500"},
		{61.25, "1:01.250"},
		{-3, "0:00.000"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%f) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// noopLogger discards log output in tests.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})           {}
func (noopLogger) Info(string, ...interface{})            {}
func (noopLogger) Warn(string, ...interface{})            {}
func (noopLogger) Error(string, ...interface{})           {}
func (noopLogger) WithComponent(string) ports.Logger      { return noopLogger{} }
