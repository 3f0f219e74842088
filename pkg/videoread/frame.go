package videoread

import (
	"image"
	"image/color"

	"github.com/user/videoread/pkg/ports"
)

// Frame is a decoded video frame as a packed pixel buffer.
//
// Pix aliases a buffer owned by the reader and overwritten by the next
// ReadVideoFrame call on the same reader. Callers that keep a frame
// across reads must Clone it first.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
	// Stride is the number of bytes between vertically adjacent pixels.
	Stride int
	Format ports.PixelFormat
	// Time is the frame's presentation time in seconds.
	Time float64
}

// Clone returns a copy of the frame whose pixel buffer is independent
// of the reader's internal buffer.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Pix = make([]byte, len(f.Pix))
	copy(c.Pix, f.Pix)
	return &c
}

// Image converts the frame into a stdlib image. The returned image owns
// its own pixels and stays valid after the next read.
func (f *Frame) Image() image.Image {
	rect := image.Rect(0, 0, f.Width, f.Height)
	if f.Format == ports.PixelGray8 {
		img := image.NewGray(rect)
		for y := 0; y < f.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+f.Width], f.Pix[y*f.Stride:])
		}
		return img
	}
	img := image.NewRGBA(rect)
	for y := 0; y < f.Height; y++ {
		src := f.Pix[y*f.Stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < f.Width; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// At returns the pixel color at (x, y). Intended for tests and spot
// checks, not per-pixel processing.
func (f *Frame) At(x, y int) color.Color {
	if f.Format == ports.PixelGray8 {
		return color.Gray{Y: f.Pix[y*f.Stride+x]}
	}
	i := y*f.Stride + x*3
	return color.RGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: 0xff}
}
