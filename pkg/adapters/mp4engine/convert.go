package mp4engine

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/user/videoread/pkg/ports"
)

// Convert scales the decoded frame to width x height and packs the
// pixels into the requested format, appending to dst[:0].
func (c *Container) Convert(frame ports.RawFrame, width, height int, format ports.PixelFormat, dst []byte) ([]byte, error) {
	if frame.Image == nil {
		return nil, fmt.Errorf("no image in frame")
	}
	bounds := frame.Image.Bounds()
	if width <= 0 {
		width = bounds.Dx()
	}
	if height <= 0 {
		height = bounds.Dy()
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	switch format {
	case ports.PixelGray8:
		gray := image.NewGray(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(gray, gray.Bounds(), frame.Image, bounds, draw.Src, nil)
		return packGray8(gray, width, height, dst), nil
	case ports.PixelRGB24:
		rgba := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), frame.Image, bounds, draw.Src, nil)
		return packRGB24(rgba, width, height, dst), nil
	default:
		return nil, fmt.Errorf("unsupported pixel format %d", format)
	}
}

// packRGB24 drops the alpha channel, leaving tightly packed R-G-B rows.
func packRGB24(rgba *image.RGBA, width, height int, dst []byte) []byte {
	out := dst[:0]
	if cap(out) < width*height*3 {
		out = make([]byte, 0, width*height*3)
	}
	for y := 0; y < height; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+width*4]
		for x := 0; x < width; x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}

// packGray8 copies the luminance plane row by row, dropping any stride
// padding.
func packGray8(gray *image.Gray, width, height int, dst []byte) []byte {
	out := dst[:0]
	if cap(out) < width*height {
		out = make([]byte, 0, width*height)
	}
	for y := 0; y < height; y++ {
		out = append(out, gray.Pix[y*gray.Stride:y*gray.Stride+width]...)
	}
	return out
}
