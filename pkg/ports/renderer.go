package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts the image composition operations used by the
// contact-sheet builder and the frame sinks.
type Renderer interface {
	// CreateCanvas creates a drawing canvas filled with bg.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// EncodeImage encodes an image to the given format. Quality applies
	// to JPEG only.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to width x height.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas provides the drawing operations for compositing thumbnails.
type Canvas interface {
	// DrawImage draws an image at the given position.
	DrawImage(img image.Image, x, y int)

	// DrawImageScaled draws an image scaled to width x height.
	DrawImageScaled(img image.Image, x, y, width, height int)

	// DrawRect draws a filled rectangle.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawText draws text at the given baseline position.
	DrawText(text string, x, y int, style TextStyle)

	// MeasureText returns the rendered size of text.
	MeasureText(text string, style TextStyle) (width, height float64)

	// ToImage returns the canvas content.
	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
)
