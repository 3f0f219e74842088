// Package rawvideo treats samples as uncompressed packed RGB24 frames.
// It backs the "raw " sample entry and doubles as the injection point
// for synthetic fixtures in tests.
package rawvideo

import (
	"fmt"
	"image"

	"github.com/user/videoread/pkg/ports"
)

// Decoder unpacks RGB24 sample payloads into images.
type Decoder struct {
	width  int
	height int
}

var _ ports.FrameDecoder = (*Decoder)(nil)

// New creates a raw RGB24 decoder for frames of the given dimensions.
func New(width, height int) *Decoder {
	return &Decoder{width: width, height: height}
}

// Init validates the configured dimensions.
func (d *Decoder) Init() error {
	if d.width <= 0 || d.height <= 0 {
		return fmt.Errorf("rawvideo: invalid frame size %dx%d", d.width, d.height)
	}
	return nil
}

// DecodeFrame wraps one packed RGB24 payload in an RGBA image.
func (d *Decoder) DecodeFrame(data []byte) (image.Image, error) {
	want := d.width * d.height * 3
	if len(data) != want {
		return nil, fmt.Errorf("rawvideo: sample is %d bytes, want %d for %dx%d", len(data), want, d.width, d.height)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	for i := 0; i < d.width*d.height; i++ {
		rgba.Pix[i*4] = data[i*3]
		rgba.Pix[i*4+1] = data[i*3+1]
		rgba.Pix[i*4+2] = data[i*3+2]
		rgba.Pix[i*4+3] = 255
	}
	return rgba, nil
}

// Close is a no-op; the decoder holds no resources.
func (d *Decoder) Close() {}
