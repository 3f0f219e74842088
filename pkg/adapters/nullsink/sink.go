// Package nullsink provides a no-op frame sink implementation.
package nullsink

import (
	"image"

	"github.com/user/videoread/pkg/ports"
)

// Sink discards all output. It is the sink of choice when a command
// only needs to walk the streams without persisting anything.
type Sink struct{}

// New creates a new null sink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	return nil
}

// SaveRawFrame does nothing.
func (s *Sink) SaveRawFrame(index int, data []byte) error {
	return nil
}

// SaveAudio does nothing.
func (s *Sink) SaveAudio(data []byte) error {
	return nil
}

// SaveSheet does nothing.
func (s *Sink) SaveSheet(img image.Image) error {
	return nil
}

var _ ports.FrameSink = (*Sink)(nil)
