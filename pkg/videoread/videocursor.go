package videoread

import (
	"errors"
	"io"

	"github.com/user/videoread/pkg/ports"
)

// videoCursor tracks the video decode position and owns the single
// pixel buffer that successive reads overwrite.
type videoCursor struct {
	container ports.Container
	// time is the presentation time of the last delivered frame.
	time float64
	// pending holds a frame decoded ahead of delivery by an exact seek.
	pending *ports.RawFrame
	// frame is the reused output; its Pix backing array grows once to
	// the native buffer size and is overwritten on every read.
	frame Frame
}

func newVideoCursor(c ports.Container) *videoCursor {
	return &videoCursor{container: c}
}

// fetch pulls compressed units from the demuxer and feeds them to the
// decoder until a displayable frame comes out. io.EOF passes through
// untouched; demux and decode failures become DecodeErrors without
// moving the cursor.
func (v *videoCursor) fetch() (ports.RawFrame, error) {
	if v.pending != nil {
		raw := *v.pending
		v.pending = nil
		v.time = raw.Time
		return raw, nil
	}
	for {
		pkt, err := v.container.NextPacket(ports.StreamVideo)
		if errors.Is(err, io.EOF) {
			return ports.RawFrame{}, io.EOF
		}
		if err != nil {
			return ports.RawFrame{}, &DecodeError{Stream: ports.StreamVideo, Time: v.time, Err: err}
		}
		raw, err := v.container.DecodeVideo(pkt)
		if errors.Is(err, ports.ErrNeedMoreInput) {
			continue
		}
		if err != nil {
			return ports.RawFrame{}, &DecodeError{Stream: ports.StreamVideo, Time: v.time, Err: err}
		}
		v.time = raw.Time
		return raw, nil
	}
}

// read fetches the next frame and converts it into the cursor-owned
// buffer. width or height of 0 selects the native dimension.
func (v *videoCursor) read(width, height int, format ports.PixelFormat) (*Frame, error) {
	prev := v.time
	raw, err := v.fetch()
	if err != nil {
		return nil, err
	}
	w, h := width, height
	if w == 0 {
		w = raw.Image.Bounds().Dx()
	}
	if h == 0 {
		h = raw.Image.Bounds().Dy()
	}
	pix, err := v.container.Convert(raw, width, height, format, v.frame.Pix)
	if err != nil {
		// The frame was never delivered; keep the cursor on the last
		// delivered one.
		v.time = prev
		return nil, &DecodeError{Stream: ports.StreamVideo, Time: prev, Err: err}
	}
	v.frame = Frame{
		Pix:    pix,
		Width:  w,
		Height: h,
		Stride: w * format.BytesPerPixel(),
		Format: format,
		Time:   raw.Time,
	}
	return &v.frame, nil
}

// seekTo adopts a new position after a container seek, dropping any
// frame decoded ahead of it.
func (v *videoCursor) seekTo(t float64) {
	v.time = t
	v.pending = nil
}

// advanceTo decodes and discards frames until it finds one whose
// presentation time is at or after t, then parks that frame for the
// next read. It returns the time landed on; reaching end of stream
// first is not an error.
func (v *videoCursor) advanceTo(t float64) (float64, error) {
	for {
		raw, err := v.fetch()
		if errors.Is(err, io.EOF) {
			return v.time, nil
		}
		if err != nil {
			return 0, err
		}
		if raw.Time >= t {
			v.pending = &raw
			return raw.Time, nil
		}
	}
}
