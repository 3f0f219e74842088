// Package ports defines the interfaces between the reader core and its
// adapters: the media engine that demuxes and decodes containers, the
// codec decoders it delegates to, and the ambient concerns (logging,
// filesystem, rendering, frame output).
package ports

import (
	"errors"
	"image"
)

// StreamKind identifies which elementary stream a packet belongs to.
type StreamKind int

const (
	// StreamVideo is the container's primary video stream.
	StreamVideo StreamKind = iota
	// StreamAudio is the container's primary audio stream.
	StreamAudio
)

// String returns the stream name used in error messages.
func (s StreamKind) String() string {
	switch s {
	case StreamVideo:
		return "video"
	case StreamAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// PixelFormat selects the layout of converted pixel buffers.
type PixelFormat int

const (
	// PixelRGB24 is 3 bytes per pixel, R-G-B order, no alpha.
	PixelRGB24 PixelFormat = iota
	// PixelGray8 is 1 byte per pixel luminance.
	PixelGray8
)

// BytesPerPixel returns the packed size of one pixel in this format.
func (f PixelFormat) BytesPerPixel() int {
	if f == PixelGray8 {
		return 1
	}
	return 3
}

// ErrNeedMoreInput is returned by decode operations when the fed packet
// did not yet produce output and the caller should feed the next one.
var ErrNeedMoreInput = errors.New("ports: decoder needs more input")

// Packet is one compressed unit demuxed from a container stream.
type Packet struct {
	Stream StreamKind
	Data   []byte
	// Time is the presentation time in seconds.
	Time float64
	// Duration is the display duration in seconds (0 if unknown).
	Duration float64
	Keyframe bool
}

// RawFrame is a decoded but not yet converted video frame.
type RawFrame struct {
	Image image.Image
	// Time is the presentation time in seconds.
	Time float64
}

// ContainerInfo carries the per-stream metadata declared by a container.
// FrameCount is whatever the container reports; some formats declare a
// value that differs from the number of frames actually present.
type ContainerInfo struct {
	Width      int
	Height     int
	FrameRate  int
	FrameCount int64
	CodecName  string
	Duration   float64 // seconds, 0 if unknown
	HasVideo   bool
	HasAudio   bool
	SampleRate int // audio, 0 if no audio stream
	Channels   int // audio, 0 if no audio stream
}

// MediaEngine opens containers. It is the single entry point into the
// demux/decode machinery; everything after OpenContainer goes through
// the returned Container.
type MediaEngine interface {
	// OpenContainer opens the file at path and prepares its streams
	// for demuxing. The returned Container is owned by the caller and
	// must be closed.
	OpenContainer(path string) (Container, error)
}

// Container is an open container session. Implementations are not safe
// for concurrent use; the reader core serializes all calls.
type Container interface {
	// Info returns the container metadata captured at open time.
	Info() ContainerInfo

	// NextPacket demuxes the next compressed unit of the given stream,
	// in decode order. It returns io.EOF when the stream is exhausted.
	NextPacket(stream StreamKind) (Packet, error)

	// DecodeVideo feeds one video packet to the decoder. It returns
	// ErrNeedMoreInput when no displayable frame is available yet.
	DecodeVideo(pkt Packet) (RawFrame, error)

	// DecodeAudio feeds one audio packet to the decoder and returns the
	// decoded PCM bytes. It returns ErrNeedMoreInput when the packet
	// produced no output yet.
	DecodeAudio(pkt Packet) ([]byte, error)

	// Convert scales frame to width x height and packs it into format.
	// The result is appended to dst[:0] so callers can reuse buffers;
	// width or height of 0 selects the frame's own dimension.
	Convert(frame RawFrame, width, height int, format PixelFormat, dst []byte) ([]byte, error)

	// Seek repositions every stream cursor. With keyframeOnly it lands
	// on the last keyframe at or before t; without, on the last sample
	// at or before t regardless of sync flags. It returns the
	// presentation time actually landed on.
	Seek(t float64, keyframeOnly bool) (float64, error)

	// Close releases the demuxer and decoder resources. It is
	// idempotent.
	Close() error
}
