// Package videoread implements a sequential reading session over a
// single container file: decoded video frames as packed pixel buffers,
// raw PCM audio, and time-synchronized seeking, on top of a media
// engine supplied through the ports boundary.
//
// A Reader is driven by one logical caller at a time. It provides no
// internal locking; concurrent calls on the same Reader must be
// serialized externally. All operations are synchronous and block until
// the engine finishes or fails.
package videoread

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/user/videoread/pkg/ports"
)

// Reader reads video frames and audio samples from a container file.
//
// The zero session state is closed: construct with New, then Open a
// file before reading. Close returns the reader to the closed state and
// may be followed by another Open; Dispose is terminal.
type Reader struct {
	engine ports.MediaEngine
	log    ports.Logger

	container ports.Container
	info      ports.ContainerInfo
	video     *videoCursor
	audio     *audioCursor
	cleanup   runtime.Cleanup
	disposed  bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for session diagnostics.
func WithLogger(log ports.Logger) Option {
	return func(r *Reader) {
		r.log = log.WithComponent("reader")
	}
}

// New creates a closed Reader that will open containers through engine.
func New(engine ports.MediaEngine, opts ...Option) *Reader {
	r := &Reader{
		engine: engine,
		log:    nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open opens the container at path and prepares its streams. If the
// file cannot be opened or yields neither a video nor an audio stream,
// the reader stays closed and Open may be retried. Opening over an
// already open session closes it first.
func (r *Reader) Open(path string) error {
	if r.disposed {
		return ErrDisposed
	}
	if r.container != nil {
		if err := r.closeContainer(); err != nil {
			return err
		}
	}
	c, err := r.engine.OpenContainer(path)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	info := c.Info()
	if !info.HasVideo && !info.HasAudio {
		_ = c.Close()
		return &OpenError{Path: path, Err: errors.New("no usable video or audio stream")}
	}
	r.container = c
	r.info = info
	r.video = newVideoCursor(c)
	r.audio = newAudioCursor(c)
	// Release the engine handle if the caller drops an open reader
	// without closing it.
	r.cleanup = runtime.AddCleanup(r, func(c ports.Container) { _ = c.Close() }, c)
	r.log.Debug("Opened %s: %dx%d %s, %d frames declared", path, info.Width, info.Height, info.CodecName, info.FrameCount)
	return nil
}

// Close releases the open session, if any. Closing a closed reader is
// a no-op.
func (r *Reader) Close() error {
	if r.disposed {
		return ErrDisposed
	}
	return r.closeContainer()
}

// Dispose closes the session and permanently retires the reader. Every
// subsequent call fails with ErrDisposed.
func (r *Reader) Dispose() {
	if r.disposed {
		return
	}
	_ = r.closeContainer()
	r.disposed = true
}

func (r *Reader) closeContainer() error {
	if r.container == nil {
		return nil
	}
	r.cleanup.Stop()
	err := r.container.Close()
	r.container = nil
	r.info = ports.ContainerInfo{}
	r.video = nil
	r.audio = nil
	return err
}

// state validates that the reader can serve an operation.
func (r *Reader) state() error {
	if r.disposed {
		return ErrDisposed
	}
	if r.container == nil {
		return ErrNotOpen
	}
	return nil
}

// IsOpen reports whether a container session is open. It is false for
// a disposed reader.
func (r *Reader) IsOpen() bool {
	return !r.disposed && r.container != nil
}

// Width returns the native frame width of the open file.
func (r *Reader) Width() (int, error) {
	if err := r.state(); err != nil {
		return 0, err
	}
	return r.info.Width, nil
}

// Height returns the native frame height of the open file.
func (r *Reader) Height() (int, error) {
	if err := r.state(); err != nil {
		return 0, err
	}
	return r.info.Height, nil
}

// FrameRate returns the frame rate of the open file in frames per
// second.
func (r *Reader) FrameRate() (int, error) {
	if err := r.state(); err != nil {
		return 0, err
	}
	return r.info.FrameRate, nil
}

// FrameCount returns the number of video frames the container declares.
// Some formats declare a value that differs from the number of frames
// actually present; the count is reported as-is, so reading may hit end
// of stream before FrameCount frames have been returned.
func (r *Reader) FrameCount() (int64, error) {
	if err := r.state(); err != nil {
		return 0, err
	}
	return r.info.FrameCount, nil
}

// CodecName returns the name of the video codec of the open file.
func (r *Reader) CodecName() (string, error) {
	if err := r.state(); err != nil {
		return "", err
	}
	return r.info.CodecName, nil
}

// CurrentVideoTime returns the presentation time in seconds of the last
// video frame delivered or seeked to.
func (r *Reader) CurrentVideoTime() (float64, error) {
	if err := r.state(); err != nil {
		return 0, err
	}
	return r.video.time, nil
}

// CurrentAudioTime returns the audio decode position in seconds.
func (r *Reader) CurrentAudioTime() (float64, error) {
	if err := r.state(); err != nil {
		return 0, err
	}
	return r.audio.time, nil
}

// ReadVideoFrame reads the next video frame at native resolution as a
// 3-bytes-per-pixel RGB buffer. It returns io.EOF when the stream is
// exhausted; that is the expected termination, not a failure. The
// returned frame aliases a buffer reused by the next read.
func (r *Reader) ReadVideoFrame() (*Frame, error) {
	return r.readVideo(0, 0, ports.PixelRGB24)
}

// ReadVideoFrameSized reads the next video frame resampled to width x
// height RGB.
func (r *Reader) ReadVideoFrameSized(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("videoread: requested frame dimensions must be positive")
	}
	return r.readVideo(width, height, ports.PixelRGB24)
}

// ReadVideoFrameGray reads the next video frame at native resolution as
// a 1-byte-per-pixel luminance buffer.
func (r *Reader) ReadVideoFrameGray() (*Frame, error) {
	return r.readVideo(0, 0, ports.PixelGray8)
}

// ReadVideoFrameGraySized reads the next video frame resampled to width
// x height luminance.
func (r *Reader) ReadVideoFrameGraySized(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("videoread: requested frame dimensions must be positive")
	}
	return r.readVideo(width, height, ports.PixelGray8)
}

func (r *Reader) readVideo(width, height int, format ports.PixelFormat) (*Frame, error) {
	if err := r.state(); err != nil {
		return nil, err
	}
	frame, err := r.video.read(width, height, format)
	if errors.Is(err, io.EOF) {
		r.log.Debug("End of video stream at %.3fs", r.video.time)
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// ReadAudioFrame decodes and returns raw PCM bytes. With
// onlyCurrentVideoFrame it drains audio due at or before the current
// video time, keeping audio paced to the video reads; without, it
// drains a single decoded unit. An empty result means no audio stream
// exists or none is due yet; it is not an error.
func (r *Reader) ReadAudioFrame(onlyCurrentVideoFrame bool) ([]byte, error) {
	if err := r.state(); err != nil {
		return nil, err
	}
	if !r.info.HasAudio {
		return nil, nil
	}
	if onlyCurrentVideoFrame {
		return r.audio.drainThrough(r.video.time)
	}
	return r.audio.drainOne()
}

// Seek repositions both stream cursors to t seconds and returns the
// time actually landed on, which may differ because containers seek at
// packet and keyframe granularity.
//
// With seekToKeyFrame the session lands on the nearest keyframe at or
// before t: fast, but the next frame read may be earlier than t.
// Without it the session additionally decodes and discards frames up to
// t, so the next read returns the frame at or after t exactly; that
// precision costs the decode time of every discarded frame.
//
// Any audio accumulated before the seek is dropped.
func (r *Reader) Seek(t float64, seekToKeyFrame bool) (float64, error) {
	if err := r.state(); err != nil {
		return 0, err
	}
	if t < 0 {
		t = 0
	}
	actual, err := r.container.Seek(t, true)
	if err != nil {
		return 0, fmt.Errorf("videoread: seek to %.3fs: %w", t, err)
	}
	r.video.seekTo(actual)
	r.audio.reset(actual)
	if !seekToKeyFrame {
		landed, err := r.video.advanceTo(t)
		if err != nil {
			return 0, err
		}
		actual = landed
		r.audio.reset(landed)
	}
	r.log.Debug("Seeked to %.3fs (requested %.3fs, keyframe=%v)", actual, t, seekToKeyFrame)
	return actual, nil
}

// nopLogger discards everything; it keeps the library quiet unless a
// logger is injected.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})      {}
func (nopLogger) Info(string, ...interface{})       {}
func (nopLogger) Warn(string, ...interface{})       {}
func (nopLogger) Error(string, ...interface{})      {}
func (nopLogger) WithComponent(string) ports.Logger { return nopLogger{} }
