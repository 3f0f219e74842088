// Package mocks provides hand-rolled mock implementations of the ports
// interfaces for tests.
package mocks

import (
	"image"
	"io"

	"github.com/user/videoread/pkg/ports"
)

// Engine is a mock implementation of ports.MediaEngine.
type Engine struct {
	OpenContainerFunc func(path string) (ports.Container, error)

	// Recorded calls for verification
	OpenCalls []string
}

func (m *Engine) OpenContainer(path string) (ports.Container, error) {
	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenContainerFunc != nil {
		return m.OpenContainerFunc(path)
	}
	return NewContainer(ports.ContainerInfo{HasVideo: true}, nil, nil), nil
}

var _ ports.MediaEngine = (*Engine)(nil)

// Container is a scripted mock implementation of ports.Container. By
// default it demuxes the given packet slices in order, "decodes" video
// packets into solid images sized from ContainerInfo, echoes audio
// packet data as PCM, and seeks over the video packet list honoring
// keyframe flags. Any step can be overridden with a Func field.
type Container struct {
	ContainerInfo ports.ContainerInfo
	VideoPackets  []ports.Packet
	AudioPackets  []ports.Packet

	NextPacketFunc  func(stream ports.StreamKind) (ports.Packet, error)
	DecodeVideoFunc func(pkt ports.Packet) (ports.RawFrame, error)
	DecodeAudioFunc func(pkt ports.Packet) ([]byte, error)
	ConvertFunc     func(frame ports.RawFrame, width, height int, format ports.PixelFormat, dst []byte) ([]byte, error)
	SeekFunc        func(t float64, keyframeOnly bool) (float64, error)
	CloseFunc       func() error

	// Recorded state for verification
	CloseCalls  int
	SeekCalls   []float64
	videoCursor int
	audioCursor int
}

// NewContainer creates a scripted container over the given packets.
func NewContainer(info ports.ContainerInfo, video, audio []ports.Packet) *Container {
	return &Container{
		ContainerInfo: info,
		VideoPackets:  video,
		AudioPackets:  audio,
	}
}

func (m *Container) Info() ports.ContainerInfo {
	return m.ContainerInfo
}

func (m *Container) NextPacket(stream ports.StreamKind) (ports.Packet, error) {
	if m.NextPacketFunc != nil {
		return m.NextPacketFunc(stream)
	}
	if stream == ports.StreamVideo {
		if m.videoCursor >= len(m.VideoPackets) {
			return ports.Packet{}, io.EOF
		}
		pkt := m.VideoPackets[m.videoCursor]
		m.videoCursor++
		return pkt, nil
	}
	if m.audioCursor >= len(m.AudioPackets) {
		return ports.Packet{}, io.EOF
	}
	pkt := m.AudioPackets[m.audioCursor]
	m.audioCursor++
	return pkt, nil
}

func (m *Container) DecodeVideo(pkt ports.Packet) (ports.RawFrame, error) {
	if m.DecodeVideoFunc != nil {
		return m.DecodeVideoFunc(pkt)
	}
	w, h := m.ContainerInfo.Width, m.ContainerInfo.Height
	if w == 0 {
		w = 16
	}
	if h == 0 {
		h = 16
	}
	return ports.RawFrame{Image: image.NewRGBA(image.Rect(0, 0, w, h)), Time: pkt.Time}, nil
}

func (m *Container) DecodeAudio(pkt ports.Packet) ([]byte, error) {
	if m.DecodeAudioFunc != nil {
		return m.DecodeAudioFunc(pkt)
	}
	return pkt.Data, nil
}

func (m *Container) Convert(frame ports.RawFrame, width, height int, format ports.PixelFormat, dst []byte) ([]byte, error) {
	if m.ConvertFunc != nil {
		return m.ConvertFunc(frame, width, height, format, dst)
	}
	if width == 0 {
		width = frame.Image.Bounds().Dx()
	}
	if height == 0 {
		height = frame.Image.Bounds().Dy()
	}
	n := width * height * format.BytesPerPixel()
	dst = append(dst[:0], make([]byte, n)...)
	return dst, nil
}

// Seek positions the video cursor on the last packet at or before t
// (keyframe-flagged only when keyframeOnly) and the audio cursor on the
// first audio packet at or after the landed time.
func (m *Container) Seek(t float64, keyframeOnly bool) (float64, error) {
	m.SeekCalls = append(m.SeekCalls, t)
	if m.SeekFunc != nil {
		return m.SeekFunc(t, keyframeOnly)
	}
	landed := 0.0
	idx := 0
	for i, pkt := range m.VideoPackets {
		if pkt.Time > t {
			break
		}
		if keyframeOnly && !pkt.Keyframe {
			continue
		}
		idx = i
		landed = pkt.Time
	}
	m.videoCursor = idx
	m.audioCursor = len(m.AudioPackets)
	for i, pkt := range m.AudioPackets {
		if pkt.Time >= landed {
			m.audioCursor = i
			break
		}
	}
	return landed, nil
}

func (m *Container) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Container = (*Container)(nil)
