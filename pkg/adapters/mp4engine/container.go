package mp4engine

import (
	"fmt"
	"io"
	"os"

	"github.com/user/videoread/pkg/ports"
)

// Container is an open MP4 session: the indexed sample tables, the
// demux cursors and the codec decoders bound at open time.
type Container struct {
	file *os.File
	opts Options

	video *track
	audio *track

	videoDec     ports.FrameDecoder
	audioDec     ports.SampleDecoder
	videoDecInit bool

	info   ports.ContainerInfo
	closed bool
}

var _ ports.Container = (*Container)(nil)

// fillInfo derives the container metadata from the indexed tracks.
func (c *Container) fillInfo() {
	info := ports.ContainerInfo{}
	if c.video != nil {
		info.HasVideo = true
		info.Width = c.video.width
		info.Height = c.video.height
		info.FrameRate = c.video.frameRate()
		info.FrameCount = int64(len(c.video.samples))
		info.CodecName = codecName(c.video.codec)
		info.Duration = c.video.duration()
	}
	if c.audio != nil {
		info.HasAudio = true
		info.SampleRate = c.audio.sampleRate
		info.Channels = c.audio.channels
		if d := c.audio.duration(); d > info.Duration {
			info.Duration = d
		}
	}
	c.info = info
}

// codecName maps a sample entry fourcc to a conventional codec name.
func codecName(fourcc string) string {
	switch fourcc {
	case "avc1", "avc3":
		return "h264"
	case "hvc1", "hev1":
		return "h265"
	case "av01":
		return "av1"
	case "raw ":
		return "rawvideo"
	default:
		return fourcc
	}
}

// Info returns the metadata captured at open time.
func (c *Container) Info() ports.ContainerInfo {
	return c.info
}

func (c *Container) trackFor(stream ports.StreamKind) *track {
	if stream == ports.StreamAudio {
		return c.audio
	}
	return c.video
}

// NextPacket returns the next sample of the stream in decode order,
// io.EOF once the track index is exhausted.
func (c *Container) NextPacket(stream ports.StreamKind) (ports.Packet, error) {
	if c.closed {
		return ports.Packet{}, fmt.Errorf("container is closed")
	}
	t := c.trackFor(stream)
	if t == nil || t.cursor >= len(t.samples) {
		return ports.Packet{}, io.EOF
	}
	ref := t.samples[t.cursor]
	data, err := c.payload(ref)
	if err != nil {
		return ports.Packet{}, err
	}
	t.cursor++
	return ports.Packet{
		Stream:   stream,
		Data:     data,
		Time:     ref.time,
		Duration: ref.dur,
		Keyframe: ref.sync,
	}, nil
}

// DecodeVideo feeds one video sample to the codec adapter. H.264
// samples are rewritten from length-prefixed AVCC to Annex B, with
// SPS/PPS prepended on keyframes so decoding can start mid-stream.
func (c *Container) DecodeVideo(pkt ports.Packet) (ports.RawFrame, error) {
	if c.closed {
		return ports.RawFrame{}, fmt.Errorf("container is closed")
	}
	if c.videoDec == nil {
		return ports.RawFrame{}, fmt.Errorf("no video decoder available")
	}
	if !c.videoDecInit {
		if err := c.videoDec.Init(); err != nil {
			return ports.RawFrame{}, fmt.Errorf("init video decoder: %w", err)
		}
		c.videoDecInit = true
	}

	data := pkt.Data
	if c.video != nil && isH264(c.video.codec) {
		annexB := avccToAnnexB(data)
		if pkt.Keyframe && len(c.video.spsPPS) > 0 {
			framed := make([]byte, 0, len(c.video.spsPPS)+len(annexB))
			framed = append(framed, c.video.spsPPS...)
			framed = append(framed, annexB...)
			data = framed
		} else {
			data = annexB
		}
	}

	img, err := c.videoDec.DecodeFrame(data)
	if err != nil {
		return ports.RawFrame{}, err
	}
	if img == nil {
		return ports.RawFrame{}, ports.ErrNeedMoreInput
	}
	return ports.RawFrame{Image: img, Time: pkt.Time}, nil
}

// DecodeAudio feeds one audio sample to the sample decoder.
func (c *Container) DecodeAudio(pkt ports.Packet) ([]byte, error) {
	if c.closed {
		return nil, fmt.Errorf("container is closed")
	}
	if c.audioDec == nil {
		codec := "none"
		if c.audio != nil {
			codec = c.audio.codec
		}
		return nil, fmt.Errorf("unsupported audio codec %q", codec)
	}
	pcm, err := c.audioDec.DecodeSamples(pkt.Data)
	if err != nil {
		return nil, err
	}
	if pcm == nil {
		return nil, ports.ErrNeedMoreInput
	}
	return pcm, nil
}

// Seek moves every track cursor to the last sample at or before t.
// With keyframeOnly only sync samples qualify on the video track, so
// decoding can resume without reference frames. The audio cursor
// follows the landed video time.
func (c *Container) Seek(t float64, keyframeOnly bool) (float64, error) {
	if c.closed {
		return 0, fmt.Errorf("container is closed")
	}
	landed := t
	if c.video != nil && len(c.video.samples) > 0 {
		idx := 0
		for i, ref := range c.video.samples {
			if ref.time > t {
				break
			}
			if !keyframeOnly || ref.sync {
				idx = i
			}
		}
		c.video.cursor = idx
		landed = c.video.samples[idx].time
	}
	if c.audio != nil {
		idx := 0
		for i, ref := range c.audio.samples {
			if ref.time > landed {
				break
			}
			idx = i
		}
		c.audio.cursor = idx
	}
	return landed, nil
}

// Close releases the file and the decoders. Safe to call twice.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.videoDec != nil && c.videoDecInit {
		c.videoDec.Close()
	}
	if c.audioDec != nil {
		c.audioDec.Close()
	}
	return c.file.Close()
}

func isH264(fourcc string) bool {
	return fourcc == "avc1" || fourcc == "avc3"
}

// avccToAnnexB rewrites length-prefixed NAL units to start-code form.
func avccToAnnexB(data []byte) []byte {
	var result []byte
	offset := 0
	for offset+4 <= len(data) {
		naluLen := int(data[offset])<<24 | int(data[offset+1])<<16 |
			int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4
		if naluLen < 0 || offset+naluLen > len(data) {
			break
		}
		result = append(result, 0, 0, 0, 1)
		result = append(result, data[offset:offset+naluLen]...)
		offset += naluLen
	}
	return result
}
