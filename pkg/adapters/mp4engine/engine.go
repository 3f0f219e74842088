// Package mp4engine implements the media engine boundary over MP4
// (ISOBMFF) containers using mp4ff. It demuxes progressive and
// fragmented files sample-by-sample and delegates compressed-sample
// decoding to codec adapters selected from the track's sample entry.
package mp4engine

import (
	"fmt"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/videoread/pkg/adapters/av1dec"
	"github.com/user/videoread/pkg/adapters/h264dec"
	"github.com/user/videoread/pkg/adapters/pcmdec"
	"github.com/user/videoread/pkg/adapters/rawvideo"
	"github.com/user/videoread/pkg/ports"
)

// Options configures the engine.
type Options struct {
	// VideoDecoder overrides codec selection for the video track.
	VideoDecoder ports.FrameDecoder

	// AudioDecoder overrides codec selection for the audio track.
	AudioDecoder ports.SampleDecoder

	// FFmpegPath points the H.264 decoder at a specific ffmpeg binary
	// instead of searching PATH.
	FFmpegPath string
}

// Engine implements ports.MediaEngine for MP4 files.
type Engine struct {
	opts Options
}

// New creates an MP4 engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// OpenContainer opens and indexes the MP4 file at path.
func (e *Engine) OpenContainer(path string) (ports.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	mp4File, err := mp4.DecodeFile(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	c := &Container{file: f, opts: e.opts}
	if err := c.index(mp4File); err != nil {
		f.Close()
		return nil, err
	}
	if c.video == nil && c.audio == nil {
		f.Close()
		return nil, fmt.Errorf("no video or audio track in container")
	}
	if err := c.selectDecoders(); err != nil {
		f.Close()
		return nil, err
	}
	c.fillInfo()
	return c, nil
}

var _ ports.MediaEngine = (*Engine)(nil)

// selectDecoders maps each track's sample entry to a codec adapter.
// Overrides from Options win; otherwise the fourcc decides.
func (c *Container) selectDecoders() error {
	if c.video != nil {
		if c.opts.VideoDecoder != nil {
			c.videoDec = c.opts.VideoDecoder
		} else {
			switch c.video.codec {
			case "avc1", "avc3":
				dec := h264dec.New()
				if c.opts.FFmpegPath != "" {
					dec.SetFFmpegPath(c.opts.FFmpegPath)
				}
				c.videoDec = dec
			case "av01":
				c.videoDec = av1dec.New()
			case "raw ":
				c.videoDec = rawvideo.New(c.video.width, c.video.height)
			default:
				return fmt.Errorf("unsupported video codec %q", c.video.codec)
			}
		}
	}
	if c.audio != nil {
		if c.opts.AudioDecoder != nil {
			c.audioDec = c.opts.AudioDecoder
		} else if dec, ok := pcmdec.ForSampleEntry(c.audio.codec, c.audio.sampleSize); ok {
			c.audioDec = dec
		}
		// Compressed audio without an override stays undecodable; the
		// failure surfaces on the first DecodeAudio call, not at open,
		// so video-only use of such files keeps working.
	}
	return nil
}
