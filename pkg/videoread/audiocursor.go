package videoread

import (
	"errors"
	"io"

	"github.com/user/videoread/pkg/ports"
)

// audioCursor tracks the audio decode position and accumulates decoded
// PCM bytes until the reader drains them.
type audioCursor struct {
	container ports.Container
	// time is the presentation time just past the last decoded packet.
	time float64
	buf  []byte
}

func newAudioCursor(c ports.Container) *audioCursor {
	return &audioCursor{container: c}
}

// drainThrough decodes audio packets until the cursor has caught up
// with limit, then hands over everything accumulated. The cursor may
// finish up to one packet past limit since packet boundaries do not
// align with the video position. Running out of audio is not an error.
func (a *audioCursor) drainThrough(limit float64) ([]byte, error) {
	for a.time <= limit {
		pkt, err := a.container.NextPacket(ports.StreamAudio)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{Stream: ports.StreamAudio, Time: a.time, Err: err}
		}
		if a.stale(pkt) {
			continue
		}
		pcm, err := a.container.DecodeAudio(pkt)
		if errors.Is(err, ports.ErrNeedMoreInput) {
			continue
		}
		if err != nil {
			return nil, &DecodeError{Stream: ports.StreamAudio, Time: a.time, Err: err}
		}
		a.buf = append(a.buf, pcm...)
		a.time = pkt.Time + pkt.Duration
	}
	return a.flush(), nil
}

// drainOne decodes a single audio unit regardless of the video
// position.
func (a *audioCursor) drainOne() ([]byte, error) {
	for {
		pkt, err := a.container.NextPacket(ports.StreamAudio)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{Stream: ports.StreamAudio, Time: a.time, Err: err}
		}
		if a.stale(pkt) {
			continue
		}
		pcm, err := a.container.DecodeAudio(pkt)
		if errors.Is(err, ports.ErrNeedMoreInput) {
			continue
		}
		if err != nil {
			return nil, &DecodeError{Stream: ports.StreamAudio, Time: a.time, Err: err}
		}
		a.buf = append(a.buf, pcm...)
		a.time = pkt.Time + pkt.Duration
		break
	}
	return a.flush(), nil
}

// stale reports whether pkt ends at or before the cursor's clock. An
// exact seek rolls the clock past the keyframe the engine landed on,
// so the demuxer can still hand out packets from before the target;
// those must be discarded, never decoded into the buffer.
func (a *audioCursor) stale(pkt ports.Packet) bool {
	return pkt.Time+pkt.Duration <= a.time
}

// flush transfers the accumulated bytes to the caller and starts a
// fresh buffer.
func (a *audioCursor) flush() []byte {
	out := a.buf
	a.buf = nil
	return out
}

// reset adopts a new position after a seek. Anything accumulated before
// the seek is dropped so stale audio can never be returned.
func (a *audioCursor) reset(t float64) {
	a.time = t
	a.buf = nil
}
