// Package pcmdec handles uncompressed audio sample entries. PCM needs
// no real decoding, only byte-order normalization: output is always
// little-endian signed PCM at the container's declared sample size.
package pcmdec

import (
	"fmt"

	"github.com/user/videoread/pkg/ports"
)

// Decoder normalizes raw PCM samples to little-endian order.
type Decoder struct {
	bigEndian  bool
	sampleSize int // bits per sample
}

var _ ports.SampleDecoder = (*Decoder)(nil)

// ForSampleEntry returns a decoder for the given audio sample entry
// fourcc, or false when the entry names a compressed codec.
func ForSampleEntry(fourcc string, sampleSize int) (*Decoder, bool) {
	switch fourcc {
	case "sowt", "lpcm", "ipcm", "raw ":
		return &Decoder{bigEndian: false, sampleSize: sampleSize}, true
	case "twos", "in24", "in32":
		return &Decoder{bigEndian: true, sampleSize: sampleSize}, true
	default:
		return nil, false
	}
}

// DecodeSamples returns the PCM bytes, swapping byte order for
// big-endian entries.
func (d *Decoder) DecodeSamples(data []byte) ([]byte, error) {
	if !d.bigEndian || d.sampleSize <= 8 {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	width := d.sampleSize / 8
	if len(data)%width != 0 {
		return nil, fmt.Errorf("pcmdec: %d bytes is not a multiple of the %d-byte sample width", len(data), width)
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += width {
		for j := 0; j < width; j++ {
			out[i+j] = data[i+width-1-j]
		}
	}
	return out, nil
}

// Close is a no-op; the decoder holds no resources.
func (d *Decoder) Close() {}
