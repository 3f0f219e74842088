package ports

import "image"

// FrameDecoder decodes compressed video samples into images. One
// decoder instance serves one stream; packets must be fed in decode
// order.
type FrameDecoder interface {
	// Init prepares the decoder. It must be called before DecodeFrame.
	Init() error

	// DecodeFrame decodes one compressed sample. It returns (nil, nil)
	// when the sample was consumed but no frame is available yet.
	DecodeFrame(data []byte) (image.Image, error)

	// Close releases decoder resources.
	Close()
}

// SampleDecoder decodes compressed audio samples into PCM bytes.
type SampleDecoder interface {
	// DecodeSamples decodes one compressed unit and returns raw PCM.
	DecodeSamples(data []byte) ([]byte, error)

	// Close releases decoder resources.
	Close()
}
