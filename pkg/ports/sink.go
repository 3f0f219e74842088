package ports

import "image"

// FrameSink receives extracted frames and audio from the CLI commands.
type FrameSink interface {
	// Enabled reports whether the sink actually persists output.
	Enabled() bool

	// SaveFrame saves one extracted video frame.
	SaveFrame(index int, img image.Image) error

	// SaveRawFrame saves one frame as packed pixel bytes.
	SaveRawFrame(index int, data []byte) error

	// SaveAudio saves accumulated PCM bytes.
	SaveAudio(data []byte) error

	// SaveSheet saves a composed contact sheet.
	SaveSheet(img image.Image) error
}
