// Package filesink provides a file-based frame sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/videoread/pkg/ports"
)

// Sink saves extracted frames and audio under a base directory.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer

	audioStarted bool
}

// New creates a new file sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame saves one extracted frame as PNG.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%06d.png", index))
	return s.fs.WriteFile(path, data)
}

// SaveRawFrame saves one frame's packed pixel bytes.
func (s *Sink) SaveRawFrame(index int, data []byte) error {
	dir := filepath.Join(s.baseDir, "frames", "raw")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%06d.bin", index))
	return s.fs.WriteFile(path, data)
}

// SaveAudio appends PCM bytes to the audio output file, so successive
// drained chunks accumulate into one stream. The first call truncates
// whatever a previous run left behind.
func (s *Sink) SaveAudio(data []byte) error {
	path := filepath.Join(s.baseDir, "audio.pcm")
	if !s.audioStarted {
		s.audioStarted = true
		return s.fs.WriteFile(path, data)
	}
	return s.fs.AppendFile(path, data)
}

// SaveSheet saves the contact sheet as PNG.
func (s *Sink) SaveSheet(img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode sheet: %w", err)
	}
	path := filepath.Join(s.baseDir, "sheet.png")
	return s.fs.WriteFile(path, data)
}

var _ ports.FrameSink = (*Sink)(nil)
