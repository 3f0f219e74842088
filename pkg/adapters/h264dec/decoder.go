// Package h264dec decodes H.264 access units by shelling out to an
// ffmpeg binary. Each Annex B access unit is written to a temp file,
// decoded to PNG and read back, so the adapter works wherever ffmpeg
// is installed without cgo.
package h264dec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"runtime"

	"github.com/user/videoread/pkg/ports"
)

var (
	// ErrNotInitialized is returned when DecodeFrame runs before Init.
	ErrNotInitialized = errors.New("h264dec: decoder not initialized")

	// ErrFFmpegNotFound is returned when no usable ffmpeg binary exists.
	ErrFFmpegNotFound = errors.New("h264dec: ffmpeg not found")
)

// Decoder decodes H.264 frames through an external ffmpeg process.
type Decoder struct {
	customPath  string
	ffmpegPath  string
	initialized bool
}

var _ ports.FrameDecoder = (*Decoder)(nil)

// New creates an H.264 decoder. Init must be called before decoding.
func New() *Decoder {
	return &Decoder{}
}

// SetFFmpegPath pins the decoder to a specific ffmpeg binary instead
// of searching PATH. Must be called before Init.
func (d *Decoder) SetFFmpegPath(path string) {
	d.customPath = path
}

// Init locates the ffmpeg binary.
func (d *Decoder) Init() error {
	path, err := d.findFFmpeg()
	if err != nil {
		return err
	}
	d.ffmpegPath = path
	d.initialized = true
	return nil
}

// findFFmpeg resolves the binary: the pinned path wins, then PATH,
// then the usual install locations.
func (d *Decoder) findFFmpeg() (string, error) {
	if d.customPath != "" {
		if _, err := os.Stat(d.customPath); err == nil {
			return d.customPath, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, d.customPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrFFmpegNotFound
}

// DecodeFrame decodes one Annex B access unit. Non-keyframe units
// must already carry their parameter sets prepended by the caller.
func (d *Decoder) DecodeFrame(data []byte) (image.Image, error) {
	if !d.initialized {
		return nil, ErrNotInitialized
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("h264dec: empty access unit")
	}

	inputFile, err := os.CreateTemp("", "h264au_*.h264")
	if err != nil {
		return nil, fmt.Errorf("create input temp file: %w", err)
	}
	inputPath := inputFile.Name()
	defer os.Remove(inputPath)

	if _, err := inputFile.Write(data); err != nil {
		inputFile.Close()
		return nil, fmt.Errorf("write access unit: %w", err)
	}
	inputFile.Close()

	outputFile, err := os.CreateTemp("", "h264au_*.png")
	if err != nil {
		return nil, fmt.Errorf("create output temp file: %w", err)
	}
	outputPath := outputFile.Name()
	outputFile.Close()
	defer os.Remove(outputPath)

	var stderr bytes.Buffer
	cmd := exec.Command(d.ffmpegPath,
		"-y",
		"-f", "h264",
		"-i", inputPath,
		"-frames:v", "1",
		"-f", "image2",
		outputPath,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode failed: %w\nstderr: %s", err, stderr.String())
	}

	imgFile, err := os.Open(outputPath)
	if err != nil {
		return nil, fmt.Errorf("open decoded image: %w", err)
	}
	defer imgFile.Close()

	img, err := png.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}

// Close releases the decoder. Init may be called again afterwards.
func (d *Decoder) Close() {
	d.initialized = false
}

// Available reports whether an ffmpeg binary can be located.
func Available() bool {
	_, err := (&Decoder{}).findFFmpeg()
	return err == nil
}
