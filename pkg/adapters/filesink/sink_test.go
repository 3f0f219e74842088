package filesink

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/user/videoread/pkg/mocks"
	"github.com/user/videoread/pkg/ports"
)

var testBaseDir = filepath.Join("out")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.Renderer{})
	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return []byte{0x89, 0x50, 0x4E, 0x47}, nil
		},
	}
	sink := New(testBaseDir, fs, renderer)

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	if err := sink.SaveFrame(3, img); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "frame-000003.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
}

func TestSink_SaveRawFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	data := []byte{1, 2, 3}
	if err := sink.SaveRawFrame(0, data); err != nil {
		t.Fatalf("SaveRawFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "raw", "frame-000000.bin")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %v, got %v", data, saved)
	}
}

func TestSink_SaveAudio(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	if err := sink.SaveAudio([]byte{9, 9}); err != nil {
		t.Fatalf("SaveAudio failed: %v", err)
	}
	if err := sink.SaveAudio([]byte{7, 7}); err != nil {
		t.Fatalf("SaveAudio failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "audio.pcm")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string([]byte{9, 9, 7, 7}) {
		t.Errorf("expected chunks to accumulate, got %v", saved)
	}
}

func TestSink_SaveSheet(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return []byte{0x89, 0x50, 0x4E, 0x47}, nil
		},
	}
	sink := New(testBaseDir, fs, renderer)

	img := image.NewRGBA(image.Rect(0, 0, 512, 640))
	if err := sink.SaveSheet(img); err != nil {
		t.Fatalf("SaveSheet failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "sheet.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
}
