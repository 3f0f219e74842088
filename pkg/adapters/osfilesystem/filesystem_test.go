package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesParents(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "a", "b", "frame.bin")

	if err := fs.WriteFile(path, []byte{1, 2, 3}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string([]byte{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", data)
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "out.bin")

	if err := fs.WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("expected overwrite, got %q", data)
	}
}

func TestAppendFileAccumulates(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "audio.pcm")

	if err := fs.AppendFile(path, []byte{1, 2}); err != nil {
		t.Fatalf("AppendFile failed: %v", err)
	}
	if err := fs.AppendFile(path, []byte{3, 4}); err != nil {
		t.Fatalf("AppendFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string([]byte{1, 2, 3, 4}) {
		t.Errorf("expected [1 2 3 4], got %v", data)
	}
}

func TestMkdirAll(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "x", "y", "z")

	if err := fs.MkdirAll(path); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}
