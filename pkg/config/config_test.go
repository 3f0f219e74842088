package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Step != 1 {
		t.Errorf("Step = %d, want 1", cfg.Step)
	}
	if cfg.Sheet.Columns != 5 {
		t.Errorf("Sheet.Columns = %d, want 5", cfg.Sheet.Columns)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
width: 320
height: 240
gray: true
start: 2.5
exact_seek: true
sheet:
  columns: 3
  timestamps: false
log_level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("size = %dx%d, want 320x240", cfg.Width, cfg.Height)
	}
	if !cfg.Gray || !cfg.ExactSeek {
		t.Error("expected gray and exact_seek to be set")
	}
	if cfg.Start != 2.5 {
		t.Errorf("Start = %f, want 2.5", cfg.Start)
	}
	if cfg.Sheet.Columns != 3 {
		t.Errorf("Sheet.Columns = %d, want 3", cfg.Sheet.Columns)
	}
	if cfg.Sheet.Timestamps {
		t.Error("expected timestamps disabled")
	}
	// Untouched keys keep their defaults.
	if cfg.Sheet.ThumbWidth != 192 {
		t.Errorf("Sheet.ThumbWidth = %d, want 192", cfg.Sheet.ThumbWidth)
	}
	if cfg.Step != 1 {
		t.Errorf("Step = %d, want 1", cfg.Step)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}},
		{"00ff00", color.RGBA{G: 255, A: 255}},
		{"#1a1a2e", color.RGBA{R: 26, G: 26, B: 46, A: 255}},
	}
	for _, tt := range tests {
		got := ParseColor(tt.in)
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if ParseColor("") != color.Black {
		t.Error("empty string should parse to black")
	}
	if ParseColor("xyz") != color.Black {
		t.Error("malformed string should parse to black")
	}
}

func TestToSheetOptions(t *testing.T) {
	cfg := Defaults()
	opts := cfg.ToSheetOptions()
	if opts.Columns != cfg.Sheet.Columns {
		t.Errorf("Columns = %d, want %d", opts.Columns, cfg.Sheet.Columns)
	}
	if opts.Background != ParseColor(cfg.Sheet.BackgroundColor) {
		t.Error("Background does not match parsed color")
	}
}
