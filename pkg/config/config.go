// Package config provides configuration loading and management.
package config

import (
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/videoread/pkg/sheet"
)

// Config represents the full configuration for the videoread CLI.
type Config struct {
	// Extraction
	Width     int     `yaml:"width"`  // 0 = native
	Height    int     `yaml:"height"` // 0 = native
	Gray      bool    `yaml:"gray"`
	Start     float64 `yaml:"start"`      // seconds to seek to before reading
	ExactSeek bool    `yaml:"exact_seek"` // land on the requested time, not the keyframe
	MaxFrames int     `yaml:"max_frames"` // 0 = all
	Step      int     `yaml:"step"`       // keep every Nth frame

	// Audio
	Audio bool `yaml:"audio"` // drain audio alongside video

	// Engine
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Sheet
	Sheet SheetConfig `yaml:"sheet"`

	// Output
	OutDir   string `yaml:"out_dir"`
	LogLevel string `yaml:"log_level"`
}

// SheetConfig represents contact sheet layout settings.
type SheetConfig struct {
	Columns    int     `yaml:"columns"`
	ThumbWidth int     `yaml:"thumb_width"`
	Gap        int     `yaml:"gap"`
	Padding    int     `yaml:"padding"`
	Timestamps bool    `yaml:"timestamps"`
	FontSize   float64 `yaml:"font_size"`
	FontPath   string  `yaml:"font_path"`
	Workers    int     `yaml:"workers"`

	BackgroundColor string `yaml:"background_color"`
	TextColor       string `yaml:"text_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Step: 1,

		Sheet: SheetConfig{
			Columns:         5,
			ThumbWidth:      192,
			Gap:             8,
			Padding:         16,
			Timestamps:      true,
			FontSize:        12,
			BackgroundColor: "#1a1a2e",
			TextColor:       "#ffffff",
		},

		OutDir:   "./out",
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of the
// defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ToSheetOptions converts the sheet settings to sheet.Options.
func (c Config) ToSheetOptions() sheet.Options {
	return sheet.Options{
		Columns:    c.Sheet.Columns,
		ThumbWidth: c.Sheet.ThumbWidth,
		Gap:        c.Sheet.Gap,
		Padding:    c.Sheet.Padding,
		Background: ParseColor(c.Sheet.BackgroundColor),
		TextColor:  ParseColor(c.Sheet.TextColor),
		FontSize:   c.Sheet.FontSize,
		FontPath:   c.Sheet.FontPath,
		Timestamps: c.Sheet.Timestamps,
		Workers:    c.Sheet.Workers,
	}
}

// ParseColor parses a hex color string to color.Color.
func ParseColor(hex string) color.Color {
	if len(hex) == 0 {
		return color.Black
	}

	if hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 {
		return color.Black
	}

	var r, g, b uint8
	for i, c := range []byte{hex[0], hex[1]} {
		v := hexValue(c)
		if i == 0 {
			r = v << 4
		} else {
			r |= v
		}
	}
	for i, c := range []byte{hex[2], hex[3]} {
		v := hexValue(c)
		if i == 0 {
			g = v << 4
		} else {
			g |= v
		}
	}
	for i, c := range []byte{hex[4], hex[5]} {
		v := hexValue(c)
		if i == 0 {
			b = v << 4
		} else {
			b |= v
		}
	}

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
