package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/videoread/pkg/ports"
)

func TestConsoleLevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewConsoleWriter(ports.LevelInfo, &out, &errOut)

	log.Debug("debug line")
	log.Info("info line")

	if strings.Contains(out.String(), "debug line") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out.String(), "info line") {
		t.Error("info message should be written")
	}
}

func TestConsoleWarnGoesToErrorStream(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewConsoleWriter(ports.LevelDebug, &out, &errOut)

	log.Warn("careful")
	log.Error("broken")

	if out.Len() != 0 {
		t.Errorf("expected stdout to stay empty, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "careful") || !strings.Contains(errOut.String(), "broken") {
		t.Errorf("expected warn and error on stderr, got %q", errOut.String())
	}
}

func TestConsoleComponentPrefix(t *testing.T) {
	var out, errOut bytes.Buffer
	base := NewConsoleWriter(ports.LevelDebug, &out, &errOut)
	log := base.WithComponent("reader")

	log.Info("hello")

	if !strings.Contains(out.String(), "[reader] hello") {
		t.Errorf("expected component prefix, got %q", out.String())
	}

	// The parent logger stays unprefixed.
	out.Reset()
	base.Info("plain")
	if strings.Contains(out.String(), "[") {
		t.Errorf("expected no prefix on parent logger, got %q", out.String())
	}
}

func TestQuietSuppressesEverything(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewConsoleWriter(ports.LevelQuiet, &out, &errOut)

	log.Debug("a")
	log.Info("b")
	log.Warn("c")
	log.Error("d")

	if out.Len() != 0 || errOut.Len() != 0 {
		t.Error("quiet level should suppress all output")
	}
}
