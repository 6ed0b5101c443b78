package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	InitWithWriter(&buf, false)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %s", zerolog.GlobalLevel())
	}

	logger := WithComponent("pipeline")
	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output should be suppressed, got %q", buf.String())
	}

	InitWithWriter(&buf, true)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %s", zerolog.GlobalLevel())
	}
}

func TestWithComponent(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	InitWithWriter(&buf, false)

	logger := WithComponent("ffmpeg")
	logger.Info().Msg("probing")

	out := buf.String()
	if !strings.Contains(out, "component=ffmpeg") {
		t.Errorf("expected component field, got %q", out)
	}
	if !strings.Contains(out, "probing") {
		t.Errorf("expected message, got %q", out)
	}
}
