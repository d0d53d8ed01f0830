package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LevelWarn, &buf)

	logger.Debugf("debug message")
	logger.Infof("info message")
	logger.Warnf("warn message")
	logger.Errorf("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Fatalf("messages below the level leaked through:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] warn message") {
		t.Fatalf("expected warn line, got:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] error message") {
		t.Fatalf("expected error line, got:\n%s", out)
	}
}

func TestLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LevelDebug, &buf)
	logger.Infof("applied %d of %d", 2, 3)
	if !strings.Contains(buf.String(), "[INFO] applied 2 of 3") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"Warn":    LevelWarn,
		"error":   LevelError,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLogLevel(input); got != want {
			t.Fatalf("ParseLogLevel(%q): expected %v, got %v", input, want, got)
		}
	}
}
