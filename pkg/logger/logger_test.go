// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T, lvl Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(lvl)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestLog_FormatWithContext(t *testing.T) {
	buf := capture(t, LevelDebug)

	InfoCtx("MONITOR", "posted %d bytes", 42)

	line := buf.String()
	if !strings.Contains(line, "[INFO] [MONITOR] posted 42 bytes") {
		t.Errorf("unexpected line: %q", line)
	}
	if strings.Contains(line, "\033[") {
		t.Errorf("colors should be disabled for non-terminal writers: %q", line)
	}
}

func TestLog_FormatWithoutContext(t *testing.T) {
	buf := capture(t, LevelDebug)

	Warn("plain")

	if !strings.HasSuffix(buf.String(), "[WARN] plain\n") {
		t.Errorf("unexpected line: %q", buf.String())
	}
}

func TestLog_MinLevelFilters(t *testing.T) {
	buf := capture(t, LevelWarn)

	Debug("hidden")
	InfoCtx("X", "hidden")
	Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below WARN should be dropped: %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown") {
		t.Errorf("ERROR should pass a WARN threshold: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
