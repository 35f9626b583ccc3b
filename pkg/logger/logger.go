// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var severity = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

var (
	mu       sync.Mutex
	out      io.Writer = os.Stdout
	minLevel           = LevelInfo
	colored            = true
)

// SetOutput redirects log lines. Colors are disabled for anything but stdout/stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	colored = w == os.Stdout || w == os.Stderr
}

// SetLevel drops every message below lvl.
func SetLevel(lvl Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = lvl
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func paint(color, s string) string {
	if !colored {
		return s
	}
	return color + s + Reset
}

func log(level Level, color, context, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if severity[level] < severity[minLevel] {
		return
	}

	message := fmt.Sprintf(format, args...)
	prefix := paint(Gray, "["+timestamp()+"]") + " " + paint(color, "["+string(level)+"]")
	if context != "" {
		prefix += " " + paint(Cyan, "["+context+"]")
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", prefix, message)
}

func Debug(format string, args ...interface{}) {
	log(LevelDebug, Gray, "", format, args...)
}

func DebugCtx(context, format string, args ...interface{}) {
	log(LevelDebug, Gray, context, format, args...)
}

func Info(format string, args ...interface{}) {
	log(LevelInfo, Green, "", format, args...)
}

func InfoCtx(context, format string, args ...interface{}) {
	log(LevelInfo, Green, context, format, args...)
}

func Warn(format string, args ...interface{}) {
	log(LevelWarn, Yellow, "", format, args...)
}

func WarnCtx(context, format string, args ...interface{}) {
	log(LevelWarn, Yellow, context, format, args...)
}

func Error(format string, args ...interface{}) {
	log(LevelError, Red, "", format, args...)
}

func ErrorCtx(context, format string, args ...interface{}) {
	log(LevelError, Red, context, format, args...)
}
