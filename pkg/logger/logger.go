package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Leveled logger shared by the blog service.
// - Debug/Info/Warn/Error/Fatal variants and Init(level)
// - structured JSON records via log/slog

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// slog has no fatal level; fatal records are emitted above error.
const slogLevelFatal = slog.LevelError + 4

var (
	mu       sync.RWMutex
	level    Level = LevelInfo
	levelVar       = new(slog.LevelVar)
	logger         = newSlog(os.Stdout)
	exit           = os.Exit
)

func newSlog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: levelVar,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == slogLevelFatal {
					a.Value = slog.StringValue("FATAL")
				}
			}
			return a
		},
	}))
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level = LevelDebug
		levelVar.Set(slog.LevelDebug)
	case "warn", "warning":
		level = LevelWarn
		levelVar.Set(slog.LevelWarn)
	case "error":
		level = LevelError
		levelVar.Set(slog.LevelError)
	case "fatal":
		level = LevelFatal
		levelVar.Set(slogLevelFatal)
	default:
		level = LevelInfo
		levelVar.Set(slog.LevelInfo)
	}
}

// SetOutput redirects log records, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newSlog(w)
}

// Slog exposes the underlying structured logger for callers that want attributes.
func Slog() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func emit(l slog.Level, format string, v ...interface{}) {
	lg := Slog()
	ctx := context.Background()
	if !lg.Enabled(ctx, l) {
		return
	}
	lg.Log(ctx, l, fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...interface{}) { emit(slog.LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { emit(slog.LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { emit(slog.LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { emit(slog.LevelError, format, v...) }

func Fatalf(format string, v ...interface{}) {
	Slog().Log(context.Background(), slogLevelFatal, fmt.Sprintf(format, v...))
	exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	emit(slog.LevelInfo, "%s", strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
