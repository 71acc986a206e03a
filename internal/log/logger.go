package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Target is the directive name that addresses this service in a filter
// string such as "linehook=debug,warn".
const Target = "linehook"

const (
	// LevelTrace sits below slog's DEBUG.
	LevelTrace = slog.Level(-8)
	// LevelOff is above every level the service emits.
	LevelOff = slog.Level(12)
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Setup initializes the global logger.
// logic: default to INFO. If the filter is invalid, fallback to INFO.
func Setup(filter, format string) {
	once.Do(func() {
		logger = New(os.Stdout, filter, format)
		slog.SetDefault(logger)
	})
}

// New builds a logger writing to w. format is "json" (default) or "text".
func New(w io.Writer, filter, format string) *slog.Logger {
	level, _ := ParseLevel(filter)
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelNames,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel parses a severity filter.
//
// A filter is a comma-separated list of directives. A bare directive
// ("debug") sets the default level; a targeted directive ("linehook=debug")
// applies only when its target is this service and wins over a bare one.
// Directives for other targets are ignored. The boolean is false when no
// directive could be used, in which case INFO is returned.
func ParseLevel(filter string) (slog.Level, bool) {
	var (
		bare, targeted       slog.Level
		haveBare, haveTarget bool
	)

	for _, directive := range strings.Split(filter, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		target, name, scoped := strings.Cut(directive, "=")
		if !scoped {
			if l, ok := levelByName(directive); ok {
				bare, haveBare = l, true
			}
			continue
		}
		if strings.TrimSpace(target) != Target {
			continue
		}
		if l, ok := levelByName(name); ok {
			targeted, haveTarget = l, true
		}
	}

	switch {
	case haveTarget:
		return targeted, true
	case haveBare:
		return bare, true
	default:
		return slog.LevelInfo, false
	}
}

func levelByName(name string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return LevelTrace, true
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	case "OFF":
		return LevelOff, true
	}
	return 0, false
}

func replaceLevelNames(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}

// Get returns the configured logger, or a default one if Setup hasn't been called.
func Get() *slog.Logger {
	if logger == nil {
		Setup("info", "json")
	}
	return logger
}

// WithComponent returns a logger with the component field set.
func WithComponent(name string) *slog.Logger {
	return Get().With(slog.String("component", name))
}

// Info logs at INFO level.
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Warn logs at WARN level.
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs at ERROR level.
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}
