package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// swapped in tests
var (
	osStdout = os.Stdout
	osPipe   = os.Pipe
)

// SlogManager manages slog-based logging with an optional GELF sink.
type SlogManager struct {
	logger   *slog.Logger
	provider ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// WithContext sets a provider whose attributes are added to every record
// logged after the next Setup.
func (m *SlogManager) WithContext(provider ContextProvider) *SlogManager {
	m.provider = provider
	return m
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. Text output goes to file when one is
// given and to stdout otherwise. When gelf is non-nil every record is also
// written to it as JSON.
func (m *SlogManager) Setup(file io.Writer, level string, gelf io.Writer) {
	lvl := parseLevel(level)

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(osStdout, handlerOpts))
	}

	if gelf != nil {
		handlers = append(handlers, slog.NewJSONHandler(gelf, handlerOpts))
	}

	m.logger = slog.New(NewContextHandler(NewMultiHandler(handlers...), m.provider))
	m.logger.Info("Logging initialized", "level", level, "gelf", gelf != nil)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Elapsed returns a ContextProvider reporting the time since start.
func Elapsed(start time.Time) ContextProvider {
	return func() []slog.Attr {
		return []slog.Attr{slog.Duration("elapsed", time.Since(start).Round(time.Millisecond))}
	}
}
