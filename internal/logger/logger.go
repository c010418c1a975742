package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application logger instance
var Logger zerolog.Logger

// Init initializes the process logger on stdout and installs it as the global logger
func Init(level, format string) {
	Logger = New(os.Stdout, level, format)
	zerolog.SetGlobalLevel(ParseLevel(level))
	log.Logger = Logger
}

// New builds a logger writing to w. Format "json" emits structured lines,
// anything else uses the console writer.
func New(w io.Writer, level, format string) zerolog.Logger {
	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel parses string log level to zerolog level
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}
