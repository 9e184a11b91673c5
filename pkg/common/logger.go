package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a structured logger: `args` are key-value pairs appended to the message.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a child logger which attaches the given key-value pairs to every message.
	With(args ...any) Logger
}

type LoggerOptions struct {
	// Level is one of "debug", "info", "warn", "error" (case-insensitive). Defaults to "info".
	Level string
	// Format is "console" (human-readable) or "json".
	Format string
	// FilePath, if set, additionally appends JSON log lines to the file.
	FilePath string
	// Out is where console/JSON output goes. Defaults to os.Stderr.
	Out io.Writer
}

type zeroLogger struct {
	z zerolog.Logger
}

// NewLogger creates a zerolog-backed logger. If the log file can't be opened, logs to the console only and
// reports the problem there.
func NewLogger(options LoggerOptions) Logger {
	out := options.Out
	if out == nil {
		out = os.Stderr
	}
	var console io.Writer = out
	if strings.ToLower(options.Format) != "json" {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	writer := console
	var fileErr error
	if options.FilePath != "" {
		file, err := os.OpenFile(options.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fileErr = err
		} else {
			writer = zerolog.MultiLevelWriter(console, file)
		}
	}
	z := zerolog.New(writer).Level(parseLevel(options.Level)).With().Timestamp().Logger()
	logger := &zeroLogger{z: z}
	if fileErr != nil {
		logger.Warn("logging switched to console", "error", fileErr)
	}
	return logger
}

// NewNopLogger discards everything.
func NewNopLogger() Logger {
	return &zeroLogger{z: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *zeroLogger) Debug(msg string, args ...any) {
	l.log(l.z.Debug(), msg, args)
}

func (l *zeroLogger) Info(msg string, args ...any) {
	l.log(l.z.Info(), msg, args)
}

func (l *zeroLogger) Warn(msg string, args ...any) {
	l.log(l.z.Warn(), msg, args)
}

func (l *zeroLogger) Error(msg string, args ...any) {
	l.log(l.z.Error(), msg, args)
}

func (l *zeroLogger) With(args ...any) Logger {
	ctx := l.z.With()
	for i := 0; i+1 < len(args); i += 2 {
		ctx = ctx.Interface(fieldKey(args[i]), args[i+1])
	}
	return &zeroLogger{z: ctx.Logger()}
}

func (l *zeroLogger) log(e *zerolog.Event, msg string, args []any) {
	// nil when the level is disabled
	if e == nil {
		return
	}
	for i := 0; i+1 < len(args); i += 2 {
		key := fieldKey(args[i])
		if err, ok := args[i+1].(error); ok {
			e.AnErr(key, err)
			continue
		}
		e.Interface(key, args[i+1])
	}
	e.Msg(msg)
}

func fieldKey(key any) string {
	str, ok := key.(string)
	if !ok {
		return fmt.Sprintf("%v", key)
	}
	return str
}
