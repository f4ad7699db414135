// pkg/logger/logger.go
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger for structured logging.
// Use the *w methods (Infow, Warnw, ...) with alternating key/value pairs.
type Logger struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
}

// Options controls logger construction
type Options struct {
	Level       string // debug, info, warn, error
	Development bool   // adds caller annotation and development panics
}

// NewLogger creates a JSON logger writing to stdout
func NewLogger(opts Options) *Logger {
	level := zap.NewAtomicLevelAt(parseLevel(opts.Level))

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		level,
	)

	var zapLogger *zap.Logger
	if opts.Development {
		zapLogger = zap.New(core, zap.AddCaller(), zap.Development())
	} else {
		zapLogger = zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar(),
		level:         level,
	}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{
		SugaredLogger: zap.NewNop().Sugar(),
		level:         zap.NewAtomicLevel(),
	}
}

// With adds structured fields to the logger
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(keysAndValues...),
		level:         l.level,
	}
}

// SetLevel dynamically changes the log level
func (l *Logger) SetLevel(level string) {
	l.level.SetLevel(parseLevel(level))
}

// Level reports the current minimum level
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
