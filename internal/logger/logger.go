// Package logger provides the process-wide zap logger for the extraction
// CLI. Logs are console-encoded on stderr: stdout is reserved for the JSON
// that the query subcommands print.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// L is the global logger instance
	L    *zap.Logger
	once sync.Once
)

// Init initializes the global logger. debug lowers the level to DEBUG so
// per-file extraction messages become visible.
func Init(debug bool) {
	once.Do(func() {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

		level := zapcore.InfoLevel
		if debug {
			level = zapcore.DebugLevel
		}

		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			level,
		)
		L = zap.New(core)
	})
}

// Sync flushes any buffered log entries.
// Should be called before the application exits.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}

// Default initializes a default logger if not already initialized.
func Default() *zap.Logger {
	if L == nil {
		Init(os.Getenv("NAIVETEXT_DEBUG") != "")
	}
	return L
}

// Phase returns a child logger tagged with the pipeline phase it reports
// for (scan, parse, extract, export, ...).
func Phase(name string) *zap.Logger {
	return Default().With(zap.String("phase", name))
}

// File is the field carrying a corpus or output file path.
func File(path string) zap.Field {
	return zap.String("file", path)
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Default().Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Default().Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Default().Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Default().Error(msg, fields...)
}
