// Package logging provides the structured logger for the mix analyzer
// client: console plus rotated file output with API key redaction.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// File rotation defaults. The log file is a diagnostic aid, not a record of
// analyses, so retention is modest.
const (
	defaultMaxSizeMB  = 20
	defaultMaxBackups = 3
	defaultMaxAgeDays = 14
)

// Logger wraps zap.Logger with redaction-aware field helpers.
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a logger for the given environment.
//
// In development mode the console gets colored human-readable output at
// debug level; otherwise the console is quiet (warn and above) so the
// terminal stays usable as the UI. The file always receives JSON at info
// level with rotation.
func NewLogger(devMode bool, logFilePath string) (*Logger, error) {
	core, err := newTeeCore(devMode, logFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log core: %w", err)
	}

	return &Logger{zap: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}, nil
}

// newTeeCore builds the console+file tee. The console side must not fight
// with the progress UI, so it is gated to warnings unless devMode is set.
func newTeeCore(devMode bool, logFilePath string) (zapcore.Core, error) {
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAgeDays,
		Compress:   true,
	})
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(newEncoderConfig()),
		fileWriter,
		zapcore.InfoLevel,
	)

	consoleLevel := zapcore.WarnLevel
	if devMode {
		consoleLevel = zapcore.DebugLevel
	}
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(newConsoleEncoderConfig(devMode)),
		zapcore.AddSync(os.Stderr),
		consoleLevel,
	)

	return zapcore.NewTee(consoleCore, fileCore), nil
}

func newEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func newConsoleEncoderConfig(devMode bool) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	if devMode {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}

// Debug logs at debug level with sensitive values redacted.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, redactFields(fields)...)
}

// Info logs at info level with sensitive values redacted.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, redactFields(fields)...)
}

// Warn logs at warn level with sensitive values redacted.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, redactFields(fields)...)
}

// Error logs at error level with sensitive values redacted.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, redactFields(fields)...)
}

// Fatal logs at fatal level and exits.
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.zap.Fatal(msg, redactFields(fields)...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}
