package utils

import (
	"errors"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewApplicationLogger constructs a zap logger with human-readable console output on writer.
// Verbose loggers also emit debug entries.
func NewApplicationLogger(verbose bool, writer io.Writer) (*zap.Logger, error) {
	if writer == nil {
		return nil, errors.New("logger writer is nil")
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.TimeKey = ""
	encoderConfig.NameKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.MessageKey = "message"
	encoderConfig.StacktraceKey = ""

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(writer), level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(writer))), nil
}
