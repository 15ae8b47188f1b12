package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the application logger from configuration.
//
// The logger writes structured JSON to stderr with ISO8601 timestamps,
// caller information, and the process id and service name as initial
// fields. Development mode switches to console encoding with colored
// levels.
func NewLogger(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	encoding := "json"
	if cfg.Development {
		encoding = "console"
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logLevel := zap.InfoLevel
	switch cfg.Level {
	case Debug:
		logLevel = zap.DebugLevel
	case Info:
		logLevel = zap.InfoLevel
	case Warning:
		logLevel = zap.WarnLevel
	case Error:
		logLevel = zap.ErrorLevel
	}

	zapCfg := zap.Config{
		Level:         zap.NewAtomicLevelAt(logLevel),
		Development:   cfg.Development,
		Encoding:      encoding,
		EncoderConfig: encoderCfg,
		OutputPaths: []string{
			"stderr",
		},
		ErrorOutputPaths: []string{
			"stderr",
		},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	log, err := zapCfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}

	return log, nil
}
