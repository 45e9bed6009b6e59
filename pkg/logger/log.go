package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger собирает консольный логгер. Если file не пустой, пишем и в stdout, и в файл.
func NewLogger(level string, file string) (*zap.Logger, error) {
	return build("stdout", level, file)
}

// NewStderrLogger то же самое, но консольный вывод идёт в stderr: stdout занят результатом команды.
func NewStderrLogger(level string, file string) (*zap.Logger, error) {
	return build("stderr", level, file)
}

func build(console, level, file string) (*zap.Logger, error) {
	outputs := []string{console}
	if strings.TrimSpace(file) != "" {
		outputs = append(outputs, file)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig,
	}

	return dualConfig.Build()
}

// ParseLevel понимает debug/info/warn/error; всё остальное — info.
func ParseLevel(level string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
