package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lexflow/lexflow-web/internal/gelf"
)

// New builds the process logger. When gelfAddr is set, entries are also
// shipped to Graylog over UDP; a GELF failure is reported but not fatal.
func New(level, gelfAddr string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	if gelfAddr == "" {
		return logger, nil
	}

	w, err := gelf.New(gelfAddr, "lexflow-web")
	if err != nil {
		logger.Warn("GELF init failed", zap.String("addr", gelfAddr), zap.Error(err))
		return logger, nil
	}
	sink := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), zapcore.AddSync(w), cfg.Level)
	logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, sink)
	}))
	logger.Info("GELF logging enabled", zap.String("addr", gelfAddr))
	return logger, nil
}
