package logger

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/paraglide/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON logger for production and a coloured console logger otherwise.
// cfg.Level overrides the default level of either.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config

	if strings.EqualFold(cfg.Env, "production") || strings.EqualFold(cfg.Env, "prod") {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	return zc.Build()
}
