package env

import (
	zap "go.uber.org/zap"
)

func MakeLogger(debug bool) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	logConfig.Encoding = "json"

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	logConfig.Level = zap.NewAtomicLevelAt(level)

	return logConfig.Build()
}
