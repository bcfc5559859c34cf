// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the diagnostic logger used across the pipeline.
// User-facing progress is written directly to stderr by the CLI; this logger
// carries request parameters, page counts, and other detail that only shows
// up at elevated verbosity.
package logging

import (
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level maps the CLI verbosity flags to a zap level. quiet wins over
// verbosity: only errors are logged.
func Level(verbosity int, quiet bool) zapcore.Level {
	switch {
	case quiet:
		return zapcore.ErrorLevel
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New returns a console logger writing to w at the level chosen by the
// verbosity flags. Every entry carries a run_id so the lines of one
// invocation can be grouped when logs are collected.
func New(w io.Writer, verbosity int, quiet bool) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(Level(verbosity, quiet)),
	)
	return zap.New(core).With(zap.String("run_id", uuid.NewString()))
}
