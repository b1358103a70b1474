/*
 * logging.go, part of polytop.
 *
 * Copyright 2025 The polytop authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package logging builds the zap logger used by the polytop command.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//ParseLevel returns the zap level called s.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", s)
	}
}

//New returns a logger writing to stderr at the given level, in the given
//format: "console" (the default) or "json".
func New(level, format string) (*zap.Logger, error) {
	return NewWithPaths(level, format, []string{"stderr"})
}

//NewWithPaths is like New, but writes to the given zap output paths.
func NewWithPaths(level, format string, paths []string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	var encCfg zapcore.EncoderConfig
	switch format {
	case "", "console":
		format = "console"
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		encCfg = zap.NewProductionEncoderConfig()
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          format,
		EncoderConfig:     encCfg,
		OutputPaths:       paths,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: lvl > zapcore.DebugLevel,
	}
	z, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return z, nil
}
