/*
 * defaults.go, part of polytop.
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

package config

import (
	"github.com/rmera/polytop/chemjson"
	"github.com/rmera/polytop/poly"
	"github.com/spf13/viper"
)

//Defaults
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultCompression = string(chemjson.None)
	DefaultPlotWidth   = 12.0
	DefaultPlotHeight  = 8.0
)

//Default returns the configuration used when nothing is set.
func Default() *Config {
	c := new(Config)
	ApplyDefaults(c)
	return c
}

//ApplyDefaults fills the unset fields of cfg.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Fragment.Color == "" {
		cfg.Fragment.Color = poly.DefaultFragmentColor
	}
	if cfg.Snapshot.Compression == "" {
		cfg.Snapshot.Compression = DefaultCompression
	}
	if cfg.Plot.Width == 0 {
		cfg.Plot.Width = DefaultPlotWidth
	}
	if cfg.Plot.Height == 0 {
		cfg.Plot.Height = DefaultPlotHeight
	}
}

//viper only looks up in the environment the keys it knows about.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("itp.defines", []string{})
	v.SetDefault("fragment.color", poly.DefaultFragmentColor)
	v.SetDefault("snapshot.compression", DefaultCompression)
	v.SetDefault("plot.width", DefaultPlotWidth)
	v.SetDefault("plot.height", DefaultPlotHeight)
}
