/*
 * config.go, part of polytop.
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

//Package config loads the polytop settings from a YAML file and POLYTOP_*
//environment variables.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rmera/polytop/chemjson"
)

//Config holds every polytop setting.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	ITP      ITPConfig      `mapstructure:"itp"`
	Fragment FragmentConfig `mapstructure:"fragment"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Plot     PlotConfig     `mapstructure:"plot"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  //debug, info, warn, error
	Format string `mapstructure:"format"` //console, json
}

type ITPConfig struct {
	Defines []string `mapstructure:"defines"` //symbols for #ifdef blocks
}

type FragmentConfig struct {
	Color string `mapstructure:"color"`
}

type SnapshotConfig struct {
	Compression string `mapstructure:"compression"` //none, gzip, zstd
}

//PlotConfig is the size of the figures, in cm.
type PlotConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

//Validate returns an error if some setting has an unsupported value.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected console|json", c.Log.Format)
	}
	if !colorRe.MatchString(c.Fragment.Color) {
		return fmt.Errorf("config: fragment.color %q is not a #rrggbb color", c.Fragment.Color)
	}
	if _, err := chemjson.ParseCompression(c.Snapshot.Compression); err != nil {
		return fmt.Errorf("config: snapshot.compression: %w", err)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("config: plot size %gx%g must be positive", c.Plot.Width, c.Plot.Height)
	}
	for _, d := range c.ITP.Defines {
		if d == "" || strings.ContainsAny(d, " \t") {
			return fmt.Errorf("config: itp.defines: invalid symbol %q", d)
		}
	}
	return nil
}
