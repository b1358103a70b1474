/*
 * logging_test.go, part of polytop.
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

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(Te *testing.T) {
	for s, want := range map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"INFO":  zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	} {
		l, err := ParseLevel(s)
		require.NoError(Te, err, s)
		assert.Equal(Te, want, l, s)
	}
	_, err := ParseLevel("loud")
	assert.Error(Te, err)
}

func TestNew(Te *testing.T) {
	z, err := New("info", "")
	require.NoError(Te, err)
	assert.False(Te, z.Core().Enabled(zapcore.DebugLevel))
	_, err = New("info", "xml")
	assert.Error(Te, err)
	_, err = New("loud", "json")
	assert.Error(Te, err)
}

func TestJSONOutput(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "log.json")
	z, err := NewWithPaths("debug", "json", []string{name})
	require.NoError(Te, err)
	z.Debug("spliced", zap.Int("atoms", 5))
	require.NoError(Te, z.Sync())
	b, err := os.ReadFile(name)
	require.NoError(Te, err)
	var entry map[string]interface{}
	require.NoError(Te, json.Unmarshal([]byte(strings.TrimSpace(string(b))), &entry))
	assert.Equal(Te, "spliced", entry["msg"])
	assert.Equal(Te, "debug", entry["level"])
	assert.EqualValues(Te, 5, entry["atoms"])
}
