// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/editcore/base/iox"
	"cogentcore.org/editcore/text/lines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(data), 0666))
	return fn
}

func TestDefaults(t *testing.T) {
	st := NewSettings()
	assert.Equal(t, 4, st.TabSize)
	assert.True(t, st.SoftTabs)
	assert.Equal(t, lines.NewlineAuto, st.NewlineMode)
	assert.Equal(t, 80, st.PrintMargin)
	assert.Equal(t, Duration(700*time.Millisecond), st.TokenizeDelay)
	assert.NoError(t, st.Validate())
	assert.Equal(t, "    ", st.Indent())
	st.SoftTabs = false
	assert.Equal(t, "\t", st.Indent())
}

func TestValidate(t *testing.T) {
	st := NewSettings()
	st.TabSize = 0
	st.WrapMin, st.WrapMax = 40, 20
	err := st.Validate()
	assert.ErrorContains(t, err, "tab size")
	assert.ErrorContains(t, err, "wrap min 40")

	st = NewSettings()
	st.NewlineMode = 7
	assert.Error(t, st.Validate())

	st = NewSettings()
	st.TokenizeBudget = 0
	assert.Error(t, st.Validate())
}

func TestOpenSettingsTOML(t *testing.T) {
	fn := writeFile(t, "editor.toml", "tab-size = 2\nwrap = true\ntokenize-delay = \"1s\"\nnewline-mode = \"windows\"\n")
	st, err := OpenSettings(fn)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TabSize)
	assert.True(t, st.Wrap)
	assert.True(t, st.SoftTabs)
	assert.Equal(t, Duration(time.Second), st.TokenizeDelay)
	assert.Equal(t, lines.NewlineWindows, st.NewlineMode)

	fn = writeFile(t, "bad.toml", "tab_size = 2\n")
	_, err = OpenSettings(fn)
	assert.ErrorIs(t, err, ErrUnknownSetting)

	fn = writeFile(t, "zero.toml", "tab-size = 0\n")
	_, err = OpenSettings(fn)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownSetting)
}

func TestOpenSettingsYAML(t *testing.T) {
	fn := writeFile(t, "editor.yaml", "tab-size: 8\nwrap-max: -1\nprint-margin: 100\ntokenize-budget: 5ms\nlog-level: DEBUG\n")
	st, err := OpenSettings(fn)
	require.NoError(t, err)
	assert.Equal(t, 8, st.TabSize)
	assert.Equal(t, -1, st.WrapMax)
	assert.Equal(t, 100, st.PrintMargin)
	assert.Equal(t, Duration(5*time.Millisecond), st.TokenizeBudget)
	assert.Equal(t, slog.LevelDebug, st.LogLevel)

	_, err = ReadSettings([]byte("tabsize: 2\n"), iox.NewYAMLDecoder)
	assert.ErrorIs(t, err, ErrUnknownSetting)

	_, err = OpenSettings(writeFile(t, "editor.json", "{}"))
	assert.ErrorIs(t, err, iox.ErrUnknownFormat)
}
