// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iox

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name string `toml:"name" yaml:"name"`
	Size int    `toml:"size" yaml:"size"`
}

func TestReadBytes(t *testing.T) {
	var c testConfig
	require.NoError(t, ReadBytes(&c, []byte("name = \"a\"\nsize = 3\n"), NewTOMLDecoder))
	assert.Equal(t, testConfig{Name: "a", Size: 3}, c)

	c = testConfig{}
	require.NoError(t, ReadBytes(&c, []byte("name: b\nsize: 4\n"), NewYAMLDecoder))
	assert.Equal(t, testConfig{Name: "b", Size: 4}, c)

	c = testConfig{Name: "keep"}
	assert.NoError(t, ReadBytes(&c, nil, NewYAMLDecoder))
	assert.Equal(t, "keep", c.Name)
}

func TestUnknownFields(t *testing.T) {
	var c testConfig
	assert.Error(t, ReadBytes(&c, []byte("nmae = \"a\"\n"), NewTOMLDecoder))
	assert.Error(t, ReadBytes(&c, []byte("nmae: a\n"), NewYAMLDecoder))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "c.yml")
	require.NoError(t, os.WriteFile(fn, []byte("size: 7\n"), 0666))
	f, err := DecoderForFile(fn)
	require.NoError(t, err)
	var c testConfig
	require.NoError(t, Open(&c, fn, f))
	assert.Equal(t, 7, c.Size)

	assert.Error(t, Open(&c, filepath.Join(dir, "missing.yml"), f))
	_, err = DecoderForFile("c.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestOpenFS(t *testing.T) {
	fsys := fstest.MapFS{"c.toml": {Data: []byte("name = \"fs\"\n")}}
	var c testConfig
	require.NoError(t, OpenFS(&c, fsys, "c.toml", NewTOMLDecoder))
	assert.Equal(t, "fs", c.Name)
}
