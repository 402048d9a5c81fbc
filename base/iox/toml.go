// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iox

import (
	"io"

	"github.com/pelletier/go-toml/v2"
)

// NewTOMLDecoder returns a TOML decoder that fails on keys
// that do not match a field of the target.
func NewTOMLDecoder(r io.Reader) Decoder {
	return toml.NewDecoder(r).DisallowUnknownFields()
}
