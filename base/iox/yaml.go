// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iox

import (
	"io"

	"cogentcore.org/editcore/base/errors"
	"gopkg.in/yaml.v3"
)

// yamlDecoder treats an empty document as empty rather than as an error.
type yamlDecoder struct {
	*yaml.Decoder
}

func (d yamlDecoder) Decode(v any) error {
	err := d.Decoder.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// NewYAMLDecoder returns a YAML decoder that fails on keys
// that do not match a field of the target.
func NewYAMLDecoder(r io.Reader) Decoder {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	return yamlDecoder{d}
}
