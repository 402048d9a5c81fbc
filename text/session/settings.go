// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cogentcore.org/editcore/base/errors"
	"cogentcore.org/editcore/base/iox"
	"cogentcore.org/editcore/text/highlighting"
	"cogentcore.org/editcore/text/lines"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownSetting is returned by [OpenSettings] when a settings
// file has a key that does not match any setting.
var ErrUnknownSetting = errors.New("session: unknown setting")

// Duration is a [time.Duration] that is read and written in settings
// files as a string such as "700ms".
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Settings are the settings of a [Session].
type Settings struct {

	// size of a tab, in screen columns
	TabSize int `default:"4" toml:"tab-size" yaml:"tab-size"`

	// indent with spaces instead of tabs
	SoftTabs bool `default:"true" toml:"soft-tabs" yaml:"soft-tabs"`

	// newline sequence used to join lines
	NewlineMode lines.NewlineMode `default:"auto" toml:"newline-mode" yaml:"newline-mode"`

	// soft wrap lines at the wrap limit
	Wrap bool `toml:"wrap" yaml:"wrap"`

	// minimum wrap limit, 0 for none
	WrapMin int `toml:"wrap-min" yaml:"wrap-min"`

	// maximum wrap limit, 0 for none; negative wraps at the print margin
	WrapMax int `toml:"wrap-max" yaml:"wrap-max"`

	// print margin column, used when WrapMax is negative
	PrintMargin int `default:"80" toml:"print-margin" yaml:"print-margin"`

	// break wrapped lines at punctuation, for source code
	WrapAsCode bool `toml:"wrap-as-code" yaml:"wrap-as-code"`

	// maximum time of one slice of background tokenization
	TokenizeBudget Duration `default:"20ms" toml:"tokenize-budget" yaml:"tokenize-budget"`

	// time after an edit before background tokenization starts
	TokenizeDelay Duration `default:"700ms" toml:"tokenize-delay" yaml:"tokenize-delay"`

	// time between slices of background tokenization
	TokenizeInterval Duration `default:"20ms" toml:"tokenize-interval" yaml:"tokenize-interval"`

	// level of log messages shown, such as "DEBUG" or "WARN"
	LogLevel slog.Level `default:"INFO" toml:"log-level" yaml:"log-level"`
}

// Defaults sets the default settings.
func (st *Settings) Defaults() {
	*st = Settings{
		TabSize:          4,
		SoftTabs:         true,
		NewlineMode:      lines.NewlineAuto,
		PrintMargin:      80,
		TokenizeBudget:   Duration(highlighting.DefaultBudget),
		TokenizeDelay:    Duration(highlighting.DefaultDelay),
		TokenizeInterval: Duration(highlighting.DefaultInterval),
		LogLevel:         slog.LevelInfo,
	}
}

// NewSettings returns new settings with their default values.
func NewSettings() *Settings {
	st := &Settings{}
	st.Defaults()
	return st
}

// Validate returns an error describing every invalid setting.
func (st *Settings) Validate() error {
	var errs []error
	if st.TabSize < 1 {
		errs = append(errs, fmt.Errorf("session: tab size %d is less than 1", st.TabSize))
	}
	if st.NewlineMode < lines.NewlineAuto || st.NewlineMode > lines.NewlineWindows {
		errs = append(errs, fmt.Errorf("session: unknown newline mode %v", st.NewlineMode))
	}
	if st.WrapMin < 0 {
		errs = append(errs, fmt.Errorf("session: wrap min %d is negative", st.WrapMin))
	}
	if st.WrapMin > 0 && st.WrapMax > 0 && st.WrapMin > st.WrapMax {
		errs = append(errs, fmt.Errorf("session: wrap min %d is more than wrap max %d", st.WrapMin, st.WrapMax))
	}
	if st.WrapMax < 0 && st.PrintMargin < 2 {
		errs = append(errs, fmt.Errorf("session: print margin %d is too small to wrap at", st.PrintMargin))
	}
	if st.TokenizeBudget <= 0 {
		errs = append(errs, fmt.Errorf("session: tokenize budget %v is not positive", st.TokenizeBudget))
	}
	if st.TokenizeDelay < 0 || st.TokenizeInterval < 0 {
		errs = append(errs, fmt.Errorf("session: negative tokenize timing"))
	}
	return errors.Join(errs...)
}

// Indent returns the string inserted for one level of indentation.
func (st *Settings) Indent() string {
	if st.SoftTabs {
		return strings.Repeat(" ", st.TabSize)
	}
	return "\t"
}

// OpenSettings reads settings from the given .toml, .yaml or .yml file,
// on top of the default settings, and validates them. A key that does
// not match a setting is an [ErrUnknownSetting] error.
func OpenSettings(filename string) (*Settings, error) {
	f, err := iox.DecoderForFile(filename)
	if err != nil {
		return nil, err
	}
	st := NewSettings()
	if err := iox.Open(st, filename, f); err != nil {
		return nil, settingsError(err)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

// ReadSettings is like [OpenSettings], reading from the given data
// using the given decoder.
func ReadSettings(data []byte, f iox.DecoderFunc) (*Settings, error) {
	st := NewSettings()
	if err := iox.ReadBytes(st, data, f); err != nil {
		return nil, settingsError(err)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

// settingsError wraps the errors for unknown keys in [ErrUnknownSetting].
func settingsError(err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return fmt.Errorf("%w: %w", ErrUnknownSetting, err)
	}
	var te *yaml.TypeError
	if errors.As(err, &te) && strings.Contains(err.Error(), "not found in type") {
		return fmt.Errorf("%w: %w", ErrUnknownSetting, err)
	}
	return err
}
