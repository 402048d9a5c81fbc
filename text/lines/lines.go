// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lines provides the [Document], a mutable sequence of lines of
// text that reports every change as a [textpos.Delta], and the [Anchor],
// a position that moves with the text as it is edited.
//
// All mutation of a Document goes through Insert, Remove and their
// variants, each of which emits exactly one delta to the OnChange
// listeners, synchronously and in the order the listeners were added.
// A Document is not safe for concurrent use: it is owned by the single
// goroutine that edits it.
package lines

import (
	"fmt"
	"strings"

	"cogentcore.org/editcore/base/events"
	"cogentcore.org/editcore/text/textpos"
)

// NewlineMode determines the newline sequence used to join lines.
type NewlineMode int32

const (
	// NewlineAuto uses the newline sequence detected in the first
	// text inserted into the document, defaulting to "\n".
	NewlineAuto NewlineMode = iota

	// NewlineUnix uses "\n".
	NewlineUnix

	// NewlineWindows uses "\r\n".
	NewlineWindows
)

var newlineModeNames = [...]string{"auto", "unix", "windows"}

func (nm NewlineMode) String() string {
	if nm < 0 || int(nm) >= len(newlineModeNames) {
		return fmt.Sprintf("NewlineMode(%d)", nm)
	}
	return newlineModeNames[nm]
}

// MarshalText implements [encoding.TextMarshaler].
func (nm NewlineMode) MarshalText() ([]byte, error) {
	return []byte(nm.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (nm *NewlineMode) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for i, n := range newlineModeNames {
		if s == n {
			*nm = NewlineMode(i)
			return nil
		}
	}
	return fmt.Errorf("lines: unknown newline mode %q", string(text))
}

// Document is a mutable sequence of lines of text.
// It always has at least one line, and no line contains a newline.
type Document struct {

	// lines are the lines of text, as runes.
	lines [][]rune

	// newlineMode is the newline mode.
	newlineMode NewlineMode

	// autoNewline is the newline sequence detected from the text,
	// used in NewlineAuto mode.
	autoNewline string

	// listeners get every delta.
	listeners events.Listeners[*textpos.Delta]
}

// New returns a new Document holding the given text, which is split
// into lines at "\r\n", "\r" and "\n".
func New(text string) *Document {
	d := &Document{lines: [][]rune{{}}}
	d.Insert(textpos.Pos{}, text)
	return d
}

// NewFromLines returns a new Document holding the given lines,
// which must not contain newlines.
func NewFromLines(lines []string) *Document {
	d := &Document{lines: [][]rune{{}}}
	if len(lines) > 0 {
		d.insertMergedLines(textpos.Pos{}, lines)
	}
	return d
}

// OnChange adds a listener function that is called with every delta,
// after the document has been changed. It returns a handle for [Document.Off].
func (d *Document) OnChange(fun func(dt *textpos.Delta)) events.Handle {
	return d.listeners.Add(fun)
}

// Off removes the change listener with the given handle.
func (d *Document) Off(h events.Handle) {
	d.listeners.Remove(h)
}

// NewlineMode returns the newline mode.
func (d *Document) NewlineMode() NewlineMode {
	return d.newlineMode
}

// SetNewlineMode sets the newline mode.
func (d *Document) SetNewlineMode(nm NewlineMode) {
	d.newlineMode = nm
}

// NewlineChar returns the newline sequence used by [Document.Value],
// according to the newline mode.
func (d *Document) NewlineChar() string {
	switch d.newlineMode {
	case NewlineWindows:
		return "\r\n"
	case NewlineUnix:
		return "\n"
	}
	if d.autoNewline != "" {
		return d.autoNewline
	}
	return "\n"
}

// IsNewline returns true if the text is one of the newline sequences.
func IsNewline(text string) bool {
	return text == "\r\n" || text == "\r" || text == "\n"
}

// detectNewline returns the first newline sequence in text,
// or "\n" if it has none.
func detectNewline(text string) string {
	i := strings.IndexAny(text, "\r\n")
	if i < 0 {
		return "\n"
	}
	if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
		return "\r\n"
	}
	return text[i : i+1]
}

// SplitLines splits the text into lines at "\r\n", "\r" and "\n".
// It always returns at least one line.
func SplitLines(text string) []string {
	var lns []string
	st := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lns = append(lns, text[st:i])
			st = i + 1
		case '\r':
			lns = append(lns, text[st:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			st = i + 1
		}
	}
	return append(lns, text[st:])
}
