// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lines

import (
	"strings"

	"cogentcore.org/editcore/text/textpos"
)

// this file contains the read-only API for Document

// NumLines returns the number of lines, which is always at least 1.
func (d *Document) NumLines() int {
	return len(d.lines)
}

// IsValidLine returns true if given line index is in range.
func (d *Document) IsValidLine(ln int) bool {
	return ln >= 0 && ln < len(d.lines)
}

// Line returns the given line as a string, or "" if it is out of range.
func (d *Document) Line(ln int) string {
	if !d.IsValidLine(ln) {
		return ""
	}
	return string(d.lines[ln])
}

// LineRunes returns the runes of the given line, or nil if it is out
// of range. The slice is owned by the document and must not be modified.
func (d *Document) LineRunes(ln int) []rune {
	if !d.IsValidLine(ln) {
		return nil
	}
	return d.lines[ln]
}

// LineLen returns the length of the given line in runes,
// or 0 if it is out of range.
func (d *Document) LineLen(ln int) int {
	if !d.IsValidLine(ln) {
		return 0
	}
	return len(d.lines[ln])
}

// Lines returns the lines from first to last inclusive, clipped to the
// document.
func (d *Document) Lines(first, last int) []string {
	first = max(first, 0)
	last = min(last, len(d.lines)-1)
	if first > last {
		return nil
	}
	lns := make([]string, 0, last-first+1)
	for ln := first; ln <= last; ln++ {
		lns = append(lns, string(d.lines[ln]))
	}
	return lns
}

// AllLines returns all lines as strings.
func (d *Document) AllLines() []string {
	return d.Lines(0, len(d.lines)-1)
}

// Value returns the full text, with lines joined by [Document.NewlineChar].
func (d *Document) Value() string {
	return strings.Join(d.AllLines(), d.NewlineChar())
}

// String returns the full text.
func (d *Document) String() string {
	return d.Value()
}

// EndPos returns the position at the end of the text.
func (d *Document) EndPos() textpos.Pos {
	ln := len(d.lines) - 1
	return textpos.Pos{Line: ln, Char: len(d.lines[ln])}
}

// ClipPos returns the position clipped to the document: a line before
// the start clips to the start of the text, a line past the end clips
// to the end of the last line, and the char is clipped to the line.
func (d *Document) ClipPos(pos textpos.Pos) textpos.Pos {
	n := len(d.lines)
	if pos.Line >= n {
		return d.EndPos()
	}
	if pos.Line < 0 {
		return textpos.Pos{}
	}
	pos.Char = min(max(pos.Char, 0), len(d.lines[pos.Line]))
	return pos
}

// ClipRegion returns the region with both ends clipped.
func (d *Document) ClipRegion(reg textpos.Region) textpos.Region {
	return textpos.Region{Start: d.ClipPos(reg.Start), End: d.ClipPos(reg.End)}
}

// RegionLines returns the text in the given region as lines,
// with partial first and last lines. The region must be valid.
func (d *Document) RegionLines(reg textpos.Region) []string {
	st, ed := reg.Start, reg.End
	if st.Line == ed.Line {
		return []string{string(d.lines[st.Line][st.Char:ed.Char])}
	}
	lns := make([]string, 0, ed.Line-st.Line+1)
	lns = append(lns, string(d.lines[st.Line][st.Char:]))
	for ln := st.Line + 1; ln < ed.Line; ln++ {
		lns = append(lns, string(d.lines[ln]))
	}
	return append(lns, string(d.lines[ed.Line][:ed.Char]))
}

// TextRange returns the text in the given region, clipped to the
// document, with lines joined by [Document.NewlineChar].
func (d *Document) TextRange(reg textpos.Region) string {
	reg = d.ClipRegion(reg)
	if reg.End.IsLess(reg.Start) {
		return ""
	}
	return strings.Join(d.RegionLines(reg), d.NewlineChar())
}

// IndexToPos returns the position of the given offset into the text,
// counted in runes from the start of startLine, with each newline
// counting as the length of [Document.NewlineChar]. Offsets past the
// end return the end of the text, and negative offsets the start
// of startLine.
func (d *Document) IndexToPos(index, startLine int) textpos.Pos {
	if index < 0 {
		return d.ClipPos(textpos.Pos{Line: startLine})
	}
	nl := len(d.NewlineChar())
	for ln := max(startLine, 0); ln < len(d.lines); ln++ {
		index -= len(d.lines[ln]) + nl
		if index < 0 {
			return textpos.Pos{Line: ln, Char: index + len(d.lines[ln]) + nl}
		}
	}
	return d.EndPos()
}

// PosToIndex returns the offset of the given position from the start
// of startLine, the inverse of [Document.IndexToPos].
func (d *Document) PosToIndex(pos textpos.Pos, startLine int) int {
	pos = d.ClipPos(pos)
	nl := len(d.NewlineChar())
	index := 0
	for ln := max(startLine, 0); ln < pos.Line; ln++ {
		index += len(d.lines[ln]) + nl
	}
	return index + pos.Char
}
