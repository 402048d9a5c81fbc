// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lines

import (
	"slices"
	"strings"

	"cogentcore.org/editcore/base/errors"
	"cogentcore.org/editcore/text/textpos"
)

// this file contains the mutation API for Document

// Insert inserts the given text at the given position, splitting it
// into lines at "\r\n", "\r" and "\n", and returns the position at the
// end of the inserted text. It emits a single InsertText delta.
// Inserting "" does nothing. In a document of at most one line, the
// newline sequence of the text becomes the detected newline, which is
// carried by the delta.
func (d *Document) Insert(pos textpos.Pos, text string) textpos.Pos {
	if text == "" {
		return d.ClipPos(pos)
	}
	nl := ""
	if len(d.lines) <= 1 {
		nl = detectNewline(text)
	}
	return d.insertDelta(pos, SplitLines(text), nl)
}

// InsertInLine inserts text that does not contain a newline
// at the given position, returning the end of the inserted text.
func (d *Document) InsertInLine(pos textpos.Pos, text string) textpos.Pos {
	return d.insertMergedLines(pos, []string{text})
}

// InsertNewLine inserts a line break at the given position,
// returning the start of the new line.
func (d *Document) InsertNewLine(pos textpos.Pos) textpos.Pos {
	return d.insertMergedLines(pos, []string{"", ""})
}

// insertMergedLines inserts the given lines at pos, merging the first
// and last of them with the text before and after pos.
func (d *Document) insertMergedLines(pos textpos.Pos, lns []string) textpos.Pos {
	return d.insertDelta(pos, lns, "")
}

// insertDelta is [Document.insertMergedLines] with the newline
// sequence recorded in the delta.
func (d *Document) insertDelta(pos textpos.Pos, lns []string, newline string) textpos.Pos {
	st := d.ClipPos(pos)
	n := len(lns)
	ed := textpos.Pos{Line: st.Line + n - 1, Char: len([]rune(lns[n-1]))}
	if n == 1 {
		ed.Char += st.Char
	}
	d.applyDelta(&textpos.Delta{Action: textpos.InsertText, Region: textpos.Region{Start: st, End: ed}, Lines: lns, Newline: newline})
	return ed
}

// InsertLines inserts the given whole lines before line ln, emitting an
// InsertLines delta. If ln is at or past the end of the document, the
// lines are appended after the last line with an InsertText delta.
func (d *Document) InsertLines(ln int, lns []string) {
	if len(lns) == 0 {
		return
	}
	ln = max(ln, 0)
	if ln >= len(d.lines) {
		d.insertMergedLines(d.EndPos(), append([]string{""}, lns...))
		return
	}
	reg := textpos.NewRegion(ln, 0, ln+len(lns), 0)
	d.applyDelta(&textpos.Delta{Action: textpos.InsertLines, Region: reg, Lines: slices.Clone(lns)})
}

// Remove removes the text in the given region, clipped to the
// document, and returns the start of the region. It emits a single
// RemoveText delta. Removing an empty region does nothing.
func (d *Document) Remove(reg textpos.Region) textpos.Pos {
	reg = d.ClipRegion(reg)
	if reg.End.IsLess(reg.Start) {
		reg.Start, reg.End = reg.End, reg.Start
	}
	if reg.IsEmpty() {
		return reg.Start
	}
	d.applyDelta(&textpos.Delta{Action: textpos.RemoveText, Region: reg, Lines: d.RegionLines(reg)})
	return reg.Start
}

// RemoveInLine removes the chars from startChar to endChar
// on line ln, returning the start position.
func (d *Document) RemoveInLine(ln, startChar, endChar int) textpos.Pos {
	return d.Remove(textpos.NewRegion(ln, startChar, ln, endChar))
}

// RemoveNewLine joins line ln with the line after it.
func (d *Document) RemoveNewLine(ln int) {
	if ln < 0 || ln >= len(d.lines)-1 {
		return
	}
	d.Remove(textpos.NewRegion(ln, len(d.lines[ln]), ln+1, 0))
}

// RemoveLines removes the whole lines from first to last inclusive,
// clipped to the document, and returns them. Lines before the last line
// are removed with a RemoveLines delta. When the removal includes the
// last line, the preceding line break is removed instead with a
// RemoveText delta, so that the document keeps at least one line.
func (d *Document) RemoveLines(first, last int) []string {
	n := len(d.lines)
	first = min(max(first, 0), n-1)
	last = min(max(last, 0), n-1)
	if last < first {
		return nil
	}
	removed := d.Lines(first, last)
	if last < n-1 {
		reg := textpos.NewRegion(first, 0, last+1, 0)
		d.applyDelta(&textpos.Delta{Action: textpos.RemoveLines, Region: reg, Lines: removed})
		return removed
	}
	var reg textpos.Region
	if first > 0 {
		reg = textpos.NewRegion(first-1, len(d.lines[first-1]), last, len(d.lines[last]))
	} else {
		reg = textpos.NewRegion(0, 0, last, len(d.lines[last]))
	}
	if !reg.IsEmpty() {
		d.applyDelta(&textpos.Delta{Action: textpos.RemoveText, Region: reg, Lines: d.RegionLines(reg)})
	}
	return removed
}

// Replace replaces the text in the given region with the given text,
// returning the end of the inserted text. Nothing happens if the text
// already matches the region, in which case the region end is returned.
func (d *Document) Replace(reg textpos.Region, text string) textpos.Pos {
	reg = d.ClipRegion(reg)
	if reg.End.IsLess(reg.Start) {
		reg.Start, reg.End = reg.End, reg.Start
	}
	if text == "" && reg.IsEmpty() {
		return reg.Start
	}
	if text == strings.Join(d.RegionLines(reg), d.NewlineChar()) {
		return reg.End
	}
	st := d.Remove(reg)
	if text == "" {
		return st
	}
	return d.Insert(st, text)
}

// SetValue replaces all of the text.
func (d *Document) SetValue(text string) {
	d.Remove(textpos.Region{End: d.EndPos()})
	d.Insert(textpos.Pos{}, text)
}

// ApplyDeltas applies the given deltas in order.
// It stops at the first delta that does not fit the document.
func (d *Document) ApplyDeltas(deltas []*textpos.Delta) error {
	for _, dt := range deltas {
		if err := d.ApplyDelta(dt); err != nil {
			return err
		}
	}
	return nil
}

// RevertDeltas reverts the given deltas, applying their
// inverses in reverse order.
func (d *Document) RevertDeltas(deltas []*textpos.Delta) error {
	for i := len(deltas) - 1; i >= 0; i-- {
		if err := d.ApplyDelta(deltas[i].Invert()); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDelta applies the given delta, which must fit the document,
// and notifies the change listeners.
func (d *Document) ApplyDelta(dt *textpos.Delta) error {
	if err := d.validateDelta(dt); err != nil {
		return err
	}
	d.applyDelta(dt)
	return nil
}

func (d *Document) validateDelta(dt *textpos.Delta) error {
	reg := dt.Region
	if reg.End.IsLess(reg.Start) {
		return errors.New("lines: delta region is inverted: " + dt.String())
	}
	n := len(dt.Lines)
	if dt.Action == textpos.InsertLines || dt.Action == textpos.RemoveLines {
		n++
	}
	if n != reg.NumLines()+1 {
		return errors.New("lines: delta lines do not match region: " + dt.String())
	}
	chk := reg.Start
	if !dt.Action.IsInsert() {
		chk = reg.End
	}
	if d.ClipPos(chk) != chk || d.ClipPos(reg.Start) != reg.Start {
		return errors.New("lines: delta is outside of the document: " + dt.String())
	}
	return nil
}

// applyDelta changes the lines according to the delta and
// notifies the change listeners. Empty changes are ignored.
func (d *Document) applyDelta(dt *textpos.Delta) {
	st := dt.Region.Start
	switch dt.Action {
	case textpos.InsertText, textpos.InsertLines:
		if dt.Newline != "" && len(d.lines) <= 1 {
			d.autoNewline = dt.Newline
		}
		lns := dt.Lines
		if dt.Action == textpos.InsertLines {
			lns = append(slices.Clone(lns), "")
		} else if len(lns) <= 1 && (len(lns) == 0 || lns[0] == "") {
			return
		}
		line := d.lines[st.Line]
		if len(lns) == 1 {
			nl := make([]rune, 0, len(line)+len(lns[0]))
			nl = append(nl, line[:st.Char]...)
			nl = append(nl, []rune(lns[0])...)
			d.lines[st.Line] = append(nl, line[st.Char:]...)
			break
		}
		ins := make([][]rune, len(lns))
		for i, l := range lns {
			ins[i] = []rune(l)
		}
		ins[0] = append(slices.Clip(line[:st.Char]), ins[0]...)
		last := len(ins) - 1
		ins[last] = append(ins[last], line[st.Char:]...)
		d.lines = slices.Replace(d.lines, st.Line, st.Line+1, ins...)
	case textpos.RemoveText, textpos.RemoveLines:
		ed := dt.Region.End
		if st == ed {
			return
		}
		line := d.lines[st.Line]
		if st.Line == ed.Line {
			d.lines[st.Line] = append(slices.Clip(line[:st.Char]), line[ed.Char:]...)
			break
		}
		joined := append(slices.Clip(line[:st.Char]), d.lines[ed.Line][ed.Char:]...)
		d.lines = slices.Replace(d.lines, st.Line, ed.Line+1, joined)
	}
	d.listeners.Call(dt)
}
