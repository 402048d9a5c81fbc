// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package folds

import (
	"slices"

	"cogentcore.org/editcore/base/errors"
	"cogentcore.org/editcore/base/events"
	"cogentcore.org/editcore/base/slicesx"
	"cogentcore.org/editcore/text/textpos"
)

// Source is the document being folded.
// [lines.Document] is a Source.
type Source interface {
	NumLines() int
	Line(ln int) string
	LineLen(ln int) int
	ClipPos(pos textpos.Pos) textpos.Pos
}

// Actions of an [Event].
type Action int32

const (
	// Added is sent after a fold has been added.
	Added Action = iota

	// Removed is sent after a fold has been removed.
	Removed
)

func (a Action) String() string {
	if a == Added {
		return "Added"
	}
	return "Removed"
}

// Event is sent to [Model] listeners when a top-level fold is added
// or removed. StartRow and EndRow are the document lines of the fold
// line whose display changed.
type Event struct {
	Action   Action
	Fold     *Fold
	StartRow int
	EndRow   int
}

// Model holds the folds of a document, grouped into fold lines that
// are sorted by row and do not share rows. It must be told about every
// change to the document with [Model.UpdateOnChange].
type Model struct {
	src       Source
	lines     []*Line
	lastID    int
	listeners events.Listeners[Event]

	provider WidgetProvider
	widgets  []Widget
}

// NewModel returns a new fold model for the given document.
func NewModel(src Source) *Model {
	return &Model{src: src}
}

// OnChange adds a listener that is called when a fold is added or removed.
func (m *Model) OnChange(fun func(e Event)) events.Handle {
	return m.listeners.Add(fun)
}

// Off removes the listener with the given handle.
func (m *Model) Off(h events.Handle) {
	m.listeners.Remove(h)
}

// FoldLines returns the fold lines, in order.
// The slice must not be modified.
func (m *Model) FoldLines() []*Line {
	return m.lines
}

// AllFolds returns all top-level folds, in order.
func (m *Model) AllFolds() []*Fold {
	var fs []*Fold
	for _, l := range m.lines {
		fs = append(fs, l.Folds...)
	}
	return fs
}

// lineIndex returns the index of the fold line with the given id, or -1.
func (m *Model) lineIndex(id int) int {
	if id == 0 {
		return -1
	}
	return slicesx.Search(m.lines, func(l *Line) bool { return l.id == id })
}

// FoldLine returns the fold line that contains the given document line,
// or nil. The search starts at the optional start fold line.
func (m *Model) FoldLine(row int, start ...*Line) *Line {
	i := 0
	if len(start) > 0 && start[0] != nil {
		i = max(m.lineIndex(start[0].id), 0)
	}
	for ; i < len(m.lines); i++ {
		l := m.lines[i]
		if l.Region.Start.Line <= row && l.Region.End.Line >= row {
			return l
		}
		if l.Region.End.Line > row {
			return nil
		}
	}
	return nil
}

// NextFoldLine returns the first fold line that contains or comes after
// the given document line, or nil. The search starts at the optional
// start fold line.
func (m *Model) NextFoldLine(row int, start ...*Line) *Line {
	i := 0
	if len(start) > 0 && start[0] != nil {
		i = max(m.lineIndex(start[0].id), 0)
	}
	for ; i < len(m.lines); i++ {
		if m.lines[i].Region.End.Line >= row {
			return m.lines[i]
		}
	}
	return nil
}

// RowFoldStart returns the first document line of the fold line
// containing the given row, or the row itself.
func (m *Model) RowFoldStart(row int, start ...*Line) int {
	if l := m.FoldLine(row, start...); l != nil {
		return l.Region.Start.Line
	}
	return row
}

// RowFoldEnd returns the last document line of the fold line
// containing the given row, or the row itself.
func (m *Model) RowFoldEnd(row int, start ...*Line) int {
	if l := m.FoldLine(row, start...); l != nil {
		return l.Region.End.Line
	}
	return row
}

// FoldAt returns the top-level fold containing the given position,
// with both ends inclusive, or nil. With side 1 a fold ending at the
// position is skipped, and with side -1 a fold starting at it.
func (m *Model) FoldAt(row, char, side int) *Fold {
	l := m.FoldLine(row)
	if l == nil {
		return nil
	}
	pos := textpos.Pos{Line: row, Char: char}
	for _, f := range l.Folds {
		reg := f.Region
		if reg.ComparePos(pos) != 0 {
			continue
		}
		if side == 1 && reg.IsEnd(pos) && !reg.IsEmpty() {
			continue
		}
		if side == -1 && reg.IsStart(pos) && !reg.IsEmpty() {
			continue
		}
		return f
	}
	return nil
}

// FoldsInRange returns the top-level folds that overlap the given
// region by more than a boundary, in order.
func (m *Model) FoldsInRange(reg textpos.Region) []*Fold {
	reg.Start.Char++
	reg.End.Char--
	var found []*Fold
lines:
	for _, l := range m.lines {
		switch l.Region.CompareRegion(reg) {
		case textpos.RegionAfter:
			continue
		case textpos.RegionBefore:
			break lines
		}
		for _, f := range l.Folds {
			cmp := f.Region.CompareRegion(reg)
			if cmp == textpos.RegionBefore || cmp == textpos.RegionInverted {
				break
			}
			if cmp == textpos.RegionAfter {
				continue
			}
			found = append(found, f)
		}
	}
	return found
}

// foldsAround returns the folds that strictly contain the position.
func (m *Model) foldsAround(pos textpos.Pos) []*Fold {
	l := m.FoldLine(pos.Line)
	if l == nil {
		return nil
	}
	var fs []*Fold
	for _, f := range l.Folds {
		if f.Region.CompareInside(pos) == 0 {
			fs = append(fs, f)
		}
	}
	return fs
}

// AddFold folds the given region of the document, clipped to the
// document, showing the placeholder in its place. If the region is
// inside an existing fold, it is added as a sub fold of that fold
// instead. Existing folds inside the region become sub folds of the
// new fold. It returns the fold holding the region, which is an
// existing fold if one has the same region.
func (m *Model) AddFold(placeholder string, reg textpos.Region) (*Fold, error) {
	return m.AddFoldValue(NewFold(reg, placeholder))
}

// AddFoldValue is [Model.AddFold] for a fold value, such as one that
// was previously removed. Its region must be in document coordinates.
func (m *Model) AddFoldValue(f *Fold) (*Fold, error) {
	f.Region = textpos.Region{Start: m.src.ClipPos(f.Region.Start), End: m.src.ClipPos(f.Region.End)}
	st, ed := f.Region.Start, f.Region.End
	if !(st.Line < ed.Line || (st.Line == ed.Line && st.Char <= ed.Char-2)) {
		return nil, ErrTooNarrow
	}
	sf := m.FoldAt(st.Line, st.Char, 1)
	ef := m.FoldAt(ed.Line, ed.Char, -1)
	if sf != nil && sf == ef {
		return sf.addSubFold(f)
	}
	if (sf != nil && !sf.Region.IsStart(st)) || (ef != nil && !ef.Region.IsEnd(ed)) {
		return nil, ErrIntersects
	}
	inside := m.FoldsInRange(f.Region)
	if len(inside) > 0 {
		m.RemoveFolds(inside)
		if f.CollapseChildren <= 0 {
			for _, s := range inside {
				if _, err := f.addSubFold(s); err != nil {
					return nil, err
				}
			}
		}
	}
	l := m.attach(f)
	m.listeners.Call(Event{Action: Added, Fold: f, StartRow: l.Region.Start.Line, EndRow: l.Region.End.Line})
	return f, nil
}

// attach adds the fold to the fold line sharing one of its rows,
// merging the next fold line if the fold bridges to it, or else to a
// new fold line.
func (m *Model) attach(f *Fold) *Line {
	st, ed := f.Region.Start, f.Region.End
	for i, l := range m.lines {
		if l.ContainsRow(st.Line) || l.ContainsRow(ed.Line) {
			l.addFold(f)
			if i+1 < len(m.lines) && m.lines[i+1].Region.Start.Line == ed.Line {
				m.merge(l, m.lines[i+1])
			}
			return l
		}
		if ed.Line < l.Region.Start.Line {
			return m.newLine(i, []*Fold{f})
		}
	}
	return m.newLine(len(m.lines), []*Fold{f})
}

// newLine inserts a new fold line with the given folds at index i.
func (m *Model) newLine(i int, fs []*Fold) *Line {
	m.lastID++
	l := &Line{id: m.lastID}
	l.setFolds(fs)
	m.lines = slices.Insert(m.lines, i, l)
	return l
}

// merge moves the folds of the fold line next into l,
// and removes next.
func (m *Model) merge(l, next *Line) {
	l.setFolds(append(l.Folds, next.Folds...))
	if i := m.lineIndex(next.id); i >= 0 {
		m.lines = slices.Delete(m.lines, i, i+1)
	}
}

// RemoveFold removes the given top-level fold, discarding its sub
// folds from the model (they stay in the fold for re-adding).
// Folds that are not in the model are ignored.
func (m *Model) RemoveFold(f *Fold) {
	li := m.lineIndex(f.line)
	if li < 0 {
		return
	}
	l := m.lines[li]
	startRow, endRow := l.Region.Start.Line, l.Region.End.Line
	fi := slices.Index(l.Folds, f)
	n := len(l.Folds)
	switch {
	case n == 1:
		m.lines = slices.Delete(m.lines, li, li+1)
	case fi == n-1 || fi == 0 || f.IsSameRow():
		l.setFolds(slices.Delete(l.Folds, fi, fi+1))
	default:
		after := slices.Clone(l.Folds[fi+1:])
		l.setFolds(slices.Clip(l.Folds[:fi]))
		m.newLine(li+1, after)
	}
	f.line = 0
	m.listeners.Call(Event{Action: Removed, Fold: f, StartRow: startRow, EndRow: endRow})
}

// RemoveFolds removes each of the given folds.
func (m *Model) RemoveFolds(fs []*Fold) {
	for _, f := range slices.Clone(fs) {
		m.RemoveFold(f)
	}
}

// ExpandFold removes the given fold and restores its sub folds,
// re-folding to its CollapseChildren depth if that is positive.
func (m *Model) ExpandFold(f *Fold) error {
	m.RemoveFold(f)
	var errs []error
	sub := f.Sub
	f.Sub = nil
	for _, s := range sub {
		s.Region = s.Region.AbsoluteFrom(f.Region.Start)
		if _, err := m.AddFoldValue(s); err != nil {
			errs = append(errs, err)
		}
	}
	if f.CollapseChildren > 0 {
		if _, err := m.FoldAll(f.Region.Start.Line+1, f.Region.End.Line, f.CollapseChildren-1); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExpandFolds expands each of the given folds.
func (m *Model) ExpandFolds(fs []*Fold) error {
	var errs []error
	for _, f := range slices.Clone(fs) {
		errs = append(errs, m.ExpandFold(f))
	}
	return errors.Join(errs...)
}

// Unfold removes the folds overlapping the given region, returning
// them. With expandInner their sub folds are discarded; otherwise
// folds are expanded repeatedly until no fold overlaps the region.
func (m *Model) Unfold(reg textpos.Region, expandInner bool) ([]*Fold, error) {
	fs := m.FoldsInRange(reg)
	if expandInner {
		m.RemoveFolds(fs)
		return fs, nil
	}
	var errs []error
	for sub := fs; len(sub) > 0; sub = m.FoldsInRange(reg) {
		if err := m.ExpandFolds(sub); err != nil {
			errs = append(errs, err)
		}
	}
	return fs, errors.Join(errs...)
}

// UnfoldAll removes all folds.
func (m *Model) UnfoldAll() []*Fold {
	fs := m.AllFolds()
	m.RemoveFolds(fs)
	return fs
}

// FoldedRowCount returns the number of screen rows taken by the
// document lines from first to last inclusive, counting each fold
// line as one row and ignoring wrapping.
func (m *Model) FoldedRowCount(first, last int) int {
	count := last - first + 1
	for _, l := range m.lines {
		st, ed := l.Region.Start.Line, l.Region.End.Line
		if ed >= last {
			if st < last {
				if st >= first {
					count -= last - st
				} else {
					count = 0
				}
			}
			break
		}
		if ed >= first {
			if st >= first {
				count -= ed - st
			} else {
				count -= ed - first + 1
			}
		}
	}
	return count
}

// DisplayLine returns the displayed text of the fold line between the
// given positions, with each fold replaced by its placeholder.
func (m *Model) DisplayLine(l *Line, start, end textpos.Pos) string {
	var text []rune
	l.Walk(func(f *Fold, row, char, lastEnd int, isNewRow bool) {
		if row < start.Line {
			return
		}
		if row == start.Line {
			if char < start.Char {
				return
			}
			lastEnd = max(start.Char, lastEnd)
		}
		if f != nil {
			text = append(text, []rune(f.Placeholder)...)
			return
		}
		rs := []rune(m.src.Line(row))
		lastEnd = min(lastEnd, len(rs))
		text = append(text, rs[lastEnd:max(min(char, len(rs)), lastEnd)]...)
	}, end)
	return string(text)
}

// FullDisplayLine returns the displayed text of the whole fold line,
// from the start of its first row to the end of its last row.
func (m *Model) FullDisplayLine(l *Line) string {
	end := l.Region.End.Line
	return m.DisplayLine(l, textpos.Pos{Line: l.Region.Start.Line}, textpos.Pos{Line: end, Char: m.src.LineLen(end)})
}
