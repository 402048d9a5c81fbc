// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package folds

import (
	"fmt"
	"slices"

	"cogentcore.org/editcore/text/textpos"
)

// Line is a maximal run of folds connected by shared rows, which is
// displayed as a single screen line. Its folds are in document order
// and do not overlap.
type Line struct {

	// Region runs from the start of the first fold to the end of the last.
	Region textpos.Region

	// Folds are the folds of the line, in order.
	Folds []*Fold

	id int
}

func (l *Line) String() string {
	return fmt.Sprintf("%s %v", l.Region, l.Folds)
}

// StartLine returns the first document line of the fold line.
func (l *Line) StartLine() int { return l.Region.Start.Line }

// EndLine returns the last document line of the fold line.
func (l *Line) EndLine() int { return l.Region.End.Line }

// ContainsRow returns true if the document line is within the fold line.
func (l *Line) ContainsRow(row int) bool {
	return row >= l.Region.Start.Line && row <= l.Region.End.Line
}

// updateRegion sets the region from the folds.
func (l *Line) updateRegion() {
	l.Region = textpos.Region{Start: l.Folds[0].Region.Start, End: l.Folds[len(l.Folds)-1].Region.End}
}

// setFolds sets the folds and their line id.
func (l *Line) setFolds(fs []*Fold) {
	l.Folds = fs
	for _, f := range fs {
		f.line = l.id
	}
	l.updateRegion()
}

// addFold adds a fold that shares a row with the line.
func (l *Line) addFold(f *Fold) {
	f.line = l.id
	i, _ := slices.BinarySearchFunc(l.Folds, f, func(a, b *Fold) int {
		return a.Region.Start.Compare(b.Region.Start)
	})
	l.Folds = slices.Insert(l.Folds, i, f)
	l.updateRegion()
}

// Walk calls fun for each segment of the fold line up to the given end
// position, in display order: fun is called with a nil fold for the
// text between folds, and then with each fold for its placeholder.
// For each call, row and char are the position where the segment ends
// (or the fold starts), lastEnd is the char where the preceding fold
// ended on that row, and isNewRow is true if the segment is on a
// different row than the preceding fold ended.
func (l *Line) Walk(fun func(f *Fold, row, char, lastEnd int, isNewRow bool), end textpos.Pos) {
	lastEnd := 0
	isNewRow := true
	for _, f := range l.Folds {
		cmp := f.Region.CompareStart(end)
		if cmp == -1 {
			fun(nil, end.Line, end.Char, lastEnd, isNewRow)
			return
		}
		fun(nil, f.Region.Start.Line, f.Region.Start.Char, lastEnd, isNewRow)
		fun(f, f.Region.Start.Line, f.Region.Start.Char, lastEnd, isNewRow)
		if cmp == 0 {
			return
		}
		isNewRow = !f.IsSameRow()
		lastEnd = f.Region.End.Char
	}
	fun(nil, end.Line, end.Char, lastEnd, isNewRow)
}

// IdxToPos returns the document position of the given char offset
// into the displayed text of the fold line. Offsets inside a
// placeholder map to the start of its fold.
func (l *Line) IdxToPos(idx int) textpos.Pos {
	lastEnd := 0
	for _, f := range l.Folds {
		idx -= f.Region.Start.Char - lastEnd
		if idx < 0 {
			return textpos.Pos{Line: f.Region.Start.Line, Char: f.Region.Start.Char + idx}
		}
		idx -= f.PlaceholderLen()
		if idx < 0 {
			return f.Region.Start
		}
		lastEnd = f.Region.End.Char
	}
	return textpos.Pos{Line: l.Region.End.Line, Char: l.Region.End.Char + idx}
}

// adjust moves the given folds of the line by the delta, which must
// not cut into any of them, and updates the line region.
func (l *Line) adjust(dt *textpos.Delta, fs []*Fold) {
	for _, f := range fs {
		f.Region.Start = dt.AdjustPos(f.Region.Start, textpos.BiasLeft)
		f.Region.End = dt.AdjustPos(f.Region.End, textpos.BiasRight)
	}
	l.updateRegion()
}

// shiftRow moves the whole line by the given number of rows.
func (l *Line) shiftRow(n int) {
	for _, f := range l.Folds {
		f.Region.Start.Line += n
		f.Region.End.Line += n
	}
	l.updateRegion()
}
