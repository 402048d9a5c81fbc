// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout maps between document positions and screen
// positions, taking into account tabs, wide characters, folds,
// soft wrapping, and line widgets.
package layout

import (
	"math"
	"slices"

	"cogentcore.org/editcore/base/events"
	"cogentcore.org/editcore/base/slicesx"
	"cogentcore.org/editcore/text/folds"
	"cogentcore.org/editcore/text/textpos"
)

// DefaultWrapLimit is the initial wrap limit in screen columns.
const DefaultWrapLimit = 80

// rowData is the cached layout of a document line, or of a fold line
// for the first line of the fold line.
type rowData struct {
	splits    []int
	width     int
	hasSplits bool
	hasWidth  bool
}

// Mapper converts between document and screen positions.
// Screen rows are counted after folding and wrapping, and screen
// columns after expanding tabs and wide characters.
//
// The Mapper must be told about every change to the document with
// [Mapper.UpdateOnChange] and [Mapper.RefreshRows]. It tracks fold
// changes itself. Row layouts are computed lazily when read.
type Mapper struct {
	src   folds.Source
	folds *folds.Model

	tabSize    int
	useWrap    bool
	wrapAsCode bool
	wrapLimit  int
	wrapMin    int
	wrapMax    int

	rows       []rowData
	widgetRows []int

	// docRowCache and screenRowCache are checkpoints of the screen
	// row at which a document row starts, in increasing order.
	docRowCache    []int
	screenRowCache []int

	foldHandle events.Handle
}

// NewMapper returns a new mapper for the given document and its folds.
func NewMapper(src folds.Source, fm *folds.Model) *Mapper {
	mp := &Mapper{src: src, folds: fm, tabSize: 4, wrapLimit: DefaultWrapLimit}
	mp.foldHandle = fm.OnChange(mp.OnFoldChange)
	return mp
}

// Release stops tracking fold changes.
func (mp *Mapper) Release() {
	mp.folds.Off(mp.foldHandle)
}

// TabSize returns the number of screen columns between tab stops.
func (mp *Mapper) TabSize() int { return mp.tabSize }

// SetTabSize sets the number of screen columns between tab stops.
// Sizes less than 1 are ignored.
func (mp *Mapper) SetTabSize(n int) {
	if n < 1 || n == mp.tabSize {
		return
	}
	mp.tabSize = n
	mp.invalidateAll()
}

// ScreenTabSize returns the number of screen columns taken by a tab
// at the given screen column.
func (mp *Mapper) ScreenTabSize(col int) int {
	return ScreenTabSize(col, mp.tabSize)
}

// UseWrapMode returns whether lines are soft wrapped.
func (mp *Mapper) UseWrapMode() bool { return mp.useWrap }

// SetUseWrapMode sets whether lines are soft wrapped at the wrap limit.
func (mp *Mapper) SetUseWrapMode(on bool) {
	if on == mp.useWrap {
		return
	}
	mp.useWrap = on
	mp.invalidateAll()
}

// SetWrapAsCode sets whether wrapping breaks at punctuation,
// for source code.
func (mp *Mapper) SetWrapAsCode(on bool) {
	if on == mp.wrapAsCode {
		return
	}
	mp.wrapAsCode = on
	mp.invalidateAll()
}

// WrapLimit returns the wrap limit in screen columns.
func (mp *Mapper) WrapLimit() int { return mp.wrapLimit }

// SetWrapLimitRange sets the range that [Mapper.AdjustWrapLimit]
// constrains the wrap limit to. A bound of 0 is unbounded, and a
// negative max uses the print margin for both bounds.
func (mp *Mapper) SetWrapLimitRange(lo, hi int) {
	mp.wrapMin, mp.wrapMax = lo, hi
}

// WrapLimitRange returns the range set by [Mapper.SetWrapLimitRange].
func (mp *Mapper) WrapLimitRange() (lo, hi int) {
	return mp.wrapMin, mp.wrapMax
}

// AdjustWrapLimit sets the wrap limit to the desired number of screen
// columns constrained to the wrap limit range, returning whether the
// limit changed. Limits of 1 or less are ignored.
func (mp *Mapper) AdjustWrapLimit(desired, printMargin int) bool {
	lo, hi := mp.wrapMin, mp.wrapMax
	if hi < 0 {
		lo, hi = printMargin, printMargin
	}
	limit := desired
	if lo > 0 {
		limit = max(lo, limit)
	}
	if hi > 0 {
		limit = min(hi, limit)
	}
	if limit == mp.wrapLimit || limit <= 1 {
		return false
	}
	mp.wrapLimit = limit
	if mp.useWrap {
		mp.invalidateAll()
	}
	return true
}

// SetWidgetRows sets the number of screen rows taken by a widget
// shown below the given document line.
func (mp *Mapper) SetWidgetRows(row, n int) {
	if row < 0 || row >= mp.src.NumLines() {
		return
	}
	if row >= len(mp.widgetRows) {
		mp.widgetRows = slicesx.SetLength(mp.widgetRows, row+1)
	}
	if mp.widgetRows[row] == n {
		return
	}
	mp.widgetRows[row] = max(n, 0)
	mp.ResetRowCache(row)
}

// WidgetRows returns the number of widget rows below the given line.
func (mp *Mapper) WidgetRows(row int) int {
	if row < 0 || row >= len(mp.widgetRows) {
		return 0
	}
	return mp.widgetRows[row]
}

// invalidateAll clears all cached layout.
func (mp *Mapper) invalidateAll() {
	mp.rows = nil
	mp.ResetRowCache(0)
}

// ResetRowCache removes the row checkpoints after the given document row.
func (mp *Mapper) ResetRowCache(row int) {
	if row <= 0 {
		mp.docRowCache = mp.docRowCache[:0]
		mp.screenRowCache = mp.screenRowCache[:0]
		return
	}
	i := rowCacheIndex(mp.docRowCache, row) + 1
	if i < len(mp.docRowCache) {
		mp.docRowCache = mp.docRowCache[:i]
		mp.screenRowCache = mp.screenRowCache[:i]
	}
}

// rowCacheIndex returns the index of the last cache entry that is
// less than or equal to val, or -1.
func rowCacheIndex(cache []int, val int) int {
	i, found := slices.BinarySearch(cache, val)
	if found {
		return i
	}
	return i - 1
}

// UpdateOnChange updates the cached layout for the given change to
// the document: row checkpoints after the change are removed, and the
// cached rows are spliced for added or removed lines. Widget rows
// move down with their line when lines are inserted at its start,
// and are dropped with removed lines.
// [Mapper.RefreshRows] must be called for the changed lines once the
// folds have been updated.
func (mp *Mapper) UpdateOnChange(dt *textpos.Delta) {
	first := dt.Region.Start.Line
	n := dt.Region.End.Line - first
	mp.ResetRowCache(first)
	if n == 0 {
		return
	}
	if dt.Action.IsInsert() {
		mp.rows = slicesx.SpliceFill(mp.rows, first, 1, n+1, rowData{})
		at := first + 1
		if dt.Region.Start.Char == 0 {
			at = first
		}
		if at <= len(mp.widgetRows) {
			mp.widgetRows = slices.Insert(mp.widgetRows, at, make([]int, n)...)
		}
		return
	}
	mp.rows = slicesx.SpliceFill(mp.rows, first, n+1, 1, rowData{})
	if first+1 < len(mp.widgetRows) {
		mp.widgetRows = slices.Delete(mp.widgetRows, first+1, min(first+n+1, len(mp.widgetRows)))
	}
}

// RefreshRows invalidates the cached layout of the given document
// lines, inclusive, and of the fold lines containing them.
func (mp *Mapper) RefreshRows(first, last int) {
	var l *folds.Line
	for row := max(first, 0); row <= last && row < len(mp.rows); row++ {
		mp.rows[row] = rowData{}
		if l = mp.folds.FoldLine(row, l); l != nil && l.StartLine() < len(mp.rows) {
			mp.rows[l.StartLine()] = rowData{}
		}
	}
}

// OnFoldChange updates the cached layout when a fold is added or
// removed. It is registered with the fold model by [NewMapper].
func (mp *Mapper) OnFoldChange(e folds.Event) {
	mp.ResetRowCache(e.StartRow)
	mp.RefreshRows(e.StartRow, e.EndRow)
}

// keyRow returns the line whose cached layout covers the given line:
// the first line of its fold line, or the line itself.
func (mp *Mapper) keyRow(row int) (int, *folds.Line) {
	if l := mp.folds.FoldLine(row); l != nil {
		return l.StartLine(), l
	}
	return row, nil
}

// rowData returns the cached layout entry for the given key row.
func (mp *Mapper) rowData(row int) *rowData {
	if row >= len(mp.rows) {
		mp.rows = slicesx.SpliceFill(mp.rows, len(mp.rows), 0, mp.src.NumLines()-len(mp.rows), rowData{})
	}
	return &mp.rows[row]
}

// displayCells returns the screen cells of the given line,
// or of the whole fold line if given.
func (mp *Mapper) displayCells(row int, l *folds.Line) []Cell {
	if l == nil {
		return DisplayCells([]rune(mp.src.Line(row)), 0, mp.tabSize)
	}
	var cells []Cell
	end := l.EndLine()
	l.Walk(func(f *folds.Fold, row, char, lastEnd int, isNewRow bool) {
		if f != nil {
			cells = append(cells, placeholderCells(f.Placeholder, len(cells), mp.tabSize)...)
			return
		}
		rs := []rune(mp.src.Line(row))
		lastEnd = min(lastEnd, len(rs))
		cells = append(cells, DisplayCells(rs[lastEnd:max(min(char, len(rs)), lastEnd)], len(cells), mp.tabSize)...)
	}, textpos.Pos{Line: end, Char: mp.src.LineLen(end)})
	return cells
}

// RowSplits returns the wrap splits of the given document line, as
// char offsets into its displayed text. For a line in a fold line the
// splits of the whole fold line are returned. They are nil when not
// wrapping or when the line fits.
func (mp *Mapper) RowSplits(row int) []int {
	if !mp.useWrap || row < 0 || row >= mp.src.NumLines() {
		return nil
	}
	key, l := mp.keyRow(row)
	rd := mp.rowData(key)
	if !rd.hasSplits {
		rd.splits = ComputeWrapSplits(mp.displayCells(key, l), mp.wrapLimit, mp.wrapAsCode)
		rd.hasSplits = true
	}
	return rd.splits
}

// rowWidth returns the screen width of the given document line,
// or of its whole fold line, without wrapping.
func (mp *Mapper) rowWidth(row int) int {
	key, l := mp.keyRow(row)
	rd := mp.rowData(key)
	if !rd.hasWidth {
		txt := mp.src.Line(key)
		if l != nil {
			txt = mp.folds.FullDisplayLine(l)
		}
		rd.width, _ = mp.StringScreenWidth(txt, -1, 0)
		rd.hasWidth = true
	}
	return rd.width
}

// RowLength returns the number of screen rows taken by the given
// document line: one, plus one per wrap split, plus its widget rows.
func (mp *Mapper) RowLength(row int) int {
	return 1 + mp.WidgetRows(row) + len(mp.RowSplits(row))
}

// StringScreenWidth returns the screen width of the given text
// starting at screen column startCol, which is the screen column after
// it. Measuring stops before the first char that would end past maxCol,
// and the number of chars measured is also returned. A negative maxCol
// is unlimited.
func (mp *Mapper) StringScreenWidth(s string, maxCol, startCol int) (width, chars int) {
	if maxCol == 0 {
		return 0, 0
	}
	if maxCol < 0 {
		maxCol = math.MaxInt
	}
	col := startCol
	for _, r := range s {
		next := col + 1
		switch {
		case r == '\t':
			next = col + mp.ScreenTabSize(col)
		case IsFullWidth(r):
			next = col + 2
		}
		if next > maxCol {
			break
		}
		col = next
		chars++
	}
	return col, chars
}

// nextFoldStart returns the first line of the given fold line,
// or the maximum int if it is nil.
func nextFoldStart(l *folds.Line) int {
	if l == nil {
		return math.MaxInt
	}
	return l.StartLine()
}

// DocumentToScreen returns the screen position of the given document
// position, which is clipped to the document. A position inside a
// fold is mapped to the start of the fold.
func (mp *Mapper) DocumentToScreen(pos textpos.Pos) textpos.Pos {
	pos = mp.src.ClipPos(pos)
	if f := mp.folds.FoldAt(pos.Line, pos.Char, 1); f != nil {
		pos = f.Start()
	}
	docRow := pos.Line
	row, screenRow := 0, 0
	doCache := len(mp.docRowCache) == 0
	if i := rowCacheIndex(mp.docRowCache, docRow); i >= 0 {
		row, screenRow = mp.docRowCache[i], mp.screenRowCache[i]
		doCache = docRow > mp.docRowCache[len(mp.docRowCache)-1]
	}
	fl := mp.folds.NextFoldLine(row)
	foldStart := nextFoldStart(fl)
	for row < docRow {
		var rowEnd int
		if row >= foldStart {
			rowEnd = fl.EndLine() + 1
			if rowEnd > docRow {
				break
			}
			fl = mp.folds.NextFoldLine(rowEnd, fl)
			foldStart = nextFoldStart(fl)
		} else {
			rowEnd = row + 1
		}
		screenRow += mp.RowLength(row)
		row = rowEnd
		if doCache {
			mp.docRowCache = append(mp.docRowCache, row)
			mp.screenRowCache = append(mp.screenRowCache, screenRow)
		}
	}

	var txt []rune
	key := docRow
	if fl != nil && row >= foldStart {
		txt = []rune(mp.folds.DisplayLine(fl, textpos.Pos{Line: fl.StartLine()}, pos))
		key = fl.StartLine()
	} else {
		rs := []rune(mp.src.Line(docRow))
		txt = rs[:min(pos.Char, len(rs))]
	}
	if splits := mp.RowSplits(key); len(splits) > 0 {
		k := 0
		for k < len(splits) && len(txt) >= splits[k] {
			screenRow++
			k++
		}
		if k > 0 {
			txt = txt[splits[k-1]:]
		}
	}
	col, _ := mp.StringScreenWidth(string(txt), -1, 0)
	return textpos.Pos{Line: screenRow, Char: col}
}

// DocumentToScreenRow returns the screen row of the given document position.
func (mp *Mapper) DocumentToScreenRow(pos textpos.Pos) int {
	return mp.DocumentToScreen(pos).Line
}

// DocumentToScreenColumn returns the screen column of the given document position.
func (mp *Mapper) DocumentToScreenColumn(pos textpos.Pos) int {
	return mp.DocumentToScreen(pos).Char
}

// ScreenToDocument returns the document position at the given screen
// position. Positions past the end of a screen row map to the end of
// that row, positions past the last row to the end of the document,
// and positions on a fold placeholder to the start of the fold.
func (mp *Mapper) ScreenToDocument(spos textpos.Pos) textpos.Pos {
	if spos.Line < 0 {
		return textpos.Pos{}
	}
	screenRow := spos.Line
	row, docRow, rowLength := 0, 0, 0
	doCache := len(mp.screenRowCache) == 0
	if i := rowCacheIndex(mp.screenRowCache, screenRow); i >= 0 {
		row, docRow = mp.screenRowCache[i], mp.docRowCache[i]
		doCache = screenRow > mp.screenRowCache[len(mp.screenRowCache)-1]
	}
	maxRow := mp.src.NumLines() - 1
	fl := mp.folds.NextFoldLine(docRow)
	foldStart := nextFoldStart(fl)
	for row <= screenRow {
		rowLength = mp.RowLength(docRow)
		if row+rowLength > screenRow || docRow >= maxRow {
			break
		}
		row += rowLength
		docRow++
		if docRow > foldStart {
			docRow = fl.EndLine() + 1
			fl = mp.folds.NextFoldLine(docRow, fl)
			foldStart = nextFoldStart(fl)
		}
		if doCache {
			mp.docRowCache = append(mp.docRowCache, docRow)
			mp.screenRowCache = append(mp.screenRowCache, row)
		}
	}

	var line []rune
	switch {
	case fl != nil && fl.StartLine() <= docRow:
		line = []rune(mp.folds.FullDisplayLine(fl))
		docRow = fl.StartLine()
	case row+rowLength <= screenRow || docRow > maxRow:
		return textpos.Pos{Line: maxRow, Char: mp.src.LineLen(maxRow)}
	default:
		line = []rune(mp.src.Line(docRow))
		fl = nil
	}

	docCol := 0
	limit := -1
	splitIndex := screenRow - row
	if splits := mp.RowSplits(docRow); len(splits) > 0 {
		if splitIndex < len(splits) {
			limit = splits[splitIndex]
		}
		if splitIndex > 0 {
			docCol = splits[min(splitIndex, len(splits))-1]
			line = line[min(docCol, len(line)):]
		}
	}
	_, n := mp.StringScreenWidth(string(line), max(spos.Char, 0), 0)
	docCol += n
	if limit >= 0 && docCol >= limit {
		docCol = limit - 1
	}
	if fl != nil {
		return fl.IdxToPos(docCol)
	}
	return textpos.Pos{Line: docRow, Char: docCol}
}

// ScreenLength returns the number of screen rows of the document.
func (mp *Mapper) ScreenLength() int {
	n := 0
	nl := mp.src.NumLines()
	fls := mp.folds.FoldLines()
	fi := 0
	for row := 0; row < nl; {
		n += mp.RowLength(row)
		if fi < len(fls) && fls[fi].StartLine() == row {
			row = fls[fi].EndLine() + 1
			fi++
			continue
		}
		row++
	}
	return n
}

// ScreenWidth returns the width of the widest screen row,
// which is the wrap limit when wrapping.
func (mp *Mapper) ScreenWidth() int {
	if mp.useWrap {
		return mp.wrapLimit
	}
	w := 0
	nl := mp.src.NumLines()
	fls := mp.folds.FoldLines()
	fi := 0
	for row := 0; row < nl; {
		w = max(w, mp.rowWidth(row))
		if fi < len(fls) && fls[fi].StartLine() == row {
			row = fls[fi].EndLine() + 1
			fi++
			continue
		}
		row++
	}
	return w
}
