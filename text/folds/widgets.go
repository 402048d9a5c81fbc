// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package folds

import (
	"strings"
	"unicode"

	"cogentcore.org/editcore/base/errors"
	"cogentcore.org/editcore/base/slicesx"
	"cogentcore.org/editcore/text/textpos"
)

// Widget is the fold widget of a document line: whether a foldable
// region starts or ends there.
type Widget int32

const (
	// WidgetNone is a line without a fold widget.
	WidgetNone Widget = iota

	// WidgetStart is a line where a foldable region starts.
	WidgetStart

	// WidgetEnd is a line where a foldable region ends.
	WidgetEnd

	// widgetUnknown marks a line whose widget must be recomputed.
	widgetUnknown Widget = -1
)

func (w Widget) String() string {
	switch w {
	case WidgetStart:
		return "start"
	case WidgetEnd:
		return "end"
	}
	return ""
}

// WidgetProvider classifies the lines of a document into foldable
// regions, typically based on the syntax of the document language.
type WidgetProvider interface {

	// Widget returns the fold widget of the given line.
	Widget(src Source, row int) Widget

	// WidgetRegion returns the foldable region for the widget on the
	// given line, and false if there is none.
	WidgetRegion(src Source, row int) (textpos.Region, bool)
}

// SetWidgetProvider sets the provider of fold widgets, which may be nil,
// and clears the widget cache.
func (m *Model) SetWidgetProvider(p WidgetProvider) {
	m.provider = p
	m.widgets = nil
}

// WidgetProvider returns the provider of fold widgets.
func (m *Model) WidgetProvider() WidgetProvider {
	return m.provider
}

// Widget returns the fold widget of the given line,
// computing and caching it if needed.
func (m *Model) Widget(row int) Widget {
	if m.provider == nil || row < 0 || row >= m.src.NumLines() {
		return WidgetNone
	}
	if row >= len(m.widgets) {
		m.widgets = slicesx.SpliceFill(m.widgets, len(m.widgets), 0, row+1-len(m.widgets), widgetUnknown)
	}
	if m.widgets[row] == widgetUnknown {
		m.widgets[row] = m.provider.Widget(m.src, row)
	}
	return m.widgets[row]
}

// WidgetRegion returns the foldable region for the fold widget of the
// given line, and false if there is none.
func (m *Model) WidgetRegion(row int) (textpos.Region, bool) {
	if m.provider == nil || row < 0 || row >= m.src.NumLines() {
		return textpos.Region{}, false
	}
	return m.provider.WidgetRegion(m.src, row)
}

// UpdateWidgets updates the widget cache for the given change to the
// document: edited lines and the line before them are recomputed on
// the next read, and the cache is spliced for added or removed lines.
func (m *Model) UpdateWidgets(dt *textpos.Delta) {
	first := dt.Region.Start.Line
	n := dt.Region.End.Line - first
	if first > len(m.widgets) {
		return
	}
	switch {
	case n == 0:
		if first < len(m.widgets) {
			m.widgets[first] = widgetUnknown
		}
	case dt.Action.IsInsert():
		m.widgets = slicesx.SpliceFill(m.widgets, first, 1, n+1, widgetUnknown)
	default:
		m.widgets = slicesx.SpliceFill(m.widgets, first, n+1, 1, widgetUnknown)
	}
	if first > 0 {
		m.widgets[first-1] = widgetUnknown
	}
}

// InvalidateWidgets clears the cached widgets from the first line on,
// when the lines from first to last have been retokenized.
func (m *Model) InvalidateWidgets(first, last int) {
	if first != last && first < len(m.widgets) {
		m.widgets = m.widgets[:max(first, 0)]
	}
}

// FoldAll folds each region with a start widget between the given
// document lines, skipping regions inside one already folded. Folds
// are added with the "..." placeholder and fold their content to the
// given depth when expanded. It returns the folds that were added and
// the joined errors of those that could not be.
func (m *Model) FoldAll(start, end, depth int) ([]*Fold, error) {
	if m.provider == nil {
		return nil, nil
	}
	start = max(start, 0)
	end = min(end, m.src.NumLines())
	var added []*Fold
	var errs []error
	for row := start; row < end; row++ {
		if m.Widget(row) != WidgetStart {
			continue
		}
		reg, ok := m.WidgetRegion(row)
		if !ok || !reg.IsMultiLine() || reg.End.Line > end || reg.Start.Line < start {
			continue
		}
		row = reg.End.Line
		f := NewFold(reg, "...")
		f.CollapseChildren = depth
		if _, err := m.AddFoldValue(f); err != nil {
			errs = append(errs, errors.Debug(err, "region", reg))
			continue
		}
		added = append(added, f)
	}
	return added, errors.Join(errs...)
}

// IndentFolds is a [WidgetProvider] for indentation based languages:
// a line starts a foldable region when the next non-blank line is
// more indented, and the region runs to the end of the last line that
// is more indented than it.
type IndentFolds struct{}

func indentLevel(s string) int {
	i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
	if i < 0 {
		return -1
	}
	return len([]rune(s[:i]))
}

func (IndentFolds) Widget(src Source, row int) Widget {
	level := indentLevel(src.Line(row))
	if level < 0 {
		return WidgetNone
	}
	for next := row + 1; next < src.NumLines(); next++ {
		nl := indentLevel(src.Line(next))
		if nl < 0 {
			continue
		}
		if nl > level {
			return WidgetStart
		}
		break
	}
	return WidgetNone
}

func (IndentFolds) WidgetRegion(src Source, row int) (textpos.Region, bool) {
	level := indentLevel(src.Line(row))
	if level < 0 {
		return textpos.Region{}, false
	}
	last := row
	for next := row + 1; next < src.NumLines(); next++ {
		nl := indentLevel(src.Line(next))
		if nl < 0 {
			continue
		}
		if nl <= level {
			break
		}
		last = next
	}
	if last == row {
		return textpos.Region{}, false
	}
	return textpos.NewRegion(row, src.LineLen(row), last, src.LineLen(last)), true
}
