// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package folds

import (
	"slices"

	"cogentcore.org/editcore/text/textpos"
)

// UpdateOnChange updates the folds for the given change to the
// document, which has already been applied. Folds that the change
// cuts into are removed and returned, with their regions still in the
// coordinates before the change, and the remaining folds move with the
// text around them.
func (m *Model) UpdateOnChange(dt *textpos.Delta) []*Fold {
	st, ed := dt.Region.Start, dt.Region.End
	n := ed.Line - st.Line
	insert := dt.Action.IsInsert()

	var removed []*Fold
	if insert {
		removed = m.foldsAround(st)
	} else {
		removed = m.FoldsInRange(dt.Region)
	}
	if len(removed) > 0 {
		m.RemoveFolds(removed)
	}
	if len(m.lines) == 0 {
		return removed
	}
	if n == 0 {
		if l := m.FoldLine(st.Line); l != nil {
			l.adjust(dt, l.Folds)
		}
		return removed
	}

	var done *Line
	if insert {
		if l := m.FoldLine(st.Line); l != nil {
			i := slices.IndexFunc(l.Folds, func(f *Fold) bool {
				return st.IsLess(f.Region.End)
			})
			if i > 0 {
				li := m.lineIndex(l.id)
				after := slices.Clone(l.Folds[i:])
				l.setFolds(slices.Clip(l.Folds[:i]))
				l = m.newLine(li+1, after)
			}
			if i >= 0 {
				l.adjust(dt, l.Folds)
				done = l
			}
		}
		for _, l := range m.lines {
			if l != done && l.Region.Start.Line > st.Line {
				l.shiftRow(n)
			}
		}
		return removed
	}

	l := m.FoldLine(ed.Line)
	if l != nil {
		l.adjust(dt, l.Folds)
	}
	for _, o := range m.lines {
		if o != l && o.Region.Start.Line > ed.Line {
			o.shiftRow(-n)
		}
	}
	if l != nil {
		if lb := m.FoldLine(st.Line); lb != nil && lb != l {
			m.merge(lb, l)
		}
	}
	return removed
}
