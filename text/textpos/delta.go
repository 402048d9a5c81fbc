// Copyright (c) 2020, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textpos

import (
	"fmt"
	"slices"
	"strings"
)

// Action is the kind of change described by a [Delta].
type Action int32

const (
	// InsertText inserts text starting at Region.Start;
	// Region.End is the end of the inserted text.
	InsertText Action = iota

	// InsertLines inserts whole lines before Region.Start.Line;
	// the region runs from the start of the first inserted line
	// to the start of the line after the last one.
	InsertLines

	// RemoveText removes the text in Region.
	RemoveText

	// RemoveLines removes whole lines, with a region like InsertLines.
	RemoveLines
)

var actionNames = [...]string{"InsertText", "InsertLines", "RemoveText", "RemoveLines"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", a)
	}
	return actionNames[a]
}

// IsInsert returns true for the insert actions.
func (a Action) IsInsert() bool {
	return a == InsertText || a == InsertLines
}

// Invert returns the action that reverses a.
func (a Action) Invert() Action {
	switch a {
	case InsertText:
		return RemoveText
	case InsertLines:
		return RemoveLines
	case RemoveText:
		return InsertText
	}
	return InsertLines
}

// Delta describes one change to line-based text: the unit of change
// notification and of undo. Regions are in the coordinates of the text
// before a removal and after an insertion.
type Delta struct {

	// Action is the kind of change.
	Action Action

	// Region that was inserted or removed.
	Region Region

	// Lines is the inserted or removed text, split into lines.
	// For InsertText and RemoveText the first and last entries are
	// partial lines; for the line actions every entry is a whole line.
	Lines []string

	// Newline is the newline sequence of inserted text that sets the
	// detected newline of a document of at most one line, or "".
	Newline string
}

// Text returns the inserted or removed text, with lines joined by "\n".
// For the line actions the text includes a trailing "\n".
func (d *Delta) Text() string {
	t := strings.Join(d.Lines, "\n")
	if d.Action == InsertLines || d.Action == RemoveLines {
		t += "\n"
	}
	return t
}

// Clone returns a copy of the delta that does not share its lines.
func (d *Delta) Clone() *Delta {
	c := *d
	c.Lines = slices.Clone(d.Lines)
	return &c
}

// Invert returns the delta that reverses this one.
func (d *Delta) Invert() *Delta {
	c := d.Clone()
	c.Action = d.Action.Invert()
	return c
}

// NumLines returns the number of lines added or removed by the delta.
func (d *Delta) NumLines() int {
	return d.Region.NumLines()
}

func (d *Delta) String() string {
	return fmt.Sprintf("%s %s %q", d.Action, d.Region, d.Lines)
}

// Bias determines how a position moves when text is inserted exactly at it.
type Bias int32

const (
	// BiasLeft positions move past text inserted exactly at them,
	// staying attached to the text on their left.
	BiasLeft Bias = iota

	// BiasRight positions stay in place when text is inserted exactly
	// at them, staying attached to the text on their right.
	BiasRight
)

// pointsInOrder returns whether p1 comes before p2, with equal
// positions counting as in order if equal is set.
func pointsInOrder(p1, p2 Pos, equal bool) bool {
	if p1.Line != p2.Line {
		return p1.Line < p2.Line
	}
	if equal {
		return p1.Char <= p2.Char
	}
	return p1.Char < p2.Char
}

// AdjustPos returns the position that pos moves to as a result of
// applying the delta. Positions before the change are unchanged;
// positions after it shift by the inserted or removed lines, and on
// the affected line by the inserted or removed chars. Positions inside
// removed text collapse to the start of the removal.
func (d *Delta) AdjustPos(pos Pos, bias Bias) Pos {
	if d == nil {
		return pos
	}
	stay := bias == BiasRight
	insert := d.Action.IsInsert()
	st := d.Region.Start
	ed := d.Region.End
	dl := ed.Line - st.Line
	dc := ed.Char - st.Char
	if !insert {
		dl, dc = -dl, -dc
	}
	if pointsInOrder(pos, st, stay) {
		return pos
	}
	end := ed
	if insert {
		end = st
	}
	if pointsInOrder(end, pos, !stay) {
		np := Pos{Line: pos.Line + dl, Char: pos.Char}
		if pos.Line == end.Line {
			np.Char += dc
		}
		return np
	}
	return st
}

// AdjustRegion adjusts both ends of the given region with
// [Delta.AdjustPos], keeping insertions at the start outside
// and insertions at the end outside of the region.
func (d *Delta) AdjustRegion(reg Region) Region {
	return Region{Start: d.AdjustPos(reg.Start, BiasLeft), End: d.AdjustPos(reg.End, BiasRight)}
}
