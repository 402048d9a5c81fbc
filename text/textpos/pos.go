// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package textpos provides positions, regions and change deltas
// for line-based text.
package textpos

import "fmt"

// Pos is a position within line-based text, as a zero-based
// line index and a zero-based Char offset within the line.
// Char positions are always in runes, not bytes.
type Pos struct {
	Line int
	Char int
}

// PosErr represents an error text position (-1 for both line and char)
// used as a return value for cases where error positions are possible.
var PosErr = Pos{-1, -1}

// String satisfies the fmt.Stringer interface.
func (ps Pos) String() string {
	return fmt.Sprintf("%d:%d", ps.Line, ps.Char)
}

// IsLess returns true if receiver position is less than given comparison.
func (ps Pos) IsLess(cmp Pos) bool {
	switch {
	case ps.Line < cmp.Line:
		return true
	case ps.Line == cmp.Line:
		return ps.Char < cmp.Char
	default:
		return false
	}
}

// Compare returns -1, 0 or 1 as the position is before,
// equal to, or after the given position, in row-major order.
func (ps Pos) Compare(cmp Pos) int {
	switch {
	case ps == cmp:
		return 0
	case ps.IsLess(cmp):
		return -1
	}
	return 1
}

// RelativeTo returns the position expressed relative to the given
// anchor position: the line becomes a line offset and, on the
// anchor line, the char becomes a char offset.
func (ps Pos) RelativeTo(anchor Pos) Pos {
	ps.Line -= anchor.Line
	if ps.Line == 0 {
		ps.Char -= anchor.Char
	}
	return ps
}

// AbsoluteFrom is the inverse of [Pos.RelativeTo].
func (ps Pos) AbsoluteFrom(anchor Pos) Pos {
	if ps.Line == 0 {
		ps.Char += anchor.Char
	}
	ps.Line += anchor.Line
	return ps
}
