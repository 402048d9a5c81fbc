// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textpos

import "fmt"

// Region is a contiguous region within the source file,
// defined by start and end [Pos] positions.
type Region struct {
	// starting position of region
	Start Pos
	// ending position of region
	End Pos
}

// NewRegion creates a new text region using separate line and char
// values for start and end.
func NewRegion(stLn, stCh, edLn, edCh int) Region {
	return Region{Start: Pos{Line: stLn, Char: stCh}, End: Pos{Line: edLn, Char: edCh}}
}

// NewRegionPos creates a new text region from the given positions,
// ordering them so that Start is not after End.
func NewRegionPos(st, ed Pos) Region {
	if ed.IsLess(st) {
		st, ed = ed, st
	}
	return Region{Start: st, End: ed}
}

// String satisfies the fmt.Stringer interface.
func (tr Region) String() string {
	return fmt.Sprintf("[%s-%s]", tr.Start, tr.End)
}

// IsNil checks if the region is empty, because the start is after or equal to the end.
func (tr Region) IsNil() bool {
	return !tr.Start.IsLess(tr.End)
}

// IsEmpty returns true if the start and end are the same position.
func (tr Region) IsEmpty() bool {
	return tr.Start == tr.End
}

// IsMultiLine returns true if the region spans more than one line.
func (tr Region) IsMultiLine() bool {
	return tr.Start.Line != tr.End.Line
}

// NumLines returns the number of line boundaries the region crosses.
func (tr Region) NumLines() int {
	return tr.End.Line - tr.Start.Line
}

// Contains returns true if region contains position,
// with the end exclusive.
func (tr Region) Contains(ps Pos) bool {
	return ps.IsLess(tr.End) && (tr.Start == ps || tr.Start.IsLess(ps))
}

// IsStart returns true if the position is the region start.
func (tr Region) IsStart(ps Pos) bool {
	return tr.Start == ps
}

// IsEnd returns true if the position is the region end.
func (tr Region) IsEnd(ps Pos) bool {
	return tr.End == ps
}

// ComparePos returns -1 if the position is before the region,
// 1 if it is after, and 0 if it is inside, with both ends inclusive.
func (tr Region) ComparePos(ps Pos) int {
	if !tr.IsMultiLine() && ps.Line == tr.Start.Line {
		switch {
		case ps.Char < tr.Start.Char:
			return -1
		case ps.Char > tr.End.Char:
			return 1
		}
		return 0
	}
	switch {
	case ps.Line < tr.Start.Line:
		return -1
	case ps.Line > tr.End.Line:
		return 1
	case ps.Line == tr.Start.Line:
		if ps.Char >= tr.Start.Char {
			return 0
		}
		return -1
	case ps.Line == tr.End.Line:
		if ps.Char <= tr.End.Char {
			return 0
		}
		return 1
	}
	return 0
}

// CompareStart is [Region.ComparePos] with the start counted as before.
func (tr Region) CompareStart(ps Pos) int {
	if tr.Start == ps {
		return -1
	}
	return tr.ComparePos(ps)
}

// CompareEnd is [Region.ComparePos] with the end counted as after.
func (tr Region) CompareEnd(ps Pos) int {
	if tr.End == ps {
		return 1
	}
	return tr.ComparePos(ps)
}

// CompareInside is [Region.ComparePos] with both ends excluded:
// the end counts as after and the start as before.
func (tr Region) CompareInside(ps Pos) int {
	switch {
	case tr.End == ps:
		return 1
	case tr.Start == ps:
		return -1
	}
	return tr.ComparePos(ps)
}

// Region comparison results returned by [Region.CompareRegion].
const (
	// RegionBefore: the other region ends before this one starts.
	RegionBefore = -2
	// RegionOverlapsStart: the other region starts before this one
	// and ends inside it.
	RegionOverlapsStart = -1
	// RegionOverlaps: the other region is inside this one,
	// or contains it.
	RegionOverlaps = 0
	// RegionOverlapsEnd: the other region starts inside this one
	// and ends after it.
	RegionOverlapsEnd = 1
	// RegionAfter: the other region starts after this one ends.
	RegionAfter = 2
	// RegionInverted: the other region ends inside this one but
	// starts after it, which only happens for an inverted region.
	RegionInverted = 42
)

// CompareRegion returns how the other region relates to this one,
// as one of the Region comparison constants.
func (tr Region) CompareRegion(o Region) int {
	switch tr.ComparePos(o.End) {
	case 1:
		switch tr.ComparePos(o.Start) {
		case 1:
			return RegionAfter
		case 0:
			return RegionOverlapsEnd
		}
		return RegionOverlaps
	case -1:
		return RegionBefore
	}
	switch tr.ComparePos(o.Start) {
	case -1:
		return RegionOverlapsStart
	case 1:
		return RegionInverted
	}
	return RegionOverlaps
}

// ContainsRegion returns true if the other region lies inside this one,
// with both ends inclusive.
func (tr Region) ContainsRegion(o Region) bool {
	return tr.ComparePos(o.Start) == 0 && tr.ComparePos(o.End) == 0
}

// RelativeTo returns the region with both ends relative to anchor.
func (tr Region) RelativeTo(anchor Pos) Region {
	return Region{Start: tr.Start.RelativeTo(anchor), End: tr.End.RelativeTo(anchor)}
}

// AbsoluteFrom is the inverse of [Region.RelativeTo].
func (tr Region) AbsoluteFrom(anchor Pos) Region {
	return Region{Start: tr.Start.AbsoluteFrom(anchor), End: tr.End.AbsoluteFrom(anchor)}
}
