// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package folds provides the [Model] of collapsed regions of a
// document. Each [Fold] replaces its region with a placeholder on
// screen. Folds that touch the same rows are grouped into a [Line],
// which is displayed as a single screen line.
//
// Folds never partially overlap. A fold added inside an existing fold
// becomes one of its suspended sub folds, stored relative to the
// parent's start and restored when the parent is expanded.
package folds

import (
	"fmt"
	"slices"

	"cogentcore.org/editcore/base/errors"
	"cogentcore.org/editcore/text/textpos"
	"github.com/jinzhu/copier"
)

var (
	// ErrTooNarrow is returned when adding a fold on a single line
	// that spans fewer than two chars.
	ErrTooNarrow = errors.New("folds: the range has to be at least 2 characters wide")

	// ErrIntersects is returned when adding a fold that partially
	// overlaps an existing fold.
	ErrIntersects = errors.New("folds: fold intersects existing fold")
)

// Fold is a collapsed region of a document.
type Fold struct {

	// Region is the folded region of the document. For sub folds it
	// is relative to the start of the parent fold.
	Region textpos.Region

	// Placeholder is the text shown in place of the region.
	Placeholder string

	// Sub are the suspended folds inside this one, relative to its start.
	Sub []*Fold

	// CollapseChildren, when positive, discards folds inside the region
	// when it is folded, and on expansion folds the content to this
	// depth again with [Model.FoldAll].
	CollapseChildren int

	// line is the id of the [Line] holding the fold, or 0.
	line int `copier:"-"`
}

// NewFold returns a new fold for the given region and placeholder.
func NewFold(reg textpos.Region, placeholder string) *Fold {
	return &Fold{Region: reg, Placeholder: placeholder}
}

func (f *Fold) String() string {
	s := fmt.Sprintf("%q %s", f.Placeholder, f.Region)
	if len(f.Sub) > 0 {
		s += fmt.Sprintf(" %v", f.Sub)
	}
	return s
}

// Start returns the start of the fold region.
func (f *Fold) Start() textpos.Pos { return f.Region.Start }

// End returns the end of the fold region.
func (f *Fold) End() textpos.Pos { return f.Region.End }

// IsSameRow returns true if the fold starts and ends on the same line.
func (f *Fold) IsSameRow() bool {
	return !f.Region.IsMultiLine()
}

// IsFolded returns true if the fold is currently in a [Model].
func (f *Fold) IsFolded() bool {
	return f.line != 0
}

// Clone returns a deep copy of the fold, not attached to any model.
func (f *Fold) Clone() *Fold {
	c := &Fold{}
	errors.Log(copier.CopyWithOption(c, f, copier.Option{DeepCopy: true}))
	return c
}

// PlaceholderLen returns the length of the placeholder in runes.
func (f *Fold) PlaceholderLen() int {
	return len([]rune(f.Placeholder))
}

// addSubFold adds the given fold, in absolute coordinates, as a sub
// fold, returning the fold that holds the region, which is an existing
// sub fold if one has the same region.
func (f *Fold) addSubFold(sub *Fold) (*Fold, error) {
	if sub.Region == f.Region {
		return f, nil
	}
	sub.Region = sub.Region.RelativeTo(f.Region.Start)
	return insertSubFold(&f.Sub, sub)
}

// overlaps returns true if the regions share more than a boundary.
func overlaps(a, b textpos.Region) bool {
	return a.Start.IsLess(b.End) && b.Start.IsLess(a.End)
}

// insertSubFold inserts nf into the sorted list of sibling folds, which
// share nf's coordinates. A sibling containing nf receives it as a sub
// fold, and siblings inside nf become its sub folds.
func insertSubFold(list *[]*Fold, nf *Fold) (*Fold, error) {
	for _, s := range *list {
		if s.Region == nf.Region {
			return s, nil
		}
	}
	for _, s := range *list {
		if s.Region.ContainsRegion(nf.Region) {
			return s.addSubFold(nf)
		}
	}
	var inside []*Fold
	for _, s := range *list {
		switch {
		case nf.Region.ContainsRegion(s.Region):
			inside = append(inside, s)
		case overlaps(s.Region, nf.Region):
			return nil, ErrIntersects
		}
	}
	if len(inside) > 0 {
		*list = slices.DeleteFunc(*list, func(s *Fold) bool {
			return slices.Contains(inside, s)
		})
		for _, s := range inside {
			s.Region = s.Region.RelativeTo(nf.Region.Start)
			nf.Sub = append(nf.Sub, s)
		}
	}
	i, _ := slices.BinarySearchFunc(*list, nf, func(a, b *Fold) int {
		return a.Region.Start.Compare(b.Region.Start)
	})
	*list = slices.Insert(*list, i, nf)
	return nf, nil
}
