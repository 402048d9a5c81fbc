// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"golang.org/x/text/width"
)

// Cell is the kind of one screen column of a display line,
// which determines where the line can be wrapped.
type Cell uint8

// The Cell kinds. Kinds at or above Space are whitespace, and kinds
// below PlaceholderStart are the characters of a word.
const (
	// Char is a regular character.
	Char Cell = 1

	// CharExt is the second column of a wide character.
	CharExt Cell = 2

	// PlaceholderStart is the first column of a fold placeholder.
	PlaceholderStart Cell = 3

	// PlaceholderBody is a following column of a fold placeholder.
	PlaceholderBody Cell = 4

	// Punctuation is one of ()*+,-./:;<=>?.
	Punctuation Cell = 9

	// Space is a space character.
	Space Cell = 10

	// Tab is the first column of a tab.
	Tab Cell = 11

	// TabSpace is a following column of a tab.
	TabSpace Cell = 12
)

// IsFullWidth returns true if the rune takes two screen columns,
// which is the case for East Asian wide and fullwidth runes.
func IsFullWidth(r rune) bool {
	if r < 0x1100 {
		return false
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// ScreenTabSize returns the number of screen columns taken by a tab
// at the given screen column.
func ScreenTabSize(col, tabSize int) int {
	return tabSize - col%tabSize
}

// DisplayCells returns the screen cells of the given text when it
// starts at screen column offset.
func DisplayCells(txt []rune, offset, tabSize int) []Cell {
	cells := make([]Cell, 0, len(txt))
	for _, r := range txt {
		switch {
		case r == '\t':
			cells = append(cells, Tab)
			for range ScreenTabSize(len(cells)-1+offset, tabSize) - 1 {
				cells = append(cells, TabSpace)
			}
		case r == ' ':
			cells = append(cells, Space)
		case (r > 39 && r < 48) || (r > 57 && r < 64):
			cells = append(cells, Punctuation)
		case IsFullWidth(r):
			cells = append(cells, Char, CharExt)
		default:
			cells = append(cells, Char)
		}
	}
	return cells
}

// placeholderCells returns the screen cells of a fold placeholder.
func placeholderCells(placeholder string, offset, tabSize int) []Cell {
	cells := DisplayCells([]rune(placeholder), offset, tabSize)
	for i := range cells {
		cells[i] = PlaceholderBody
	}
	if len(cells) > 0 {
		cells[0] = PlaceholderStart
	}
	return cells
}

// ComputeWrapSplits returns the char offsets at which the display line
// with the given cells is wrapped to fit the limit in screen columns.
// A line is split at the limit inside a run of whitespace, before a
// placeholder rather than inside it, or else after the last word
// boundary within a lookback window: 10 columns for code, where
// punctuation also counts as a boundary, and three quarters of the
// limit otherwise. Words that do not fit are split at the limit,
// but never inside a wide character.
func ComputeWrapSplits(cells []Cell, limit int, asCode bool) []int {
	if limit < 2 {
		return nil
	}
	var splits []int
	n := len(cells)
	lastSplit, lastDocSplit := 0, 0
	addSplit := func(pos int) {
		cn := pos - lastSplit
		for _, c := range cells[lastSplit:pos] {
			if c == TabSpace || c == CharExt {
				cn--
			}
		}
		lastDocSplit += cn
		splits = append(splits, lastDocSplit)
		lastSplit = pos
	}
	lookback := limit - limit>>2
	if asCode {
		lookback = 10
	}
	for n-lastSplit > limit {
		split := lastSplit + limit
		if cells[split-1] >= Space && cells[split] >= Space {
			addSplit(split)
			continue
		}
		if cells[split] == PlaceholderStart || cells[split] == PlaceholderBody {
			for ; split > lastSplit-1; split-- {
				if cells[split] == PlaceholderStart {
					break
				}
			}
			if split > lastSplit {
				addSplit(split)
				continue
			}
			split = lastSplit + limit
			for ; split < n; split++ {
				if cells[split] != PlaceholderBody {
					break
				}
			}
			if split == n {
				break
			}
			addSplit(split)
			continue
		}
		minSplit := max(split-lookback, lastSplit-1)
		for split > minSplit && cells[split] < PlaceholderStart {
			split--
		}
		if asCode {
			for split > minSplit && cells[split] == Punctuation {
				split--
			}
		} else {
			for split > minSplit && cells[split] < Space {
				split--
			}
		}
		if split > minSplit {
			addSplit(split + 1)
			continue
		}
		split = lastSplit + limit
		if cells[split] == CharExt {
			split--
		}
		addSplit(split)
	}
	return splits
}
