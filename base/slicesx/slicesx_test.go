// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slicesx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLength(t *testing.T) {
	var s []int
	s = SetLength(s, 3)
	assert.Equal(t, 3, len(s))

	s[2] = 2
	s = SetLength(s, 40)
	assert.Equal(t, 40, len(s))
	assert.Equal(t, 2, s[2])

	s = SetLength(s, 4)
	assert.Equal(t, 4, len(s))
	assert.Equal(t, 2, s[2])
}

func TestSpliceFill(t *testing.T) {
	s := []int{0, 1, 2, 3}
	assert.Equal(t, []int{0, -1, -1, -1, 3}, SpliceFill(s, 1, 2, 3, -1))

	s = []int{0, 1, 2, 3}
	assert.Equal(t, []int{0, -1, 3}, SpliceFill(s, 1, 2, 1, -1))

	s = []int{0, 1}
	assert.Equal(t, []int{0, 1, -1}, SpliceFill(s, 5, 3, 1, -1))
	assert.Equal(t, []int{-1}, SpliceFill([]int(nil), 0, 1, 1, -1))
}

func TestSearch(t *testing.T) {
	s := []int{5, 6, 7, 8, 9}
	for start := -1; start < 7; start++ {
		assert.Equal(t, 3, Search(s, func(e int) bool { return e == 8 }, start))
		assert.Equal(t, 0, Search(s, func(e int) bool { return e == 5 }, start))
		assert.Equal(t, -1, Search(s, func(e int) bool { return e == 1 }, start))
	}
	assert.Equal(t, -1, Search([]int{}, func(e int) bool { return true }))
}
