// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lines

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/editcore/text/textpos"
)

// record returns a pointer to the deltas emitted by d.
func record(d *Document) *[]*textpos.Delta {
	var ds []*textpos.Delta
	d.OnChange(func(dt *textpos.Delta) {
		ds = append(ds, dt)
	})
	return &ds
}

func TestNew(t *testing.T) {
	d := New("a\r\nb\nc\rd")
	assert.Equal(t, []string{"a", "b", "c", "d"}, d.AllLines())
	assert.Equal(t, "\r\n", d.NewlineChar())
	assert.Equal(t, "a\r\nb\r\nc\r\nd", d.Value())

	d.SetNewlineMode(NewlineUnix)
	assert.Equal(t, "a\nb\nc\nd", d.Value())

	e := New("")
	assert.Equal(t, 1, e.NumLines())
	assert.Equal(t, "", e.Line(0))
	assert.Equal(t, "\n", e.NewlineChar())

	f := NewFromLines([]string{"x", "y"})
	assert.Equal(t, "x\ny", f.Value())
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{""}, SplitLines(""))
	assert.Equal(t, []string{"", ""}, SplitLines("\r\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\rb"))
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\nb\n"))
}

func TestInsertExample(t *testing.T) {
	d := New("abc\ndef")
	ds := record(d)
	end := d.Insert(textpos.Pos{Line: 0, Char: 3}, "\nXY")
	assert.Equal(t, textpos.Pos{Line: 1, Char: 2}, end)
	assert.Equal(t, []string{"abc", "XY", "def"}, d.AllLines())
	want := []*textpos.Delta{{Action: textpos.InsertText, Region: textpos.NewRegion(0, 3, 1, 2), Lines: []string{"", "XY"}}}
	if diff := cmp.Diff(want, *ds); diff != "" {
		t.Errorf("deltas (-want +got):\n%s", diff)
	}
}

func TestInsertClipsAndNoop(t *testing.T) {
	d := New("abc\ndef")
	ds := record(d)
	end := d.Insert(textpos.Pos{Line: 9, Char: 9}, "!")
	assert.Equal(t, textpos.Pos{Line: 1, Char: 4}, end)
	assert.Equal(t, "def!", d.Line(1))
	end = d.Insert(textpos.Pos{Line: 0, Char: -3}, "")
	assert.Equal(t, textpos.Pos{}, end)
	assert.Len(t, *ds, 1)
	assert.Equal(t, "", d.Line(5))
	assert.Equal(t, "", d.Line(-1))
}

func TestInsertLines(t *testing.T) {
	d := New("a\nb")
	ds := record(d)
	d.InsertLines(1, []string{"x", "y"})
	assert.Equal(t, []string{"a", "x", "y", "b"}, d.AllLines())
	d.InsertLines(10, []string{"z"})
	assert.Equal(t, []string{"a", "x", "y", "b", "z"}, d.AllLines())
	want := []*textpos.Delta{
		{Action: textpos.InsertLines, Region: textpos.NewRegion(1, 0, 3, 0), Lines: []string{"x", "y"}},
		{Action: textpos.InsertText, Region: textpos.NewRegion(3, 1, 4, 1), Lines: []string{"", "z"}},
	}
	if diff := cmp.Diff(want, *ds); diff != "" {
		t.Errorf("deltas (-want +got):\n%s", diff)
	}
}

func TestRemove(t *testing.T) {
	d := New("abc\ndef\nghi")
	ds := record(d)
	st := d.Remove(textpos.NewRegion(0, 1, 2, 1))
	assert.Equal(t, textpos.Pos{Line: 0, Char: 1}, st)
	assert.Equal(t, []string{"ahi"}, d.AllLines())
	assert.Equal(t, []string{"bc", "def", "g"}, (*ds)[0].Lines)
	assert.Equal(t, textpos.RemoveText, (*ds)[0].Action)

	st = d.Remove(textpos.NewRegion(0, 2, 0, 2))
	assert.Equal(t, textpos.Pos{Line: 0, Char: 2}, st)
	assert.Len(t, *ds, 1)
}

func TestRemoveLines(t *testing.T) {
	d := New("a\nb\nc\nd")
	ds := record(d)
	assert.Equal(t, []string{"b", "c"}, d.RemoveLines(1, 2))
	assert.Equal(t, []string{"a", "d"}, d.AllLines())
	assert.Equal(t, textpos.RemoveLines, (*ds)[0].Action)
	assert.Equal(t, textpos.NewRegion(1, 0, 3, 0), (*ds)[0].Region)

	assert.Equal(t, []string{"d"}, d.RemoveLines(1, 1))
	assert.Equal(t, []string{"a"}, d.AllLines())
	assert.Equal(t, textpos.NewRegion(0, 1, 1, 1), (*ds)[1].Region)

	assert.Equal(t, []string{"a"}, d.RemoveLines(0, 0))
	assert.Equal(t, []string{""}, d.AllLines())
	assert.Equal(t, 1, d.NumLines())
}

func TestReplace(t *testing.T) {
	d := New("hello world")
	ds := record(d)
	end := d.Replace(textpos.NewRegion(0, 6, 0, 11), "world")
	assert.Equal(t, textpos.Pos{Line: 0, Char: 11}, end)
	assert.Len(t, *ds, 0)

	end = d.Replace(textpos.NewRegion(0, 6, 0, 11), "there\nfriend")
	assert.Equal(t, textpos.Pos{Line: 1, Char: 6}, end)
	assert.Equal(t, []string{"hello there", "friend"}, d.AllLines())
	assert.Len(t, *ds, 2)

	end = d.Replace(textpos.NewRegion(1, 0, 1, 0), "")
	assert.Equal(t, textpos.Pos{Line: 1}, end)
	assert.Len(t, *ds, 2)

	d = New("abcdef\nxyz")
	end = d.Replace(textpos.NewRegion(-1, 5, 0, 2), "Q")
	assert.Equal(t, textpos.Pos{Line: 0, Char: 1}, end)
	assert.Equal(t, []string{"Qcdef", "xyz"}, d.AllLines())

	end = d.Replace(textpos.NewRegion(1, 2, 0, 1), "-")
	assert.Equal(t, textpos.Pos{Line: 0, Char: 2}, end)
	assert.Equal(t, []string{"Q-z"}, d.AllLines())
}

func TestHelpers(t *testing.T) {
	d := New("abc\ndef")
	d.InsertNewLine(textpos.Pos{Line: 0, Char: 1})
	assert.Equal(t, []string{"a", "bc", "def"}, d.AllLines())
	d.RemoveNewLine(0)
	assert.Equal(t, []string{"abc", "def"}, d.AllLines())
	d.InsertInLine(textpos.Pos{Line: 1, Char: 3}, "g")
	d.RemoveInLine(0, 0, 1)
	assert.Equal(t, []string{"bc", "defg"}, d.AllLines())
	assert.Equal(t, "c\nde", d.TextRange(textpos.NewRegion(0, 1, 1, 2)))
	assert.Equal(t, []string{"bc", "defg"}, d.Lines(-5, 5))

	d.SetValue("x\ny\nz")
	assert.Equal(t, "x\ny\nz", d.Value())
}

func TestIndexToPos(t *testing.T) {
	d := New("ab\ncde\nf")
	assert.Equal(t, textpos.Pos{Line: 0, Char: 0}, d.IndexToPos(0, 0))
	assert.Equal(t, textpos.Pos{Line: 0, Char: 2}, d.IndexToPos(2, 0))
	assert.Equal(t, textpos.Pos{Line: 1, Char: 0}, d.IndexToPos(3, 0))
	assert.Equal(t, textpos.Pos{Line: 2, Char: 1}, d.IndexToPos(8, 0))
	assert.Equal(t, textpos.Pos{Line: 2, Char: 1}, d.IndexToPos(100, 0))
	assert.Equal(t, textpos.Pos{Line: 2, Char: 0}, d.IndexToPos(4, 1))
	assert.Equal(t, textpos.Pos{}, d.IndexToPos(-3, 0))
	assert.Equal(t, textpos.Pos{Line: 1}, d.IndexToPos(-1, 1))
	assert.Equal(t, textpos.Pos{Line: 2, Char: 1}, d.IndexToPos(-1, 9))
	for ln := 0; ln < d.NumLines(); ln++ {
		for ch := 0; ch <= d.LineLen(ln); ch++ {
			pos := textpos.Pos{Line: ln, Char: ch}
			assert.Equal(t, pos, d.IndexToPos(d.PosToIndex(pos, 0), 0))
		}
	}
	assert.Equal(t, 4, d.PosToIndex(textpos.Pos{Line: 2}, 1))
}

func TestClipPos(t *testing.T) {
	d := New("ab\ncde")
	assert.Equal(t, textpos.Pos{Line: 1, Char: 3}, d.ClipPos(textpos.Pos{Line: 5, Char: 0}))
	assert.Equal(t, textpos.Pos{Line: 0, Char: 0}, d.ClipPos(textpos.Pos{Line: -1, Char: -1}))
	assert.Equal(t, textpos.Pos{Line: 0, Char: 2}, d.ClipPos(textpos.Pos{Line: 0, Char: 9}))
	assert.Equal(t, textpos.Pos{}, d.ClipPos(textpos.Pos{Line: -1, Char: 5}))
	assert.Equal(t, textpos.NewRegion(0, 0, 0, 1), d.ClipRegion(textpos.NewRegion(-2, 5, 0, 1)))
}

func TestApplyDeltaErrors(t *testing.T) {
	d := New("ab")
	err := d.ApplyDelta(&textpos.Delta{Action: textpos.InsertText, Region: textpos.NewRegion(3, 0, 3, 1), Lines: []string{"x"}})
	assert.Error(t, err)
	err = d.ApplyDelta(&textpos.Delta{Action: textpos.RemoveText, Region: textpos.NewRegion(0, 0, 1, 0), Lines: []string{"ab"}})
	assert.Error(t, err)
	assert.Equal(t, "ab", d.Value())
}

// randomEdit applies a random insert or remove to d.
func randomEdit(rnd *rand.Rand, d *Document) {
	ln := rnd.IntN(d.NumLines())
	pos := textpos.Pos{Line: ln, Char: rnd.IntN(d.LineLen(ln) + 1)}
	switch rnd.IntN(6) {
	case 0, 1:
		texts := []string{"x", "yz", "\n", "a\nb", "\n\nq", "tab\there"}
		d.Insert(pos, texts[rnd.IntN(len(texts))])
	case 2:
		d.InsertLines(rnd.IntN(d.NumLines()+1), []string{"new", "lines"})
	case 3:
		el := rnd.IntN(d.NumLines())
		ep := textpos.Pos{Line: el, Char: rnd.IntN(d.LineLen(el) + 1)}
		d.Remove(textpos.NewRegionPos(pos, ep))
	case 4:
		a, b := rnd.IntN(d.NumLines()), rnd.IntN(d.NumLines())
		d.RemoveLines(min(a, b), max(a, b))
	case 5:
		texts := []string{"", "one", "x\ny", "x\r\ny\r\nz", "p\rq"}
		d.SetValue(texts[rnd.IntN(len(texts))])
	}
}

func TestDeltaRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	initials := []string{"one\ntwo\nthree", "one\r\ntwo\r\nthree"}
	for iter := 0; iter < 50; iter++ {
		initial := initials[iter%len(initials)]
		d := New(initial)
		ds := record(d)
		for range 20 {
			randomEdit(rnd, d)
		}
		replay := New(initial)
		require.NoError(t, replay.ApplyDeltas(*ds))
		assert.Equal(t, d.Value(), replay.Value())

		require.NoError(t, replay.RevertDeltas(*ds))
		assert.Equal(t, SplitLines(initial), replay.AllLines())
	}
}

func TestDeltaRoundTripNewline(t *testing.T) {
	d := New("a\r\nb")
	ds := record(d)
	d.Remove(textpos.Region{End: d.EndPos()})
	d.Insert(textpos.Pos{}, "x\ny")
	assert.Equal(t, "x\ny", d.Value())
	assert.Equal(t, "\n", (*ds)[1].Newline)

	replay := New("a\r\nb")
	require.NoError(t, replay.ApplyDeltas(*ds))
	assert.Equal(t, "x\ny", replay.Value())

	d.Insert(textpos.Pos{Line: 1, Char: 1}, "\r\nz")
	assert.Empty(t, (*ds)[2].Newline)
	assert.Equal(t, "x\ny\nz", d.Value())
}

func TestNewlineMode(t *testing.T) {
	var nm NewlineMode
	require.NoError(t, nm.UnmarshalText([]byte("Windows")))
	assert.Equal(t, NewlineWindows, nm)
	b, err := nm.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "windows", string(b))
	assert.Error(t, nm.UnmarshalText([]byte("mac")))
	assert.True(t, IsNewline("\r"))
	assert.False(t, IsNewline("\n\n"))
}
