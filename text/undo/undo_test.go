// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package undo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/editcore/base/errors"
	"cogentcore.org/editcore/text/folds"
	"cogentcore.org/editcore/text/lines"
	"cogentcore.org/editcore/text/textpos"
)

// recorder records document changes into undo groups,
// except while replaying them.
type recorder struct {
	doc       *lines.Document
	fm        *folds.Model
	um        *Manager
	pending   *Group
	replaying bool
}

func newRecorder(text string) *recorder {
	r := &recorder{doc: lines.New(text), um: &Manager{}, pending: &Group{}}
	r.fm = folds.NewModel(r.doc)
	r.doc.OnChange(func(dt *textpos.Delta) {
		removed := r.fm.UpdateOnChange(dt)
		if !r.replaying {
			r.pending.Add(dt, removed)
		}
	})
	return r
}

func (r *recorder) flush(merge bool) {
	r.um.Execute(r.pending, merge)
	r.pending = &Group{}
}

func (r *recorder) ApplyDelta(dt *textpos.Delta) error {
	r.replaying = true
	defer func() { r.replaying = false }()
	return r.doc.ApplyDelta(dt)
}

func (r *recorder) AddFolds(fs []*folds.Fold) error {
	var errs []error
	for _, f := range fs {
		_, err := r.fm.AddFoldValue(f)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func TestUndoRedo(t *testing.T) {
	r := newRecorder("abc\ndef")
	r.doc.Insert(textpos.Pos{Line: 0, Char: 3}, "\nXY")
	r.flush(false)
	r.doc.Remove(textpos.NewRegion(1, 0, 2, 1))
	r.doc.Insert(textpos.Pos{Line: 1}, "!")
	r.flush(false)
	assert.Equal(t, "abc\n!ef", r.doc.Value())
	assert.True(t, r.um.HasUndo())
	assert.False(t, r.um.HasRedo())

	g, err := r.um.Undo(r)
	require.NoError(t, err)
	assert.Len(t, g.Deltas, 2)
	assert.Equal(t, "abc\nXY\ndef", r.doc.Value())
	_, err = r.um.Undo(r)
	require.NoError(t, err)
	assert.Equal(t, "abc\ndef", r.doc.Value())
	g, err = r.um.Undo(r)
	assert.Nil(t, g)
	assert.NoError(t, err)
	assert.True(t, r.pending.IsEmpty())

	_, err = r.um.Redo(r)
	require.NoError(t, err)
	_, err = r.um.Redo(r)
	require.NoError(t, err)
	assert.Equal(t, "abc\n!ef", r.doc.Value())
	assert.False(t, r.um.HasRedo())
}

func TestDirtyCounter(t *testing.T) {
	const n = 3
	r := newRecorder("text")
	for i := range n {
		r.doc.Insert(textpos.Pos{Line: 0, Char: i}, "x")
		r.flush(false)
	}
	assert.False(t, r.um.IsClean())
	for range n {
		_, err := r.um.Undo(r)
		require.NoError(t, err)
	}
	assert.True(t, r.um.IsClean())
	assert.Equal(t, "text", r.doc.Value())

	for range n {
		_, err := r.um.Redo(r)
		require.NoError(t, err)
	}
	r.um.MarkClean()
	for range n {
		_, err := r.um.Undo(r)
		require.NoError(t, err)
	}
	d, ok := r.um.Dirty()
	assert.Equal(t, -n, d)
	assert.True(t, ok)

	r.doc.Insert(textpos.Pos{}, "y")
	r.flush(false)
	assert.False(t, r.um.IsClean())
	_, ok = r.um.Dirty()
	assert.False(t, ok)
	for range n - 1 {
		r.um.Undo(r)
	}
	assert.False(t, r.um.IsClean())

	r.um.MarkClean()
	assert.True(t, r.um.IsClean())
	r.um.Reset()
	assert.False(t, r.um.HasUndo())
	assert.True(t, r.um.IsClean())
}

func TestMerge(t *testing.T) {
	r := newRecorder("")
	r.doc.Insert(textpos.Pos{}, "a")
	r.flush(false)
	r.doc.Insert(textpos.Pos{Line: 0, Char: 1}, "b")
	r.flush(true)
	r.doc.Insert(textpos.Pos{Line: 0, Char: 2}, "c")
	r.flush(true)
	d, _ := r.um.Dirty()
	assert.Equal(t, 1, d)

	g, err := r.um.Undo(r)
	require.NoError(t, err)
	assert.Len(t, g.Deltas, 3)
	assert.Equal(t, "", r.doc.Value())
	assert.True(t, r.um.IsClean())
	assert.False(t, r.um.HasUndo())
}

func TestGroupFoldIndex(t *testing.T) {
	f1 := folds.NewFold(textpos.NewRegion(0, 0, 0, 3), "a")
	f2 := folds.NewFold(textpos.NewRegion(1, 0, 1, 3), "b")
	dt := &textpos.Delta{Action: textpos.InsertText, Region: textpos.NewRegion(0, 0, 0, 1), Lines: []string{"x"}}
	g := &Group{}
	g.Add(dt, nil)
	g.Add(dt, []*folds.Fold{f1})
	o := &Group{}
	o.Add(dt, []*folds.Fold{f2})
	g.merge(o)
	want := []FoldDelta{{Index: 1, Folds: []*folds.Fold{f1}}, {Index: 2, Folds: []*folds.Fold{f2}}}
	if diff := cmp.Diff(want, g.Folds, cmp.Comparer(func(a, b *folds.Fold) bool { return a == b })); diff != "" {
		t.Errorf("folds (-want +got):\n%s", diff)
	}
}

const testCode = "func a() {\n\tx := 1\n\ty := 2\n}"

func TestUndoRestoresFolds(t *testing.T) {
	r := newRecorder(testCode)
	f, err := r.fm.AddFold("...", textpos.NewRegion(1, 1, 2, 7))
	require.NoError(t, err)

	r.doc.Remove(textpos.NewRegion(1, 2, 1, 4))
	r.flush(false)
	assert.Empty(t, r.fm.AllFolds())
	require.Len(t, r.um.undo[0].Folds, 1)
	assert.Same(t, f, r.um.undo[0].Folds[0].Folds[0])

	_, err = r.um.Undo(r)
	require.NoError(t, err)
	assert.Equal(t, testCode, r.doc.Value())
	fs := r.fm.AllFolds()
	require.Len(t, fs, 1)
	assert.Equal(t, textpos.NewRegion(1, 1, 2, 7), fs[0].Region)
	assert.Equal(t, "...", fs[0].Placeholder)

	_, err = r.um.Redo(r)
	require.NoError(t, err)
	assert.Empty(t, r.fm.AllFolds())

	_, err = r.um.Undo(r)
	require.NoError(t, err)
	require.Len(t, r.fm.AllFolds(), 1)
	assert.Equal(t, textpos.NewRegion(1, 1, 2, 7), r.fm.AllFolds()[0].Region)
}
