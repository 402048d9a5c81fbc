// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"cogentcore.org/editcore/base/logx"
	"cogentcore.org/editcore/base/sched"
	"cogentcore.org/editcore/text/highlighting"
	"cogentcore.org/editcore/text/textpos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

const testIndent = "a:\n  b:\n    c\n  d\ne"

var testRules = highlighting.Rules{
	highlighting.StartState: {
		{Regex: `\bif\b`, Token: "keyword"},
		{Regex: `[a-z]+`, Token: "identifier"},
	},
}

func TestNewDefaults(t *testing.T) {
	s, err := New("a\nb", nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, *NewSettings(), s.Settings)
	assert.Equal(t, "a\nb", s.Doc().Value())
	assert.Equal(t, 4, s.Mapper().TabSize())
	assert.False(t, s.Mapper().UseWrapMode())
	assert.Equal(t, highlighting.DefaultDelay, s.Tokenizer().Delay)
	assert.False(t, s.UndoManager().HasUndo())

	st := NewSettings()
	st.TabSize = 0
	_, err = New("", st)
	assert.Error(t, err)
}

func TestChangeOrder(t *testing.T) {
	s, err := New("ab", nil)
	require.NoError(t, err)
	var screenRows []int
	s.OnChange(func(dt *textpos.Delta) {
		screenRows = append(screenRows, s.Mapper().ScreenLength())
	})
	s.Doc().Insert(textpos.Pos{}, "x\n")
	s.Doc().Insert(textpos.Pos{Line: 1}, "y\n")
	assert.Equal(t, []int{2, 3}, screenRows)
	assert.Equal(t, textpos.Pos{Line: 2, Char: 1}, s.DocumentToScreen(textpos.Pos{Line: 2, Char: 1}))
}

func TestUndoGroups(t *testing.T) {
	s, err := New("ab", nil)
	require.NoError(t, err)
	doc := s.Doc()
	doc.Insert(textpos.Pos{Char: 1}, "x")
	doc.Insert(textpos.Pos{Char: 2}, "y")
	assert.False(t, s.UndoManager().HasUndo())
	s.FlushUndo()
	assert.True(t, s.UndoManager().HasUndo())
	assert.False(t, s.UndoManager().IsClean())

	ok, err := s.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ab", doc.Value())
	assert.True(t, s.UndoManager().IsClean())
	assert.True(t, s.UndoManager().HasRedo())
	s.FlushUndo()
	assert.False(t, s.UndoManager().HasUndo())

	ok, err = s.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "axyb", doc.Value())

	ok, err = s.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUndoScheduled(t *testing.T) {
	loop := sched.NewVirtualLoop(epoch)
	s, err := New("ab", nil, WithScheduler(loop), WithLexer(highlighting.MustRuleLexer(testRules)))
	require.NoError(t, err)
	doc := s.Doc()

	doc.Insert(textpos.Pos{Char: 1}, "x")
	loop.RunDue()
	assert.True(t, s.UndoManager().HasUndo())
	doc.Insert(textpos.Pos{Char: 2}, "y")
	loop.RunDue()

	_, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "axb", doc.Value())
	_, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "ab", doc.Value())

	doc.Insert(textpos.Pos{Char: 1}, "x")
	loop.RunDue()
	s.SetMergeUndo(true)
	doc.Insert(textpos.Pos{Char: 2}, "y")
	loop.RunDue()
	_, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "ab", doc.Value())
	assert.False(t, s.UndoManager().HasUndo())
}

func TestUndoRestoresFolds(t *testing.T) {
	s, err := New(testIndent, nil)
	require.NoError(t, err)
	_, err = s.AddFold("...", textpos.NewRegion(0, 2, 3, 3))
	require.NoError(t, err)
	assert.Equal(t, textpos.Pos{Line: 1}, s.DocumentToScreen(textpos.Pos{Line: 4}))

	s.Doc().Remove(textpos.NewRegion(0, 0, 4, 1))
	assert.Equal(t, "", s.Doc().Value())
	assert.Empty(t, s.Folds().AllFolds())

	_, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, testIndent, s.Doc().Value())
	fs := s.Folds().AllFolds()
	require.Len(t, fs, 1)
	assert.Equal(t, textpos.NewRegion(0, 2, 3, 3), fs[0].Region)
	assert.Equal(t, textpos.Pos{Line: 1}, s.DocumentToScreen(textpos.Pos{Line: 4}))
	assert.Equal(t, textpos.Pos{Line: 4}, s.ScreenToDocument(textpos.Pos{Line: 1}))

	_, err = s.Redo()
	require.NoError(t, err)
	assert.Empty(t, s.Folds().AllFolds())
	assert.True(t, s.UndoManager().HasUndo())
}

func TestFoldAll(t *testing.T) {
	s, err := New(testIndent, nil)
	require.NoError(t, err)
	added := s.FoldAll(0, 5, 1)
	require.Len(t, added, 1)
	assert.Equal(t, textpos.NewRegion(0, 2, 3, 3), added[0].Region)
	assert.Equal(t, 2, s.Mapper().ScreenLength())
	assert.Equal(t, textpos.Pos{Line: 4}, s.ScreenToDocument(textpos.Pos{Line: 1}))

	require.NoError(t, s.ExpandFold(added[0]))
	fs := s.Folds().AllFolds()
	require.Len(t, fs, 1)
	assert.Equal(t, textpos.NewRegion(1, 4, 2, 5), fs[0].Region)
	assert.Equal(t, 4, s.Mapper().ScreenLength())

	s.RemoveFold(fs[0])
	assert.Equal(t, 5, s.Mapper().ScreenLength())
}

func TestFoldAllLogsIntersecting(t *testing.T) {
	defer logx.SetUserLevel(slog.LevelInfo)
	st := NewSettings()
	st.LogLevel = slog.LevelDebug
	var buf bytes.Buffer
	s, err := New(testIndent, st, WithLogOutput(&buf))
	require.NoError(t, err)
	_, err = s.AddFold("...", textpos.NewRegion(2, 1, 4, 1))
	require.NoError(t, err)

	assert.Empty(t, s.FoldAll(0, 5, 1))
	assert.Contains(t, buf.String(), "session: fold all")
	assert.Contains(t, buf.String(), "fold intersects existing fold")
	require.Len(t, s.Folds().AllFolds(), 1)
	assert.Equal(t, textpos.NewRegion(2, 1, 4, 1), s.Folds().AllFolds()[0].Region)
}

func TestTokens(t *testing.T) {
	loop := sched.NewVirtualLoop(epoch)
	s, err := New("if x\nb:\n  c", nil, WithScheduler(loop), WithLexer(highlighting.MustRuleLexer(testRules)))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, []highlighting.Token{{Type: "keyword", Value: "if"}, {Type: "text", Value: " "}, {Type: "identifier", Value: "x"}}, s.Tokens(0))
	assert.Equal(t, highlighting.StartState, s.State(0))

	assert.Equal(t, "start", s.Folds().Widget(1).String())
	loop.Advance(highlighting.DefaultDelay)
	assert.Equal(t, 3, s.Tokenizer().CurrentLine())
	assert.Equal(t, "start", s.Folds().Widget(1).String())

	s.Doc().Insert(textpos.Pos{Line: 2}, "if ")
	loop.RunAll()
	assert.Equal(t, []highlighting.Token{{Type: "keyword", Value: "if"}, {Type: "text", Value: "   "}, {Type: "identifier", Value: "c"}}, s.Tokens(2))
}

func TestWrapSettings(t *testing.T) {
	st := NewSettings()
	st.Wrap = true
	st.WrapMax = -1
	st.PrintMargin = 10
	s, err := New(strings.Repeat("a", 25), st)
	require.NoError(t, err)
	assert.Equal(t, 10, s.Mapper().WrapLimit())
	assert.False(t, s.AdjustWrapLimit(40))
	assert.Equal(t, 3, s.Mapper().ScreenLength())

	s.SetUseWrapMode(false)
	assert.Equal(t, 1, s.Mapper().ScreenLength())
	assert.False(t, s.Settings.Wrap)

	s.SetTabSize(0)
	assert.Equal(t, 4, s.Mapper().TabSize())
	s.SetTabSize(2)
	assert.Equal(t, 2, s.Mapper().TabSize())
}
