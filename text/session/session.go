// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session ties a [lines.Document] to the models that follow
// its changes: the fold model, the screen mapper, the incremental
// tokenizer and the undo manager. Every change to the document is
// passed to each of them in a fixed order before any other listener
// sees it.
package session

import (
	"io"
	"log/slog"
	"time"

	"cogentcore.org/editcore/base/errors"
	"cogentcore.org/editcore/base/events"
	"cogentcore.org/editcore/base/logx"
	"cogentcore.org/editcore/base/sched"
	"cogentcore.org/editcore/text/folds"
	"cogentcore.org/editcore/text/highlighting"
	"cogentcore.org/editcore/text/layout"
	"cogentcore.org/editcore/text/lines"
	"cogentcore.org/editcore/text/textpos"
	"cogentcore.org/editcore/text/undo"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Option configures a [Session] in [New].
type Option func(s *Session)

// WithScheduler runs background tokenization and undo grouping
// on the given scheduler. Without one, tokens are computed on demand
// and edits are grouped until [Session.FlushUndo].
func WithScheduler(sc sched.Scheduler) Option {
	return func(s *Session) { s.sched = sc }
}

// WithLexer sets the lexer used by the tokenizer.
func WithLexer(lexer highlighting.Lexer) Option {
	return func(s *Session) { s.lexer = lexer }
}

// WithFilename sets the lexer from the language of the given file name,
// if one is known.
func WithFilename(filename string) Option {
	return func(s *Session) {
		if lx := highlighting.ChromaLexerForFile(filename); lx != nil {
			s.lexer = lx
		}
	}
}

// WithLogOutput writes the log messages of the session as text to w,
// filtered at the [logx.UserLevel]. The default is the [slog] default
// logger.
func WithLogOutput(w io.Writer) Option {
	return func(s *Session) { s.logger = slog.New(logx.NewHandler(w)) }
}

// WithWidgetProvider sets the provider of fold widgets.
// The default is [folds.IndentFolds].
func WithWidgetProvider(p folds.WidgetProvider) Option {
	return func(s *Session) { s.provider = p }
}

// Session is an editing session on one document.
// It is owned by a single goroutine, which must also run the
// callbacks of its scheduler.
type Session struct {

	// Settings are the settings the session was created with.
	// Use the Set methods to change them.
	Settings Settings

	doc       *lines.Document
	folds     *folds.Model
	mapper    *layout.Mapper
	tokenizer *highlighting.Tokenizer
	undo      *undo.Manager

	sched    sched.Scheduler
	lexer    highlighting.Lexer
	provider folds.WidgetProvider
	logger   *slog.Logger

	// pending are the changes not yet given to the undo manager.
	pending *undo.Group

	// mergeNext merges the pending group into the last one on flush.
	mergeNext bool

	// replaying is set while undo or redo is applying changes.
	replaying bool

	flushTimer sched.Timer
	docHandle  events.Handle
	tokHandle  events.Handle
	listeners  events.Listeners[*textpos.Delta]
}

// New returns a new session on a document holding the given text.
// Nil settings use the defaults. It returns an error if the settings
// are not valid. The log level of the settings becomes the
// [logx.UserLevel] of the process.
func New(text string, settings *Settings, opts ...Option) (*Session, error) {
	s := &Session{pending: &undo.Group{}}
	if settings == nil {
		s.Settings.Defaults()
	} else {
		s.Settings = *settings
	}
	if err := s.Settings.Validate(); err != nil {
		return nil, err
	}
	logx.SetUserLevel(s.Settings.LogLevel)
	for _, opt := range opts {
		opt(s)
	}
	if s.lexer == nil {
		s.lexer = highlighting.NewChromaLexer(lexers.Fallback)
	}
	if s.provider == nil {
		s.provider = folds.IndentFolds{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.doc = lines.New("")
	s.doc.SetNewlineMode(s.Settings.NewlineMode)
	s.doc.Insert(textpos.Pos{}, text)
	s.folds = folds.NewModel(s.doc)
	s.folds.SetWidgetProvider(s.provider)
	s.mapper = layout.NewMapper(s.doc, s.folds)
	s.tokenizer = highlighting.NewTokenizer(s.doc, s.lexer, s.sched)
	s.undo = &undo.Manager{}
	s.applySettings()

	s.docHandle = s.doc.OnChange(s.onChange)
	s.tokHandle = s.tokenizer.OnUpdate(func(up highlighting.Update) {
		s.folds.InvalidateWidgets(up.First, up.Last)
	})
	s.tokenizer.Start(0)
	return s, nil
}

func (s *Session) applySettings() {
	st := &s.Settings
	s.mapper.SetTabSize(st.TabSize)
	s.mapper.SetUseWrapMode(st.Wrap)
	s.mapper.SetWrapAsCode(st.WrapAsCode)
	s.mapper.SetWrapLimitRange(st.WrapMin, st.WrapMax)
	s.mapper.AdjustWrapLimit(st.PrintMargin, st.PrintMargin)
	s.tokenizer.Budget = time.Duration(st.TokenizeBudget)
	s.tokenizer.Delay = time.Duration(st.TokenizeDelay)
	s.tokenizer.Interval = time.Duration(st.TokenizeInterval)
}

// onChange passes a document change to each model in order.
func (s *Session) onChange(dt *textpos.Delta) {
	first := dt.Region.Start.Line
	last := first
	if dt.Action.IsInsert() {
		last = dt.Region.End.Line
	}
	s.mapper.UpdateOnChange(dt)
	removed := s.folds.UpdateOnChange(dt)
	s.mapper.RefreshRows(first, last)
	s.folds.UpdateWidgets(dt)
	if !s.replaying {
		s.pending.Add(dt, removed)
		s.scheduleFlush()
	}
	s.tokenizer.UpdateOnChange(dt)
	s.listeners.Call(dt)
}

// OnChange adds a listener that is called for every change to the
// document, after all of the models have been updated.
func (s *Session) OnChange(fun func(dt *textpos.Delta)) events.Handle {
	return s.listeners.Add(fun)
}

// Off removes the change listener with the given handle.
func (s *Session) Off(h events.Handle) {
	s.listeners.Remove(h)
}

// Close stops background work and detaches the models from the document.
func (s *Session) Close() {
	s.FlushUndo()
	s.doc.Off(s.docHandle)
	s.tokenizer.Off(s.tokHandle)
	s.tokenizer.Stop()
	s.mapper.Release()
}

// Doc returns the document.
func (s *Session) Doc() *lines.Document { return s.doc }

// Folds returns the fold model.
func (s *Session) Folds() *folds.Model { return s.folds }

// Mapper returns the mapper between document and screen positions.
func (s *Session) Mapper() *layout.Mapper { return s.mapper }

// Tokenizer returns the tokenizer.
func (s *Session) Tokenizer() *highlighting.Tokenizer { return s.tokenizer }

// UndoManager returns the undo manager.
func (s *Session) UndoManager() *undo.Manager { return s.undo }

// Tokens returns the tokens of the given line.
func (s *Session) Tokens(row int) []highlighting.Token {
	return s.tokenizer.Tokens(row)
}

// State returns the lexer state at the end of the given line.
func (s *Session) State(row int) string {
	return s.tokenizer.State(row)
}

// SetLexer sets the lexer and restarts tokenization.
func (s *Session) SetLexer(lexer highlighting.Lexer) {
	s.lexer = lexer
	s.tokenizer.SetLexer(lexer)
}

////////  Undo

// scheduleFlush gives the pending changes to the undo manager as
// soon as the current work on the scheduler is done.
func (s *Session) scheduleFlush() {
	if s.sched == nil || s.flushTimer != nil {
		return
	}
	s.flushTimer = s.sched.AfterFunc(0, func() {
		s.flushTimer = nil
		s.FlushUndo()
	})
}

// FlushUndo gives the pending changes to the undo manager as one group.
func (s *Session) FlushUndo() {
	if s.flushTimer != nil {
		s.flushTimer.Stop()
		s.flushTimer = nil
	}
	if s.pending.IsEmpty() {
		return
	}
	s.undo.Execute(s.pending, s.mergeNext)
	s.pending = &undo.Group{}
	s.mergeNext = false
}

// SetMergeUndo sets whether the next group of changes is merged
// into the last one on the undo stack, such as for typing.
func (s *Session) SetMergeUndo(merge bool) {
	s.mergeNext = merge
}

// replayer applies undo and redo to the session without recording them.
type replayer struct {
	s *Session
}

func (rp replayer) ApplyDelta(dt *textpos.Delta) error {
	return rp.s.doc.ApplyDelta(dt)
}

func (rp replayer) AddFolds(fs []*folds.Fold) error {
	var errs []error
	for _, f := range fs {
		if _, err := rp.s.folds.AddFoldValue(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Undo reverts the last group of changes, restoring the folds they
// removed. It returns false if there was nothing to undo.
func (s *Session) Undo() (bool, error) {
	s.FlushUndo()
	s.replaying = true
	defer func() { s.replaying = false }()
	g, err := s.undo.Undo(replayer{s})
	if err != nil {
		s.logger.Warn("session: undo", "err", err)
	}
	return g != nil, err
}

// Redo reapplies the last undone group of changes.
// It returns false if there was nothing to redo.
func (s *Session) Redo() (bool, error) {
	s.FlushUndo()
	s.replaying = true
	defer func() { s.replaying = false }()
	g, err := s.undo.Redo(replayer{s})
	if err != nil {
		s.logger.Warn("session: redo", "err", err)
	}
	return g != nil, err
}

////////  Folds

// AddFold folds the given region, shown as the placeholder.
func (s *Session) AddFold(placeholder string, reg textpos.Region) (*folds.Fold, error) {
	return s.folds.AddFold(placeholder, reg)
}

// RemoveFold removes the given fold.
func (s *Session) RemoveFold(f *folds.Fold) {
	s.folds.RemoveFold(f)
}

// ExpandFold removes the given fold, restoring its sub-folds.
func (s *Session) ExpandFold(f *folds.Fold) error {
	return s.folds.ExpandFold(f)
}

// FoldAll folds every foldable region between the given lines.
// Regions that cannot be folded are logged at the debug level.
func (s *Session) FoldAll(start, end, depth int) []*folds.Fold {
	fs, err := s.folds.FoldAll(start, end, depth)
	if err != nil {
		s.logger.Debug("session: fold all", "start", start, "end", end, "err", err)
	}
	return fs
}

////////  Layout

// DocumentToScreen returns the screen position of the given
// document position.
func (s *Session) DocumentToScreen(pos textpos.Pos) textpos.Pos {
	return s.mapper.DocumentToScreen(pos)
}

// ScreenToDocument returns the document position shown at the
// given screen position.
func (s *Session) ScreenToDocument(spos textpos.Pos) textpos.Pos {
	return s.mapper.ScreenToDocument(spos)
}

// SetTabSize sets the tab size, ignoring sizes less than 1.
func (s *Session) SetTabSize(n int) {
	if n < 1 {
		return
	}
	s.Settings.TabSize = n
	s.mapper.SetTabSize(n)
}

// SetUseWrapMode sets whether lines are soft wrapped.
func (s *Session) SetUseWrapMode(on bool) {
	s.Settings.Wrap = on
	s.mapper.SetUseWrapMode(on)
}

// AdjustWrapLimit sets the wrap limit for the given available number
// of screen columns, returning whether it changed.
func (s *Session) AdjustWrapLimit(desired int) bool {
	return s.mapper.AdjustWrapLimit(desired, s.Settings.PrintMargin)
}
