// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import (
	"log/slog"
	"time"

	"cogentcore.org/editcore/base/events"
	"cogentcore.org/editcore/base/sched"
	"cogentcore.org/editcore/base/slicesx"
	"cogentcore.org/editcore/text/textpos"
)

// Default timing of background tokenization.
const (
	DefaultBudget   = 20 * time.Millisecond
	DefaultDelay    = 700 * time.Millisecond
	DefaultInterval = 20 * time.Millisecond
)

// rowsPerCheck is how many rows are tokenized between budget checks.
const rowsPerCheck = 5

// Update is sent to [Tokenizer] listeners when a run of lines
// has been tokenized, from First to Last inclusive.
type Update struct {
	First int
	Last  int
}

// row is the cached tokenization of one line.
// Either part can be a hole that needs to be recomputed.
type row struct {
	tokens    []Token
	state     string
	hasTokens bool
	hasState  bool
}

// Tokenizer caches the tokens and end-of-line lexer state of each line
// of a [Source], tokenizing in the background in bounded time slices.
// All lines before [Tokenizer.CurrentLine] are consistent with the
// source. It must be told about every change with
// [Tokenizer.UpdateOnChange].
//
// The background work runs on a [sched.Scheduler]; with a nil
// scheduler nothing runs in the background and lines are tokenized on
// demand or through [Tokenizer.Step].
type Tokenizer struct {

	// Budget is the maximum time one slice of background work
	// should take.
	Budget time.Duration

	// Delay is the time after [Tokenizer.Start] or a change
	// before background work begins.
	Delay time.Duration

	// Interval is the time between slices of background work.
	Interval time.Duration

	src         Source
	lexer       Lexer
	sched       sched.Scheduler
	rows        []row
	currentLine int
	timer       sched.Timer
	listeners   events.Listeners[Update]
}

// NewTokenizer returns a new Tokenizer for the given source and lexer,
// running background work on the given scheduler, which can be nil.
func NewTokenizer(src Source, lexer Lexer, sc sched.Scheduler) *Tokenizer {
	return &Tokenizer{
		Budget:   DefaultBudget,
		Delay:    DefaultDelay,
		Interval: DefaultInterval,
		src:      src,
		lexer:    lexer,
		sched:    sc,
	}
}

// OnUpdate adds a listener that is called when a run of lines has
// been tokenized in the background.
func (tk *Tokenizer) OnUpdate(fun func(up Update)) events.Handle {
	return tk.listeners.Add(fun)
}

// Off removes the update listener with the given handle.
func (tk *Tokenizer) Off(h events.Handle) {
	tk.listeners.Remove(h)
}

// CurrentLine returns the line up to which the cache is known
// to be consistent.
func (tk *Tokenizer) CurrentLine() int {
	return tk.currentLine
}

// SetLexer sets the lexer, discarding all cached tokens and starting
// over from the first line.
func (tk *Tokenizer) SetLexer(lexer Lexer) {
	tk.lexer = lexer
	tk.rows = nil
	tk.currentLine = 0
	tk.Start(0)
}

// IsRunning returns true if background work is scheduled.
func (tk *Tokenizer) IsRunning() bool {
	return tk.timer != nil
}

// Start discards the cache from the given line onward and schedules
// background tokenization to begin after [Tokenizer.Delay].
func (tk *Tokenizer) Start(ln int) {
	tk.currentLine = max(min(ln, tk.currentLine, tk.src.NumLines()), 0)
	if tk.currentLine < len(tk.rows) {
		tk.rows = tk.rows[:tk.currentLine]
	}
	tk.Stop()
	tk.schedule(tk.Delay)
}

// scheduleStart schedules background work if it is not already pending.
func (tk *Tokenizer) scheduleStart() {
	if tk.timer == nil {
		tk.schedule(tk.Delay)
	}
}

func (tk *Tokenizer) schedule(d time.Duration) {
	if tk.sched == nil {
		return
	}
	tk.timer = tk.sched.AfterFunc(d, tk.worker)
}

// Stop cancels pending background work.
// Lines already tokenized stay valid.
func (tk *Tokenizer) Stop() {
	if tk.timer != nil {
		tk.timer.Stop()
		tk.timer = nil
	}
}

func (tk *Tokenizer) worker() {
	tk.timer = nil
	if tk.Step(tk.Budget) {
		tk.schedule(tk.Interval)
	}
}

func (tk *Tokenizer) now() time.Time {
	if tk.sched != nil {
		return tk.sched.Now()
	}
	return time.Now()
}

// hasTokens returns whether line ln has cached tokens.
func (tk *Tokenizer) hasTokens(ln int) bool {
	return ln >= 0 && ln < len(tk.rows) && tk.rows[ln].hasTokens
}

// ensureRows grows the cache to hold at least n rows.
func (tk *Tokenizer) ensureRows(n int) {
	if n > len(tk.rows) {
		tk.rows = slicesx.SetLength(tk.rows, n)
	}
}

// Step performs one slice of tokenization, starting from the current
// line and skipping lines that are already tokenized, checking every
// few lines whether the budget is used up. It sends an [Update] for
// the lines it covered, and returns true if more work remains.
func (tk *Tokenizer) Step(budget time.Duration) bool {
	start := tk.now()
	cl := tk.currentLine
	first := cl
	last := -1
	for tk.hasTokens(cl) {
		cl++
	}
	n := tk.src.NumLines()
	processed := 0
	more := false
	for cl < n {
		tk.tokenizeRow(cl)
		last = cl
		cl++
		for tk.hasTokens(cl) {
			cl++
		}
		processed++
		if processed%rowsPerCheck == 0 && tk.now().Sub(start) > budget {
			more = cl < n
			break
		}
	}
	tk.currentLine = cl
	if last == -1 {
		last = cl
	}
	if first <= last {
		if Trace {
			slog.Debug("highlighting: tokenized", "first", first, "last", last, "more", more)
		}
		tk.listeners.Call(Update{First: first, Last: last})
	}
	return more
}

// tokenizeRow tokenizes line ln from the state at the end of the
// line before it. If the end state changed, the following line's
// tokens become a hole and the current line is moved back to it.
func (tk *Tokenizer) tokenizeRow(ln int) []Token {
	prior := StartState
	if ln > 0 && ln-1 < len(tk.rows) && tk.rows[ln-1].hasState {
		prior = tk.rows[ln-1].state
	}
	toks, state := tk.lexer.LineTokens(tk.src.Line(ln), prior)
	tk.ensureRows(ln + 1)
	r := &tk.rows[ln]
	if !r.hasState || r.state != state {
		r.state = state
		r.hasState = true
		if ln+1 < len(tk.rows) {
			tk.rows[ln+1].tokens = nil
			tk.rows[ln+1].hasTokens = false
		}
		if tk.currentLine > ln+1 {
			tk.currentLine = ln + 1
		}
	} else if tk.currentLine == ln {
		tk.currentLine = ln + 1
	}
	r.tokens = toks
	r.hasTokens = true
	return toks
}

// Tokens returns the tokens of the given line, tokenizing it now
// if it is not cached. It returns nil for lines out of range.
func (tk *Tokenizer) Tokens(ln int) []Token {
	if ln < 0 || ln >= tk.src.NumLines() {
		return nil
	}
	if tk.hasTokens(ln) {
		return tk.rows[ln].tokens
	}
	return tk.tokenizeRow(ln)
}

// State returns the lexer state at the end of the given line,
// tokenizing it first if it is the current line, and [StartState]
// if it is not known.
func (tk *Tokenizer) State(ln int) string {
	if ln < 0 || ln >= tk.src.NumLines() {
		return StartState
	}
	if tk.currentLine == ln {
		tk.tokenizeRow(ln)
	}
	if ln < len(tk.rows) && tk.rows[ln].hasState {
		return tk.rows[ln].state
	}
	return StartState
}

// UpdateOnChange updates the cache for the given change, which has
// already been applied to the source: edited lines become holes,
// the current line moves back to the first changed line, and
// background work is rescheduled.
func (tk *Tokenizer) UpdateOnChange(dt *textpos.Delta) {
	st := dt.Region.Start.Line
	n := dt.NumLines()
	switch {
	case n == 0:
		if st < len(tk.rows) {
			tk.rows[st].tokens = nil
			tk.rows[st].hasTokens = false
		}
	case !dt.Action.IsInsert():
		if st < len(tk.rows) {
			tk.rows = slicesx.SpliceFill(tk.rows, st, n+1, 1, row{})
		}
	default:
		if st < len(tk.rows) {
			tk.rows = slicesx.SpliceFill(tk.rows, st, 1, n+1, row{})
		}
	}
	tk.currentLine = max(min(st, tk.currentLine, tk.src.NumLines()), 0)
	tk.Stop()
	tk.scheduleStart()
}
