// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sched provides deferred callbacks that always run on a single
// goroutine, used for cooperative background work such as incremental
// tokenization.
package sched

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running, returning false
	// if it already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay. All callbacks scheduled on
// one Scheduler run on the same goroutine, never concurrently with
// each other.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// Loop is a [Scheduler] whose callbacks run only when the owning
// goroutine calls [Loop.RunDue], [Loop.RunAll], [Loop.Advance] or
// [Loop.Run]. Callbacks can be scheduled from any goroutine.
//
// A virtual Loop (see [NewVirtualLoop]) has a clock that only moves
// through [Loop.Advance] and [Loop.RunAll], which makes timing
// deterministic in tests.
type Loop struct {
	mu      sync.Mutex
	queue   []*entry
	seq     uint64
	virtual bool
	now     time.Time
	wake    chan struct{}
}

type entry struct {
	loop *Loop
	when time.Time
	seq  uint64
	fun  func()
}

// NewLoop returns a Loop driven by the wall clock.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// NewVirtualLoop returns a Loop driven by a virtual clock
// starting at the given time.
func NewVirtualLoop(start time.Time) *Loop {
	return &Loop{virtual: true, now: start, wake: make(chan struct{}, 1)}
}

// Now returns the current time of the loop clock.
func (l *Loop) Now() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nowLocked()
}

func (l *Loop) nowLocked() time.Time {
	if l.virtual {
		return l.now
	}
	return time.Now()
}

// AfterFunc schedules f to run once d has elapsed on the loop clock.
// Callbacks with the same deadline run in the order they were scheduled.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	l.mu.Lock()
	l.seq++
	e := &entry{loop: l, when: l.nowLocked().Add(d), seq: l.seq, fun: f}
	i, _ := slices.BinarySearchFunc(l.queue, e, compareEntries)
	l.queue = slices.Insert(l.queue, i, e)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return e
}

// Post schedules f to run as soon as possible.
func (l *Loop) Post(f func()) Timer {
	return l.AfterFunc(0, f)
}

// Pending returns the number of callbacks waiting to run.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func compareEntries(a, b *entry) int {
	if c := a.when.Compare(b.when); c != 0 {
		return c
	}
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	}
	return 0
}

// Stop implements [Timer].
func (e *entry) Stop() bool {
	l := e.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.Index(l.queue, e)
	if i < 0 {
		return false
	}
	l.queue = slices.Delete(l.queue, i, i+1)
	return true
}

// next pops the first callback due at or before now, or returns nil.
func (l *Loop) next(now time.Time) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 || l.queue[0].when.After(now) {
		return nil
	}
	e := l.queue[0]
	l.queue = slices.Delete(l.queue, 0, 1)
	return e
}

// RunDue runs every callback that is due on the loop clock,
// including callbacks scheduled as already due while running.
// It returns the number of callbacks run.
func (l *Loop) RunDue() int {
	n := 0
	for {
		e := l.next(l.Now())
		if e == nil {
			return n
		}
		e.fun()
		n++
	}
}

// Advance moves a virtual clock forward by d, running callbacks
// in deadline order as their deadlines are reached. On a wall-clock
// loop it is equivalent to [Loop.RunDue].
func (l *Loop) Advance(d time.Duration) int {
	if !l.virtual {
		return l.RunDue()
	}
	l.mu.Lock()
	target := l.now.Add(d)
	l.mu.Unlock()
	n := 0
	for {
		e := l.next(target)
		if e == nil {
			break
		}
		l.mu.Lock()
		if e.when.After(l.now) {
			l.now = e.when
		}
		l.mu.Unlock()
		e.fun()
		n++
	}
	l.mu.Lock()
	l.now = target
	l.mu.Unlock()
	return n
}

// RunAll runs callbacks until none are pending, moving a virtual clock
// to each deadline in turn or waiting for it on a wall-clock loop.
// It returns the number of callbacks run.
func (l *Loop) RunAll() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return n
		}
		wait := l.queue[0].when.Sub(l.nowLocked())
		l.mu.Unlock()
		if wait > 0 {
			if l.virtual {
				n += l.Advance(wait)
				continue
			}
			time.Sleep(wait)
		}
		n += l.RunDue()
	}
}

// Run runs callbacks as they become due until ctx is done,
// returning the context error.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunDue()
		l.mu.Lock()
		var wait <-chan time.Time
		var tm *time.Timer
		if len(l.queue) > 0 && !l.virtual {
			tm = time.NewTimer(l.queue[0].when.Sub(time.Now()))
			wait = tm.C
		}
		l.mu.Unlock()
		select {
		case <-ctx.Done():
			if tm != nil {
				tm.Stop()
			}
			return ctx.Err()
		case <-l.wake:
		case <-wait:
		}
		if tm != nil {
			tm.Stop()
		}
	}
}
