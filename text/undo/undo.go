// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package undo provides the undo [Manager] for a document and its folds.
package undo

import (
	"log/slog"

	"cogentcore.org/editcore/base/errors"
	"cogentcore.org/editcore/text/folds"
	"cogentcore.org/editcore/text/textpos"
)

// Trace enables debug logging of undo actions.
var Trace = false

// FoldDelta records the folds that were removed by one delta of a [Group].
type FoldDelta struct {

	// Index is the index of the delta in the group that removed the folds.
	Index int

	// Folds are the removed folds, in the coordinates before the delta.
	Folds []*folds.Fold
}

// Group is one undo step: the deltas of one or more edits, in the order
// they were applied, and the folds that they removed.
type Group struct {
	Deltas []*textpos.Delta
	Folds  []FoldDelta
}

// IsEmpty returns true if the group has no deltas.
func (g *Group) IsEmpty() bool {
	return g == nil || len(g.Deltas) == 0
}

// Add adds the given delta to the group, with the folds it removed.
func (g *Group) Add(dt *textpos.Delta, removed []*folds.Fold) {
	if len(removed) > 0 {
		g.Folds = append(g.Folds, FoldDelta{Index: len(g.Deltas), Folds: removed})
	}
	g.Deltas = append(g.Deltas, dt)
}

// merge appends the deltas and folds of the other group.
func (g *Group) merge(o *Group) {
	off := len(g.Deltas)
	g.Deltas = append(g.Deltas, o.Deltas...)
	for _, fd := range o.Folds {
		fd.Index += off
		g.Folds = append(g.Folds, fd)
	}
}

// Replayer applies deltas and folds when undoing and redoing.
// The changes it makes must not be recorded as new undo groups.
type Replayer interface {

	// ApplyDelta applies the given delta to the document.
	ApplyDelta(dt *textpos.Delta) error

	// AddFolds adds the given folds, in document coordinates.
	AddFolds(fs []*folds.Fold) error
}

// Manager is the undo manager, with a stack of groups to undo and a
// stack of undone groups to redo. It counts the steps away from the
// clean state marked with [Manager.MarkClean], such as the saved file.
type Manager struct {
	undo  []*Group
	redo  []*Group
	dirty int

	// lost is set when the clean state can no longer be reached.
	lost bool
}

// Execute adds the given group as the next one to undo and clears the
// redo stack. With merge, the group is merged into the last group
// instead, so that they are undone together.
func (um *Manager) Execute(g *Group, merge bool) {
	if g.IsEmpty() {
		return
	}
	if merge && len(um.undo) > 0 {
		um.dirty--
		top := um.undo[len(um.undo)-1]
		top.merge(g)
		g = top
		um.undo = um.undo[:len(um.undo)-1]
	}
	um.undo = append(um.undo, g)
	um.redo = nil
	if um.dirty < 0 {
		um.lost = true
	}
	um.dirty++
	if Trace {
		slog.Debug("undo: execute", "deltas", len(g.Deltas), "merge", merge, "dirty", um.dirty, "lost", um.lost)
	}
}

// Undo reverts the last group through the given replayer, in reverse
// order, re-adding the folds removed by each delta once it is reverted.
// It returns the undone group, or nil if there is none.
func (um *Manager) Undo(rp Replayer) (*Group, error) {
	if len(um.undo) == 0 {
		return nil, nil
	}
	g := um.undo[len(um.undo)-1]
	um.undo = um.undo[:len(um.undo)-1]
	var errs []error
	for i := len(g.Deltas) - 1; i >= 0; i-- {
		errs = append(errs, rp.ApplyDelta(g.Deltas[i].Invert()))
		for _, fd := range g.Folds {
			if fd.Index != i {
				continue
			}
			fs := make([]*folds.Fold, len(fd.Folds))
			for j, f := range fd.Folds {
				fs[j] = f.Clone()
			}
			errs = append(errs, rp.AddFolds(fs))
		}
	}
	um.redo = append(um.redo, g)
	um.dirty--
	if Trace {
		slog.Debug("undo: undo", "deltas", len(g.Deltas), "dirty", um.dirty)
	}
	return g, errors.Join(errs...)
}

// Redo reapplies the last undone group through the given replayer.
// It returns the redone group, or nil if there is none.
func (um *Manager) Redo(rp Replayer) (*Group, error) {
	if len(um.redo) == 0 {
		return nil, nil
	}
	g := um.redo[len(um.redo)-1]
	um.redo = um.redo[:len(um.redo)-1]
	var errs []error
	for _, dt := range g.Deltas {
		errs = append(errs, rp.ApplyDelta(dt))
	}
	um.undo = append(um.undo, g)
	um.dirty++
	if Trace {
		slog.Debug("undo: redo", "deltas", len(g.Deltas), "dirty", um.dirty)
	}
	return g, errors.Join(errs...)
}

// HasUndo returns true if there is a group to undo.
func (um *Manager) HasUndo() bool { return len(um.undo) > 0 }

// HasRedo returns true if there is a group to redo.
func (um *Manager) HasRedo() bool { return len(um.redo) > 0 }

// MarkClean marks the current state as the clean state.
func (um *Manager) MarkClean() {
	um.dirty = 0
	um.lost = false
}

// IsClean returns true if the current state is the clean state.
func (um *Manager) IsClean() bool {
	return !um.lost && um.dirty == 0
}

// Dirty returns the number of steps from the clean state, which is
// negative after undoing past it. It returns false when the clean
// state is unreachable, after an edit following such an undo.
func (um *Manager) Dirty() (int, bool) {
	return um.dirty, !um.lost
}

// Reset clears both stacks and marks the current state as clean.
func (um *Manager) Reset() {
	um.undo = nil
	um.redo = nil
	um.MarkClean()
}
