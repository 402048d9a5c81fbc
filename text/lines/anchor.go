// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lines

import (
	"cogentcore.org/editcore/base/events"
	"cogentcore.org/editcore/text/textpos"
)

// AnchorChange is sent to [Anchor] listeners when the anchor moves.
type AnchorChange struct {
	Old textpos.Pos
	New textpos.Pos
}

// Anchor is a position in a [Document] that moves with the text as the
// document is edited. The document does not own its anchors: an anchor
// stays attached until [Anchor.Detach] is called.
type Anchor struct {

	// Bias determines whether the anchor moves when text is
	// inserted exactly at it.
	Bias textpos.Bias

	doc       *Document
	pos       textpos.Pos
	handle    events.Handle
	attached  bool
	listeners events.Listeners[AnchorChange]
}

// NewAnchor returns a new anchor attached to the document
// at the given position, clipped to the document.
func (d *Document) NewAnchor(pos textpos.Pos) *Anchor {
	an := &Anchor{}
	an.Attach(d)
	an.pos = d.ClipPos(pos)
	return an
}

// Document returns the document the anchor belongs to.
func (an *Anchor) Document() *Document {
	return an.doc
}

// Pos returns the current position.
func (an *Anchor) Pos() textpos.Pos {
	return an.pos
}

// OnChange adds a listener function that is called when the anchor
// moves, returning a handle for [Anchor.Off].
func (an *Anchor) OnChange(fun func(ch AnchorChange)) events.Handle {
	return an.listeners.Add(fun)
}

// Off removes the listener with the given handle.
func (an *Anchor) Off(h events.Handle) {
	an.listeners.Remove(h)
}

// SetPos moves the anchor to the given position, clipped to the
// document, notifying listeners if it changed.
func (an *Anchor) SetPos(pos textpos.Pos) {
	if an.doc != nil {
		pos = an.doc.ClipPos(pos)
	}
	if pos == an.pos {
		return
	}
	old := an.pos
	an.pos = pos
	an.listeners.Call(AnchorChange{Old: old, New: pos})
}

// Attach attaches the anchor to the given document, detaching
// it from any previous document first.
func (an *Anchor) Attach(d *Document) {
	an.Detach()
	an.doc = d
	an.handle = d.OnChange(an.onChange)
	an.attached = true
}

// Detach stops the anchor from following changes to the document.
func (an *Anchor) Detach() {
	if !an.attached {
		return
	}
	an.doc.Off(an.handle)
	an.attached = false
}

// IsAttached returns true if the anchor is following document changes.
func (an *Anchor) IsAttached() bool {
	return an.attached
}

func (an *Anchor) onChange(dt *textpos.Delta) {
	st, ed := dt.Region.Start, dt.Region.End
	if st.Line == ed.Line && st.Line != an.pos.Line {
		return
	}
	an.SetPos(dt.AdjustPos(an.pos, an.Bias))
}
