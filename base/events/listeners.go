// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events provides ordered lists of typed listener functions,
// used by the text model components to notify each other of changes.
package events

// Handle identifies a listener added to [Listeners], for use in
// [Listeners.Remove].
type Handle int

// Listeners is a list of listener functions that all receive
// the same value of type T. Listeners are closure functions
// with all context captured. Unlike GUI event handlers, they are
// called in the order they were added, and every listener is always
// called: components rely on a fixed, documented notification order.
// The zero value is ready to use.
type Listeners[T any] struct {
	funcs []listener[T]
	last  Handle
}

type listener[T any] struct {
	handle Handle
	fun    func(T)
}

// Add adds the given function to the end of the list,
// returning a handle that can be passed to [Listeners.Remove].
func (ls *Listeners[T]) Add(fun func(T)) Handle {
	ls.last++
	ls.funcs = append(ls.funcs, listener[T]{handle: ls.last, fun: fun})
	return ls.last
}

// Remove removes the listener with the given handle,
// returning false if it was not found.
func (ls *Listeners[T]) Remove(h Handle) bool {
	for i, l := range ls.funcs {
		if l.handle == h {
			nf := make([]listener[T], 0, len(ls.funcs)-1)
			nf = append(nf, ls.funcs[:i]...)
			ls.funcs = append(nf, ls.funcs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of listeners.
func (ls *Listeners[T]) Len() int {
	return len(ls.funcs)
}

// Call calls all listeners with the given value, in order.
// Listeners added or removed during the call take effect
// for the next call.
func (ls *Listeners[T]) Call(v T) {
	funcs := ls.funcs
	for _, l := range funcs {
		l.fun(v)
	}
}
