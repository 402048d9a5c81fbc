// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the user log level and the structured
// log handlers filtered by it.
package logx

import (
	"io"
	"log/slog"
)

// UserLevel is the verbosity [slog.Level] that the user has selected
// for what logging and printing messages should be shown. Messages at
// levels at or above this level will be shown. It should typically be
// set through [SetUserLevel].
var UserLevel = defaultUserLevel

var defaultUserLevel = slog.LevelInfo

// levelVar backs the handlers so that the level can be
// changed after they are made.
var levelVar slog.LevelVar

// SetUserLevel sets [UserLevel] and updates the level of the
// handlers made by [NewHandler].
func SetUserLevel(level slog.Level) {
	UserLevel = level
	levelVar.Set(level)
}

// NewHandler returns a text handler writing to w,
// filtered at the current [UserLevel].
func NewHandler(w io.Writer) slog.Handler {
	levelVar.Set(UserLevel)
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: &levelVar})
}
