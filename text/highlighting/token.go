// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package highlighting provides incremental, time-sliced tokenization
// of a document for syntax highlighting, with a state-machine lexer
// driven by regular expression rules and an adapter for chroma lexers.
package highlighting

// Trace can be set to true to log tokenization progress at debug level.
var Trace = false

// StartState is the lexer state at the start of the document, and
// the state assumed for a line whose preceding state is unknown.
const StartState = "start"

// Token is a typed span of a line. The values of the tokens of a line
// concatenate to the line text; no token crosses a line boundary.
type Token struct {
	Type  string
	Value string
}

// Lexer tokenizes one line at a time, given the state at the end of
// the previous line, and returns the tokens and the state at the end
// of the line. States are compared by value to detect when a change to
// one line affects the following lines.
type Lexer interface {
	LineTokens(line, state string) ([]Token, string)
}

// Source provides the lines to tokenize.
// [lines.Document] is a Source.
type Source interface {
	NumLines() int
	Line(ln int) string
}

// appendToken appends a token, merging it into the last token
// if that has the same type.
func appendToken(toks []Token, typ, value string) []Token {
	if value == "" {
		return toks
	}
	if n := len(toks); n > 0 && toks[n-1].Type == typ {
		toks[n-1].Value += value
		return toks
	}
	return append(toks, Token{Type: typ, Value: value})
}
