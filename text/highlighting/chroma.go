// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"cogentcore.org/editcore/base/errors"
)

// ChromaLexer is a [Lexer] that uses a chroma lexer to tokenize each
// line independently. Chroma does not expose its state at the end of a
// line, so the state passed in is returned unchanged, and constructs
// that span lines (such as block comments) are only recognized within
// a single line. Token types are chroma token type names, such as
// "Keyword" or "NameFunction".
type ChromaLexer struct {
	lexer chroma.Lexer
}

// NewChromaLexer returns a [ChromaLexer] for the given chroma lexer.
func NewChromaLexer(lexer chroma.Lexer) *ChromaLexer {
	return &ChromaLexer{lexer: chroma.Coalesce(lexer)}
}

// ChromaLexerForFile returns a [ChromaLexer] for the language of the
// given file name, or nil if chroma has no lexer for it.
func ChromaLexerForFile(filename string) *ChromaLexer {
	lx := lexers.Match(filename)
	if lx == nil {
		return nil
	}
	return NewChromaLexer(lx)
}

// ChromaLexerByName returns a [ChromaLexer] for the language with the
// given name or alias, or nil if chroma has no lexer for it.
func ChromaLexerByName(name string) *ChromaLexer {
	lx := lexers.Get(name)
	if lx == nil {
		return nil
	}
	return NewChromaLexer(lx)
}

// Name returns the name of the chroma language.
func (cl *ChromaLexer) Name() string {
	return cl.lexer.Config().Name
}

// LineTokens implements [Lexer].
func (cl *ChromaLexer) LineTokens(line, state string) ([]Token, string) {
	if line == "" {
		return nil, state
	}
	iterator := errors.Log1(cl.lexer.Tokenise(nil, line+"\n"))
	if iterator == nil {
		return []Token{{Type: TextToken, Value: line}}, state
	}
	var toks []Token
	n := 0
	for _, tok := range iterator.Tokens() {
		val := strings.TrimSuffix(tok.Value, "\n")
		if val == "" {
			continue
		}
		if n+len(val) > len(line) {
			val = val[:len(line)-n]
		}
		toks = appendToken(toks, tok.Type.String(), val)
		n += len(val)
		if n >= len(line) {
			break
		}
	}
	if n < len(line) {
		toks = appendToken(toks, TextToken, line[n:])
	}
	return toks, state
}
