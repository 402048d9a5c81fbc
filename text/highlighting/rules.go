// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import (
	"fmt"
	"sort"

	"github.com/dlclark/regexp2"

	"cogentcore.org/editcore/base/errors"
)

// TextToken is the token type for text that no rule matches.
const TextToken = "text"

// Rule is one rule of a [RuleLexer] state: text matching Regex at the
// current position becomes a token of type Token, and the lexer moves
// to state Next if it is not empty.
type Rule struct {

	// Regex is the regular expression, with JavaScript syntax
	// and semantics, including lookahead and lookbehind.
	Regex string

	// Token is the token type for the matched text.
	Token string

	// Next is the state to move to after a match, if set.
	Next string
}

// Rules maps lexer state names to the rules tried, in order,
// while in that state. It must have a [StartState] entry.
type Rules map[string][]Rule

type compiledRule struct {
	Rule
	re *regexp2.Regexp
}

// RuleLexer is a state-machine [Lexer] driven by regular expression
// rules. At each position the rules of the current state are tried in
// order, and the first one that matches there produces the next token.
// Adjacent tokens of the same type are merged.
type RuleLexer struct {
	states map[string][]compiledRule
}

// NewRuleLexer compiles the given rules into a [RuleLexer], returning
// all compile errors joined together.
func NewRuleLexer(rules Rules) (*RuleLexer, error) {
	if _, ok := rules[StartState]; !ok {
		return nil, fmt.Errorf("highlighting: rules have no %q state", StartState)
	}
	rl := &RuleLexer{states: make(map[string][]compiledRule, len(rules))}
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	var errs []error
	for _, name := range names {
		crs := make([]compiledRule, 0, len(rules[name]))
		for i, r := range rules[name] {
			if r.Next != "" {
				if _, ok := rules[r.Next]; !ok {
					errs = append(errs, fmt.Errorf("highlighting: state %q rule %d: unknown next state %q", name, i, r.Next))
					continue
				}
			}
			re, err := regexp2.Compile(`\G(?:`+r.Regex+`)`, regexp2.ECMAScript)
			if err != nil {
				errs = append(errs, fmt.Errorf("highlighting: state %q rule %d: %w", name, i, err))
				continue
			}
			crs = append(crs, compiledRule{Rule: r, re: re})
		}
		rl.states[name] = crs
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rl, nil
}

// MustRuleLexer is [NewRuleLexer] for static rules,
// panicking on error.
func MustRuleLexer(rules Rules) *RuleLexer {
	return errors.Must1(NewRuleLexer(rules))
}

// LineTokens implements [Lexer].
func (rl *RuleLexer) LineTokens(line, state string) ([]Token, string) {
	if _, ok := rl.states[state]; !ok {
		state = StartState
	}
	rs := []rune(line)
	var toks []Token
	pos := 0
	text := 0 // start of unmatched text
	lastEmpty := -1
	for pos < len(rs) {
		r, n := rl.match(state, rs, pos)
		if r == nil || (n == 0 && lastEmpty == pos) {
			pos++
			continue
		}
		toks = appendToken(toks, TextToken, string(rs[text:pos]))
		toks = appendToken(toks, r.Token, string(rs[pos:pos+n]))
		if n == 0 {
			lastEmpty = pos
		}
		pos += n
		text = pos
		if r.Next != "" {
			state = r.Next
		}
	}
	toks = appendToken(toks, TextToken, string(rs[text:]))
	return toks, state
}

// match returns the first rule of the state that matches at pos,
// and the length of the match in runes. Empty matches only count
// for rules that change the state.
func (rl *RuleLexer) match(state string, rs []rune, pos int) (*Rule, int) {
	crs := rl.states[state]
	for i := range crs {
		cr := &crs[i]
		// match errors only come from timeouts, which are not set
		m := errors.Ignore1(cr.re.FindRunesMatchStartingAt(rs, pos))
		if m == nil || m.Index != pos {
			continue
		}
		if m.Length == 0 && (cr.Next == "" || cr.Next == state) {
			continue
		}
		return &cr.Rule, m.Length
	}
	return nil, 0
}
