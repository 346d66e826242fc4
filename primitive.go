// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package packrat

import (
	"fmt"
	"strings"

	"go4.org/mem"
)

// Literal returns a parser matching the exact character sequence text.
// Its result is text. Over a growing stream, a proper prefix of text at the
// end of the visible input yields a Partial state carrying the prefix.
func Literal(text string) *Parser {
	return New(func(st State) State {
		rest := st.rest()
		if rest.Len() == 0 {
			return st.fail(UnexpectedEOI, "unexpected end of input, want %q", text)
		}
		if !st.Input.done && rest.Len() < len(text) && mem.HasPrefix(mem.S(text), rest) {
			return st.suspend(rest.StringCopy(), rest.Len())
		}
		if mem.HasPrefix(rest, mem.S(text)) {
			return st.succeed(text, len(text))
		}
		return st.fail(Mismatch, "want %q", text)
	})
}

// AnyChar returns the parser that consumes a single character of input and
// yields it as its result.
func AnyChar() *Parser { return anyChar }

var anyChar = New(func(st State) State {
	if st.Pos >= st.Input.Len() {
		return st.fail(UnexpectedEOI, "unexpected end of input")
	}
	return st.succeed(charString(st.Input.At(st.Pos)), 1)
})

// A CharSpec selects single characters for CharFrom and CharNotFrom.
type CharSpec interface {
	match(c byte) bool
	describe() string
}

// Chars returns a CharSpec matching any single character of s.
func Chars(s string) CharSpec { return charsSpec(s) }

type charsSpec string

func (s charsSpec) match(c byte) bool { return strings.IndexByte(string(s), c) >= 0 }
func (s charsSpec) describe() string  { return fmt.Sprintf("one of %q", string(s)) }

// Range returns a CharSpec matching the inclusive character-code range
// lo..hi. Bounds given in the wrong order are swapped.
func Range(lo, hi byte) CharSpec {
	if lo > hi {
		lo, hi = hi, lo
	}
	return rangeSpec{lo: lo, hi: hi}
}

type rangeSpec struct{ lo, hi byte }

func (r rangeSpec) match(c byte) bool { return r.lo <= c && c <= r.hi }
func (r rangeSpec) describe() string  { return fmt.Sprintf("%q..%q", r.lo, r.hi) }

// CharFrom returns a parser consuming one character that matches any of
// specs. Its result is the matched character.
func CharFrom(specs ...CharSpec) *Parser {
	return New(func(st State) State {
		if st.Pos >= st.Input.Len() {
			return st.fail(UnexpectedEOI, "unexpected end of input, want %s", specLabel(specs))
		}
		c := st.Input.At(st.Pos)
		for _, s := range specs {
			if s.match(c) {
				return st.succeed(charString(c), 1)
			}
		}
		return st.fail(Mismatch, "got %q, want %s", c, specLabel(specs))
	})
}

// CharNotFrom returns a parser consuming one character that matches none of
// specs. Its result is the matched character.
func CharNotFrom(specs ...CharSpec) *Parser {
	return New(func(st State) State {
		if st.Pos >= st.Input.Len() {
			return st.fail(UnexpectedEOI, "unexpected end of input")
		}
		c := st.Input.At(st.Pos)
		for _, s := range specs {
			if s.match(c) {
				return st.fail(Mismatch, "unexpected %q", c)
			}
		}
		return st.succeed(charString(c), 1)
	})
}

// EndOfInput returns the parser that succeeds, with a nil result, only at
// the true end of the whole input. Over a non-final snapshot whose
// characters are exhausted it asks for more input, since a later chunk may
// still arrive.
func EndOfInput() *Parser { return endOfInput }

var endOfInput = New(func(st State) State {
	if st.Pos < st.Input.Len() {
		return st.fail(Mismatch, "expected end of input")
	}
	if !st.Input.done {
		return st.fail(UnexpectedEOI, "end of visible input")
	}
	return st.succeed(nil, 0)
})

func charString(c byte) string { return string([]byte{c}) }

func specLabel(specs []CharSpec) string {
	ss := make([]string, len(specs))
	for i, s := range specs {
		ss[i] = s.describe()
	}
	return strings.Join(ss, " or ")
}
