// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jsonv parses JSON values using the packrat combinators.
//
// The grammar is assembled once from the primitives of the packrat package,
// with Lazy tying the recursion between values, arrays, and objects. Values
// decode as:
//
//	JSON type  | Go type
//	---------- | --------------
//	object     | map[string]any
//	array      | []any
//	number     | float64
//	string     | string
//	boolean    | bool
//	null       | nil
//
// The package exists as a working proof of the combinator core and keeps to
// plain decoded values; callers who need syntax trees, locations, or
// comment support should use a dedicated JSON library.
package jsonv

import (
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/packrat"
)

// ErrEmptyInput is reported when the input contains no JSON value.
var ErrEmptyInput = errors.New("empty input")

// document is the top-level grammar: one JSON value with surrounding
// whitespace, anchored at the true end of input.
var document = newGrammar()

// Parse parses s as a single JSON document.
func Parse(s string) (any, error) {
	return result(document.ParseString(s))
}

// ParseReader parses a single JSON document from the contents of r.
func ParseReader(r io.Reader) (any, error) {
	var last packrat.State
	for st := range document.ParseReader(r) {
		last = st
	}
	return result(last)
}

// ParseChunks parses a single JSON document arriving as a sequence of
// chunks, returning its value once the final chunk has been consumed.
func ParseChunks(chunks ...string) (any, error) {
	var last packrat.State
	for st := range document.ParseSeq(slices.Values(chunks)) {
		last = st
	}
	return result(last)
}

func result(st packrat.State) (any, error) {
	if st.Status == packrat.Failed {
		if strings.TrimSpace(st.Input.String()) == "" {
			return nil, ErrEmptyInput
		}
		return nil, st.Err
	}
	return st.Result, nil
}

// A member is an undecoded object member: a key and its value.
type member struct {
	key   string
	value any
}

func newGrammar() *packrat.Parser {
	ws := packrat.ZeroOrMore(packrat.CharFrom(packrat.Chars(" \t\r\n")))

	null := packrat.Map(packrat.Literal("null"), func(any) any { return nil })

	boolean := packrat.Map(
		packrat.OneOf(packrat.Literal("true"), packrat.Literal("false")),
		func(v any) any { return v.(string) == "true" })

	// N.B. This grammar deviates slightly from the JSON spec, which disallows
	// multi-digit integers with a leading zero (e.g., "013"). This grammar
	// accepts and ignores extra leading zeroes.
	digits := packrat.OneOrMore(packrat.CharFrom(packrat.Range('0', '9')))
	number := packrat.Map(packrat.SequenceOf(
		packrat.Optional(packrat.Literal("-")),
		digits,
		packrat.Optional(packrat.SequenceOf(packrat.Literal("."), digits)),
		packrat.Optional(packrat.SequenceOf(
			packrat.CharFrom(packrat.Chars("eE")),
			packrat.Optional(packrat.CharFrom(packrat.Chars("+-"))),
			digits,
		)),
	), func(v any) any {
		// The grammar admits only valid float syntax.
		f, _ := strconv.ParseFloat(text(v), 64)
		return f
	})

	hexDigit := packrat.CharFrom(
		packrat.Range('0', '9'), packrat.Range('a', 'f'), packrat.Range('A', 'F'))
	uEscape := packrat.Map(packrat.SequenceOf(
		packrat.Literal(`\u`), hexDigit, hexDigit, hexDigit, hexDigit,
	), func(v any) any {
		n, _ := strconv.ParseUint(text(v.([]any)[1:]), 16, 32)
		return string(rune(n))
	})
	simpleEscape := packrat.Map(packrat.SequenceOf(
		packrat.Literal(`\`), packrat.CharFrom(packrat.Chars(`"\/bfnrt`)),
	), func(v any) any {
		return escapeValue[v.([]any)[1].(string)]
	})
	strChar := packrat.OneOf(uEscape, simpleEscape,
		packrat.CharNotFrom(packrat.Chars(`"\`), packrat.Range(0, 0x1f)))
	stringLit := packrat.Map(packrat.SequenceOf(
		packrat.Literal(`"`), packrat.ZeroOrMore(strChar), packrat.Literal(`"`),
	), func(v any) any {
		return text(v.([]any)[1])
	})

	// value is resolved through a Lazy gate so that arrays and objects can
	// contain values of any kind, including themselves.
	var value *packrat.Parser
	valueRef := packrat.Lazy(func() *packrat.Parser { return value })

	comma := packrat.SequenceOf(ws, packrat.Literal(","), ws)

	array := packrat.Map(packrat.SequenceOf(
		packrat.Literal("["), ws, packrat.SepBy(valueRef, comma), ws, packrat.Literal("]"),
	), func(v any) any {
		return v.([]any)[2]
	})

	memberRule := packrat.Map(packrat.SequenceOf(
		stringLit, ws, packrat.Literal(":"), ws, valueRef,
	), func(v any) any {
		parts := v.([]any)
		return member{key: parts[0].(string), value: parts[4]}
	})
	object := packrat.Map(packrat.SequenceOf(
		packrat.Literal("{"), ws, packrat.SepBy(memberRule, comma), ws, packrat.Literal("}"),
	), func(v any) any {
		pairs := v.([]any)[2].([]any)
		out := make(map[string]any, len(pairs))
		for _, p := range pairs {
			m := p.(member)
			out[m.key] = m.value
		}
		return out
	})

	value = packrat.OneOf(object, array, stringLit, number, boolean, null)

	return packrat.Map(packrat.SequenceOf(ws, value, ws, packrat.EndOfInput()),
		func(v any) any { return v.([]any)[1] })
}

var escapeValue = map[string]string{
	`"`: `"`, `\`: `\`, `/`: `/`,
	"b": "\b", "f": "\f", "n": "\n", "r": "\r", "t": "\t",
}

// text flattens the nested slices of a raw parse result into the matched
// source text, skipping the nil slots of optional rules.
func text(v any) string {
	var sb strings.Builder
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			sb.WriteString(t)
		case []any:
			for _, e := range t {
				walk(e)
			}
		}
	}
	walk(v)
	return sb.String()
}
