// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package packrat

import "fmt"

// An ErrorKind classifies the failure recorded in a ParseError.
// The set of kinds is closed.
type ErrorKind int8

// Constants defining the valid ErrorKind values.
const (
	// UnexpectedEOI means the parser needed more characters than the visible
	// input provides. Over a snapshot that is not yet final this is a control
	// signal requesting more input, not a grammar error; see State.NeedMore.
	UnexpectedEOI ErrorKind = 1 + iota

	// Mismatch means a recognizer saw characters that did not satisfy it.
	Mismatch

	// EmptyRepetition means a one-or-more repetition matched zero times.
	EmptyRepetition

	// NegativeLookahead means a not-followed-by predicate saw its forbidden
	// parser succeed.
	NegativeLookahead
)

var kindStr = [...]string{
	UnexpectedEOI:     "unexpected end of input",
	Mismatch:          "mismatch",
	EmptyRepetition:   "empty repetition",
	NegativeLookahead: "negative lookahead violation",
}

func (k ErrorKind) String() string {
	v := int(k)
	if v < 1 || v >= len(kindStr) {
		return "invalid error kind"
	}
	return kindStr[v]
}

// A ParseError describes why a parse failed. It is carried by a Failed
// state and reported at the API boundary as an ordinary error.
type ParseError struct {
	Kind    ErrorKind // what class of failure occurred
	Pos     int       // the byte offset at which it was raised
	Message string
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Message)
}
