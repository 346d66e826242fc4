// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package packrat

import (
	"fmt"

	"go4.org/mem"
)

// Status is the three-valued verdict of a parser state.
type Status int8

// Constants defining the valid Status values.
const (
	Complete Status = iota // the parser committed to a result
	Partial                // progress was made, more input is needed
	Failed                 // the parser reported an error
)

var statusStr = [...]string{
	Complete: "complete",
	Partial:  "partial",
	Failed:   "failed",
}

func (s Status) String() string {
	v := int(s)
	if v < 0 || v >= len(statusStr) {
		return "invalid status"
	}
	return statusStr[v]
}

// An Input is a snapshot of the text visible to a parse: the prefix of the
// input received so far, and whether more may still arrive. In whole-string
// mode the snapshot is final from the outset.
type Input struct {
	text mem.RO
	done bool
}

// Len reports the number of bytes visible in the snapshot.
func (in Input) Len() int { return in.text.Len() }

// At returns the byte at offset i. It panics if i is out of range.
func (in Input) At(i int) byte { return in.text.At(i) }

// Done reports whether the snapshot is final, that is, no further input
// will ever arrive.
func (in Input) Done() bool { return in.done }

// String returns a copy of the visible prefix.
func (in Input) String() string { return in.text.StringCopy() }

// same reports whether two snapshots of one parse are identical. Snapshots
// only ever grow by appending, so equal length implies equal contents.
func (in Input) same(other Input) bool {
	return in.done == other.done && in.text.Len() == other.text.Len()
}

// A State is the immutable value threaded through every parser transform.
// States are copied by value; the only shared mutable resource is the memo
// table, which is owned by the top-level parse and never escapes it.
type State struct {
	Input  Input  // the visible input snapshot
	Pos    int    // offset of the next byte to examine
	Status Status // verdict of the most recent transform
	Result any    // value of the most recent successful transform
	Err    *ParseError

	memo *memo
}

func newState(in Input) State { return State{Input: in, memo: newMemo()} }

// rest returns the unconsumed tail of the visible input.
func (st State) rest() mem.RO { return st.Input.text.SliceFrom(st.Pos) }

// NeedMore reports whether st carries an end-of-input error raised against a
// non-final snapshot. Such a state is a request for more input, not a
// grammar failure; combinators must treat it separately from other errors.
func (st State) NeedMore() bool {
	return st.Status == Failed && st.Err.Kind == UnexpectedEOI && !st.Input.done
}

// Terminal reports whether st is a final verdict: a completed parse, or an
// error that more input cannot repair.
func (st State) Terminal() bool {
	return st.Status == Complete || (st.Status == Failed && !st.NeedMore())
}

// succeed returns a Complete copy of st advanced n bytes with result v.
func (st State) succeed(v any, n int) State {
	st.Pos += n
	st.Status = Complete
	st.Result = v
	st.Err = nil
	return st
}

// suspend returns a Partial copy of st advanced n bytes carrying the
// provisional result v. The caller must ensure the snapshot is not final.
func (st State) suspend(v any, n int) State {
	st.Pos += n
	st.Status = Partial
	st.Result = v
	st.Err = nil
	return st
}

// fail returns a Failed copy of st with an error of the given kind at the
// current offset.
func (st State) fail(kind ErrorKind, msg string, args ...any) State {
	st.Status = Failed
	st.Result = nil
	st.Err = &ParseError{Kind: kind, Pos: st.Pos, Message: fmt.Sprintf(msg, args...)}
	return st
}

// A memo is the packrat table shared by all nested transforms of a single
// top-level parse: parser identity → offset → the state produced there.
// Entries are added, never removed; the table is discarded with the parse.
type memo struct {
	states map[uint64]map[int]State
	active map[memoKey]bool // transforms currently on the call stack
}

type memoKey struct {
	id  uint64
	pos int
}

func newMemo() *memo {
	return &memo{
		states: make(map[uint64]map[int]State),
		active: make(map[memoKey]bool),
	}
}

func (m *memo) lookup(id uint64, pos int) (State, bool) {
	st, ok := m.states[id][pos]
	return st, ok
}

func (m *memo) store(id uint64, pos int, st State) {
	inner, ok := m.states[id]
	if !ok {
		inner = make(map[int]State)
		m.states[id] = inner
	}
	inner[pos] = st
}
