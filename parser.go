// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package packrat

import (
	"fmt"
	"sync/atomic"

	"go4.org/mem"
)

// A Parser is a recognizer for one grammar rule: a stable identity paired
// with a single state transform. Apply memoizes the transform per (parser,
// offset), which keeps parse time linear in the length of the input no
// matter how much backtracking the grammar induces.
//
// Identity is assigned at construction. Two structurally equal parsers are
// distinct recognizers with distinct memo entries.
type Parser struct {
	id  uint64
	run func(State) State
}

var nodeIDs atomic.Uint64

// New returns a parser wrapping the given transform. The transform receives
// a state whose Status is not Failed and must return a well-formed state; it
// may only return a Partial state when the input snapshot is not final.
func New(run func(State) State) *Parser {
	return &Parser{id: nodeIDs.Add(1), run: run}
}

// Apply runs p on st. A Failed input state is returned unchanged, so errors
// short-circuit composition. Otherwise Apply consults the memo table and
// either replays a reusable entry or invokes the transform and records the
// state it produced.
//
// Apply panics if it detects left recursion, the one grammar shape packrat
// memoization cannot resolve: a parser re-entered at the same offset before
// its first application there has produced a result.
func (p *Parser) Apply(st State) State {
	if st.Status == Failed {
		return st
	}
	m := st.memo
	if m == nil {
		return p.run(st)
	}
	if hit, ok := m.lookup(p.id, st.Pos); ok && reusable(hit, st) {
		// The cached offset, status, result and error stand; the snapshot and
		// table identity track the live call.
		hit.Input = st.Input
		hit.memo = m
		return hit
	}
	key := memoKey{id: p.id, pos: st.Pos}
	if m.active[key] {
		panic(fmt.Sprintf("packrat: left recursion detected at offset %d", st.Pos))
	}
	m.active[key] = true
	out := p.run(st)
	delete(m.active, key)
	m.store(p.id, st.Pos, out)
	return out
}

// reusable reports whether a cached entry may stand in for a live call at
// the same offset. A Complete entry depends only on input already seen,
// which never retracts, so it never expires. A Partial entry, or an
// end-of-input error over a non-final snapshot, depends on the tail of the
// visible input and expires when the snapshot changes. All other errors are
// stable.
func reusable(hit, cur State) bool {
	switch hit.Status {
	case Complete:
		return true
	case Partial:
		return hit.Input.same(cur.Input)
	default:
		if hit.Err.Kind == UnexpectedEOI && !hit.Input.done {
			return hit.Input.same(cur.Input)
		}
		return true
	}
}

// ParseString applies p to the whole of s and returns the terminal state.
// The snapshot is final from the outset, so the result is never Partial.
func (p *Parser) ParseString(s string) State {
	return p.Apply(newState(Input{text: mem.S(s), done: true}))
}
