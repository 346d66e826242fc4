// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package packrat

import (
	"context"
	"io"
	"iter"

	"go4.org/mem"
)

// readerChunkSize is the chunk granularity of ParseReader.
const readerChunkSize = 4096

// A driver feeds a growing input into a parser and decides which of the
// resulting states are observable. It owns the accumulation buffer and the
// memo table for the whole run; both are released with the driver.
type driver struct {
	p    *Parser
	buf  []byte
	m    *memo
	last State
}

func newDriver(p *Parser) *driver {
	// The baseline for progress comparison is the initial state: empty
	// snapshot, offset zero, no verdict yet. A zero-progress partial over an
	// empty buffer is therefore not observable.
	return &driver{p: p, m: newMemo(), last: State{Status: Partial}}
}

// step appends chunk to the accumulated input, re-runs the parser from
// offset zero, and reports whether the resulting state is observable.
// Re-parsing from zero is cheap: the memo table prunes revisits of every
// offset already decided under the current snapshot.
//
// A state still asking for more input is suppressed, as is one making no
// observable progress over the previously emitted state.
func (d *driver) step(chunk string) (State, bool) {
	d.buf = append(d.buf, chunk...)
	out := d.p.Apply(State{Input: Input{text: mem.B(d.buf)}, memo: d.m})
	if out.NeedMore() {
		return out, false
	}
	if out.Input.same(d.last.Input) && out.Pos == d.last.Pos && out.Status == d.last.Status {
		return out, false
	}
	d.last = out
	return out, true
}

// finish runs one final transform over the full input with its done flag
// set. This is the only state that can commit a verdict depending on true
// end of input.
func (d *driver) finish() State {
	return d.p.Apply(State{Input: Input{text: mem.B(d.buf), done: true}, memo: d.m})
}

// ParseSeq drives p over a finite sequence of input chunks and yields each
// state that makes observable progress or is terminal. At most one terminal
// state appears, as the last element. Offsets may decrease when more input
// overturns a provisional Partial match, for example when a partly matched
// Literal turns out to be a mismatch. After the source is exhausted, the state
// produced over the full input with its done flag set is yielded
// unconditionally.
func (p *Parser) ParseSeq(chunks iter.Seq[string]) iter.Seq[State] {
	return func(yield func(State) bool) {
		d := newDriver(p)
		for chunk := range chunks {
			out, emit := d.step(chunk)
			if emit {
				if !yield(out) || out.Terminal() {
					return
				}
			}
		}
		yield(d.finish())
	}
}

// ParseChan is ParseSeq for chunks that arrive asynchronously on a channel.
// The driver blocks for each chunk until the channel is closed. Cancelling
// ctx stops the parse without a final verdict.
func (p *Parser) ParseChan(ctx context.Context, chunks <-chan string) iter.Seq[State] {
	return func(yield func(State) bool) {
		d := newDriver(p)
		for {
			select {
			case <-ctx.Done():
				return
			case chunk, ok := <-chunks:
				if !ok {
					yield(d.finish())
					return
				}
				out, emit := d.step(chunk)
				if emit {
					if !yield(out) || out.Terminal() {
						return
					}
				}
			}
		}
	}
}

// ParseReader drives p over the contents of r in fixed-size chunks. The
// first error from r ends the stream, io.EOF being the normal case; the
// final verdict is then produced over whatever input was read.
func (p *Parser) ParseReader(r io.Reader) iter.Seq[State] {
	return func(yield func(State) bool) {
		d := newDriver(p)
		buf := make([]byte, readerChunkSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				out, emit := d.step(string(buf[:n]))
				if emit {
					if !yield(out) || out.Terminal() {
						return
					}
				}
			}
			if err != nil {
				yield(d.finish())
				return
			}
		}
	}
}
