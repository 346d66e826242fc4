// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package packrat

// The combinators in this file share one policy for streaming: a child state
// for which NeedMore reports true is a request for more input, not a grammar
// failure. Sequences and repetitions convert it into a Partial state that
// records the progress committed so far; alternation, optional, and the
// lookaheads propagate it unchanged, because their decision is still unmade.

// SequenceOf returns a parser applying each of ps in order, threading state
// left to right. On success its result is a slice with one element per
// child. If a child asks for more input mid-sequence, the sequence reports a
// Partial state anchored at the furthest committed offset, with the slots of
// the children not yet decided left nil.
func SequenceOf(ps ...*Parser) *Parser {
	return New(func(st State) State {
		results := make([]any, len(ps))
		cur := st
		for i, p := range ps {
			next := p.Apply(cur)
			if next.NeedMore() {
				return cur.suspend(results, 0)
			}
			if next.Status == Failed {
				return next
			}
			results[i] = next.Result
			if next.Status == Partial {
				// The child committed a provisional prefix; surface the
				// progress and wait for the rest.
				next.Result = results
				return next
			}
			cur = next
		}
		cur.Result = results
		return cur
	})
}

// OneOf returns a parser trying each alternative in order and committing to
// the first that succeeds (ordered choice). A genuine failure moves on to
// the next alternative; if every alternative fails, the first failure is
// reported. An alternative that asks for more input suspends the whole
// choice, since the decision between alternatives cannot yet be made.
func OneOf(ps ...*Parser) *Parser {
	return New(func(st State) State {
		var first State
		seen := false
		for _, p := range ps {
			next := p.Apply(st)
			if next.NeedMore() {
				return next
			}
			if next.Status != Failed {
				return next
			}
			if !seen {
				first, seen = next, true
			}
		}
		if !seen {
			return st.fail(Mismatch, "no alternatives")
		}
		return first
	})
}

// ZeroOrMore returns a parser greedily collecting consecutive matches of p.
// It cannot fail: a genuine failure of p ends the collection and the
// matches gathered so far, possibly none, become the result. A zero-width
// success of p also ends the collection, as collecting it again would never
// terminate.
func ZeroOrMore(p *Parser) *Parser { return repeat(p, 0) }

// OneOrMore is ZeroOrMore, except that a genuine failure of p before the
// first match is an EmptyRepetition error.
func OneOrMore(p *Parser) *Parser { return repeat(p, 1) }

func repeat(p *Parser, min int) *Parser {
	return New(func(st State) State {
		results := []any{}
		cur := st
		for {
			next := p.Apply(cur)
			if next.NeedMore() {
				return cur.suspend(results, 0)
			}
			if next.Status == Failed {
				if len(results) < min {
					return cur.fail(EmptyRepetition, "expected at least %d match(es): %s", min, next.Err.Message)
				}
				cur.Result = results
				return cur
			}
			if next.Status == Partial {
				next.Result = append(results, next.Result)
				return next
			}
			if next.Pos == cur.Pos {
				// Zero-width success: record it once and stop.
				next.Result = append(results, next.Result)
				return next
			}
			results = append(results, next.Result)
			cur = next
		}
	})
}

// Optional returns a parser that tries p. A genuine failure of p becomes a
// zero-width success with a nil result; anything else, including a request
// for more input, is returned as p produced it.
func Optional(p *Parser) *Parser {
	return New(func(st State) State {
		next := p.Apply(st)
		if next.NeedMore() || next.Status != Failed {
			return next
		}
		return st.succeed(nil, 0)
	})
}

// FollowedBy returns a positive-lookahead parser: it runs p and reports p's
// status and result at the entry offset, consuming nothing. Any advance p
// made internally is discarded.
func FollowedBy(p *Parser) *Parser {
	return New(func(st State) State {
		next := p.Apply(st)
		if next.Status == Failed {
			st.Status = Failed
			st.Result = nil
			st.Err = next.Err
			return st
		}
		st.Status = next.Status
		st.Result = next.Result
		return st
	})
}

// NotFollowedBy returns a negative-lookahead parser. It fails with
// NegativeLookahead if p succeeds, succeeds with a nil result if p fails
// outright, and asks for more input while p's outcome is still undecided.
// It never consumes input.
func NotFollowedBy(p *Parser) *Parser {
	return New(func(st State) State {
		next := p.Apply(st)
		switch {
		case next.Status == Complete:
			return st.fail(NegativeLookahead, "input matches forbidden parser")
		case next.Status == Partial || next.NeedMore():
			return st.fail(UnexpectedEOI, "lookahead undecided before end of input")
		default:
			return st.succeed(nil, 0)
		}
	})
}

// Lazy returns a parser that defers construction of its body until first
// use, so that a grammar may refer to rules not yet defined, including
// itself. The resolved body is cached on the node for its lifetime.
func Lazy(thunk func() *Parser) *Parser {
	var body *Parser
	return New(func(st State) State {
		if body == nil {
			body = thunk()
		}
		return body.Apply(st)
	})
}

// Map returns a parser that transforms a Complete result of p through f.
// Partial results are provisional and pass through untransformed, as do
// errors.
func Map(p *Parser, f func(any) any) *Parser {
	return New(func(st State) State {
		next := p.Apply(st)
		if next.Status == Complete {
			next.Result = f(next.Result)
		}
		return next
	})
}

// SepBy returns a parser matching zero or more p separated by sep, without
// consuming a trailing separator. Its result is the slice of p's results.
func SepBy(p, sep *Parser) *Parser {
	return Map(Optional(SepBy1(p, sep)), func(v any) any {
		if v == nil {
			return []any{}
		}
		return v
	})
}

// SepBy1 is SepBy requiring at least one match of p.
func SepBy1(p, sep *Parser) *Parser {
	rest := ZeroOrMore(Map(SequenceOf(sep, p), func(v any) any {
		return v.([]any)[1]
	}))
	return Map(SequenceOf(p, rest), func(v any) any {
		parts := v.([]any)
		return append([]any{parts[0]}, parts[1].([]any)...)
	})
}
