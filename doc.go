// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package packrat implements streaming parser combinators with packrat
// memoization.
//
// A Parser is assembled from primitives (Literal, AnyChar, CharFrom,
// EndOfInput) and combinators (SequenceOf, OneOf, ZeroOrMore, OneOrMore,
// Optional, FollowedBy, NotFollowedBy, Lazy). Every application of a parser
// at an input offset is memoized, so parse time is linear in the length of
// the input regardless of how much backtracking the grammar induces.
//
// # Whole-string parsing
//
// Apply a parser to a complete input with ParseString, which returns the
// terminal state:
//
//	p := packrat.SequenceOf(packrat.Literal("Hello, "), packrat.Literal("world!"))
//	st := p.ParseString("Hello, world!")
//	if st.Status == packrat.Failed {
//	   log.Fatal(st.Err)
//	}
//
// # Streaming
//
// The same parser can be driven over input that arrives in chunks, with the
// total length unknown until the final chunk. ParseSeq consumes a sequence
// of chunks and yields each state that makes observable progress:
//
//	for st := range p.ParseSeq(chunks) {
//	   log.Printf("%v at offset %d", st.Status, st.Pos)
//	}
//
// Until the source is exhausted, yielded states may be Partial: the parser
// has committed to a prefix of the input but needs more to decide. At most
// one terminal state appears, as the last element. Offsets do not always
// increase: a Partial state may carry a provisional offset inside a partly
// matched Literal, and when later input overturns that match the next state
// reports a smaller offset (a Failed state reports the offset at which the
// failing parser was applied). ParseChan and ParseReader adapt the same
// driver to channels and byte streams.
//
// # Grammars with cycles
//
// Lazy defers construction of a parser until its first use, so a rule may
// refer to itself or to rules defined after it:
//
//	var value *packrat.Parser
//	nested := packrat.Lazy(func() *packrat.Parser {
//	   return packrat.SequenceOf(packrat.Literal("["), value, packrat.Literal("]"))
//	})
//	value = packrat.OneOf(nested, packrat.CharFrom(packrat.Range('0', '9')))
//
// Left recursion is not supported: a rule whose expansion re-enters itself
// without consuming input is reported by a panic from Apply.
//
// # Custom parsers
//
// New wraps an arbitrary state transform in a Parser, placing it under the
// same memoization discipline as the built-ins. The input to a transform is
// never Failed; a transform inspecting a non-final snapshot should report
// UnexpectedEOI when it runs out of characters, which the combinators
// interpret as a request for more input.
package packrat
