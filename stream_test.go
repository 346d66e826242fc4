// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package packrat_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/creachadair/packrat"
	"github.com/google/go-cmp/cmp"
)

func collect(p *packrat.Parser, chunks ...string) []stateView {
	var out []stateView
	for st := range p.ParseSeq(slices.Values(chunks)) {
		out = append(out, view(st))
	}
	return out
}

func TestStreamSequence(t *testing.T) {
	p := packrat.SequenceOf(
		packrat.Literal("Hello"), packrat.Literal(", "),
		packrat.Literal("world"), packrat.Literal("!"))

	got := collect(p, "", "Hello", "", ", ", "", "world!")
	want := []stateView{
		{Pos: 5, Status: "partial", Result: []any{"Hello", nil, nil, nil}},
		{Pos: 7, Status: "partial", Result: []any{"Hello", ", ", nil, nil}},
		{Pos: 13, Status: "complete", Result: []any{"Hello", ", ", "world", "!"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emitted states: (-want, +got)\n%s", diff)
	}
}

func TestStreamChoice(t *testing.T) {
	p := packrat.OneOf(packrat.Literal("Hello"), packrat.Literal("Hi"))

	got := collect(p, "", "", "Hell", "", "o, world!")
	want := []stateView{
		{Pos: 4, Status: "partial", Result: "Hell"},
		{Pos: 5, Status: "complete", Result: "Hello"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emitted states: (-want, +got)\n%s", diff)
	}
}

func TestStreamPartialLiteral(t *testing.T) {
	p := packrat.Literal("Hello, world!")

	got := collect(p, "Hello", ", wor", "ld!")
	want := []stateView{
		{Pos: 5, Status: "partial", Result: "Hello"},
		{Pos: 10, Status: "partial", Result: "Hello, wor"},
		{Pos: 13, Status: "complete", Result: "Hello, world!"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emitted states: (-want, +got)\n%s", diff)
	}
}

// TestStreamEmptyChunks checks that a stream of empty chunks emits nothing
// until the terminal flush, whose state matches whole-string parsing of the
// empty input.
func TestStreamEmptyChunks(t *testing.T) {
	for _, p := range []*packrat.Parser{
		packrat.EndOfInput(),
		packrat.Literal("x"),
		packrat.ZeroOrMore(packrat.Literal("x")),
	} {
		got := collect(p, "", "", "")
		want := []stateView{view(p.ParseString(""))}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Empty-chunk stream: (-want, +got)\n%s", diff)
		}
	}
}

// TestStreamMatchesWhole checks that chunking never changes the terminal
// verdict: for any partition of the input, the last emitted state equals the
// whole-string result.
func TestStreamMatchesWhole(t *testing.T) {
	var arrayValue *packrat.Parser
	nested := packrat.Lazy(func() *packrat.Parser {
		return packrat.SequenceOf(packrat.Literal("["), arrayValue, packrat.Literal("]"))
	})
	arrayValue = packrat.OneOf(nested, packrat.CharFrom(packrat.Range('0', '9')))

	tests := []struct {
		name  string
		build func() *packrat.Parser
		input string
	}{
		{"Greeting", func() *packrat.Parser {
			return packrat.SequenceOf(
				packrat.Literal("Hello"), packrat.Literal(", "),
				packrat.Literal("world"), packrat.Literal("!"),
				packrat.EndOfInput())
		}, "Hello, world!"},
		{"Laugh", func() *packrat.Parser {
			return packrat.ZeroOrMore(packrat.Literal("Ha"))
		}, "HaHaHa!"},
		{"Nested", func() *packrat.Parser { return nested }, "[[3]]"},
		{"Choice", func() *packrat.Parser {
			return packrat.OneOf(packrat.Literal("Hello"), packrat.Literal("Hi"))
		}, "Hi"},
		{"Mismatch", func() *packrat.Parser { return packrat.Literal("Hello") }, "Help!"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := test.build()
			want := view(p.ParseString(test.input))

			for _, chunks := range partitions(test.input) {
				states := collect(p, chunks...)
				if len(states) == 0 {
					t.Fatalf("Chunks %q: no states emitted", chunks)
				}
				got := states[len(states)-1]
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("Chunks %q: terminal state: (-want, +got)\n%s", chunks, diff)
				}
			}
		})
	}
}

// partitions returns several chunkings of s: the whole string, every split
// into two pieces, and one character at a time.
func partitions(s string) [][]string {
	out := [][]string{{s}}
	for i := 1; i < len(s); i++ {
		out = append(out, []string{s[:i], s[i:]})
	}
	if len(s) > 1 {
		chars := make([]string, len(s))
		for i := range s {
			chars[i] = s[i : i+1]
		}
		out = append(out, chars)
	}
	return out
}

// TestStreamMonotone checks the ordering of the emitted sequence for an input
// the grammar accepts: offsets never decrease and at most one terminal state
// appears, last.
func TestStreamMonotone(t *testing.T) {
	p := packrat.SequenceOf(
		packrat.ZeroOrMore(packrat.Literal("Ha")), packrat.Literal("!"), packrat.EndOfInput())
	const input = "HaHaHa!"

	for _, chunks := range partitions(input) {
		var got []packrat.State
		for st := range p.ParseSeq(slices.Values(chunks)) {
			got = append(got, st)
		}
		for i := 1; i < len(got); i++ {
			if got[i].Pos < got[i-1].Pos {
				t.Errorf("Chunks %q: offset decreased from %d to %d", chunks, got[i-1].Pos, got[i].Pos)
			}
		}
		for i, st := range got {
			if st.Terminal() != (i == len(got)-1) {
				t.Errorf("Chunks %q: state %d terminal=%v, want %v",
					chunks, i, st.Terminal(), i == len(got)-1)
			}
		}
	}
}

func TestParseChan(t *testing.T) {
	p := packrat.SequenceOf(packrat.Literal("Hello"), packrat.Literal("!"))

	ch := make(chan string, 3)
	ch <- "Hel"
	ch <- "lo"
	ch <- "!"
	close(ch)

	var got []stateView
	for st := range p.ParseChan(context.Background(), ch) {
		got = append(got, view(st))
	}
	want := []stateView{
		{Pos: 3, Status: "partial", Result: []any{"Hel", nil}},
		{Pos: 5, Status: "partial", Result: []any{"Hello", nil}},
		{Pos: 6, Status: "complete", Result: []any{"Hello", "!"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emitted states: (-want, +got)\n%s", diff)
	}
}

func TestParseChanCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan string) // never written, never closed
	for st := range packrat.Literal("x").ParseChan(ctx, ch) {
		t.Errorf("Unexpected state after cancel: %+v", view(st))
	}
}

func TestParseReader(t *testing.T) {
	p := packrat.SequenceOf(packrat.Literal("Hello, world!"), packrat.EndOfInput())

	var last packrat.State
	for st := range p.ParseReader(strings.NewReader("Hello, world!")) {
		last = st
	}
	want := view(p.ParseString("Hello, world!"))
	if diff := cmp.Diff(want, view(last)); diff != "" {
		t.Errorf("ParseReader terminal state: (-want, +got)\n%s", diff)
	}
}
