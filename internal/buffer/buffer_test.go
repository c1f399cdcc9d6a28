package buffer

import (
	"testing"

	"github.com/apache/royale-compiler-sub012/internal/lexer"
	"github.com/apache/royale-compiler-sub012/internal/token"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
)

type sliceSource struct {
	toks []*token.Token
	i    int
	fail bool
}

func (s *sliceSource) Next() *token.Token {
	if s.i >= len(s.toks) {
		if s.fail {
			return nil
		}
		return s.toks[len(s.toks)-1]
	}
	tok := s.toks[s.i]
	s.i++
	return tok
}

func lex(src string) []*token.Token {
	l := lexer.New(src, lexer.Options{Path: "Test.as"})
	var out []*token.Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func buffers(src string) map[string]TokenBuffer {
	return map[string]TokenBuffer{
		"streaming": NewStreamingBuffer(&sliceSource{toks: lex(src)}, 0),
		"array":     NewArrayBuffer(lex(src)),
	}
}

func expectContractViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		err, ok := r.(*aserror.Error)
		if !ok || err.Code() != aserror.CodeContractViolation {
			t.Fatalf("panic = %v, want contract violation", r)
		}
	}()
	fn()
}

func TestLookaheadAndConsume(t *testing.T) {
	for name, b := range buffers("a = b;") {
		t.Run(name, func(t *testing.T) {
			if b.LA(1) != token.Identifier || b.LA(2) != token.OperatorAssign || b.LA(4) != token.Semicolon {
				t.Fatalf("unexpected lookahead %s %s %s", b.LA(1), b.LA(2), b.LA(4))
			}
			if b.LA(5) != token.EOF || b.LA(50) != token.EOF {
				t.Error("lookahead past the end should be EOF")
			}
			if b.Previous().Kind != token.EOF {
				t.Error("Previous at the start should be the EOF sentinel")
			}
			first := b.Consume()
			if first.Text != "a" || b.Previous() != first || b.Index() != 1 {
				t.Errorf("Consume returned %v, previous %v, index %d", first, b.Previous(), b.Index())
			}
			for i := 0; i < 10; i++ {
				b.Consume()
			}
			if b.LA(1) != token.EOF || b.Index() != 4 {
				t.Errorf("EOF should not be consumed, index %d", b.Index())
			}
		})
	}
}

func TestMarkRewind(t *testing.T) {
	for name, b := range buffers("x ( y , z )") {
		t.Run(name, func(t *testing.T) {
			b.Consume()
			m := b.Mark()
			b.Consume()
			b.Consume()
			if b.LT(1).Text != "," {
				t.Fatalf("LT(1) = %q", b.LT(1).Text)
			}
			b.Rewind(m)
			if b.LT(1).Text != "(" || b.Previous().Text != "x" {
				t.Errorf("after rewind LT(1)=%q previous=%q", b.LT(1).Text, b.Previous().Text)
			}
		})
	}
}

func TestMatchOptionalSemicolon(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		consume   int
		streaming bool
		array     bool
		virtual   bool
	}{
		{"real semicolon", "a;", 1, true, true, false},
		{"before close brace", "a }", 1, true, true, false},
		{"before else", "a else", 1, true, true, false},
		{"at end of input", "a", 1, true, true, false},
		{"after newline", "a\nb", 1, true, true, true},
		{"same line", "a b", 1, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStreamingBuffer(&sliceSource{toks: lex(tt.src)}, 0)
			a := NewArrayBuffer(lex(tt.src))
			for i := 0; i < tt.consume; i++ {
				s.Consume()
				a.Consume()
			}
			if got := s.MatchOptionalSemicolon(); got != tt.streaming {
				t.Errorf("streaming = %v, want %v", got, tt.streaming)
			}
			if got := a.MatchOptionalSemicolon(); got != tt.array {
				t.Errorf("array = %v, want %v", got, tt.array)
			}
			if tt.virtual {
				prev := a.Previous()
				if prev.Kind != token.Semicolon || !prev.Implicit {
					t.Errorf("array previous = %s, want a virtual semicolon", prev.Debug())
				}
			}
		})
	}
}

func TestVirtualSemicolonPosition(t *testing.T) {
	b := NewStreamingBuffer(&sliceSource{toks: lex("foo\n  bar")}, 0)
	b.Consume()
	if !b.MatchOptionalSemicolon() {
		t.Fatal("expected a virtual semicolon after a line break")
	}
	v := b.Previous()
	if !v.Implicit || v.Start != 3 || v.End != 3 || v.Line != 1 {
		t.Errorf("virtual semicolon at %d..%d line %d", v.Start, v.End, v.Line)
	}
	if !v.Locked() {
		t.Error("virtual semicolon should be locked")
	}
	if b.LT(1).Text != "bar" {
		t.Errorf("LT(1) = %q, want bar", b.LT(1).Text)
	}
}

func TestInsertSemicolon(t *testing.T) {
	for name, b := range buffers("a b c") {
		t.Run(name, func(t *testing.T) {
			b.Consume()
			if !b.InsertSemicolon(true) || b.LA(1) != token.Semicolon || b.LT(2).Text != "b" {
				t.Fatalf("asNext insertion: LT(1)=%s LT(2)=%q", b.LA(1), b.LT(2).Text)
			}
			b.Consume()
			if !b.InsertSemicolon(false) {
				t.Fatal("insertion should succeed")
			}
			if b.Previous().Text != "b" || b.LA(1) != token.Semicolon || b.LT(2).Text != "c" {
				t.Errorf("skip insertion: previous=%q LT(1)=%s", b.Previous().Text, b.LA(1))
			}

			b.SetEnableSemicolonInsertion(false)
			if b.SemicolonInsertionEnabled() || b.InsertSemicolon(true) {
				t.Error("insertion should be disabled")
			}
		})
	}
}

func TestDisabledInsertionStillEndsOnNewLine(t *testing.T) {
	b := NewStreamingBuffer(&sliceSource{toks: lex("a\nb")}, 0)
	b.Consume()
	b.SetEnableSemicolonInsertion(false)
	if !b.MatchOptionalSemicolon() {
		t.Fatal("a line break should end the statement")
	}
	if b.LT(1).Text != "b" {
		t.Errorf("nothing should be inserted while disabled, LT(1)=%q", b.LT(1).Text)
	}
}

func TestOnNewLineAcrossFiles(t *testing.T) {
	toks := lex("a b")
	other := toks[1].Clone()
	other.SourcePath = "Other.as"
	toks[1] = other
	b := NewArrayBuffer(toks)
	b.Consume()
	if !b.OnNewLine() {
		t.Error("a token from another file should count as a new line")
	}
}

func TestStreamingRewindLimit(t *testing.T) {
	src := ""
	for i := 0; i < 40; i++ {
		src += "a "
	}
	b := NewStreamingBuffer(&sliceSource{toks: lex(src)}, 4)
	for i := 0; i < 20; i++ {
		b.Consume()
	}
	expectContractViolation(t, func() { b.Rewind(2) })
}

func TestStreamingMarkPinsLookahead(t *testing.T) {
	src := ""
	for i := 0; i < 40; i++ {
		src += "a "
	}
	b := NewStreamingBuffer(&sliceSource{toks: lex(src)}, 8)
	m := b.Mark()
	for i := 0; i < 8; i++ {
		b.Consume()
	}
	if b.Index() != 8 {
		t.Fatalf("index %d, want 8", b.Index())
	}
	expectContractViolation(t, func() { b.LA(1) })
	expectContractViolation(t, func() { b.Consume() })
	b.Rewind(m)
	for i := 0; i < 20; i++ {
		b.Consume()
	}
	if b.Index() != 20 || b.LA(1) != token.Identifier {
		t.Errorf("after release the stream should continue, index %d", b.Index())
	}
}

func TestStreamingAbortedSource(t *testing.T) {
	toks := lex("a b")
	src := &sliceSource{toks: toks[:2], fail: true}
	b := NewStreamingBuffer(src, 0)
	b.Consume()
	b.Consume()
	if b.LA(1) != token.EOF || !b.Aborted() {
		t.Errorf("LA(1)=%s aborted=%v", b.LA(1), b.Aborted())
	}
}

func TestReplace(t *testing.T) {
	for name, b := range buffers("get x") {
		t.Run(name, func(t *testing.T) {
			c := b.LT(1).Clone()
			c.SetKind(token.Identifier)
			c.Lock()
			b.Replace(1, c)
			if b.LA(1) != token.Identifier || b.Consume() != c {
				t.Error("replacement not visible")
			}
			expectContractViolation(t, func() { b.Replace(5, c) })
		})
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeStreaming, "Streaming": ModeStreaming, "array": ModeArray} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("ring"); !aserror.HasCode(err, aserror.CodeInvalidConfig) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestStreamingLookaheadWithoutMark(t *testing.T) {
	src := ""
	for i := 0; i < 40; i++ {
		src += "a "
	}
	b := NewStreamingBuffer(&sliceSource{toks: lex(src)}, 4)
	if b.LA(30) != token.Identifier || b.LA(41) != token.EOF {
		t.Errorf("LA(30)=%s LA(41)=%s", b.LA(30), b.LA(41))
	}
	if b.Index() != 0 {
		t.Errorf("lookahead moved the position to %d", b.Index())
	}
}
