package problem

import (
	"strings"
	"testing"

	"github.com/apache/royale-compiler-sub012/internal/token"
)

func TestAddForTokenDeduplicates(t *testing.T) {
	l := NewList()
	tok := token.New(token.Identifier, "x", 4, 5, 1, 5)

	if !l.AddForToken(tok, At(UnexpectedToken, tok, "unexpected %s", tok.Text)) {
		t.Fatal("first problem should be added")
	}
	if l.AddForToken(tok, At(UnexpectedToken, tok, "again")) {
		t.Error("second problem on same token should be suppressed")
	}

	implicit := token.New(token.Semicolon, "", 4, 4, 1, 5)
	implicit.Implicit = true
	if !l.AddForToken(implicit, At(MissingToken, implicit, "virtual")) {
		t.Error("implicit token at same offset is a different token")
	}

	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestAddForTokenKeysOnShiftedPosition(t *testing.T) {
	l := NewList()
	raw := token.New(token.KeywordClass, "class", 4, 9, 2, 5)
	if !l.AddForToken(raw, At(UnexpectedToken, raw, "reserved").Shift(53)) {
		t.Fatal("first problem should be added")
	}

	shifted := token.New(token.KeywordClass, "class", 57, 62, 2, 5)
	if !l.ReportedAt(shifted) {
		t.Error("ReportedAt should match the shifted token")
	}
	if l.AddForToken(shifted, At(SyntaxError, shifted, "again")) {
		t.Error("problem on the shifted token should be suppressed")
	}
	if got := l.All()[0]; got.Start != 57 || got.End != 62 {
		t.Errorf("span = [%d,%d), want [57,62)", got.Start, got.End)
	}
}

func TestProblemString(t *testing.T) {
	tok := token.New(token.Identifier, "x", 0, 1, 3, 7)
	tok.SourcePath = "A.as"
	p := At(SyntaxError, tok, "bad %s", "thing")

	s := p.String()
	if !strings.HasPrefix(s, "A.as:3:7: error: bad thing") {
		t.Errorf("String() = %q", s)
	}
}

func TestSortedAndCount(t *testing.T) {
	l := NewList()
	l.Add(AtPosition(SyntaxError, "b.as", 5, 6, 1, 6, "b"))
	l.Add(AtPosition(SyntaxError, "a.as", 9, 10, 1, 10, "a2"))
	l.Add(AtPosition(CyclicInclude, "a.as", 1, 2, 1, 2, "a1").AsWarning())

	sorted := l.Sorted()
	if sorted[0].Message != "a1" || sorted[1].Message != "a2" || sorted[2].Message != "b" {
		t.Errorf("unexpected order: %v", sorted)
	}
	if l.Count(SyntaxError) != 2 {
		t.Errorf("Count(SyntaxError) = %d, want 2", l.Count(SyntaxError))
	}
	if !l.HasErrors() {
		t.Error("HasErrors() should be true")
	}
}
