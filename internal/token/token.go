// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     token
// Description: Token records shared by the lexer, the disambiguating
//              tokenizer, the token buffers and the parser.
// License:     Apache-2.0
// ============================================================================

package token

import (
	"fmt"

	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
)

// Token is a classified span of source text.
//
// Offsets are byte offsets into the outermost (absolute) stream once the
// include handler has adjusted them. Line and Column are 1-based and refer
// to SourcePath. A locked token is immutable; mutators panic with a
// contract violation.
type Token struct {
	Kind       Kind
	Text       string
	Start      int
	End        int
	Line       int
	Column     int
	EndLine    int
	EndColumn  int
	SourcePath string

	// Implicit marks a virtual semicolon inserted by automatic semicolon insertion
	Implicit bool

	// Payload holds the metadata sub-tokens of an Attribute token
	Payload []*Token

	locked bool
}

// New creates an unlocked token
func New(kind Kind, text string, start, end, line, column int) *Token {
	return &Token{Kind: kind, Text: text, Start: start, End: end, Line: line, Column: column, EndLine: line}
}

// Clone returns an unlocked deep copy
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	c.locked = false
	if t.Payload != nil {
		c.Payload = make([]*Token, len(t.Payload))
		for i, p := range t.Payload {
			c.Payload[i] = p.Clone()
		}
	}
	return &c
}

// Lock freezes the token
func (t *Token) Lock() {
	t.locked = true
}

// Locked reports whether the token is frozen
func (t *Token) Locked() bool {
	return t.locked
}

func (t *Token) mutate(op string) {
	if t.locked {
		panic(aserror.New(fmt.Sprintf("attempt to modify locked token %s", t.Debug())).
			WithCode(aserror.CodeContractViolation).
			WithOperation(op))
	}
}

// SetKind changes the kind of an unlocked token
func (t *Token) SetKind(k Kind) {
	t.mutate("token.SetKind")
	t.Kind = k
}

// SetText changes the text of an unlocked token
func (t *Token) SetText(s string) {
	t.mutate("token.SetText")
	t.Text = s
}

// SetSpan changes the offsets of an unlocked token
func (t *Token) SetSpan(start, end int) {
	t.mutate("token.SetSpan")
	t.Start = start
	t.End = end
}

// Shift moves both offsets by delta
func (t *Token) Shift(delta int) {
	t.mutate("token.Shift")
	t.Start += delta
	t.End += delta
	for _, p := range t.Payload {
		p.Start += delta
		p.End += delta
	}
}

// SetPayload attaches metadata sub-tokens to an unlocked token
func (t *Token) SetPayload(p []*Token) {
	t.mutate("token.SetPayload")
	t.Payload = p
}

// Is reports whether the token has one of the given kinds
func (t *Token) Is(kinds ...Kind) bool {
	if t == nil {
		return false
	}
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// Len returns the span length in bytes
func (t *Token) Len() int {
	return t.End - t.Start
}

// Debug returns a compact description for logs and test failures
func (t *Token) Debug() string {
	if t == nil {
		return "<nil>"
	}
	implicit := ""
	if t.Implicit {
		implicit = " implicit"
	}
	return fmt.Sprintf("%s %q [%d,%d) %d:%d%s", t.Kind, t.Text, t.Start, t.End, t.Line, t.Column, implicit)
}

func (t *Token) String() string {
	return t.Text
}

// Span is a half-open byte range in the absolute stream
type Span struct {
	Start int
	End   int
}

// SpanOf returns the span of t
func SpanOf(t *Token) Span {
	return Span{Start: t.Start, End: t.End}
}
