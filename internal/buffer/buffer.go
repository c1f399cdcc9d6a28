// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     buffer
// Description: Token buffers seen by the parser: bounded lookahead, mark and
//              rewind for syntactic predicates, and virtual semicolon
//              insertion for automatic semicolon insertion and repair.
// License:     Apache-2.0
// ============================================================================

package buffer

import (
	"fmt"
	"strings"

	"github.com/apache/royale-compiler-sub012/internal/token"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
)

// Mode selects a buffer implementation and its semicolon policy
type Mode int

const (
	// ModeStreaming reads on demand and applies strict semicolon rules
	ModeStreaming Mode = iota
	// ModeArray works on a fully tokenized file and always inserts
	ModeArray
)

func (m Mode) String() string {
	if m == ModeArray {
		return "array"
	}
	return "streaming"
}

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "streaming":
		return ModeStreaming, nil
	case "array":
		return ModeArray, nil
	}
	return ModeStreaming, aserror.Newf("unknown buffer mode %q", s).WithCode(aserror.CodeInvalidConfig)
}

// DefaultRewindLimit bounds how far a streaming buffer can rewind
const DefaultRewindLimit = 512

// Source supplies tokens; nil means the source gave up
type Source interface {
	Next() *token.Token
}

// TokenBuffer is the parser's view of the token stream. Lookahead indexes
// are 1-based: LT(1) is the next token to be consumed.
type TokenBuffer interface {
	LA(i int) token.Kind
	LT(i int) *token.Token
	Consume() *token.Token
	Mark() int
	Rewind(mark int)
	Release(mark int)
	Index() int
	Previous() *token.Token
	// InsertSemicolon surfaces a virtual semicolon. With asNext the
	// semicolon becomes LT(1); otherwise LT(1) is skipped first. It
	// returns false while insertion is disabled.
	InsertSemicolon(asNext bool) bool
	// MatchOptionalSemicolon ends a statement
	MatchOptionalSemicolon() bool
	// OnNewLine reports whether LT(1) starts a new line or file
	OnNewLine() bool
	SetEnableSemicolonInsertion(enabled bool)
	SemicolonInsertionEnabled() bool
	// Replace swaps LT(i) for a repaired token
	Replace(i int, tok *token.Token)
	Mode() Mode
	Aborted() bool
}

// Virtual creates a locked virtual semicolon placed right after prev
func Virtual(prev, next *token.Token) *token.Token {
	v := &token.Token{Kind: token.Semicolon, Implicit: true}
	switch {
	case prev != nil:
		v.Start, v.End = prev.End, prev.End
		v.Line, v.Column = prev.EndLine, prev.EndColumn
		v.EndLine, v.EndColumn = prev.EndLine, prev.EndColumn
		v.SourcePath = prev.SourcePath
	case next != nil:
		v.Start, v.End = next.Start, next.Start
		v.Line, v.Column = next.Line, next.Column
		v.EndLine, v.EndColumn = next.Line, next.Column
		v.SourcePath = next.SourcePath
	}
	v.Lock()
	return v
}

func eofAfter(last *token.Token, path string) *token.Token {
	eof := &token.Token{Kind: token.EOF, SourcePath: path, Line: 1, Column: 1, EndLine: 1, EndColumn: 1}
	if last != nil {
		eof.Start, eof.End = last.End, last.End
		eof.Line, eof.Column = last.EndLine, last.EndColumn
		eof.EndLine, eof.EndColumn = last.EndLine, last.EndColumn
		eof.SourcePath = last.SourcePath
	}
	eof.Lock()
	return eof
}

func startsNewLine(prev, next *token.Token) bool {
	if prev == nil || next == nil {
		return true
	}
	if next.Kind == token.EOF {
		return true
	}
	return next.SourcePath != prev.SourcePath || next.Line > prev.EndLine
}

func contractViolation(op, format string, args ...interface{}) *aserror.Error {
	return aserror.New(fmt.Sprintf(format, args...)).
		WithCode(aserror.CodeContractViolation).
		WithOperation(op)
}

// core holds the window shared by both implementations. toks[0] has the
// absolute index offset; p is the absolute index of LT(1).
type core struct {
	toks   []*token.Token
	offset int
	p      int
	first  *token.Token
	asi    bool
}

func (c *core) at(abs int) *token.Token {
	return c.toks[abs-c.offset]
}

func (c *core) insertAt(abs int, tok *token.Token) {
	i := abs - c.offset
	if i > len(c.toks) {
		i = len(c.toks)
	}
	c.toks = append(c.toks, nil)
	copy(c.toks[i+1:], c.toks[i:])
	c.toks[i] = tok
}

func (c *core) previous() *token.Token {
	if c.p > 0 && c.p > c.offset {
		return c.at(c.p - 1)
	}
	return c.first
}

func (c *core) Index() int {
	return c.p
}

func (c *core) SetEnableSemicolonInsertion(enabled bool) {
	c.asi = enabled
}

func (c *core) SemicolonInsertionEnabled() bool {
	return c.asi
}
