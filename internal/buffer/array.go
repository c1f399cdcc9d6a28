package buffer

import (
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// ArrayBuffer serves a file that was tokenized up front. Rewinding is
// unbounded. Its semicolon policy is loose: whenever insertion is enabled
// a missing semicolon is inserted, so tooling gets a tree for incomplete
// code.
type ArrayBuffer struct {
	core
	eof     *token.Token
	aborted bool
}

// NewArrayBuffer wraps toks. A trailing end of input token is optional.
func NewArrayBuffer(toks []*token.Token) *ArrayBuffer {
	b := &ArrayBuffer{}
	b.asi = true
	b.first = eofAfter(nil, "")
	for _, t := range toks {
		if t == nil {
			continue
		}
		if t.Kind == token.EOF {
			b.eof = t
			break
		}
		b.toks = append(b.toks, t)
	}
	if b.eof == nil {
		var last *token.Token
		if len(b.toks) > 0 {
			last = b.toks[len(b.toks)-1]
		}
		b.eof = eofAfter(last, "")
	}
	return b
}

// NewArrayBufferFrom drains src into an ArrayBuffer
func NewArrayBufferFrom(src Source) *ArrayBuffer {
	var toks []*token.Token
	aborted := false
	for {
		tok := src.Next()
		if tok == nil {
			aborted = true
			break
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	b := NewArrayBuffer(toks)
	b.aborted = aborted
	return b
}

// Mode returns ModeArray
func (b *ArrayBuffer) Mode() Mode {
	return ModeArray
}

// Aborted reports whether the source gave up while being drained
func (b *ArrayBuffer) Aborted() bool {
	return b.aborted
}

// Len returns the number of tokens, excluding end of input
func (b *ArrayBuffer) Len() int {
	return len(b.toks)
}

// LT returns the i-th token ahead; negative indexes look behind
func (b *ArrayBuffer) LT(i int) *token.Token {
	if i == 0 {
		panic(contractViolation("LT", "lookahead index must not be zero"))
	}
	abs := b.p + i
	if i > 0 {
		abs--
	}
	if abs < 0 {
		return b.first
	}
	if abs >= len(b.toks) {
		return b.eof
	}
	return b.toks[abs]
}

// LA returns the kind of LT(i)
func (b *ArrayBuffer) LA(i int) token.Kind {
	return b.LT(i).Kind
}

// Consume advances past LT(1) and returns it
func (b *ArrayBuffer) Consume() *token.Token {
	tok := b.LT(1)
	if tok.Kind != token.EOF {
		b.p++
	}
	return tok
}

// Mark returns the current position
func (b *ArrayBuffer) Mark() int {
	return b.p
}

// Rewind moves back to mark
func (b *ArrayBuffer) Rewind(mark int) {
	if mark < 0 || mark > len(b.toks) {
		panic(contractViolation("Rewind", "mark %d is outside the buffer", mark))
	}
	b.p = mark
}

// Release is a no-op; every token stays available
func (b *ArrayBuffer) Release(int) {}

// Previous returns the last consumed token
func (b *ArrayBuffer) Previous() *token.Token {
	return b.previous()
}

// OnNewLine reports whether LT(1) begins a new line or a different file
func (b *ArrayBuffer) OnNewLine() bool {
	if b.p == 0 {
		return true
	}
	return startsNewLine(b.Previous(), b.LT(1))
}

// InsertSemicolon surfaces a virtual semicolon
func (b *ArrayBuffer) InsertSemicolon(asNext bool) bool {
	if !b.asi {
		return false
	}
	if !asNext {
		b.Consume()
	}
	var prev *token.Token
	if b.p > 0 {
		prev = b.Previous()
	}
	b.insertAt(b.p, Virtual(prev, b.LT(1)))
	return true
}

// MatchOptionalSemicolon consumes a real semicolon or inserts one
func (b *ArrayBuffer) MatchOptionalSemicolon() bool {
	if b.LA(1) == token.Semicolon {
		b.Consume()
		return true
	}
	if b.InsertSemicolon(true) {
		b.Consume()
		return true
	}
	switch b.LA(1) {
	case token.BlockClose, token.EOF:
		return true
	}
	return b.OnNewLine()
}

// Replace swaps LT(i) for tok
func (b *ArrayBuffer) Replace(i int, tok *token.Token) {
	abs := b.p + i - 1
	if i < 1 || abs >= len(b.toks) {
		panic(contractViolation("Replace", "no token at lookahead %d", i))
	}
	b.toks[abs] = tok
}

// Tokens returns the buffered tokens including inserted semicolons
func (b *ArrayBuffer) Tokens() []*token.Token {
	out := make([]*token.Token, len(b.toks))
	copy(out, b.toks)
	return out
}
