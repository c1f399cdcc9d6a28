package buffer

import (
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// StreamingBuffer pulls tokens from a Source as the parser needs them and
// keeps only a bounded window behind the read position. While a mark is
// outstanding the window is pinned; looking further ahead than the rewind
// limit of the oldest mark is a contract violation, like rewinding that far.
// Lookahead without a mark is unbounded.
type StreamingBuffer struct {
	core
	src     Source
	limit   int
	marks   []int
	eof     *token.Token
	aborted bool
}

// NewStreamingBuffer wraps src. A limit below one selects DefaultRewindLimit.
func NewStreamingBuffer(src Source, limit int) *StreamingBuffer {
	if limit < 1 {
		limit = DefaultRewindLimit
	}
	b := &StreamingBuffer{src: src, limit: limit}
	b.asi = true
	b.first = eofAfter(nil, "")
	return b
}

// Mode returns ModeStreaming
func (b *StreamingBuffer) Mode() Mode {
	return ModeStreaming
}

// Aborted reports whether the source gave up before end of input
func (b *StreamingBuffer) Aborted() bool {
	return b.aborted
}

// RewindLimit returns the maximum rewind distance
func (b *StreamingBuffer) RewindLimit() int {
	return b.limit
}

func (b *StreamingBuffer) fill(abs int) {
	for b.eof == nil && abs-b.offset >= len(b.toks) {
		tok := b.src.Next()
		if tok == nil {
			b.aborted = true
			var last *token.Token
			if len(b.toks) > 0 {
				last = b.toks[len(b.toks)-1]
			}
			b.eof = eofAfter(last, "")
			return
		}
		if tok.Kind == token.EOF {
			b.eof = tok
			return
		}
		b.toks = append(b.toks, tok)
	}
}

func (b *StreamingBuffer) pinnedOut(abs int) bool {
	return len(b.marks) > 0 && abs-b.marks[0] >= b.limit
}

// LT returns the i-th token ahead; LT(-1) is the previous token
func (b *StreamingBuffer) LT(i int) *token.Token {
	if i < 0 {
		if i == -1 {
			return b.Previous()
		}
		abs := b.p + i
		if abs < b.offset {
			panic(contractViolation("LT", "lookbehind %d is outside the window", i))
		}
		return b.at(abs)
	}
	if i == 0 {
		panic(contractViolation("LT", "lookahead index must not be zero"))
	}
	abs := b.p + i - 1
	if b.pinnedOut(abs) {
		panic(contractViolation("LT", "lookahead %d is %d tokens past mark %d (limit %d)",
			i, abs-b.marks[0], b.marks[0], b.limit))
	}
	b.fill(abs)
	if abs-b.offset >= len(b.toks) {
		return b.eof
	}
	return b.at(abs)
}

// LA returns the kind of LT(i)
func (b *StreamingBuffer) LA(i int) token.Kind {
	return b.LT(i).Kind
}

// Consume advances past LT(1) and returns it. End of input is never
// consumed.
func (b *StreamingBuffer) Consume() *token.Token {
	tok := b.LT(1)
	if tok.Kind == token.EOF {
		return tok
	}
	b.p++
	b.trim()
	return tok
}

func (b *StreamingBuffer) trim() {
	if len(b.marks) > 0 {
		return
	}
	behind := b.p - b.offset
	if behind <= 2*b.limit {
		return
	}
	cut := behind - b.limit
	b.toks = append(b.toks[:0:0], b.toks[cut:]...)
	b.offset += cut
}

// Mark pins the window at the current position
func (b *StreamingBuffer) Mark() int {
	b.marks = append(b.marks, b.p)
	return b.p
}

// Rewind restores the position of mark and releases it. Rewinding further
// back than the rewind limit is a contract violation.
func (b *StreamingBuffer) Rewind(mark int) {
	if mark < b.offset || b.p-mark > b.limit {
		panic(contractViolation("Rewind", "cannot rewind from %d to %d (limit %d)", b.p, mark, b.limit))
	}
	b.p = mark
	b.Release(mark)
}

// Release drops mark without moving
func (b *StreamingBuffer) Release(mark int) {
	for i := len(b.marks) - 1; i >= 0; i-- {
		if b.marks[i] == mark {
			b.marks = append(b.marks[:i], b.marks[i+1:]...)
			break
		}
	}
	if len(b.marks) == 0 {
		b.trim()
	}
}

// Previous returns the last consumed token, or an end of input sentinel at
// the start of the stream
func (b *StreamingBuffer) Previous() *token.Token {
	return b.previous()
}

// OnNewLine reports whether LT(1) begins a new line or a different file
func (b *StreamingBuffer) OnNewLine() bool {
	if b.p == 0 {
		return true
	}
	return startsNewLine(b.Previous(), b.LT(1))
}

// InsertSemicolon surfaces a virtual semicolon
func (b *StreamingBuffer) InsertSemicolon(asNext bool) bool {
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

// MatchOptionalSemicolon applies the strict rules: a real semicolon is
// consumed; a closing brace, else or end of input ends the statement as it
// is; a line break inserts a virtual semicolon. Anything else fails.
func (b *StreamingBuffer) MatchOptionalSemicolon() bool {
	switch b.LA(1) {
	case token.Semicolon:
		b.Consume()
		return true
	case token.BlockClose, token.KeywordElse, token.EOF:
		return true
	}
	if !b.OnNewLine() {
		return false
	}
	if b.InsertSemicolon(true) {
		b.Consume()
	}
	return true
}

// Replace swaps LT(i) for tok
func (b *StreamingBuffer) Replace(i int, tok *token.Token) {
	abs := b.p + i - 1
	b.fill(abs)
	if i < 1 || abs-b.offset >= len(b.toks) {
		panic(contractViolation("Replace", "no token at lookahead %d", i))
	}
	b.toks[abs-b.offset] = tok
}
