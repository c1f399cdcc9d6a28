package token

// Pool recycles token records that the tokenizer discards (fused halves,
// skipped comments, include directives). Only tokens that were explicitly
// released and never locked are handed out again, so a token still visible
// to a consumer is never overwritten.
type Pool struct {
	free []*Token
	size int
}

// DefaultPoolSize is the free-list capacity used by the tokenizer
const DefaultPoolSize = 16

// NewPool creates a pool holding at most size released tokens
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &Pool{free: make([]*Token, 0, size), size: size}
}

// Get returns a zeroed token, recycled when possible
func (p *Pool) Get() *Token {
	if n := len(p.free); n > 0 {
		t := p.free[n-1]
		p.free = p.free[:n-1]
		*t = Token{}
		return t
	}
	return &Token{}
}

// Release hands a discarded token back. Locked tokens are ignored.
func (p *Pool) Release(t *Token) {
	if t == nil || t.locked || len(p.free) >= p.size {
		return
	}
	p.free = append(p.free, t)
}

// Available returns the number of recyclable tokens
func (p *Pool) Available() int {
	return len(p.free)
}
