package tokenizer

import (
	"io"

	"github.com/apache/royale-compiler-sub012/internal/lexer"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
)

// Drain returns clones of all remaining tokens, excluding EOF. Clones are
// safe to retain.
func (t *Tokenizer) Drain() []*token.Token {
	var out []*token.Token
	for {
		tok := t.Next()
		if tok == nil || tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok.Clone())
	}
}

// GetTokens tokenizes everything readable from r
func GetTokens(path string, r io.Reader, opts Options) ([]*token.Token, *problem.List, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, aserror.Wrap(err, "failed to read source").
			WithCode(aserror.CodeIO).
			WithPath(path)
	}
	t := New(path, string(data), opts)
	return t.Drain(), t.Problems(), nil
}

// ScanBraceBalance counts '{' minus '}' in src without reclassification
func ScanBraceBalance(src string) int {
	balance := 0
	lx := lexer.New(src, lexer.Options{})
	for {
		tok := lx.Next()
		switch tok.Kind {
		case token.EOF:
			return balance
		case token.BlockOpen:
			balance++
		case token.BlockClose:
			balance--
		}
		lx.Pool().Release(tok)
	}
}
