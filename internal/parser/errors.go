package parser

import (
	"fmt"

	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// fail handles a recognition failure at LT(1) and repairs the stream so the
// enclosing production can go on. It returns true when LT(1) was replaced
// and the caller should look at it again.
//
// A dangling ASDoc comment is dropped silently. A token that fails twice
// in a row is consumed to guarantee progress. A keyword is retyped as an
// identifier unless a closing bracket was expected. Anything else gets a
// virtual semicolon so the statement can end.
func (p *Parser) fail(expected token.Kind, format string, args ...interface{}) bool {
	tok := p.lt()

	if tok.Kind == token.ASDocComment {
		p.consume()
		return true
	}

	if tok.Kind == token.Semicolon && tok.Implicit {
		// an earlier repair already ended the statement here
		p.consume()
		return p.la() == expected
	}

	if tok == p.lastFailed && tok.Kind != token.EOF {
		p.lastFailed = nil
		p.consume()
		return false
	}

	p.report(expected, tok, fmt.Sprintf(format, args...))
	p.lastFailed = tok

	if tok.Kind.IsKeywordOrContextual() && !expected.IsClose() {
		fixed := tok.Clone()
		fixed.SetKind(token.Identifier)
		fixed.Lock()
		p.buf.Replace(1, fixed)
		p.lastFailed = fixed
		return true
	}

	switch {
	case tok.Kind.IsOpen():
		p.buf.InsertSemicolon(false)
	default:
		p.buf.InsertSemicolon(true)
	}
	return p.la() == expected
}

// report records a syntax problem at tok unless tok already has one
func (p *Parser) report(expected token.Kind, tok *token.Token, msg string) {
	kind := problem.UnexpectedToken
	switch {
	case tok.Kind == token.EOF && expected != token.EOF:
		kind = problem.MissingToken
	case tok.Implicit:
		kind = problem.MissingToken
	}
	pr := problem.At(kind, tok, "%s", msg)
	if expected != token.EOF {
		pr.Expected = expected.String()
	}
	p.problems.AddForToken(tok, pr)
}

// reportAt records a problem of an explicit kind
func (p *Parser) reportAt(kind problem.Kind, tok *token.Token, format string, args ...interface{}) {
	p.problems.AddForToken(tok, problem.At(kind, tok, format, args...))
}

// syntaxError reports a structural problem at tok without repairing
func (p *Parser) syntaxError(tok *token.Token, format string, args ...interface{}) {
	p.reportAt(problem.SyntaxError, tok, format, args...)
}

// endStatement requires a statement terminator
func (p *Parser) endStatement() {
	if p.buf.MatchOptionalSemicolon() {
		return
	}
	p.fail(token.Semicolon, "expected ';' but found '%s'", describeToken(p.lt()))
	if tok := p.lt(); tok.Kind == token.Semicolon && tok.Implicit {
		p.consume()
	}
}
