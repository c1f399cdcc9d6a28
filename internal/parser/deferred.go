package parser

import (
	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/source"
	"github.com/apache/royale-compiler-sub012/internal/token"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// parseDeferredBody skips a function body by balancing braces and records
// its span on fn. The text is read back from the file only when asked to
// and when no include was expanded inside the body.
func (p *Parser) parseDeferredBody(fn *ast.Node) *ast.Node {
	open := p.consume()
	n := node(ast.KindDeferredBody, open)
	included := false
	for depth := 1; depth > 0; {
		tok := p.lt()
		if tok.Kind == token.EOF {
			p.reportAt(problem.MissingToken, tok, "expected '}' to close the body of %s", describeFunction(fn))
			break
		}
		p.consume()
		switch tok.Kind {
		case token.BlockOpen:
			depth++
		case token.BlockClose:
			depth--
		case token.ReservedInclude:
			included = true
		}
		if tok.SourcePath != open.SourcePath {
			included = true
		}
	}
	p.finish(n)

	body := &ast.BodySpan{Start: n.Start, End: n.End}
	if p.opts.CaptureDeferredText && !included {
		body.Text, body.HasText = p.captureText(open, n.End)
	}
	n.Body = body
	fn.Body = body
	return n
}

func describeFunction(fn *ast.Node) string {
	if fn.Text == "" {
		return "function"
	}
	return "function " + fn.Text
}

// captureText reads [open.Start, end) from the file open came from. A span
// that an offset cue falls into crosses an include and is not captured.
func (p *Parser) captureText(open *token.Token, end int) (string, bool) {
	if p.tz == nil || p.opts.Provider == nil {
		return "", false
	}
	lookup := p.tz.OffsetLookup()
	for _, cue := range lookup.Cues() {
		if cue.Absolute > open.Start && cue.Absolute < end {
			return "", false
		}
	}
	file, start, ok := lookup.Lookup(open.Start)
	if !ok {
		file, start = open.SourcePath, open.Start
	}
	text, err := source.ReadSpan(p.opts.Provider, file, start, start+end-open.Start)
	if err != nil {
		p.logger.Debug("Deferred body text not captured", aslog.Fields{
			"path":  file,
			"error": err.Error(),
		})
		return "", false
	}
	return text, true
}
