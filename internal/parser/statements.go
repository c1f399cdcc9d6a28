package parser

import (
	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/confvar"
	"github.com/apache/royale-compiler-sub012/internal/lexer"
	"github.com/apache/royale-compiler-sub012/internal/metadata"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// parseDirectives parses directives into container until EOF or one of
// the stop kinds. A directive that consumes nothing has its first token
// dropped so the loop always advances.
func (p *Parser) parseDirectives(container *ast.Node, stop ...token.Kind) {
	for !p.atStop(stop) {
		before, index := p.lt(), p.buf.Index()
		container.AddChild(p.parseDirective(container))
		if p.lt() == before && p.buf.Index() == index {
			p.consume()
		}
	}
	p.flushPendingMeta(container)
}

func (p *Parser) atStop(stop []token.Kind) bool {
	k := p.la()
	if k == token.EOF {
		return true
	}
	for _, s := range stop {
		if k == s {
			return true
		}
	}
	return false
}

// parseDirective parses one directive. Metadata and ASDoc are held back
// for the next definition, so the result may be nil.
func (p *Parser) parseDirective(container *ast.Node) *ast.Node {
	tok := p.lt()
	switch tok.Kind {
	case token.ASDocComment:
		p.pendingDoc = p.consume()
		return nil
	case token.Attribute:
		p.consume()
		if tag := metadata.Parse(tok.Payload, p.problems); tag != nil {
			p.pendingMeta = append(p.pendingMeta, tag)
			p.pendingTokens = append(p.pendingTokens, tok)
		}
		return nil
	case token.Identifier:
		if p.atConditionalDirective() {
			return p.parseConditionalDirective(container)
		}
	}
	if p.atDefinitionStart() {
		return p.parseDefinition()
	}
	p.flushPendingMeta(container)
	p.pendingDoc = nil
	return p.parseStatement()
}

func (p *Parser) atDefinitionStart() bool {
	switch k := p.la(); k {
	case token.KeywordFunction:
		return p.buf.LA(2) != token.ParenOpen
	default:
		return k.IsDefinitionStart()
	}
}

// atConditionalDirective reports whether LT(1) starts NS::NAME followed
// by a block or a definition, with NS a config namespace
func (p *Parser) atConditionalDirective() bool {
	if p.buf.LA(2) != token.DoubleColon || p.buf.LA(3) != token.Identifier {
		return false
	}
	if !p.config.IsConfigNamespace(p.lt().Text) {
		return false
	}
	switch k := p.buf.LA(4); k {
	case token.BlockOpen, token.Attribute, token.ASDocComment:
		return true
	case token.KeywordFunction:
		return p.buf.LA(5) != token.ParenOpen
	default:
		return k.IsDefinitionStart()
	}
}

// parseConditionalDirective handles CONFIG::NAME { ... } and
// CONFIG::NAME <definition>. What follows is parsed either way; it is kept
// only when the condition is true.
func (p *Parser) parseConditionalDirective(container *ast.Node) *ast.Node {
	nsTok := p.consume()
	p.consume()
	nameTok := p.consume()
	value := p.configValue(nsTok, nameTok)
	keep := confvar.Truthy(value)

	if p.la() != token.BlockOpen {
		for p.la() == token.Attribute || p.la() == token.ASDocComment {
			p.parseDirective(container)
		}
		def := p.parseDirective(container)
		if !keep {
			return nil
		}
		return def
	}

	block := node(ast.KindConfigBlock, nsTok)
	block.Text = nsTok.Text + "::" + nameTok.Text
	block.Value = value
	p.consume()

	var leave func()
	if p.isGlobalContext() {
		leave = p.enterGroup()
	} else {
		leave = p.enterBlock()
	}
	body := ast.New(ast.KindBlock, 0, 0)
	p.parseDirectives(body, token.BlockClose)
	leave()
	p.expect(token.BlockClose)

	if keep {
		for _, c := range body.Children {
			block.AddChild(c)
		}
	}
	return p.finish(block)
}

// parseBodyStatement parses the body of if, while, for and friends
func (p *Parser) parseBodyStatement() *ast.Node {
	if p.atDefinitionStart() {
		return p.parseDefinition()
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() *ast.Node {
	tok := p.lt()
	switch tok.Kind {
	case token.BlockOpen:
		return p.parseBlock()
	case token.Semicolon:
		p.consume()
		return node(ast.KindEmpty, tok)
	case token.KeywordIf:
		return p.parseIf()
	case token.KeywordWhile:
		n := node(ast.KindWhile, p.consume())
		n.AddChild(p.parseCondition())
		n.AddChild(p.parseBodyStatement())
		return p.finish(n)
	case token.KeywordDo:
		return p.parseDoWhile()
	case token.KeywordFor, token.KeywordForEach:
		return p.parseFor()
	case token.KeywordSwitch:
		return p.parseSwitch()
	case token.KeywordTry:
		return p.parseTry()
	case token.KeywordThrow:
		n := node(ast.KindThrow, p.consume())
		n.AddChild(p.parseExpression(false))
		p.endStatement()
		return p.finish(n)
	case token.KeywordReturn:
		return p.parseReturn()
	case token.KeywordBreak, token.KeywordContinue:
		return p.parseJump()
	case token.KeywordWith:
		n := node(ast.KindWith, p.consume())
		n.AddChild(p.parseCondition())
		n.AddChild(p.parseBodyStatement())
		return p.finish(n)
	case token.DirectiveDefaultXML:
		n := node(ast.KindDefaultXMLNamespace, p.consume())
		p.expect(token.OperatorAssign)
		n.AddChild(p.parseAssignmentExpression())
		p.endStatement()
		return p.finish(n)
	case token.KeywordImport:
		return p.parseImport()
	case token.KeywordUse:
		return p.parseUseNamespace()
	case token.KeywordPackage:
		return p.parsePackage()
	case token.ReservedInclude:
		if p.buf.LA(2) == token.LiteralString {
			n := node(ast.KindInclude, p.consume())
			n.Text = lexer.StringValue(p.consume().Text)
			p.endStatement()
			return p.finish(n)
		}
	case token.Identifier:
		if p.buf.LA(2) == token.Colon {
			n := node(ast.KindLabeled, p.consume())
			n.Text = tok.Text
			p.consume()
			n.AddChild(p.parseBodyStatement())
			return p.finish(n)
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() *ast.Node {
	n := node(ast.KindExpressionStatement, p.lt())
	n.End = n.Start
	n.AddChild(p.parseExpression(false))
	p.endStatement()
	return p.finish(n)
}

func (p *Parser) parseBlock() *ast.Node {
	block := node(ast.KindBlock, p.lt())
	if p.expect(token.BlockOpen) == nil {
		block.End = block.Start
		return block
	}
	leave := p.enterBlock()
	p.parseDirectives(block, token.BlockClose)
	leave()
	p.expect(token.BlockClose)
	return p.finish(block)
}

// parseCondition parses '(' expression ')'
func (p *Parser) parseCondition() *ast.Node {
	p.expect(token.ParenOpen)
	var e *ast.Node
	p.withNoIn(false, func() {
		e = p.parseExpression(false)
	})
	p.expect(token.ParenClose)
	return e
}

func (p *Parser) parseIf() *ast.Node {
	n := node(ast.KindIf, p.consume())
	n.AddChild(p.parseCondition())
	n.AddChild(p.parseBodyStatement())
	if p.match(token.KeywordElse) != nil {
		n.AddChild(p.parseBodyStatement())
	}
	return p.finish(n)
}

func (p *Parser) parseDoWhile() *ast.Node {
	n := node(ast.KindDoWhile, p.consume())
	n.AddChild(p.parseBodyStatement())
	p.expect(token.KeywordWhile)
	n.AddChild(p.parseCondition())
	// the terminator of do-while is always optional
	p.match(token.Semicolon)
	return p.finish(n)
}

// emptyNode returns a zero-width placeholder at LT(1)
func (p *Parser) emptyNode() *ast.Node {
	n := node(ast.KindEmpty, p.lt())
	n.End = n.Start
	return n
}

// parseFor handles for (init; cond; update), for (x in o) and
// for each (x in o). The three-part form always has three children before
// the body; missing parts are empty nodes.
func (p *Parser) parseFor() *ast.Node {
	forTok := p.consume()
	each := forTok.Kind == token.KeywordForEach
	p.expect(token.ParenOpen)

	if each || p.isForIn() {
		kind := ast.KindForIn
		if each {
			kind = ast.KindForEach
		}
		n := node(kind, forTok)
		if p.la() == token.KeywordVar || p.la() == token.KeywordConst {
			n.AddChild(p.parseVariables(p.lt(), "", true))
		} else {
			n.AddChild(p.parseExpression(true))
		}
		p.expect(token.KeywordIn)
		n.AddChild(p.parseExpression(false))
		p.expect(token.ParenClose)
		n.AddChild(p.parseBodyStatement())
		return p.finish(n)
	}

	n := node(ast.KindFor, forTok)
	switch p.la() {
	case token.Semicolon:
		n.AddChild(p.emptyNode())
	case token.KeywordVar, token.KeywordConst:
		n.AddChild(p.parseVariables(p.lt(), "", true))
	default:
		n.AddChild(p.parseExpression(true))
	}
	p.expect(token.Semicolon)
	if p.la() == token.Semicolon {
		n.AddChild(p.emptyNode())
	} else {
		n.AddChild(p.parseExpression(false))
	}
	p.expect(token.Semicolon)
	if p.la() == token.ParenClose {
		n.AddChild(p.emptyNode())
	} else {
		n.AddChild(p.parseExpression(false))
	}
	p.expect(token.ParenClose)
	n.AddChild(p.parseBodyStatement())
	return p.finish(n)
}

// isForIn tells for (x in o) from the three-part form. It scans the head
// for 'in' at bracket depth zero before the first ';' or unmatched ')'.
// The scan only looks ahead and never marks the buffer, so the length of
// the head is not bounded by the rewind limit.
func (p *Parser) isForIn() bool {
	depth := 0
	for i := 1; ; i++ {
		k := p.buf.LA(i)
		switch {
		case k == token.EOF:
			return false
		case k.IsOpen():
			depth++
		case k.IsClose():
			if depth == 0 {
				return false
			}
			depth--
		case depth > 0:
		case k == token.Semicolon:
			return false
		case k == token.KeywordIn:
			return true
		}
	}
}

func (p *Parser) parseSwitch() *ast.Node {
	n := node(ast.KindSwitch, p.consume())
	n.AddChild(p.parseCondition())
	if p.expect(token.BlockOpen) == nil {
		return p.finish(n)
	}
	leave := p.enterBlock()
	defer leave()

	clauseStops := []token.Kind{token.BlockClose, token.KeywordCase, token.KeywordDefault}
	for !p.atStop([]token.Kind{token.BlockClose}) {
		var clause *ast.Node
		switch p.la() {
		case token.KeywordCase:
			clause = node(ast.KindCase, p.consume())
			p.withNoIn(false, func() {
				clause.AddChild(p.parseExpression(false))
			})
			p.expect(token.Colon)
		case token.KeywordDefault:
			clause = node(ast.KindDefault, p.consume())
			p.expect(token.Colon)
		default:
			p.syntaxError(p.lt(), "statement must be inside a case or default clause")
			p.parseDirectives(n, clauseStops...)
			continue
		}
		p.parseDirectives(clause, clauseStops...)
		n.AddChild(p.finish(clause))
	}
	p.expect(token.BlockClose)
	return p.finish(n)
}

func (p *Parser) parseTry() *ast.Node {
	tryTok := p.consume()
	n := node(ast.KindTry, tryTok)
	n.AddChild(p.parseBlock())
	handled := false
	for p.la() == token.KeywordCatch {
		handled = true
		c := node(ast.KindCatch, p.consume())
		p.expect(token.ParenOpen)
		if name := p.expectName(); name != nil {
			param := ast.FromToken(ast.KindParameter, name)
			if p.la() == token.Colon {
				param.AddChild(p.parseTypeAnnotation())
			}
			c.AddChild(param)
		}
		p.expect(token.ParenClose)
		c.AddChild(p.parseBlock())
		n.AddChild(p.finish(c))
	}
	if p.la() == token.KeywordFinally {
		handled = true
		f := node(ast.KindFinally, p.consume())
		f.AddChild(p.parseBlock())
		n.AddChild(p.finish(f))
	}
	if !handled {
		p.syntaxError(tryTok, "try must be followed by catch or finally")
	}
	return p.finish(n)
}

// parseReturn takes an expression only when one starts on the same line
func (p *Parser) parseReturn() *ast.Node {
	n := node(ast.KindReturn, p.consume())
	switch p.la() {
	case token.Semicolon, token.BlockClose, token.EOF:
	default:
		if !p.buf.OnNewLine() {
			n.AddChild(p.parseExpression(false))
		}
	}
	p.endStatement()
	return p.finish(n)
}

func (p *Parser) parseJump() *ast.Node {
	tok := p.consume()
	kind := ast.KindBreak
	if tok.Kind == token.KeywordContinue {
		kind = ast.KindContinue
	}
	n := node(kind, tok)
	if p.la() == token.Identifier && !p.buf.OnNewLine() {
		n.Text = p.consume().Text
	}
	p.endStatement()
	return p.finish(n)
}

// parseImport handles import a.b.C and import a.b.*
func (p *Parser) parseImport() *ast.Node {
	n := node(ast.KindImport, p.consume())
	if first := p.expectName(); first != nil {
		n.Text = first.Text
		for p.la() == token.Dot {
			p.consume()
			if star := p.match(token.OperatorStar); star != nil {
				n.Text += ".*"
				break
			}
			part := p.expectName()
			if part == nil {
				break
			}
			n.Text += "." + part.Text
		}
	}
	p.endStatement()
	return p.finish(n)
}

func (p *Parser) parseUseNamespace() *ast.Node {
	n := node(ast.KindUseNamespace, p.consume())
	p.expect(token.ReservedNamespace)
	for {
		name := p.parseQualifiedName()
		if n.Text != "" {
			n.Text += ","
		}
		n.Text += name.Text
		if p.match(token.Comma) == nil {
			break
		}
	}
	p.endStatement()
	return p.finish(n)
}

// parsePackage parses package a.b { ... }. Packages may only appear at
// file level and never nest.
func (p *Parser) parsePackage() *ast.Node {
	pkgTok := p.consume()
	n := node(ast.KindPackage, pkgTok)
	if p.ctx.packageDepth > 0 || !p.isGlobalContext() {
		p.syntaxError(pkgTok, "package can only be declared at file level")
	}
	if p.la() != token.BlockOpen {
		n.Text = p.parseQualifiedName().Text
	}
	if p.expect(token.BlockOpen) == nil {
		return p.finish(n)
	}
	leave := p.enterPackage()
	p.parseDirectives(n, token.BlockClose)
	leave()
	p.expect(token.BlockClose)
	return p.finish(n)
}
