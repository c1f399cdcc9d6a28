package parser

import (
	"strings"

	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/confvar"
	"github.com/apache/royale-compiler-sub012/internal/lexer"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// parseExpression parses a comma expression. With noIn set, 'in' ends the
// expression instead of acting as an operator.
func (p *Parser) parseExpression(noIn bool) *ast.Node {
	var n *ast.Node
	p.withNoIn(noIn, func() {
		n = p.parseBinary(precComma)
	})
	return n
}

// parseAssignmentExpression parses an expression without a top-level comma
func (p *Parser) parseAssignmentExpression() *ast.Node {
	return p.parseBinary(precAssignment)
}

// parseBinary is the precedence climbing loop. Assignment and the
// conditional operator associate to the right; everything else to the
// left.
func (p *Parser) parseBinary(min int) *ast.Node {
	left := p.parseUnary()
	for {
		op := p.lt()
		prec := precedence(op.Kind, p.ctx.noIn)
		if prec == precNone || prec < min {
			return left
		}
		p.consume()
		switch prec {
		case precAssignment:
			right := p.parseBinary(precAssignment)
			left = operatorNode(ast.KindAssignment, op, left, right)
		case precConditional:
			cond := operatorNode(ast.KindConditional, op, left)
			var then *ast.Node
			p.withNoIn(false, func() {
				then = p.parseBinary(precAssignment)
			})
			cond.AddChild(then)
			p.expect(token.Colon)
			cond.AddChild(p.parseBinary(precAssignment))
			left = cond
		default:
			right := p.parseBinary(prec + 1)
			left = operatorNode(ast.KindBinary, op, left, right)
		}
	}
}

func operatorNode(kind ast.Kind, op *token.Token, operands ...*ast.Node) *ast.Node {
	first := operands[0]
	n := &ast.Node{
		Kind:   kind,
		Start:  first.Start,
		End:    first.End,
		Line:   first.Line,
		Column: first.Column,
		Path:   first.Path,
		Text:   op.Text,
		Op:     op.Kind,
	}
	if kind == ast.KindConditional {
		n.Text = "?"
	}
	for _, o := range operands {
		n.AddChild(o)
	}
	return n
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.la() {
	case token.OperatorNot, token.OperatorBitNot, token.OperatorMinus, token.OperatorPlus,
		token.OperatorIncrement, token.OperatorDecrement,
		token.KeywordDelete, token.KeywordTypeof, token.KeywordVoid:
		op := p.consume()
		n := node(ast.KindPrefix, op)
		n.Text = op.Text
		n.Op = op.Kind
		n.AddChild(p.parseUnary())
		return n
	}
	return p.parsePostfix()
}

// parsePostfix applies ++ and -- only when they stay on the operand's
// line; otherwise they start the next statement.
func (p *Parser) parsePostfix() *ast.Node {
	operand := p.parseLeftHandSide()
	switch p.la() {
	case token.OperatorIncrement, token.OperatorDecrement:
		if p.buf.OnNewLine() {
			return operand
		}
		op := p.consume()
		n := operatorNode(ast.KindPostfix, op, operand)
		n.Extend(op.End)
		return n
	}
	return operand
}

func (p *Parser) parseLeftHandSide() *ast.Node {
	var e *ast.Node
	if p.la() == token.KeywordNew {
		e = p.parseNew()
	} else {
		e = p.parsePrimary()
	}
	return p.parseMemberChain(e, true)
}

func (p *Parser) parseNew() *ast.Node {
	newTok := p.consume()
	if p.la() == token.TypedLiteralOpen {
		return p.parseVectorLiteral(newTok)
	}
	n := node(ast.KindNew, newTok)
	var target *ast.Node
	if p.la() == token.KeywordNew {
		target = p.parseNew()
	} else {
		target = p.parsePrimary()
	}
	n.AddChild(p.parseMemberChain(target, false))
	if p.la() == token.ParenOpen {
		n.AddChild(p.parseArguments())
	}
	return p.finish(n)
}

// parseVectorLiteral parses new <T>[a, b]
func (p *Parser) parseVectorLiteral(newTok *token.Token) *ast.Node {
	n := node(ast.KindVectorLiteral, newTok)
	p.consume()
	n.AddChild(p.parseTypeExpression())
	p.expect(token.TypedCollectionClose)
	if p.la() == token.SquareOpen {
		for _, el := range p.parseArrayLiteral().Children {
			n.AddChild(el)
		}
	} else {
		p.expect(token.SquareOpen)
	}
	return p.finish(n)
}

func wrap(kind ast.Kind, children ...*ast.Node) *ast.Node {
	first := children[0]
	n := &ast.Node{
		Kind:   kind,
		Start:  first.Start,
		End:    first.End,
		Line:   first.Line,
		Column: first.Column,
		Path:   first.Path,
	}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

func (p *Parser) parseMemberChain(e *ast.Node, allowCall bool) *ast.Node {
	for {
		switch p.la() {
		case token.Dot:
			p.consume()
			switch p.la() {
			case token.ParenOpen:
				p.consume()
				var filter *ast.Node
				p.withNoIn(false, func() {
					filter = p.parseExpression(false)
				})
				e = wrap(ast.KindFilter, e, filter)
				p.expect(token.ParenClose)
			case token.AtSign:
				e = wrap(ast.KindMemberAccess, e, p.parseAttribute())
			default:
				e = wrap(ast.KindMemberAccess, e, p.parseMemberName())
			}
		case token.DescendantAccess:
			p.consume()
			if p.la() == token.AtSign {
				e = wrap(ast.KindDescendant, e, p.parseAttribute())
			} else {
				e = wrap(ast.KindDescendant, e, p.parseMemberName())
			}
		case token.SquareOpen:
			p.consume()
			var index *ast.Node
			p.withNoIn(false, func() {
				index = p.parseExpression(false)
			})
			e = wrap(ast.KindIndex, e, index)
			p.expect(token.SquareClose)
		case token.TypedCollectionOpen:
			p.consume()
			e = wrap(ast.KindTypedExpression, e, p.parseTypeExpression())
			p.expect(token.TypedCollectionClose)
		case token.DoubleColon:
			e = p.parseNamespaceAccess(e)
			continue
		case token.ParenOpen:
			if !allowCall {
				return e
			}
			e = wrap(ast.KindCall, e, p.parseArguments())
		default:
			return e
		}
		p.finish(e)
	}
}

// isName reports whether tok can serve as a name after '.', '::' or in an
// object literal
func isName(tok *token.Token) bool {
	switch tok.Kind {
	case token.Identifier, token.NamespaceName, token.NamespaceAnnotation:
		return true
	}
	return tok.Kind.IsKeywordOrContextual()
}

func (p *Parser) parseMemberName() *ast.Node {
	tok := p.lt()
	switch {
	case tok.Kind == token.OperatorStar:
		p.consume()
		return ast.FromToken(ast.KindStar, tok)
	case isName(tok):
		p.consume()
		return ast.FromToken(ast.KindIdentifier, tok)
	}
	if name := p.expect(token.Identifier); name != nil {
		return ast.FromToken(ast.KindIdentifier, name)
	}
	return p.errorNode()
}

// parseAttribute parses @name, @[expr] and @*
func (p *Parser) parseAttribute() *ast.Node {
	at := p.consume()
	n := node(ast.KindAttribute, at)
	switch p.la() {
	case token.SquareOpen:
		p.consume()
		n.AddChild(wrap(ast.KindIndex, p.parseExpression(false)))
		p.expect(token.SquareClose)
	default:
		name := p.parseMemberName()
		if p.la() == token.DoubleColon {
			name = p.parseNamespaceAccess(name)
		}
		n.AddChild(name)
	}
	return p.finish(n)
}

func (p *Parser) parseNamespaceAccess(left *ast.Node) *ast.Node {
	p.consume()
	var right *ast.Node
	switch p.la() {
	case token.SquareOpen:
		open := p.consume()
		right = node(ast.KindIndex, open)
		right.AddChild(p.parseExpression(false))
		p.expect(token.SquareClose)
		p.finish(right)
	default:
		right = p.parseMemberName()
	}
	return p.buildNamespaceAccess(left, right)
}

// buildNamespaceAccess shapes left::right by the kind of left. A config
// namespace qualifying a plain name is folded right away; a dotted name is
// a package-qualified namespace; a member access applies the namespace to
// its last name.
func (p *Parser) buildNamespaceAccess(left, right *ast.Node) *ast.Node {
	switch left.Kind {
	case ast.KindIdentifier:
		if right.Kind == ast.KindIdentifier && p.config.IsConfigNamespace(left.Text) {
			access := wrap(ast.KindNamespaceAccess, left, right)
			v := p.config.EvaluateConstNodeExpression(access)
			n := wrap(ast.KindConfigExpression, left)
			n.Children = nil
			n.Extend(right.End)
			n.Text = left.Text + "::" + right.Text
			n.Value = v
			return n
		}
	case ast.KindMemberAccess:
		if name, ok := dottedName(left); ok {
			q := wrap(ast.KindQualifiedName, left)
			q.Children = nil
			q.Text = name
			return wrap(ast.KindNamespaceAccess, q, right)
		}
		last := len(left.Children) - 1
		left.Children[last] = p.buildNamespaceAccess(left.Children[last], right)
		left.Extend(right.End)
		return left
	}
	return wrap(ast.KindNamespaceAccess, left, right)
}

// dottedName flattens a.b.c built only from identifiers
func dottedName(n *ast.Node) (string, bool) {
	switch n.Kind {
	case ast.KindIdentifier:
		return n.Text, true
	case ast.KindMemberAccess:
		if n.Len() != 2 || n.Child(1).Kind != ast.KindIdentifier {
			return "", false
		}
		prefix, ok := dottedName(n.Child(0))
		if !ok {
			return "", false
		}
		return prefix + "." + n.Child(1).Text, true
	}
	return "", false
}

func (p *Parser) parseArguments() *ast.Node {
	open := p.consume()
	args := node(ast.KindArguments, open)
	p.withNoIn(false, func() {
		for p.la() != token.ParenClose && p.la() != token.EOF {
			args.AddChild(p.parseAssignmentExpression())
			if p.match(token.Comma) == nil {
				break
			}
		}
	})
	p.expect(token.ParenClose)
	return p.finish(args)
}

func (p *Parser) errorNode() *ast.Node {
	return ast.New(ast.KindError, p.lt().Start, p.lt().Start).At(p.lt())
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.lt()
	switch tok.Kind {
	case token.Identifier, token.NamespaceName:
		p.consume()
		return ast.FromToken(ast.KindIdentifier, tok)
	case token.NamespaceAnnotation:
		p.consume()
		if strings.Contains(tok.Text, ".") {
			return ast.FromToken(ast.KindQualifiedName, tok)
		}
		return ast.FromToken(ast.KindIdentifier, tok)
	case token.LiteralNumber:
		p.consume()
		return ast.FromToken(ast.KindNumber, tok)
	case token.LiteralString:
		p.consume()
		n := ast.FromToken(ast.KindString, tok)
		n.Text = lexer.StringValue(tok.Text)
		return n
	case token.LiteralRegExp:
		p.consume()
		return ast.FromToken(ast.KindRegExp, tok)
	case token.KeywordTrue, token.KeywordFalse:
		p.consume()
		return ast.FromToken(ast.KindBoolean, tok)
	case token.KeywordNull:
		p.consume()
		return ast.FromToken(ast.KindNull, tok)
	case token.KeywordThis:
		p.consume()
		return ast.FromToken(ast.KindThis, tok)
	case token.KeywordSuper:
		p.consume()
		return ast.FromToken(ast.KindSuper, tok)
	case token.Void0:
		p.consume()
		return ast.FromToken(ast.KindUndefinedVoid, tok)
	case token.OperatorStar:
		p.consume()
		return ast.FromToken(ast.KindStar, tok)
	case token.ParenOpen:
		p.consume()
		n := node(ast.KindParenthesized, tok)
		p.withNoIn(false, func() {
			n.AddChild(p.parseExpression(false))
		})
		p.expect(token.ParenClose)
		return p.finish(n)
	case token.SquareOpen:
		return p.parseArrayLiteral()
	case token.BlockOpen:
		return p.parseObjectLiteral()
	case token.KeywordFunction:
		fn := node(ast.KindFunctionExpression, p.consume())
		if isName(p.lt()) {
			fn.Text = p.consume().Text
		}
		p.parseFunctionRest(fn)
		return fn
	case token.KeywordNew:
		return p.parseNew()
	case token.AtSign:
		return p.parseAttribute()
	case token.E4XOpenTagStart, token.E4XListOpen, token.E4XComment,
		token.E4XCData, token.E4XProcessingInstruction:
		return p.parseXMLLiteral()
	}

	if p.fail(token.Identifier, "unexpected '%s'", describeToken(tok)) {
		return p.parsePrimary()
	}
	return p.errorNode()
}

func (p *Parser) parseArrayLiteral() *ast.Node {
	open := p.consume()
	n := node(ast.KindArrayLiteral, open)
	p.withNoIn(false, func() {
		for p.la() != token.SquareClose && p.la() != token.EOF {
			if p.match(token.Comma) != nil {
				continue
			}
			n.AddChild(p.parseAssignmentExpression())
			if p.la() != token.SquareClose && p.match(token.Comma) == nil {
				break
			}
		}
	})
	p.expect(token.SquareClose)
	return p.finish(n)
}

func (p *Parser) parseObjectLiteral() *ast.Node {
	open := p.consume()
	n := node(ast.KindObjectLiteral, open)
	p.withNoIn(false, func() {
		for p.la() != token.BlockClose && p.la() != token.EOF {
			n.AddChild(p.parseObjectField())
			if p.match(token.Comma) == nil {
				break
			}
		}
	})
	p.expect(token.BlockClose)
	return p.finish(n)
}

func (p *Parser) parseObjectField() *ast.Node {
	tok := p.lt()
	field := node(ast.KindObjectField, tok)
	switch {
	case tok.Kind == token.LiteralString:
		p.consume()
		field.Text = lexer.StringValue(tok.Text)
	case tok.Kind == token.LiteralNumber || isName(tok):
		p.consume()
		field.Text = tok.Text
	default:
		if p.fail(token.Identifier, "expected a field name but found '%s'", describeToken(tok)) && isName(p.lt()) {
			field.Text = p.consume().Text
		}
	}
	p.expect(token.Colon)
	field.AddChild(p.parseAssignmentExpression())
	return p.finish(field)
}

// parseTypeExpression parses *, void, a.b.C and Vector.<T>
func (p *Parser) parseTypeExpression() *ast.Node {
	switch p.la() {
	case token.OperatorStar:
		return ast.FromToken(ast.KindStar, p.consume())
	case token.KeywordVoid:
		return ast.FromToken(ast.KindIdentifier, p.consume())
	}
	name := p.parseQualifiedName()
	if p.la() == token.TypedCollectionOpen {
		p.consume()
		name = wrap(ast.KindTypedExpression, name, p.parseTypeExpression())
		p.expect(token.TypedCollectionClose)
		p.finish(name)
	}
	return name
}

// parseQualifiedName parses a.b.c into one name node
func (p *Parser) parseQualifiedName() *ast.Node {
	first := p.expectName()
	if first == nil {
		return p.errorNode()
	}
	n := ast.FromToken(ast.KindIdentifier, first)
	for p.la() == token.Dot && isName(p.buf.LT(2)) {
		p.consume()
		part := p.consume()
		n.Kind = ast.KindQualifiedName
		n.Text += "." + part.Text
		n.Extend(part.End)
	}
	if strings.Contains(n.Text, ".") {
		n.Kind = ast.KindQualifiedName
	}
	return n
}

// configValue folds ns::name for a conditional compilation directive
func (p *Parser) configValue(nsTok, nameTok *token.Token) interface{} {
	access := wrap(ast.KindNamespaceAccess,
		ast.FromToken(ast.KindIdentifier, nsTok),
		ast.FromToken(ast.KindIdentifier, nameTok))
	v := p.config.EvaluateConstNodeExpression(access)
	if confvar.IsUnknown(v) {
		return false
	}
	return v
}
