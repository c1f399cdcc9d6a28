package parser

import (
	"strings"

	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// xmlTag is an open element waiting for its closing tag
type xmlTag struct {
	name string
	tok  *token.Token
}

// parseXMLLiteral parses an XML or XMLList literal. Each literal keeps its
// own stack of open tags; what is left on it at the end is unclosed.
func (p *Parser) parseXMLLiteral() *ast.Node {
	var stack []xmlTag
	tok := p.lt()
	var root *ast.Node
	if tok.Kind == token.E4XListOpen {
		root = node(ast.KindXMLList, p.consume())
		p.parseXMLContent(root, &stack)
		p.expect(token.E4XListClose)
	} else {
		root = node(ast.KindXML, tok)
		root.AddChild(p.parseXMLNode(&stack))
	}
	for i := len(stack) - 1; i >= 0; i-- {
		open := stack[i]
		p.reportAt(problem.XMLUnclosedTag, open.tok, "XML tag <%s> is not closed", open.name)
	}
	return p.finish(root)
}

func (p *Parser) parseXMLNode(stack *[]xmlTag) *ast.Node {
	tok := p.lt()
	switch tok.Kind {
	case token.E4XOpenTagStart:
		return p.parseXMLElement(stack)
	case token.E4XText, token.E4XEntity, token.E4XCData, token.E4XComment, token.E4XProcessingInstruction:
		p.consume()
		n := ast.FromToken(ast.KindXMLText, tok)
		n.Op = tok.Kind
		return n
	case token.E4XBindingOpen:
		return p.parseXMLBinding()
	}
	p.fail(token.E4XOpenTagStart, "expected XML but found '%s'", describeToken(tok))
	return p.errorNode()
}

func (p *Parser) parseXMLElement(stack *[]xmlTag) *ast.Node {
	open := p.consume()
	el := node(ast.KindXMLElement, open)
	el.Text = strings.TrimPrefix(open.Text, "<")
	if el.Text == "" && p.la() == token.E4XBindingOpen {
		el.AddChild(p.parseXMLBinding())
	}
	*stack = append(*stack, xmlTag{name: el.Text, tok: open})
	p.parseXMLAttributes(el)

	switch p.la() {
	case token.E4XEmptyTagEnd:
		p.consume()
		*stack = (*stack)[:len(*stack)-1]
		return p.finish(el)
	case token.E4XTagEnd:
		p.consume()
	default:
		p.fail(token.E4XTagEnd, "expected '>' but found '%s'", describeToken(p.lt()))
		return p.finish(el)
	}

	p.parseXMLContent(el, stack)
	if p.la() != token.E4XCloseTagStart {
		return p.finish(el)
	}
	closeTok := p.consume()
	name := strings.TrimPrefix(closeTok.Text, "</")
	if name == "" && p.la() == token.E4XBindingOpen {
		p.parseXMLBinding()
	} else if name != el.Text {
		p.reportAt(problem.XMLTagMismatch, closeTok, "closing tag </%s> does not match <%s>", name, el.Text)
	}
	*stack = (*stack)[:len(*stack)-1]
	p.expect(token.E4XTagEnd)
	return p.finish(el)
}

// parseXMLAttributes parses name="value", name={expr} and {expr}
func (p *Parser) parseXMLAttributes(el *ast.Node) {
	for {
		switch p.la() {
		case token.E4XName:
			nameTok := p.consume()
			attr := ast.FromToken(ast.KindAttribute, nameTok)
			if p.match(token.E4XEquals) != nil {
				switch p.la() {
				case token.E4XString:
					s := p.consume()
					value := ast.FromToken(ast.KindString, s)
					value.Text = unquoteXML(s.Text)
					attr.AddChild(value)
				case token.E4XBindingOpen:
					attr.AddChild(p.parseXMLBinding())
				default:
					p.fail(token.E4XString, "expected an attribute value but found '%s'", describeToken(p.lt()))
				}
			}
			el.AddChild(p.finish(attr))
		case token.E4XBindingOpen:
			el.AddChild(p.parseXMLBinding())
		default:
			return
		}
	}
}

// parseXMLContent parses children up to a closing tag or the end of input
func (p *Parser) parseXMLContent(parent *ast.Node, stack *[]xmlTag) {
	for {
		switch p.la() {
		case token.EOF, token.E4XCloseTagStart, token.E4XListClose:
			return
		}
		before := p.lt()
		parent.AddChild(p.parseXMLNode(stack))
		if p.lt() == before {
			p.consume()
		}
	}
}

func (p *Parser) parseXMLBinding() *ast.Node {
	n := node(ast.KindXMLBinding, p.consume())
	p.withNoIn(false, func() {
		n.AddChild(p.parseExpression(false))
	})
	p.expect(token.E4XBindingClose)
	return p.finish(n)
}

func unquoteXML(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
