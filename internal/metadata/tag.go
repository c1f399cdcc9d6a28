package metadata

import (
	"strings"

	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// Attribute is one key/value pair of a tag. Key is empty for positional
// values such as [Bindable("change")].
type Attribute struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// Tag is a parsed metadata tag
type Tag struct {
	Name       string      `json:"name"`
	Known      bool        `json:"known"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
}

// Value returns the value of the first attribute with the given key
func (t *Tag) Value(key string) (string, bool) {
	for _, a := range t.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (t *Tag) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(t.Name)
	if len(t.Attributes) > 0 {
		b.WriteByte('(')
		for i, a := range t.Attributes {
			if i > 0 {
				b.WriteString(", ")
			}
			if a.Key != "" {
				b.WriteString(a.Key)
				b.WriteByte('=')
			}
			b.WriteByte('"')
			b.WriteString(a.Value)
			b.WriteByte('"')
		}
		b.WriteByte(')')
	}
	b.WriteByte(']')
	return b.String()
}

type tagParser struct {
	toks     []*token.Token
	pos      int
	problems *problem.List
}

// Parse applies the metadata grammar to a payload:
//
//	tag   := '[' name ( '(' attr* ')' )? ']'
//	attr  := attrName? value
//	value := string | identifier | number | '{' ... '}'
//
// It returns nil when the payload does not start with a tag name.
func Parse(payload []*token.Token, problems *problem.List) *Tag {
	if problems == nil {
		problems = problem.NewList()
	}
	p := &tagParser{toks: payload, problems: problems}
	return p.parse()
}

func (p *tagParser) peek() *token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return nil
}

func (p *tagParser) next() *token.Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *tagParser) fail(tok *token.Token, format string, args ...interface{}) {
	if tok == nil && len(p.toks) > 0 {
		tok = p.toks[len(p.toks)-1]
	}
	p.problems.AddForToken(tok, problem.At(problem.MalformedMetadata, tok, format, args...))
}

func (p *tagParser) parse() *Tag {
	open := p.next()
	if open == nil || open.Kind != token.MetaOpenBracket {
		p.fail(open, "metadata must start with '['")
		return nil
	}
	name := p.next()
	if name == nil || (name.Kind != token.MetaKeyword && name.Kind != token.MetaUnknownKeyword) {
		p.fail(name, "expected metadata name")
		return nil
	}
	tag := &Tag{Name: name.Text, Known: name.Kind == token.MetaKeyword, Start: open.Start, End: name.End}

	if tok := p.peek(); tok != nil && tok.Kind == token.MetaOpenParen {
		p.next()
		p.parseAttributes(tag)
	}

	closeTok := p.next()
	if closeTok == nil || closeTok.Kind != token.MetaCloseBracket {
		p.fail(closeTok, "expected ']' to close metadata %s", tag.Name)
		if closeTok != nil {
			tag.End = closeTok.End
		}
		return tag
	}
	tag.End = closeTok.End
	return tag
}

func (p *tagParser) parseAttributes(tag *Tag) {
	for {
		tok := p.peek()
		switch {
		case tok == nil:
			p.fail(nil, "unterminated attribute list in metadata %s", tag.Name)
			return
		case tok.Kind == token.MetaCloseParen:
			p.next()
			return
		case tok.Kind == token.MetaCloseBracket:
			p.fail(tok, "expected ')' in metadata %s", tag.Name)
			return
		case tok.Kind == token.MetaAttrName:
			p.next()
			value, ok := p.parseValue()
			if !ok {
				p.fail(p.peek(), "expected value for attribute %s", tok.Text)
				continue
			}
			tag.Attributes = append(tag.Attributes, Attribute{Key: tok.Text, Value: value})
		default:
			value, ok := p.parseValue()
			if !ok {
				p.fail(tok, "unexpected %s in metadata %s", tok.Kind, tag.Name)
				p.next()
				continue
			}
			tag.Attributes = append(tag.Attributes, Attribute{Value: value})
		}
	}
}

func (p *tagParser) parseValue() (string, bool) {
	tok := p.peek()
	if tok == nil {
		return "", false
	}
	switch tok.Kind {
	case token.MetaString, token.MetaIdentifier, token.MetaNumber, token.MetaKeyword, token.MetaUnknownKeyword:
		p.next()
		return tok.Text, true
	case token.MetaOpenBrace:
		p.next()
		var b strings.Builder
		b.WriteByte('{')
		depth := 1
		for depth > 0 {
			t := p.next()
			if t == nil || t.Kind == token.MetaCloseBracket {
				return b.String(), true
			}
			switch t.Kind {
			case token.MetaOpenBrace:
				depth++
			case token.MetaCloseBrace:
				depth--
			}
			b.WriteString(t.Text)
		}
		return b.String(), true
	}
	return "", false
}
