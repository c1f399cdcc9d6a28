// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     metadata
// Description: Re-tokenizes the text of a bracketed metadata tag into
//              metadata tokens and parses them into tags.
// License:     Apache-2.0
// ============================================================================

package metadata

import (
	"strings"

	"github.com/apache/royale-compiler-sub012/internal/lexer"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// knownTags lists the metadata names the compiler recognizes. Anything else
// becomes an unknown-keyword token and is kept verbatim.
var knownTags = map[string]bool{
	"Accessibility":            true,
	"AccessibilityClass":       true,
	"Alternative":              true,
	"ArrayElementType":         true,
	"Bindable":                 true,
	"DefaultProperty":          true,
	"Deprecated":               true,
	"DiscouragedForProfile":    true,
	"Effect":                   true,
	"Embed":                    true,
	"Event":                    true,
	"Exclude":                  true,
	"ExcludeClass":             true,
	"Frame":                    true,
	"HostComponent":            true,
	"IconFile":                 true,
	"Inspectable":              true,
	"InstanceType":             true,
	"JSX":                      true,
	"Managed":                  true,
	"Mixin":                    true,
	"NonCommittingChangeEvent": true,
	"PercentProxy":             true,
	"RemoteClass":              true,
	"RequiresDataBinding":      true,
	"ResourceBundle":           true,
	"RichTextContent":          true,
	"SkinPart":                 true,
	"SkinState":                true,
	"States":                   true,
	"Style":                    true,
	"SWF":                      true,
	"Transient":                true,
	"Version":                  true,
}

// IsKnownTag reports whether name is a recognized metadata name
func IsKnownTag(name string) bool {
	return knownTags[name]
}

// NamespaceResolver turns a namespace-qualified metadata value such as
// CONFIG::VERSION into a literal string.
type NamespaceResolver interface {
	ResolveMetadataValue(namespace, name string) (string, bool)
}

// Tokenizer produces metadata tokens
type Tokenizer struct {
	resolver NamespaceResolver
	problems *problem.List
}

// NewTokenizer creates a metadata tokenizer. Both arguments may be nil.
func NewTokenizer(resolver NamespaceResolver, problems *problem.List) *Tokenizer {
	if problems == nil {
		problems = problem.NewList()
	}
	return &Tokenizer{resolver: resolver, problems: problems}
}

// Tokenize re-lexes the text of an attribute token and returns its payload.
// Offsets in the result are relative to the offsets of attr.
func (t *Tokenizer) Tokenize(attr *token.Token) []*token.Token {
	lx := lexer.New(attr.Text, lexer.Options{
		Path:       attr.SourcePath,
		BaseOffset: attr.Start,
		BaseLine:   attr.Line,
		BaseColumn: attr.Column,
		Problems:   problem.NewList(),
	})
	out := t.transform(lx.All())
	return t.collapseQualified(out)
}

func (t *Tokenizer) transform(raw []*token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(raw))
	inAttrList := false
	sawName := false

	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		switch tok.Kind {
		case token.SquareOpen:
			out = append(out, retype(tok, token.MetaOpenBracket, tok.Text))
		case token.SquareClose:
			out = append(out, retype(tok, token.MetaCloseBracket, tok.Text))
		case token.ParenOpen:
			inAttrList = true
			out = append(out, retype(tok, token.MetaOpenParen, tok.Text))
		case token.ParenClose:
			inAttrList = false
			out = append(out, retype(tok, token.MetaCloseParen, tok.Text))
		case token.BlockOpen:
			out = append(out, retype(tok, token.MetaOpenBrace, tok.Text))
		case token.BlockClose:
			out = append(out, retype(tok, token.MetaCloseBrace, tok.Text))
		case token.DoubleColon:
			out = append(out, retype(tok, token.MetaNamespaceQualifier, tok.Text))
		case token.LiteralString:
			out = append(out, retype(tok, token.MetaString, unquote(tok.Text)))
		case token.LiteralNumber, token.KeywordTrue, token.KeywordFalse:
			out = append(out, retype(tok, token.MetaNumber, tok.Text))
		case token.Comma, token.OperatorAssign:
			// separators carry no meaning once attribute names are typed
		case token.OperatorMinus:
			if i+1 < len(raw) && raw[i+1].Kind == token.LiteralNumber {
				n := raw[i+1]
				merged := retype(tok, token.MetaNumber, "-"+n.Text)
				merged.End = n.End
				out = append(out, merged)
				i++
				continue
			}
			t.invalid(tok)
		default:
			if !tok.Kind.IsIdentifierLike() {
				t.invalid(tok)
				continue
			}
			// a dotted run such as flash.events.Event is one value
			start := i
			text := tok.Text
			for i+2 < len(raw) && raw[i+1].Kind == token.Dot && raw[i+2].Kind.IsIdentifierLike() {
				text += "." + raw[i+2].Text
				i += 2
			}
			m := retype(tok, token.MetaIdentifier, text)
			m.End = raw[i].End
			switch {
			case !sawName && !inAttrList:
				sawName = true
				if knownTags[text] {
					m.Kind = token.MetaKeyword
				} else {
					m.Kind = token.MetaUnknownKeyword
				}
			case inAttrList && start == i && i+1 < len(raw) && raw[i+1].Kind == token.OperatorAssign:
				m.Kind = token.MetaAttrName
			}
			out = append(out, m)
		}
	}
	return out
}

// collapseQualified rewrites identifier :: identifier inside an attribute
// list into a single string token when the resolver knows the value.
func (t *Tokenizer) collapseQualified(in []*token.Token) []*token.Token {
	if t.resolver == nil {
		return in
	}
	out := make([]*token.Token, 0, len(in))
	inAttrList := false
	for i := 0; i < len(in); i++ {
		tok := in[i]
		switch tok.Kind {
		case token.MetaOpenParen:
			inAttrList = true
		case token.MetaCloseParen:
			inAttrList = false
		case token.MetaIdentifier:
			if inAttrList && i+2 < len(in) &&
				in[i+1].Kind == token.MetaNamespaceQualifier &&
				in[i+2].Kind == token.MetaIdentifier {
				if v, ok := t.resolver.ResolveMetadataValue(tok.Text, in[i+2].Text); ok {
					s := retype(tok, token.MetaString, v)
					s.End = in[i+2].End
					out = append(out, s)
					i += 2
					continue
				}
			}
		}
		out = append(out, tok)
	}
	return out
}

func (t *Tokenizer) invalid(tok *token.Token) {
	t.problems.AddForToken(tok, problem.At(problem.MalformedMetadata, tok,
		"unexpected %s in metadata", tok.Kind))
}

func retype(src *token.Token, kind token.Kind, text string) *token.Token {
	return &token.Token{
		Kind:       kind,
		Text:       text,
		Start:      src.Start,
		End:        src.End,
		Line:       src.Line,
		Column:     src.Column,
		EndLine:    src.EndLine,
		EndColumn:  src.EndColumn,
		SourcePath: src.SourcePath,
	}
}

func unquote(s string) string {
	if len(s) == 0 {
		return s
	}
	q := s[0]
	if q != '"' && q != '\'' {
		return s
	}
	s = s[1:]
	if strings.HasSuffix(s, string(q)) {
		s = s[:len(s)-1]
	}
	return s
}
