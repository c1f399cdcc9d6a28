package lexer

import (
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// E4X scanning. An XML literal pushes a tag frame on '<name'; the frame is
// replaced by a content frame at '>' and content frames are popped at '</'.
// Bindings ('{...}') push a code frame that counts braces.

func (l *Lexer) scanXMLName() {
	for !l.atEnd() && isXMLNameRune(l.peekRune()) {
		l.advance()
	}
}

func (l *Lexer) scanOpenTagStart() *token.Token {
	l.advance()
	l.scanXMLName()
	l.push(frame{mode: modeXMLTag})
	return l.emit(token.E4XOpenTagStart)
}

func (l *Lexer) scanCloseTagStart() *token.Token {
	l.advanceN(2)
	l.scanXMLName()
	l.pop()
	l.push(frame{mode: modeXMLTag, closing: true})
	return l.emit(token.E4XCloseTagStart)
}

// scanUntil consumes input up to and including terminator. It returns false
// when the input ended first.
func (l *Lexer) scanUntil(terminator string) bool {
	for !l.atEnd() {
		if l.hasPrefix(terminator) {
			l.advanceN(len(terminator))
			return true
		}
		l.advance()
	}
	return false
}

func (l *Lexer) scanDelimited(kind token.Kind, open, close, what string) *token.Token {
	l.advanceN(len(open))
	terminated := l.scanUntil(close)
	tok := l.emit(kind)
	if !terminated {
		l.report(problem.UnterminatedLiteral, tok, "unterminated %s", what)
	}
	return tok
}

func (l *Lexer) scanXMLComment() *token.Token {
	return l.scanDelimited(token.E4XComment, "<!--", "-->", "XML comment")
}

func (l *Lexer) scanCData() *token.Token {
	return l.scanDelimited(token.E4XCData, "<![CDATA[", "]]>", "CDATA section")
}

func (l *Lexer) scanProcessingInstruction() *token.Token {
	return l.scanDelimited(token.E4XProcessingInstruction, "<?", "?>", "XML processing instruction")
}

func (l *Lexer) scanXMLTag() *token.Token {
	l.skipWhitespace()
	l.mark()
	if l.atEnd() {
		return l.make(token.EOF, "")
	}

	c := l.src[l.pos]
	switch c {
	case '>':
		f := l.pop()
		if !f.closing {
			l.push(frame{mode: modeXMLContent})
		}
		return l.op(token.E4XTagEnd, 1)
	case '/':
		if l.peek(1) == '>' {
			l.pop()
			return l.op(token.E4XEmptyTagEnd, 2)
		}
	case '=':
		return l.op(token.E4XEquals, 1)
	case '"', '\'':
		l.advance()
		terminated := l.scanUntil(string(c))
		tok := l.emit(token.E4XString)
		if !terminated {
			l.report(problem.UnterminatedLiteral, tok, "unterminated XML attribute value")
		}
		return tok
	case '{':
		l.push(frame{mode: modeBinding})
		return l.op(token.E4XBindingOpen, 1)
	}

	if isXMLNameStartByte(c) {
		l.scanXMLName()
		return l.emit(token.E4XName)
	}

	l.advance()
	tok := l.emit(token.Illegal)
	l.report(problem.IllegalCharacter, tok, "illegal character %q in XML tag", tok.Text)
	return tok
}

func (l *Lexer) scanXMLContent() *token.Token {
	l.mark()
	if l.atEnd() {
		return l.make(token.EOF, "")
	}

	switch {
	case l.hasPrefix("<!--"):
		return l.scanXMLComment()
	case l.hasPrefix("<![CDATA["):
		return l.scanCData()
	case l.hasPrefix("<?"):
		return l.scanProcessingInstruction()
	case l.hasPrefix("</>"):
		l.pop()
		return l.op(token.E4XListClose, 3)
	case l.hasPrefix("</"):
		return l.scanCloseTagStart()
	case l.src[l.pos] == '<' && (l.peek(1) == '{' || isXMLNameStartByte(l.peek(1))):
		return l.scanOpenTagStart()
	case l.src[l.pos] == '{':
		l.push(frame{mode: modeBinding})
		return l.op(token.E4XBindingOpen, 1)
	case l.src[l.pos] == '&':
		if tok := l.scanEntity(); tok != nil {
			return tok
		}
	}

	// text runs to the next markup character
	l.advance()
	for !l.atEnd() {
		c := l.src[l.pos]
		if c == '<' || c == '{' || c == '&' {
			break
		}
		l.advance()
	}
	return l.emit(token.E4XText)
}

func (l *Lexer) scanEntity() *token.Token {
	end := l.pos + 1
	for end < len(l.src) && end-l.pos <= 10 {
		c := l.src[end]
		if c == ';' {
			if end == l.pos+1 {
				return nil
			}
			l.advanceN(end + 1 - l.pos)
			return l.emit(token.E4XEntity)
		}
		if !(isHex(c) || c == '#' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c)) {
			return nil
		}
		end++
	}
	return nil
}
