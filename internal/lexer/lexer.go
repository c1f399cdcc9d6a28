// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     lexer
// Description: Raw finite-state scanner for ActionScript 3 with E4X literals.
//              Produces primitive tokens with local offsets; lexical errors
//              are recorded as problems and scanning continues.
// License:     Apache-2.0
// ============================================================================

package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

type mode int

const (
	modeCode mode = iota
	modeXMLTag
	modeXMLContent
	modeBinding
)

type frame struct {
	mode    mode
	braces  int  // open braces inside a binding
	closing bool // xml tag frame belongs to a close tag
	list    bool // xml content frame belongs to an XMLList literal
}

// Options configures a Lexer
type Options struct {
	// Path is stamped on every token as SourcePath
	Path string
	// CollectComments emits line and block comments. ASDoc comments are
	// always emitted.
	CollectComments bool
	// BaseOffset, BaseLine and BaseColumn position the first byte of the
	// input, used when re-lexing a span of a larger file.
	BaseOffset int
	BaseLine   int
	BaseColumn int
	// Pool supplies token records; a private pool is used when nil
	Pool *token.Pool
	// Problems receives lexical diagnostics; a private list is used when nil
	Problems *problem.List
	// ProblemOffset, when set, is added to the span of every reported
	// problem. Tokens keep their local offsets.
	ProblemOffset func() int
}

// Lexer scans one source text
type Lexer struct {
	src  string
	pos  int
	line int
	col  int

	path            string
	base            int
	collectComments bool
	pool            *token.Pool
	problems        *problem.List
	problemOffset   func() int

	frames       []frame
	last         token.Kind
	hasLast      bool
	typeArgDepth int

	start     int
	startLine int
	startCol  int
}

// New creates a lexer over src
func New(src string, opts Options) *Lexer {
	l := &Lexer{
		src:             src,
		line:            1,
		col:             1,
		path:            opts.Path,
		base:            opts.BaseOffset,
		collectComments: opts.CollectComments,
		pool:            opts.Pool,
		problems:        opts.Problems,
		problemOffset:   opts.ProblemOffset,
		frames:          []frame{{mode: modeCode}},
	}
	if opts.BaseLine > 0 {
		l.line = opts.BaseLine
	}
	if opts.BaseColumn > 0 {
		l.col = opts.BaseColumn
	}
	if l.pool == nil {
		l.pool = token.NewPool(token.DefaultPoolSize)
	}
	if l.problems == nil {
		l.problems = problem.NewList()
	}
	if strings.HasPrefix(src, "\uFEFF") {
		l.pos = len("\uFEFF")
	}
	return l
}

// Problems returns the diagnostics collected so far
func (l *Lexer) Problems() *problem.List {
	return l.problems
}

// Path returns the source path
func (l *Lexer) Path() string {
	return l.path
}

// Source returns the text being scanned
func (l *Lexer) Source() string {
	return l.src
}

// Pool returns the token pool
func (l *Lexer) Pool() *token.Pool {
	return l.pool
}

// Next returns the next token. At end of input it keeps returning EOF.
func (l *Lexer) Next() *token.Token {
	for {
		tok := l.scan()
		if tok == nil {
			continue
		}
		if !tok.Kind.IsComment() {
			l.last = tok.Kind
			l.hasLast = true
			switch tok.Kind {
			case token.Semicolon, token.BlockOpen, token.BlockClose,
				token.ParenOpen, token.ParenClose, token.OperatorAssign:
				l.typeArgDepth = 0
			}
		}
		return tok
	}
}

// All scans the remaining input, excluding the final EOF token
func (l *Lexer) All() []*token.Token {
	var out []*token.Token
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func (l *Lexer) top() *frame {
	return &l.frames[len(l.frames)-1]
}

func (l *Lexer) push(f frame) {
	l.frames = append(l.frames, f)
}

func (l *Lexer) pop() frame {
	f := *l.top()
	if len(l.frames) > 1 {
		l.frames = l.frames[:len(l.frames)-1]
	}
	return f
}

// InXML reports whether the lexer is inside an XML literal
func (l *Lexer) InXML() bool {
	for _, f := range l.frames {
		if f.mode != modeCode {
			return true
		}
	}
	return false
}

func (l *Lexer) operandEnded() bool {
	return l.hasLast && l.last.CanEndOperand()
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

func (l *Lexer) peekRune() rune {
	if l.atEnd() {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.src[l.pos:], s)
}

// advance consumes one rune, maintaining line and column
func (l *Lexer) advance() rune {
	if l.atEnd() {
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += w
	switch {
	case r == '\r' && l.peek(0) == '\n':
		l.col++
	case isLineTerminator(r):
		l.line++
		l.col = 1
	default:
		l.col++
	}
	return r
}

func (l *Lexer) advanceN(n int) {
	end := l.pos + n
	for l.pos < end && !l.atEnd() {
		l.advance()
	}
}

func (l *Lexer) mark() {
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.col
}

func (l *Lexer) make(kind token.Kind, text string) *token.Token {
	t := l.pool.Get()
	t.Kind = kind
	t.Text = text
	t.Start = l.base + l.start
	t.End = l.base + l.pos
	t.Line = l.startLine
	t.Column = l.startCol
	t.EndLine = l.line
	t.EndColumn = l.col
	t.SourcePath = l.path
	return t
}

func (l *Lexer) emit(kind token.Kind) *token.Token {
	return l.make(kind, l.src[l.start:l.pos])
}

func (l *Lexer) op(kind token.Kind, n int) *token.Token {
	l.advanceN(n)
	return l.emit(kind)
}

func (l *Lexer) report(kind problem.Kind, tok *token.Token, format string, args ...interface{}) {
	l.problems.AddForToken(tok, l.place(problem.At(kind, tok, format, args...)))
}

func (l *Lexer) reportHere(kind problem.Kind, format string, args ...interface{}) {
	l.problems.Add(l.place(problem.AtPosition(kind, l.path, l.base+l.start, l.base+l.pos, l.startLine, l.startCol, format, args...)))
}

func (l *Lexer) place(p *problem.Problem) *problem.Problem {
	if l.problemOffset != nil {
		p.Shift(l.problemOffset())
	}
	return p
}

func (l *Lexer) scan() *token.Token {
	switch l.top().mode {
	case modeXMLTag:
		return l.scanXMLTag()
	case modeXMLContent:
		return l.scanXMLContent()
	}
	return l.scanCode()
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isWhitespace(l.peekRune()) {
		l.advance()
	}
}

func (l *Lexer) scanCode() *token.Token {
	l.skipWhitespace()
	l.mark()
	if l.atEnd() {
		return l.make(token.EOF, "")
	}

	c := l.src[l.pos]
	switch {
	case isDigit(c), c == '.' && isDigit(l.peek(1)):
		return l.scanNumber()
	case c == '\\':
		if r, _, ok := decodeEscape(l.src[l.pos:]); ok && isIdentStartRune(r) {
			return l.scanIdentifier()
		}
	case c < utf8.RuneSelf:
		if isIdentStartRune(rune(c)) {
			return l.scanIdentifier()
		}
	default:
		if isIdentStartRune(l.peekRune()) {
			return l.scanIdentifier()
		}
	}

	switch c {
	case '"', '\'':
		return l.scanString(c)
	case '/':
		switch {
		case l.peek(1) == '/':
			return l.scanLineComment()
		case l.peek(1) == '*':
			return l.scanBlockComment()
		case !l.operandEnded():
			return l.scanRegExp()
		case l.peek(1) == '=':
			return l.op(token.OperatorSlashAssign, 2)
		}
		return l.op(token.OperatorSlash, 1)
	case '<':
		return l.scanLess()
	case '>':
		return l.scanGreater()
	case '{':
		if f := l.top(); f.mode == modeBinding {
			f.braces++
		}
		return l.op(token.BlockOpen, 1)
	case '}':
		if f := l.top(); f.mode == modeBinding {
			if f.braces == 0 {
				l.pop()
				return l.op(token.E4XBindingClose, 1)
			}
			f.braces--
		}
		return l.op(token.BlockClose, 1)
	case '(':
		return l.op(token.ParenOpen, 1)
	case ')':
		return l.op(token.ParenClose, 1)
	case '[':
		return l.op(token.SquareOpen, 1)
	case ']':
		return l.op(token.SquareClose, 1)
	case ';':
		return l.op(token.Semicolon, 1)
	case ',':
		return l.op(token.Comma, 1)
	case '?':
		return l.op(token.Question, 1)
	case '~':
		return l.op(token.OperatorBitNot, 1)
	case '@':
		return l.op(token.AtSign, 1)
	case ':':
		if l.peek(1) == ':' {
			return l.op(token.DoubleColon, 2)
		}
		return l.op(token.Colon, 1)
	case '.':
		switch {
		case l.hasPrefix("..."):
			return l.op(token.Ellipsis, 3)
		case l.hasPrefix(".."):
			return l.op(token.DescendantAccess, 2)
		case l.hasPrefix(".<"):
			l.typeArgDepth++
			return l.op(token.TypedCollectionOpen, 2)
		}
		return l.op(token.Dot, 1)
	case '+':
		return l.scanOperator(token.OperatorPlus, spelling{"++", token.OperatorIncrement}, spelling{"+=", token.OperatorPlusAssign})
	case '-':
		return l.scanOperator(token.OperatorMinus, spelling{"--", token.OperatorDecrement}, spelling{"-=", token.OperatorMinusAssign})
	case '*':
		return l.scanOperator(token.OperatorStar, spelling{"*=", token.OperatorStarAssign})
	case '%':
		return l.scanOperator(token.OperatorPercent, spelling{"%=", token.OperatorPercentAssign})
	case '^':
		return l.scanOperator(token.OperatorBitXor, spelling{"^=", token.OperatorBitXorAssign})
	case '&':
		return l.scanOperator(token.OperatorBitAnd, spelling{"&&=", token.OperatorLogicalAndAssign}, spelling{"&&", token.OperatorLogicalAnd}, spelling{"&=", token.OperatorBitAndAssign})
	case '|':
		return l.scanOperator(token.OperatorBitOr, spelling{"||=", token.OperatorLogicalOrAssign}, spelling{"||", token.OperatorLogicalOr}, spelling{"|=", token.OperatorBitOrAssign})
	case '=':
		return l.scanOperator(token.OperatorAssign, spelling{"===", token.OperatorStrictEqual}, spelling{"==", token.OperatorEqual})
	case '!':
		return l.scanOperator(token.OperatorNot, spelling{"!==", token.OperatorStrictNotEqual}, spelling{"!=", token.OperatorNotEqual})
	}

	l.advance()
	tok := l.emit(token.Illegal)
	l.report(problem.IllegalCharacter, tok, "illegal character %q", tok.Text)
	return tok
}

type spelling struct {
	text string
	kind token.Kind
}

// scanOperator matches the longest of the given spellings, which must be
// listed longest first, falling back to the one-byte operator.
func (l *Lexer) scanOperator(single token.Kind, longer ...spelling) *token.Token {
	for _, sp := range longer {
		if l.hasPrefix(sp.text) {
			return l.op(sp.kind, len(sp.text))
		}
	}
	return l.op(single, 1)
}

func (l *Lexer) scanLess() *token.Token {
	if !l.operandEnded() {
		if l.hasLast && l.last == token.KeywordNew {
			l.typeArgDepth++
			return l.op(token.TypedLiteralOpen, 1)
		}
		next := l.peek(1)
		switch {
		case next == '>':
			l.push(frame{mode: modeXMLContent, list: true})
			return l.op(token.E4XListOpen, 2)
		case l.hasPrefix("<!--"):
			return l.scanXMLComment()
		case l.hasPrefix("<![CDATA["):
			return l.scanCData()
		case next == '?':
			return l.scanProcessingInstruction()
		case next == '{' || isXMLNameStartByte(next):
			return l.scanOpenTagStart()
		}
	}
	return l.scanOperator(token.OperatorLess, spelling{"<<=", token.OperatorShiftLeftAssign}, spelling{"<<", token.OperatorShiftLeft}, spelling{"<=", token.OperatorLessEqual})
}

func (l *Lexer) scanGreater() *token.Token {
	if l.typeArgDepth > 0 {
		l.typeArgDepth--
		return l.op(token.TypedCollectionClose, 1)
	}
	return l.scanOperator(token.OperatorGreater, spelling{">>>=", token.OperatorShiftRightUnsignedAssign}, spelling{">>>", token.OperatorShiftRightUnsigned}, spelling{">>=", token.OperatorShiftRightAssign}, spelling{">>", token.OperatorShiftRight}, spelling{">=", token.OperatorGreaterEqual})
}

func (l *Lexer) scanIdentifier() *token.Token {
	var b strings.Builder
	escaped := false
	for !l.atEnd() {
		if l.src[l.pos] == '\\' {
			r, n, ok := decodeEscape(l.src[l.pos:])
			if !ok || l.src[l.pos+1] != 'u' || !isIdentPartRune(r) {
				break
			}
			b.WriteRune(r)
			l.advanceN(n)
			escaped = true
			continue
		}
		r := l.peekRune()
		if !isIdentPartRune(r) {
			break
		}
		b.WriteRune(r)
		l.advance()
	}

	text := b.String()
	kind := token.Identifier
	if !escaped {
		kind = token.Lookup(text)
	}
	return l.make(kind, text)
}

func (l *Lexer) scanDigits(valid func(byte) bool) {
	for !l.atEnd() && valid(l.src[l.pos]) {
		l.pos++
		l.col++
	}
}

func (l *Lexer) scanNumber() *token.Token {
	if l.src[l.pos] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') && isHex(l.peek(2)) {
		l.advanceN(2)
		l.scanDigits(isHex)
		return l.emit(token.LiteralNumber)
	}

	l.scanDigits(isDigit)
	if !l.atEnd() && l.src[l.pos] == '.' && l.peek(1) != '.' {
		l.advance()
		l.scanDigits(isDigit)
	}
	if !l.atEnd() && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		switch {
		case isDigit(l.peek(1)):
			l.advance()
			l.scanDigits(isDigit)
		case (l.peek(1) == '+' || l.peek(1) == '-') && isDigit(l.peek(2)):
			l.advanceN(2)
			l.scanDigits(isDigit)
		}
	}
	return l.emit(token.LiteralNumber)
}

func (l *Lexer) scanString(quote byte) *token.Token {
	var b strings.Builder
	b.WriteByte(quote)
	l.advance()
	for {
		r := l.peekRune()
		if r == eof || isLineTerminator(r) {
			tok := l.make(token.LiteralString, b.String())
			l.report(problem.UnterminatedLiteral, tok, "unterminated string literal")
			return tok
		}
		if r == rune(quote) {
			b.WriteByte(quote)
			l.advance()
			return l.make(token.LiteralString, b.String())
		}
		if r == '\\' {
			if d, n, ok := decodeEscape(l.src[l.pos:]); ok && !keepEscaped(d) {
				b.WriteRune(d)
				l.advanceN(n)
				continue
			}
			b.WriteByte('\\')
			l.advance()
			if next := l.peekRune(); next != eof {
				if next == '\r' && l.peek(1) == '\n' {
					b.WriteByte('\r')
					l.advance()
				}
				b.WriteRune(next)
				l.advance()
			}
			continue
		}
		b.WriteRune(r)
		l.advance()
	}
}

func (l *Lexer) scanRegExp() *token.Token {
	var b strings.Builder
	b.WriteByte('/')
	l.advance()
	inClass := false
	for {
		r := l.peekRune()
		if r == eof || isLineTerminator(r) {
			tok := l.make(token.LiteralRegExp, b.String())
			l.report(problem.UnterminatedLiteral, tok, "unterminated regular expression literal")
			return tok
		}
		switch {
		case r == '\\' && l.peek(1) == 'u':
			if _, n, ok := decodeEscape(l.src[l.pos:]); ok {
				b.WriteString(l.src[l.pos : l.pos+n])
				l.advanceN(n)
			} else {
				// keep the 'u', drop the backslash
				l.advance()
			}
			continue
		case r == '\\':
			b.WriteByte('\\')
			l.advance()
			if next := l.peekRune(); next != eof && !isLineTerminator(next) {
				b.WriteRune(next)
				l.advance()
			}
			continue
		case r == '[':
			inClass = true
		case r == ']':
			inClass = false
		case r == '/' && !inClass:
			b.WriteByte('/')
			l.advance()
			for !l.atEnd() && isIdentPartRune(l.peekRune()) {
				b.WriteRune(l.advance())
			}
			return l.make(token.LiteralRegExp, b.String())
		}
		b.WriteRune(r)
		l.advance()
	}
}

func (l *Lexer) scanLineComment() *token.Token {
	for !l.atEnd() && !isLineTerminator(l.peekRune()) {
		l.advance()
	}
	if !l.collectComments {
		return nil
	}
	return l.emit(token.Comment)
}

func (l *Lexer) scanBlockComment() *token.Token {
	kind := token.BlockComment
	if l.hasPrefix("/**") && !l.hasPrefix("/**/") {
		kind = token.ASDocComment
	}
	l.advanceN(2)
	for {
		if l.atEnd() {
			if kind == token.ASDocComment {
				tok := l.emit(kind)
				l.report(problem.UnterminatedLiteral, tok, "unterminated ASDoc comment")
				return tok
			}
			l.reportHere(problem.UnterminatedLiteral, "unterminated block comment")
			break
		}
		if l.hasPrefix("*/") {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	if kind == token.BlockComment && !l.collectComments {
		return nil
	}
	return l.emit(kind)
}
