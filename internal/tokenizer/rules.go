package tokenizer

import (
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/source"
	"github.com/apache/royale-compiler-sub012/internal/token"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// maxAnnotationRun bounds the dotted identifier run examined for a
// namespace annotation
const maxAnnotationRun = 32

// process reclassifies one raw token. It returns nil when the token was
// consumed without producing output (an expanded include directive).
func (t *Tokenizer) process(raw *token.Token) *token.Token {
	switch raw.Kind {
	case token.EOF, token.Illegal:
		// illegal characters were already reported by the lexer
		return raw
	case token.SquareOpen:
		if t.metadataAllowed(raw) {
			return t.scanMetadata(raw)
		}
		return raw
	case token.OperatorMinus, token.OperatorPlus:
		return t.fuseSignedNumber(raw)
	case token.Identifier:
		if t.atDefinitionPosition() {
			return t.fuseNamespaceAnnotation(raw)
		}
		return raw
	}

	if !raw.Kind.IsKeywordOrContextual() {
		return raw
	}

	if t.afterMemberAccess() {
		raw.SetKind(token.Identifier)
		return raw
	}
	if t.afterNameIntroducer() && !t.isAccessorKeyword(raw) {
		if raw.Kind.IsKeyword() {
			t.reportRaw(problem.UnexpectedToken, raw, "'%s' is a reserved word and cannot be used as a name", raw.Text)
		}
		raw.SetKind(token.Identifier)
		return raw
	}

	switch raw.Kind {
	case token.ReservedInclude:
		return t.processInclude(raw)
	case token.KeywordFor:
		return t.fuseForEach(raw)
	case token.KeywordDefault:
		return t.fuseDefaultXMLNamespace(raw)
	case token.KeywordVoid:
		return t.fuseVoid0(raw)
	case token.KeywordPublic, token.KeywordPrivate, token.KeywordProtected, token.KeywordInternal:
		if t.peek(0).Kind == token.DoubleColon {
			raw.SetKind(token.NamespaceName)
		} else {
			raw.SetKind(token.NamespaceAnnotation)
		}
		return raw
	case token.ReservedGet, token.ReservedSet:
		if !t.isAccessorKeyword(raw) {
			raw.SetKind(token.Identifier)
		}
		return raw
	case token.ReservedNamespace:
		next := t.peek(0)
		if !(t.hasLast && t.lastKind == token.KeywordUse) &&
			!(next.Kind.IsIdentifierLike() && next.Line == raw.Line) {
			raw.SetKind(token.Identifier)
		}
		return raw
	case token.ReservedEach:
		raw.SetKind(token.Identifier)
		return raw
	}

	if raw.Kind.IsModifier() && !t.startsDefinition(0) {
		raw.SetKind(token.Identifier)
	}
	return raw
}

func (t *Tokenizer) afterMemberAccess() bool {
	if !t.hasLast {
		return false
	}
	switch t.lastKind {
	case token.Dot, token.DoubleColon, token.AtSign, token.DescendantAccess:
		return true
	}
	return false
}

// afterNameIntroducer reports whether the next token must be a name
func (t *Tokenizer) afterNameIntroducer() bool {
	if !t.hasLast {
		return false
	}
	switch t.lastKind {
	case token.KeywordVar, token.KeywordConst, token.KeywordFunction,
		token.ReservedGet, token.ReservedSet, token.KeywordClass,
		token.KeywordInterface, token.ReservedNamespace:
		return true
	}
	return false
}

// isAccessorKeyword reports whether get/set introduce an accessor:
// directly after 'function' and followed by a name on the same line.
func (t *Tokenizer) isAccessorKeyword(raw *token.Token) bool {
	if raw.Kind != token.ReservedGet && raw.Kind != token.ReservedSet {
		return false
	}
	if !t.hasLast || t.lastKind != token.KeywordFunction {
		return false
	}
	next := t.peek(0)
	return next.Kind.IsIdentifierLike() && next.Line == raw.Line
}

func isDefinitionKeyword(k token.Kind) bool {
	switch k {
	case token.KeywordFunction, token.KeywordVar, token.KeywordConst,
		token.KeywordClass, token.KeywordInterface, token.ReservedNamespace:
		return true
	}
	return k.IsModifier() || k.IsAccessNamespace()
}

// startsDefinition reports whether the raw lookahead at i begins a
// definition, possibly behind a user-defined namespace annotation.
func (t *Tokenizer) startsDefinition(i int) bool {
	tok := t.peek(i)
	if isDefinitionKeyword(tok.Kind) {
		return true
	}
	if tok.Kind != token.Identifier {
		return false
	}
	end, ok := t.dottedRun(i)
	if !ok {
		return false
	}
	next := t.peek(end + 1)
	return next.Line == t.peek(end).EndLine && isDefinitionKeyword(next.Kind)
}

// dottedRun returns the index of the last identifier of an
// identifier(.identifier)* run starting at lookahead i
func (t *Tokenizer) dottedRun(i int) (int, bool) {
	if t.peek(i).Kind != token.Identifier {
		return 0, false
	}
	end := i
	for n := 0; n < maxAnnotationRun; n++ {
		if t.peek(end+1).Kind != token.Dot || t.peek(end+2).Kind != token.Identifier {
			break
		}
		end += 2
	}
	return end, true
}

func (t *Tokenizer) atDefinitionPosition() bool {
	if !t.hasLast {
		return true
	}
	switch t.lastKind {
	case token.Semicolon, token.BlockOpen, token.BlockClose, token.Attribute,
		token.NamespaceAnnotation:
		return true
	}
	return t.lastKind.IsModifier()
}

// fuseNamespaceAnnotation turns ns or a.b.ns followed on the same line by
// a definition keyword into one namespace annotation token.
func (t *Tokenizer) fuseNamespaceAnnotation(raw *token.Token) *token.Token {
	end := -1
	for n := 0; n < maxAnnotationRun; n++ {
		if t.peek(end+1).Kind != token.Dot || t.peek(end+2).Kind != token.Identifier {
			break
		}
		end += 2
	}
	lastTok := raw
	if end >= 0 {
		lastTok = t.peek(end)
	}
	next := t.peek(end + 1)
	if next.Line != lastTok.EndLine || !isDefinitionKeyword(next.Kind) {
		return raw
	}
	if end >= 0 {
		raw.SetSpan(raw.Start, lastTok.End)
		raw.SetText(t.content[raw.Start:raw.End])
		raw.EndLine = lastTok.EndLine
		raw.EndColumn = lastTok.EndColumn
		t.drop(end + 1)
	}
	raw.SetKind(token.NamespaceAnnotation)
	return raw
}

// fuseSignedNumber merges a sign with an adjacent numeric literal when the
// sign cannot be a binary operator.
func (t *Tokenizer) fuseSignedNumber(raw *token.Token) *token.Token {
	if t.hasLast && t.lastKind.CanPrecedeSignedOperator() {
		return raw
	}
	num := t.peek(0)
	if num.Kind != token.LiteralNumber || num.Start != raw.End {
		return raw
	}
	t.absorb(raw, num, token.LiteralNumber)
	t.drop(1)
	return raw
}

// absorb widens raw to end at last and retypes it
func (t *Tokenizer) absorb(raw, last *token.Token, kind token.Kind) {
	raw.SetSpan(raw.Start, last.End)
	raw.SetText(t.content[raw.Start:raw.End])
	raw.SetKind(kind)
	raw.EndLine = last.EndLine
	raw.EndColumn = last.EndColumn
}

func (t *Tokenizer) fuseForEach(raw *token.Token) *token.Token {
	if t.peek(0).Kind != token.ReservedEach {
		return raw
	}
	t.absorb(raw, t.peek(0), token.KeywordForEach)
	t.drop(1)
	return raw
}

func (t *Tokenizer) fuseDefaultXMLNamespace(raw *token.Token) *token.Token {
	first := t.peek(0)
	switch {
	case first.Kind == token.ReservedNamespace:
		t.reportRaw(problem.InvalidDefaultNamespace, first, "expected 'xml' between 'default' and 'namespace'")
		t.absorb(raw, first, token.DirectiveDefaultXML)
		t.drop(1)
	case first.Kind.IsIdentifierLike() && t.peek(1).Kind == token.ReservedNamespace:
		if first.Text != "xml" {
			t.reportRaw(problem.InvalidDefaultNamespace, first, "expected 'xml' but found '%s'", first.Text)
		}
		t.absorb(raw, t.peek(1), token.DirectiveDefaultXML)
		t.drop(2)
	}
	return raw
}

func (t *Tokenizer) fuseVoid0(raw *token.Token) *token.Token {
	isZero := func(tok *token.Token) bool {
		return tok.Kind == token.LiteralNumber && tok.Text == "0"
	}
	switch {
	case isZero(t.peek(0)):
		t.absorb(raw, t.peek(0), token.Void0)
		t.drop(1)
	case t.peek(0).Kind == token.ParenOpen && isZero(t.peek(1)) && t.peek(2).Kind == token.ParenClose:
		t.absorb(raw, t.peek(2), token.Void0)
		t.drop(3)
	}
	return raw
}

// metadataAllowed decides whether '[' starts a metadata tag from the token
// before it
func (t *Tokenizer) metadataAllowed(raw *token.Token) bool {
	if t.prevASDoc {
		return true
	}
	if !t.hasLast {
		return !t.opts.Fragment
	}
	switch t.lastKind {
	case token.Semicolon, token.Attribute:
		return true
	case token.BlockOpen:
		return !t.opts.Fragment
	case token.BlockClose, token.OperatorStar, token.ReservedInclude:
		return raw.Line > t.lastLine
	}
	return false
}

func metadataContent(k token.Kind) bool {
	switch k {
	case token.Identifier, token.LiteralString, token.LiteralNumber,
		token.ParenOpen, token.ParenClose, token.Comma, token.OperatorAssign,
		token.Dot, token.DoubleColon, token.BlockOpen, token.BlockClose,
		token.OperatorMinus, token.SquareOpen, token.SquareClose:
		return true
	}
	return k.IsKeywordOrContextual()
}

// scanMetadata looks for the balanced ']' of a metadata tag. When the
// content is not metadata the '[' is returned unchanged and the lookahead
// is left intact.
func (t *Tokenizer) scanMetadata(raw *token.Token) *token.Token {
	if !t.peek(0).Kind.IsIdentifierLike() {
		return raw
	}
	depth := 1
	for i := 0; i < MaxMetadataTokens; i++ {
		tok := t.peek(i)
		if !metadataContent(tok.Kind) {
			return raw
		}
		// an include directive ends the scan so no raw token past it
		// is lexed before the included file is entered
		if tok.Kind == token.ReservedInclude && t.peek(i+1).Kind == token.LiteralString {
			return raw
		}
		switch tok.Kind {
		case token.SquareOpen:
			depth++
		case token.SquareClose:
			depth--
			if depth == 0 {
				t.absorb(raw, tok, token.Attribute)
				t.drop(i + 1)
				return raw
			}
		}
	}
	return raw
}

func (t *Tokenizer) processInclude(raw *token.Token) *token.Token {
	str := t.peek(0)
	if str.Kind != token.LiteralString {
		raw.SetKind(token.Identifier)
		return raw
	}
	if !t.opts.FollowIncludes {
		return raw
	}

	t.read()
	t.handler.OnNextToken(raw)
	t.handler.OnNextToken(str)
	t.hasLast = true
	t.lastKind = token.ReservedInclude
	t.lastLine = str.EndLine
	t.lastSpan = spanOf(str)
	t.prevASDoc = false

	t.expandInclude(str)
	t.pool.Release(raw)
	t.pool.Release(str)
	return nil
}

func (t *Tokenizer) expandInclude(str *token.Token) {
	name := unquote(str.Text)
	path := t.handler.GetFileSpecificationForInclude(t.path, name)

	if t.handler.IsCyclicInclude(path) {
		t.reportAt(problem.CyclicInclude, str, "cyclic include of '%s'", name)
		t.logger.Warn("Cyclic include skipped", aslog.Fields{"path": path, "includer": t.path})
		return
	}
	if t.opts.Provider == nil || !t.opts.Provider.Exists(path) {
		t.reportAt(problem.IncludeNotFound, str, "included file '%s' not found", name)
		t.logger.Warn("Include not found", aslog.Fields{"path": path, "includer": t.path})
		return
	}
	content, err := source.ReadAll(t.opts.Provider, path)
	if err != nil {
		t.reportAt(problem.IncludeIO, str, "cannot read included file '%s': %v", name, err)
		t.logger.Warn("Include unreadable", aslog.Fields{"path": path, "error": err.Error()})
		return
	}

	childOpts := t.opts
	childOpts.Fragment = false
	t.fork = newTokenizer(path, content, childOpts, t.handler, t.problems, t.pool, t.logger)
	t.handler.EnterFile(path)
	t.logger.Debug("Include expanded", aslog.Fields{"path": path, "includer": t.path, "bytes": len(content)})
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if len(s) >= 1 && (s[0] == '"' || s[0] == '\'') {
		return s[1:]
	}
	return s
}
