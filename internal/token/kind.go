// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     token
// Description: Lexical categories of ActionScript 3 / E4X source text and
//              the compile-time display-name table used in diagnostics.
// License:     Apache-2.0
// ============================================================================

package token

// Kind is the lexical category of a token
type Kind uint16

const (
	EOF Kind = iota
	Illegal

	Identifier

	// Literals
	LiteralNumber
	LiteralString
	LiteralRegExp

	// Strict keywords
	KeywordAs
	KeywordBreak
	KeywordCase
	KeywordCatch
	KeywordClass
	KeywordConst
	KeywordContinue
	KeywordDefault
	KeywordDelete
	KeywordDo
	KeywordElse
	KeywordExtends
	KeywordFalse
	KeywordFinally
	KeywordFor
	KeywordFunction
	KeywordIf
	KeywordImplements
	KeywordImport
	KeywordIn
	KeywordInstanceof
	KeywordInterface
	KeywordInternal
	KeywordIs
	KeywordNew
	KeywordNull
	KeywordPackage
	KeywordPrivate
	KeywordProtected
	KeywordPublic
	KeywordReturn
	KeywordSuper
	KeywordSwitch
	KeywordThis
	KeywordThrow
	KeywordTrue
	KeywordTry
	KeywordTypeof
	KeywordUse
	KeywordVar
	KeywordVoid
	KeywordWhile
	KeywordWith

	// Contextual reserved words
	ReservedEach
	ReservedGet
	ReservedSet
	ReservedNamespace
	ReservedInclude
	ModifierDynamic
	ModifierFinal
	ModifierNative
	ModifierOverride
	ModifierStatic
	ModifierVirtual

	// Tokens synthesized by the disambiguating tokenizer
	KeywordForEach
	Void0
	DirectiveDefaultXML
	NamespaceAnnotation
	NamespaceName
	Attribute

	// Punctuation
	BlockOpen
	BlockClose
	ParenOpen
	ParenClose
	SquareOpen
	SquareClose
	Semicolon
	Comma
	Colon
	DoubleColon
	Dot
	DescendantAccess
	Ellipsis
	AtSign
	Question
	TypedCollectionOpen
	TypedLiteralOpen
	TypedCollectionClose

	// Operators
	OperatorPlus
	OperatorMinus
	OperatorStar
	OperatorSlash
	OperatorPercent
	OperatorIncrement
	OperatorDecrement
	OperatorNot
	OperatorBitNot
	OperatorLogicalAnd
	OperatorLogicalOr
	OperatorBitAnd
	OperatorBitOr
	OperatorBitXor
	OperatorShiftLeft
	OperatorShiftRight
	OperatorShiftRightUnsigned
	OperatorLess
	OperatorGreater
	OperatorLessEqual
	OperatorGreaterEqual
	OperatorEqual
	OperatorNotEqual
	OperatorStrictEqual
	OperatorStrictNotEqual
	OperatorAssign
	OperatorPlusAssign
	OperatorMinusAssign
	OperatorStarAssign
	OperatorSlashAssign
	OperatorPercentAssign
	OperatorShiftLeftAssign
	OperatorShiftRightAssign
	OperatorShiftRightUnsignedAssign
	OperatorBitAndAssign
	OperatorBitOrAssign
	OperatorBitXorAssign
	OperatorLogicalAndAssign
	OperatorLogicalOrAssign

	// Comments
	Comment
	BlockComment
	ASDocComment

	// E4X
	E4XOpenTagStart
	E4XCloseTagStart
	E4XName
	E4XEquals
	E4XString
	E4XTagEnd
	E4XEmptyTagEnd
	E4XText
	E4XEntity
	E4XCData
	E4XComment
	E4XProcessingInstruction
	E4XBindingOpen
	E4XBindingClose
	E4XListOpen
	E4XListClose

	// Metadata tokens, produced only inside an Attribute payload
	MetaOpenBracket
	MetaCloseBracket
	MetaKeyword
	MetaUnknownKeyword
	MetaAttrName
	MetaIdentifier
	MetaString
	MetaNumber
	MetaOpenParen
	MetaCloseParen
	MetaOpenBrace
	MetaCloseBrace
	MetaNamespaceQualifier

	kindCount
)

type kindFlag uint16

const (
	flagKeyword kindFlag = 1 << iota
	flagContextual
	flagModifier
	flagOperator
	flagAssignment
	flagOpen
	flagClose
	flagE4X
	flagComment
	flagLiteral
	flagMeta
	flagDefinitionStart
)

type kindInfo struct {
	name  string
	flags kindFlag
}

// kindTable is indexed by Kind and is never modified after package init.
var kindTable = [kindCount]kindInfo{
	EOF:           {"end of file", 0},
	Illegal:       {"illegal character", 0},
	Identifier:    {"identifier", 0},
	LiteralNumber: {"number", flagLiteral},
	LiteralString: {"string", flagLiteral},
	LiteralRegExp: {"regular expression", flagLiteral},

	KeywordAs:         {"as", flagKeyword | flagOperator},
	KeywordBreak:      {"break", flagKeyword},
	KeywordCase:       {"case", flagKeyword},
	KeywordCatch:      {"catch", flagKeyword},
	KeywordClass:      {"class", flagKeyword | flagDefinitionStart},
	KeywordConst:      {"const", flagKeyword | flagDefinitionStart},
	KeywordContinue:   {"continue", flagKeyword},
	KeywordDefault:    {"default", flagKeyword},
	KeywordDelete:     {"delete", flagKeyword},
	KeywordDo:         {"do", flagKeyword},
	KeywordElse:       {"else", flagKeyword},
	KeywordExtends:    {"extends", flagKeyword},
	KeywordFalse:      {"false", flagKeyword | flagLiteral},
	KeywordFinally:    {"finally", flagKeyword},
	KeywordFor:        {"for", flagKeyword},
	KeywordFunction:   {"function", flagKeyword | flagDefinitionStart},
	KeywordIf:         {"if", flagKeyword},
	KeywordImplements: {"implements", flagKeyword},
	KeywordImport:     {"import", flagKeyword},
	KeywordIn:         {"in", flagKeyword | flagOperator},
	KeywordInstanceof: {"instanceof", flagKeyword | flagOperator},
	KeywordInterface:  {"interface", flagKeyword | flagDefinitionStart},
	KeywordInternal:   {"internal", flagKeyword},
	KeywordIs:         {"is", flagKeyword | flagOperator},
	KeywordNew:        {"new", flagKeyword},
	KeywordNull:       {"null", flagKeyword | flagLiteral},
	KeywordPackage:    {"package", flagKeyword},
	KeywordPrivate:    {"private", flagKeyword},
	KeywordProtected:  {"protected", flagKeyword},
	KeywordPublic:     {"public", flagKeyword},
	KeywordReturn:     {"return", flagKeyword},
	KeywordSuper:      {"super", flagKeyword},
	KeywordSwitch:     {"switch", flagKeyword},
	KeywordThis:       {"this", flagKeyword},
	KeywordThrow:      {"throw", flagKeyword},
	KeywordTrue:       {"true", flagKeyword | flagLiteral},
	KeywordTry:        {"try", flagKeyword},
	KeywordTypeof:     {"typeof", flagKeyword},
	KeywordUse:        {"use", flagKeyword},
	KeywordVar:        {"var", flagKeyword | flagDefinitionStart},
	KeywordVoid:       {"void", flagKeyword},
	KeywordWhile:      {"while", flagKeyword},
	KeywordWith:       {"with", flagKeyword},

	ReservedEach:      {"each", flagContextual},
	ReservedGet:       {"get", flagContextual},
	ReservedSet:       {"set", flagContextual},
	ReservedNamespace: {"namespace", flagContextual | flagDefinitionStart},
	ReservedInclude:   {"include", flagContextual},
	ModifierDynamic:   {"dynamic", flagContextual | flagModifier | flagDefinitionStart},
	ModifierFinal:     {"final", flagContextual | flagModifier | flagDefinitionStart},
	ModifierNative:    {"native", flagContextual | flagModifier | flagDefinitionStart},
	ModifierOverride:  {"override", flagContextual | flagModifier | flagDefinitionStart},
	ModifierStatic:    {"static", flagContextual | flagModifier | flagDefinitionStart},
	ModifierVirtual:   {"virtual", flagContextual | flagModifier | flagDefinitionStart},

	KeywordForEach:      {"for each", flagKeyword},
	Void0:               {"void 0", flagLiteral},
	DirectiveDefaultXML: {"default xml namespace", 0},
	NamespaceAnnotation: {"namespace annotation", flagDefinitionStart},
	NamespaceName:       {"namespace name", 0},
	Attribute:           {"metadata tag", 0},

	BlockOpen:            {"{", flagOpen},
	BlockClose:           {"}", flagClose},
	ParenOpen:            {"(", flagOpen},
	ParenClose:           {")", flagClose},
	SquareOpen:           {"[", flagOpen},
	SquareClose:          {"]", flagClose},
	Semicolon:            {";", 0},
	Comma:                {",", flagOperator},
	Colon:                {":", 0},
	DoubleColon:          {"::", 0},
	Dot:                  {".", 0},
	DescendantAccess:     {"..", 0},
	Ellipsis:             {"...", 0},
	AtSign:               {"@", 0},
	Question:             {"?", flagOperator},
	TypedCollectionOpen:  {".<", flagOpen},
	TypedLiteralOpen:     {"<", flagOpen},
	TypedCollectionClose: {">", flagClose},

	OperatorPlus:                     {"+", flagOperator},
	OperatorMinus:                    {"-", flagOperator},
	OperatorStar:                     {"*", flagOperator},
	OperatorSlash:                    {"/", flagOperator},
	OperatorPercent:                  {"%", flagOperator},
	OperatorIncrement:                {"++", flagOperator},
	OperatorDecrement:                {"--", flagOperator},
	OperatorNot:                      {"!", flagOperator},
	OperatorBitNot:                   {"~", flagOperator},
	OperatorLogicalAnd:               {"&&", flagOperator},
	OperatorLogicalOr:                {"||", flagOperator},
	OperatorBitAnd:                   {"&", flagOperator},
	OperatorBitOr:                    {"|", flagOperator},
	OperatorBitXor:                   {"^", flagOperator},
	OperatorShiftLeft:                {"<<", flagOperator},
	OperatorShiftRight:               {">>", flagOperator},
	OperatorShiftRightUnsigned:       {">>>", flagOperator},
	OperatorLess:                     {"<", flagOperator},
	OperatorGreater:                  {">", flagOperator},
	OperatorLessEqual:                {"<=", flagOperator},
	OperatorGreaterEqual:             {">=", flagOperator},
	OperatorEqual:                    {"==", flagOperator},
	OperatorNotEqual:                 {"!=", flagOperator},
	OperatorStrictEqual:              {"===", flagOperator},
	OperatorStrictNotEqual:           {"!==", flagOperator},
	OperatorAssign:                   {"=", flagOperator | flagAssignment},
	OperatorPlusAssign:               {"+=", flagOperator | flagAssignment},
	OperatorMinusAssign:              {"-=", flagOperator | flagAssignment},
	OperatorStarAssign:               {"*=", flagOperator | flagAssignment},
	OperatorSlashAssign:              {"/=", flagOperator | flagAssignment},
	OperatorPercentAssign:            {"%=", flagOperator | flagAssignment},
	OperatorShiftLeftAssign:          {"<<=", flagOperator | flagAssignment},
	OperatorShiftRightAssign:         {">>=", flagOperator | flagAssignment},
	OperatorShiftRightUnsignedAssign: {">>>=", flagOperator | flagAssignment},
	OperatorBitAndAssign:             {"&=", flagOperator | flagAssignment},
	OperatorBitOrAssign:              {"|=", flagOperator | flagAssignment},
	OperatorBitXorAssign:             {"^=", flagOperator | flagAssignment},
	OperatorLogicalAndAssign:         {"&&=", flagOperator | flagAssignment},
	OperatorLogicalOrAssign:          {"||=", flagOperator | flagAssignment},

	Comment:      {"comment", flagComment},
	BlockComment: {"block comment", flagComment},
	ASDocComment: {"ASDoc comment", flagComment},

	E4XOpenTagStart:          {"XML open tag", flagE4X},
	E4XCloseTagStart:         {"XML close tag", flagE4X},
	E4XName:                  {"XML name", flagE4X},
	E4XEquals:                {"XML =", flagE4X},
	E4XString:                {"XML attribute value", flagE4X},
	E4XTagEnd:                {"XML >", flagE4X},
	E4XEmptyTagEnd:           {"XML />", flagE4X},
	E4XText:                  {"XML text", flagE4X},
	E4XEntity:                {"XML entity", flagE4X},
	E4XCData:                 {"XML CDATA", flagE4X},
	E4XComment:               {"XML comment", flagE4X},
	E4XProcessingInstruction: {"XML processing instruction", flagE4X},
	E4XBindingOpen:           {"XML binding {", flagE4X},
	E4XBindingClose:          {"XML binding }", flagE4X},
	E4XListOpen:              {"<>", flagE4X},
	E4XListClose:             {"</>", flagE4X},

	MetaOpenBracket:        {"[", flagMeta},
	MetaCloseBracket:       {"]", flagMeta},
	MetaKeyword:            {"metadata name", flagMeta},
	MetaUnknownKeyword:     {"unknown metadata name", flagMeta},
	MetaAttrName:           {"metadata attribute name", flagMeta},
	MetaIdentifier:         {"metadata identifier", flagMeta},
	MetaString:             {"metadata string", flagMeta},
	MetaNumber:             {"metadata number", flagMeta},
	MetaOpenParen:          {"(", flagMeta},
	MetaCloseParen:         {")", flagMeta},
	MetaOpenBrace:          {"{", flagMeta},
	MetaCloseBrace:         {"}", flagMeta},
	MetaNamespaceQualifier: {"::", flagMeta},
}

func (k Kind) info() kindInfo {
	if k >= kindCount {
		return kindInfo{name: "unknown"}
	}
	return kindTable[k]
}

// String returns the display name used in diagnostics
func (k Kind) String() string {
	return k.info().name
}

// IsKeyword reports strict keywords (including true/false/null and the fused "for each")
func (k Kind) IsKeyword() bool { return k.info().flags&flagKeyword != 0 }

// IsContextual reports contextual reserved words such as get, set and static
func (k Kind) IsContextual() bool { return k.info().flags&flagContextual != 0 }

// IsKeywordOrContextual reports any reserved word
func (k Kind) IsKeywordOrContextual() bool {
	return k.info().flags&(flagKeyword|flagContextual) != 0 && k != KeywordForEach
}

// IsModifier reports definition modifiers (static, override, ...)
func (k Kind) IsModifier() bool { return k.info().flags&flagModifier != 0 }

// IsAssignment reports = and every compound assignment
func (k Kind) IsAssignment() bool { return k.info().flags&flagAssignment != 0 }

// IsOperator reports operator tokens
func (k Kind) IsOperator() bool { return k.info().flags&flagOperator != 0 }

// IsOpen reports opening brackets
func (k Kind) IsOpen() bool { return k.info().flags&flagOpen != 0 }

// IsClose reports closing brackets
func (k Kind) IsClose() bool { return k.info().flags&flagClose != 0 }

// IsE4X reports tokens produced in XML lexing mode
func (k Kind) IsE4X() bool { return k.info().flags&flagE4X != 0 }

// IsComment reports comment tokens
func (k Kind) IsComment() bool { return k.info().flags&flagComment != 0 }

// IsLiteral reports literal tokens
func (k Kind) IsLiteral() bool { return k.info().flags&flagLiteral != 0 }

// IsMeta reports tokens that only appear inside a metadata payload
func (k Kind) IsMeta() bool { return k.info().flags&flagMeta != 0 }

// IsDefinitionStart reports tokens that can begin a definition
func (k Kind) IsDefinitionStart() bool { return k.info().flags&flagDefinitionStart != 0 }

// IsAccessNamespace reports public, private, protected and internal
func (k Kind) IsAccessNamespace() bool {
	switch k {
	case KeywordPublic, KeywordPrivate, KeywordProtected, KeywordInternal:
		return true
	}
	return false
}

// CanPrecedeSignedOperator reports whether a following + or - must be a
// binary operator rather than the sign of a numeric literal.
func (k Kind) CanPrecedeSignedOperator() bool {
	switch k {
	case Identifier, LiteralNumber, LiteralString, LiteralRegExp,
		KeywordTrue, KeywordFalse, KeywordNull, Void0,
		ParenClose, SquareClose, OperatorIncrement, OperatorDecrement,
		KeywordThis, KeywordSuper, E4XTagEnd, E4XEmptyTagEnd, E4XListClose:
		return true
	}
	return k.IsContextual()
}

// CanEndOperand reports whether a token can end an operand, which decides
// whether a following '/' or '<' is a binary operator.
func (k Kind) CanEndOperand() bool {
	switch k {
	case NamespaceName, E4XComment, E4XCData, E4XProcessingInstruction:
		return true
	}
	return k.CanPrecedeSignedOperator()
}

// IsIdentifierLike reports tokens usable as a name after '.', '::' and in declarations
func (k Kind) IsIdentifierLike() bool {
	return k == Identifier || k.IsKeywordOrContextual()
}
