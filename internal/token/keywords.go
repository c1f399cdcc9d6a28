package token

var keywords = map[string]Kind{
	"as":         KeywordAs,
	"break":      KeywordBreak,
	"case":       KeywordCase,
	"catch":      KeywordCatch,
	"class":      KeywordClass,
	"const":      KeywordConst,
	"continue":   KeywordContinue,
	"default":    KeywordDefault,
	"delete":     KeywordDelete,
	"do":         KeywordDo,
	"else":       KeywordElse,
	"extends":    KeywordExtends,
	"false":      KeywordFalse,
	"finally":    KeywordFinally,
	"for":        KeywordFor,
	"function":   KeywordFunction,
	"if":         KeywordIf,
	"implements": KeywordImplements,
	"import":     KeywordImport,
	"in":         KeywordIn,
	"instanceof": KeywordInstanceof,
	"interface":  KeywordInterface,
	"internal":   KeywordInternal,
	"is":         KeywordIs,
	"new":        KeywordNew,
	"null":       KeywordNull,
	"package":    KeywordPackage,
	"private":    KeywordPrivate,
	"protected":  KeywordProtected,
	"public":     KeywordPublic,
	"return":     KeywordReturn,
	"super":      KeywordSuper,
	"switch":     KeywordSwitch,
	"this":       KeywordThis,
	"throw":      KeywordThrow,
	"true":       KeywordTrue,
	"try":        KeywordTry,
	"typeof":     KeywordTypeof,
	"use":        KeywordUse,
	"var":        KeywordVar,
	"void":       KeywordVoid,
	"while":      KeywordWhile,
	"with":       KeywordWith,

	"each":      ReservedEach,
	"get":       ReservedGet,
	"set":       ReservedSet,
	"namespace": ReservedNamespace,
	"include":   ReservedInclude,
	"dynamic":   ModifierDynamic,
	"final":     ModifierFinal,
	"native":    ModifierNative,
	"override":  ModifierOverride,
	"static":    ModifierStatic,
	"virtual":   ModifierVirtual,
}

// Lookup maps an identifier spelling to its keyword kind, or Identifier
func Lookup(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Identifier
}

// IsStrictKeyword reports whether text can never be used as a plain identifier
func IsStrictKeyword(text string) bool {
	k, ok := keywords[text]
	return ok && k.IsKeyword()
}
