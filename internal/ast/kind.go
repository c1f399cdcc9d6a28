package ast

// Kind identifies the shape of a node
type Kind uint16

const (
	KindInvalid Kind = iota

	// Containers and definitions
	KindFile
	KindPackage
	KindBlock
	KindImport
	KindUseNamespace
	KindInclude
	KindClass
	KindInterface
	KindFunction
	KindGetter
	KindSetter
	KindParameter
	KindRestParameter
	KindParameters
	KindVariables
	KindVariable
	KindConstant
	KindNamespaceDef
	KindConfigNamespace
	KindConfigBlock
	KindMetadata
	KindOrphanMetadata
	KindExtends
	KindImplements
	KindTypeAnnotation
	KindDeferredBody

	// Statements
	KindExpressionStatement
	KindEmpty
	KindIf
	KindFor
	KindForIn
	KindForEach
	KindWhile
	KindDoWhile
	KindSwitch
	KindCase
	KindDefault
	KindTry
	KindCatch
	KindFinally
	KindThrow
	KindReturn
	KindBreak
	KindContinue
	KindLabeled
	KindWith
	KindDefaultXMLNamespace

	// Expressions
	KindIdentifier
	KindQualifiedName
	KindNumber
	KindString
	KindRegExp
	KindBoolean
	KindNull
	KindThis
	KindSuper
	KindUndefinedVoid
	KindArrayLiteral
	KindObjectLiteral
	KindObjectField
	KindVectorLiteral
	KindFunctionExpression
	KindBinary
	KindAssignment
	KindPrefix
	KindPostfix
	KindConditional
	KindCall
	KindArguments
	KindNew
	KindMemberAccess
	KindIndex
	KindDescendant
	KindAttribute
	KindNamespaceAccess
	KindTypedExpression
	KindFilter
	KindParenthesized
	KindConfigExpression
	KindStar
	KindXML
	KindXMLList
	KindXMLElement
	KindXMLBinding
	KindXMLText
	KindError

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:             "invalid",
	KindFile:                "file",
	KindPackage:             "package",
	KindBlock:               "block",
	KindImport:              "import",
	KindUseNamespace:        "use",
	KindInclude:             "include",
	KindClass:               "class",
	KindInterface:           "interface",
	KindFunction:            "function",
	KindGetter:              "getter",
	KindSetter:              "setter",
	KindParameter:           "param",
	KindRestParameter:       "rest",
	KindParameters:          "params",
	KindVariables:           "vars",
	KindVariable:            "var",
	KindConstant:            "const",
	KindNamespaceDef:        "namespace",
	KindConfigNamespace:     "config-namespace",
	KindConfigBlock:         "config-block",
	KindMetadata:            "metadata",
	KindOrphanMetadata:      "orphan-metadata",
	KindExtends:             "extends",
	KindImplements:          "implements",
	KindTypeAnnotation:      "type",
	KindDeferredBody:        "deferred",
	KindExpressionStatement: "expr",
	KindEmpty:               "empty",
	KindIf:                  "if",
	KindFor:                 "for",
	KindForIn:               "for-in",
	KindForEach:             "for-each",
	KindWhile:               "while",
	KindDoWhile:             "do",
	KindSwitch:              "switch",
	KindCase:                "case",
	KindDefault:             "default",
	KindTry:                 "try",
	KindCatch:               "catch",
	KindFinally:             "finally",
	KindThrow:               "throw",
	KindReturn:              "return",
	KindBreak:               "break",
	KindContinue:            "continue",
	KindLabeled:             "label",
	KindWith:                "with",
	KindDefaultXMLNamespace: "default-xml-namespace",
	KindIdentifier:          "id",
	KindQualifiedName:       "qname",
	KindNumber:              "number",
	KindString:              "string",
	KindRegExp:              "regexp",
	KindBoolean:             "bool",
	KindNull:                "null",
	KindThis:                "this",
	KindSuper:               "super",
	KindUndefinedVoid:       "void0",
	KindArrayLiteral:        "array",
	KindObjectLiteral:       "object",
	KindObjectField:         "field",
	KindVectorLiteral:       "vector",
	KindFunctionExpression:  "lambda",
	KindBinary:              "binary",
	KindAssignment:          "assign",
	KindPrefix:              "prefix",
	KindPostfix:             "postfix",
	KindConditional:         "cond",
	KindCall:                "call",
	KindArguments:           "args",
	KindNew:                 "new",
	KindMemberAccess:        "member",
	KindIndex:               "index",
	KindDescendant:          "descendant",
	KindAttribute:           "attr",
	KindNamespaceAccess:     "ns-access",
	KindTypedExpression:     "typed",
	KindFilter:              "filter",
	KindParenthesized:       "paren",
	KindConfigExpression:    "config",
	KindStar:                "star",
	KindXML:                 "xml",
	KindXMLList:             "xml-list",
	KindXMLElement:          "element",
	KindXMLBinding:          "binding",
	KindXMLText:             "text",
	KindError:               "error",
}

// String returns the short name used in S-expressions
func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "invalid"
}

// IsDefinition reports whether metadata can attach to nodes of this kind
func (k Kind) IsDefinition() bool {
	switch k {
	case KindClass, KindInterface, KindFunction, KindGetter, KindSetter,
		KindVariables, KindVariable, KindConstant, KindNamespaceDef:
		return true
	}
	return false
}

// IsStatement reports whether the kind is a statement
func (k Kind) IsStatement() bool {
	return k >= KindExpressionStatement && k <= KindDefaultXMLNamespace
}

// IsExpression reports whether the kind is an expression
func (k Kind) IsExpression() bool {
	return k >= KindIdentifier && k <= KindError
}
