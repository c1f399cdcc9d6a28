package parser

import "github.com/apache/royale-compiler-sub012/internal/token"

// Binary operator precedence, from comma (lowest) to multiplicative
// (highest). Zero means the token is not a binary operator.
const (
	precNone = iota
	precComma
	precAssignment
	precConditional
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var precedenceTable = map[token.Kind]int{
	token.Comma: precComma,

	token.OperatorAssign:                   precAssignment,
	token.OperatorPlusAssign:               precAssignment,
	token.OperatorMinusAssign:              precAssignment,
	token.OperatorStarAssign:               precAssignment,
	token.OperatorSlashAssign:              precAssignment,
	token.OperatorPercentAssign:            precAssignment,
	token.OperatorShiftLeftAssign:          precAssignment,
	token.OperatorShiftRightAssign:         precAssignment,
	token.OperatorShiftRightUnsignedAssign: precAssignment,
	token.OperatorBitAndAssign:             precAssignment,
	token.OperatorBitOrAssign:              precAssignment,
	token.OperatorBitXorAssign:             precAssignment,
	token.OperatorLogicalAndAssign:         precAssignment,
	token.OperatorLogicalOrAssign:          precAssignment,

	token.Question: precConditional,

	token.OperatorLogicalOr:  precLogicalOr,
	token.OperatorLogicalAnd: precLogicalAnd,
	token.OperatorBitOr:      precBitOr,
	token.OperatorBitXor:     precBitXor,
	token.OperatorBitAnd:     precBitAnd,

	token.OperatorEqual:          precEquality,
	token.OperatorNotEqual:       precEquality,
	token.OperatorStrictEqual:    precEquality,
	token.OperatorStrictNotEqual: precEquality,

	token.OperatorLess:         precRelational,
	token.OperatorGreater:      precRelational,
	token.OperatorLessEqual:    precRelational,
	token.OperatorGreaterEqual: precRelational,
	token.KeywordInstanceof:    precRelational,
	token.KeywordIn:            precRelational,
	token.KeywordIs:            precRelational,
	token.KeywordAs:            precRelational,

	token.OperatorShiftLeft:          precShift,
	token.OperatorShiftRight:         precShift,
	token.OperatorShiftRightUnsigned: precShift,

	token.OperatorPlus:  precAdditive,
	token.OperatorMinus: precAdditive,

	token.OperatorStar:    precMultiplicative,
	token.OperatorSlash:   precMultiplicative,
	token.OperatorPercent: precMultiplicative,
}

// precedence returns the binding power of k. Inside a for initializer
// 'in' does not bind at all.
func precedence(k token.Kind, noIn bool) int {
	if noIn && k == token.KeywordIn {
		return precNone
	}
	return precedenceTable[k]
}
