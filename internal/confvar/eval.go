package confvar

import (
	"math"
	"strconv"
	"strings"

	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

type unknown struct{}

// Unknown is the result of an expression that cannot be evaluated
var Unknown interface{} = unknown{}

// IsUnknown reports whether v is the Unknown sentinel
func IsUnknown(v interface{}) bool {
	_, ok := v.(unknown)
	return ok
}

// Evaluate folds expr to a bool, float64, string or nil. Anything that is
// not a compile-time constant yields Unknown.
func (p *Processor) Evaluate(expr *ast.Node) interface{} {
	if expr == nil || p.closed {
		return Unknown
	}
	switch expr.Kind {
	case ast.KindNumber:
		return parseNumber(expr.Text)
	case ast.KindString:
		return expr.Text
	case ast.KindBoolean:
		return expr.Text == "true"
	case ast.KindNull:
		return nil
	case ast.KindIdentifier:
		switch expr.Text {
		case "NaN":
			return math.NaN()
		case "Infinity":
			return math.Inf(1)
		}
		return Unknown
	case ast.KindParenthesized:
		return p.Evaluate(expr.Child(0))
	case ast.KindConfigExpression:
		return expr.Value
	case ast.KindNamespaceAccess:
		ns, name := expr.Child(0), expr.Child(1)
		if ns == nil || name == nil || name.Kind != ast.KindIdentifier {
			return Unknown
		}
		if !p.IsConfigNamespace(ns.Text) {
			return Unknown
		}
		if v, ok := p.Lookup(ns.Text, name.Text); ok {
			return v
		}
		return Unknown
	case ast.KindPrefix:
		return p.evalPrefix(expr)
	case ast.KindBinary:
		return p.evalBinary(expr)
	case ast.KindConditional:
		cond := p.Evaluate(expr.Child(0))
		if IsUnknown(cond) {
			return Unknown
		}
		if Truthy(cond) {
			return p.Evaluate(expr.Child(1))
		}
		return p.Evaluate(expr.Child(2))
	}
	return Unknown
}

func (p *Processor) evalPrefix(expr *ast.Node) interface{} {
	v := p.Evaluate(expr.Child(0))
	if IsUnknown(v) {
		return Unknown
	}
	switch expr.Op {
	case token.OperatorNot:
		return !Truthy(v)
	case token.OperatorMinus:
		return -toNumber(v)
	case token.OperatorPlus:
		return toNumber(v)
	case token.OperatorBitNot:
		return float64(^toInt32(v))
	case token.KeywordTypeof:
		switch v.(type) {
		case bool:
			return "boolean"
		case float64:
			return "number"
		case string:
			return "string"
		}
		return "object"
	}
	return Unknown
}

func (p *Processor) evalBinary(expr *ast.Node) interface{} {
	l := p.Evaluate(expr.Child(0))
	if IsUnknown(l) {
		return Unknown
	}
	switch expr.Op {
	case token.OperatorLogicalAnd:
		if !Truthy(l) {
			return l
		}
		return p.Evaluate(expr.Child(1))
	case token.OperatorLogicalOr:
		if Truthy(l) {
			return l
		}
		return p.Evaluate(expr.Child(1))
	}
	r := p.Evaluate(expr.Child(1))
	if IsUnknown(r) {
		return Unknown
	}

	switch expr.Op {
	case token.Comma:
		return r
	case token.OperatorPlus:
		_, ls := l.(string)
		_, rs := r.(string)
		if ls || rs {
			return Format(l) + Format(r)
		}
		return toNumber(l) + toNumber(r)
	case token.OperatorMinus:
		return toNumber(l) - toNumber(r)
	case token.OperatorStar:
		return toNumber(l) * toNumber(r)
	case token.OperatorSlash:
		return toNumber(l) / toNumber(r)
	case token.OperatorPercent:
		return math.Mod(toNumber(l), toNumber(r))
	case token.OperatorBitAnd:
		return float64(toInt32(l) & toInt32(r))
	case token.OperatorBitOr:
		return float64(toInt32(l) | toInt32(r))
	case token.OperatorBitXor:
		return float64(toInt32(l) ^ toInt32(r))
	case token.OperatorShiftLeft:
		return float64(toInt32(l) << (uint32(toInt32(r)) & 31))
	case token.OperatorShiftRight:
		return float64(toInt32(l) >> (uint32(toInt32(r)) & 31))
	case token.OperatorShiftRightUnsigned:
		return float64(uint32(toInt32(l)) >> (uint32(toInt32(r)) & 31))
	case token.OperatorEqual:
		return looseEqual(l, r)
	case token.OperatorNotEqual:
		return !looseEqual(l, r)
	case token.OperatorStrictEqual:
		return strictEqual(l, r)
	case token.OperatorStrictNotEqual:
		return !strictEqual(l, r)
	case token.OperatorLess, token.OperatorGreater, token.OperatorLessEqual, token.OperatorGreaterEqual:
		return compare(expr.Op, l, r)
	}
	return Unknown
}

// Truthy converts a folded value to a boolean
func Truthy(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	}
	return false
}

// Format renders a folded value as its string conversion
func Format(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		switch {
		case math.IsNaN(x):
			return "NaN"
		case math.IsInf(x, 1):
			return "Infinity"
		case math.IsInf(x, -1):
			return "-Infinity"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	}
	return "undefined"
}

func parseNumber(text string) interface{} {
	s := strings.TrimSpace(text)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	var v float64
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return Unknown
		}
		v = float64(n)
	} else {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Unknown
		}
		v = f
	}
	if neg {
		v = -v
	}
	return v
}

func toNumber(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		if n, ok := parseNumber(s).(float64); ok {
			return n
		}
		return math.NaN()
	case nil:
		return 0
	}
	return math.NaN()
}

func toInt32(v interface{}) int32 {
	f := toNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(f))))
}

func strictEqual(l, r interface{}) bool {
	switch x := l.(type) {
	case float64:
		y, ok := r.(float64)
		return ok && x == y
	case nil:
		return r == nil
	}
	return l == r
}

func looseEqual(l, r interface{}) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	ls, lok := l.(string)
	rs, rok := r.(string)
	if lok && rok {
		return ls == rs
	}
	return toNumber(l) == toNumber(r)
}

func compare(op token.Kind, l, r interface{}) bool {
	ls, lok := l.(string)
	rs, rok := r.(string)
	if lok && rok {
		switch op {
		case token.OperatorLess:
			return ls < rs
		case token.OperatorGreater:
			return ls > rs
		case token.OperatorLessEqual:
			return ls <= rs
		}
		return ls >= rs
	}
	a, b := toNumber(l), toNumber(r)
	switch op {
	case token.OperatorLess:
		return a < b
	case token.OperatorGreater:
		return a > b
	case token.OperatorLessEqual:
		return a <= b
	}
	return a >= b
}
