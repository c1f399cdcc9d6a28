package ast

import (
	"strconv"
	"strings"
)

// Visitor receives nodes in depth-first order. Children are skipped when
// Enter returns false; Leave is called either way.
type Visitor interface {
	Enter(n *Node) bool
	Leave(n *Node)
}

// Walk traverses the subtree rooted at n
func Walk(v Visitor, n *Node) {
	if n == nil {
		return
	}
	if v.Enter(n) {
		for _, c := range n.Children {
			Walk(v, c)
		}
	}
	v.Leave(n)
}

type inspector func(*Node) bool

func (f inspector) Enter(n *Node) bool { return f(n) }
func (f inspector) Leave(*Node)        {}

// Inspect calls fn for every node; returning false prunes the subtree
func Inspect(n *Node, fn func(*Node) bool) {
	Walk(inspector(fn), n)
}

// CollectorVisitor gathers nodes of the requested kinds
type CollectorVisitor struct {
	kinds map[Kind]bool
	Nodes []*Node
}

// NewCollectorVisitor creates a collector; no kinds collects everything
func NewCollectorVisitor(kinds ...Kind) *CollectorVisitor {
	cv := &CollectorVisitor{kinds: make(map[Kind]bool, len(kinds))}
	for _, k := range kinds {
		cv.kinds[k] = true
	}
	return cv
}

func (cv *CollectorVisitor) Enter(n *Node) bool {
	if len(cv.kinds) == 0 || cv.kinds[n.Kind] {
		cv.Nodes = append(cv.Nodes, n)
	}
	return true
}

func (cv *CollectorVisitor) Leave(*Node) {}

// Reset clears collected nodes
func (cv *CollectorVisitor) Reset() {
	cv.Nodes = nil
}

// Collect returns every node in the subtree whose kind is one of kinds
func Collect(n *Node, kinds ...Kind) []*Node {
	cv := NewCollectorVisitor(kinds...)
	Walk(cv, n)
	return cv.Nodes
}

// StringVisitor renders a subtree as an S-expression. Leaves print as their
// text; other nodes print as (kind text children...).
type StringVisitor struct {
	b strings.Builder
}

// NewStringVisitor creates an empty printer
func NewStringVisitor() *StringVisitor {
	return &StringVisitor{}
}

func (sv *StringVisitor) space() {
	if sv.b.Len() == 0 {
		return
	}
	s := sv.b.String()
	if s[len(s)-1] != '(' {
		sv.b.WriteByte(' ')
	}
}

func (sv *StringVisitor) Enter(n *Node) bool {
	sv.space()
	if leaf := leafText(n); leaf != "" && len(n.Children) == 0 {
		sv.b.WriteString(leaf)
		return false
	}
	sv.b.WriteByte('(')
	sv.b.WriteString(n.Kind.String())
	if n.Text != "" {
		sv.b.WriteByte(' ')
		sv.b.WriteString(n.Text)
	}
	return true
}

func (sv *StringVisitor) Leave(n *Node) {
	if leafText(n) != "" && len(n.Children) == 0 {
		return
	}
	sv.b.WriteByte(')')
}

// String returns the rendered text
func (sv *StringVisitor) String() string {
	return sv.b.String()
}

// Reset clears the printer
func (sv *StringVisitor) Reset() {
	sv.b.Reset()
}

func leafText(n *Node) string {
	switch n.Kind {
	case KindIdentifier, KindNumber, KindRegExp, KindBoolean, KindNull,
		KindThis, KindSuper, KindStar:
		return n.Text
	case KindString:
		return strconv.Quote(n.Text)
	case KindUndefinedVoid:
		return "void0"
	}
	return ""
}

// SExpr renders n as an S-expression
func SExpr(n *Node) string {
	if n == nil {
		return "()"
	}
	sv := NewStringVisitor()
	Walk(sv, n)
	return sv.String()
}
