// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     ast
// Description: Generic syntax tree built by the parser. Nodes carry a kind,
//              an absolute source span and children; no per-construct types.
// License:     Apache-2.0
// ============================================================================

package ast

import (
	"github.com/apache/royale-compiler-sub012/internal/metadata"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// Node is one element of the tree. Start and End are absolute offsets in
// the include-expanded stream.
type Node struct {
	Kind     Kind
	Start    int
	End      int
	Line     int
	Column   int
	Path     string
	Text     string
	Op       token.Kind
	Children []*Node

	// Definitions only
	Modifiers []string
	Namespace string
	Meta      []*metadata.Tag
	Doc       string
	Body      *BodySpan

	// Value holds a folded conditional compilation value
	Value interface{}
}

// BodySpan records a function body that was skipped instead of parsed
type BodySpan struct {
	Start   int
	End     int
	Text    string
	HasText bool
}

// New creates a node spanning [start, end)
func New(kind Kind, start, end int) *Node {
	return &Node{Kind: kind, Start: start, End: end}
}

// FromToken creates a node spanning tok, taking its text and position
func FromToken(kind Kind, tok *token.Token) *Node {
	return &Node{
		Kind:   kind,
		Start:  tok.Start,
		End:    tok.End,
		Line:   tok.Line,
		Column: tok.Column,
		Path:   tok.SourcePath,
		Text:   tok.Text,
	}
}

// At positions n at tok without changing its end
func (n *Node) At(tok *token.Token) *Node {
	n.Start = tok.Start
	n.Line = tok.Line
	n.Column = tok.Column
	n.Path = tok.SourcePath
	if n.End < n.Start {
		n.End = n.Start
	}
	return n
}

// AddChild appends c and widens n to cover it. Nil children are ignored.
func (n *Node) AddChild(c *Node) *Node {
	if c == nil {
		return n
	}
	n.Children = append(n.Children, c)
	if len(n.Children) == 1 && n.Start == n.End && c.Start < n.Start {
		n.Start = c.Start
		n.Line, n.Column, n.Path = c.Line, c.Column, c.Path
	}
	if c.End > n.End {
		n.End = c.End
	}
	return n
}

// Extend moves the end of n forward to end
func (n *Node) Extend(end int) {
	if end > n.End {
		n.End = end
	}
}

// Child returns the i-th child or nil
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Len returns the number of children
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// HasModifier reports whether mod was recorded on a definition
func (n *Node) HasModifier(mod string) bool {
	for _, m := range n.Modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

// FindMeta returns the first attached metadata tag named name
func (n *Node) FindMeta(name string) *metadata.Tag {
	for _, t := range n.Meta {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// String returns the S-expression form of the subtree
func (n *Node) String() string {
	return SExpr(n)
}
