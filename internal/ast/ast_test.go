package ast

import (
	"testing"

	"github.com/apache/royale-compiler-sub012/internal/token"
)

func ident(name string, start int) *Node {
	n := New(KindIdentifier, start, start+len(name))
	n.Text = name
	return n
}

func binary(op string, l, r *Node) *Node {
	n := New(KindBinary, l.Start, l.Start)
	n.Text = op
	n.AddChild(l)
	n.AddChild(r)
	return n
}

func TestAddChildWidensSpan(t *testing.T) {
	sum := binary("+", ident("a", 0), binary("*", ident("b", 4), ident("c", 8)))
	if sum.Start != 0 || sum.End != 9 {
		t.Errorf("span = [%d,%d), want [0,9)", sum.Start, sum.End)
	}
	sum.AddChild(nil)
	if sum.Len() != 2 {
		t.Errorf("nil child should be ignored, len %d", sum.Len())
	}
}

func TestSExpr(t *testing.T) {
	str := New(KindString, 0, 3)
	str.Text = "x"
	call := New(KindCall, 0, 0)
	call.AddChild(ident("f", 0))
	args := New(KindArguments, 1, 2)
	args.AddChild(str)
	call.AddChild(args)

	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"binary", binary("+", ident("a", 0), binary("*", ident("b", 4), ident("c", 8))), "(binary + a (binary * b c))"},
		{"call", call, `(call f (args "x"))`},
		{"empty", New(KindEmpty, 0, 1), "(empty)"},
		{"nil", nil, "()"},
		{"void0", New(KindUndefinedVoid, 0, 6), "void0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SExpr(tt.node); got != tt.want {
				t.Errorf("SExpr = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCollectAndInspect(t *testing.T) {
	tree := binary("+", ident("a", 0), binary("*", ident("b", 4), ident("c", 8)))
	ids := Collect(tree, KindIdentifier)
	if len(ids) != 3 || ids[0].Text != "a" || ids[2].Text != "c" {
		t.Fatalf("Collect returned %v", ids)
	}
	if all := Collect(tree); len(all) != 5 {
		t.Errorf("Collect() = %d nodes, want 5", len(all))
	}

	visited := 0
	Inspect(tree, func(n *Node) bool {
		visited++
		return n.Text != "*"
	})
	if visited != 3 {
		t.Errorf("pruned walk visited %d nodes, want 3", visited)
	}
}

func TestFromToken(t *testing.T) {
	tok := token.New(token.Identifier, "foo", 10, 13, 2, 5)
	tok.SourcePath = "A.as"
	n := FromToken(KindIdentifier, tok)
	if n.Start != 10 || n.End != 13 || n.Line != 2 || n.Column != 5 || n.Path != "A.as" || n.Text != "foo" {
		t.Errorf("unexpected node %+v", n)
	}
}

func TestKindClassification(t *testing.T) {
	if !KindClass.IsDefinition() || KindIf.IsDefinition() {
		t.Error("IsDefinition mismatch")
	}
	if !KindReturn.IsStatement() || KindBinary.IsStatement() {
		t.Error("IsStatement mismatch")
	}
	if !KindCall.IsExpression() || KindBlock.IsExpression() {
		t.Error("IsExpression mismatch")
	}
	if Kind(9999).String() != "invalid" {
		t.Error("out of range kinds should print as invalid")
	}
}
