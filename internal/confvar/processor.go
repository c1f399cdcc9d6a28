// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     confvar
// Description: Conditional compilation state for one parse session: config
//              namespaces, config constants and static evaluation of
//              NS::NAME expressions.
// License:     Apache-2.0
// ============================================================================

package confvar

import (
	"sort"

	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// DefaultNamespace is added lazily the first time a define targets it
const DefaultNamespace = "CONFIG"

// Options configures a Processor
type Options struct {
	Problems *problem.List
	Logger   *aslog.Logger
}

// Constant is one registered config constant
type Constant struct {
	Namespace string
	Name      string
	Value     interface{}
}

// Processor owns the config namespaces and constants of a parse session
type Processor struct {
	namespaces map[string]bool
	constants  map[string]map[string]interface{}
	problems   *problem.List
	logger     *aslog.Logger
	closed     bool
}

// New creates an empty processor
func New(opts Options) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = aslog.GetDefault()
	}
	problems := opts.Problems
	if problems == nil {
		problems = problem.NewList()
	}
	return &Processor{
		namespaces: make(map[string]bool),
		constants:  make(map[string]map[string]interface{}),
		problems:   problems,
		logger:     logger.WithField("component", "config-processor"),
	}
}

// Problems returns the list diagnostics are reported to
func (p *Processor) Problems() *problem.List {
	return p.problems
}

// IsConfigNamespace reports whether name was declared as a config namespace
func (p *Processor) IsConfigNamespace(name string) bool {
	return !p.closed && p.namespaces[name]
}

// AddNamespace registers name. Registering it twice is harmless.
func (p *Processor) AddNamespace(name string) {
	if p.closed || name == "" {
		return
	}
	if p.namespaces[name] {
		p.logger.Debug("config namespace redefined", aslog.Fields{"namespace": name})
		return
	}
	p.namespaces[name] = true
}

// AddConditionalCompilationNamespace registers the namespace declared by a
// `config namespace NAME` node
func (p *Processor) AddConditionalCompilationNamespace(node *ast.Node) {
	if node == nil {
		return
	}
	p.AddNamespace(node.Text)
}

// EnsureDefaultNamespace adds CONFIG if it is not declared yet
func (p *Processor) EnsureDefaultNamespace() {
	if !p.namespaces[DefaultNamespace] {
		p.AddNamespace(DefaultNamespace)
	}
}

// AddConfigConstNode registers the constant declared by node. The node's
// Namespace and Text name the constant; its initializer is the last
// expression child. Constants under an undeclared namespace or with an
// initializer that is not statically known are reported and rejected.
func (p *Processor) AddConfigConstNode(node *ast.Node) bool {
	if p.closed || node == nil {
		return false
	}
	if !p.IsConfigNamespace(node.Namespace) {
		p.report(problem.UndeclaredConfigNS, node,
			"config namespace %q is not declared", node.Namespace)
		return false
	}
	init := Initializer(node)
	if init == nil {
		p.report(problem.NonConstantConfigValue, node,
			"config constant %s::%s has no initializer", node.Namespace, node.Text)
		return false
	}
	v := p.Evaluate(init)
	if IsUnknown(v) {
		p.report(problem.NonConstantConfigValue, init,
			"initializer of %s::%s is not a compile-time constant", node.Namespace, node.Text)
		return false
	}
	byName := p.constants[node.Namespace]
	if byName == nil {
		byName = make(map[string]interface{})
		p.constants[node.Namespace] = byName
	}
	byName[node.Text] = v
	node.Value = v
	p.logger.Debug("config constant registered", aslog.Fields{
		"namespace": node.Namespace,
		"name":      node.Text,
		"value":     Format(v),
	})
	return true
}

// Initializer returns the initializer expression of a constant node
func Initializer(node *ast.Node) *ast.Node {
	for i := len(node.Children) - 1; i >= 0; i-- {
		c := node.Children[i]
		if c.Kind.IsExpression() {
			return c
		}
	}
	return nil
}

// Lookup returns the value of ns::name
func (p *Processor) Lookup(ns, name string) (interface{}, bool) {
	if p.closed {
		return nil, false
	}
	v, ok := p.constants[ns][name]
	return v, ok
}

// ResolveMetadataValue lets metadata values written as NS::NAME collapse to
// the constant's text
func (p *Processor) ResolveMetadataValue(ns, name string) (string, bool) {
	if !p.IsConfigNamespace(ns) {
		return "", false
	}
	v, ok := p.Lookup(ns, name)
	if !ok {
		return "", false
	}
	return Format(v), true
}

// EvaluateConstNodeExpression resolves expr to a value. Failure yields
// Unknown and a diagnostic at expr.
func (p *Processor) EvaluateConstNodeExpression(expr *ast.Node) interface{} {
	v := p.Evaluate(expr)
	if IsUnknown(v) && expr != nil {
		p.report(problem.ConfigEvaluation, expr, "cannot evaluate %s at compile time", describe(expr))
	}
	return v
}

// Constants lists the registered constants ordered by namespace and name
func (p *Processor) Constants() []Constant {
	var out []Constant
	for ns, byName := range p.constants {
		for name, v := range byName {
			out = append(out, Constant{Namespace: ns, Name: name, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Close releases session state; later lookups find nothing
func (p *Processor) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.namespaces = nil
	p.constants = nil
	p.logger.Debug("config processor closed")
}

func (p *Processor) report(kind problem.Kind, n *ast.Node, format string, args ...interface{}) {
	p.problems.Add(problem.AtPosition(kind, n.Path, n.Start, n.End, n.Line, n.Column, format, args...))
}

func describe(n *ast.Node) string {
	if n.Kind == ast.KindNamespaceAccess && n.Len() == 2 {
		return n.Child(0).Text + "::" + n.Child(1).Text
	}
	if n.Text != "" {
		return n.Text
	}
	return n.Kind.String()
}
