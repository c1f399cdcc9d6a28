package parser

import (
	"strings"

	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/confvar"
	"github.com/apache/royale-compiler-sub012/internal/metadata"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// configNamespaceAnnotation is the annotation of `config namespace NAME`
const configNamespaceAnnotation = "config"

// parseDefinition parses modifiers, an optional namespace annotation and
// the definition they apply to, then attaches pending metadata and ASDoc.
// The pending slot is emptied before the definition is parsed so members
// of a class or function body never see the outer tags.
func (p *Parser) parseDefinition() *ast.Node {
	pending := p.takePending()
	first := p.lt()
	var mods []string
	ns := ""
	for {
		tok := p.lt()
		if tok.Kind.IsModifier() {
			mods = append(mods, p.consume().Text)
			continue
		}
		if tok.Kind == token.NamespaceAnnotation {
			if ns != "" {
				p.syntaxError(tok, "only one namespace can be applied to a definition")
			}
			ns = p.consume().Text
			continue
		}
		break
	}

	var def *ast.Node
	switch p.la() {
	case token.KeywordFunction:
		def = p.parseFunction(first)
	case token.KeywordVar, token.KeywordConst:
		def = p.parseVariables(first, ns, false)
		p.endStatement()
		p.finish(def)
	case token.KeywordClass:
		def = p.parseClass(first)
	case token.KeywordInterface:
		def = p.parseInterface(first)
	case token.ReservedNamespace:
		def = p.parseNamespaceDefinition(first, ns)
	default:
		p.fail(token.KeywordFunction, "expected a definition but found '%s'", describeToken(p.lt()))
		def = node(ast.KindError, first)
		p.finish(def)
	}

	def.Modifiers = mods
	if def.Kind != ast.KindConfigNamespace && def.Namespace == "" {
		def.Namespace = ns
	}
	pending.attach(def)

	if def.Kind == ast.KindVariables {
		if p.config.IsConfigNamespace(ns) {
			p.registerConfigConstants(def)
		}
		p.validateEmbed(def)
	}
	return def
}

// pendingDecoration is metadata and ASDoc waiting for a definition
type pendingDecoration struct {
	meta []*metadata.Tag
	doc  *token.Token
}

func (p *Parser) takePending() pendingDecoration {
	d := pendingDecoration{meta: p.pendingMeta, doc: p.pendingDoc}
	p.pendingMeta = nil
	p.pendingTokens = nil
	p.pendingDoc = nil
	return d
}

func (d pendingDecoration) attach(def *ast.Node) {
	if len(d.meta) > 0 {
		def.Meta = append(def.Meta, d.meta...)
	}
	if d.doc != nil {
		def.Doc = d.doc.Text
	}
}

// flushPendingMeta turns metadata that found no definition into an orphan
// node of container
func (p *Parser) flushPendingMeta(container *ast.Node) {
	if len(p.pendingMeta) == 0 {
		return
	}
	first := p.pendingTokens[0]
	orphan := node(ast.KindOrphanMetadata, first)
	orphan.Extend(p.pendingTokens[len(p.pendingTokens)-1].End)
	orphan.Meta = p.pendingMeta
	for i, tok := range p.pendingTokens {
		p.reportAt(problem.UnboundMetadata, tok, "metadata %s is not attached to a definition", p.pendingMeta[i].Name)
	}
	if container != nil {
		container.AddChild(orphan)
	}
	p.pendingMeta = nil
	p.pendingTokens = nil
}

// registerConfigConstants hands NS const NAME = value bindings to the
// config processor
func (p *Parser) registerConfigConstants(vars *ast.Node) {
	if !p.isGlobalContext() {
		p.reportNode(problem.SyntaxError, vars, "config constants can only be declared at file or package level")
		return
	}
	for _, v := range vars.Children {
		p.config.AddConfigConstNode(v)
	}
}

func (p *Parser) reportNode(kind problem.Kind, n *ast.Node, format string, args ...interface{}) {
	p.problems.Add(problem.AtPosition(kind, n.Path, n.Start, n.End, n.Line, n.Column, format, args...))
}

// validateEmbed checks [Embed] on a variable: one tag only, no
// initializer, and a type of Class or String
func (p *Parser) validateEmbed(vars *ast.Node) {
	count := 0
	for _, tag := range vars.Meta {
		if tag.Name == "Embed" {
			count++
		}
	}
	if count == 0 {
		return
	}
	if count > 1 {
		p.reportNode(problem.InvalidEmbed, vars, "only one Embed tag is allowed on a variable")
	}
	for _, v := range vars.Children {
		if confvar.Initializer(v) != nil {
			p.reportNode(problem.InvalidEmbed, v, "embedded variable %s cannot have an initializer", v.Text)
		}
		name := ""
		for _, c := range v.Children {
			if c.Kind == ast.KindTypeAnnotation && c.Len() > 0 {
				name = typeNameOf(c.Child(0).Text)
			}
		}
		if name != "Class" && name != "String" {
			p.reportNode(problem.InvalidEmbed, v, "embedded variable %s must be of type Class or String", v.Text)
		}
	}
}

func (p *Parser) parseFunction(first *token.Token) *ast.Node {
	p.consume()
	kind := ast.KindFunction
	switch p.la() {
	case token.ReservedGet:
		kind = ast.KindGetter
		p.consume()
	case token.ReservedSet:
		kind = ast.KindSetter
		p.consume()
	}
	fn := node(kind, first)
	if name := p.expectName(); name != nil {
		fn.Text = name.Text
	}
	p.parseFunctionRest(fn)
	return fn
}

// parseFunctionRest parses parameters, return type and body. Interface
// methods and native functions end with a semicolon instead of a body.
func (p *Parser) parseFunctionRest(fn *ast.Node) {
	fn.AddChild(p.parseParameters())
	if p.la() == token.Colon {
		fn.AddChild(p.parseTypeAnnotation())
	}
	switch {
	case p.la() == token.BlockOpen && p.opts.DeferFunctionBodies:
		fn.AddChild(p.parseDeferredBody(fn))
	case p.la() == token.BlockOpen:
		fn.AddChild(p.parseBlock())
	case fn.Kind == ast.KindFunctionExpression:
		p.expect(token.BlockOpen)
	default:
		p.endStatement()
	}
	p.finish(fn)
}

func (p *Parser) parseParameters() *ast.Node {
	params := node(ast.KindParameters, p.lt())
	params.End = params.Start
	if p.expect(token.ParenOpen) == nil {
		return params
	}
	for p.la() != token.ParenClose && p.la() != token.EOF {
		var param *ast.Node
		if dots := p.match(token.Ellipsis); dots != nil {
			param = node(ast.KindRestParameter, dots)
		} else {
			param = node(ast.KindParameter, p.lt())
		}
		name := p.expectName()
		if name == nil {
			break
		}
		param.Text = name.Text
		param.Extend(name.End)
		if p.la() == token.Colon {
			param.AddChild(p.parseTypeAnnotation())
		}
		if p.match(token.OperatorAssign) != nil {
			param.AddChild(p.parseAssignmentExpression())
		}
		params.AddChild(param)
		if p.match(token.Comma) == nil {
			break
		}
	}
	p.expect(token.ParenClose)
	return p.finish(params)
}

func (p *Parser) parseTypeAnnotation() *ast.Node {
	n := node(ast.KindTypeAnnotation, p.consume())
	n.AddChild(p.parseTypeExpression())
	return p.finish(n)
}

// parseVariables parses var/const bindings without the terminator
func (p *Parser) parseVariables(first *token.Token, ns string, noIn bool) *ast.Node {
	kw := p.consume()
	n := node(ast.KindVariables, first)
	n.Text = kw.Text
	kind := ast.KindVariable
	if kw.Kind == token.KeywordConst {
		kind = ast.KindConstant
	}
	for {
		name := p.expectName()
		if name == nil {
			break
		}
		v := ast.FromToken(kind, name)
		v.Namespace = ns
		if p.la() == token.Colon {
			v.AddChild(p.parseTypeAnnotation())
		}
		if p.match(token.OperatorAssign) != nil {
			p.withNoIn(noIn, func() {
				v.AddChild(p.parseAssignmentExpression())
			})
		}
		n.AddChild(v)
		if p.match(token.Comma) == nil {
			break
		}
	}
	return p.finish(n)
}

func (p *Parser) parseClass(first *token.Token) *ast.Node {
	p.consume()
	n := node(ast.KindClass, first)
	if name := p.expectName(); name != nil {
		n.Text = name.Text
	}
	if p.la() == token.KeywordExtends {
		ext := node(ast.KindExtends, p.consume())
		ext.AddChild(p.parseTypeExpression())
		n.AddChild(p.finish(ext))
	}
	if p.la() == token.KeywordImplements {
		n.AddChild(p.parseTypeList(ast.KindImplements))
	}
	n.AddChild(p.parseBlock())
	return p.finish(n)
}

func (p *Parser) parseInterface(first *token.Token) *ast.Node {
	p.consume()
	n := node(ast.KindInterface, first)
	if name := p.expectName(); name != nil {
		n.Text = name.Text
	}
	if p.la() == token.KeywordExtends {
		n.AddChild(p.parseTypeList(ast.KindExtends))
	}
	n.AddChild(p.parseBlock())
	return p.finish(n)
}

func (p *Parser) parseTypeList(kind ast.Kind) *ast.Node {
	n := node(kind, p.consume())
	for {
		n.AddChild(p.parseTypeExpression())
		if p.match(token.Comma) == nil {
			break
		}
	}
	return p.finish(n)
}

// parseNamespaceDefinition parses namespace NAME [= uri] and
// config namespace NAME. A config namespace is registered with the config
// processor and is only legal at file or package level.
func (p *Parser) parseNamespaceDefinition(first *token.Token, ns string) *ast.Node {
	p.consume()
	kind := ast.KindNamespaceDef
	if ns == configNamespaceAnnotation {
		kind = ast.KindConfigNamespace
	}
	n := node(kind, first)
	if name := p.expectName(); name != nil {
		n.Text = name.Text
	}
	if p.match(token.OperatorAssign) != nil {
		n.AddChild(p.parseAssignmentExpression())
	}
	p.endStatement()
	p.finish(n)

	if kind == ast.KindConfigNamespace {
		if !p.isGlobalContext() {
			p.reportNode(problem.SyntaxError, n, "config namespace %s can only be declared at file or package level", n.Text)
		} else {
			p.config.AddConditionalCompilationNamespace(n)
		}
	}
	return n
}

// typeNameOf strips a package qualifier
func typeNameOf(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
