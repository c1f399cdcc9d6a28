package parser

import (
	"github.com/apache/royale-compiler-sub012/internal/problem"
)

// context holds the nesting counters of the parser. They change only
// through the enter functions below, each of which returns the matching
// leave function.
type context struct {
	blockDepth   int
	packageDepth int
	groupDepth   int

	// noIn suppresses 'in' as a binary operator in a for initializer
	noIn bool

	violationReported bool
}

func (p *Parser) enterBlock() func() {
	p.ctx.blockDepth++
	return func() { p.ctx.blockDepth-- }
}

// enterPackage covers the package body, which is also a block
func (p *Parser) enterPackage() func() {
	p.ctx.packageDepth++
	p.ctx.blockDepth++
	return func() {
		p.ctx.blockDepth--
		p.ctx.packageDepth--
	}
}

// enterGroup covers a config block at global level
func (p *Parser) enterGroup() func() {
	p.ctx.groupDepth++
	p.ctx.blockDepth++
	return func() {
		p.ctx.blockDepth--
		p.ctx.groupDepth--
	}
}

// isGlobalContext reports whether directives are at file or package level.
// Counters that describe an impossible nesting are reported once and
// answer false.
func (p *Parser) isGlobalContext() bool {
	c := &p.ctx
	if c.packageDepth+c.groupDepth > c.blockDepth {
		if !c.violationReported {
			c.violationReported = true
			tok := p.lt()
			p.problems.Add(problem.At(problem.InternalError, tok,
				"inconsistent nesting: block depth %d, package depth %d, group depth %d",
				c.blockDepth, c.packageDepth, c.groupDepth))
		}
		return false
	}
	return c.blockDepth == c.packageDepth+c.groupDepth
}

// withNoIn runs fn with the for-initializer restriction set to noIn
func (p *Parser) withNoIn(noIn bool, fn func()) {
	saved := p.ctx.noIn
	p.ctx.noIn = noIn
	defer func() { p.ctx.noIn = saved }()
	fn()
}
