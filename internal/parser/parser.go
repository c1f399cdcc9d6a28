// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     parser
// Description: Recursive descent parser with an operator precedence
//              expression core. Malformed input is repaired in place so a
//              parse always yields a tree plus problems.
// License:     Apache-2.0
// ============================================================================

package parser

import (
	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/buffer"
	"github.com/apache/royale-compiler-sub012/internal/confvar"
	"github.com/apache/royale-compiler-sub012/internal/metadata"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/source"
	"github.com/apache/royale-compiler-sub012/internal/token"
	"github.com/apache/royale-compiler-sub012/internal/tokenizer"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// Define is a config constant supplied by the project, e.g.
// CONFIG::DEBUG = true. Value is expression text.
type Define struct {
	Namespace string `toml:"namespace" yaml:"namespace"`
	Name      string `toml:"name" yaml:"name"`
	Value     string `toml:"value" yaml:"value"`
}

// Options configures a parse
type Options struct {
	Provider        source.Provider
	SourceRoots     []string
	FollowIncludes  bool
	CollectComments bool
	Fragment        bool
	MXML            bool

	BufferMode  buffer.Mode
	RewindLimit int

	// DeferFunctionBodies skips function bodies, recording only their span
	DeferFunctionBodies bool
	// CaptureDeferredText also reads the text of each skipped body
	CaptureDeferredText bool

	// KeepTokens returns every token the parser saw in Result.Tokens
	KeepTokens bool

	Defines []Define
	// Config is shared with the caller when set; otherwise a processor is
	// created for the session and closed when it ends
	Config *confvar.Processor

	Logger *aslog.Logger
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		FollowIncludes: true,
		BufferMode:     buffer.ModeStreaming,
		RewindLimit:    buffer.DefaultRewindLimit,
	}
}

// Parser turns the token stream of one compilation unit into a tree
type Parser struct {
	opts     Options
	buf      buffer.TokenBuffer
	tz       *tokenizer.Tokenizer
	stream   *stream
	problems *problem.List
	config   *confvar.Processor
	logger   *aslog.Logger

	ctx context

	// most recent metadata and ASDoc waiting for a definition
	pendingMeta   []*metadata.Tag
	pendingTokens []*token.Token
	pendingDoc    *token.Token

	// the token that last failed recognition, for forced progress
	lastFailed *token.Token
}

// stream sits between the tokenizer and the buffer. Line and block
// comments are set aside; every token is recorded when asked to.
type stream struct {
	src      buffer.Source
	keep     bool
	tokens   []*token.Token
	comments []*token.Token
}

func (s *stream) Next() *token.Token {
	for {
		tok := s.src.Next()
		if tok == nil {
			return nil
		}
		if s.keep && tok.Kind != token.EOF {
			s.tokens = append(s.tokens, tok)
		}
		if tok.Kind == token.Comment || tok.Kind == token.BlockComment {
			s.comments = append(s.comments, tok)
			continue
		}
		return tok
	}
}

// New creates a parser reading from tz. The tokenizer's problem list
// receives the parser's problems too.
func New(tz *tokenizer.Tokenizer, cfg *confvar.Processor, opts Options) *Parser {
	s := &stream{src: tz, keep: opts.KeepTokens}
	var buf buffer.TokenBuffer
	if opts.BufferMode == buffer.ModeArray {
		buf = buffer.NewArrayBufferFrom(s)
	} else {
		buf = buffer.NewStreamingBuffer(s, opts.RewindLimit)
	}
	p := NewWithBuffer(buf, tz.Problems(), cfg, opts)
	p.tz = tz
	p.stream = s
	return p
}

// NewWithBuffer creates a parser over an existing buffer
func NewWithBuffer(buf buffer.TokenBuffer, problems *problem.List, cfg *confvar.Processor, opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = aslog.GetDefault()
	}
	if problems == nil {
		problems = problem.NewList()
	}
	if cfg == nil {
		cfg = confvar.New(confvar.Options{Problems: problems, Logger: logger})
	}
	return &Parser{
		opts:     opts,
		buf:      buf,
		problems: problems,
		config:   cfg,
		logger:   logger.WithField("component", "parser"),
	}
}

// Problems returns the problem list shared with the tokenizer
func (p *Parser) Problems() *problem.List {
	return p.problems
}

// Buffer returns the token buffer
func (p *Parser) Buffer() buffer.TokenBuffer {
	return p.buf
}

// Config returns the config processor of the session
func (p *Parser) Config() *confvar.Processor {
	return p.config
}

// ParseFile parses a whole compilation unit
func (p *Parser) ParseFile() *ast.Node {
	root := ast.New(ast.KindFile, 0, 0)
	first := p.lt()
	root.At(first)
	p.parseDirectives(root, token.EOF)
	p.flushPendingMeta(root)
	if eof := p.buf.LT(1); eof.End > root.End {
		root.Extend(eof.End)
	}
	return root
}

// ParseExpression parses a single expression that must span the input
func (p *Parser) ParseExpression() *ast.Node {
	expr := p.parseExpression(false)
	if p.la() != token.EOF {
		p.fail(token.EOF, "unexpected '%s' after expression", p.lt().Text)
	}
	return expr
}

func (p *Parser) la() token.Kind {
	return p.buf.LA(1)
}

func (p *Parser) lt() *token.Token {
	return p.buf.LT(1)
}

func (p *Parser) consume() *token.Token {
	return p.buf.Consume()
}

// match consumes LT(1) when it has one of kinds
func (p *Parser) match(kinds ...token.Kind) *token.Token {
	k := p.la()
	for _, want := range kinds {
		if k == want {
			return p.consume()
		}
	}
	return nil
}

// expect consumes a token of kind or repairs the stream. It returns nil
// when no such token could be produced.
func (p *Parser) expect(kind token.Kind) *token.Token {
	if p.la() == kind {
		return p.consume()
	}
	if p.fail(kind, "expected '%s' but found '%s'", kind, describeToken(p.lt())) && p.la() == kind {
		return p.consume()
	}
	return nil
}

// expectName consumes an identifier, accepting words the tokenizer left
// as keywords where only a name can appear
func (p *Parser) expectName() *token.Token {
	tok := p.lt()
	switch {
	case tok.Kind == token.Identifier:
		return p.consume()
	case tok.Kind == token.NamespaceAnnotation && !containsDot(tok.Text):
		return p.consume()
	}
	return p.expect(token.Identifier)
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

func describeToken(tok *token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	if tok.Implicit {
		return ";"
	}
	return tok.Text
}

// node creates a node of kind positioned at tok
func node(kind ast.Kind, tok *token.Token) *ast.Node {
	return ast.New(kind, tok.Start, tok.End).At(tok)
}

// finish extends n to the end of the previously consumed token
func (p *Parser) finish(n *ast.Node) *ast.Node {
	if prev := p.buf.Previous(); prev != nil && prev.Kind != token.EOF {
		n.Extend(prev.End)
	}
	return n
}
