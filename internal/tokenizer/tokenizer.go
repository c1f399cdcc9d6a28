// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     tokenizer
// Description: Streaming tokenizer that reclassifies context-sensitive raw
//              tokens, fuses multi-token constructs, recognizes metadata
//              tags and expands include directives by forking a child
//              tokenizer for the included file.
// License:     Apache-2.0
// ============================================================================

package tokenizer

import (
	"errors"
	"fmt"

	"github.com/apache/royale-compiler-sub012/internal/include"
	"github.com/apache/royale-compiler-sub012/internal/lexer"
	"github.com/apache/royale-compiler-sub012/internal/metadata"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/source"
	"github.com/apache/royale-compiler-sub012/internal/token"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// MaxMetadataTokens bounds the speculative scan of a metadata tag
const MaxMetadataTokens = 1024

// Options configures a Tokenizer
type Options struct {
	// Provider opens included files
	Provider source.Provider
	// SourceRoots are searched when an include is not found next to the includer
	SourceRoots []string
	// FollowIncludes expands include directives; otherwise they are
	// returned as an include keyword followed by the string
	FollowIncludes bool
	// CollectComments returns line and block comments
	CollectComments bool
	// Fragment lexes an expression fragment: a leading '[' is never metadata
	Fragment bool
	// MXML relaxes offset monotonicity checks
	MXML bool
	// Resolver collapses namespace-qualified metadata values
	Resolver metadata.NamespaceResolver
	// Problems receives diagnostics; a new list is created when nil
	Problems *problem.List
	Logger   *aslog.Logger
}

// Tokenizer produces disambiguated tokens for one compilation unit
type Tokenizer struct {
	opts     Options
	path     string
	content  string
	lexer    *lexer.Lexer
	handler  *include.Handler
	problems *problem.List
	pool     *token.Pool
	meta     *metadata.Tokenizer
	logger   *aslog.Logger

	fork      *Tokenizer
	lookahead []*token.Token

	hasLast   bool
	lastKind  token.Kind // last significant token returned
	lastLine  int
	lastSpan  span // absolute span of the last token returned
	prevASDoc bool // the token returned last was an ASDoc comment

	braceBalance int
	lastPanic    string
	aborted      bool
}

// New creates a tokenizer for the compilation unit at path
func New(path, content string, opts Options) *Tokenizer {
	logger := opts.Logger
	if logger == nil {
		logger = aslog.GetDefault()
	}
	problems := opts.Problems
	if problems == nil {
		problems = problem.NewList()
	}
	handler := include.New(include.Options{
		Provider:    opts.Provider,
		SourceRoots: opts.SourceRoots,
		MXML:        opts.MXML,
		Logger:      logger,
	})
	t := newTokenizer(path, content, opts, handler, problems, token.NewPool(token.DefaultPoolSize), logger.WithField("component", "tokenizer"))
	handler.EnterFile(path)
	return t
}

func newTokenizer(path, content string, opts Options, handler *include.Handler, problems *problem.List, pool *token.Pool, logger *aslog.Logger) *Tokenizer {
	return &Tokenizer{
		opts:    opts,
		path:    path,
		content: content,
		lexer: lexer.New(content, lexer.Options{
			Path:            path,
			CollectComments: opts.CollectComments,
			Pool:            pool,
			Problems:        problems,
			ProblemOffset:   handler.Adjustment,
		}),
		handler:  handler,
		problems: problems,
		pool:     pool,
		meta:     metadata.NewTokenizer(opts.Resolver, problems),
		logger:   logger,
	}
}

// Path returns the path of the compilation unit
func (t *Tokenizer) Path() string {
	return t.path
}

// Content returns the text of the compilation unit
func (t *Tokenizer) Content() string {
	return t.content
}

// Problems returns the shared problem list
func (t *Tokenizer) Problems() *problem.List {
	return t.problems
}

// IncludeHandler returns the shared include handler
func (t *Tokenizer) IncludeHandler() *include.Handler {
	return t.handler
}

// OffsetLookup maps absolute offsets of returned tokens back to files
func (t *Tokenizer) OffsetLookup() *include.OffsetLookup {
	return t.handler.OffsetLookup()
}

// Provider returns the file-content provider
func (t *Tokenizer) Provider() source.Provider {
	return t.opts.Provider
}

// Aborted reports whether the tokenizer stopped after a repeated internal failure
func (t *Tokenizer) Aborted() bool {
	return t.aborted
}

// BraceBalance returns '{' minus '}' over the tokens returned so far
func (t *Tokenizer) BraceBalance() int {
	return t.braceBalance
}

// AreBracesBalancedOrOverbalanced reports whether no '{' is left open
func (t *Tokenizer) AreBracesBalancedOrOverbalanced() bool {
	return t.braceBalance <= 0
}

// Next returns the next locked token, EOF at the end of input, or nil
// once the tokenizer has aborted. A panic from a collaborator is turned
// into an internal-error problem and the read is retried; the same panic
// twice in a row aborts.
func (t *Tokenizer) Next() *token.Token {
	for !t.aborted {
		tok, ok := t.safeNext()
		if ok {
			switch tok.Kind {
			case token.BlockOpen:
				t.braceBalance++
			case token.BlockClose:
				t.braceBalance--
			}
			return tok
		}
	}
	return nil
}

func (t *Tokenizer) safeNext() (tok *token.Token, ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if isContractViolation(r) {
			panic(r)
		}
		kind := fmt.Sprintf("%T", r)
		if kind == t.lastPanic {
			t.aborted = true
			t.logger.Error("Tokenizer aborted after repeated failure", aslog.Fields{
				"path":  t.path,
				"panic": fmt.Sprint(r),
			})
		} else {
			t.lastPanic = kind
			t.logger.Error("Recovered internal error", aslog.Fields{
				"path":  t.path,
				"panic": fmt.Sprint(r),
			})
		}
		at := t.lastSpan
		t.problems.Add(problem.AtPosition(problem.InternalError, t.path, at.start, at.end, at.line, at.column,
			"internal error in tokenizer: %v", r))
		tok, ok = nil, false
	}()
	tok = t.next()
	t.lastPanic = ""
	return tok, true
}

func isContractViolation(r interface{}) bool {
	err, isErr := r.(error)
	if !isErr {
		return false
	}
	var e *aserror.Error
	return errors.As(err, &e) && e.Code() == aserror.CodeContractViolation
}

func (t *Tokenizer) next() *token.Token {
	for {
		if t.fork != nil {
			if tok := t.fork.Next(); tok != nil && tok.Kind != token.EOF {
				return tok
			}
			t.closeFork()
			continue
		}
		raw := t.read()
		if out := t.process(raw); out != nil {
			return t.finish(out)
		}
	}
}

func (t *Tokenizer) closeFork() {
	child := t.fork
	t.fork = nil
	t.handler.LeaveFile(len(child.content))
	t.logger.Debug("Include finished", aslog.Fields{
		"path":    child.path,
		"balance": child.braceBalance,
	})
}

// read returns the next raw token
func (t *Tokenizer) read() *token.Token {
	if len(t.lookahead) > 0 {
		tok := t.lookahead[0]
		t.lookahead[0] = nil
		t.lookahead = t.lookahead[1:]
		return tok
	}
	return t.lexer.Next()
}

// peek returns the raw token i positions after the one last read
func (t *Tokenizer) peek(i int) *token.Token {
	for len(t.lookahead) <= i {
		t.lookahead = append(t.lookahead, t.lexer.Next())
	}
	return t.lookahead[i]
}

// drop discards the next n raw tokens
func (t *Tokenizer) drop(n int) {
	for i := 0; i < n; i++ {
		t.pool.Release(t.read())
	}
}

func (t *Tokenizer) finish(tok *token.Token) *token.Token {
	t.handler.OnNextToken(tok)
	if tok.Kind == token.Attribute {
		tok.SetPayload(t.meta.Tokenize(tok))
	}
	tok.Lock()

	t.prevASDoc = tok.Kind == token.ASDocComment
	t.lastSpan = spanOf(tok)
	if !tok.Kind.IsComment() {
		t.hasLast = true
		t.lastKind = tok.Kind
		t.lastLine = tok.EndLine
	}
	return tok
}

type span struct {
	start, end   int
	line, column int
}

func spanOf(tok *token.Token) span {
	return span{start: tok.Start, end: tok.End, line: tok.Line, column: tok.Column}
}

// reportAt records a problem on a token already in absolute offsets
func (t *Tokenizer) reportAt(kind problem.Kind, tok *token.Token, format string, args ...interface{}) {
	t.problems.AddForToken(tok, problem.At(kind, tok, format, args...))
}

// reportRaw records a problem on a raw token that finish has not shifted yet
func (t *Tokenizer) reportRaw(kind problem.Kind, tok *token.Token, format string, args ...interface{}) {
	t.problems.AddForToken(tok, problem.At(kind, tok, format, args...).Shift(t.handler.Adjustment()))
}
