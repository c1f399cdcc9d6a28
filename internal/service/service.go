// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     service
// Description: Parse service. Tokenizes and parses sources sent by remote
//              callers, optionally recording every parse in the history
//              store, and exposes both operations over gRPC.
// License:     Apache-2.0
// ============================================================================

package service

import (
	"context"
	"strings"
	"time"

	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/buffer"
	"github.com/apache/royale-compiler-sub012/internal/parser"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/source"
	"github.com/apache/royale-compiler-sub012/internal/store"
	"github.com/apache/royale-compiler-sub012/internal/token"
	"github.com/apache/royale-compiler-sub012/internal/tokenizer"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// Request is one unit of work: a compilation unit and the files it may include
type Request struct {
	Path   string
	Source string
	// Files holds additional sources reachable through include
	Files map[string]string

	// BufferMode overrides the configured buffer when not empty
	BufferMode          string
	DeferFunctionBodies bool
}

// TokenizeResult is the outcome of Tokenize
type TokenizeResult struct {
	Path     string
	Tokens   []*token.Token
	Problems []*problem.Problem
}

// Config holds service configuration
type Config struct {
	// Parser supplies the defaults for every request; its Provider is
	// replaced by the request's sources
	Parser parser.Options
	// History records parse sessions when set
	History *store.History
	Logger  *aslog.Logger
}

// Service runs parse requests
type Service struct {
	config  Config
	history *store.History
	logger  *aslog.Logger
}

// New creates a parse service
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = aslog.GetDefault()
	}
	return &Service{
		config:  cfg,
		history: cfg.History,
		logger:  logger.WithField("component", "parse-service"),
	}
}

func (r *Request) validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return aserror.New("path is required").WithCode(aserror.CodeInvalidInput)
	}
	if _, err := buffer.ParseMode(r.BufferMode); err != nil {
		return aserror.Wrap(err, "invalid buffer mode").WithCode(aserror.CodeInvalidInput)
	}
	return nil
}

func (r *Request) provider() *source.MemoryProvider {
	mem := source.NewMemoryProvider()
	for path, text := range r.Files {
		mem.Add(path, text)
	}
	mem.Add(r.Path, r.Source)
	return mem
}

// Parse parses the request's compilation unit
func (s *Service) Parse(ctx context.Context, req Request) (*parser.Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := s.config.Parser
	opts.Provider = req.provider()
	opts.Logger = s.logger
	if req.BufferMode != "" {
		opts.BufferMode, _ = buffer.ParseMode(req.BufferMode)
	}
	if req.DeferFunctionBodies {
		opts.DeferFunctionBodies = true
	}

	started := time.Now()
	res := parser.ParseSource(req.Path, req.Source, opts)

	if s.history != nil {
		if err := s.history.SaveResult(ctx, res, started); err != nil {
			// history failures never fail the request
			s.logger.Warn("Failed to record session", aslog.Fields{
				"session_id": res.SessionID,
				"error":      err.Error(),
			})
		}
	}

	s.logger.Debug("Parse served", aslog.Fields{
		"session_id": res.SessionID,
		"path":       res.Path,
		"problems":   len(res.Problems),
	})
	return res, nil
}

// Tokenize returns the disambiguated tokens of the request's compilation unit
func (s *Service) Tokenize(ctx context.Context, req Request) (*TokenizeResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tz := tokenizer.New(req.Path, req.Source, tokenizer.Options{
		Provider:        req.provider(),
		SourceRoots:     s.config.Parser.SourceRoots,
		FollowIncludes:  s.config.Parser.FollowIncludes,
		CollectComments: s.config.Parser.CollectComments,
		Logger:          s.logger,
	})
	return &TokenizeResult{
		Path:     req.Path,
		Tokens:   tz.Drain(),
		Problems: tz.Problems().Sorted(),
	}, nil
}

// Tree renders a parse tree for transport
func Tree(root *ast.Node) string {
	if root == nil {
		return ""
	}
	return ast.SExpr(root)
}
