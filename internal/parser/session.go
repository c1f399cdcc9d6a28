package parser

import (
	"time"

	"github.com/google/uuid"

	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/buffer"
	"github.com/apache/royale-compiler-sub012/internal/confvar"
	"github.com/apache/royale-compiler-sub012/internal/include"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/source"
	"github.com/apache/royale-compiler-sub012/internal/token"
	"github.com/apache/royale-compiler-sub012/internal/tokenizer"
	"github.com/apache/royale-compiler-sub012/pkg/core/cache"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// Result is everything a parse session produced
type Result struct {
	SessionID string
	Path      string
	Root      *ast.Node
	Problems  []*problem.Problem

	// Tokens is filled when Options.KeepTokens is set
	Tokens   []*token.Token
	Comments []*token.Token

	Cues      []include.OffsetCue
	Lookup    *include.OffsetLookup
	Constants []confvar.Constant

	Duration     time.Duration
	Aborted      bool
	BraceBalance int
}

// HasErrors reports whether any problem is an error
func (r *Result) HasErrors() bool {
	for _, p := range r.Problems {
		if p.Severity == problem.SeverityError {
			return true
		}
	}
	return false
}

// ParseFile reads path through the provider and parses it. Only failing
// to read the root file is an error; everything else is a problem.
func ParseFile(path string, opts Options) (*Result, error) {
	if opts.Provider == nil {
		osp := source.NewOSProvider(cache.DefaultConfig())
		defer osp.Close()
		opts.Provider = osp
	}
	text, err := source.ReadAll(opts.Provider, path)
	if err != nil {
		return nil, aserror.Wrap(err, "failed to read compilation unit").
			WithCode(aserror.CodeIO).
			WithOperation("ParseFile").
			WithPath(path)
	}
	return ParseSource(path, text, opts), nil
}

// ParseSource parses text as the compilation unit at path. Includes are
// resolved through opts.Provider; a memory provider holding only path is
// used when none is set.
func ParseSource(path, text string, opts Options) *Result {
	start := time.Now()
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = aslog.GetDefault()
	}
	logger = logger.WithSessionID(id)
	opts.Logger = logger
	log := logger.WithField("component", "parser")

	if opts.Provider == nil {
		mem := source.NewMemoryProvider()
		mem.Add(path, text)
		opts.Provider = mem
	}
	if opts.RewindLimit <= 0 {
		opts.RewindLimit = buffer.DefaultRewindLimit
	}

	problems := problem.NewList()
	cfg := opts.Config
	if cfg == nil {
		cfg = confvar.New(confvar.Options{Problems: problems, Logger: logger})
		defer cfg.Close()
	}
	loadDefines(cfg, opts.Defines, problems, logger)

	log.Debug("Parse started", aslog.Fields{"path": path, "mode": opts.BufferMode.String()})

	tz := tokenizer.New(path, text, tokenizer.Options{
		Provider:        opts.Provider,
		SourceRoots:     opts.SourceRoots,
		FollowIncludes:  opts.FollowIncludes,
		CollectComments: opts.CollectComments,
		Fragment:        opts.Fragment,
		MXML:            opts.MXML,
		Resolver:        cfg,
		Problems:        problems,
		Logger:          logger,
	})
	p := New(tz, cfg, opts)
	root := p.ParseFile()

	res := &Result{
		SessionID:    id,
		Path:         path,
		Root:         root,
		Problems:     problems.Sorted(),
		Tokens:       p.stream.tokens,
		Comments:     p.stream.comments,
		Cues:         tz.IncludeHandler().Cues(),
		Lookup:       tz.OffsetLookup(),
		Constants:    cfg.Constants(),
		Duration:     time.Since(start),
		Aborted:      tz.Aborted() || p.buf.Aborted(),
		BraceBalance: tz.BraceBalance(),
	}
	if res.Aborted {
		log.Error("Parse aborted", aslog.Fields{"path": path, "problems": len(res.Problems)})
	}
	log.Timed(aslog.LevelDebug, "Parse finished", start, aslog.Fields{
		"path":     path,
		"problems": len(res.Problems),
		"includes": tz.IncludeHandler().IncludeCount(),
	})
	return res
}

// ParseExpressionText parses a standalone expression fragment
func ParseExpressionText(text string, opts Options) *Result {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = aslog.GetDefault()
	}
	problems := problem.NewList()
	cfg := opts.Config
	if cfg == nil {
		cfg = confvar.New(confvar.Options{Problems: problems, Logger: logger})
		defer cfg.Close()
	}
	loadDefines(cfg, opts.Defines, problems, logger)

	root := parseFragment("<expression>", text, cfg, problems, logger)
	return &Result{
		SessionID: uuid.NewString(),
		Path:      "<expression>",
		Root:      root,
		Problems:  problems.Sorted(),
		Constants: cfg.Constants(),
		Duration:  time.Since(start),
	}
}

func parseFragment(path, text string, cfg *confvar.Processor, problems *problem.List, logger *aslog.Logger) *ast.Node {
	tz := tokenizer.New(path, text, tokenizer.Options{
		Fragment: true,
		Resolver: cfg,
		Problems: problems,
		Logger:   logger,
	})
	p := New(tz, cfg, Options{BufferMode: buffer.ModeArray, Logger: logger})
	return p.ParseExpression()
}

// loadDefines registers project defines. The value of each define is an
// expression and may refer to defines registered before it.
func loadDefines(cfg *confvar.Processor, defines []Define, problems *problem.List, logger *aslog.Logger) {
	for _, d := range defines {
		ns := d.Namespace
		if ns == "" {
			ns = confvar.DefaultNamespace
		}
		switch {
		case ns == confvar.DefaultNamespace:
			cfg.EnsureDefaultNamespace()
		case !cfg.IsConfigNamespace(ns):
			cfg.AddNamespace(ns)
		}
		path := "<define " + ns + "::" + d.Name + ">"
		c := ast.New(ast.KindConstant, 0, 0)
		c.Path = path
		c.Namespace = ns
		c.Text = d.Name
		c.AddChild(parseFragment(path, d.Value, cfg, problems, logger))
		cfg.AddConfigConstNode(c)
	}
}
