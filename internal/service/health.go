package service

import (
	"context"
	"fmt"

	"github.com/apache/royale-compiler-sub012/internal/parser"
	"github.com/apache/royale-compiler-sub012/pkg/core/health"
)

// selfCheckSource exercises include expansion, conditional compilation and the
// parser in one request.
const selfCheckSource = `include "check.as"
CONFIG::selfcheck {
	var b = a + 1;
}
`

var selfCheckDefine = parser.Define{Namespace: "CONFIG", Name: "selfcheck", Value: "true"}

// RegisterHealth adds the service's checks to registry. The parser check
// runs a small request end to end. A failing history ping only degrades
// the service.
func (s *Service) RegisterHealth(registry *health.Registry) {
	registry.Register(health.ErrorCheck("parser", false, s.selfCheck))
	if s.history != nil {
		registry.Register(health.ErrorCheck("history", true, s.history.Ping))
	}
}

func (s *Service) selfCheck(ctx context.Context) error {
	svc := *s
	svc.history = nil
	svc.config.Parser.Defines = append(svc.config.Parser.Defines[:0:0], selfCheckDefine)
	svc.config.Parser.FollowIncludes = true

	res, err := svc.Parse(ctx, Request{
		Path:   "/health/main.as",
		Source: selfCheckSource,
		Files:  map[string]string{"/health/check.as": "var a = 1;\n"},
	})
	if err != nil {
		return err
	}
	if res.Aborted || res.HasErrors() {
		return fmt.Errorf("self-check parse reported %d problems", len(res.Problems))
	}
	return nil
}
