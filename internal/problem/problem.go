// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     problem
// Description: Diagnostics collected while tokenizing and parsing. A problem
//              never stops the pipeline; the caller receives the full list
//              together with the best-effort tree.
// License:     Apache-2.0
// ============================================================================

package problem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apache/royale-compiler-sub012/internal/token"
)

// Kind classifies a problem
type Kind string

const (
	SyntaxError             Kind = "SYNTAX_ERROR"
	UnexpectedToken         Kind = "UNEXPECTED_TOKEN"
	MissingToken            Kind = "MISSING_TOKEN"
	IllegalCharacter        Kind = "ILLEGAL_CHARACTER"
	UnterminatedLiteral     Kind = "UNTERMINATED_LITERAL"
	CyclicInclude           Kind = "CYCLIC_INCLUDE"
	IncludeNotFound         Kind = "INCLUDE_NOT_FOUND"
	IncludeIO               Kind = "INCLUDE_IO"
	InvalidDefaultNamespace Kind = "INVALID_DEFAULT_XML_NAMESPACE"
	MalformedMetadata       Kind = "MALFORMED_METADATA"
	UnboundMetadata         Kind = "UNBOUND_METADATA"
	InvalidEmbed            Kind = "INVALID_EMBED"
	XMLTagMismatch          Kind = "XML_TAG_MISMATCH"
	XMLUnclosedTag          Kind = "XML_UNCLOSED_TAG"
	UndeclaredConfigNS      Kind = "UNDECLARED_CONFIG_NAMESPACE"
	NonConstantConfigValue  Kind = "NON_CONSTANT_CONFIG_VALUE"
	ConfigEvaluation        Kind = "CONFIG_EVALUATION"
	UnbalancedBraces        Kind = "UNBALANCED_BRACES"
	InternalError           Kind = "INTERNAL_ERROR"
)

// Severity of a problem
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Problem is a single diagnostic with a source position
type Problem struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	// Text is the spelling of the offending token, when there is one
	Text string `json:"text,omitempty"`
	// Expected is the token kind the parser wanted, when known
	Expected string `json:"expected,omitempty"`
}

// Error implements the error interface
func (p *Problem) Error() string {
	return p.String()
}

func (p *Problem) String() string {
	var b strings.Builder
	if p.Path != "" {
		b.WriteString(p.Path)
		b.WriteByte(':')
	}
	fmt.Fprintf(&b, "%d:%d: %s: %s", p.Line, p.Column, p.Severity, p.Message)
	return b.String()
}

// At creates a problem positioned on tok
func At(kind Kind, tok *token.Token, format string, args ...interface{}) *Problem {
	p := &Problem{
		Kind:     kind,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
	if tok != nil {
		p.Path = tok.SourcePath
		p.Start = tok.Start
		p.End = tok.End
		p.Line = tok.Line
		p.Column = tok.Column
		p.Text = tok.Text
	}
	return p
}

// AtPosition creates a problem without a token
func AtPosition(kind Kind, path string, start, end, line, column int, format string, args ...interface{}) *Problem {
	return &Problem{
		Kind:     kind,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Path:     path,
		Start:    start,
		End:      end,
		Line:     line,
		Column:   column,
	}
}

// Shift moves the problem by delta bytes
func (p *Problem) Shift(delta int) *Problem {
	p.Start += delta
	p.End += delta
	return p
}

// AsWarning lowers the severity
func (p *Problem) AsWarning() *Problem {
	p.Severity = SeverityWarning
	return p
}

type tokenKey struct {
	path     string
	start    int
	implicit bool
}

// List is an ordered problem collection shared by a tokenizer, its forked
// include children and the parser.
type List struct {
	items   []*Problem
	byToken map[tokenKey]bool
}

// NewList creates an empty list
func NewList() *List {
	return &List{byToken: make(map[tokenKey]bool)}
}

// Add appends a problem
func (l *List) Add(p *Problem) {
	if p == nil {
		return
	}
	l.items = append(l.items, p)
}

// AddForToken appends a problem unless one was already reported for tok.
// The problem's own position is the key, so a problem shifted into the
// absolute offset space is matched against later reports on the same
// token after it was shifted too. It returns false when the problem was
// suppressed.
func (l *List) AddForToken(tok *token.Token, p *Problem) bool {
	if tok == nil || p == nil {
		l.Add(p)
		return true
	}
	key := tokenKey{path: p.Path, start: p.Start, implicit: tok.Implicit}
	if l.byToken[key] {
		return false
	}
	l.byToken[key] = true
	l.Add(p)
	return true
}

// ReportedAt reports whether a token-keyed problem exists for tok
func (l *List) ReportedAt(tok *token.Token) bool {
	if tok == nil {
		return false
	}
	return l.byToken[tokenKey{path: tok.SourcePath, start: tok.Start, implicit: tok.Implicit}]
}

// Len returns the number of problems
func (l *List) Len() int {
	return len(l.items)
}

// All returns the problems in report order
func (l *List) All() []*Problem {
	out := make([]*Problem, len(l.items))
	copy(out, l.items)
	return out
}

// Sorted returns the problems ordered by path and offset
func (l *List) Sorted() []*Problem {
	out := l.All()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// Count returns the number of problems of the given kind
func (l *List) Count(kind Kind) int {
	n := 0
	for _, p := range l.items {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// HasErrors reports whether any problem has error severity
func (l *List) HasErrors() bool {
	for _, p := range l.items {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
