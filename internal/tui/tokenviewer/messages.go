package tokenviewer

import (
	"github.com/apache/royale-compiler-sub012/internal/parser"
)

// Pane identifies the focused list
type Pane int

const (
	PaneTokens Pane = iota
	PaneProblems
)

// Message types for tea.Cmd async operations

// resultLoadedMsg is sent when the file has been parsed
type resultLoadedMsg struct {
	result *parser.Result
	err    error
}

// reloadMsg asks for the file to be parsed again
type reloadMsg struct{}
