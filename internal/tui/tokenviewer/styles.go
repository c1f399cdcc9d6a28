// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     tokenviewer
// Description: Styles for the token viewer TUI
// License:     Apache-2.0
// ============================================================================

package tokenviewer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

// Color Palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500

	// Token class colors
	ColorKeyword = lipgloss.Color("#C084FC") // Purple 400
	ColorLiteral = lipgloss.Color("#34D399") // Emerald 400
	ColorComment = lipgloss.Color("#64748B") // Slate 500
	ColorXML     = lipgloss.Color("#FBBF24") // Amber 400
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)
)

// Token row styles
var (
	PositionStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	KindStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	KeywordStyle = lipgloss.NewStyle().
			Foreground(ColorKeyword).
			Bold(true)

	LiteralStyle = lipgloss.NewStyle().
			Foreground(ColorLiteral)

	CommentStyle = lipgloss.NewStyle().
			Foreground(ColorComment).
			Italic(true)

	XMLStyle = lipgloss.NewStyle().
			Foreground(ColorXML)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// Problem styles
var (
	ProblemErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	ProblemWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	FilterBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	FilterActiveStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	FilterInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)
)

// Logo
const Logo = "asfront tokens"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderFilterStatus renders a filter status indicator
func RenderFilterStatus(name string, active bool) string {
	if active {
		return FilterActiveStyle.Render(name)
	}
	return FilterInactiveStyle.Render(name)
}

// TokenStyle picks the style for a token kind
func TokenStyle(k token.Kind) lipgloss.Style {
	switch {
	case k.IsComment():
		return CommentStyle
	case k.IsKeywordOrContextual():
		return KeywordStyle
	case k.IsLiteral():
		return LiteralStyle
	case k.IsE4X():
		return XMLStyle
	}
	return TextStyle
}

// RenderSeverity renders a problem severity badge
func RenderSeverity(s problem.Severity) string {
	if s == problem.SeverityWarning {
		return ProblemWarningStyle.Render("[WARN] ")
	}
	return ProblemErrorStyle.Render("[ERROR]")
}
