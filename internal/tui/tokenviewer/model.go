// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     tokenviewer
// Description: Bubbletea browser for the tokens, parse tree and problems of
//              one compilation unit
// License:     Apache-2.0
// ============================================================================

package tokenviewer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/parser"
	"github.com/apache/royale-compiler-sub012/internal/token"
	"github.com/apache/royale-compiler-sub012/pkg/core/version"
)

// Loader parses the file shown by the viewer
type Loader func(path string) (*parser.Result, error)

// Config holds token viewer configuration
type Config struct {
	Path    string
	Options parser.Options
	// Loader replaces parser.ParseFile when set
	Loader Loader
}

// Model is the Bubbletea model of the token viewer
type Model struct {
	width   int
	height  int
	ready   bool
	loading bool
	err     error

	tokenView   viewport.Model
	problemView viewport.Model
	spinner     spinner.Model
	search      textinput.Model
	searching   bool

	path   string
	loader Loader
	result *parser.Result

	focus        Pane
	showComments bool
	showTree     bool
	filtered     []*token.Token
}

// New creates a token viewer model
func New(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	ti := textinput.New()
	ti.Placeholder = "token text"
	ti.Prompt = "/"
	ti.CharLimit = 64

	loader := cfg.Loader
	if loader == nil {
		opts := cfg.Options
		opts.KeepTokens = true
		opts.CollectComments = true
		loader = func(path string) (*parser.Result, error) {
			return parser.ParseFile(path, opts)
		}
	}

	return Model{
		spinner:      sp,
		search:       ti,
		path:         cfg.Path,
		loader:       loader,
		loading:      true,
		showComments: true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

func (m Model) load() tea.Msg {
	res, err := m.loader(m.path)
	return resultLoadedMsg{result: res, err: err}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // title + filter bar
		footerHeight := 3 // status bar + help
		viewHeight := msg.Height - headerHeight - footerHeight - 2
		if viewHeight < 3 {
			viewHeight = 3
		}
		tokenWidth := msg.Width*3/5 - 4
		problemWidth := msg.Width - tokenWidth - 8

		if !m.ready {
			m.tokenView = viewport.New(tokenWidth, viewHeight)
			m.problemView = viewport.New(problemWidth, viewHeight)
			m.ready = true
		} else {
			m.tokenView.Width, m.tokenView.Height = tokenWidth, viewHeight
			m.problemView.Width, m.problemView.Height = problemWidth, viewHeight
		}
		m.updateContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case resultLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.result = msg.result
			m.applyFilters()
			m.updateContent()
		}

	case reloadMsg:
		m.loading = true
		cmds = append(cmds, m.spinner.Tick, m.load)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		if msg.Type == tea.KeyEsc {
			m.search.SetValue("")
		}
		m.applyFilters()
		m.updateContent()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilters()
	m.updateContent()
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyTab:
		if m.focus == PaneTokens {
			m.focus = PaneProblems
		} else {
			m.focus = PaneTokens
		}
		return m, nil

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "c":
			m.showComments = !m.showComments
			m.applyFilters()
			m.updateContent()
		case "t":
			m.showTree = !m.showTree
			m.updateContent()
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "r":
			return m, func() tea.Msg { return reloadMsg{} }
		case "g":
			m.focused().GotoTop()
		case "G":
			m.focused().GotoBottom()
		}
		return m, nil

	case tea.KeyPgUp:
		m.focused().ViewUp()
	case tea.KeyPgDown:
		m.focused().ViewDown()
	case tea.KeyUp:
		m.focused().LineUp(1)
	case tea.KeyDown:
		m.focused().LineDown(1)
	}
	return m, nil
}

func (m *Model) focused() *viewport.Model {
	if m.focus == PaneProblems {
		return &m.problemView
	}
	return &m.tokenView
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading token viewer..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(m.renderPanels())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		strings.Repeat(" ", 3),
		PathStyle.Render(m.path),
	)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

func (m Model) renderFilterBar() string {
	parts := []string{
		"c:" + RenderFilterStatus("comments", m.showComments),
		"t:" + RenderFilterStatus("tree", m.showTree),
	}
	if m.searching || m.search.Value() != "" {
		parts = append(parts, m.search.View())
	}
	total := 0
	if m.result != nil {
		total = len(m.result.Tokens)
	}
	count := HelpDescStyle.Render(fmt.Sprintf("[%d/%d tokens]", len(m.filtered), total))
	return FilterBarStyle.Width(m.width - 2).Render(strings.Join(parts, "  ") + "  " + count)
}

func (m Model) renderPanels() string {
	tokenStyle, problemStyle := PanelStyle, PanelStyle
	if m.focus == PaneTokens {
		tokenStyle = FocusedPanelStyle
	} else {
		problemStyle = FocusedPanelStyle
	}
	left := tokenStyle.Width(m.tokenView.Width + 2).Render(m.tokenView.View())
	right := problemStyle.Width(m.problemView.Width + 2).Render(m.problemView.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.loading:
		left = m.spinner.View() + " Parsing..."
	case m.err != nil:
		left = ProblemErrorStyle.Render(m.err.Error())
	case m.result != nil:
		left = HelpDescStyle.Render(fmt.Sprintf("%d problems  %d includes  %s",
			len(m.result.Problems), includeCount(m.result), m.result.Duration))
	}
	right := HelpDescStyle.Render("v" + version.Release)

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if padding < 2 {
		padding = 2
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("tab", "pane"),
		RenderKeyHint("c", "comments"),
		RenderKeyHint("t", "tree"),
		RenderKeyHint("/", "search"),
		RenderKeyHint("r", "reload"),
		RenderKeyHint("g/G", "top/bottom"),
		RenderKeyHint("q", "quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

func includeCount(res *parser.Result) int {
	if res.Lookup == nil {
		return 0
	}
	if n := len(res.Lookup.Files()) - 1; n > 0 {
		return n
	}
	return 0
}

// applyFilters selects the tokens shown in the token pane
func (m *Model) applyFilters() {
	m.filtered = nil
	if m.result == nil {
		return
	}
	query := strings.ToLower(m.search.Value())
	for _, tok := range m.result.Tokens {
		if !m.showComments && tok.Kind.IsComment() {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(tok.Text), query) {
			continue
		}
		m.filtered = append(m.filtered, tok)
	}
}

func (m *Model) updateContent() {
	if !m.ready || m.result == nil {
		return
	}

	var tokens strings.Builder
	if m.showTree {
		tokens.WriteString(ast.SExpr(m.result.Root))
	} else {
		for _, tok := range m.filtered {
			pos := PositionStyle.Render(fmt.Sprintf("%4d:%-3d", tok.Line, tok.Column))
			kind := KindStyle.Render(fmt.Sprintf("%-22s", truncateString(tok.Kind.String(), 22)))
			text := TokenStyle(tok.Kind).Render(truncateString(strconv.Quote(tok.Text), 48))
			tokens.WriteString(pos + " " + kind + " " + text + "\n")
		}
	}
	m.tokenView.SetContent(tokens.String())

	var problems strings.Builder
	for _, p := range m.result.Problems {
		problems.WriteString(fmt.Sprintf("%s %d:%d %s\n", RenderSeverity(p.Severity), p.Line, p.Column, p.Message))
	}
	if len(m.result.Problems) == 0 {
		problems.WriteString(FilterActiveStyle.Render("no problems"))
	}
	m.problemView.SetContent(problems.String())
}

// truncateString truncates a string to max length
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "~"
}

// Run starts the token viewer
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
