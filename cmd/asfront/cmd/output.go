package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/apache/royale-compiler-sub012/internal/problem"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
)

// problemRow is the structured form of a problem
type problemRow struct {
	Kind     string `json:"kind" yaml:"kind"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
}

func problemRows(problems []*problem.Problem) []problemRow {
	rows := make([]problemRow, 0, len(problems))
	for _, p := range problems {
		rows = append(rows, problemRow{
			Kind:     string(p.Kind),
			Severity: p.Severity.String(),
			Message:  p.Message,
			Path:     p.Path,
			Line:     p.Line,
			Column:   p.Column,
			Start:    p.Start,
			End:      p.End,
		})
	}
	return rows
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// renderProblems prints problems as path:line:col lines
func renderProblems(w io.Writer, problems []*problem.Problem) {
	if len(problems) == 0 {
		fmt.Fprintln(w, okStyle.Render("no problems"))
		return
	}
	for _, p := range problems {
		badge := errorStyle.Render("error")
		if p.Severity == problem.SeverityWarning {
			badge = warningStyle.Render("warning")
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			dimStyle.Render(fmt.Sprintf("%s:%d:%d:", p.Path, p.Line, p.Column)),
			badge,
			p.Message,
			dimStyle.Render("["+string(p.Kind)+"]"))
	}
}

func renderHeader(w io.Writer, title string) {
	fmt.Fprintln(w, headerStyle.Render(title))
}
