package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
)

// PrettyFormatter renders the report as colored, human-readable terminal
// output: one block per offending file, with the offending source line
// syntax-highlighted.
type PrettyFormatter struct{}

var (
	pathStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	lineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	summaryStyle = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	fixedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Format produces the terminal output.
func (f *PrettyFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pretty formatter: report is required")
	}

	var sb strings.Builder

	for _, file := range report.Files {
		if len(file.Diagnostics) == 0 {
			continue
		}
		sb.WriteString(pathStyle.Render(file.Path))
		sb.WriteString("\n")
		for _, d := range file.Diagnostics {
			fmt.Fprintf(&sb, "  %s %s %s\n",
				lineNumStyle.Render(fmt.Sprintf("%d:", d.StartLine)),
				warnStyle.Render("W"),
				d.Message)
			if line := sourceLine(file.Source, d.StartLine); line != "" {
				fmt.Fprintf(&sb, "    %s\n", highlightRuby(line))
			}
		}
		if file.Fixed {
			fmt.Fprintf(&sb, "  %s\n", fixedStyle.Render(fmt.Sprintf("fixed in %d pass(es)", file.Passes)))
		}
		sb.WriteString("\n")
	}

	total := report.TotalOffenses()
	if total == 0 {
		sb.WriteString(okStyle.Render("No offenses found."))
	} else {
		sb.WriteString(summaryStyle.Render(fmt.Sprintf("%d offense(s) in %d file(s)", total, offendingFileCount(report))))
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// sourceLine returns the 1-based line from src, trimmed, or "" when out of
// range.
func sourceLine(src []byte, line int) string {
	if len(src) == 0 || line < 1 {
		return ""
	}
	lines := bytes.Split(src, []byte{'\n'})
	if line > len(lines) {
		return ""
	}
	return strings.TrimSpace(string(lines[line-1]))
}

// highlightRuby syntax-highlights one line of Ruby for the terminal,
// falling back to the raw text when highlighting fails.
func highlightRuby(line string) string {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, line, "ruby", "terminal256", "monokai"); err != nil {
		return line
	}
	return strings.TrimRight(buf.String(), "\n")
}
