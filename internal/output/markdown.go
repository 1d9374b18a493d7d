package output

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders the report as GitHub-Flavored Markdown suitable
// for PR comments, with collapsible per-file sections.
type MarkdownFormatter struct{}

// Format produces the Markdown document.
func (f *MarkdownFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("markdown formatter: report is required")
	}

	var sb strings.Builder
	total := report.TotalOffenses()

	fmt.Fprintf(&sb, "## %s report\n\n", report.Tool)
	if total == 0 {
		sb.WriteString(":white_check_mark: No offenses found.\n")
		return []byte(sb.String()), nil
	}

	fmt.Fprintf(&sb, ":warning: **%d offense(s)** in %d file(s)\n\n", total, offendingFileCount(report))

	for _, file := range report.Files {
		if len(file.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "<details>\n<summary><code>%s</code> — %d offense(s)%s</summary>\n\n",
			file.Path, len(file.Diagnostics), fixedSuffix(file))
		sb.WriteString("| Line | Rule | Message |\n")
		sb.WriteString("|------|------|---------|\n")
		for _, d := range file.Diagnostics {
			fmt.Fprintf(&sb, "| %s | `%s` | %s |\n", lineRange(d.StartLine, d.EndLine), d.RuleID, d.Message)
		}
		sb.WriteString("\n</details>\n\n")
	}

	return []byte(sb.String()), nil
}

func offendingFileCount(report *Report) int {
	n := 0
	for _, f := range report.Files {
		if len(f.Diagnostics) > 0 {
			n++
		}
	}
	return n
}

func fixedSuffix(file FileReport) string {
	if !file.Fixed {
		return ""
	}
	return fmt.Sprintf(" — fixed in %d pass(es)", file.Passes)
}

// lineRange returns a human-readable line range string (e.g. "42" or "10-75").
func lineRange(start, end int) string {
	if end == 0 || end == start {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}
