package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

const (
	// maxCellWidth truncates long names and snippets in tables.
	maxCellWidth = 48
	// markdownWidth is the wrap width for rendered object bodies.
	markdownWidth = 100
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

// printStructured writes v as JSON or YAML when --output asks for it and
// reports whether it did.
func printStructured(w io.Writer, v any) (bool, error) {
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, err
		}
		fmt.Fprintln(w, string(data))
		return true, nil
	case "yaml", "yml":
		// Round-trip through JSON so the yaml keys follow the json tags.
		data, err := json.Marshal(v)
		if err != nil {
			return true, err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return true, err
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return true, err
		}
		fmt.Fprint(w, string(out))
		return true, nil
	}
	return false, nil
}

// table lays out rows in columns using display width, so emoji icons and
// CJK names line up.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table {
	return &table{header: header}
}

func (t *table) add(cells ...string) {
	row := make([]string, len(t.header))
	for i := range row {
		if i < len(cells) {
			row[i] = runewidth.Truncate(oneLine(cells[i]), maxCellWidth, "…")
		}
	}
	t.rows = append(t.rows, row)
}

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	line := func(cells []string, style *lipgloss.Style) {
		var sb strings.Builder
		for i, c := range cells {
			if i == len(cells)-1 {
				sb.WriteString(c)
				break
			}
			sb.WriteString(runewidth.FillRight(c, widths[i]+2))
		}
		out := strings.TrimRight(sb.String(), " ")
		if style != nil {
			out = style.Render(out)
		}
		fmt.Fprintln(w, out)
	}
	line(t.header, &headerStyle)
	for _, row := range t.rows {
		line(row, nil)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// renderMarkdown formats markdown for the terminal. Plain output is used
// when stdout is not a terminal.
func renderMarkdown(md string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}
