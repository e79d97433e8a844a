package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTableAlignsWideCells(t *testing.T) {
	tb := newTable("ICON", "NAME", "TYPE")
	tb.add("📝", "Notes", "Page")
	tb.add("a", "日本語のメモ", "Task")

	var buf bytes.Buffer
	tb.render(&buf)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}

	// The TYPE column starts at the same display offset on every row.
	col := func(line, cell string) int {
		i := strings.Index(line, cell)
		if i < 0 {
			t.Fatalf("%q not in %q", cell, line)
		}
		return runewidth.StringWidth(line[:i])
	}
	if a, b := col(lines[1], "Page"), col(lines[2], "Task"); a != b {
		t.Errorf("TYPE column at %d and %d", a, b)
	}
}

func TestTableTruncatesAndFlattens(t *testing.T) {
	tb := newTable("A")
	tb.add(strings.Repeat("x", 100) + "\nmore")
	tb.add("multi\n  line\ttext")

	if w := runewidth.StringWidth(tb.rows[0][0]); w > maxCellWidth {
		t.Errorf("cell width %d > %d", w, maxCellWidth)
	}
	if got := tb.rows[1][0]; got != "multi line text" {
		t.Errorf("cell = %q", got)
	}
}

func TestTableMissingCells(t *testing.T) {
	tb := newTable("A", "B", "C")
	tb.add("only")
	if len(tb.rows[0]) != 3 || tb.rows[0][2] != "" {
		t.Errorf("row = %q", tb.rows[0])
	}
}

func TestPrintStructured(t *testing.T) {
	v := struct {
		SpaceID string `json:"space_id"`
		Count   int    `json:"count"`
	}{"sp1", 2}

	tests := []struct {
		format  string
		handled bool
		want    string
	}{
		{"json", true, "\"space_id\": \"sp1\""},
		{"yaml", true, "space_id: sp1"},
		{"table", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			old := outputFormat
			outputFormat = tt.format
			defer func() { outputFormat = old }()

			var buf bytes.Buffer
			handled, err := printStructured(&buf, v)
			if err != nil {
				t.Fatal(err)
			}
			if handled != tt.handled {
				t.Errorf("handled = %v", handled)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}
