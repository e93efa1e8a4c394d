package stats

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// textTable lays out rows of cells in aligned, space-separated columns.
type textTable struct {
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
	maxWidth   map[int]int
}

func newTextTable(headers ...string) *textTable {
	return &textTable{
		headers:    headers,
		rightAlign: map[int]bool{},
		maxWidth:   map[int]int{},
	}
}

func (t *textTable) alignRight(cols ...int) *textTable {
	for _, col := range cols {
		t.rightAlign[col] = true
	}
	return t
}

// limit truncates cells of col wider than width, keeping their tail.
func (t *textTable) limit(col, width int) *textTable {
	t.maxWidth[col] = width
	return t
}

func (t *textTable) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *textTable) lines() []string {
	colCount := len(t.headers)
	for _, row := range t.rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range t.headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range t.rows {
		for i := 0; i < colCount; i++ {
			widths[i] = max(widths[i], displayWidth(t.cell(row, i)))
		}
	}

	lines := make([]string, 0, len(t.rows)+1)
	if len(t.headers) > 0 {
		lines = append(lines, t.formatRow(t.headers, widths))
	}
	for _, row := range t.rows {
		lines = append(lines, t.formatRow(row, widths))
	}
	return lines
}

func (t *textTable) render(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (t *textTable) cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	value := row[col]
	if limit, ok := t.maxWidth[col]; ok && limit > 0 && displayWidth(value) > limit {
		return truncateLeft(value, limit)
	}
	return value
}

func (t *textTable) formatRow(row []string, widths []int) string {
	var b strings.Builder
	for i, width := range widths {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(t.cell(row, i), width, t.rightAlign[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - displayWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// truncateLeft keeps the rightmost part of value, prefixed by "...".
func truncateLeft(value string, width int) string {
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	runes := []rune(value)
	kept := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if kept+w > width-3 {
			break
		}
		kept += w
		start--
	}
	return "..." + string(runes[start:])
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
