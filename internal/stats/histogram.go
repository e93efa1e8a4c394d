package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ruarcs/wc/internal/model"
)

const (
	barRune             = '#'
	minBarWidth         = 10
	terminalWidthBackup = 80
	barColor            = "\x1b[36m"
	topBarColor         = "\x1b[33m"
	colorReset          = "\x1b[0m"
)

// RenderHistogram prints one horizontal bar per observed letter, scaled to
// the most frequent one. A non-positive width uses the terminal width.
func RenderHistogram(w io.Writer, counts [model.AlphabetSize]int64, width int) error {
	return renderHistogram(w, counts, width, shouldUseColor(w, false))
}

// RenderHistogramWithColor is RenderHistogram with forced color output.
func RenderHistogramWithColor(w io.Writer, counts [model.AlphabetSize]int64, width int, forceColor bool) error {
	return renderHistogram(w, counts, width, shouldUseColor(w, forceColor))
}

func renderHistogram(w io.Writer, counts [model.AlphabetSize]int64, width int, useColor bool) error {
	rows := sortedLetters(counts)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No letters found.")
		return err
	}
	if width <= 0 {
		width = terminalWidth()
	}
	peak := rows[0].count
	countWidth := len(fmt.Sprintf("%d", peak))
	// "x " prefix plus " <count>" suffix.
	barWidth := max(width-2-1-countWidth, minBarWidth)

	for _, r := range rows {
		size := int(float64(r.count) / float64(peak) * float64(barWidth))
		if size == 0 {
			size = 1
		}
		bar := strings.Repeat(string(barRune), size)
		if useColor {
			color := barColor
			if r.count == peak {
				color = topBarColor
			}
			bar = color + bar + colorReset
		}
		if _, err := fmt.Fprintf(w, "%s %s %*d\n", r.letter, bar, countWidth+barWidth-size, r.count); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	return IsTerminal(w)
}
