// Package stats contains statistics formatting and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ruarcs/wc/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RenderSummary prints the four-line summary for a result.
func RenderSummary(w io.Writer, res model.Result) error {
	if _, err := fmt.Fprintf(w, "words: %d\n", res.Words); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "lines: %d\n", res.Lines); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "average letters per word: %s\n", FormatAverage(res.AverageLettersPerWord)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "most common letter: %s\n", FormatLetterSet(res.MostCommonLetters)); err != nil {
		return err
	}
	return nil
}

// FormatAverage renders v the way a Java double prints: the shortest exact
// decimal with at least one fractional digit (4 renders as "4.0"), switching
// to E notation below 1e-3 and from 1e7 up (1.2e7 renders as "1.2E7").
func FormatAverage(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(n)
}

// FormatLetterSet joins the letters of set with commas. An empty set
// renders as "". Letters are emitted in ascending order.
func FormatLetterSet(set map[rune]struct{}) string {
	if len(set) == 0 {
		return ""
	}
	letters := make([]string, 0, len(set))
	for r := range set {
		letters = append(letters, string(r))
	}
	sort.Strings(letters)
	return strings.Join(letters, ",")
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderTrends prints word and average sparklines across runs.
func RenderTrends(w io.Writer, runs []model.RunRecord, window int) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	words := make([]float64, len(runs))
	avgs := make([]float64, len(runs))
	for i, run := range runs {
		words[i] = float64(run.Result.Words)
		avgs[i] = run.Result.AverageLettersPerWord
	}
	if _, err := fmt.Fprintf(w, "Words   %s\n", Sparkline(MovingAverage(words, window))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg len %s\n", Sparkline(MovingAverage(avgs, window))); err != nil {
		return err
	}
	return nil
}
