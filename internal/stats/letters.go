package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/ruarcs/wc/internal/model"
)

type letterRow struct {
	letter string
	count  int64
}

// sortedLetters returns the nonzero counters ordered by count desc, then letter.
func sortedLetters(counts [model.AlphabetSize]int64) []letterRow {
	rows := make([]letterRow, 0, model.AlphabetSize)
	for i, count := range counts {
		if count == 0 {
			continue
		}
		rows = append(rows, letterRow{letter: string(rune('a' + i)), count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count == rows[j].count {
			return rows[i].letter < rows[j].letter
		}
		return rows[i].count > rows[j].count
	})
	return rows
}

func totalOf(counts [model.AlphabetSize]int64) int64 {
	var total int64
	for _, c := range counts {
		total += c
	}
	return total
}

// RenderLetterTable prints per-letter counts and their share of all letters.
func RenderLetterTable(w io.Writer, counts [model.AlphabetSize]int64) error {
	rows := sortedLetters(counts)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No letters found.")
		return err
	}
	total := float64(totalOf(counts))
	table := newTextTable("Letter", "Count", "Share").alignRight(1, 2)
	for _, r := range rows {
		table.addRow(
			r.letter,
			fmt.Sprintf("%d", r.count),
			fmt.Sprintf("%.2f%%", float64(r.count)/total*100),
		)
	}
	return table.render(w)
}

// CountsFromAggregates folds letter aggregates back into counters.
// Entries that are not a single lowercase letter are ignored.
func CountsFromAggregates(aggs []model.LetterAggregate) [model.AlphabetSize]int64 {
	var counts [model.AlphabetSize]int64
	for _, agg := range aggs {
		if len(agg.Letter) != 1 || agg.Letter[0] < 'a' || agg.Letter[0] > 'z' {
			continue
		}
		counts[agg.Letter[0]-'a'] += agg.Count
	}
	return counts
}

// TopLetters returns the n most frequent letters.
func TopLetters(aggs []model.LetterAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	rows := sortedLetters(CountsFromAggregates(aggs))
	n = min(n, len(rows))
	out := make([]string, 0, n)
	for _, r := range rows[:n] {
		out = append(out, r.letter)
	}
	return out
}
