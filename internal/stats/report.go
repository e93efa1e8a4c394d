package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/ruarcs/wc/internal/model"
	"github.com/ruarcs/wc/internal/store"
)

const pathColumnWidth = 48

// Report contains precomputed data for history rendering.
type Report struct {
	Runs         []model.RunRecord
	LetterAggs   []model.LetterAggregate
	LetterCounts [model.AlphabetSize]int64
}

// BuildReport loads stored runs and their letter totals.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list runs: %w", err)
	}
	aggs, err := st.ListLetterAggregates(ctx, runIDs(runs))
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate letters: %w", err)
	}
	return Report{
		Runs:         runs,
		LetterAggs:   aggs,
		LetterCounts: CountsFromAggregates(aggs),
	}, nil
}

// RenderRunTable prints stored runs as a plain table.
func RenderRunTable(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	table := newTextTable(RunColumns()...).alignRight(0, 3, 4, 5).limit(2, pathColumnWidth)
	for _, run := range runs {
		table.addRow(RunRow(run)...)
	}
	return table.render(w)
}

// RunColumns returns the column titles shared by every run listing.
func RunColumns() []string {
	return []string{"ID", "Analyzed", "Path", "Lines", "Words", "Avg", "Most common"}
}

// RunRow formats run as cells matching RunColumns.
func RunRow(run model.RunRecord) []string {
	return []string{
		fmt.Sprintf("%d", run.ID),
		run.AnalyzedAt.Local().Format("2006-01-02 15:04"),
		run.Path,
		fmt.Sprintf("%d", run.Result.Lines),
		fmt.Sprintf("%d", run.Result.Words),
		fmt.Sprintf("%.2f", run.Result.AverageLettersPerWord),
		FormatLetterSet(run.Result.MostCommonLetters),
	}
}

func runIDs(runs []model.RunRecord) []int64 {
	ids := make([]int64, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}
	return ids
}
