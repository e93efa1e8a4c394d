package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ruarcs/wc/internal/model"
	"github.com/ruarcs/wc/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		var counts [model.AlphabetSize]int64
		counts[0] = int64(i + 1)
		counts[1] = 1
		run := model.RunRecord{
			Path:       "/tmp/input.txt",
			AnalyzedAt: time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute),
			Result: model.Result{
				Lines:                 1,
				Words:                 2,
				Letters:               int64(i + 2),
				AverageLettersPerWord: float64(i+2) / 2,
				MostCommonLetters:     map[rune]struct{}{'a': {}},
				LetterCounts:          counts,
			},
		}
		id, err := st.InsertRun(ctx, run)
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(report.Runs))
	}
	if report.Runs[0].ID != ids[1] || report.Runs[1].ID != ids[2] {
		t.Fatalf("unexpected run ids: %+v", report.Runs)
	}
	if report.LetterCounts[0] != 5 || report.LetterCounts[1] != 2 {
		t.Fatalf("unexpected letter totals: %v", report.LetterCounts)
	}
	top := TopLetters(report.LetterAggs, 1)
	if len(top) != 1 || top[0] != "a" {
		t.Fatalf("unexpected top letters: %v", top)
	}
}

func TestRenderRunTable(t *testing.T) {
	runs := []model.RunRecord{{
		ID:         7,
		Path:       "/very/long/" + strings.Repeat("nested/", 10) + "input.txt",
		AnalyzedAt: time.Unix(0, 0),
		Result: model.Result{
			Lines:                 2,
			Words:                 5,
			AverageLettersPerWord: 4,
			MostCommonLetters:     map[rune]struct{}{'e': {}, 'a': {}},
		},
	}}
	var buf bytes.Buffer
	if err := RenderRunTable(&buf, runs); err != nil {
		t.Fatalf("render run table: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "...") || !strings.HasSuffix(lines[1], "a,e") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if !strings.Contains(lines[1], "4.00") {
		t.Fatalf("expected formatted average in row: %q", lines[1])
	}
}

func TestRenderRunTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRunTable(&buf, nil); err != nil {
		t.Fatalf("render run table: %v", err)
	}
	if buf.String() != "No runs found.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
