package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ruarcs/wc/internal/model"
)

func TestRenderSummary(t *testing.T) {
	res := model.Result{
		Lines:                 1,
		Words:                 3,
		AverageLettersPerWord: 4.0,
		MostCommonLetters:     map[rune]struct{}{'t': {}, 'i': {}, 'e': {}},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, res); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	want := "words: 3\nlines: 1\naverage letters per word: 4.0\nmost common letter: e,i,t\n"
	if buf.String() != want {
		t.Fatalf("unexpected summary:\n%s", buf.String())
	}
}

func TestRenderSummaryEmptySet(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, model.Result{Lines: 1}); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[2] != "average letters per word: 0.0" {
		t.Fatalf("unexpected average line: %q", lines[2])
	}
	if lines[3] != "most common letter: " {
		t.Fatalf("unexpected letter line: %q", lines[3])
	}
}

func TestFormatAverage(t *testing.T) {
	cases := map[float64]string{
		0:            "0.0",
		4:            "4.0",
		5:            "5.0",
		2.5:          "2.5",
		11.0 / 3.0:   "3.6666666666666665",
		0.001:        "0.001",
		1.0 / 3000.0: "3.333333333333333E-4",
		0.0001:       "1.0E-4",
		9999999.5:    "9999999.5",
		1e7:          "1.0E7",
		1.2e7:        "1.2E7",
		123456789.25: "1.2345678925E8",
		math.Inf(1):  "Infinity",
	}
	for in, want := range cases {
		if got := FormatAverage(in); got != want {
			t.Fatalf("FormatAverage(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatLetterSetEmpty(t *testing.T) {
	if got := FormatLetterSet(map[rune]struct{}{}); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := FormatLetterSet(nil); got != "" {
		t.Fatalf("expected empty string for nil set, got %q", got)
	}
}

func TestFormatLetterSetRoundTrip(t *testing.T) {
	sets := []map[rune]struct{}{
		{'a': {}},
		{'t': {}, 'i': {}, 'e': {}},
		{'a': {}, 'e': {}, 'i': {}, 'o': {}, 'u': {}},
	}
	for _, set := range sets {
		out := FormatLetterSet(set)
		if strings.HasPrefix(out, ",") || strings.HasSuffix(out, ",") {
			t.Fatalf("unexpected separator at edge: %q", out)
		}
		parts := strings.Split(out, ",")
		if len(parts) != len(set) {
			t.Fatalf("expected %d parts, got %q", len(set), out)
		}
		seen := map[rune]struct{}{}
		for _, part := range parts {
			runes := []rune(part)
			if len(runes) != 1 {
				t.Fatalf("expected single letter, got %q", part)
			}
			if _, ok := set[runes[0]]; !ok {
				t.Fatalf("unexpected letter %q in %q", part, out)
			}
			seen[runes[0]] = struct{}{}
		}
		if len(seen) != len(set) {
			t.Fatalf("round trip lost letters: %q", out)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if got != " @" {
		t.Fatalf("expected min/max sparkline, got %q", got)
	}
}

func TestRenderTrends(t *testing.T) {
	runs := []model.RunRecord{
		{Result: model.Result{Words: 1, AverageLettersPerWord: 1}},
		{Result: model.Result{Words: 5, AverageLettersPerWord: 3}},
	}
	var buf bytes.Buffer
	if err := RenderTrends(&buf, runs, 1); err != nil {
		t.Fatalf("RenderTrends failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Words    @") {
		t.Fatalf("unexpected trends output: %q", buf.String())
	}
}
