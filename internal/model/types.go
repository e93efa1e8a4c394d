// Package model defines shared data structures.
package model

import "time"

// AlphabetSize is the number of folded ASCII letter slots.
const AlphabetSize = 26

// Result holds the statistics of one analysed text.
type Result struct {
	Lines                 int64
	Words                 int64
	Letters               int64
	AverageLettersPerWord float64
	MostCommonLetters     map[rune]struct{}
	LetterCounts          [AlphabetSize]int64
}

// AnalyzeConfig defines options for a single analysis run.
type AnalyzeConfig struct {
	Letters      bool
	Histogram    bool
	Record       bool
	MaxLineBytes int
}

// HistoryConfig defines filters for listing stored runs.
type HistoryConfig struct {
	Path  string
	Since *time.Time
	Last  int
}

// RunRecord captures a stored analysis run.
type RunRecord struct {
	ID         int64
	Path       string
	AnalyzedAt time.Time
	Result     Result
}

// LetterAggregate sums letter occurrences across runs.
type LetterAggregate struct {
	Letter string
	Count  int64
}
