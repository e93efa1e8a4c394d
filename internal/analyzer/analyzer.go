// Package analyzer computes line, word and letter statistics for text.
package analyzer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ruarcs/wc/internal/model"
)

// DefaultMaxLineBytes bounds the length of a single line.
const DefaultMaxLineBytes = 16 << 20

const initialBufferBytes = 64 * 1024

// tally is the working state of one analysis call.
type tally struct {
	lines   int64
	words   int64
	letters int64
	counts  letterCounts
}

// Analyze reads r line by line and returns its statistics.
func Analyze(r io.Reader) (model.Result, error) {
	return AnalyzeWithLimit(r, DefaultMaxLineBytes)
}

// AnalyzeWithLimit is Analyze with a custom maximum line length.
// A non-positive limit selects DefaultMaxLineBytes.
func AnalyzeWithLimit(r io.Reader, maxLineBytes int) (model.Result, error) {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	var t tally
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(initialBufferBytes, maxLineBytes)), maxLineBytes)
	for scanner.Scan() {
		t.addLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return model.Result{}, fmt.Errorf("failed to read line %d: %w", t.lines+1, err)
	}
	return t.result(), nil
}

// AnalyzeFile opens path, analyses it and closes it again.
func AnalyzeFile(path string, maxLineBytes int) (res model.Result, err error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for a read-only file.
			_ = cerr
		}
	}()

	res, err = AnalyzeWithLimit(file, maxLineBytes)
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to analyze %s: %w", path, err)
	}
	return res, nil
}

func (t *tally) addLine(line string) {
	t.lines++
	for _, word := range strings.Fields(line) {
		t.addWord(word)
	}
}

func (t *tally) addWord(word string) {
	t.words++
	for _, r := range word {
		idx, ok := LetterIndex(r)
		if !ok {
			continue
		}
		t.letters++
		t.counts[idx]++
	}
}

func (t *tally) result() model.Result {
	avg := 0.0
	if t.words > 0 {
		avg = float64(t.letters) / float64(t.words)
	}
	return model.Result{
		Lines:                 t.lines,
		Words:                 t.words,
		Letters:               t.letters,
		AverageLettersPerWord: avg,
		MostCommonLetters:     MostCommon(t.counts),
		LetterCounts:          t.counts,
	}
}
