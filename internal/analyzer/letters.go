package analyzer

import "github.com/ruarcs/wc/internal/model"

// letterCounts holds folded per-letter occurrences for a single analysis.
type letterCounts [model.AlphabetSize]int64

// LetterIndex maps an ASCII letter to its case-folded slot.
// ok is false for every other character.
func LetterIndex(r rune) (idx int, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a'), true
	case r >= 'A' && r <= 'Z':
		return int(r - 'A'), true
	default:
		return 0, false
	}
}

// LetterAt returns the lowercase letter stored in slot idx.
func LetterAt(idx int) rune {
	return rune('a' + idx)
}

// MostCommon returns every letter whose count equals the highest nonzero
// count. Ties are kept; the set is empty when no letter was seen.
func MostCommon(counts [model.AlphabetSize]int64) map[rune]struct{} {
	var maxCount int64
	winners := make([]int, 0, model.AlphabetSize)
	for i, count := range counts {
		if count == 0 {
			continue
		}
		switch {
		case count == maxCount:
			winners = append(winners, i)
		case count > maxCount:
			winners = append(winners[:0], i)
			maxCount = count
		}
	}

	set := make(map[rune]struct{}, len(winners))
	for _, idx := range winners {
		set[LetterAt(idx)] = struct{}{}
	}
	return set
}
