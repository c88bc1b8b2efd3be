// Package textstat provides the lightweight text heuristics shared by the
// grading strategies and the quick evaluation endpoint, so the same counting
// rules apply everywhere a score is derived from raw text.
package textstat

import (
	"math"
	"strings"
)

// WordCount returns the number of whitespace-separated words.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// DistinctWordCount returns the number of distinct lower-cased words.
func DistinctWordCount(content string) int {
	seen := map[string]struct{}{}
	for _, word := range strings.Fields(strings.ToLower(content)) {
		seen[word] = struct{}{}
	}
	return len(seen)
}

// PunctuationCount counts sentence-ending punctuation marks.
func PunctuationCount(content string) int {
	count := 0
	for _, r := range content {
		switch r {
		case '.', '!', '?':
			count++
		}
	}
	return count
}

// HasParagraphBreaks reports whether the text shows paragraph structure:
// a blank-line break, or more than three sentence splits on ". ".
func HasParagraphBreaks(content string) bool {
	return strings.Contains(content, "\n\n") || len(strings.Split(content, ". ")) > 3
}

// OverlapSimilarity returns the fraction of words in a that also occur in b,
// relative to the longer of the two texts. Comparison is exact per word; the
// caller is expected to lower-case the inputs if case should not matter.
func OverlapSimilarity(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)

	inB := make(map[string]struct{}, len(wordsB))
	for _, word := range wordsB {
		inB[word] = struct{}{}
	}

	common := 0
	for _, word := range wordsA {
		if _, ok := inB[word]; ok {
			common++
		}
	}

	total := len(wordsA)
	if len(wordsB) > total {
		total = len(wordsB)
	}
	if total == 0 {
		return 0
	}
	return float64(common) / float64(total)
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
