package segmenter

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

const (
	maxKeywords        = 5
	minKeywordLen      = 4
	keywordDedupeRatio = 0.8
)

var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "there": {}, "their": {}, "about": {},
	"would": {}, "could": {}, "should": {}, "because": {}, "really": {},
	"going": {}, "thing": {}, "things": {}, "just": {}, "like": {}, "yeah": {},
	"okay": {}, "gonna": {}, "right": {}, "know": {}, "well": {}, "were": {},
	"been": {}, "them": {}, "then": {}, "than": {}, "they": {}, "your": {},
	"youre": {}, "dont": {}, "will": {}, "into": {}, "also": {}, "some": {},
	"more": {}, "most": {}, "here": {}, "very": {},
}

// ExtractKeywords picks highlight-worthy words from clip text: long enough,
// not a stopword, ranked by frequency, near-duplicates collapsed by
// levenshtein similarity ("create"/"creates").
func ExtractKeywords(text string) []string {
	counts := map[string]int{}
	var order []string
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,!?;:'\"()[]")
		if len(word) < minKeywordLen {
			continue
		}
		if _, ok := stopwords[word]; ok {
			continue
		}
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	// Frequency-ranked, first occurrence breaking ties, so output is
	// deterministic per input.
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})

	var keywords []string
	for _, word := range ranked {
		if isNearDuplicate(word, keywords) {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

func isNearDuplicate(word string, picked []string) bool {
	for _, existing := range picked {
		ratio := levenshtein.RatioForStrings([]rune(word), []rune(existing), levenshtein.DefaultOptions)
		if ratio > keywordDedupeRatio {
			return true
		}
	}
	return false
}
