package keywords

import (
	"strings"

	"github.com/DriveSense-ai/diagvoice/pkg/model"
)

// Match scans a transcript for known symptom phrases, case-insensitively.
//
// A phrase matches when it occurs as a substring of the lowered transcript;
// the earlier word-boundary check was a strict subset of this and is gone.
// FoundKeywords is ordered-unique in phrase-table order, Categories in
// first-trigger order. Empty or whitespace-only input yields zero matches.
// Match never fails and performs no I/O; it is safe for concurrent use.
func Match(transcript string) model.MatchResult {
	result := model.MatchResult{
		FoundKeywords: []string{},
		Categories:    []model.CategoryTag{},
	}

	lowered := strings.ToLower(strings.TrimSpace(transcript))
	if lowered == "" {
		return result
	}

	seenPhrases := make(map[string]bool, len(symptomPhrases))
	seenCategories := make(map[model.CategoryTag]bool, len(categoryRules))

	for _, phrase := range symptomPhrases {
		if seenPhrases[phrase] || !strings.Contains(lowered, phrase) {
			continue
		}
		seenPhrases[phrase] = true
		result.FoundKeywords = append(result.FoundKeywords, phrase)

		for _, category := range categoriesFor(phrase) {
			if seenCategories[category] {
				continue
			}
			seenCategories[category] = true
			result.Categories = append(result.Categories, category)
		}
	}

	// De-duplicated count: always the length of FoundKeywords.
	result.TotalMatches = len(result.FoundKeywords)
	return result
}

// categoriesFor returns the category tags whose defining substrings occur in
// the phrase, in rule order.
func categoriesFor(phrase string) []model.CategoryTag {
	var categories []model.CategoryTag
	for _, rule := range categoryRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(phrase, trigger) {
				categories = append(categories, rule.category)
				break
			}
		}
	}
	return categories
}
