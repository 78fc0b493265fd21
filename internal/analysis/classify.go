package analysis

import (
	"slices"
	"strings"
)

const (
	substringPoints = 2
	keywordPoints   = 3
)

// CategoryScore is a category with its trigger score.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
}

// Classify scores every catalog category against text and keywords. Each
// trigger phrase adds 2 points when it occurs anywhere in the lowercased text
// and another 3 when it equals an extracted keyword term. Scores are not
// normalized by text or trigger-list length. Categories scoring zero are
// omitted; the rest are sorted descending with ties in catalog order.
func Classify(text string, keywords []ScoredKeyword) []CategoryScore {
	textLower := strings.ToLower(text)
	terms := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		terms[strings.ToLower(kw.Term)] = struct{}{}
	}

	var scores []CategoryScore
	for _, def := range catalog {
		score := 0
		for _, trigger := range def.Triggers {
			if strings.Contains(textLower, trigger) {
				score += substringPoints
			}
			if _, ok := terms[trigger]; ok {
				score += keywordPoints
			}
		}
		if score > 0 {
			scores = append(scores, CategoryScore{Category: def.Name, Score: score})
		}
	}

	slices.SortStableFunc(scores, func(a, b CategoryScore) int {
		return b.Score - a.Score
	})
	return scores
}
