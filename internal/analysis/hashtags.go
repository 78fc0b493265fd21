package analysis

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxHashtags caps the merged hashtag set.
	MaxHashtags = 15

	categoryTiers       = 2
	tagsPerCategory     = 3
	maxKeywordHashtags  = 5
	minHashtagBodyRunes = 3
)

// GenerateHashtags merges three tiers in priority order: up to three catalog
// tags for each of the two top categories, up to five tags derived from
// keywords, and the first three universal tags. Duplicates are dropped
// case-insensitively with the first occurrence kept, and the result holds at
// most MaxHashtags entries.
func GenerateHashtags(keywords []ScoredKeyword, categories []CategoryScore) []string {
	var tiers []string
	for i, cs := range categories {
		if i == categoryTiers {
			break
		}
		tags := definition(cs.Category).Hashtags
		tiers = append(tiers, tags[:min(tagsPerCategory, len(tags))]...)
	}
	tiers = append(tiers, KeywordHashtags(keywords, maxKeywordHashtags)...)
	tiers = append(tiers, UniversalHashtags[:universalHashtagCount]...)

	return dedupeHashtags(tiers, MaxHashtags)
}

// KeywordHashtags turns keyword terms into hashtags, in the given order.
// Characters outside a-z, 0-9 and Portuguese accented letters are stripped;
// bodies shorter than three runes and stop words are skipped.
func KeywordHashtags(keywords []ScoredKeyword, limit int) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, kw := range keywords {
		if len(tags) >= limit {
			break
		}
		body := hashtagBody(kw.Term)
		if utf8.RuneCountInString(body) < minHashtagBodyRunes || IsStopword(body) {
			continue
		}
		tag := "#" + body
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

func hashtagBody(term string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(term) {
		if isTermRune(r) || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func dedupeHashtags(tags []string, limit int) []string {
	out := make([]string, 0, min(len(tags), limit))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
		if len(out) == limit {
			break
		}
	}
	return out
}
