package analysis

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	descriptionWords   = 3
	minQuoteTranscript = 30
	minQuoteSentence   = 15
	maxQuoteSentence   = 100
)

var quoteBreak = regexp.MustCompile(`[.!?]+`)

// SynthesizeDescription fills a phrasing template of the top category
// (lifestyle when none was detected) with the top three keyword terms. The
// template is picked by transcript length modulo the template count, so the
// same input always yields the same text. When the transcript is longer than
// 30 runes, its first sentence of 16 to 99 runes is prepended in quotes.
//
// onScreen is accepted for symmetry with the raw signals; only the
// transcript is quoted.
func SynthesizeDescription(onScreen, transcript string, keywords []ScoredKeyword, categories []CategoryScore) string {
	top := Lifestyle
	if len(categories) > 0 {
		top = categories[0].Category
	}
	templates := definition(top).Templates

	idx := utf8.RuneCountInString(transcript) % len(templates)
	description := strings.Replace(templates[idx], wordsPlaceholder, descriptionTerms(keywords), 1)

	if quote := quotableSentence(transcript); quote != "" {
		description = `"` + quote + `" — ` + description
	}
	return description
}

// descriptionTerms joins the top keyword terms, capitalizing the first rune
// and lowercasing the rest.
func descriptionTerms(keywords []ScoredKeyword) string {
	if len(keywords) == 0 {
		return fallbackWords
	}
	terms := make([]string, 0, descriptionWords)
	for _, kw := range keywords[:min(descriptionWords, len(keywords))] {
		terms = append(terms, kw.Term)
	}
	return capitalize(strings.Join(terms, ", "))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func quotableSentence(transcript string) string {
	if utf8.RuneCountInString(transcript) <= minQuoteTranscript {
		return ""
	}
	for _, sent := range quoteBreak.Split(transcript, -1) {
		sent = strings.TrimSpace(sent)
		n := utf8.RuneCountInString(sent)
		if n > minQuoteSentence && n < maxQuoteSentence {
			return sent
		}
	}
	return ""
}
