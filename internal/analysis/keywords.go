package analysis

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultTopN is the number of keywords ExtractKeywords returns for topN <= 0.
	DefaultTopN = 20

	// Fewer whitespace tokens than this is insufficient signal.
	minTokens = 3

	minDocumentRune = 6
	minTermRunes    = 3
	maxFeatures     = 100
	maxDocFreq      = 0.95
)

// sentenceBreak splits text into pseudo-documents.
var sentenceBreak = regexp.MustCompile(`[.!?\n]+`)

// termLetters are the runes a vectorizer term may contain besides a-z.
const termLetters = "áàâãéèêíìîóòôõúùûçñ"

// ScoredKeyword is a normalized term with its importance score.
type ScoredKeyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// ExtractKeywords ranks the terms of text by TF-IDF over sentence-level
// pseudo-documents. When the statistical path cannot run it degrades to raw
// frequency counts. Results are sorted by descending score and hold at most
// topN entries; text with fewer than three tokens yields nil.
func ExtractKeywords(text string, topN int) []ScoredKeyword {
	kws, _ := extractKeywords(text, topN)
	return kws
}

// extractKeywords also reports whether the frequency fallback was used.
func extractKeywords(text string, topN int) ([]ScoredKeyword, bool) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(strings.Fields(text)) < minTokens {
		return nil, false
	}

	kws, err := tfidf(tokenizeDocuments(splitDocuments(text)))
	if err != nil {
		return frequencyKeywords(text, topN), true
	}
	if len(kws) > topN {
		kws = kws[:topN]
	}
	return kws, false
}

// splitDocuments returns the pseudo-documents of text. Fragments shorter
// than minDocumentRune are dropped; fewer than two fragments means the whole
// text is a single document.
func splitDocuments(text string) []string {
	parts := sentenceBreak.Split(text, -1)
	docs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) >= minDocumentRune {
			docs = append(docs, p)
		}
	}
	if len(docs) < 2 {
		return []string{text}
	}
	return docs
}

func tokenizeDocuments(docs []string) [][]string {
	out := make([][]string, len(docs))
	for i, d := range docs {
		out[i] = tokenize(d)
	}
	return out
}

// tokenize lowercases doc and returns its vectorizer terms: whole word runs
// of at least minTermRunes made only of a-z and Portuguese accented letters,
// minus stop words. A run containing any other word rune (a digit, "ü") is
// rejected entirely rather than split.
func tokenize(doc string) []string {
	doc = lower(doc)

	var terms []string
	start := -1
	valid := true
	flush := func(end int) {
		if start < 0 {
			return
		}
		run := doc[start:end]
		if valid && utf8.RuneCountInString(run) >= minTermRunes && !IsStopword(run) {
			terms = append(terms, run)
		}
		start = -1
		valid = true
	}

	for i, r := range doc {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			if !isTermRune(r) {
				valid = false
			}
			continue
		}
		flush(i)
	}
	flush(len(doc))
	return terms
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isTermRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || strings.ContainsRune(termLetters, r)
}

// frequencyKeywords is the degraded path: normalized tokens longer than two
// runes, minus stop words, ranked by count. Ties keep first occurrence.
func frequencyKeywords(text string, topN int) []ScoredKeyword {
	counts := make(map[string]int)
	var order []string
	for _, w := range strings.Fields(Normalize(text)) {
		if utf8.RuneCountInString(w) <= 2 || IsStopword(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	if len(order) == 0 {
		return nil
	}

	kws := make([]ScoredKeyword, len(order))
	for i, w := range order {
		kws[i] = ScoredKeyword{Term: w, Score: float64(counts[w])}
	}
	slices.SortStableFunc(kws, byScoreDesc)

	if len(kws) > topN {
		kws = kws[:topN]
	}
	return kws
}

func byScoreDesc(a, b ScoredKeyword) int {
	switch {
	case a.Score > b.Score:
		return -1
	case a.Score < b.Score:
		return 1
	}
	return 0
}
