// Package analysis turns the text signals of a short-form video into
// hashtags, a description, ranked keywords and content categories.
//
// The pipeline is:
//
//   - Normalize: lowercase, keep letters, collapse whitespace.
//   - ExtractKeywords: TF-IDF over sentence-level pseudo-documents, with a
//     raw frequency fallback when TF-IDF cannot run.
//   - Classify: fixed trigger-phrase catalog, +2 per substring hit and +3
//     per keyword hit.
//   - GenerateHashtags: category, keyword and universal tiers, deduplicated.
//   - SynthesizeDescription: category template with a transcript quote.
//
// Analyze composes them. Every function is pure and deterministic and the
// catalog tables are read-only, so all of them are safe for concurrent use.
// No input produces an error: empty or degenerate text resolves to a fixed
// fallback result.
//
// Known limitations:
//
//   - Stop words cover Portuguese and English only.
//   - Category scores grow with the length of a category's trigger list.
//   - Triggers match as plain substrings, so "dia" also hits "digital".
package analysis

import (
	"strings"
)

// RawSignals are the finished outputs of text detection and transcription
// for one video.
type RawSignals struct {
	OnScreenTexts  []string `json:"on_screen_texts"`
	TranscriptText string   `json:"transcript"`

	// Language is reported by the transcriber and carried through for
	// reports only.
	Language string `json:"language,omitempty"`
}

// AnalysisResult is the analysis of one video.
type AnalysisResult struct {
	Hashtags    []string        `json:"hashtags"`
	Description string          `json:"description"`
	Keywords    []ScoredKeyword `json:"keywords"`
	Categories  []CategoryScore `json:"categories"`

	Outcome Outcome `json:"-"`
}

// Outcome records which degenerate conditions were resolved by defaults.
// None of them is an error.
type Outcome struct {
	// InsufficientSignal: no text at all, or too few tokens to rank.
	InsufficientSignal bool `json:"insufficient_signal"`
	// ExtractionDegraded: TF-IDF could not run and frequency counts were used.
	ExtractionDegraded bool `json:"extraction_degraded"`
	// NoCategoryMatch: no trigger matched; the lifestyle templates were used.
	NoCategoryMatch bool `json:"no_category_match"`
}

// ResultKeywords is the number of keywords kept in an AnalysisResult.
const ResultKeywords = 10

// Analyze runs the full pipeline on one video's signals.
func Analyze(signals RawSignals) AnalysisResult {
	onScreen := strings.Join(signals.OnScreenTexts, " ")
	transcript := signals.TranscriptText
	combined := strings.TrimSpace(onScreen + " " + transcript)

	if combined == "" {
		return fallbackResult()
	}

	keywords, degraded := extractKeywords(extractionText(combined), DefaultTopN)
	categories := Classify(combined, keywords)
	hashtags := GenerateHashtags(keywords, categories)
	description := SynthesizeDescription(onScreen, transcript, keywords, categories)

	top := make([]ScoredKeyword, 0, min(ResultKeywords, len(keywords)))
	top = append(top, keywords[:min(ResultKeywords, len(keywords))]...)

	if categories == nil {
		categories = []CategoryScore{}
	}

	return AnalysisResult{
		Hashtags:    hashtags,
		Description: description,
		Keywords:    top,
		Categories:  categories,
		Outcome: Outcome{
			InsufficientSignal: len(keywords) == 0 && !degraded,
			ExtractionDegraded: degraded,
			NoCategoryMatch:    len(categories) == 0,
		},
	}
}

// extractionText normalizes each sentence fragment on its own and rejoins
// them with newlines, so pseudo-document boundaries survive normalization.
func extractionText(combined string) string {
	parts := sentenceBreak.Split(combined, -1)
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := Normalize(p); n != "" {
			lines = append(lines, n)
		}
	}
	return strings.Join(lines, "\n")
}

func fallbackResult() AnalysisResult {
	hashtags := make([]string, fallbackHashtagCount)
	copy(hashtags, UniversalHashtags)
	return AnalysisResult{
		Hashtags:    hashtags,
		Description: FallbackDescription,
		Keywords:    []ScoredKeyword{},
		Categories:  []CategoryScore{},
		Outcome: Outcome{
			InsufficientSignal: true,
			NoCategoryMatch:    true,
		},
	}
}
