package analysis

import (
	"errors"
	"math"
	"slices"
)

var (
	errSingleDocument  = errors.New("tfidf: fewer than two documents")
	errEmptyVocabulary = errors.New("tfidf: empty vocabulary")
	errNoTermsRemain   = errors.New("tfidf: no terms remain after pruning")
	errNonFinite       = errors.New("tfidf: non-finite score")
)

// tfidf scores terms across tokenized documents. Each document row is raw
// term count times smoothed idf, ln((1+n)/(1+df))+1, scaled to unit L2 norm.
// A term's score is its mean weight over all rows.
//
// Terms found in more than maxDocFreq of the documents are pruned, then the
// vocabulary is capped at maxFeatures by total count. Any condition under
// which the scores are undefined is returned as an error so the caller can
// fall back.
func tfidf(docs [][]string) ([]ScoredKeyword, error) {
	n := len(docs)
	if n < 2 {
		return nil, errSingleDocument
	}

	counts := make([]map[string]int, n)
	df := make(map[string]int)
	total := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int, len(doc))
		for _, t := range doc {
			if counts[i][t] == 0 {
				df[t]++
			}
			counts[i][t]++
			total[t]++
		}
	}
	if len(df) == 0 {
		return nil, errEmptyVocabulary
	}

	maxDocCount := maxDocFreq * float64(n)
	vocab := make([]string, 0, len(df))
	for t, d := range df {
		if float64(d) <= maxDocCount {
			vocab = append(vocab, t)
		}
	}
	if len(vocab) == 0 {
		return nil, errNoTermsRemain
	}

	slices.Sort(vocab)
	if len(vocab) > maxFeatures {
		byCount := slices.Clone(vocab)
		slices.SortStableFunc(byCount, func(a, b string) int {
			return total[b] - total[a]
		})
		vocab = byCount[:maxFeatures]
		slices.Sort(vocab)
	}

	idf := make([]float64, len(vocab))
	for j, t := range vocab {
		idf[j] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	sums := make([]float64, len(vocab))
	row := make([]float64, len(vocab))
	for i := range docs {
		var sq float64
		for j, t := range vocab {
			row[j] = float64(counts[i][t]) * idf[j]
			sq += row[j] * row[j]
		}
		if sq == 0 {
			continue
		}
		norm := math.Sqrt(sq)
		for j := range row {
			sums[j] += row[j] / norm
		}
	}

	kws := make([]ScoredKeyword, len(vocab))
	for j, t := range vocab {
		score := sums[j] / float64(n)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, errNonFinite
		}
		kws[j] = ScoredKeyword{Term: t, Score: score}
	}

	// vocab is alphabetical, so equal scores stay alphabetical.
	slices.SortStableFunc(kws, byScoreDesc)
	return kws, nil
}
