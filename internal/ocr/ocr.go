// Package ocr detects on-screen text in sampled video frames.
package ocr

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// DefaultThreshold is the minimum confidence for a span to be kept.
const DefaultThreshold = 0.3

// Spans shorter than this after trimming are treated as noise.
const minTextRunes = 2

// Span is one piece of text found in an image.
type Span struct {
	Text string
	// Confidence in [0, 1].
	Confidence float64
}

// Detector finds text spans in an image file.
type Detector interface {
	Detect(ctx context.Context, imagePath string) ([]Span, error)
}

// ExtractTexts runs detector over frames in order and returns the distinct
// texts it is confident about. Texts are trimmed; two texts are the same when
// their lowercase forms match, and the first-seen form is kept. A frame
// that fails detection is logged and skipped.
func ExtractTexts(ctx context.Context, logger zerolog.Logger, detector Detector, frames []string, threshold float64) ([]string, error) {
	texts := make([]string, 0)
	seen := make(map[string]struct{})

	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		spans, err := detector.Detect(ctx, frame)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debug().Err(err).Int("frame", i).Str("path", frame).Msg("text detection failed, skipping frame")
			continue
		}

		for _, span := range spans {
			if span.Confidence < threshold {
				continue
			}
			text := strings.TrimSpace(span.Text)
			if utf8.RuneCountInString(text) < minTextRunes {
				continue
			}
			key := strings.ToLower(text)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			texts = append(texts, text)
		}
	}

	logger.Info().Int("frames", len(frames)).Int("texts", len(texts)).Msg("on-screen text extracted")
	return texts, nil
}
