// Package transcribe turns the audio track of a video into text.
package transcribe

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// UnknownLanguage is reported when no language could be detected.
const UnknownLanguage = "unknown"

// ErrNoAudio is returned when there is no audio file to transcribe.
var ErrNoAudio = errors.New("no audio to transcribe")

// Segment is a timestamped span of speech.
type Segment struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}

// Transcript is the full result of transcribing one audio file.
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Empty is the transcript used when there is nothing to transcribe.
func Empty() Transcript {
	return Transcript{Language: UnknownLanguage, Segments: []Segment{}}
}

// WordCount is the number of whitespace-separated words in the text.
func (t Transcript) WordCount() int {
	return len(strings.Fields(t.Text))
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Transcript, error)
}

// TranscribeOrEmpty never fails: a missing file, a transcriber error or no
// transcriber at all yield Empty(). Only cancellation is returned.
func TranscribeOrEmpty(ctx context.Context, logger zerolog.Logger, tr Transcriber, audioPath string) (Transcript, error) {
	if tr == nil {
		return Empty(), nil
	}
	if audioPath == "" {
		logger.Debug().Msg("no audio track, skipping transcription")
		return Empty(), nil
	}
	if _, err := os.Stat(audioPath); err != nil {
		logger.Warn().Err(err).Str("audio", audioPath).Msg("audio file not found")
		return Empty(), nil
	}

	t, err := tr.Transcribe(ctx, audioPath)
	if err != nil {
		if ctx.Err() != nil {
			return Transcript{}, ctx.Err()
		}
		if !errors.Is(err, ErrNoAudio) {
			logger.Error().Err(err).Str("audio", audioPath).Msg("transcription failed")
		}
		return Empty(), nil
	}

	t.Text = strings.TrimSpace(t.Text)
	if t.Language == "" {
		t.Language = UnknownLanguage
	}
	if t.Segments == nil {
		t.Segments = []Segment{}
	}

	logger.Info().
		Int("words", t.WordCount()).
		Str("language", t.Language).
		Msg("transcription complete")

	return t, nil
}
