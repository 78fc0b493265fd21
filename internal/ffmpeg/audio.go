package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// AudioFormat defines audio extraction format options
type AudioFormat struct {
	Codec      string
	SampleRate int
	Channels   int
}

// DefaultWhisperFormat is 16 kHz mono 16-bit PCM, the input whisper expects.
func DefaultWhisperFormat() AudioFormat {
	return AudioFormat{
		Codec:      "pcm_s16le",
		SampleRate: 16000,
		Channels:   1,
	}
}

// ExtractAudio writes the first audio stream of input to output.
func (e *Executor) ExtractAudio(ctx context.Context, input, output string, format AudioFormat, progressFunc ProgressFunc) error {
	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Str("codec", format.Codec).
		Int("sample_rate", format.SampleRate).
		Msg("extracting audio")

	args := []string{
		"-i", input,
		"-vn",
		"-map", "0:a:0",
		"-acodec", format.Codec,
		"-ar", strconv.Itoa(format.SampleRate),
		"-ac", strconv.Itoa(format.Channels),
		output,
	}

	return e.Run(ctx, RunOptions{
		Args:            args,
		ProgressHandler: progressFunc,
		LogHandler: func(line string) {
			e.logger.Trace().Str("ffmpeg", line).Msg("audio extraction")
		},
	})
}

// VolumeStats holds volume analysis results
type VolumeStats struct {
	MeanVolume float64
	MaxVolume  float64
}

// Silent reports whether the peak stays below thresholdDB, meaning there is
// nothing worth transcribing.
func (v VolumeStats) Silent(thresholdDB float64) bool {
	return v.MaxVolume < thresholdDB
}

// AnalyzeVolume runs the volumedetect filter over the audio of input.
func (e *Executor) AnalyzeVolume(ctx context.Context, input string) (*VolumeStats, error) {
	e.logger.Debug().Str("input", input).Msg("analyzing volume")

	output, err := e.runCollect(ctx, []string{
		"-i", input,
		"-vn",
		"-af", "volumedetect",
		"-f", "null",
		"-",
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("volume analysis failed: %w", err)
	}

	stats, ok := parseVolumeOutput(output)
	if !ok {
		return nil, fmt.Errorf("volume analysis produced no statistics")
	}
	return stats, nil
}

// parseVolumeOutput reads the mean_volume and max_volume lines of
// volumedetect. ffmpeg reports "-inf dB" for digital silence.
func parseVolumeOutput(output string) (*VolumeStats, bool) {
	stats := &VolumeStats{}
	var seen bool

	for _, line := range strings.Split(output, "\n") {
		for _, field := range []struct {
			key string
			dst *float64
		}{
			{"mean_volume:", &stats.MeanVolume},
			{"max_volume:", &stats.MaxVolume},
		} {
			_, rest, ok := strings.Cut(line, field.key)
			if !ok {
				continue
			}
			parts := strings.Fields(rest)
			if len(parts) == 0 {
				continue
			}
			if v, err := strconv.ParseFloat(parts[0], 64); err == nil {
				*field.dst = v
				seen = true
			}
		}
	}

	return stats, seen
}
