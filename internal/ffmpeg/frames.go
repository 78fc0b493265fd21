package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const framePattern = "frame_%05d.png"

// SampleFrames writes one PNG every opts.Interval of input into outDir and
// returns the frame paths in timeline order.
func (e *Executor) SampleFrames(ctx context.Context, input, outDir string, opts FrameOptions) ([]string, error) {
	if input == "" {
		return nil, errors.New("input path is required")
	}
	if outDir == "" {
		return nil, errors.New("output directory is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultFrameInterval
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}

	filter := NewFilterBuilder().
		SampleEvery(opts.Interval).
		MaxWidth(opts.MaxWidth).
		Build()

	e.logger.Info().
		Str("input", input).
		Dur("interval", opts.Interval).
		Str("filter", filter).
		Msg("sampling frames")

	err := e.Run(ctx, RunOptions{
		Args: []string{
			"-i", input,
			"-an",
			"-vf", filter,
			filepath.Join(outDir, framePattern),
		},
		Total:           opts.Total,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Trace().Str("ffmpeg", line).Msg("frame sampling")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("frame sampling failed: %w", err)
	}

	frames, err := filepath.Glob(filepath.Join(outDir, "frame_*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	sort.Strings(frames)

	e.logger.Debug().Int("frames", len(frames)).Msg("frames sampled")
	return frames, nil
}
