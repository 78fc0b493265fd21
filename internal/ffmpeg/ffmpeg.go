package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Executor runs ffmpeg and ffprobe for frame sampling, audio extraction and
// probing, streaming progress to the caller.
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	threads     int
}

// New resolves ffmpeg and ffprobe from PATH.
func New(logger zerolog.Logger, threads int) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		threads:     threads,
	}, nil
}

// Run executes ffmpeg with the given arguments and streams progress
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return errors.New("no arguments provided")
	}

	// -threads is a global option and must precede the inputs.
	args := []string{"-y", "-hide_banner", "-nostdin", "-loglevel", "info"}
	if e.threads > 0 {
		args = append(args, "-threads", strconv.Itoa(e.threads))
	}
	args = append(args, "-progress", "pipe:2")
	args = append(args, opts.Args...)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		streamProgress(stderr, opts)
	}()

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if opts.LogHandler != nil {
				opts.LogHandler(scanner.Text())
			}
		}
	}()

	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	e.logger.Debug().Msg("ffmpeg execution completed")
	return nil
}

// runCollect runs ffmpeg and returns its full stderr output, for filters
// that report through the log rather than an output file.
func (e *Executor) runCollect(ctx context.Context, args []string) (string, error) {
	var (
		mu  sync.Mutex
		buf strings.Builder
	)
	err := e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			mu.Lock()
			buf.WriteString(line)
			buf.WriteByte('\n')
			mu.Unlock()
		},
	})

	mu.Lock()
	defer mu.Unlock()
	return buf.String(), err
}

// streamProgress parses the key=value blocks ffmpeg writes with
// -progress and forwards every raw line to the log handler.
func streamProgress(r io.Reader, opts RunOptions) {
	scanner := bufio.NewScanner(r)
	p := &Progress{}

	for scanner.Scan() {
		line := scanner.Text()
		if opts.LogHandler != nil {
			opts.LogHandler(line)
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "frame":
			p.Frame, _ = strconv.Atoi(value)
		case "fps":
			p.FPS, _ = strconv.ParseFloat(value, 64)
		case "bitrate":
			p.Bitrate = value
		case "speed":
			p.Speed = value
		case "out_time_us":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us > 0 {
				p.Time = time.Duration(us) * time.Microsecond
			}
		case "progress":
			if opts.Total > 0 {
				p.Percentage = min(100, 100*float64(p.Time)/float64(opts.Total))
			}
			if opts.ProgressHandler != nil {
				opts.ProgressHandler(p)
			}
			p = &Progress{}
		}
	}
}
