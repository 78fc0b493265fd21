package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// WhisperConfig configures the whisper.cpp CLI.
type WhisperConfig struct {
	BinaryPath string
	ModelPath  string
	// Language is a whisper language code or "auto".
	Language string
	Threads  int
}

// Whisper transcribes audio with the whisper.cpp command line tool, reading
// its JSON output.
type Whisper struct {
	logger zerolog.Logger
	binary string
	cfg    WhisperConfig
}

// NewWhisper resolves the whisper binary and checks the model exists.
func NewWhisper(logger zerolog.Logger, cfg WhisperConfig) (*Whisper, error) {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "whisper-cli"
	}
	if cfg.Language == "" {
		cfg.Language = "auto"
	}

	binary, err := exec.LookPath(cfg.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("whisper not found: %w", err)
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("whisper model not found: %w", err)
	}

	return &Whisper{
		logger: logger.With().Str("component", "transcribe").Logger(),
		binary: binary,
		cfg:    cfg,
	}, nil
}

// Transcribe runs whisper on a 16 kHz mono WAV file.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	if audioPath == "" {
		return Transcript{}, ErrNoAudio
	}

	outDir, err := os.MkdirTemp("", "whisper_*")
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to create output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	outPrefix := filepath.Join(outDir, "transcript")
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-l", w.cfg.Language,
		"-oj",
		"-of", outPrefix,
		"-np",
	}
	if w.cfg.Threads > 0 {
		args = append(args, "-t", fmt.Sprint(w.cfg.Threads))
	}

	w.logger.Debug().Strs("args", args).Msg("executing whisper")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, w.binary, args...)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Transcript{}, ctx.Err()
		}
		return Transcript{}, fmt.Errorf("whisper failed: %w: %s", err, lastLine(stderr.String()))
	}

	data, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to read whisper output: %w", err)
	}

	t, err := parseWhisperJSON(data)
	if err != nil {
		return Transcript{}, err
	}

	w.logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("segments", len(t.Segments)).
		Msg("whisper finished")

	return t, nil
}

type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// parseWhisperJSON reads the -oj output. Segment offsets are milliseconds.
func parseWhisperJSON(data []byte) (Transcript, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Transcript{}, fmt.Errorf("failed to parse whisper output: %w", err)
	}

	t := Transcript{
		Language: out.Result.Language,
		Segments: make([]Segment, 0, len(out.Transcription)),
	}

	parts := make([]string, 0, len(out.Transcription))
	for _, s := range out.Transcription {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		t.Segments = append(t.Segments, Segment{
			Start: time.Duration(s.Offsets.From) * time.Millisecond,
			End:   time.Duration(s.Offsets.To) * time.Millisecond,
			Text:  text,
		})
	}
	t.Text = strings.Join(parts, " ")

	return t, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
