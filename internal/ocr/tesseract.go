package ocr

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// TesseractConfig configures the tesseract CLI detector.
type TesseractConfig struct {
	BinaryPath string
	// Languages are tesseract language codes, e.g. "por", "eng".
	Languages []string
	// MaxWidth downscales wider frames before recognition; zero disables.
	MaxWidth uint
	// TempDir holds the preprocessed frames; defaults to os.TempDir().
	TempDir string
}

// Tesseract detects text by running the tesseract CLI with TSV output.
type Tesseract struct {
	logger zerolog.Logger
	binary string
	cfg    TesseractConfig
}

// NewTesseract resolves the tesseract binary.
func NewTesseract(logger zerolog.Logger, cfg TesseractConfig) (*Tesseract, error) {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "tesseract"
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"por", "eng"}
	}

	binary, err := exec.LookPath(cfg.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("tesseract not found: %w", err)
	}

	return &Tesseract{
		logger: logger.With().Str("component", "ocr").Logger(),
		binary: binary,
		cfg:    cfg,
	}, nil
}

// Detect returns one span per recognized text line.
func (t *Tesseract) Detect(ctx context.Context, imagePath string) ([]Span, error) {
	img, err := loadImage(imagePath)
	if err != nil {
		return nil, err
	}

	gray := prepareFrame(img, t.cfg.MaxWidth)
	if c := contrast(gray); c < minContrast {
		t.logger.Trace().Str("frame", imagePath).Float64("contrast", c).Msg("blank frame")
		return nil, nil
	}

	prepared, err := writePNG(t.cfg.TempDir, gray)
	if err != nil {
		return nil, err
	}
	defer os.Remove(prepared)

	args := []string{
		prepared, "stdout",
		"-l", strings.Join(t.cfg.Languages, "+"),
		// sparse text: captions are scattered over the frame
		"--psm", "11",
		"tsv",
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	spans, err := parseTSV(out)
	if err != nil {
		return nil, err
	}

	t.logger.Trace().Str("frame", imagePath).Int("spans", len(spans)).Msg("frame recognized")
	return spans, nil
}

type lineKey struct {
	page, block, par, line int
}

// parseTSV groups tesseract word rows into lines. A line's confidence is
// the mean of its word confidences, scaled from 0-100 to 0-1.
func parseTSV(data []byte) ([]Span, error) {
	type acc struct {
		words []string
		conf  float64
	}

	var (
		order []lineKey
		lines = make(map[lineKey]*acc)
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}

		cols := strings.Split(scanner.Text(), "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}

		text := strings.TrimSpace(cols[11])
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 || text == "" {
			continue
		}

		var key lineKey
		for i, dst := range []*int{&key.page, &key.block, &key.par, &key.line} {
			if *dst, err = strconv.Atoi(cols[i+1]); err != nil {
				return nil, fmt.Errorf("malformed tsv row %q: %w", scanner.Text(), err)
			}
		}

		a, ok := lines[key]
		if !ok {
			a = &acc{}
			lines[key] = a
			order = append(order, key)
		}
		a.words = append(a.words, text)
		a.conf += conf
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tsv: %w", err)
	}

	spans := make([]Span, 0, len(order))
	for _, key := range order {
		a := lines[key]
		spans = append(spans, Span{
			Text:       strings.Join(a.words, " "),
			Confidence: a.conf / float64(len(a.words)) / 100,
		})
	}
	return spans, nil
}
