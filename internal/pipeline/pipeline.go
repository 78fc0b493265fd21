package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/tagcannon/internal/analysis"
	"github.com/keagan/tagcannon/internal/config"
	"github.com/keagan/tagcannon/internal/ffmpeg"
	"github.com/keagan/tagcannon/internal/metrics"
	"github.com/keagan/tagcannon/internal/ocr"
	"github.com/keagan/tagcannon/internal/store"
	"github.com/keagan/tagcannon/internal/transcribe"
	"github.com/keagan/tagcannon/pkg/util"
)

// Deps are the collaborators of a pipeline. Detector, Transcriber, Cache
// and Metrics are optional.
type Deps struct {
	Media       Media
	Detector    ocr.Detector
	Transcriber transcribe.Transcriber
	Cache       Cache
	Metrics     *metrics.Metrics
}

// Pipeline orchestrates the entire video processing workflow
type Pipeline struct {
	logger zerolog.Logger
	config Config
	deps   Deps
}

// New creates a new pipeline instance
func New(logger zerolog.Logger, cfg Config, deps Deps) (*Pipeline, error) {
	if deps.Media == nil {
		return nil, errors.New("pipeline requires a media executor")
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = ffmpeg.DefaultFrameInterval
	}

	return &Pipeline{
		logger: logger.With().Str("component", "pipeline").Logger(),
		config: cfg,
		deps:   deps,
	}, nil
}

// FromConfig wires the production collaborators: ffmpeg, tesseract, whisper
// and, when caching is enabled, the SQLite store. A missing detector or
// transcriber only disables that signal; missing both is an error. The
// returned close function releases the store.
func FromConfig(logger zerolog.Logger, appCfg *config.Config, m *metrics.Metrics) (*Pipeline, func() error, error) {
	exec, err := ffmpeg.New(logger, appCfg.FFmpeg.Threads)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}

	deps := Deps{Media: exec, Metrics: m}

	tess, err := ocr.NewTesseract(logger, ocr.TesseractConfig{
		BinaryPath: appCfg.OCR.BinaryPath,
		Languages:  appCfg.OCR.Languages,
		MaxWidth:   appCfg.Frames.MaxWidth,
		TempDir:    appCfg.TempDir,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("text detection disabled")
	} else {
		deps.Detector = tess
	}

	whisper, err := transcribe.NewWhisper(logger, transcribe.WhisperConfig{
		BinaryPath: appCfg.Transcribe.BinaryPath,
		ModelPath:  appCfg.Transcribe.ModelPath,
		Language:   appCfg.Transcribe.Language,
		Threads:    appCfg.FFmpeg.Threads,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("transcription disabled")
	} else {
		deps.Transcriber = whisper
	}

	if deps.Detector == nil && deps.Transcriber == nil {
		return nil, nil, errors.New("neither text detection nor transcription is available")
	}

	closeFn := func() error { return nil }
	if appCfg.EnableCache {
		db, err := store.Open(appCfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open result cache: %w", err)
		}
		deps.Cache = db
		closeFn = db.Close
	}

	cfg := Config{
		TempDir:       appCfg.TempDir,
		FrameInterval: appCfg.Frames.Interval,
		MaxFrameWidth: int(appCfg.Frames.MaxWidth),
		OCRThreshold:  appCfg.OCR.Threshold,
		SilenceDB:     appCfg.Transcribe.SilenceDB,
		EnableCache:   appCfg.EnableCache,
	}

	p, err := New(logger, cfg, deps)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return p, closeFn, nil
}

// Process runs frame sampling, text detection, transcription and analysis
// on one video. Temporary frames and audio are removed before returning.
func (p *Pipeline) Process(ctx context.Context, videoPath string) (*VideoResult, error) {
	if videoPath == "" {
		return nil, fmt.Errorf("input path cannot be empty")
	}

	start := time.Now()
	name := filepath.Base(videoPath)
	logger := p.logger.With().Str("video", name).Logger()

	hash, cached := p.lookup(ctx, logger, videoPath)
	if cached != nil {
		cached.Video = name
		cached.Path = videoPath
		cached.Cached = true
		p.deps.Metrics.ObserveVideo(metrics.StatusCached)
		logger.Info().Msg("using cached result")
		return cached, nil
	}

	// Stage 1: Extract video metadata
	info, err := p.deps.Media.ProbeVideo(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}

	logger.Info().
		Dur("duration", info.Duration).
		Int("width", info.Width).
		Int("height", info.Height).
		Bool("vertical", info.Vertical()).
		Bool("has_audio", info.HasAudio).
		Msg("video metadata extracted")

	if p.config.TempDir != "" {
		if err := util.EnsureDir(p.config.TempDir); err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
	}
	workDir, err := os.MkdirTemp(p.config.TempDir, "tagcannon_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Stage 2: on-screen text
	texts, err := p.detectText(ctx, logger, videoPath, workDir, info)
	if err != nil {
		return nil, err
	}

	// Stage 3: speech
	transcript, err := p.transcribe(ctx, logger, videoPath, workDir, info)
	if err != nil {
		return nil, err
	}

	// Stage 4: analysis
	analysisStart := time.Now()
	result := analysis.Analyze(analysis.RawSignals{
		OnScreenTexts:  texts,
		TranscriptText: transcript.Text,
		Language:       transcript.Language,
	})
	p.deps.Metrics.ObserveAnalysis(result.Outcome, time.Since(analysisStart))

	logger.Info().
		Int("hashtags", len(result.Hashtags)).
		Int("keywords", len(result.Keywords)).
		Int("categories", len(result.Categories)).
		Bool("insufficient_signal", result.Outcome.InsufficientSignal).
		Bool("extraction_degraded", result.Outcome.ExtractionDegraded).
		Bool("no_category", result.Outcome.NoCategoryMatch).
		Msg("analysis complete")

	res := &VideoResult{
		Video:        name,
		Path:         videoPath,
		Hash:         hash,
		OnScreenText: texts,
		Transcript:   transcript.Text,
		Language:     transcript.Language,
		Analysis:     result,
		VideoLength:  info.Duration,
		Duration:     time.Since(start),
	}

	p.save(ctx, logger, res)
	p.deps.Metrics.ObserveVideo(metrics.StatusOK)

	return res, nil
}

// ProcessAll processes videos strictly one at a time. A failing video is
// logged and recorded in Batch.Failed; only cancellation stops the batch.
// onResult, when set, is called after each video with either a result or
// an error.
func (p *Pipeline) ProcessAll(ctx context.Context, videos []string, onResult func(i int, res *VideoResult, err error)) (*Batch, error) {
	start := time.Now()
	batch := &Batch{Results: make([]VideoResult, 0, len(videos))}

	for i, video := range videos {
		if err := ctx.Err(); err != nil {
			batch.Elapsed = time.Since(start)
			return batch, err
		}

		p.logger.Info().
			Int("index", i+1).
			Int("total", len(videos)).
			Str("video", filepath.Base(video)).
			Msg("processing video")

		res, err := p.Process(ctx, video)
		if err != nil {
			if ctx.Err() != nil {
				batch.Elapsed = time.Since(start)
				return batch, ctx.Err()
			}
			p.logger.Error().Err(err).Str("video", filepath.Base(video)).Msg("failed to process video")
			p.deps.Metrics.ObserveVideo(metrics.StatusFailed)
			batch.Failed = append(batch.Failed, Failure{Video: filepath.Base(video), Err: err})
		} else {
			batch.Results = append(batch.Results, *res)
		}

		if onResult != nil {
			onResult(i, res, err)
		}
	}

	batch.Elapsed = time.Since(start)
	p.logger.Info().
		Int("succeeded", len(batch.Results)).
		Int("failed", len(batch.Failed)).
		Dur("elapsed", batch.Elapsed).
		Msg("batch complete")

	return batch, nil
}

func (p *Pipeline) detectText(ctx context.Context, logger zerolog.Logger, videoPath, workDir string, info *ffmpeg.VideoInfo) ([]string, error) {
	if p.deps.Detector == nil || !info.HasVideo {
		return []string{}, nil
	}

	frames, err := p.deps.Media.SampleFrames(ctx, videoPath, filepath.Join(workDir, "frames"), ffmpeg.FrameOptions{
		Interval: p.config.FrameInterval,
		MaxWidth: p.config.MaxFrameWidth,
		Total:    info.Duration,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Msg("frame sampling failed, continuing without on-screen text")
		return []string{}, nil
	}

	logger.Info().Int("frames", len(frames)).Msg("frames sampled")

	texts, err := ocr.ExtractTexts(ctx, logger, p.deps.Detector, frames, p.config.OCRThreshold)
	if err != nil {
		return nil, err
	}

	logger.Info().Int("texts", len(texts)).Msg("on-screen text detected")
	return texts, nil
}

func (p *Pipeline) transcribe(ctx context.Context, logger zerolog.Logger, videoPath, workDir string, info *ffmpeg.VideoInfo) (transcribe.Transcript, error) {
	if p.deps.Transcriber == nil || !info.HasAudio {
		if !info.HasAudio {
			logger.Info().Msg("video has no audio")
		}
		return transcribe.Empty(), nil
	}

	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(workDir, stem+"_audio.wav")

	if err := p.deps.Media.ExtractAudio(ctx, videoPath, audioPath, ffmpeg.DefaultWhisperFormat(), nil); err != nil {
		if ctx.Err() != nil {
			return transcribe.Transcript{}, ctx.Err()
		}
		logger.Warn().Err(err).Msg("audio extraction failed")
		return transcribe.Empty(), nil
	}
	defer os.Remove(audioPath)

	if p.config.SilenceDB < 0 {
		stats, err := p.deps.Media.AnalyzeVolume(ctx, audioPath)
		if err != nil {
			logger.Debug().Err(err).Msg("volume analysis failed")
		} else if stats.Silent(p.config.SilenceDB) {
			logger.Info().Float64("max_db", stats.MaxVolume).Msg("audio is silent, skipping transcription")
			return transcribe.Empty(), nil
		}
	}

	return transcribe.TranscribeOrEmpty(ctx, logger, p.deps.Transcriber, audioPath)
}

// lookup hashes the video and returns a cached result when caching is on.
func (p *Pipeline) lookup(ctx context.Context, logger zerolog.Logger, videoPath string) (string, *VideoResult) {
	if p.deps.Cache == nil || !p.config.EnableCache {
		return "", nil
	}

	hash, err := store.HashFile(videoPath)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to hash video")
		return "", nil
	}

	rec, err := p.deps.Cache.Get(ctx, hash)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn().Err(err).Msg("cache lookup failed")
		}
		return hash, nil
	}

	var res VideoResult
	if err := json.Unmarshal(rec.Payload, &res); err != nil {
		logger.Warn().Err(err).Msg("discarding unreadable cache entry")
		return hash, nil
	}
	return hash, &res
}

func (p *Pipeline) save(ctx context.Context, logger zerolog.Logger, res *VideoResult) {
	if p.deps.Cache == nil || res.Hash == "" {
		return
	}

	payload, err := json.Marshal(res)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to encode result for cache")
		return
	}

	if err := p.deps.Cache.Put(ctx, store.Record{
		Hash:       res.Hash,
		Video:      res.Video,
		Payload:    payload,
		AnalyzedAt: time.Now(),
	}); err != nil {
		logger.Warn().Err(err).Msg("failed to cache result")
	}
}
