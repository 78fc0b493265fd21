package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/keagan/tagcannon/internal/analysis"
	"github.com/keagan/tagcannon/internal/ffmpeg"
	"github.com/keagan/tagcannon/internal/ocr"
	"github.com/keagan/tagcannon/internal/store"
)

// VideoResult is everything produced for one video.
type VideoResult struct {
	Video        string                  `json:"video"`
	Path         string                  `json:"path"`
	Hash         string                  `json:"hash,omitempty"`
	OnScreenText []string                `json:"on_screen_text"`
	Transcript   string                  `json:"transcript"`
	Language     string                  `json:"language"`
	Analysis     analysis.AnalysisResult `json:"analysis"`
	// VideoLength is the probed media duration.
	VideoLength time.Duration `json:"video_length"`
	// Duration is the wall time spent processing.
	Duration time.Duration `json:"duration"`
	Cached   bool          `json:"-"`
}

// OCRText joins the on-screen texts with single spaces.
func (r VideoResult) OCRText() string {
	return strings.Join(r.OnScreenText, " ")
}

// WordCount is the number of words in the transcript.
func (r VideoResult) WordCount() int {
	return len(strings.Fields(r.Transcript))
}

// MainCategory is the best-scoring category, or "" when none matched.
func (r VideoResult) MainCategory() string {
	if len(r.Analysis.Categories) == 0 {
		return ""
	}
	return string(r.Analysis.Categories[0].Category)
}

// Failure records a video that could not be processed.
type Failure struct {
	Video string
	Err   error
}

// Batch is the outcome of ProcessAll.
type Batch struct {
	Results []VideoResult
	Failed  []Failure
	Elapsed time.Duration
}

// Media is the subset of the ffmpeg executor the pipeline needs.
type Media interface {
	ProbeVideo(ctx context.Context, filePath string) (*ffmpeg.VideoInfo, error)
	SampleFrames(ctx context.Context, input, outDir string, opts ffmpeg.FrameOptions) ([]string, error)
	ExtractAudio(ctx context.Context, input, output string, format ffmpeg.AudioFormat, progressFunc ffmpeg.ProgressFunc) error
	AnalyzeVolume(ctx context.Context, input string) (*ffmpeg.VolumeStats, error)
}

// Cache stores results by content hash.
type Cache interface {
	Get(ctx context.Context, hash string) (*store.Record, error)
	Put(ctx context.Context, rec store.Record) error
}

// Config holds pipeline-specific configuration
type Config struct {
	TempDir       string
	FrameInterval time.Duration
	MaxFrameWidth int
	OCRThreshold  float64
	// SilenceDB skips transcription of quieter audio; zero disables.
	SilenceDB   float64
	EnableCache bool
}

// DefaultConfig mirrors the application defaults.
func DefaultConfig() Config {
	return Config{
		FrameInterval: ffmpeg.DefaultFrameInterval,
		MaxFrameWidth: 1280,
		OCRThreshold:  ocr.DefaultThreshold,
		SilenceDB:     -60,
		EnableCache:   true,
	}
}
