package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings
	TempDir     string `yaml:"temp_dir"`
	OutputDir   string `yaml:"output_dir"`
	EnableCache bool   `yaml:"enable_cache"`

	Frames     FramesConfig     `yaml:"frames"`
	OCR        OCRConfig        `yaml:"ocr"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg"`
	Store      StoreConfig      `yaml:"store"`
	Server     ServerConfig     `yaml:"server"`
	Watch      WatchConfig      `yaml:"watch"`
}

// FramesConfig controls frame sampling for text detection.
type FramesConfig struct {
	Interval time.Duration `yaml:"interval"`
	MaxWidth uint          `yaml:"max_width"`
}

type OCRConfig struct {
	BinaryPath string   `yaml:"binary_path"`
	Languages  []string `yaml:"languages"`
	Threshold  float64  `yaml:"threshold"`
}

type TranscribeConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	// Language is passed to whisper; "auto" lets it detect.
	Language string `yaml:"language"`
	// SilenceDB skips transcription when the peak volume is below it.
	// Zero disables the check.
	SilenceDB float64 `yaml:"silence_db"`
}

type FFmpegConfig struct {
	Threads int `yaml:"threads"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type WatchConfig struct {
	Dir      string `yaml:"dir"`
	Schedule string `yaml:"schedule"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Frames.Interval <= 0 {
		return fmt.Errorf("frames.interval must be positive, got %s", c.Frames.Interval)
	}
	if c.OCR.Threshold < 0 || c.OCR.Threshold > 1 {
		return fmt.Errorf("ocr.threshold must be within [0, 1], got %g", c.OCR.Threshold)
	}
	if c.Transcribe.SilenceDB > 0 {
		return fmt.Errorf("transcribe.silence_db must not be positive, got %g", c.Transcribe.SilenceDB)
	}
	if c.FFmpeg.Threads < 0 {
		return fmt.Errorf("ffmpeg.threads must not be negative, got %d", c.FFmpeg.Threads)
	}
	return nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// YAML renders the effective configuration.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func defaultConfig() *Config {
	return &Config{
		TempDir:     filepath.Join(os.TempDir(), "tagcannon"),
		OutputDir:   "./output",
		EnableCache: true,
		Frames: FramesConfig{
			Interval: 2 * time.Second,
			MaxWidth: 1280,
		},
		OCR: OCRConfig{
			BinaryPath: "tesseract",
			Languages:  []string{"por", "eng"},
			Threshold:  0.3,
		},
		Transcribe: TranscribeConfig{
			BinaryPath: "whisper-cli",
			ModelPath:  "./models/ggml-base.bin",
			Language:   "auto",
			SilenceDB:  -60,
		},
		FFmpeg: FFmpegConfig{
			Threads: 0,
		},
		Store: StoreConfig{
			Path: filepath.Join(homeDir(), ".tagcannon", "cache.db"),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Watch: WatchConfig{
			Dir:      "./videos",
			Schedule: "@every 1m",
		},
	}
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(homeDir(), ".tagcannon", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
