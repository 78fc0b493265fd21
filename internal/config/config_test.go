package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
output_dir: /tmp/out
enable_cache: false
frames:
  interval: 500ms
ocr:
  threshold: 0.5
  languages: [por]
server:
  addr: 127.0.0.1:9000
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.False(t, cfg.EnableCache)
	assert.Equal(t, 500*time.Millisecond, cfg.Frames.Interval)
	assert.Equal(t, uint(1280), cfg.Frames.MaxWidth)
	assert.Equal(t, 0.5, cfg.OCR.Threshold)
	assert.Equal(t, []string{"por"}, cfg.OCR.Languages)
	assert.Equal(t, "tesseract", cfg.OCR.BinaryPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "@every 1m", cfg.Watch.Schedule)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "frames: [\n"},
		{"zero interval", "frames:\n  interval: 0s\n"},
		{"threshold out of range", "ocr:\n  threshold: 1.5\n"},
		{"negative threads", "ffmpeg:\n  threads: -1\n"},
		{"positive silence threshold", "transcribe:\n  silence_db: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := defaultConfig()
	cfg.Watch.Dir = "/srv/videos"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestContext(t *testing.T) {
	assert.Equal(t, defaultConfig(), FromContext(context.Background()))

	cfg := defaultConfig()
	cfg.OutputDir = "elsewhere"
	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
