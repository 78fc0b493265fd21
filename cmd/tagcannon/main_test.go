package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keagan/tagcannon/internal/analysis"
	"github.com/keagan/tagcannon/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTextCommand(t *testing.T) {
	out, err := execute(t, "", "text", "--transcript", "bitcoin bitcoin bitcoin")
	require.NoError(t, err)

	var got struct {
		Hashtags []string         `json:"hashtags"`
		Outcome  analysis.Outcome `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "#financas", got.Hashtags[0])
	assert.True(t, got.Outcome.ExtractionDegraded)
}

func TestTextCommandStdin(t *testing.T) {
	out, err := execute(t, "Você precisa de disciplina para vencer. Foco total.", "text", "--transcript", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"#motivação"`)
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "interval: 2s")
	assert.Contains(t, out, "silence_db: -60")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, "", "config", "init", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = execute(t, "", "config", "init", path)
	assert.Error(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Frames.Interval)
}

func TestCollectVideos(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp4", "a.MP4", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	all, err := collectVideos(dir, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := collectVideos(dir, []string{"b.mp4"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.mp4")}, one)

	_, err = collectVideos(dir, []string{"missing.mp4"})
	assert.Error(t, err)
}
