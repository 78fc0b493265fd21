package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogFile(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "tagcannon.log")
	closer, err := Init(Options{JSON: true, File: path})
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger := WithComponent("watch")
	logger.Info().Str("video", "a.mp4").Msg("analyzed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"watch"`)
	assert.Contains(t, string(data), `"video":"a.mp4"`)
}

func TestInitLogFileUnwritable(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	_, err := Init(Options{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestNewLoggerMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewLogger(&a, &b)
	logger.Info().Msg("hello")

	assert.Contains(t, a.String(), "hello")
	assert.Equal(t, a.String(), b.String())
}
