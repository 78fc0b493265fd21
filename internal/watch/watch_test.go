package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keagan/tagcannon/internal/pipeline"
)

func TestNewInvalidSchedule(t *testing.T) {
	_, err := New(zerolog.Nop(), "not a schedule", func(context.Context) {})
	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	s, err := New(zerolog.Nop(), "@every 1h", func(context.Context) {})
	require.NoError(t, err)

	s.Start()
	s.Start()
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.Next(), time.Minute)

	s.Stop()
	s.Stop()
}

func TestSchedulerRunsJob(t *testing.T) {
	var runs atomic.Int32
	s, err := New(zerolog.Nop(), "@every 1s", func(context.Context) { runs.Add(1) })
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerStopCancelsJob(t *testing.T) {
	started := make(chan struct{})
	done := make(chan error, 1)
	s, err := New(zerolog.Nop(), "@every 1s", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		done <- ctx.Err()
	})
	require.NoError(t, err)

	s.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}
	s.Stop()

	assert.ErrorIs(t, <-done, context.Canceled)
}

type ctxKey struct{}

func TestRunOnce(t *testing.T) {
	var got context.Context
	s, err := New(zerolog.Nop(), "@daily", func(ctx context.Context) { got = ctx })
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), ctxKey{}, "x")
	s.RunOnce(ctx)
	assert.Equal(t, ctx, got)
}

type recordingProcessor struct {
	calls [][]string
	fail  string
}

func (r *recordingProcessor) ProcessAll(_ context.Context, videos []string, onResult func(int, *pipeline.VideoResult, error)) (*pipeline.Batch, error) {
	r.calls = append(r.calls, videos)
	batch := &pipeline.Batch{}
	for i, v := range videos {
		if filepath.Base(v) == r.fail {
			err := errors.New("broken")
			batch.Failed = append(batch.Failed, pipeline.Failure{Video: filepath.Base(v), Err: err})
			onResult(i, nil, err)
			continue
		}
		res := pipeline.VideoResult{Video: filepath.Base(v), Path: v}
		batch.Results = append(batch.Results, res)
		onResult(i, &res, nil)
	}
	return batch, nil
}

func TestScanner(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
		return path
	}
	a := write("a.mp4")
	write("broken.mp4")

	proc := &recordingProcessor{fail: "broken.mp4"}
	var batches int
	s := NewScanner(zerolog.Nop(), dir, proc, func(b *pipeline.Batch) error {
		batches++
		return nil
	})

	n, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, batches)

	// only the failed video is retried
	n, err = s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	require.Len(t, proc.calls, 2)
	assert.Equal(t, []string{filepath.Join(dir, "broken.mp4")}, proc.calls[1])
	assert.Equal(t, 1, batches)

	// a modified video is picked up again
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(a, later, later))
	write("c.mp4")

	n, err = s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{a, filepath.Join(dir, "broken.mp4"), filepath.Join(dir, "c.mp4")}, proc.calls[2])
}

func TestScannerNothingNew(t *testing.T) {
	proc := &recordingProcessor{}
	s := NewScanner(zerolog.Nop(), t.TempDir(), proc, nil)

	n, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, proc.calls)
}

func TestScannerBatchHandlerError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp4"), nil, 0644))

	s := NewScanner(zerolog.Nop(), dir, &recordingProcessor{}, func(*pipeline.Batch) error {
		return errors.New("disk full")
	})

	n, err := s.Scan(context.Background())
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 1, n)
}
