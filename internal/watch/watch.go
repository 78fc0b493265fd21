// Package watch periodically scans a directory for new videos.
package watch

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/keagan/tagcannon/internal/pipeline"
	"github.com/keagan/tagcannon/pkg/util"
)

// Scheduler runs a job on a cron schedule, never overlapping runs.
type Scheduler struct {
	logger  zerolog.Logger
	cron    *cron.Cron
	job     func(ctx context.Context)
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// New parses schedule (standard 5-field cron or descriptors such as
// "@every 1m") and schedules job.
func New(logger zerolog.Logger, schedule string, job func(ctx context.Context)) (*Scheduler, error) {
	logger = logger.With().Str("component", "watch").Logger()
	cl := cronLogger{logger}

	s := &Scheduler{
		logger: logger,
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		job:    job,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if _, err := s.cron.AddFunc(schedule, func() { s.job(s.ctx) }); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.cron.Start()
		s.started = true
		s.logger.Info().Time("next", s.Next()).Msg("scheduler started")
	}
}

// Stop halts the scheduler, cancels a running job and waits for it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.cancel()
		<-s.cron.Stop().Done()
		s.started = false
	}
}

// RunOnce runs the job immediately on the caller's goroutine.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.job(ctx)
}

// Next is the next scheduled run, zero if not started.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// BatchProcessor is satisfied by *pipeline.Pipeline.
type BatchProcessor interface {
	ProcessAll(ctx context.Context, videos []string, onResult func(i int, res *pipeline.VideoResult, err error)) (*pipeline.Batch, error)
}

// Scanner finds videos in a directory that changed since the last scan and
// hands them to a processor.
type Scanner struct {
	logger  zerolog.Logger
	dir     string
	proc    BatchProcessor
	onBatch func(*pipeline.Batch) error

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewScanner creates a scanner. onBatch is called with each non-empty
// batch, typically to write reports.
func NewScanner(logger zerolog.Logger, dir string, proc BatchProcessor, onBatch func(*pipeline.Batch) error) *Scanner {
	return &Scanner{
		logger:  logger.With().Str("component", "watch").Str("dir", dir).Logger(),
		dir:     dir,
		proc:    proc,
		onBatch: onBatch,
		seen:    make(map[string]time.Time),
	}
}

// Scan processes new or modified videos and returns how many were
// analyzed successfully. Failed videos are retried on the next scan.
func (s *Scanner) Scan(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	videos, err := util.FindVideos(s.dir, "")
	if err != nil {
		return 0, err
	}

	var (
		pending []string
		mtimes  = make(map[string]time.Time)
	)
	for _, v := range videos {
		fi, err := os.Stat(v)
		if err != nil {
			continue
		}
		if last, ok := s.seen[v]; ok && last.Equal(fi.ModTime()) {
			continue
		}
		pending = append(pending, v)
		mtimes[v] = fi.ModTime()
	}

	if len(pending) == 0 {
		s.logger.Debug().Msg("no new videos")
		return 0, nil
	}

	s.logger.Info().Int("videos", len(pending)).Msg("new videos found")

	batch, err := s.proc.ProcessAll(ctx, pending, func(_ int, res *pipeline.VideoResult, err error) {
		if err == nil {
			s.seen[res.Path] = mtimes[res.Path]
		}
	})
	if err != nil {
		return 0, err
	}

	if len(batch.Results) > 0 && s.onBatch != nil {
		if err := s.onBatch(batch); err != nil {
			return len(batch.Results), fmt.Errorf("failed to handle batch: %w", err)
		}
	}

	return len(batch.Results), nil
}

// Job adapts Scan to the scheduler, logging failures.
func (s *Scanner) Job(ctx context.Context) {
	n, err := s.Scan(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int("analyzed", n).Msg("scan failed")
		return
	}
	if n > 0 {
		s.logger.Info().Int("analyzed", n).Msg("scan complete")
	}
}
