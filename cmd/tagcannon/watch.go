package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/tagcannon/internal/config"
	"github.com/keagan/tagcannon/internal/logging"
	"github.com/keagan/tagcannon/internal/pipeline"
	"github.com/keagan/tagcannon/internal/report"
	"github.com/keagan/tagcannon/internal/watch"
)

var (
	watchDir      string
	watchSchedule string
	watchOnce     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically analyze new videos in a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		if watchDir != "" {
			cfg.Watch.Dir = watchDir
		}
		if watchSchedule != "" {
			cfg.Watch.Schedule = watchSchedule
		}

		logger := logging.WithComponent("watch")

		pipe, closeFn, err := pipeline.FromConfig(log.Logger, cfg, nil)
		if err != nil {
			return err
		}
		defer closeFn()

		scanner := watch.NewScanner(log.Logger, cfg.Watch.Dir, pipe, func(batch *pipeline.Batch) error {
			paths, err := report.Write(cfg.OutputDir, batch.Results, time.Now())
			if err != nil {
				return err
			}
			logger.Info().
				Str("report", paths.Ready).
				Str("run_id", paths.RunID).
				Int("videos", len(batch.Results)).
				Msg("reports written")
			return nil
		})

		if watchOnce {
			_, err := scanner.Scan(cmd.Context())
			return err
		}

		sched, err := watch.New(log.Logger, cfg.Watch.Schedule, scanner.Job)
		if err != nil {
			return err
		}

		sched.RunOnce(cmd.Context())
		sched.Start()
		logger.Info().
			Str("dir", cfg.Watch.Dir).
			Str("schedule", cfg.Watch.Schedule).
			Msg("watching for videos")

		<-cmd.Context().Done()
		sched.Stop()
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default from config)")
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", `cron schedule, e.g. "*/5 * * * *" or "@every 1m" (default from config)`)
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "scan once and exit")
}
