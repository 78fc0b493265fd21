package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/tagcannon/internal/config"
	"github.com/keagan/tagcannon/internal/pipeline"
	"github.com/keagan/tagcannon/internal/report"
	"github.com/keagan/tagcannon/pkg/util"
)

var (
	analyzeDir      string
	analyzeInterval string
	analyzeOutput   string
	analyzeNoCache  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [video...]",
	Short: "Analyze videos and write hashtag reports",
	Long: "Analyzes the given videos, or every MP4 in --dir when none are given, " +
		"prints a preview per video and a summary, and writes the reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		out := cmd.OutOrStdout()

		if err := applyAnalyzeFlags(cmd, cfg); err != nil {
			return err
		}

		videos, err := collectVideos(analyzeDir, args)
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			return fmt.Errorf("no MP4 videos found in %s", analyzeDir)
		}

		fmt.Fprintf(out, "\n  📹 %d vídeo(s) encontrado(s)\n", len(videos))
		fmt.Fprintf(out, "  ⏱️ Intervalo de frames: %s\n", cfg.Frames.Interval)
		fmt.Fprintf(out, "  📁 Output: %s/\n\n", cfg.OutputDir)

		pipe, closeFn, err := pipeline.FromConfig(log.Logger, cfg, nil)
		if err != nil {
			return err
		}
		defer closeFn()

		batch, err := pipe.ProcessAll(cmd.Context(), videos, func(i int, res *pipeline.VideoResult, err error) {
			printVideoHeader(out, i, len(videos), videos[i])
			if err != nil {
				fmt.Fprintf(out, "  ❌ Erro ao processar %s: %v\n", baseName(videos[i]), err)
				return
			}
			if res.Cached {
				fmt.Fprintln(out, "  ♻️ Resultado em cache")
			}
			report.Preview(out, res)
		})
		if err != nil {
			return err
		}
		if len(batch.Results) == 0 {
			return errors.New("no video was processed successfully")
		}

		fmt.Fprintln(out, "\n📊 Resumo da Análise")
		if err := report.Summary(out, batch.Results); err != nil {
			return err
		}

		paths, err := report.Write(cfg.OutputDir, batch.Results, time.Now())
		if err != nil {
			return err
		}
		printReportPaths(out, cfg.OutputDir, paths)

		rule := strings.Repeat("═", 60)
		fmt.Fprintf(out, "\n%s\n", rule)
		fmt.Fprintf(out, "  ✅ CONCLUÍDO! %d vídeo(s) analisado(s)\n", len(batch.Results))
		fmt.Fprintf(out, "  ⏱️ Tempo total: %.1f segundos\n", batch.Elapsed.Seconds())
		fmt.Fprintf(out, "%s\n\n", rule)

		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDir, "dir", ".", "directory to search for videos")
	analyzeCmd.Flags().StringVar(&analyzeInterval, "interval", "", "seconds between sampled frames (default from config)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "report directory (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "ignore and do not update the result cache")
}

func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("interval") {
		d, err := util.ParseInterval(analyzeInterval)
		if err != nil {
			return err
		}
		cfg.Frames.Interval = d
	}
	if analyzeOutput != "" {
		cfg.OutputDir = analyzeOutput
	}
	if analyzeNoCache {
		cfg.EnableCache = false
	}
	return nil
}

// collectVideos resolves explicit names, or scans dir when there are none.
func collectVideos(dir string, names []string) ([]string, error) {
	if len(names) == 0 {
		return util.FindVideos(dir, "")
	}

	var videos []string
	for _, name := range names {
		found, err := util.FindVideos(dir, name)
		if err != nil {
			return nil, err
		}
		videos = append(videos, found...)
	}
	return videos, nil
}

func printVideoHeader(w io.Writer, i, total int, path string) {
	rule := strings.Repeat("─", 60)
	fmt.Fprintf(w, "\n  ⏳ Vídeo %d/%d\n", i+1, total)
	fmt.Fprintf(w, "%s\n  📹 %s\n%s\n", rule, baseName(path), rule)
}

func printReportPaths(w io.Writer, dir string, paths *report.Paths) {
	fmt.Fprintf(w, "\n✅ Relatórios salvos em: %s/\n", dir)
	fmt.Fprintf(w, "   📄 %s\n", baseName(paths.Text))
	fmt.Fprintf(w, "   📊 %s\n", baseName(paths.JSON))
	fmt.Fprintf(w, "   📋 %s (copiar e colar!)\n", baseName(paths.Ready))
}

func baseName(path string) string {
	return filepath.Base(path)
}
