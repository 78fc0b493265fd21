// Package report writes batch results to disk and renders terminal
// previews.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keagan/tagcannon/internal/pipeline"
	"github.com/keagan/tagcannon/pkg/util"
)

const (
	// TimestampLayout names one run's files.
	TimestampLayout = "20060102_150405"
	displayLayout   = "02/01/2006 15:04:05"

	previewRunes  = 500
	topCategories = 3
	topKeywords   = 8
)

// Paths are the files produced by one Write.
type Paths struct {
	RunID string
	Text  string
	JSON  string
	Ready string
}

// Write renders the text report, the JSON report and the ready-to-post
// file into dir, creating it if needed.
func Write(dir string, results []pipeline.VideoResult, now time.Time) (*Paths, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	ts := now.Format(TimestampLayout)
	paths := &Paths{
		RunID: uuid.NewString(),
		Text:  filepath.Join(dir, "resultados_"+ts+".txt"),
		JSON:  filepath.Join(dir, "resultados_"+ts+".json"),
		Ready: filepath.Join(dir, "pronto_para_postar_"+ts+".txt"),
	}

	if err := writeFile(paths.Text, func(w io.Writer) error {
		return writeText(w, results, now)
	}); err != nil {
		return nil, err
	}
	if err := writeFile(paths.JSON, func(w io.Writer) error {
		return writeJSON(w, paths.RunID, results, now)
	}); err != nil {
		return nil, err
	}
	if err := writeFile(paths.Ready, func(w io.Writer) error {
		return writeReady(w, results, now)
	}); err != nil {
		return nil, err
	}

	return paths, nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	bw := bufio.NewWriter(f)
	if err := render(bw); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func writeText(w io.Writer, results []pipeline.VideoResult, now time.Time) error {
	ew := &errWriter{w: w}
	rule := strings.Repeat("=", 70)
	thin := strings.Repeat("─", 70)

	ew.printf("%s\n", rule)
	ew.printf("   🎬 TikTok Video Analyzer — Relatório de Análise\n")
	ew.printf("   📅 Gerado em: %s\n", now.Format(displayLayout))
	ew.printf("   📹 Total de vídeos analisados: %d\n", len(results))
	ew.printf("%s\n\n", rule)

	for i, r := range results {
		ew.printf("%s\n", thin)
		ew.printf("  📹 VÍDEO %d: %s\n", i+1, r.Video)
		ew.printf("%s\n\n", thin)

		if ocr := r.OCRText(); ocr != "" {
			ew.printf("  🔤 TEXTO DETECTADO (OCR):\n")
			ew.printf("     %s\n\n", truncateRunes(ocr, previewRunes))
		} else {
			ew.printf("  🔤 TEXTO DETECTADO (OCR): Nenhum texto encontrado\n\n")
		}

		if r.Transcript != "" {
			ew.printf("  🎤 TRANSCRIÇÃO DO ÁUDIO:\n")
			ew.printf("     %s\n\n", truncateRunes(r.Transcript, previewRunes))
		} else {
			ew.printf("  🎤 TRANSCRIÇÃO DO ÁUDIO: Nenhuma fala detectada\n\n")
		}

		if cats := r.Analysis.Categories; len(cats) > 0 {
			parts := make([]string, 0, topCategories)
			for _, c := range cats[:min(topCategories, len(cats))] {
				parts = append(parts, fmt.Sprintf("%s (%dpts)", c.Category, c.Score))
			}
			ew.printf("  📂 CATEGORIAS: %s\n\n", strings.Join(parts, ", "))
		}

		if kws := r.Analysis.Keywords; len(kws) > 0 {
			terms := make([]string, 0, topKeywords)
			for _, k := range kws[:min(topKeywords, len(kws))] {
				terms = append(terms, k.Term)
			}
			ew.printf("  🔑 PALAVRAS-CHAVE: %s\n\n", strings.Join(terms, ", "))
		}

		ew.printf("  🏷️ HASHTAGS:\n")
		ew.printf("     %s\n\n", strings.Join(r.Analysis.Hashtags, " "))

		ew.printf("  📝 DESCRIÇÃO SUGERIDA:\n")
		ew.printf("     %s\n\n", r.Analysis.Description)
	}

	ew.printf("%s\n", rule)
	ew.printf("   Gerado por TikTok Video Analyzer 🚀\n")
	ew.printf("%s\n", rule)

	return ew.err
}

type jsonReport struct {
	RunID       string      `json:"run_id"`
	GeneratedAt string      `json:"generated_at"`
	TotalVideos int         `json:"total_videos"`
	Videos      []jsonVideo `json:"videos"`
}

type jsonVideo struct {
	Filename      string         `json:"filename"`
	OCRText       string         `json:"ocr_text"`
	Transcription string         `json:"transcription"`
	Language      string         `json:"language"`
	Hashtags      []string       `json:"hashtags"`
	Description   string         `json:"description"`
	Keywords      []jsonKeyword  `json:"keywords"`
	Categories    []jsonCategory `json:"categories"`
}

type jsonKeyword struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

type jsonCategory struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func writeJSON(w io.Writer, runID string, results []pipeline.VideoResult, now time.Time) error {
	report := jsonReport{
		RunID:       runID,
		GeneratedAt: now.Format(time.RFC3339),
		TotalVideos: len(results),
		Videos:      make([]jsonVideo, 0, len(results)),
	}

	for _, r := range results {
		v := jsonVideo{
			Filename:      r.Video,
			OCRText:       r.OCRText(),
			Transcription: r.Transcript,
			Language:      r.Language,
			Hashtags:      r.Analysis.Hashtags,
			Description:   r.Analysis.Description,
			Keywords:      make([]jsonKeyword, 0, len(r.Analysis.Keywords)),
			Categories:    make([]jsonCategory, 0, len(r.Analysis.Categories)),
		}
		if v.Hashtags == nil {
			v.Hashtags = []string{}
		}
		for _, k := range r.Analysis.Keywords {
			v.Keywords = append(v.Keywords, jsonKeyword{Word: k.Term, Score: round4(k.Score)})
		}
		for _, c := range r.Analysis.Categories {
			v.Categories = append(v.Categories, jsonCategory{Name: string(c.Category), Score: c.Score})
		}
		report.Videos = append(report.Videos, v)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeReady(w io.Writer, results []pipeline.VideoResult, now time.Time) error {
	ew := &errWriter{w: w}
	heavy := strings.Repeat("━", 50)

	ew.printf("📋 PRONTO PARA POSTAR NO TIKTOK\n")
	ew.printf("📅 %s\n", now.Format(displayLayout))
	ew.printf("%s\n\n", strings.Repeat("=", 50))
	ew.printf("Copie a descrição + hashtags abaixo para cada vídeo:\n\n")

	for _, r := range results {
		ew.printf("%s\n", heavy)
		ew.printf("📹 %s\n", r.Video)
		ew.printf("%s\n\n", heavy)
		ew.printf("%s\n\n", r.Analysis.Description)
		ew.printf("%s\n\n\n", strings.Join(r.Analysis.Hashtags, " "))
	}

	return ew.err
}

func round4(f float64) float64 {
	return math.Round(f*1e4) / 1e4
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
