package main

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/keagan/tagcannon/internal/analysis"
)

var (
	textOCR        []string
	textTranscript string
)

type textOutput struct {
	analysis.AnalysisResult
	Outcome analysis.Outcome `json:"outcome"`
}

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Analyze text directly, without a video",
	Long: "Runs the text analysis on the given on-screen texts and transcript " +
		"and prints the result as JSON. Use --transcript - to read the transcript from stdin.",
	Example: `  tagcannon text --transcript "Você precisa de disciplina para vencer. Foco total."
  tagcannon text --ocr "TREINO PESADO" --ocr "shape 2025" --transcript - < fala.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transcript := textTranscript
		if transcript == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			transcript = string(data)
		}
		if len(textOCR) == 0 && transcript == "" {
			return errors.New("provide --ocr and/or --transcript")
		}

		result := analysis.Analyze(analysis.RawSignals{
			OnScreenTexts:  textOCR,
			TranscriptText: transcript,
		})

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(textOutput{AnalysisResult: result, Outcome: result.Outcome})
	},
}

func init() {
	textCmd.Flags().StringArrayVar(&textOCR, "ocr", nil, "on-screen text (repeatable)")
	textCmd.Flags().StringVar(&textTranscript, "transcript", "", "spoken transcript, or - for stdin")
}
