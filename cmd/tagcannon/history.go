package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/keagan/tagcannon/internal/config"
	"github.com/keagan/tagcannon/internal/pipeline"
	"github.com/keagan/tagcannon/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List cached analysis results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no cached results")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ANALYZED\tVIDEO\tCATEGORY\tHASHTAGS\tHASH")
		for _, rec := range records {
			var res pipeline.VideoResult
			if err := json.Unmarshal(rec.Payload, &res); err != nil {
				return fmt.Errorf("corrupt cache entry %s: %w", rec.Hash, err)
			}
			category := res.MainCategory()
			if category == "" {
				category = "—"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				rec.AnalyzedAt.Local().Format("02/01/2006 15:04"),
				rec.Video,
				category,
				len(res.Analysis.Hashtags),
				rec.Hash[:min(12, len(rec.Hash))],
			)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show (0 for all)")
}
