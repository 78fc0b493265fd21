package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/keagan/tagcannon/internal/pipeline"
)

const (
	previewDescriptionRunes = 150
	summaryNameRunes        = 28
	noCategory              = "—"
)

// Preview prints the hashtags, the start of the description and the top
// categories of one result.
func Preview(w io.Writer, r *pipeline.VideoResult) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  🏷️ Hashtags: %s\n", strings.Join(r.Analysis.Hashtags, " "))
	fmt.Fprintf(w, "  📝 Descrição: %s\n", truncateRunes(r.Analysis.Description, previewDescriptionRunes))

	if cats := r.Analysis.Categories; len(cats) > 0 {
		names := make([]string, 0, topCategories)
		for _, c := range cats[:min(topCategories, len(cats))] {
			names = append(names, string(c.Category))
		}
		fmt.Fprintf(w, "  📂 Categorias: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintln(w)
}

// Summary prints one table row per result.
func Summary(w io.Writer, results []pipeline.VideoResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tVídeo\tHashtags\tCategoria Principal\tPalavras no Áudio")
	for i, r := range results {
		category := r.MainCategory()
		if category == "" {
			category = noCategory
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			i+1,
			shortName(r.Video),
			len(r.Analysis.Hashtags),
			category,
			strconv.Itoa(r.WordCount()),
		)
	}

	return tw.Flush()
}

// shortName keeps names up to 28 runes and cuts longer ones to 25 plus "...".
func shortName(name string) string {
	runes := []rune(name)
	if len(runes) <= summaryNameRunes {
		return name
	}
	return string(runes[:25]) + "..."
}
