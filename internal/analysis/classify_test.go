package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		keywords []ScoredKeyword
		want     []CategoryScore
	}{
		{
			name:     "repeated finance trigger",
			text:     "bitcoin bitcoin",
			keywords: []ScoredKeyword{{Term: "bitcoin", Score: 2}},
			want:     []CategoryScore{{Category: Finance, Score: 5}},
		},
		{
			name: "substring and keyword points add",
			text: "Foco",
			keywords: []ScoredKeyword{
				{Term: "foco", Score: 1},
			},
			want: []CategoryScore{{Category: Motivation, Score: 5}},
		},
		{
			name: "shared and nested triggers",
			text: "quero investir",
			want: []CategoryScore{
				{Category: Finance, Score: 4},
				{Category: Entrepreneurship, Score: 2},
			},
		},
		{
			name: "ties keep catalog order",
			text: "treino e sucesso",
			want: []CategoryScore{
				{Category: Motivation, Score: 2},
				{Category: Fitness, Score: 2},
			},
		},
		{
			name: "multi word trigger",
			text: "Nunca desistir!",
			want: []CategoryScore{{Category: Motivation, Score: 2}},
		},
		{
			name: "no match",
			text: "xyz qwerty",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.text, tt.keywords))
		})
	}
}

func TestClassifyRepeatedTriggerScoresTwice(t *testing.T) {
	t.Parallel()

	// finance lists "trading" twice.
	got := Classify("trading", nil)
	assert.Equal(t, []CategoryScore{{Category: Finance, Score: 4}}, got)
}

func TestCategories(t *testing.T) {
	t.Parallel()

	defs := Categories()
	assert.Len(t, defs, 7)
	assert.Equal(t, Motivation, defs[0].Name)
	assert.Equal(t, Lifestyle, defs[len(defs)-1].Name)

	for _, def := range defs {
		assert.NotEmpty(t, def.Triggers, def.Name)
		assert.GreaterOrEqual(t, len(def.Hashtags), tagsPerCategory, def.Name)
		assert.Len(t, def.Templates, 3, def.Name)
		for _, tpl := range def.Templates {
			assert.Contains(t, tpl, wordsPlaceholder)
		}
	}

	defs[0].Name = "mutated"
	assert.Equal(t, Motivation, Categories()[0].Name)
	assert.Equal(t, Lifestyle, definition("unknown").Name)
}
