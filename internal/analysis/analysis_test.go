package analysis

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmpty(t *testing.T) {
	t.Parallel()

	inputs := []RawSignals{
		{},
		{OnScreenTexts: []string{}, TranscriptText: ""},
		{OnScreenTexts: []string{"  ", "\t"}, TranscriptText: "\n"},
	}
	for _, in := range inputs {
		got := Analyze(in)
		assert.Equal(t, []string{"#fyp", "#foryou", "#viral", "#tiktok", "#parati"}, got.Hashtags)
		assert.Equal(t, FallbackDescription, got.Description)
		assert.NotNil(t, got.Keywords)
		assert.Empty(t, got.Keywords)
		assert.NotNil(t, got.Categories)
		assert.Empty(t, got.Categories)
		assert.True(t, got.Outcome.InsufficientSignal)
	}
}

func TestAnalyzeFallbackDoesNotAliasUniversalTags(t *testing.T) {
	t.Parallel()

	got := Analyze(RawSignals{})
	got.Hashtags[0] = "#changed"
	assert.Equal(t, "#fyp", UniversalHashtags[0])
}

func TestAnalyzeMotivation(t *testing.T) {
	t.Parallel()

	got := Analyze(RawSignals{
		TranscriptText: "Você precisa de disciplina para vencer. Foco total.",
	})

	assert.Equal(t, []CategoryScore{{Category: Motivation, Score: 10}}, got.Categories)
	assert.Equal(t, []string{
		"#motivação", "#sucesso", "#foco",
		"#total", "#disciplina", "#precisa", "#vencer",
		"#fyp", "#foryou", "#viral",
	}, got.Hashtags)
	assert.Equal(t,
		`"Você precisa de disciplina para vencer" — 💪 Foco, total, disciplina — Assista até o final! 🔥`,
		got.Description)
	assert.Equal(t, Outcome{}, got.Outcome)
}

func TestAnalyzeFinanceOnly(t *testing.T) {
	t.Parallel()

	got := Analyze(RawSignals{TranscriptText: "bitcoin bitcoin bitcoin"})

	assert.Equal(t, []ScoredKeyword{{Term: "bitcoin", Score: 3}}, got.Keywords)
	assert.Equal(t, []CategoryScore{{Category: Finance, Score: 5}}, got.Categories)
	assert.Equal(t, []string{
		"#financas", "#investimentos", "#rendapassiva", "#bitcoin", "#fyp", "#foryou", "#viral",
	}, got.Hashtags)
	assert.Equal(t, "🧠 Bitcoin — Inteligência financeira na prática 💎", got.Description)
	assert.Equal(t, Outcome{ExtractionDegraded: true}, got.Outcome)
}

func TestAnalyzeTooFewTokens(t *testing.T) {
	t.Parallel()

	got := Analyze(RawSignals{TranscriptText: "oi tudo"})

	assert.Empty(t, got.Keywords)
	assert.Empty(t, got.Categories)
	assert.Equal(t, []string{"#fyp", "#foryou", "#viral"}, got.Hashtags)
	assert.Equal(t, "🔥 Conteúdo incrível — Lifestyle that hits different 💯", got.Description)
	assert.Equal(t, Outcome{InsufficientSignal: true, NoCategoryMatch: true}, got.Outcome)
}

func TestAnalyzeCombinesSignals(t *testing.T) {
	t.Parallel()

	got := Analyze(RawSignals{
		OnScreenTexts:  []string{"INVESTIMENTO em bitcoin"},
		TranscriptText: "Bitcoin é o futuro do dinheiro. Aprenda a investir hoje!",
	})

	require.NotEmpty(t, got.Categories)
	assert.True(t, strings.HasPrefix(got.Description, `"Bitcoin é o futuro do dinheiro" — `), got.Description)
	assert.LessOrEqual(t, len(got.Keywords), ResultKeywords)
	assert.LessOrEqual(t, len(got.Hashtags), MaxHashtags)
	assertUniqueFold(t, got.Hashtags)
}

func TestAnalyzeKeepsTopTenKeywords(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for _, w := range []string{"alfa", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india", "juliett", "kilo", "lima"} {
		fmt.Fprintf(&b, "%s treino. ", w)
	}

	got := Analyze(RawSignals{TranscriptText: b.String()})
	assert.Len(t, got.Keywords, ResultKeywords)
	assert.True(t, slices.IsSortedFunc(got.Keywords, byScoreDesc))
}

func TestAnalyzeDeterministic(t *testing.T) {
	t.Parallel()

	in := RawSignals{
		OnScreenTexts:  []string{"TREINO PESADO", "shape 2025"},
		TranscriptText: "Hoje o treino foi de hipertrofia. Dieta e academia todo dia! Sem desculpas.",
	}

	a, err := json.Marshal(Analyze(in))
	require.NoError(t, err)
	b, err := json.Marshal(Analyze(in))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestExtractionText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "olá mundo\ntudo bem\nsim", extractionText("Olá, Mundo! Tudo bem?\nSim."))
	assert.Equal(t, "", extractionText("!!! ... ???"))
}

func FuzzAnalyze(f *testing.F) {
	f.Add("", "")
	f.Add("INVESTIMENTO em bitcoin", "Bitcoin é o futuro do dinheiro. Aprenda a investir hoje!")
	f.Add("💪🔥", "Você precisa de disciplina para vencer. Foco total.")
	f.Add("\xff\xfe", "\x00")
	f.Add("fyp FYP #fyp", "viral viral viral. fyp fyp.")

	f.Fuzz(func(t *testing.T, onScreen, transcript string) {
		in := RawSignals{OnScreenTexts: []string{onScreen}, TranscriptText: transcript}
		a := Analyze(in)
		b := Analyze(in)

		ja, _ := json.Marshal(a)
		jb, _ := json.Marshal(b)
		if string(ja) != string(jb) {
			t.Errorf("non-deterministic:\n  a = %s\n  b = %s", ja, jb)
		}
		if len(a.Hashtags) > MaxHashtags {
			t.Errorf("too many hashtags: %v", a.Hashtags)
		}
		seen := make(map[string]bool)
		for _, tag := range a.Hashtags {
			key := strings.ToLower(tag)
			if seen[key] {
				t.Errorf("duplicate hashtag %q in %v", tag, a.Hashtags)
			}
			seen[key] = true
		}
		if !slices.IsSortedFunc(a.Keywords, byScoreDesc) {
			t.Errorf("keywords not sorted: %v", a.Keywords)
		}
		if a.Description == "" {
			t.Error("empty description")
		}
	})
}
