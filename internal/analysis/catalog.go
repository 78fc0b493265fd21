package analysis

// Category identifies a content category in the catalog.
type Category string

const (
	Motivation          Category = "motivation"
	Entrepreneurship    Category = "entrepreneurship"
	Fitness             Category = "fitness"
	PersonalDevelopment Category = "personal_development"
	Relationship        Category = "relationship"
	Finance             Category = "finance"
	Lifestyle           Category = "lifestyle"
)

// CategoryDef describes one catalog entry.
type CategoryDef struct {
	Name      Category
	Triggers  []string // lowercase, matched as substrings and against keyword terms
	Hashtags  []string
	Templates []string // each contains wordsPlaceholder
}

const wordsPlaceholder = "{words}"

// catalog is declaration-ordered; ties in classification keep this order.
// Trigger lists may repeat a phrase; each repetition scores.
var catalog = []CategoryDef{
	{
		Name: Motivation,
		Triggers: []string{
			"motivação", "motivacao", "sucesso", "foco", "disciplina", "objetivo",
			"meta", "determinação", "força", "coragem", "atitude", "mentalidade",
			"mindset", "superação", "vitória", "conquista", "persistência",
			"nunca desistir", "acreditar", "sonho", "sonhos", "grandeza",
			"motivation", "success", "focus", "discipline", "hustle", "grind",
		},
		Hashtags: []string{
			"#motivação", "#sucesso", "#foco", "#disciplina", "#mindset",
			"#motivacao", "#inspiration", "#hustle", "#nevergiveup", "#goals",
		},
		Templates: []string{
			"💪 {words} — Assista até o final! 🔥",
			"🚀 A mensagem que você precisava ouvir hoje: {words} 💯",
			"⚡ {words} — Levanta e vai! Não espere o momento perfeito 🏆",
		},
	},
	{
		Name: Entrepreneurship,
		Triggers: []string{
			"empreendedor", "negócio", "negocio", "empresa", "dinheiro", "renda",
			"investir", "investimento", "lucro", "vendas", "marketing", "digital",
			"financeiro", "riqueza", "rico", "milionário", "bilionário",
			"entrepreneur", "business", "money", "wealth", "startup",
		},
		Hashtags: []string{
			"#empreendedorismo", "#negocios", "#dinheiro", "#investimento",
			"#marketingdigital", "#rendaextra", "#entrepreneur", "#business",
		},
		Templates: []string{
			"💰 {words} — O segredo que ninguém te conta 📈",
			"🧠 {words} — Mentalidade de milionário 💎",
			"🔥 {words} — Transforme sua vida agora 🚀",
		},
	},
	{
		Name: Fitness,
		Triggers: []string{
			"treino", "exercício", "academia", "musculação", "dieta", "saúde",
			"corpo", "shape", "fitness", "workout", "gym", "muscle", "bodybuilding",
			"maromba", "hipertrofia", "emagrecer", "gordura", "proteína",
		},
		Hashtags: []string{
			"#fitness", "#treino", "#academia", "#workout", "#gym", "#saude",
			"#maromba", "#bodybuilding", "#fitnessmotivation", "#lifestyle",
		},
		Templates: []string{
			"💪 {words} — Sem desculpas, só resultados! 🏋️",
			"🔥 {words} — O treino que vai mudar seu shape 💯",
			"⚡ {words} — Disciplina é liberdade 🏆",
		},
	},
	{
		Name: PersonalDevelopment,
		Triggers: []string{
			"hábito", "habito", "rotina", "produtividade", "leitura", "livro",
			"aprender", "conhecimento", "inteligência", "sabedoria", "mente",
			"cerebro", "cérebro", "psicologia", "autoconhecimento", "evolução",
			"crescimento", "pessoal", "desenvolvimento", "stoic", "estoicismo",
			"self improvement", "growth", "habits", "productivity", "reading",
		},
		Hashtags: []string{
			"#desenvolvimentopessoal", "#autoconhecimento", "#habitos",
			"#produtividade", "#crescimento", "#selfimprovement", "#growthmindset",
		},
		Templates: []string{
			"🧠 {words} — Conhecimento que transforma 📚",
			"💡 {words} — Evolua todos os dias ⬆️",
			"🎯 {words} — A mudança começa agora 🔑",
		},
	},
	{
		Name: Relationship,
		Triggers: []string{
			"amor", "relacionamento", "namoro", "casal", "mulher", "homem",
			"masculinidade", "feminilidade", "sedução", "atração", "conquista",
			"red pill", "alpha", "sigma", "dating", "relationship", "love",
		},
		Hashtags: []string{
			"#relacionamento", "#amor", "#dating", "#masculinidade",
			"#redpill", "#sigmamale", "#alphamale", "#lifestyle",
		},
		Templates: []string{
			"❤️ {words} — A verdade que você precisa ouvir 💯",
			"🔥 {words} — Entenda o jogo! 🎯",
			"💎 {words} — Valor próprio acima de tudo 👑",
		},
	},
	{
		Name: Finance,
		Triggers: []string{
			"investir", "ações", "cripto", "bitcoin", "renda", "passiva",
			"finanças", "financas", "economizar", "poupança", "bolsa", "trading",
			"trader", "mercado", "financeiro", "liberdade financeira",
			"invest", "crypto", "stocks", "trading", "financial freedom",
		},
		Hashtags: []string{
			"#financas", "#investimentos", "#rendapassiva", "#bitcoin",
			"#crypto", "#trading", "#liberdadefinanceira", "#educacaofinanceira",
		},
		Templates: []string{
			"💰 {words} — Domine seu dinheiro 📊",
			"📈 {words} — O caminho para a liberdade financeira 🔑",
			"🧠 {words} — Inteligência financeira na prática 💎",
		},
	},
	{
		Name: Lifestyle,
		Triggers: []string{
			"vida", "estilo", "luxo", "carro", "viagem", "casa", "moda",
			"roupa", "comida", "dia", "noite", "rotina", "manhã",
			"lifestyle", "luxury", "travel", "fashion", "food", "routine",
		},
		Hashtags: []string{
			"#lifestyle", "#luxury", "#vibes", "#aesthetic", "#dailyroutine",
			"#viral", "#fyp", "#foryou", "#parati", "#fy",
		},
		Templates: []string{
			"✨ {words} — Vibe do dia 🎬",
			"🔥 {words} — Lifestyle that hits different 💯",
			"⚡ {words} — Assista e se inspire! 🚀",
		},
	},
}

// UniversalHashtags are platform discovery tags applied regardless of category.
var UniversalHashtags = []string{"#fyp", "#foryou", "#viral", "#tiktok", "#parati", "#fy"}

const (
	// FallbackDescription is used when a video yields no text at all.
	FallbackDescription = "✨ Confira esse conteúdo incrível! 🔥 #fyp #viral #tiktok"

	fallbackWords         = "Conteúdo incrível"
	fallbackHashtagCount  = 5
	universalHashtagCount = 3
)

// Categories returns the catalog in declaration order.
func Categories() []CategoryDef {
	out := make([]CategoryDef, len(catalog))
	copy(out, catalog)
	return out
}

// definition returns the catalog entry for c, falling back to lifestyle.
func definition(c Category) CategoryDef {
	for _, def := range catalog {
		if def.Name == c {
			return def
		}
	}
	return catalog[len(catalog)-1]
}
