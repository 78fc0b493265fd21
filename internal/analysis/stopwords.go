package analysis

// stopwords holds Portuguese and English function words and spoken filler
// that carry no signal for keywords or hashtags. Entries are lowercase NFC.
var stopwords = map[string]struct{}{
	// Portuguese articles, prepositions and contractions
	"a": {}, "o": {}, "e": {}, "é": {}, "de": {}, "do": {}, "da": {}, "dos": {}, "das": {},
	"em": {}, "no": {}, "na": {}, "nos": {}, "nas": {}, "um": {}, "uma": {}, "uns": {},
	"umas": {}, "para": {}, "por": {}, "com": {}, "sem": {}, "ao": {}, "aos": {}, "à": {},
	"às": {}, "pelo": {}, "pela": {}, "pelos": {}, "pelas": {}, "num": {}, "numa": {},
	"nesse": {}, "nessa": {}, "neste": {}, "nesta": {}, "nisso": {}, "nisto": {},
	"dele": {}, "dela": {}, "deles": {}, "delas": {}, "entre": {}, "sobre": {}, "até": {},

	// Portuguese conjunctions and adverbs
	"que": {}, "se": {}, "não": {}, "mais": {}, "mas": {}, "como": {}, "ou": {},
	"já": {}, "só": {}, "bem": {}, "muito": {}, "também": {}, "então": {}, "quando": {},
	"onde": {}, "porque": {}, "pois": {}, "assim": {}, "aqui": {}, "ali": {}, "lá": {},
	"ainda": {}, "depois": {}, "antes": {}, "agora": {}, "sempre": {}, "nunca": {},

	// Portuguese pronouns and determiners
	"eu": {}, "tu": {}, "ele": {}, "ela": {}, "nós": {}, "vós": {}, "eles": {}, "elas": {},
	"esse": {}, "essa": {}, "este": {}, "esta": {}, "isso": {}, "isto": {}, "aquele": {},
	"aquela": {}, "seu": {}, "sua": {}, "meu": {}, "minha": {}, "todo": {}, "toda": {},
	"todos": {}, "todas": {}, "cada": {}, "outro": {}, "outra": {}, "outros": {},
	"outras": {}, "mesmo": {}, "mesma": {}, "mesmos": {}, "mesmas": {},

	// Portuguese high-frequency verbs
	"ter": {}, "ser": {}, "estar": {}, "ir": {}, "fazer": {}, "poder": {}, "dizer": {},
	"dar": {}, "ver": {}, "saber": {}, "querer": {}, "foi": {}, "vai": {}, "tem": {},
	"são": {}, "está": {}, "era": {}, "pode": {}, "há": {},

	// Spoken filler and chat shorthand
	"coisa": {}, "coisas": {}, "gente": {}, "tipo": {}, "aí": {}, "né": {}, "tá": {},
	"tô": {}, "pra": {}, "pro": {}, "vc": {}, "voce": {}, "você": {},

	// English
	"the": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "does": {}, "did": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "may": {}, "might": {}, "can": {}, "shall": {},
	"to": {}, "of": {}, "in": {}, "for": {}, "on": {}, "with": {}, "at": {}, "by": {},
	"from": {}, "as": {}, "into": {}, "through": {}, "during": {}, "it": {}, "its": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "i": {}, "you": {}, "he": {},
	"she": {}, "we": {}, "they": {}, "me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "our": {}, "their": {}, "what": {}, "which": {},
	"who": {}, "whom": {}, "and": {}, "but": {}, "or": {}, "not": {}, "if": {}, "so": {},
	"than": {}, "too": {}, "very": {}, "just": {},
}

// IsStopword reports whether the lowercase term is in the stop-word list.
func IsStopword(term string) bool {
	_, ok := stopwords[term]
	return ok
}
