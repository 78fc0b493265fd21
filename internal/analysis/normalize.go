package analysis

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// lowerPool holds lowercase+compose chains; transformers are stateful.
var lowerPool = sync.Pool{
	New: func() any {
		return transform.Chain(cases.Lower(language.Portuguese), norm.NFC)
	},
}

// lower lowercases s with Portuguese rules and composes it to NFC, so a
// decomposed "e" + U+0301 becomes a single "é".
func lower(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, " ")

	tr := lowerPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	lowerPool.Put(tr)
	if err != nil {
		return strings.ToLower(norm.NFC.String(s))
	}
	return out
}

// Normalize lowercases text, replaces every rune that is neither a letter
// nor whitespace with a space, collapses whitespace runs and trims.
// Accented letters are kept. Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := lower(text)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
