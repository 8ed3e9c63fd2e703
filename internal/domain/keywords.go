package domain

import "strings"

// Keywords is the fixed keyword vocabulary, in column order.
var Keywords = [...]string{
	"craft", "alien", "ufo", "object", "disk", "orb",
	"triangle", "hover", "saucer", "cigar", "sphere", "entity",
}

// KeywordFlags holds one presence flag per entry of Keywords.
type KeywordFlags [len(Keywords)]bool

// KeywordColumn returns the table column id for a keyword, e.g. "kw_orb".
func KeywordColumn(term string) string {
	return "kw_" + term
}

// MatchKeywords reports, per keyword, whether it occurs as a case-insensitive
// substring of text. Flags are binary: repeated occurrences are not counted.
func MatchKeywords(text string) KeywordFlags {
	lower := strings.ToLower(text)
	var flags KeywordFlags
	for i, kw := range Keywords {
		flags[i] = strings.Contains(lower, kw)
	}
	return flags
}

// Has reports the flag for term. Unknown terms report false.
func (k KeywordFlags) Has(term string) bool {
	for i, kw := range Keywords {
		if kw == term {
			return k[i]
		}
	}
	return false
}
