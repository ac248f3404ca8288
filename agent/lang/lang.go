// Package lang classifies short user inputs as Ukrainian or English.
//
// This is a script-range heuristic, not a language identifier: any Cyrillic
// character classifies the text as Ukrainian, otherwise it falls through to
// English. Non-Cyrillic, non-Latin inputs are unclassified and take the
// English branch.
package lang

import "regexp"

type Language string

const (
	UK Language = "uk"
	EN Language = "en"
)

var (
	cyrillicPattern = regexp.MustCompile(`[а-щыьэюяіїєґА-ЩЫЬЭЮЯІЇЄҐ]`)
	latinPattern    = regexp.MustCompile(`[A-Za-z]`)
)

// Detect returns UK when the text contains Cyrillic characters, EN otherwise.
func Detect(text string) Language {
	if cyrillicPattern.MatchString(text) {
		return UK
	}
	return EN
}

// IsEnglish reports whether the text is plausibly English: it contains Latin
// letters and no Cyrillic ones.
func IsEnglish(text string) bool {
	return !cyrillicPattern.MatchString(text) && latinPattern.MatchString(text)
}

// Pick selects the variant matching the given language tag. An empty or
// unknown tag defaults to English.
func Pick(english, ukrainian string, l Language) string {
	if l == UK {
		return ukrainian
	}
	return english
}
