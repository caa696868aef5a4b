package speech

import (
	"strings"
)

// stopwords per language code; detection counts whole-word hits and picks
// the language with the most. Short or ambiguous answers default to
// English since the interview itself is conducted in English.
var stopwords = map[string][]string{
	"en": {"the", "and", "is", "are", "was", "they", "have", "has", "not", "with", "that", "this", "yes", "no"},
	"de": {"der", "die", "das", "und", "ist", "sind", "nicht", "mit", "ein", "eine", "ja", "nein", "haben"},
	"fr": {"le", "la", "les", "et", "est", "sont", "pas", "avec", "une", "oui", "non", "ils"},
	"es": {"el", "la", "los", "las", "es", "son", "no", "con", "una", "que", "ellos", "tiene"},
	"it": {"il", "la", "gli", "e", "sono", "non", "con", "una", "che", "loro", "hanno"},
}

// DetectLanguage guesses the language code of a transcription
func DetectLanguage(text string) string {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return "en"
	}

	tokenSet := make(map[string]int, len(tokens))
	for _, token := range tokens {
		tokenSet[strings.Trim(token, ".,!?;:'\"")]++
	}

	best, bestScore := "en", 0
	for lang, words := range stopwords {
		score := 0
		for _, word := range words {
			score += tokenSet[word]
		}
		if score > bestScore || (score == bestScore && lang == "en") {
			best, bestScore = lang, score
		}
	}
	return best
}
