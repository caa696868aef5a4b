package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"english sentence", "yes, they have worked with the team and are very reliable", "en"},
		{"german sentence", "ja, die Kandidatin ist sehr gut und hat nicht viel Hilfe gebraucht", "de"},
		{"french sentence", "oui, ils sont compétents et le projet est terminé", "fr"},
		{"spanish sentence", "ellos son buenos y es una persona que trabaja bien", "es"},
		{"empty defaults to english", "", "en"},
		{"no stopword hits defaults to english", "Kubernetes Terraform PostgreSQL", "en"},
		{"punctuation stripped before matching", "Yes! They have, that is true.", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectLanguage(tt.text))
		})
	}
}

func TestDetectLanguageTiesPreferEnglish(t *testing.T) {
	// "no" scores for both English and Spanish
	assert.Equal(t, "en", DetectLanguage("no"))
}
