package session

import (
	"testing"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
	"github.com/stretchr/testify/assert"
)

func TestIsCompletionSignal(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		expected bool
	}{
		{"bare no", "no", true},
		{"no with punctuation", "No.", true},
		{"nope with exclamation", "nope!", true},
		{"nothing else", "nothing else", true},
		{"that's all", "that's all", true},
		{"that's all with trailing words", "that's all, thanks", true},
		{"no more with trailing words", "no more questions", true},
		{"no additional", "no additional info", true},
		{"mixed case", "NOTHING ELSE", true},
		{"substantive answer starting with no", "no, but they also know Rust", false},
		{"substantive answer", "they know Go and Python", false},
		{"empty answer", "", false},
		{"whitespace only", "   ", false},
		{"negation inside sentence", "I do not think they know Scala", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCompletionSignal(tt.answer))
		})
	}
}

func TestSessionComplete(t *testing.T) {
	s := &Session{Status: StatusInProgress}
	paperID := kernel.NewPaperID("paper-1")

	s.Complete(paperID)

	assert.Equal(t, StatusCompleted, s.Status)
	assert.True(t, s.IsCompleted())
	assert.NotNil(t, s.CompletedAt)
	assert.Equal(t, &paperID, s.FinalPaperID)
}
