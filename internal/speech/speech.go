package speech

import (
	"context"
	"errors"
)

// ErrUnsupportedLanguage marks transcriptions in a language the interview
// does not support; match with errors.Is
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Transcription is the text form of one spoken answer
type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcriber converts recorded audio into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (*Transcription, error)
}

// Synthesizer converts a question into spoken audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
