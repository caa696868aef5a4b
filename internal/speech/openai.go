package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Config holds the speech adapter settings. SupportedLanguage is the one
// language the interview accepts; answers detected in any other language
// are rejected before classification.
type Config struct {
	APIKey            string
	SupportedLanguage string
	Timeout           time.Duration
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:            apiKey,
		SupportedLanguage: "en",
		Timeout:           60 * time.Second,
	}
}

// OpenAISpeech implements both Transcriber and Synthesizer against the
// OpenAI audio endpoints
type OpenAISpeech struct {
	client openai.Client
	config Config
}

func NewOpenAISpeech(config Config) *OpenAISpeech {
	if config.SupportedLanguage == "" {
		config.SupportedLanguage = "en"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	return &OpenAISpeech{
		client: openai.NewClient(option.WithAPIKey(config.APIKey)),
		config: config,
	}
}

// Transcribe converts one recorded answer to text and verifies it is in
// the supported language
func (s *OpenAISpeech) Transcribe(ctx context.Context, audio []byte, filename string) (*Transcription, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	result, err := s.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(audio), filename, "application/octet-stream"),
	})
	if err != nil {
		return nil, fmt.Errorf("transcribing audio: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	language := DetectLanguage(text)
	if language != s.config.SupportedLanguage {
		return nil, fmt.Errorf("%w: detected %q, expected %q",
			ErrUnsupportedLanguage, language, s.config.SupportedLanguage)
	}

	return &Transcription{Text: text, Language: language}, nil
}

// Synthesize renders a question as spoken audio
func (s *OpenAISpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModelTTS1,
		Voice: openai.AudioSpeechNewParamsVoiceAlloy,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized audio: %w", err)
	}
	return audio, nil
}
