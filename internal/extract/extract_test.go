package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mimeHint string
		expected string
	}{
		{"pdf magic bytes", []byte("%PDF-1.7 rest of file"), "", "pdf"},
		{"zip container is docx", []byte("PK\x03\x04rest"), "", "docx"},
		{"pdf mime hint", []byte("no magic here"), "application/pdf", "pdf"},
		{"short pdf hint", []byte("no magic here"), "pdf", "pdf"},
		{"docx mime hint", []byte("no magic here"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx"},
		{"short docx hint", []byte("no magic here"), "docx", "docx"},
		{"magic bytes win over hint", []byte("%PDF-1.4"), "docx", "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := DetectFormat(tt.data, tt.mimeHint)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDetectFormatRejectsUnknownPayloads(t *testing.T) {
	_, err := DetectFormat([]byte("plain text resume"), "text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTextRejectsUnknownPayloads(t *testing.T) {
	_, err := Text([]byte("plain text resume"), "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"crlf converted", "line one\r\nline two", "line one\nline two"},
		{"trailing whitespace stripped", "line one   \nline two\t", "line one\nline two"},
		{"blank runs collapsed", "a\n\n\n\nb", "a\n\nb"},
		{"surrounding whitespace trimmed", "\n\n  hello  \n\n", "hello"},
		{"empty input", "   \n\n  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}
