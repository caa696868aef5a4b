package extract

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedFormat is returned when the payload is neither a PDF nor a DOCX
var ErrUnsupportedFormat = errors.New("unsupported file format")

var (
	pdfSignature = []byte("%PDF")
	zipSignature = []byte("PK\x03\x04")
)

// DetectFormat inspects magic bytes and returns "pdf" or "docx".
// The mime hint only breaks the tie for zip containers that are not DOCX named.
func DetectFormat(data []byte, mimeHint string) (string, error) {
	if bytes.HasPrefix(data, pdfSignature) {
		return "pdf", nil
	}
	if bytes.HasPrefix(data, zipSignature) {
		return "docx", nil
	}
	switch mimeHint {
	case "application/pdf", "pdf":
		return "pdf", nil
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx":
		return "docx", nil
	}
	return "", ErrUnsupportedFormat
}

// Text extracts plain text from a PDF or DOCX payload and normalizes it
func Text(data []byte, mimeHint string) (string, error) {
	format, err := DetectFormat(data, mimeHint)
	if err != nil {
		return "", err
	}

	var raw string
	switch format {
	case "pdf":
		raw, err = pdfText(data)
	case "docx":
		raw, err = docxText(data)
	}
	if err != nil {
		return "", err
	}

	return Normalize(raw), nil
}

func pdfText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		page, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		sb.WriteString(page)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTabOrBreak   = regexp.MustCompile(`<w:(tab|br)[^>]*/?>`)
	docxTag          = regexp.MustCompile(`<[^>]+>`)
)

func docxText(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTabOrBreak.ReplaceAllString(content, " ")
	content = docxTag.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "&amp;", "&")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	return content, nil
}

// Normalize strips trailing whitespace per line and collapses runs of blank
// lines into a single blank line
func Normalize(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
