package cv

import (
	"time"

	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusFailed     Status = "failed"
)

// CV is one uploaded candidate document together with everything derived
// from it during processing
type CV struct {
	ID     kernel.CVID   `db:"id" json:"id"`
	UserID kernel.UserID `db:"user_id" json:"user_id"`

	Status Status `db:"status" json:"status"`

	// File metadata
	FileName string `db:"file_name" json:"file_name"`
	FileType string `db:"file_type" json:"file_type"`
	FilePath string `db:"file_path" json:"file_path"`
	FileSize int64  `db:"file_size" json:"file_size"`

	// Derived content, filled by the processing pipeline
	ExtractedText string                `db:"extracted_text" json:"extracted_text,omitempty"`
	Structured    cvstruct.StructuredCv `db:"structured" json:"structured"`
	SummaryText   string                `db:"summary_text" json:"summary_text,omitempty"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}

// MarkProcessing transitions the CV into the pipeline
func (c *CV) MarkProcessing() {
	c.Status = StatusProcessing
}

// MarkProcessed records the pipeline's output on the CV
func (c *CV) MarkProcessed(text string, structured cvstruct.StructuredCv, summary string) {
	now := time.Now()
	c.Status = StatusProcessed
	c.ExtractedText = text
	c.Structured = structured
	c.SummaryText = summary
	c.ProcessedAt = &now
}

// MarkFailed leaves the CV in a retryable failed state
func (c *CV) MarkFailed() {
	c.Status = StatusFailed
}

// IsProcessed checks whether derived content is available
func (c *CV) IsProcessed() bool {
	return c.Status == StatusProcessed
}

// HasText checks whether extraction produced any usable text
func (c *CV) HasText() bool {
	return c.ExtractedText != ""
}
