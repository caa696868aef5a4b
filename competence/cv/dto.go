package cv

import (
	"time"

	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// UploadAcceptedResponse is returned immediately on upload; processing
// continues asynchronously
type UploadAcceptedResponse struct {
	JobID     kernel.JobID `json:"job_id"`
	Status    JobStatus    `json:"status"`
	Message   string       `json:"message"`
	StatusURL string       `json:"status_url"`
}

type CVResponse struct {
	ID          kernel.CVID           `json:"id"`
	Status      Status                `json:"status"`
	FileName    string                `json:"file_name"`
	FileType    string                `json:"file_type"`
	FileSize    int64                 `json:"file_size"`
	Structured  cvstruct.StructuredCv `json:"structured"`
	SummaryText string                `json:"summary_text,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	ProcessedAt *time.Time            `json:"processed_at,omitempty"`
}

type CVTextResponse struct {
	ID   kernel.CVID `json:"id"`
	Text string      `json:"text"`
}

// PreviewResponse carries a freshly generated competence summary that has
// not been persisted
type PreviewResponse struct {
	ID      kernel.CVID `json:"id"`
	Content string      `json:"content"`
}

type JobStatusResponse struct {
	JobID       kernel.JobID    `json:"job_id"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	CurrentStep *ProcessingStep `json:"current_step,omitempty"`
	CVID        *kernel.CVID    `json:"cv_id,omitempty"`

	AttemptCount int        `json:"attempt_count,omitempty"`
	NextRetryAt  *time.Time `json:"next_retry_at,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
}

func ToCVResponse(c *CV) *CVResponse {
	return &CVResponse{
		ID:          c.ID,
		Status:      c.Status,
		FileName:    c.FileName,
		FileType:    c.FileType,
		FileSize:    c.FileSize,
		Structured:  c.Structured,
		SummaryText: c.SummaryText,
		CreatedAt:   c.CreatedAt,
		ProcessedAt: c.ProcessedAt,
	}
}

func ToJobStatusResponse(j *ProcessingJob) *JobStatusResponse {
	return &JobStatusResponse{
		JobID:        j.ID,
		Status:       j.Status,
		Progress:     j.ProgressPercentage,
		CurrentStep:  j.CurrentStep,
		CVID:         j.CVID,
		AttemptCount: j.AttemptCount,
		NextRetryAt:  j.NextRetryAt,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
		FailedAt:     j.FailedAt,
	}
}
