package cv

import (
	"time"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

type ProcessingStep string

const (
	StepExtracting  ProcessingStep = "extracting"
	StepStructuring ProcessingStep = "structuring"
	StepSummarizing ProcessingStep = "summarizing"
	StepSaving      ProcessingStep = "saving"
)

// ProcessingJob tracks one asynchronous CV processing run through the
// queue, including its retry bookkeeping
type ProcessingJob struct {
	ID     kernel.JobID  `db:"id" json:"id"`
	UserID kernel.UserID `db:"user_id" json:"user_id"`
	CVID   *kernel.CVID  `db:"cv_id" json:"cv_id,omitempty"`

	Status   JobStatus `db:"status" json:"status"`
	FilePath string    `db:"file_path" json:"file_path"`
	FileName string    `db:"file_name" json:"file_name"`
	FileType string    `db:"file_type" json:"file_type"`

	AttemptCount int `db:"attempt_count" json:"attempt_count"`
	MaxAttempts  int `db:"max_attempts" json:"max_attempts"`

	ErrorMessage string         `db:"error_message" json:"error_message,omitempty"`
	ErrorDetails map[string]any `db:"error_details" json:"error_details,omitempty"`

	CurrentStep        *ProcessingStep `db:"current_step" json:"current_step,omitempty"`
	ProgressPercentage int             `db:"progress_percentage" json:"progress_percentage"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	StartedAt   *time.Time `db:"started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	FailedAt    *time.Time `db:"failed_at" json:"failed_at,omitempty"`
	NextRetryAt *time.Time `db:"next_retry_at" json:"next_retry_at,omitempty"`
}

// MarkAsProcessing starts an attempt
func (j *ProcessingJob) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.StartedAt = &now
	j.AttemptCount++
}

// MarkAsCompleted finishes the job and links the created CV
func (j *ProcessingJob) MarkAsCompleted(cvID kernel.CVID) {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CVID = &cvID
	j.CompletedAt = &now
	j.ProgressPercentage = 100
	j.CurrentStep = nil
}

// MarkAsFailed records the failure; the job stays retryable until
// MaxAttempts is exhausted
func (j *ProcessingJob) MarkAsFailed(message string, details map[string]any) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.ErrorMessage = message
	j.ErrorDetails = details
	j.FailedAt = &now
}

// UpdateProgress moves the job through its pipeline steps
func (j *ProcessingJob) UpdateProgress(step ProcessingStep, percentage int) {
	j.CurrentStep = &step
	j.ProgressPercentage = percentage
}

// CanRetry checks whether another attempt is allowed
func (j *ProcessingJob) CanRetry() bool {
	return j.AttemptCount < j.MaxAttempts
}

// NextRetryDelay backs off exponentially: 2^attempt minutes
func (j *ProcessingJob) NextRetryDelay() time.Duration {
	return time.Duration(1<<uint(j.AttemptCount)) * time.Minute
}

// ScheduleRetry resets the job to pending with the retry time recorded
func (j *ProcessingJob) ScheduleRetry() {
	retryAt := time.Now().Add(j.NextRetryDelay())
	j.Status = JobStatusPending
	j.NextRetryAt = &retryAt
}
