package cvsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loresagaashi/cv-converter-agent/competence/cv"
	"github.com/loresagaashi/cv-converter-agent/competence/paper"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/internal/extract"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
	"github.com/loresagaashi/cv-converter-agent/pkg/logx"
)

// ProcessJob runs the full pipeline for one queued job: read the stored
// file, extract its text, structure and summarize it, persist the CV and
// its original competence paper. Called from the worker pool.
func (s *Service) ProcessJob(ctx context.Context, jobID kernel.JobID) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return cv.ErrJobNotFound().WithDetail("job_id", jobID)
	}
	if job.Status == cv.JobStatusCompleted {
		logx.Infof("Job %s already completed, skipping", jobID)
		return nil
	}

	job.MarkAsProcessing()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return cv.ErrRegistry.NewWithCause(cv.CodeStoreFailed, err).WithDetail("job_id", jobID)
	}

	if err := s.runPipeline(ctx, job); err != nil {
		return s.handleJobFailure(ctx, job, err)
	}
	return nil
}

func (s *Service) runPipeline(ctx context.Context, job *cv.ProcessingJob) error {
	job.UpdateProgress(cv.StepExtracting, 10)
	s.persistProgress(ctx, job)

	fileData, err := s.fileSystem.ReadFile(ctx, job.FilePath)
	if err != nil {
		return fmt.Errorf("reading stored file: %w", err)
	}

	text, err := extract.Text(fileData, job.FileType)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}

	job.UpdateProgress(cv.StepStructuring, 40)
	s.persistProgress(ctx, job)

	structured := cvstruct.StructureFromText(ctx, s.completer, text)

	job.UpdateProgress(cv.StepSummarizing, 65)
	s.persistProgress(ctx, job)

	summary := cvstruct.CompetenceSummary(ctx, s.completer, text)

	job.UpdateProgress(cv.StepSaving, 85)
	s.persistProgress(ctx, job)

	record := &cv.CV{
		ID:        kernel.NewCVID(uuid.NewString()),
		UserID:    job.UserID,
		Status:    cv.StatusUploaded,
		FileName:  job.FileName,
		FileType:  job.FileType,
		FilePath:  job.FilePath,
		FileSize:  int64(len(fileData)),
		CreatedAt: time.Now(),
	}
	record.MarkProcessed(text, structured, summary)
	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("saving cv: %w", err)
	}

	now := time.Now()
	original := &paper.OriginalPaper{
		ID:        kernel.NewPaperID(uuid.NewString()),
		UserID:    job.UserID,
		CVID:      record.ID,
		Content:   summary,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.paperRepo.Save(ctx, original); err != nil {
		return fmt.Errorf("saving original paper: %w", err)
	}

	job.MarkAsCompleted(record.ID)
	if err := s.jobRepo.Update(ctx, job); err != nil {
		logx.Errorf("Failed to mark job %s completed: %v", job.ID, err)
	}

	logx.Infof("Processed CV %s (job %s): %d chars extracted, paper %s created",
		record.ID, job.ID, len(text), original.ID)
	return nil
}

// handleJobFailure records the failure and schedules a delayed retry with
// exponential backoff while attempts remain
func (s *Service) handleJobFailure(ctx context.Context, job *cv.ProcessingJob, cause error) error {
	logx.Errorf("Job %s attempt %d failed: %v", job.ID, job.AttemptCount, cause)

	job.MarkAsFailed(cause.Error(), map[string]any{
		"attempt": job.AttemptCount,
		"step":    job.CurrentStep,
	})

	if job.CanRetry() {
		delay := job.NextRetryDelay()
		job.ScheduleRetry()
		if err := s.jobRepo.Update(ctx, job); err != nil {
			logx.Errorf("Failed to persist retry state for job %s: %v", job.ID, err)
		}
		if err := s.queue.EnqueueDelayed(ctx, job.ID, delay); err != nil {
			logx.Errorf("Failed to schedule retry for job %s: %v", job.ID, err)
		}
		logx.Infof("Job %s scheduled for retry in %s (attempt %d/%d)",
			job.ID, delay, job.AttemptCount, job.MaxAttempts)
		return nil
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		logx.Errorf("Failed to persist final failure for job %s: %v", job.ID, err)
	}
	return cv.ErrProcessingFailed().WithDetails(map[string]any{
		"job_id": job.ID,
		"error":  cause.Error(),
	})
}

func (s *Service) persistProgress(ctx context.Context, job *cv.ProcessingJob) {
	if err := s.jobRepo.Update(ctx, job); err != nil {
		logx.Warnf("Failed to persist progress for job %s: %v", job.ID, err)
	}
}
