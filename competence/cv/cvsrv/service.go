package cvsrv

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/loresagaashi/cv-converter-agent/competence/cv"
	"github.com/loresagaashi/cv-converter-agent/competence/paper"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/llmx"
	"github.com/loresagaashi/cv-converter-agent/internal/pdftemplate"
	"github.com/loresagaashi/cv-converter-agent/pkg/fsx"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
	"github.com/loresagaashi/cv-converter-agent/pkg/logx"
)

const maxUploadSize = 10 * 1024 * 1024

var allowedFileTypes = map[string]bool{
	"pdf":  true,
	"docx": true,
}

// Service owns the CV lifecycle: upload, asynchronous processing and
// PDF export
type Service struct {
	repo       cv.Repository
	jobRepo    cv.JobRepository
	queue      cv.Queue
	paperRepo  paper.Repository
	fileSystem fsx.FileSystem
	completer  llmx.Completer
	projector  *pdftemplate.Projector
	renderer   pdftemplate.Renderer
}

func NewService(
	repo cv.Repository,
	jobRepo cv.JobRepository,
	queue cv.Queue,
	paperRepo paper.Repository,
	fileSystem fsx.FileSystem,
	completer llmx.Completer,
	projector *pdftemplate.Projector,
	renderer pdftemplate.Renderer,
) *Service {
	return &Service{
		repo:       repo,
		jobRepo:    jobRepo,
		queue:      queue,
		paperRepo:  paperRepo,
		fileSystem: fileSystem,
		completer:  completer,
		projector:  projector,
		renderer:   renderer,
	}
}

// UploadAndProcess stores the uploaded file, creates a processing job and
// queues it. Processing itself happens on the worker pool; the caller
// polls the job status endpoint.
func (s *Service) UploadAndProcess(ctx context.Context, userID kernel.UserID, fileName string, fileData []byte) (*cv.UploadAcceptedResponse, error) {
	if len(fileData) > maxUploadSize {
		return nil, cv.ErrFileTooLarge().WithDetail("max_bytes", maxUploadSize)
	}

	fileType := fileTypeFromName(fileName)
	if !allowedFileTypes[fileType] {
		return nil, cv.ErrInvalidFileType().WithDetail("file_name", fileName)
	}

	filePath := s.fileSystem.Join("cvs", userID.String(), uuid.NewString()+"."+fileType)
	if err := s.fileSystem.WriteFile(ctx, filePath, fileData); err != nil {
		return nil, cv.ErrUploadFailed().WithDetails(map[string]any{
			"file_name": fileName,
			"error":     err.Error(),
		})
	}

	job := &cv.ProcessingJob{
		ID:          kernel.NewJobID(uuid.NewString()),
		UserID:      userID,
		Status:      cv.JobStatusPending,
		FilePath:    filePath,
		FileName:    fileName,
		FileType:    fileType,
		MaxAttempts: 3,
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, cv.ErrStoreFailed().WithDetail("file_name", fileName)
	}

	if err := s.queue.Enqueue(ctx, job.ID); err != nil {
		job.MarkAsFailed("failed to enqueue processing job", map[string]any{"error": err.Error()})
		if updateErr := s.jobRepo.Update(ctx, job); updateErr != nil {
			logx.Errorf("Failed to persist enqueue failure for job %s: %v", job.ID, updateErr)
		}
		return nil, cv.ErrProcessingFailed().WithDetail("job_id", job.ID)
	}

	logx.Infof("Queued CV processing job %s for user %s (%s)", job.ID, userID, fileName)

	return &cv.UploadAcceptedResponse{
		JobID:     job.ID,
		Status:    job.Status,
		Message:   "CV accepted for processing",
		StatusURL: fmt.Sprintf("/api/cvs/jobs/%s", job.ID),
	}, nil
}

// GetCV retrieves one CV
func (s *Service) GetCV(ctx context.Context, id kernel.CVID) (*cv.CV, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, cv.ErrCVNotFound().WithDetail("cv_id", id)
	}
	return record, nil
}

// GetText returns the extracted plain text of a processed CV
func (s *Service) GetText(ctx context.Context, id kernel.CVID) (*cv.CVTextResponse, error) {
	record, err := s.GetCV(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.IsProcessed() {
		return nil, cv.ErrNotProcessed().WithDetail("cv_id", id)
	}
	return &cv.CVTextResponse{ID: record.ID, Text: record.ExtractedText}, nil
}

// Preview regenerates the competence summary from the extracted text
// without persisting it, so callers can inspect the output before
// overwriting the stored paper
func (s *Service) Preview(ctx context.Context, id kernel.CVID) (*cv.PreviewResponse, error) {
	record, err := s.GetCV(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.HasText() {
		return nil, cv.ErrNotProcessed().WithDetail("cv_id", id)
	}

	content := cvstruct.CompetenceSummary(ctx, s.completer, record.ExtractedText)
	return &cv.PreviewResponse{ID: record.ID, Content: content}, nil
}

// ListCVs lists a user's CVs with pagination
func (s *Service) ListCVs(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[cv.CV], error) {
	page, err := s.repo.FindByUser(ctx, userID, opts)
	if err != nil {
		return nil, cv.ErrRegistry.NewWithCause(cv.CodeNotFound, err).WithDetail("user_id", userID)
	}
	return page, nil
}

// DeleteCV removes the CV record and its stored file
func (s *Service) DeleteCV(ctx context.Context, id kernel.CVID) error {
	record, err := s.GetCV(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return cv.ErrRegistry.NewWithCause(cv.CodeStoreFailed, err).WithDetail("cv_id", id)
	}
	if err := s.fileSystem.DeleteFile(ctx, record.FilePath); err != nil {
		logx.Warnf("Failed to delete stored file %s for cv %s: %v", record.FilePath, id, err)
	}
	return nil
}

// GetJob returns the processing state of one job
func (s *Service) GetJob(ctx context.Context, id kernel.JobID) (*cv.ProcessingJob, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, cv.ErrJobNotFound().WithDetail("job_id", id)
	}
	return job, nil
}

// ListJobs lists a user's processing jobs
func (s *Service) ListJobs(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[cv.ProcessingJob], error) {
	page, err := s.jobRepo.FindByUser(ctx, userID, opts)
	if err != nil {
		return nil, cv.ErrRegistry.NewWithCause(cv.CodeJobNotFound, err).WithDetail("user_id", userID)
	}
	return page, nil
}

// ExportPDF renders a processed CV through the external template service
func (s *Service) ExportPDF(ctx context.Context, id kernel.CVID) ([]byte, error) {
	record, err := s.GetCV(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.IsProcessed() {
		return nil, cv.ErrNotProcessed().WithDetail("cv_id", id)
	}

	fields := s.projector.Project(record.Structured)
	pdf, err := s.renderer.Render(ctx, fields)
	if err != nil {
		return nil, paper.ErrExportFailed().WithDetails(map[string]any{
			"cv_id": id,
			"error": err.Error(),
		})
	}
	return pdf, nil
}

func fileTypeFromName(fileName string) string {
	parts := strings.Split(fileName, ".")
	if len(parts) < 2 {
		return ""
	}
	return strings.ToLower(parts[len(parts)-1])
}
