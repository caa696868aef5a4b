package papersrv

import (
	"context"

	"github.com/loresagaashi/cv-converter-agent/competence/paper"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/internal/pdftemplate"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// Service exposes original paper reads, edits and PDF export
type Service struct {
	repo      paper.Repository
	projector *pdftemplate.Projector
	renderer  pdftemplate.Renderer
}

func NewService(repo paper.Repository, projector *pdftemplate.Projector, renderer pdftemplate.Renderer) *Service {
	return &Service{
		repo:      repo,
		projector: projector,
		renderer:  renderer,
	}
}

// GetPaper retrieves one original paper
func (s *Service) GetPaper(ctx context.Context, id kernel.PaperID) (*paper.OriginalPaper, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, paper.ErrPaperNotFound().WithDetail("paper_id", id)
	}
	return record, nil
}

// GetByCV retrieves the paper generated from a given CV
func (s *Service) GetByCV(ctx context.Context, cvID kernel.CVID) (*paper.OriginalPaper, error) {
	record, err := s.repo.FindByCV(ctx, cvID)
	if err != nil {
		return nil, paper.ErrPaperNotFound().WithDetail("cv_id", cvID)
	}
	return record, nil
}

// ListPapers lists a user's papers with pagination
func (s *Service) ListPapers(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[paper.OriginalPaper], error) {
	page, err := s.repo.FindByUser(ctx, userID, opts)
	if err != nil {
		return nil, paper.ErrRegistry.NewWithCause(paper.CodeNotFound, err).WithDetail("user_id", userID)
	}
	return page, nil
}

// UpdatePaper applies a manual content edit
func (s *Service) UpdatePaper(ctx context.Context, id kernel.PaperID, content string) (*paper.OriginalPaper, error) {
	record, err := s.GetPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	record.UpdateContent(content)
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, paper.ErrStoreFailed().WithDetail("paper_id", id)
	}
	return record, nil
}

// DeletePaper removes an original paper
func (s *Service) DeletePaper(ctx context.Context, id kernel.PaperID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return paper.ErrRegistry.NewWithCause(paper.CodeNotFound, err).WithDetail("paper_id", id)
	}
	return nil
}

// ExportPDF renders a paper through the external template service. The
// paper's free text fills the recommendation slot; the structured CV, if
// supplied, provides the rest of the template fields.
func (s *Service) ExportPDF(ctx context.Context, id kernel.PaperID, structured cvstruct.StructuredCv) ([]byte, error) {
	record, err := s.GetPaper(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := s.projector.Project(structured)
	fields.Recommendation = pdftemplate.Sanitize(pdftemplate.TruncateRecommendation(record.Content))

	pdf, err := s.renderer.Render(ctx, fields)
	if err != nil {
		return nil, paper.ErrExportFailed().WithDetails(map[string]any{
			"paper_id": id,
			"error":    err.Error(),
		})
	}
	return pdf, nil
}
