package paper

import (
	"time"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

type PaperResponse struct {
	ID        kernel.PaperID `json:"id"`
	CVID      kernel.CVID    `json:"cv_id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type UpdatePaperRequest struct {
	Content string `json:"content"`
}

func ToPaperResponse(p *OriginalPaper) *PaperResponse {
	return &PaperResponse{
		ID:        p.ID,
		CVID:      p.CVID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
