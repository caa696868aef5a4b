package paper

import (
	"context"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// Repository persists original papers
type Repository interface {
	Save(ctx context.Context, paper *OriginalPaper) error
	Update(ctx context.Context, paper *OriginalPaper) error
	FindByID(ctx context.Context, id kernel.PaperID) (*OriginalPaper, error)
	FindByCV(ctx context.Context, cvID kernel.CVID) (*OriginalPaper, error)
	FindByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[OriginalPaper], error)
	Delete(ctx context.Context, id kernel.PaperID) error
}
