package paper

import (
	"time"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// OriginalPaper is the competence summary generated from a processed CV.
// It is the draft the verification interview later confirms or corrects;
// the interview's outcome becomes a separate final paper.
type OriginalPaper struct {
	ID     kernel.PaperID `db:"id" json:"id"`
	UserID kernel.UserID  `db:"user_id" json:"user_id"`
	CVID   kernel.CVID    `db:"cv_id" json:"cv_id"`

	Content string `db:"content" json:"content"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UpdateContent replaces the paper text
func (p *OriginalPaper) UpdateContent(content string) {
	p.Content = content
	p.UpdatedAt = time.Now()
}
