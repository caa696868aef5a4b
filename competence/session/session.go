package session

import (
	"time"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Session is one verification conversation tied to one CV and one
// original competence paper. At most one non-completed session exists
// per (cv, paper) pair; starting a session reuses it.
type Session struct {
	ID              kernel.SessionID `db:"id" json:"id"`
	UserID          kernel.UserID    `db:"user_id" json:"user_id"`
	CVID            kernel.CVID      `db:"cv_id" json:"cv_id"`
	OriginalPaperID kernel.PaperID   `db:"original_paper_id" json:"original_paper_id"`

	Status       Status            `db:"status" json:"status"`
	FinalPaperID *kernel.PaperID   `db:"final_paper_id" json:"final_paper_id,omitempty"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// IsCompleted reports whether the session has already been closed
func (s *Session) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// Complete transitions the session to completed. Must be called at most
// once; callers check IsCompleted first (write-once contract).
func (s *Session) Complete(finalPaperID kernel.PaperID) {
	now := time.Now()
	s.Status = StatusCompleted
	s.FinalPaperID = &finalPaperID
	s.CompletedAt = &now
}

// Start moves a pending session into in_progress
func (s *Session) Start() {
	if s.Status == StatusPending {
		s.Status = StatusInProgress
	}
}

// FinalPaper is the conversation-derived competence paper, one-to-one
// with its session. Regeneration overwrites content; manual edits persist
// until the next regeneration.
type FinalPaper struct {
	ID        kernel.PaperID   `db:"id" json:"id"`
	SessionID kernel.SessionID `db:"session_id" json:"session_id"`
	Content   string           `db:"content" json:"content"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}
