package session

import (
	"time"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

type StartSessionRequest struct {
	CVID            kernel.CVID    `json:"cv_id"`
	OriginalPaperID kernel.PaperID `json:"original_paper_id"`
}

type StartSessionResponse struct {
	SessionID kernel.SessionID `json:"session_id"`
	Status    Status           `json:"status"`
	Reused    bool             `json:"reused"`
	Question  string           `json:"question"`
	Section   Section          `json:"section"`
	Done      bool             `json:"done"`
}

type TurnRequest struct {
	QuestionText string  `json:"question_text"`
	AnswerText   string  `json:"answer_text"`
	Section      Section `json:"section"`
}

type TurnResponse struct {
	Turn         *Turn   `json:"turn"`
	NextQuestion string  `json:"next_question"`
	Section      Section `json:"section"`
	Done         bool    `json:"done"`
}

type SessionResponse struct {
	ID              kernel.SessionID `json:"id"`
	CVID            kernel.CVID      `json:"cv_id"`
	OriginalPaperID kernel.PaperID   `json:"original_paper_id"`
	Status          Status           `json:"status"`
	FinalPaperID    *kernel.PaperID  `json:"final_paper_id,omitempty"`
	TurnCount       int              `json:"turn_count"`
	CreatedAt       time.Time        `json:"created_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

type FinalPaperResponse struct {
	ID        kernel.PaperID   `json:"id"`
	SessionID kernel.SessionID `json:"session_id"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type UpdatePaperRequest struct {
	Content string `json:"content"`
}

func ToSessionResponse(s *Session, turnCount int) *SessionResponse {
	return &SessionResponse{
		ID:              s.ID,
		CVID:            s.CVID,
		OriginalPaperID: s.OriginalPaperID,
		Status:          s.Status,
		FinalPaperID:    s.FinalPaperID,
		TurnCount:       turnCount,
		CreatedAt:       s.CreatedAt,
		CompletedAt:     s.CompletedAt,
	}
}

func ToFinalPaperResponse(p *FinalPaper) *FinalPaperResponse {
	return &FinalPaperResponse{
		ID:        p.ID,
		SessionID: p.SessionID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
