package session

import (
	"context"
	"time"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

type Repository interface {
	// Create creates a new session
	Create(ctx context.Context, s *Session) error

	// Update persists session status changes (completion, start)
	Update(ctx context.Context, s *Session) error

	// GetByID retrieves a session by ID
	GetByID(ctx context.Context, id kernel.SessionID) (*Session, error)

	// GetOpenByCVAndPaper returns the non-completed session for a
	// (cv, paper) pair if one exists
	GetOpenByCVAndPaper(ctx context.Context, cvID kernel.CVID, paperID kernel.PaperID) (*Session, error)

	// ListByUser retrieves sessions for a user with pagination
	ListByUser(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[Session], error)

	// Delete removes a session; turns cascade with it
	Delete(ctx context.Context, id kernel.SessionID) error
}

// TurnStore is the append-only turn log. Turns are never updated or
// deleted individually; they cascade with session deletion only.
type TurnStore interface {
	// Append stores a turn, assigning the next gapless order index
	// (max existing + 1, starting at 1)
	Append(ctx context.Context, sessionID kernel.SessionID, section Section, phase Phase, questionText, answerText string, verdict Verdict) (*Turn, error)

	// ListBySession returns all turns ordered by order index
	ListBySession(ctx context.Context, sessionID kernel.SessionID) ([]Turn, error)
}

type FinalPaperRepository interface {
	// Upsert creates or overwrites the session's final paper (one-to-one)
	Upsert(ctx context.Context, paper *FinalPaper) error

	// GetBySession retrieves the final paper for a session
	GetBySession(ctx context.Context, sessionID kernel.SessionID) (*FinalPaper, error)

	// UpdateContent applies a manual text edit
	UpdateContent(ctx context.Context, id kernel.PaperID, content string) error
}

// Lock serializes turn processing per session: exactly one in-flight
// "next question" request per session at a time
type Lock interface {
	Acquire(ctx context.Context, sessionID kernel.SessionID, ttl time.Duration) (bool, error)
	Release(ctx context.Context, sessionID kernel.SessionID) error
}

// AnswerClassifier turns one free-text answer into a structured verdict.
// Implementations never fail: upstream errors degrade to a heuristic.
type AnswerClassifier interface {
	Classify(ctx context.Context, questionText, answerText string, section Section) Verdict
}

// NextQuestion is what the question generator proposes for the next turn
type NextQuestion struct {
	Question        string  `json:"question"`
	Section         Section `json:"section"`
	CompleteSection bool    `json:"complete_section"`
	Done            bool    `json:"done"`
}

// QuestionGenerator produces the next spoken question from the LLM.
// The engine treats the output as a proposal and applies its own
// guardrails before emitting it.
type QuestionGenerator interface {
	NextQuestion(ctx context.Context, history []Turn, section Section) (NextQuestion, error)
}
