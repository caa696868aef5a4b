package sessionsrv

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loresagaashi/cv-converter-agent/competence/cv"
	"github.com/loresagaashi/cv-converter-agent/competence/paper"
	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/loresagaashi/cv-converter-agent/pkg/auth"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
	"github.com/loresagaashi/cv-converter-agent/pkg/logx"
)

const turnLockTTL = 30 * time.Second

// Service orchestrates verification conversations: session lifecycle,
// turn processing and final paper generation
type Service struct {
	repo           session.Repository
	turnStore      session.TurnStore
	paperRepo      session.FinalPaperRepository
	cvs            cv.Repository
	originalPapers paper.Repository
	lock           session.Lock
	engine         *ConversationEngine
	classifier     session.AnswerClassifier
	aggregator     *PaperAggregator
}

func NewService(
	repo session.Repository,
	turnStore session.TurnStore,
	paperRepo session.FinalPaperRepository,
	cvs cv.Repository,
	originalPapers paper.Repository,
	lock session.Lock,
	engine *ConversationEngine,
	classifier session.AnswerClassifier,
) *Service {
	return &Service{
		repo:           repo,
		turnStore:      turnStore,
		paperRepo:      paperRepo,
		cvs:            cvs,
		originalPapers: originalPapers,
		lock:           lock,
		engine:         engine,
		classifier:     classifier,
		aggregator:     NewPaperAggregator(),
	}
}

// StartSession creates a verification session for a (cv, paper) pair,
// reusing any existing non-completed one. The actor must own the CV and
// the paper must have been generated from it.
func (s *Service) StartSession(ctx context.Context, actor auth.AuthContext, req session.StartSessionRequest) (*session.StartSessionResponse, error) {
	cvRecord, err := s.cvs.FindByID(ctx, req.CVID)
	if err != nil {
		return nil, cv.ErrCVNotFound().WithDetail("cv_id", req.CVID)
	}
	if !actor.CanAccess(cvRecord.UserID) {
		return nil, session.ErrAccessDenied().WithDetail("cv_id", req.CVID)
	}

	paperRecord, err := s.originalPapers.FindByID(ctx, req.OriginalPaperID)
	if err != nil {
		return nil, paper.ErrPaperNotFound().WithDetail("paper_id", req.OriginalPaperID)
	}
	if paperRecord.CVID != req.CVID {
		return nil, session.ErrPaperMismatch().
			WithDetail("cv_id", req.CVID).
			WithDetail("paper_id", req.OriginalPaperID)
	}

	existing, err := s.repo.GetOpenByCVAndPaper(ctx, req.CVID, req.OriginalPaperID)
	if err == nil && existing != nil {
		if existing.Status == session.StatusPending {
			existing.Start()
			if err := s.repo.Update(ctx, existing); err != nil {
				logx.Warnf("Failed to mark session %s in progress: %v", existing.ID, err)
			}
		}
		history, err := s.turnStore.ListBySession(ctx, existing.ID)
		if err != nil {
			return nil, session.ErrRegistry.NewWithCause(session.CodeSessionNotFound, err).
				WithDetail("session_id", existing.ID)
		}
		plan := s.engine.NextTurn(ctx, history, "")
		return &session.StartSessionResponse{
			SessionID: existing.ID,
			Status:    existing.Status,
			Reused:    true,
			Question:  plan.Question,
			Section:   plan.Section,
			Done:      plan.Done,
		}, nil
	}

	sess := &session.Session{
		ID:              kernel.NewSessionID(uuid.NewString()),
		UserID:          cvRecord.UserID,
		CVID:            req.CVID,
		OriginalPaperID: req.OriginalPaperID,
		Status:          session.StatusPending,
		CreatedAt:       time.Now(),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, session.ErrSessionCreateFailed().
			WithDetail("cv_id", req.CVID).
			WithDetails(map[string]any{"error": err.Error()})
	}

	plan := s.engine.NextTurn(ctx, nil, "")
	logx.Infof("Started session %s for cv %s", sess.ID, req.CVID)

	return &session.StartSessionResponse{
		SessionID: sess.ID,
		Status:    sess.Status,
		Question:  plan.Question,
		Section:   plan.Section,
		Done:      plan.Done,
	}, nil
}

// GetSession retrieves a session with its turn count
func (s *Service) GetSession(ctx context.Context, id kernel.SessionID) (*session.Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, session.ErrSessionNotFound().WithDetail("session_id", id)
	}
	return sess, nil
}

// ListTurns returns the ordered turn log of a session
func (s *Service) ListTurns(ctx context.Context, id kernel.SessionID) ([]session.Turn, error) {
	turns, err := s.turnStore.ListBySession(ctx, id)
	if err != nil {
		return nil, session.ErrRegistry.NewWithCause(session.CodeSessionNotFound, err).
			WithDetail("session_id", id)
	}
	return turns, nil
}

// NextQuestion re-derives the pending question without recording anything
func (s *Service) NextQuestion(ctx context.Context, id kernel.SessionID) (*TurnPlan, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsCompleted() {
		return nil, session.ErrSessionCompleted().WithDetail("session_id", id)
	}

	history, err := s.turnStore.ListBySession(ctx, id)
	if err != nil {
		return nil, session.ErrRegistry.NewWithCause(session.CodeSessionNotFound, err).
			WithDetail("session_id", id)
	}

	plan := s.engine.NextTurn(ctx, history, "")
	return &plan, nil
}

// ProcessTurn records one recruiter answer: classifies it, appends the
// turn and produces the next question. Turns are serialized per session
// through the lock; concurrent requests for the same session are rejected.
func (s *Service) ProcessTurn(ctx context.Context, id kernel.SessionID, req session.TurnRequest) (*session.TurnResponse, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsCompleted() {
		return nil, session.ErrSessionCompleted().WithDetail("session_id", id)
	}

	acquired, err := s.lock.Acquire(ctx, id, turnLockTTL)
	if err != nil || !acquired {
		return nil, session.ErrSessionBusy().WithDetail("session_id", id)
	}
	defer func() {
		if releaseErr := s.lock.Release(ctx, id); releaseErr != nil {
			logx.Warnf("Failed to release turn lock for session %s: %v", id, releaseErr)
		}
	}()

	history, err := s.turnStore.ListBySession(ctx, id)
	if err != nil {
		return nil, session.ErrRegistry.NewWithCause(session.CodeTurnAppendFailed, err).
			WithDetail("session_id", id)
	}

	verdict := s.classifier.Classify(ctx, req.QuestionText, req.AnswerText, req.Section)

	phase := session.PhaseValidation
	for _, t := range history {
		if t.Section == req.Section {
			phase = session.PhaseDiscovery
			break
		}
	}

	turn, err := s.turnStore.Append(ctx, id, req.Section, phase, req.QuestionText, req.AnswerText, verdict)
	if err != nil {
		return nil, session.ErrTurnAppendFailed().
			WithDetail("session_id", id).
			WithDetails(map[string]any{"error": err.Error()})
	}

	if sess.Status == session.StatusPending {
		sess.Start()
		if err := s.repo.Update(ctx, sess); err != nil {
			logx.Warnf("Failed to mark session %s in progress: %v", id, err)
		}
	}

	plan := s.engine.NextTurn(ctx, append(history, *turn), req.Section)

	return &session.TurnResponse{
		Turn:         turn,
		NextQuestion: plan.Question,
		Section:      plan.Section,
		Done:         plan.Done,
	}, nil
}

// GeneratePaper reduces the turn log into the final paper, persists it
// and completes the session. Rejected with NoContent when nothing
// confirmed survives filtering; the session then stays in progress.
func (s *Service) GeneratePaper(ctx context.Context, id kernel.SessionID) (*session.FinalPaperResponse, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsCompleted() {
		return nil, session.ErrSessionCompleted().WithDetail("session_id", id)
	}

	turns, err := s.turnStore.ListBySession(ctx, id)
	if err != nil {
		return nil, session.ErrRegistry.NewWithCause(session.CodeSessionNotFound, err).
			WithDetail("session_id", id)
	}

	content, err := s.aggregator.BuildContent(turns)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &session.FinalPaper{
		ID:        kernel.NewPaperID(uuid.NewString()),
		SessionID: id,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, getErr := s.paperRepo.GetBySession(ctx, id); getErr == nil && existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}

	if err := s.paperRepo.Upsert(ctx, record); err != nil {
		return nil, session.ErrRegistry.NewWithCause(session.CodeTurnAppendFailed, err).
			WithDetail("session_id", id)
	}

	sess.Complete(record.ID)
	if err := s.repo.Update(ctx, sess); err != nil {
		return nil, session.ErrRegistry.NewWithCause(session.CodeSessionNotFound, err).
			WithDetail("session_id", id)
	}

	logx.Infof("Generated final paper %s for session %s", record.ID, id)
	return session.ToFinalPaperResponse(record), nil
}

// GetFinalPaper retrieves the session's final paper
func (s *Service) GetFinalPaper(ctx context.Context, id kernel.SessionID) (*session.FinalPaperResponse, error) {
	record, err := s.paperRepo.GetBySession(ctx, id)
	if err != nil {
		return nil, session.ErrPaperNotFound().WithDetail("session_id", id)
	}
	return session.ToFinalPaperResponse(record), nil
}

// UpdateFinalPaper applies a manual text edit to the final paper. The
// edit persists until the next regeneration.
func (s *Service) UpdateFinalPaper(ctx context.Context, id kernel.SessionID, content string) (*session.FinalPaperResponse, error) {
	record, err := s.paperRepo.GetBySession(ctx, id)
	if err != nil {
		return nil, session.ErrPaperNotFound().WithDetail("session_id", id)
	}
	if err := s.paperRepo.UpdateContent(ctx, record.ID, content); err != nil {
		return nil, session.ErrRegistry.NewWithCause(session.CodePaperNotFound, err).
			WithDetail("paper_id", record.ID)
	}
	record.Content = content
	record.UpdatedAt = time.Now()
	return session.ToFinalPaperResponse(record), nil
}

// DeleteSession removes a session and its turn log
func (s *Service) DeleteSession(ctx context.Context, id kernel.SessionID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return session.ErrRegistry.NewWithCause(session.CodeSessionNotFound, err).
			WithDetail("session_id", id)
	}
	return nil
}

// ListSessions lists a user's sessions with pagination
func (s *Service) ListSessions(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[session.Session], error) {
	sessions, err := s.repo.ListByUser(ctx, userID, pagination)
	if err != nil {
		return nil, session.ErrRegistry.NewWithCause(session.CodeSessionNotFound, err).
			WithDetail("user_id", userID)
	}
	return sessions, nil
}
