package sessionsrv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/loresagaashi/cv-converter-agent/competence/cv"
	"github.com/loresagaashi/cv-converter-agent/competence/paper"
	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/loresagaashi/cv-converter-agent/pkg/auth"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionRepo struct {
	open    *session.Session
	created []*session.Session
	updated []*session.Session
}

func (r *stubSessionRepo) Create(ctx context.Context, s *session.Session) error {
	r.created = append(r.created, s)
	return nil
}

func (r *stubSessionRepo) Update(ctx context.Context, s *session.Session) error {
	r.updated = append(r.updated, s)
	return nil
}

func (r *stubSessionRepo) GetByID(ctx context.Context, id kernel.SessionID) (*session.Session, error) {
	if r.open != nil && r.open.ID == id {
		return r.open, nil
	}
	return nil, errors.New("not found")
}

func (r *stubSessionRepo) GetOpenByCVAndPaper(ctx context.Context, cvID kernel.CVID, paperID kernel.PaperID) (*session.Session, error) {
	if r.open != nil && r.open.CVID == cvID && r.open.OriginalPaperID == paperID {
		return r.open, nil
	}
	return nil, errors.New("not found")
}

func (r *stubSessionRepo) ListByUser(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[session.Session], error) {
	return &kernel.Paginated[session.Session]{}, nil
}

func (r *stubSessionRepo) Delete(ctx context.Context, id kernel.SessionID) error { return nil }

type stubTurnStore struct {
	turns []session.Turn
}

func (s *stubTurnStore) Append(ctx context.Context, sessionID kernel.SessionID, section session.Section, phase session.Phase, questionText, answerText string, verdict session.Verdict) (*session.Turn, error) {
	turn := session.Turn{
		SessionID:    sessionID,
		Section:      section,
		Phase:        phase,
		OrderIndex:   len(s.turns) + 1,
		QuestionText: questionText,
		AnswerText:   answerText,
		Verdict:      verdict,
		CreatedAt:    time.Now(),
	}
	s.turns = append(s.turns, turn)
	return &turn, nil
}

func (s *stubTurnStore) ListBySession(ctx context.Context, sessionID kernel.SessionID) ([]session.Turn, error) {
	return s.turns, nil
}

type stubFinalPaperRepo struct{}

func (r *stubFinalPaperRepo) Upsert(ctx context.Context, p *session.FinalPaper) error { return nil }
func (r *stubFinalPaperRepo) GetBySession(ctx context.Context, sessionID kernel.SessionID) (*session.FinalPaper, error) {
	return nil, errors.New("not found")
}
func (r *stubFinalPaperRepo) UpdateContent(ctx context.Context, id kernel.PaperID, content string) error {
	return nil
}

type stubCVRepo struct {
	cvs map[kernel.CVID]*cv.CV
}

func (r *stubCVRepo) Save(ctx context.Context, record *cv.CV) error   { return nil }
func (r *stubCVRepo) Update(ctx context.Context, record *cv.CV) error { return nil }
func (r *stubCVRepo) FindByID(ctx context.Context, id kernel.CVID) (*cv.CV, error) {
	if record, ok := r.cvs[id]; ok {
		return record, nil
	}
	return nil, errors.New("not found")
}
func (r *stubCVRepo) FindByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[cv.CV], error) {
	return &kernel.Paginated[cv.CV]{}, nil
}
func (r *stubCVRepo) Delete(ctx context.Context, id kernel.CVID) error { return nil }

type stubPaperRepo struct {
	papers map[kernel.PaperID]*paper.OriginalPaper
}

func (r *stubPaperRepo) Save(ctx context.Context, record *paper.OriginalPaper) error   { return nil }
func (r *stubPaperRepo) Update(ctx context.Context, record *paper.OriginalPaper) error { return nil }
func (r *stubPaperRepo) FindByID(ctx context.Context, id kernel.PaperID) (*paper.OriginalPaper, error) {
	if record, ok := r.papers[id]; ok {
		return record, nil
	}
	return nil, errors.New("not found")
}
func (r *stubPaperRepo) FindByCV(ctx context.Context, cvID kernel.CVID) (*paper.OriginalPaper, error) {
	return nil, errors.New("not found")
}
func (r *stubPaperRepo) FindByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[paper.OriginalPaper], error) {
	return &kernel.Paginated[paper.OriginalPaper]{}, nil
}
func (r *stubPaperRepo) Delete(ctx context.Context, id kernel.PaperID) error { return nil }

type stubLock struct{}

func (l *stubLock) Acquire(ctx context.Context, sessionID kernel.SessionID, ttl time.Duration) (bool, error) {
	return true, nil
}
func (l *stubLock) Release(ctx context.Context, sessionID kernel.SessionID) error { return nil }

type stubClassifier struct{}

func (c *stubClassifier) Classify(ctx context.Context, questionText, answerText string, section session.Section) session.Verdict {
	return session.Verdict{Status: session.StatusConfirmed, Confidence: session.ConfidenceHigh}
}

type startFixture struct {
	service  *Service
	sessions *stubSessionRepo
	owner    kernel.UserID
	cvID     kernel.CVID
	paperID  kernel.PaperID
}

func newStartFixture() *startFixture {
	owner := kernel.NewUserID("owner-1")
	cvID := kernel.NewCVID("cv-1")
	paperID := kernel.NewPaperID("paper-1")

	sessions := &stubSessionRepo{}
	service := NewService(
		sessions,
		&stubTurnStore{},
		&stubFinalPaperRepo{},
		&stubCVRepo{cvs: map[kernel.CVID]*cv.CV{
			cvID: {ID: cvID, UserID: owner},
		}},
		&stubPaperRepo{papers: map[kernel.PaperID]*paper.OriginalPaper{
			paperID: {ID: paperID, UserID: owner, CVID: cvID},
		}},
		&stubLock{},
		newTestEngine(&stubGenerator{}),
		&stubClassifier{},
	)
	return &startFixture{
		service:  service,
		sessions: sessions,
		owner:    owner,
		cvID:     cvID,
		paperID:  paperID,
	}
}

func TestStartSessionCreatesPendingSession(t *testing.T) {
	f := newStartFixture()
	actor := auth.AuthContext{UserID: f.owner}

	response, err := f.service.StartSession(context.Background(),
		actor, session.StartSessionRequest{CVID: f.cvID, OriginalPaperID: f.paperID})

	require.NoError(t, err)
	assert.False(t, response.Reused)
	assert.Equal(t, session.StatusPending, response.Status)
	assert.NotEmpty(t, response.Question)
	require.Len(t, f.sessions.created, 1)
	assert.Equal(t, f.owner, f.sessions.created[0].UserID)
}

func TestStartSessionRejectsForeignCV(t *testing.T) {
	f := newStartFixture()
	actor := auth.AuthContext{UserID: kernel.NewUserID("intruder")}

	_, err := f.service.StartSession(context.Background(),
		actor, session.StartSessionRequest{CVID: f.cvID, OriginalPaperID: f.paperID})

	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrAccessDenied())
	assert.Empty(t, f.sessions.created)
}

func TestStartSessionRejectsUnknownCV(t *testing.T) {
	f := newStartFixture()
	actor := auth.AuthContext{UserID: f.owner}

	_, err := f.service.StartSession(context.Background(),
		actor, session.StartSessionRequest{
			CVID:            kernel.NewCVID("missing"),
			OriginalPaperID: f.paperID,
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, cv.ErrCVNotFound())
	assert.Empty(t, f.sessions.created)
}

func TestStartSessionRejectsPaperFromAnotherCV(t *testing.T) {
	f := newStartFixture()
	actor := auth.AuthContext{UserID: f.owner}

	otherCV := kernel.NewCVID("cv-2")
	cvRepo := f.service.cvs.(*stubCVRepo)
	cvRepo.cvs[otherCV] = &cv.CV{ID: otherCV, UserID: f.owner}

	_, err := f.service.StartSession(context.Background(),
		actor, session.StartSessionRequest{CVID: otherCV, OriginalPaperID: f.paperID})

	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrPaperMismatch())
	assert.Empty(t, f.sessions.created)
}

func TestStartSessionAllowsAdminOnForeignCV(t *testing.T) {
	f := newStartFixture()
	actor := auth.AuthContext{UserID: kernel.NewUserID("admin-1"), IsAdmin: true}

	response, err := f.service.StartSession(context.Background(),
		actor, session.StartSessionRequest{CVID: f.cvID, OriginalPaperID: f.paperID})

	require.NoError(t, err)
	require.Len(t, f.sessions.created, 1)
	// the session stays with the CV owner, who keeps access to it
	assert.Equal(t, f.owner, f.sessions.created[0].UserID)
	assert.NotEmpty(t, response.Question)
}

func TestStartSessionPromotesReusedPendingSession(t *testing.T) {
	f := newStartFixture()
	actor := auth.AuthContext{UserID: f.owner}
	f.sessions.open = &session.Session{
		ID:              kernel.NewSessionID("sess-1"),
		UserID:          f.owner,
		CVID:            f.cvID,
		OriginalPaperID: f.paperID,
		Status:          session.StatusPending,
		CreatedAt:       time.Now(),
	}

	response, err := f.service.StartSession(context.Background(),
		actor, session.StartSessionRequest{CVID: f.cvID, OriginalPaperID: f.paperID})

	require.NoError(t, err)
	assert.True(t, response.Reused)
	assert.Equal(t, kernel.NewSessionID("sess-1"), response.SessionID)
	assert.Equal(t, session.StatusInProgress, response.Status)
	require.Len(t, f.sessions.updated, 1)
	assert.Equal(t, session.StatusInProgress, f.sessions.updated[0].Status)
	assert.Empty(t, f.sessions.created)
}

func TestStartSessionReusesInProgressWithoutUpdate(t *testing.T) {
	f := newStartFixture()
	actor := auth.AuthContext{UserID: f.owner}
	f.sessions.open = &session.Session{
		ID:              kernel.NewSessionID("sess-2"),
		UserID:          f.owner,
		CVID:            f.cvID,
		OriginalPaperID: f.paperID,
		Status:          session.StatusInProgress,
		CreatedAt:       time.Now(),
	}

	response, err := f.service.StartSession(context.Background(),
		actor, session.StartSessionRequest{CVID: f.cvID, OriginalPaperID: f.paperID})

	require.NoError(t, err)
	assert.True(t, response.Reused)
	assert.Equal(t, session.StatusInProgress, response.Status)
	assert.Empty(t, f.sessions.updated)
}
