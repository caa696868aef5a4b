package sessioninfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// PostgresTurnStore implements session.TurnStore on PostgreSQL. The store
// is strictly append-only: turns are never updated or deleted while the
// session lives, and order_index stays gapless because assignment happens
// inside the inserting transaction.
type PostgresTurnStore struct {
	db *sqlx.DB
}

func NewPostgresTurnStore(db *sqlx.DB) *PostgresTurnStore {
	return &PostgresTurnStore{db: db}
}

type dbTurn struct {
	ID           string    `db:"id"`
	SessionID    string    `db:"session_id"`
	Section      string    `db:"section"`
	Phase        string    `db:"phase"`
	OrderIndex   int       `db:"order_index"`
	QuestionText string    `db:"question_text"`
	AnswerText   string    `db:"answer_text"`
	Verdict      []byte    `db:"verdict"`
	CreatedAt    time.Time `db:"created_at"`
}

func toDomainTurn(row *dbTurn) (*session.Turn, error) {
	var verdict session.Verdict
	if len(row.Verdict) > 0 {
		if err := json.Unmarshal(row.Verdict, &verdict); err != nil {
			return nil, fmt.Errorf("unmarshaling verdict: %w", err)
		}
	}
	return &session.Turn{
		ID:           kernel.NewTurnID(row.ID),
		SessionID:    kernel.NewSessionID(row.SessionID),
		Section:      session.Section(row.Section),
		Phase:        session.Phase(row.Phase),
		OrderIndex:   row.OrderIndex,
		QuestionText: row.QuestionText,
		AnswerText:   row.AnswerText,
		Verdict:      verdict,
		CreatedAt:    row.CreatedAt,
	}, nil
}

func (s *PostgresTurnStore) Append(
	ctx context.Context,
	sessionID kernel.SessionID,
	section session.Section,
	phase session.Phase,
	questionText, answerText string,
	verdict session.Verdict,
) (*session.Turn, error) {
	verdictJSON, err := json.Marshal(verdict)
	if err != nil {
		return nil, fmt.Errorf("marshaling verdict: %w", err)
	}

	turn := &session.Turn{
		ID:           kernel.NewTurnID(uuid.NewString()),
		SessionID:    sessionID,
		Section:      section,
		Phase:        phase,
		QuestionText: questionText,
		AnswerText:   answerText,
		Verdict:      verdict,
		CreatedAt:    time.Now(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, &turn.OrderIndex, `
		SELECT COALESCE(MAX(order_index), 0) + 1
		FROM turns WHERE session_id = $1`,
		sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("assigning order index: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO turns (
			id, session_id, section, phase, order_index,
			question_text, answer_text, verdict, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		turn.ID.String(), sessionID.String(), string(section), string(phase),
		turn.OrderIndex, questionText, answerText, verdictJSON, turn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting turn: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing turn: %w", err)
	}
	return turn, nil
}

func (s *PostgresTurnStore) ListBySession(ctx context.Context, sessionID kernel.SessionID) ([]session.Turn, error) {
	var rows []dbTurn
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM turns
		WHERE session_id = $1
		ORDER BY order_index ASC`,
		sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}

	turns := make([]session.Turn, 0, len(rows))
	for i := range rows {
		turn, err := toDomainTurn(&rows[i])
		if err != nil {
			return nil, err
		}
		turns = append(turns, *turn)
	}
	return turns, nil
}
