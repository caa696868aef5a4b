package sessioninfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// PostgresFinalPaperRepository implements session.FinalPaperRepository.
// One final paper per session; Upsert keeps regeneration idempotent.
type PostgresFinalPaperRepository struct {
	db *sqlx.DB
}

func NewPostgresFinalPaperRepository(db *sqlx.DB) *PostgresFinalPaperRepository {
	return &PostgresFinalPaperRepository{db: db}
}

type dbFinalPaper struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toDomainFinalPaper(row *dbFinalPaper) *session.FinalPaper {
	return &session.FinalPaper{
		ID:        kernel.NewPaperID(row.ID),
		SessionID: kernel.NewSessionID(row.SessionID),
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (r *PostgresFinalPaperRepository) Upsert(ctx context.Context, paper *session.FinalPaper) error {
	query := `
		INSERT INTO final_papers (id, session_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		paper.ID.String(), paper.SessionID.String(), paper.Content,
		paper.CreatedAt, paper.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting final paper: %w", err)
	}
	return nil
}

func (r *PostgresFinalPaperRepository) GetBySession(ctx context.Context, sessionID kernel.SessionID) (*session.FinalPaper, error) {
	var row dbFinalPaper
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM final_papers WHERE session_id = $1`, sessionID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("querying final paper: %w", err)
	}
	return toDomainFinalPaper(&row), nil
}

func (r *PostgresFinalPaperRepository) UpdateContent(ctx context.Context, id kernel.PaperID, content string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE final_papers SET content = $2, updated_at = $3 WHERE id = $1`,
		id.String(), content, time.Now())
	if err != nil {
		return fmt.Errorf("updating final paper: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
