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

// PostgresSessionRepository implements session.Repository on PostgreSQL
type PostgresSessionRepository struct {
	db *sqlx.DB
}

func NewPostgresSessionRepository(db *sqlx.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

type dbSession struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	CVID            string         `db:"cv_id"`
	OriginalPaperID string         `db:"original_paper_id"`
	Status          string         `db:"status"`
	FinalPaperID    sql.NullString `db:"final_paper_id"`
	CreatedAt       time.Time      `db:"created_at"`
	CompletedAt     *time.Time     `db:"completed_at"`
}

func toDBSession(s *session.Session) *dbSession {
	row := &dbSession{
		ID:              s.ID.String(),
		UserID:          s.UserID.String(),
		CVID:            s.CVID.String(),
		OriginalPaperID: s.OriginalPaperID.String(),
		Status:          string(s.Status),
		CreatedAt:       s.CreatedAt,
		CompletedAt:     s.CompletedAt,
	}
	if s.FinalPaperID != nil {
		row.FinalPaperID = sql.NullString{String: s.FinalPaperID.String(), Valid: true}
	}
	return row
}

func toDomainSession(row *dbSession) *session.Session {
	s := &session.Session{
		ID:              kernel.NewSessionID(row.ID),
		UserID:          kernel.NewUserID(row.UserID),
		CVID:            kernel.NewCVID(row.CVID),
		OriginalPaperID: kernel.NewPaperID(row.OriginalPaperID),
		Status:          session.Status(row.Status),
		CreatedAt:       row.CreatedAt,
		CompletedAt:     row.CompletedAt,
	}
	if row.FinalPaperID.Valid {
		paperID := kernel.NewPaperID(row.FinalPaperID.String)
		s.FinalPaperID = &paperID
	}
	return s
}

func (r *PostgresSessionRepository) Create(ctx context.Context, s *session.Session) error {
	row := toDBSession(s)

	query := `
		INSERT INTO sessions (
			id, user_id, cv_id, original_paper_id, status,
			final_paper_id, created_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.UserID, row.CVID, row.OriginalPaperID, row.Status,
		row.FinalPaperID, row.CreatedAt, row.CompletedAt)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepository) Update(ctx context.Context, s *session.Session) error {
	row := toDBSession(s)

	query := `
		UPDATE sessions SET
			status = $2, final_paper_id = $3, completed_at = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		row.ID, row.Status, row.FinalPaperID, row.CompletedAt)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresSessionRepository) GetByID(ctx context.Context, id kernel.SessionID) (*session.Session, error) {
	var row dbSession
	err := r.db.GetContext(ctx, &row, `SELECT * FROM sessions WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return toDomainSession(&row), nil
}

func (r *PostgresSessionRepository) GetOpenByCVAndPaper(ctx context.Context, cvID kernel.CVID, paperID kernel.PaperID) (*session.Session, error) {
	var row dbSession
	err := r.db.GetContext(ctx, &row, `
		SELECT * FROM sessions
		WHERE cv_id = $1 AND original_paper_id = $2 AND status != $3
		ORDER BY created_at DESC
		LIMIT 1`,
		cvID.String(), paperID.String(), string(session.StatusCompleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("querying open session: %w", err)
	}
	return toDomainSession(&row), nil
}

func (r *PostgresSessionRepository) ListByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[session.Session], error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM sessions WHERE user_id = $1`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	var rows []dbSession
	err = r.db.SelectContext(ctx, &rows, `
		SELECT * FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID.String(), opts.PageSize, (opts.Page-1)*opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}

	items := make([]session.Session, 0, len(rows))
	for i := range rows {
		items = append(items, *toDomainSession(&rows[i]))
	}

	return &kernel.Paginated[session.Session]{
		Items: items,
		Page:  kernel.Page{Number: opts.Page, Size: opts.PageSize, Total: total},
	}, nil
}

func (r *PostgresSessionRepository) Delete(ctx context.Context, id kernel.SessionID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
