package paperinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/loresagaashi/cv-converter-agent/competence/paper"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// PostgresPaperRepository implements paper.Repository on PostgreSQL
type PostgresPaperRepository struct {
	db *sqlx.DB
}

func NewPostgresPaperRepository(db *sqlx.DB) *PostgresPaperRepository {
	return &PostgresPaperRepository{db: db}
}

type dbPaper struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CVID      string    `db:"cv_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toDomainPaper(row *dbPaper) *paper.OriginalPaper {
	return &paper.OriginalPaper{
		ID:        kernel.NewPaperID(row.ID),
		UserID:    kernel.NewUserID(row.UserID),
		CVID:      kernel.NewCVID(row.CVID),
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (r *PostgresPaperRepository) Save(ctx context.Context, p *paper.OriginalPaper) error {
	query := `
		INSERT INTO original_papers (id, user_id, cv_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID.String(), p.UserID.String(), p.CVID.String(),
		p.Content, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting paper: %w", err)
	}
	return nil
}

func (r *PostgresPaperRepository) Update(ctx context.Context, p *paper.OriginalPaper) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE original_papers SET content = $2, updated_at = $3 WHERE id = $1`,
		p.ID.String(), p.Content, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating paper: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresPaperRepository) FindByID(ctx context.Context, id kernel.PaperID) (*paper.OriginalPaper, error) {
	var row dbPaper
	err := r.db.GetContext(ctx, &row, `SELECT * FROM original_papers WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("querying paper: %w", err)
	}
	return toDomainPaper(&row), nil
}

func (r *PostgresPaperRepository) FindByCV(ctx context.Context, cvID kernel.CVID) (*paper.OriginalPaper, error) {
	var row dbPaper
	err := r.db.GetContext(ctx, &row, `
		SELECT * FROM original_papers
		WHERE cv_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, cvID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("querying paper by cv: %w", err)
	}
	return toDomainPaper(&row), nil
}

func (r *PostgresPaperRepository) FindByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[paper.OriginalPaper], error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM original_papers WHERE user_id = $1`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("counting papers: %w", err)
	}

	var rows []dbPaper
	err = r.db.SelectContext(ctx, &rows, `
		SELECT * FROM original_papers
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID.String(), opts.PageSize, (opts.Page-1)*opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}

	items := make([]paper.OriginalPaper, 0, len(rows))
	for i := range rows {
		items = append(items, *toDomainPaper(&rows[i]))
	}

	return &kernel.Paginated[paper.OriginalPaper]{
		Items: items,
		Page:  kernel.Page{Number: opts.Page, Size: opts.PageSize, Total: total},
	}, nil
}

func (r *PostgresPaperRepository) Delete(ctx context.Context, id kernel.PaperID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM original_papers WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
