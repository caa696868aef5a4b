package cvinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/loresagaashi/cv-converter-agent/competence/cv"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// PostgresCVRepository implements cv.Repository on PostgreSQL
type PostgresCVRepository struct {
	db *sqlx.DB
}

func NewPostgresCVRepository(db *sqlx.DB) *PostgresCVRepository {
	return &PostgresCVRepository{db: db}
}

type dbCV struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	Status        string         `db:"status"`
	FileName      string         `db:"file_name"`
	FileType      string         `db:"file_type"`
	FilePath      string         `db:"file_path"`
	FileSize      int64          `db:"file_size"`
	ExtractedText sql.NullString `db:"extracted_text"`
	Structured    []byte         `db:"structured"`
	SummaryText   sql.NullString `db:"summary_text"`
	CreatedAt     time.Time      `db:"created_at"`
	ProcessedAt   *time.Time     `db:"processed_at"`
}

func toDBCV(c *cv.CV) (*dbCV, error) {
	structured, err := json.Marshal(c.Structured)
	if err != nil {
		return nil, fmt.Errorf("marshaling structured cv: %w", err)
	}
	return &dbCV{
		ID:            c.ID.String(),
		UserID:        c.UserID.String(),
		Status:        string(c.Status),
		FileName:      c.FileName,
		FileType:      c.FileType,
		FilePath:      c.FilePath,
		FileSize:      c.FileSize,
		ExtractedText: sql.NullString{String: c.ExtractedText, Valid: c.ExtractedText != ""},
		Structured:    structured,
		SummaryText:   sql.NullString{String: c.SummaryText, Valid: c.SummaryText != ""},
		CreatedAt:     c.CreatedAt,
		ProcessedAt:   c.ProcessedAt,
	}, nil
}

func toDomainCV(row *dbCV) (*cv.CV, error) {
	structured := cvstruct.Empty()
	if len(row.Structured) > 0 {
		if err := json.Unmarshal(row.Structured, &structured); err != nil {
			return nil, fmt.Errorf("unmarshaling structured cv: %w", err)
		}
	}
	return &cv.CV{
		ID:            kernel.NewCVID(row.ID),
		UserID:        kernel.NewUserID(row.UserID),
		Status:        cv.Status(row.Status),
		FileName:      row.FileName,
		FileType:      row.FileType,
		FilePath:      row.FilePath,
		FileSize:      row.FileSize,
		ExtractedText: row.ExtractedText.String,
		Structured:    structured,
		SummaryText:   row.SummaryText.String,
		CreatedAt:     row.CreatedAt,
		ProcessedAt:   row.ProcessedAt,
	}, nil
}

func (r *PostgresCVRepository) Save(ctx context.Context, c *cv.CV) error {
	row, err := toDBCV(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cvs (
			id, user_id, status, file_name, file_type, file_path, file_size,
			extracted_text, structured, summary_text, created_at, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.ExecContext(ctx, query,
		row.ID, row.UserID, row.Status, row.FileName, row.FileType, row.FilePath,
		row.FileSize, row.ExtractedText, row.Structured, row.SummaryText,
		row.CreatedAt, row.ProcessedAt)
	if err != nil {
		return fmt.Errorf("inserting cv: %w", err)
	}
	return nil
}

func (r *PostgresCVRepository) Update(ctx context.Context, c *cv.CV) error {
	row, err := toDBCV(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE cvs SET
			status = $2, extracted_text = $3, structured = $4,
			summary_text = $5, processed_at = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		row.ID, row.Status, row.ExtractedText, row.Structured, row.SummaryText, row.ProcessedAt)
	if err != nil {
		return fmt.Errorf("updating cv: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresCVRepository) FindByID(ctx context.Context, id kernel.CVID) (*cv.CV, error) {
	var row dbCV
	err := r.db.GetContext(ctx, &row, `SELECT * FROM cvs WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("querying cv: %w", err)
	}
	return toDomainCV(&row)
}

func (r *PostgresCVRepository) FindByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[cv.CV], error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM cvs WHERE user_id = $1`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("counting cvs: %w", err)
	}

	var rows []dbCV
	err = r.db.SelectContext(ctx, &rows, `
		SELECT * FROM cvs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID.String(), opts.PageSize, (opts.Page-1)*opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("querying cvs: %w", err)
	}

	items := make([]cv.CV, 0, len(rows))
	for i := range rows {
		record, err := toDomainCV(&rows[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *record)
	}

	return &kernel.Paginated[cv.CV]{
		Items: items,
		Page:  kernel.Page{Number: opts.Page, Size: opts.PageSize, Total: total},
	}, nil
}

func (r *PostgresCVRepository) Delete(ctx context.Context, id kernel.CVID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cvs WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("deleting cv: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
