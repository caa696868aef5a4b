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
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// PostgresJobRepository implements cv.JobRepository on PostgreSQL
type PostgresJobRepository struct {
	db *sqlx.DB
}

func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

type dbJob struct {
	ID                 string         `db:"id"`
	UserID             string         `db:"user_id"`
	CVID               sql.NullString `db:"cv_id"`
	Status             string         `db:"status"`
	FilePath           string         `db:"file_path"`
	FileName           string         `db:"file_name"`
	FileType           string         `db:"file_type"`
	AttemptCount       int            `db:"attempt_count"`
	MaxAttempts        int            `db:"max_attempts"`
	ErrorMessage       sql.NullString `db:"error_message"`
	ErrorDetails       []byte         `db:"error_details"`
	CurrentStep        sql.NullString `db:"current_step"`
	ProgressPercentage int            `db:"progress_percentage"`
	CreatedAt          time.Time      `db:"created_at"`
	StartedAt          *time.Time     `db:"started_at"`
	CompletedAt        *time.Time     `db:"completed_at"`
	FailedAt           *time.Time     `db:"failed_at"`
	NextRetryAt        *time.Time     `db:"next_retry_at"`
}

func toDBJob(j *cv.ProcessingJob) (*dbJob, error) {
	var details []byte
	if j.ErrorDetails != nil {
		var err error
		details, err = json.Marshal(j.ErrorDetails)
		if err != nil {
			return nil, fmt.Errorf("marshaling error details: %w", err)
		}
	}

	row := &dbJob{
		ID:                 j.ID.String(),
		UserID:             j.UserID.String(),
		Status:             string(j.Status),
		FilePath:           j.FilePath,
		FileName:           j.FileName,
		FileType:           j.FileType,
		AttemptCount:       j.AttemptCount,
		MaxAttempts:        j.MaxAttempts,
		ErrorMessage:       sql.NullString{String: j.ErrorMessage, Valid: j.ErrorMessage != ""},
		ErrorDetails:       details,
		ProgressPercentage: j.ProgressPercentage,
		CreatedAt:          j.CreatedAt,
		StartedAt:          j.StartedAt,
		CompletedAt:        j.CompletedAt,
		FailedAt:           j.FailedAt,
		NextRetryAt:        j.NextRetryAt,
	}
	if j.CVID != nil {
		row.CVID = sql.NullString{String: j.CVID.String(), Valid: true}
	}
	if j.CurrentStep != nil {
		row.CurrentStep = sql.NullString{String: string(*j.CurrentStep), Valid: true}
	}
	return row, nil
}

func toDomainJob(row *dbJob) (*cv.ProcessingJob, error) {
	job := &cv.ProcessingJob{
		ID:                 kernel.NewJobID(row.ID),
		UserID:             kernel.NewUserID(row.UserID),
		Status:             cv.JobStatus(row.Status),
		FilePath:           row.FilePath,
		FileName:           row.FileName,
		FileType:           row.FileType,
		AttemptCount:       row.AttemptCount,
		MaxAttempts:        row.MaxAttempts,
		ErrorMessage:       row.ErrorMessage.String,
		ProgressPercentage: row.ProgressPercentage,
		CreatedAt:          row.CreatedAt,
		StartedAt:          row.StartedAt,
		CompletedAt:        row.CompletedAt,
		FailedAt:           row.FailedAt,
		NextRetryAt:        row.NextRetryAt,
	}
	if row.CVID.Valid {
		cvID := kernel.NewCVID(row.CVID.String)
		job.CVID = &cvID
	}
	if row.CurrentStep.Valid {
		step := cv.ProcessingStep(row.CurrentStep.String)
		job.CurrentStep = &step
	}
	if len(row.ErrorDetails) > 0 {
		if err := json.Unmarshal(row.ErrorDetails, &job.ErrorDetails); err != nil {
			return nil, fmt.Errorf("unmarshaling error details: %w", err)
		}
	}
	return job, nil
}

func (r *PostgresJobRepository) Save(ctx context.Context, job *cv.ProcessingJob) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	row, err := toDBJob(job)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO processing_jobs (
			id, user_id, cv_id, status, file_path, file_name, file_type,
			attempt_count, max_attempts, error_message, error_details,
			current_step, progress_percentage,
			created_at, started_at, completed_at, failed_at, next_retry_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err = r.db.ExecContext(ctx, query,
		row.ID, row.UserID, row.CVID, row.Status, row.FilePath, row.FileName,
		row.FileType, row.AttemptCount, row.MaxAttempts, row.ErrorMessage,
		row.ErrorDetails, row.CurrentStep, row.ProgressPercentage,
		row.CreatedAt, row.StartedAt, row.CompletedAt, row.FailedAt, row.NextRetryAt)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, job *cv.ProcessingJob) error {
	row, err := toDBJob(job)
	if err != nil {
		return err
	}

	query := `
		UPDATE processing_jobs SET
			cv_id = $2, status = $3, attempt_count = $4,
			error_message = $5, error_details = $6,
			current_step = $7, progress_percentage = $8,
			started_at = $9, completed_at = $10, failed_at = $11, next_retry_at = $12
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		row.ID, row.CVID, row.Status, row.AttemptCount,
		row.ErrorMessage, row.ErrorDetails,
		row.CurrentStep, row.ProgressPercentage,
		row.StartedAt, row.CompletedAt, row.FailedAt, row.NextRetryAt)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, id kernel.JobID) (*cv.ProcessingJob, error) {
	var row dbJob
	err := r.db.GetContext(ctx, &row, `SELECT * FROM processing_jobs WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("querying job: %w", err)
	}
	return toDomainJob(&row)
}

func (r *PostgresJobRepository) FindByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[cv.ProcessingJob], error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM processing_jobs WHERE user_id = $1`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("counting jobs: %w", err)
	}

	var rows []dbJob
	err = r.db.SelectContext(ctx, &rows, `
		SELECT * FROM processing_jobs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID.String(), opts.PageSize, (opts.Page-1)*opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}

	items := make([]cv.ProcessingJob, 0, len(rows))
	for i := range rows {
		job, err := toDomainJob(&rows[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *job)
	}

	return &kernel.Paginated[cv.ProcessingJob]{
		Items: items,
		Page:  kernel.Page{Number: opts.Page, Size: opts.PageSize, Total: total},
	}, nil
}
