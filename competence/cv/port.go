package cv

import (
	"context"
	"time"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// Repository persists CVs
type Repository interface {
	Save(ctx context.Context, cv *CV) error
	Update(ctx context.Context, cv *CV) error
	FindByID(ctx context.Context, id kernel.CVID) (*CV, error)
	FindByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[CV], error)
	Delete(ctx context.Context, id kernel.CVID) error
}

// JobRepository persists processing jobs
type JobRepository interface {
	Save(ctx context.Context, job *ProcessingJob) error
	Update(ctx context.Context, job *ProcessingJob) error
	FindByID(ctx context.Context, id kernel.JobID) (*ProcessingJob, error)
	FindByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[ProcessingJob], error)
}

// Queue feeds jobs to the worker pool. Delayed entries become visible to
// Dequeue only after MoveDelayedToReady promotes them.
type Queue interface {
	Enqueue(ctx context.Context, jobID kernel.JobID) error
	EnqueueDelayed(ctx context.Context, jobID kernel.JobID, delay time.Duration) error
	Dequeue(ctx context.Context, timeout time.Duration) (*kernel.JobID, error)
	MoveDelayedToReady(ctx context.Context) (int, error)
}
