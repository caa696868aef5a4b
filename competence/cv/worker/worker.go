package worker

import (
	"context"
	"sync"
	"time"

	"github.com/loresagaashi/cv-converter-agent/competence/cv"
	"github.com/loresagaashi/cv-converter-agent/competence/cv/cvsrv"
	"github.com/loresagaashi/cv-converter-agent/pkg/logx"
)

const (
	dequeueTimeout       = 5 * time.Second
	delayedMoverInterval = 30 * time.Second
)

// Pool runs CV processing jobs off the queue on a fixed number of
// goroutines, with a side loop promoting delayed retries
type Pool struct {
	service *cvsrv.Service
	queue   cv.Queue
	size    int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewPool(service *cvsrv.Service, queue cv.Queue, size int) *Pool {
	if size <= 0 {
		size = 2
	}
	return &Pool{
		service: service,
		queue:   queue,
		size:    size,
	}
}

// Start launches the workers. They run until Stop is called.
func (p *Pool) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}

	p.wg.Add(1)
	go p.runDelayedMover(ctx)

	logx.Infof("Started %d CV processing workers", p.size)
}

// Stop signals the workers and waits for in-flight jobs to finish
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	logx.Infof("CV processing workers stopped")
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		jobID, err := p.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logx.Errorf("Worker %d dequeue failed: %v", id, err)
			time.Sleep(time.Second)
			continue
		}
		if jobID == nil {
			continue
		}

		logx.Infof("Worker %d picked up job %s", id, *jobID)
		if err := p.service.ProcessJob(ctx, *jobID); err != nil {
			logx.Errorf("Worker %d job %s failed permanently: %v", id, *jobID, err)
		}
	}
}

func (p *Pool) runDelayedMover(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(delayedMoverInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.queue.MoveDelayedToReady(ctx); err != nil {
				logx.Errorf("Failed to promote delayed jobs: %v", err)
			}
		}
	}
}
