package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

const claimBatchSize = 32

// Worker polls the queue and runs due jobs on a pool of goroutines, separate
// from the request-handling process.
type Worker struct {
	queue        *Queue
	orchestrator *Orchestrator
	pollInterval time.Duration
	concurrency  int
	retryDelay   time.Duration
}

func NewWorker(queue *Queue, orchestrator *Orchestrator, pollInterval time.Duration, concurrency int, retryDelay time.Duration) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		queue:        queue,
		orchestrator: orchestrator,
		pollInterval: pollInterval,
		concurrency:  concurrency,
		retryDelay:   retryDelay,
	}
}

// Run polls until ctx is cancelled
func (w *Worker) Run(ctx context.Context) {
	jobCh := make(chan AutoReplyJob)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				w.process(ctx, job)
			}
		}()
	}

	log.Printf("Auto-reply worker started (concurrency=%d)", w.concurrency)
	if depth, err := w.queue.Depth(); err == nil {
		log.Printf("Auto-reply queue depth: %d pending", depth)
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(jobCh)
			wg.Wait()
			log.Println("Auto-reply worker stopped")
			return
		case <-ticker.C:
			due, err := w.queue.Due(claimBatchSize)
			if err != nil {
				log.Printf("Failed to claim due jobs: %v", err)
				continue
			}
			for _, job := range due {
				select {
				case jobCh <- job:
				case <-ctx.Done():
					// Put unclaimed work back so a later worker picks it up
					if err := w.queue.Requeue(job, 0); err != nil {
						log.Printf("Failed to requeue job for comment %s on shutdown: %v", job.CommentID, err)
					}
				}
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, job AutoReplyJob) {
	outcome, err := w.orchestrator.Process(ctx, job)
	if err != nil {
		log.Printf("Auto-reply job for comment %s failed, requeueing: %v", job.CommentID, err)
		if reqErr := w.queue.Requeue(job, w.retryDelay); reqErr != nil {
			log.Printf("Failed to requeue job for comment %s: %v", job.CommentID, reqErr)
		}
		return
	}

	log.Printf("Auto-reply job for comment %s finished: %s", job.CommentID, outcome)
}
