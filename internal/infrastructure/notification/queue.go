package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

// channelQueueCapacity is how many jobs the in-process queue buffers before
// Enqueue blocks.
const channelQueueCapacity = 64

// channelQueue delivers jobs inside the API process through a single worker
// goroutine. This is the eager mode used in development and tests; production
// publishes to the broker instead.
type channelQueue struct {
	jobs       chan *notifications.Job
	dispatcher notifications.Dispatcher
	logger     logger.Logger
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewChannelQueue creates an in-process queue delivering through the given
// dispatcher
func NewChannelQueue(dispatcher notifications.Dispatcher, logger logger.Logger) (notifications.Queue, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher must not be nil")
	}

	queue := &channelQueue{
		jobs:       make(chan *notifications.Job, channelQueueCapacity),
		dispatcher: dispatcher,
		logger:     logger,
	}

	queue.wg.Add(1)
	go queue.run()

	return queue, nil
}

func (q *channelQueue) run() {
	defer q.wg.Done()

	for job := range q.jobs {
		if err := q.dispatcher.Dispatch(context.Background(), job); err != nil {
			q.logger.Error("Failed to deliver notification ", job.ID, ": ", err)
		}
	}
}

// Enqueue submits a job for delivery
func (q *channelQueue) Enqueue(ctx context.Context, job *notifications.Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	select {
	case q.jobs <- job:
		q.logger.Info("Queued ", job.Kind, " notification ", job.ID)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits until the queued ones are delivered
func (q *channelQueue) Close() error {
	q.closeOnce.Do(func() {
		close(q.jobs)
		q.wg.Wait()
	})
	return nil
}
