package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

const (
	// jobsSubject is the subject notification jobs travel on. The worker
	// binary subscribes to the same subject.
	jobsSubject = "notifications.jobs"

	// workerQueueGroup makes concurrent workers share the subject instead
	// of each receiving every job.
	workerQueueGroup = "bike-service-workers"

	natsConnectTimeout = 5 * time.Second
)

// natsQueue publishes jobs to the broker for the worker binary to deliver.
type natsQueue struct {
	conn   *nats.Conn
	logger logger.Logger
}

// NewNATSQueue connects to the broker and creates a publishing Queue
func NewNATSQueue(brokerURL string, logger logger.Logger) (notifications.Queue, error) {
	conn, err := connectNATS(brokerURL)
	if err != nil {
		return nil, err
	}

	return &natsQueue{conn: conn, logger: logger}, nil
}

// Enqueue publishes a job to the jobs subject
func (q *natsQueue) Enqueue(ctx context.Context, job *notifications.Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	if err := q.conn.Publish(jobsSubject, payload); err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Published ", job.Kind, " notification ", job.ID)
	return nil
}

// Close drains the connection so published jobs reach the broker
func (q *natsQueue) Close() error {
	if err := q.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain broker connection: %w", err)
	}
	return nil
}

// NATSConsumer subscribes to the jobs subject and hands each decoded job to
// the dispatcher. The worker binary runs one consumer; scaling out adds more
// workers to the same queue group.
type NATSConsumer struct {
	conn       *nats.Conn
	sub        *nats.Subscription
	dispatcher notifications.Dispatcher
	logger     logger.Logger
}

// NewNATSConsumer connects to the broker and creates a consumer
func NewNATSConsumer(brokerURL string, dispatcher notifications.Dispatcher, logger logger.Logger) (*NATSConsumer, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher must not be nil")
	}

	conn, err := connectNATS(brokerURL)
	if err != nil {
		return nil, err
	}

	return &NATSConsumer{conn: conn, dispatcher: dispatcher, logger: logger}, nil
}

// Start subscribes to the jobs subject and delivers until Close is called
func (c *NATSConsumer) Start() error {
	sub, err := c.conn.QueueSubscribe(jobsSubject, workerQueueGroup, func(msg *nats.Msg) {
		var job notifications.Job
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			c.logger.Error("Dropping undecodable notification job: ", err)
			return
		}

		if err := c.dispatcher.Dispatch(context.Background(), &job); err != nil {
			c.logger.Error("Failed to deliver notification ", job.ID, ": ", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", jobsSubject, err)
	}

	c.sub = sub
	c.logger.Info("Consuming notification jobs from ", jobsSubject)
	return nil
}

// Close stops the subscription and lets in-flight deliveries finish
func (c *NATSConsumer) Close() error {
	if err := c.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain broker connection: %w", err)
	}
	return nil
}

func connectNATS(brokerURL string) (*nats.Conn, error) {
	if brokerURL == "" {
		return nil, fmt.Errorf("broker URL must not be empty")
	}

	conn, err := nats.Connect(brokerURL,
		nats.Name("bike-service"),
		nats.Timeout(natsConnectTimeout),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker at %s: %w", brokerURL, err)
	}
	return conn, nil
}
