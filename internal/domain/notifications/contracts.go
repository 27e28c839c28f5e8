package notifications

import "context"

// LogRepository defines methods for managing order notification logs in a
// repository
type LogRepository interface {
	// Create creates a new log row
	Create(ctx context.Context, log *ServiceOrderLog) error
	// ListByOrderID lists an order's log rows, newest first
	ListByOrderID(ctx context.Context, orderID int64) ([]*ServiceOrderLog, error)
}

// Queue hands notification jobs to the delivery side
type Queue interface {
	// Enqueue submits a job for delivery
	Enqueue(ctx context.Context, job *Job) error
	// Close releases the queue's resources
	Close() error
}

// Email is one outbound mail message. At most one attachment is carried,
// which is how the service protocol PDF travels.
type Email struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Mailer is an interface for delivering emails through a mail transport
type Mailer interface {
	// Send delivers a single email
	Send(ctx context.Context, email *Email) error
}

// SMSSender is an interface for delivering text messages to customer phones
type SMSSender interface {
	// Send delivers one text message to the given phone number
	Send(ctx context.Context, phone, text string) error
}

// Dispatcher turns a queued job into a delivered message
type Dispatcher interface {
	// Dispatch composes and delivers one job
	Dispatch(ctx context.Context, job *Job) error
}
