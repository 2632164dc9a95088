package notify

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hebed-ai/hebed/internal/metrics"
)

const sendTimeout = 30 * time.Second

// Sender delivers a single message
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Queue sends messages in the background. Delivery is best effort: a full queue drops the
// message and a failed send is logged, never retried.
type Queue struct {
	sender Sender
	items  chan Message
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewQueue(sender Sender, size int) *Queue {
	q := &Queue{
		sender: sender,
		items:  make(chan Message, size),
		done:   make(chan struct{}),
	}

	go q.transmit()

	return q
}

// Enqueue schedules m for delivery without blocking. It returns false when the message was dropped.
func (q *Queue) Enqueue(m Message) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordEmail("dropped")
		return false
	}

	select {
	case q.items <- m:
		return true
	default:
		log.WithField("to", m.To).Warnf("mail queue is full, dropping %q", m.Subject)
		metrics.RecordEmail("dropped")
		return false
	}
}

// Close stops accepting messages and waits until queued ones are sent
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.items)
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) transmit() {
	defer close(q.done)

	for m := range q.items {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := q.sender.Send(ctx, m)
		cancel()

		if err != nil {
			log.WithError(err).WithField("to", m.To).Error("failed to send email")
			metrics.RecordEmail("failed")
			continue
		}

		metrics.RecordEmail("sent")
	}
}
