package analytics

import (
	"context"
	"sync"
	"time"

	"folio/folio/services/metrics"
	"folio/folio/sources/psql/models"
	"folio/folio/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultQueueSize = 256
	writeTimeout     = 5 * time.Second
)

// Recorder accepts events without blocking and writes them to a Sink from a
// single worker goroutine. A full queue drops the event.
type Recorder struct {
	sink    Sink
	queue   chan *models.AnalyticsEvent
	metrics *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewRecorder(sink Sink, queueSize int, m *metrics.Metrics) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	r := &Recorder{
		sink:    sink,
		queue:   make(chan *models.AnalyticsEvent, queueSize),
		metrics: m,
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Enqueue assigns an id when missing and hands the event to the worker.
// The id is returned even when the event is dropped.
func (r *Recorder) Enqueue(e *models.AnalyticsEvent) string {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.drop(e, "closed")
		return e.ID.String()
	}
	select {
	case r.queue <- e:
		r.metrics.AnalyticsEvent(e.EventType, "queued")
	default:
		r.drop(e, "queue full")
	}
	return e.ID.String()
}

func (r *Recorder) drop(e *models.AnalyticsEvent, reason string) {
	logging.AppLogger.Warn("Dropping analytics event",
		zap.String("id", e.ID.String()),
		zap.String("event_type", e.EventType),
		zap.String("reason", reason),
	)
	r.metrics.AnalyticsEvent(e.EventType, "dropped")
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.sink.Write(ctx, e)
		cancel()
		if err != nil {
			logging.ErrorLogger.Error("Failed to write analytics event",
				zap.String("id", e.ID.String()),
				zap.String("event_type", e.EventType),
				zap.Error(err),
			)
			r.metrics.AnalyticsEvent(e.EventType, "failed")
			continue
		}
		r.metrics.AnalyticsEvent(e.EventType, "written")
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
